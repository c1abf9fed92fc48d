package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist().(*memoryBlacklist)

	now := time.Unix(1700000000, 0)
	bl.now = func() time.Time { return now }

	ok, err := bl.Contains(ctx, "tok")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, bl.Add(ctx, "tok", time.Minute))

	ok, _ = bl.Contains(ctx, "tok")
	assert.True(t, ok)

	// After the TTL the entry is gone.
	now = now.Add(2 * time.Minute)
	ok, _ = bl.Contains(ctx, "tok")
	assert.False(t, ok)

	// And it was pruned, not just hidden.
	assert.Empty(t, bl.entries)
}
