package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_bookings",
		SQL: `CREATE TABLE IF NOT EXISTS bookings (
  id            UUID        PRIMARY KEY,
  name          TEXT        NOT NULL,
  date_from     DATE        NOT NULL,
  date_to       DATE        NOT NULL,
  country       TEXT        NOT NULL DEFAULT '',
  pax           INT         NOT NULL DEFAULT 0,
  ladies        INT         NOT NULL DEFAULT 0,
  men           INT         NOT NULL DEFAULT 0,
  children      INT         NOT NULL DEFAULT 0,
  teens         INT         NOT NULL DEFAULT 0,
  agent         TEXT        NOT NULL DEFAULT '',
  consultant    TEXT        NOT NULL DEFAULT '',
  user_id       TEXT        NOT NULL,
  itinerary_url TEXT        NOT NULL DEFAULT '',
  is_deleted    BOOLEAN     NOT NULL DEFAULT FALSE,
  deleted_at    TIMESTAMPTZ,
  deleted_by    TEXT,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_bookings_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings (user_id) WHERE NOT is_deleted;`,
	},
	{
		Name: "create_index_bookings_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings (created_at);`,
	},
	{
		Name: "create_table_booking_documents",
		SQL: `CREATE TABLE IF NOT EXISTS booking_documents (
  id              UUID        PRIMARY KEY,
  booking_id      UUID        NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
  filename        TEXT        NOT NULL,
  stored_filename TEXT        NOT NULL,
  category        TEXT        NOT NULL,
  size            BIGINT      NOT NULL CHECK (size >= 0),
  mime_type       TEXT        NOT NULL,
  url             TEXT        NOT NULL,
  path            TEXT        NOT NULL,
  storage_type    TEXT        NOT NULL,
  uploaded_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  uploaded_by     TEXT        NOT NULL
);`,
	},
	{
		Name: "create_index_booking_documents_booking_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_booking_documents_booking_id ON booking_documents (booking_id, uploaded_at DESC);`,
	},
	{
		Name: "create_index_booking_documents_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_booking_documents_category ON booking_documents (booking_id, category);`,
	},
	{
		Name: "create_table_share_tokens",
		SQL: `CREATE TABLE IF NOT EXISTS share_tokens (
  token      TEXT        PRIMARY KEY,
  booking_id UUID        NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
  categories JSONB       NOT NULL,
  expires_at TIMESTAMPTZ NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_by TEXT        NOT NULL,
  used_count INT         NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_index_share_tokens_booking_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_share_tokens_booking_id ON share_tokens (booking_id, created_at DESC);`,
	},
	{
		Name: "create_index_share_tokens_expires_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_share_tokens_expires_at ON share_tokens (expires_at);`,
	},
}

// EnsureMigrated creates the schema when the sentinel table is absent. Steps
// are idempotent, so a partially applied run is safe to repeat.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.bookings') IS NOT NULL").Scan(&exists); err != nil {
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info("schema already exists, skipping migration")
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed",
				zap.String("step", step.Name), zap.Error(err))
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("migration step applied",
			zap.String("step", step.Name),
			zap.Duration("took", time.Since(stepStart)))
	}

	log.Info("migrations complete", zap.Duration("took", time.Since(start)))
	return nil
}
