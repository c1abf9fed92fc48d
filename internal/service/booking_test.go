package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripdocs/internal/model"
	repoMocks "tripdocs/internal/repository/mocks"
	. "tripdocs/internal/service"
	svcMocks "tripdocs/internal/service/mocks"
)

var csvHeader = ExportCSVHeader

type bookingFixture struct {
	bookings *repoMocks.MockBookingRepository
	shares   *svcMocks.MockShareService
	svc      BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		bookings: new(repoMocks.MockBookingRepository),
		shares:   new(svcMocks.MockShareService),
	}
	f.svc = NewBookingService(f.bookings, f.shares, zap.NewNop())
	return f
}

func validInput() BookingInput {
	return BookingInput{
		Name:     "Tanzania Honeymoon",
		DateFrom: "06/15/2026",
		DateTo:   "06/28/2026",
		Country:  "Tanzania",
		Pax:      2,
		Ladies:   1,
		Men:      1,
		Agent:    "GoTravel",
	}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()
	user := model.Identity{ID: "u1", Role: model.RoleUser}
	admin := model.Identity{ID: "staff", Role: model.RoleAdmin}

	t.Run("creates booking and auto share link", func(t *testing.T) {
		f := newBookingFixture(t)
		f.bookings.On("Create", ctx, mock.MatchedBy(func(b *model.Booking) bool {
			return b.Name == "Tanzania Honeymoon" &&
				b.UserID == "u1" &&
				b.DateFrom.Equal(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)) &&
				b.ID != ""
		})).Return(&model.Booking{ID: "b1", Name: "Tanzania Honeymoon", UserID: "u1"}, nil)
		f.shares.On("AutoGenerate", ctx, "b1", "u1").Return()

		b, err := f.svc.Create(ctx, user, validInput())
		require.NoError(t, err)
		assert.Equal(t, "b1", b.ID)
		f.shares.AssertNumberOfCalls(t, "AutoGenerate", 1)
	})

	t.Run("admin may assign owner", func(t *testing.T) {
		f := newBookingFixture(t)
		in := validInput()
		in.UserID = "customer-7"
		f.bookings.On("Create", ctx, mock.MatchedBy(func(b *model.Booking) bool {
			return b.UserID == "customer-7"
		})).Return(&model.Booking{ID: "b2", UserID: "customer-7"}, nil)
		f.shares.On("AutoGenerate", ctx, "b2", "staff").Return()

		_, err := f.svc.Create(ctx, admin, in)
		assert.NoError(t, err)
	})

	t.Run("regular user cannot assign owner", func(t *testing.T) {
		f := newBookingFixture(t)
		in := validInput()
		in.UserID = "someone-else"
		f.bookings.On("Create", ctx, mock.MatchedBy(func(b *model.Booking) bool {
			return b.UserID == "u1"
		})).Return(&model.Booking{ID: "b3", UserID: "u1"}, nil)
		f.shares.On("AutoGenerate", ctx, "b3", "u1").Return()

		_, err := f.svc.Create(ctx, user, in)
		assert.NoError(t, err)
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*BookingInput)
		}{
			{"missing name", func(in *BookingInput) { in.Name = "" }},
			{"bad date_from", func(in *BookingInput) { in.DateFrom = "2026-06-15" }},
			{"bad date_to", func(in *BookingInput) { in.DateTo = "next tuesday" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newBookingFixture(t)
				in := validInput()
				tt.mutate(&in)

				_, err := f.svc.Create(ctx, user, in)
				assert.ErrorIs(t, err, ErrInvalidBooking)
				f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestBookingService_List(t *testing.T) {
	ctx := context.Background()

	f := newBookingFixture(t)
	f.bookings.On("ListActive", ctx, "u1").Return([]model.Booking{{ID: "b1"}}, nil)
	f.bookings.On("ListActive", ctx, "").Return([]model.Booking{{ID: "b1"}, {ID: "b2"}}, nil)

	mine, err := f.svc.List(ctx, model.Identity{ID: "u1", Role: model.RoleUser})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.List(ctx, model.Identity{ID: "staff", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBookingService_Trash(t *testing.T) {
	ctx := context.Background()
	user := model.Identity{ID: "u1", Role: model.RoleUser}
	admin := model.Identity{ID: "staff", Role: model.RoleAdmin}

	t.Run("move and restore", func(t *testing.T) {
		f := newBookingFixture(t)
		f.bookings.On("FindByID", ctx, "b1").Return(&model.Booking{ID: "b1", UserID: "u1"}, nil)
		f.bookings.On("MoveToTrash", ctx, "b1", "u1").Return(nil)
		f.bookings.On("Restore", ctx, "b1").Return(nil)

		assert.NoError(t, f.svc.MoveToTrash(ctx, "b1", user))
		assert.NoError(t, f.svc.Restore(ctx, "b1", user))
	})

	t.Run("trash listing is admin only", func(t *testing.T) {
		f := newBookingFixture(t)
		f.bookings.On("ListTrashed", ctx).Return([]model.Booking{{ID: "b9"}}, nil)

		_, err := f.svc.ListTrashed(ctx, user)
		assert.ErrorIs(t, err, ErrUnauthorized)

		trashed, err := f.svc.ListTrashed(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, trashed, 1)
	})

	t.Run("empty trash is admin only", func(t *testing.T) {
		f := newBookingFixture(t)
		f.bookings.On("EmptyTrash", ctx).Return(int64(3), nil)

		_, err := f.svc.EmptyTrash(ctx, user)
		assert.ErrorIs(t, err, ErrUnauthorized)
		f.bookings.AssertNotCalled(t, "EmptyTrash", mock.Anything)

		n, err := f.svc.EmptyTrash(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestBookingService_ImportCSV(t *testing.T) {
	ctx := context.Background()
	user := model.Identity{ID: "u1", Role: model.RoleUser}

	t.Run("imports rows with reordered columns", func(t *testing.T) {
		f := newBookingFixture(t)
		var created []*model.Booking
		f.bookings.On("Create", ctx, mock.AnythingOfType("*model.Booking")).
			Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*model.Booking)) }).
			Return(&model.Booking{ID: "x"}, nil)

		input := strings.Join([]string{
			"country,name,date_from,date_to,pax,ladies,men,children,teens,agent,consultant",
			"Kenya,Masai Mara Trip,07/01/2026,07/10/2026,4,2,2,0,0,GoTravel,Alice",
			"Tanzania,Kili Climb,08/05/2026,08/12/2026,2,0,2,0,0,,Bob",
		}, "\n")

		n, err := f.svc.ImportCSV(ctx, user, strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		require.Len(t, created, 2)
		assert.Equal(t, "Masai Mara Trip", created[0].Name)
		assert.Equal(t, "Kenya", created[0].Country)
		assert.Equal(t, 4, created[0].Pax)
		assert.Equal(t, "u1", created[0].UserID)
		assert.Equal(t, "Bob", created[1].Consultant)
	})

	t.Run("missing column", func(t *testing.T) {
		f := newBookingFixture(t)
		input := "name,date_from,date_to\nTrip,07/01/2026,07/10/2026\n"

		_, err := f.svc.ImportCSV(ctx, user, strings.NewReader(input))
		assert.ErrorIs(t, err, ErrInvalidBooking)
		assert.ErrorContains(t, err, "country")
	})

	t.Run("bad row stops with partial count", func(t *testing.T) {
		f := newBookingFixture(t)
		f.bookings.On("Create", ctx, mock.Anything).Return(&model.Booking{ID: "x"}, nil)

		input := strings.Join([]string{
			"name,date_from,date_to,country,pax,ladies,men,children,teens,agent,consultant",
			"Good Trip,07/01/2026,07/10/2026,Kenya,2,1,1,0,0,,",
			"Bad Trip,not-a-date,07/10/2026,Kenya,2,1,1,0,0,,",
		}, "\n")

		n, err := f.svc.ImportCSV(ctx, user, strings.NewReader(input))
		assert.ErrorIs(t, err, ErrInvalidBooking)
		assert.Equal(t, 1, n)
	})
}

func TestBookingService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	f.bookings.On("ListActive", ctx, "u1").Return([]model.Booking{
		{
			Name:     "Masai Mara Trip",
			DateFrom: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
			Country:  "Kenya",
			Pax:      4, Ladies: 2, Men: 2,
			Agent: "GoTravel", Consultant: "Alice",
		},
	}, nil)

	var buf bytes.Buffer
	err := f.svc.ExportCSV(ctx, model.Identity{ID: "u1", Role: model.RoleUser}, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(csvHeader, ","), lines[0])
	assert.Equal(t, "Masai Mara Trip,07/01/2026,07/10/2026,Kenya,4,2,2,0,0,GoTravel,Alice", lines[1])
}
