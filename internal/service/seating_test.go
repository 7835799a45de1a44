package service

import (
	"context"
	"testing"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seatingFixture sets up an event with one table and two guests.
func seatingFixture(t *testing.T, env *testEnv) (host *domain.User, event *domain.Event, table *domain.Table, guests []*domain.Participant) {
	t.Helper()
	ctx := context.Background()

	host = registerHost(t, env, "host@example.com")
	event = createEvent(t, env, host.ID)

	var err error
	table, err = env.seating.CreateTable(ctx, host.ID, event.ID, CreateTableRequest{
		Name:     "Family",
		Capacity: 8,
		PosX:     120,
		PosY:     45,
	})
	require.NoError(t, err)

	results, err := env.participants.BulkAdd(ctx, host.ID, event.ID, []AddParticipantItem{
		{Name: "Dana", Phone: "0521234567"},
		{Name: "Omer", Phone: "0547654321"},
	})
	require.NoError(t, err)
	for _, r := range results {
		require.NotNil(t, r.Participant)
		guests = append(guests, r.Participant)
	}
	return host, event, table, guests
}

func TestSeatingService_CreateTable_Validation(t *testing.T) {
	env := setupServices(t)

	host := registerHost(t, env, "host@example.com")
	event := createEvent(t, env, host.ID)

	_, err := env.seating.CreateTable(context.Background(), host.ID, event.ID, CreateTableRequest{
		Name:     "Too big",
		Capacity: 500,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestSeatingService_AssignAndUnassign(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	host, event, table, guests := seatingFixture(t, env)

	seated, err := env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
		ParticipantID: guests[0].ID,
		SeatIndex:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, table.ID, seated.TableID)
	assert.Equal(t, 3, seated.SeatIndex)
	assert.True(t, seated.IsSeated())

	unseated, err := env.seating.Unassign(ctx, host.ID, event.ID, table.ID, UnassignSeatRequest{
		ParticipantID: guests[0].ID,
	})
	require.NoError(t, err)
	assert.False(t, unseated.IsSeated())
}

func TestSeatingService_Assign_SeatTaken(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	host, event, table, guests := seatingFixture(t, env)

	_, err := env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
		ParticipantID: guests[0].ID,
		SeatIndex:     0,
	})
	require.NoError(t, err)

	_, err = env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
		ParticipantID: guests[1].ID,
		SeatIndex:     0,
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestSeatingService_Assign_SeatOutOfRange(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	host, event, table, guests := seatingFixture(t, env)

	_, err := env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
		ParticipantID: guests[0].ID,
		SeatIndex:     8, // seats run 0..7 at capacity 8
	})
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
}

func TestSeatingService_Assign_MovesGuestBetweenSeats(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	host, event, table, guests := seatingFixture(t, env)

	_, err := env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
		ParticipantID: guests[0].ID,
		SeatIndex:     0,
	})
	require.NoError(t, err)

	moved, err := env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
		ParticipantID: guests[0].ID,
		SeatIndex:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, moved.SeatIndex)

	// The old seat is free again
	_, err = env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
		ParticipantID: guests[1].ID,
		SeatIndex:     0,
	})
	require.NoError(t, err)
}

func TestSeatingService_UpdateTable_ShrinkBelowOccupiedSeat(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	host, event, table, guests := seatingFixture(t, env)

	_, err := env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
		ParticipantID: guests[0].ID,
		SeatIndex:     6,
	})
	require.NoError(t, err)

	smaller := 4
	_, err = env.seating.UpdateTable(ctx, host.ID, event.ID, table.ID, UpdateTableRequest{
		Capacity: &smaller,
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// Shrinking above the highest occupied seat is fine
	ok := 7
	updated, err := env.seating.UpdateTable(ctx, host.ID, event.ID, table.ID, UpdateTableRequest{
		Capacity: &ok,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Capacity)
}

func TestSeatingService_DeleteTable_UnseatsGuests(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	host, event, table, guests := seatingFixture(t, env)

	for i, g := range guests {
		_, err := env.seating.Assign(ctx, host.ID, event.ID, table.ID, AssignSeatRequest{
			ParticipantID: g.ID,
			SeatIndex:     i,
		})
		require.NoError(t, err)
	}

	require.NoError(t, env.seating.DeleteTable(ctx, host.ID, event.ID, table.ID))

	for _, g := range guests {
		p, err := env.participants.Get(ctx, host.ID, event.ID, g.ID)
		require.NoError(t, err)
		assert.False(t, p.IsSeated())
	}

	tables, err := env.seating.ListTables(ctx, host.ID, event.ID)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestSeatingService_CrossEventTableHidden(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	host, _, table, _ := seatingFixture(t, env)

	otherEvent := createEvent(t, env, host.ID)

	_, err := env.seating.UpdateTable(ctx, host.ID, otherEvent.ID, table.ID, UpdateTableRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
