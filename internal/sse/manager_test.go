package sse

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hagigaapp/hagiga-server/internal/domain"
)

func newTestManager(t *testing.T) (*Manager, context.CancelFunc) {
	t.Helper()
	m := NewManager(slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(func() {
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
		defer shutdownCancel()
		_ = m.Shutdown(shutdownCtx)
	})
	return m, cancel
}

func testParticipant(eventID string) *domain.Participant {
	p := &domain.Participant{
		Syncable: domain.Syncable{ID: "prt_test1"},
		EventID:  eventID,
		Name:     "Dana",
		Phone:    "0521234567",
		Status:   domain.ParticipantStatusInvited,
	}
	p.InitTimestamps()
	return p
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event := <-client.EventChan:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_DeliversToConnectedClient(t *testing.T) {
	m, _ := newTestManager(t)

	client, err := m.Connect("evt_1")
	require.NoError(t, err)
	defer m.Disconnect(client.ID)

	m.Emit(NewParticipantEvent(EventParticipantAdded, testParticipant("evt_1")))

	event := receiveEvent(t, client)
	assert.Equal(t, EventParticipantAdded, event.Type)
	assert.Equal(t, "evt_1", event.EventID)
}

func TestManager_ScopesDeliveryByEvent(t *testing.T) {
	m, _ := newTestManager(t)

	watching, err := m.Connect("evt_1")
	require.NoError(t, err)
	defer m.Disconnect(watching.ID)

	other, err := m.Connect("evt_2")
	require.NoError(t, err)
	defer m.Disconnect(other.ID)

	m.Emit(NewParticipantRemovedEvent("evt_1", "prt_gone"))

	event := receiveEvent(t, watching)
	assert.Equal(t, EventParticipantRemoved, event.Type)

	select {
	case event := <-other.EventChan:
		t.Fatalf("client for evt_2 received %s for evt_1", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestManager_DisconnectRemovesClient(t *testing.T) {
	m, _ := newTestManager(t)

	client, err := m.Connect("evt_1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.ClientCount())

	m.Disconnect(client.ID)
	assert.Equal(t, 0, m.ClientCount())

	select {
	case <-client.Done:
	case <-time.After(time.Second):
		t.Fatal("expected Done to be closed on disconnect")
	}
}

func TestManager_ShutdownClosesClients(t *testing.T) {
	m := NewManager(slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	client, err := m.Connect("evt_1")
	require.NoError(t, err)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	require.NoError(t, m.Shutdown(shutdownCtx))

	select {
	case <-client.Done:
	case <-time.After(time.Second):
		t.Fatal("expected Done to be closed on shutdown")
	}

	// Emit after shutdown must not panic or block.
	m.Emit(NewHeartbeatEvent())
}

func TestBroadcaster_ForwardsImportFinished(t *testing.T) {
	m, _ := newTestManager(t)

	client, err := m.Connect("evt_1")
	require.NoError(t, err)
	defer m.Disconnect(client.ID)

	job := &domain.ImportJob{
		Syncable: domain.Syncable{ID: "imp_test1"},
		EventID:  "evt_1",
		Status:   domain.ImportStatusDone,
	}
	job.InitTimestamps()

	NewBroadcaster(m).ImportFinished(job)

	event := receiveEvent(t, client)
	assert.Equal(t, EventImportFinished, event.Type)
	data, ok := event.Data.(ImportEventData)
	require.True(t, ok)
	assert.Equal(t, "imp_test1", data.Job.ID)
}
