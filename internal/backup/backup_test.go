package backup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/store"
)

func setupTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := NewService(st, t.TempDir(), "test", slog.New(slog.DiscardHandler))
	return svc, st
}

func seedData(t *testing.T, st *store.Store) *domain.Event {
	t.Helper()
	ctx := context.Background()

	user := &domain.User{
		Syncable: domain.Syncable{ID: "usr_backup1"},
		Email:    "host@example.com",
		Role:     domain.RoleHost,
	}
	user.InitTimestamps()
	require.NoError(t, st.CreateUser(ctx, user))

	event := &domain.Event{
		Syncable: domain.Syncable{ID: "evt_backup1"},
		OwnerIDs: []string{user.ID},
		Title:    "Wedding",
		Type:     domain.EventTypeWedding,
	}
	event.InitTimestamps()
	require.NoError(t, st.CreateEvent(ctx, event))

	return event
}

func TestService_CreateAndList(t *testing.T) {
	svc, st := setupTestService(t)
	ctx := context.Background()

	seedData(t, st)

	result, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Checksum)
	assert.Equal(t, 1, result.Counts.Users)
	assert.Equal(t, 1, result.Counts.Events)
	assert.FileExists(t, result.Path)

	backups, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, result.ID, backups[0].ID)

	got, err := svc.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Path, got.Path)
}

func TestService_RestoreRoundTrip(t *testing.T) {
	svc, st := setupTestService(t)
	ctx := context.Background()

	event := seedData(t, st)

	result, err := svc.Create(ctx)
	require.NoError(t, err)

	// Mutate after the snapshot; restore must roll it back.
	extra := &domain.Event{
		Syncable: domain.Syncable{ID: "evt_after"},
		OwnerIDs: []string{"usr_backup1"},
		Title:    "Added after backup",
		Type:     domain.EventTypeParty,
	}
	extra.InitTimestamps()
	require.NoError(t, st.CreateEvent(ctx, extra))

	require.NoError(t, svc.Restore(ctx, result.ID))

	restored, err := st.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wedding", restored.Title)

	_, err = st.GetEvent(ctx, "evt_after")
	assert.ErrorIs(t, err, store.ErrEventNotFound)
}

func TestService_RestoreRejectsCorruptedArchive(t *testing.T) {
	svc, st := setupTestService(t)
	ctx := context.Background()

	seedData(t, st)

	result, err := svc.Create(ctx)
	require.NoError(t, err)

	// Flip bytes in the middle of the archive. Either the zip reader or
	// the checksum must catch it, and the database stays intact.
	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	mid := len(data) / 2
	data[mid] ^= 0xFF
	data[mid+1] ^= 0xFF
	require.NoError(t, os.WriteFile(result.Path, data, 0o644))

	err = svc.Restore(ctx, result.ID)
	require.Error(t, err)

	_, err = st.GetEvent(ctx, "evt_backup1")
	assert.NoError(t, err)
}

func TestService_GetAndDeleteMissing(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "backup-nope")
	assert.ErrorIs(t, err, ErrBackupNotFound)

	err = svc.Delete(ctx, "backup-nope")
	assert.ErrorIs(t, err, ErrBackupNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, st := setupTestService(t)
	ctx := context.Background()

	seedData(t, st)

	result, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, result.ID))
	assert.NoFileExists(t, filepath.Join(svc.backupDir, result.ID+backupExt))

	backups, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, backups)
}
