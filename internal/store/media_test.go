package store

import (
	"context"
	"testing"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMedia(id, eventID, storageKey string) *domain.Media {
	m := &domain.Media{
		Syncable:   domain.Syncable{ID: id},
		EventID:    eventID,
		UploaderID: "usr-host1",
		StorageKey: storageKey,
		URL:        "/media/" + storageKey,
		Type:       domain.MediaTypeImage,
	}
	m.InitTimestamps()
	return m
}

func TestCreateMedia(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	m := newTestMedia("med-1", "evt-1", "abc123.jpg")
	require.NoError(t, store.CreateMedia(ctx, m))

	retrieved, err := store.GetMedia(ctx, "med-1")
	require.NoError(t, err)
	assert.Equal(t, "abc123.jpg", retrieved.StorageKey)
	assert.Equal(t, domain.MediaTypeImage, retrieved.Type)

	err = store.CreateMedia(ctx, m)
	assert.ErrorIs(t, err, ErrMediaExists)
}

func TestGetMediaByStorageKey(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	m := newTestMedia("med-1", "evt-1", "abc123.jpg")
	require.NoError(t, store.CreateMedia(ctx, m))

	retrieved, err := store.GetMediaByStorageKey(ctx, "abc123.jpg")
	require.NoError(t, err)
	assert.Equal(t, "med-1", retrieved.ID)

	_, err = store.GetMediaByStorageKey(ctx, "missing.jpg")
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func TestListMediaByEvent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateMedia(ctx, newTestMedia("med-1", "evt-1", "a.jpg")))
	require.NoError(t, store.CreateMedia(ctx, newTestMedia("med-2", "evt-1", "b.jpg")))
	require.NoError(t, store.CreateMedia(ctx, newTestMedia("med-3", "evt-2", "c.jpg")))

	items, err := store.ListMediaByEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestDeleteMedia(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	m := newTestMedia("med-1", "evt-1", "abc123.jpg")
	require.NoError(t, store.CreateMedia(ctx, m))

	require.NoError(t, store.DeleteMedia(ctx, "med-1"))

	_, err := store.GetMedia(ctx, "med-1")
	assert.ErrorIs(t, err, ErrMediaNotFound)

	_, err = store.GetMediaByStorageKey(ctx, "abc123.jpg")
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func TestInvitationCRUD(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	inv := &domain.Invitation{
		Syncable:  domain.Syncable{ID: "inv-1"},
		EventID:   "evt-1",
		CreatorID: "usr-host1",
		Text:      "Join us under the chuppah",
	}
	inv.InitTimestamps()
	require.NoError(t, store.CreateInvitation(ctx, inv))

	retrieved, err := store.GetInvitation(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, inv.Text, retrieved.Text)

	retrieved.Text = "Save the date"
	require.NoError(t, store.UpdateInvitation(ctx, retrieved))

	retrieved, err = store.GetInvitation(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "Save the date", retrieved.Text)

	items, err := store.ListInvitationsByEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, store.DeleteInvitation(ctx, "inv-1"))
	_, err = store.GetInvitation(ctx, "inv-1")
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	items, err = store.ListInvitationsByEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTableCRUD(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	table := &domain.Table{
		Syncable: domain.Syncable{ID: "tbl-1"},
		EventID:  "evt-1",
		Name:     "Groom's family",
		Capacity: 12,
		PosX:     10.5,
		PosY:     20,
	}
	table.InitTimestamps()
	require.NoError(t, store.CreateTable(ctx, table))

	retrieved, err := store.GetTable(ctx, "tbl-1")
	require.NoError(t, err)
	assert.Equal(t, 12, retrieved.Capacity)
	assert.Equal(t, 10.5, retrieved.PosX)

	retrieved.Capacity = 14
	require.NoError(t, store.UpdateTable(ctx, retrieved))

	retrieved, err = store.GetTable(ctx, "tbl-1")
	require.NoError(t, err)
	assert.Equal(t, 14, retrieved.Capacity)

	tables, err := store.ListTablesByEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Len(t, tables, 1)

	require.NoError(t, store.DeleteTable(ctx, "tbl-1"))
	_, err = store.GetTable(ctx, "tbl-1")
	assert.ErrorIs(t, err, ErrTableNotFound)
}
