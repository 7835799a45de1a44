package files

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveOpenDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("name,phone\nDana,0521234567\n")

	key := NewKey("imports", "guests.csv")
	assert.True(t, strings.HasPrefix(key, "imports/"))
	assert.True(t, strings.HasSuffix(key, ".csv"))

	require.NoError(t, store.Save(ctx, key, data))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is not an error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/../../b", "/abs", "a//b"} {
		assert.Error(t, store.Save(ctx, key, []byte("x")), key)
		_, err := store.Open(ctx, key)
		assert.Error(t, err, key)
	}
}

func TestLocal_EmptyData(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Save(context.Background(), "empty.bin", nil))
}

func TestNewKey(t *testing.T) {
	withExt := NewKey("media", "party photo.JPG")
	assert.True(t, strings.HasPrefix(withExt, "media/"))
	assert.True(t, strings.HasSuffix(withExt, ".jpg"))

	noExt := NewKey("", "README")
	assert.NotContains(t, noExt, "/")
	assert.NotContains(t, noExt, ".")

	// Keys are unique
	assert.NotEqual(t, NewKey("media", "a.png"), NewKey("media", "a.png"))
}
