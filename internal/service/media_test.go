package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaService_UploadAndServe(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	host := registerHost(t, env, "host@example.com")
	event := createEvent(t, env, host.ID)

	media, err := env.media.Upload(ctx, host.ID, event.ID, UploadMediaRequest{
		Filename: "save-the-date.png",
		Caption:  "Save the date!",
	}, []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeImage, media.Type)
	assert.Equal(t, domain.MediaVisibilityEvent, media.Visibility)
	assert.Equal(t, event.ID, media.EventID)
	assert.Equal(t, host.ID, media.UploaderID)
	assert.Equal(t, "/media/"+media.StorageKey, media.URL)

	rc, record, err := env.media.Serve(ctx, media.StorageKey)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, media.ID, record.ID)
}

func TestMediaService_Upload_DerivesImageAssets(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	host := registerHost(t, env, "host@example.com")
	event := createEvent(t, env, host.ID)

	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	media, err := env.media.Upload(ctx, host.ID, event.ID, UploadMediaRequest{
		Filename: "venue.png",
	}, buf.Bytes())
	require.NoError(t, err)

	assert.NotEmpty(t, media.BlurHash)
	assert.NotEmpty(t, media.ThumbnailKey)
	assert.Equal(t, "/media/"+media.ThumbnailKey, media.ThumbnailURL)
	assert.Equal(t, 800, media.Width)
	assert.Equal(t, 600, media.Height)

	// The thumbnail serves through the same key-addressed lookup as the
	// original.
	rc, record, err := env.media.Serve(ctx, media.ThumbnailKey)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, media.ID, record.ID)

	thumbData, err := io.ReadAll(rc)
	require.NoError(t, err)
	thumb, _, err := image.Decode(bytes.NewReader(thumbData))
	require.NoError(t, err)
	assert.Equal(t, 480, thumb.Bounds().Dx())
	assert.Equal(t, 360, thumb.Bounds().Dy())

	// Deleting the record removes the thumbnail too.
	require.NoError(t, env.media.Delete(ctx, host.ID, event.ID, media.ID))
	_, _, err = env.media.Serve(ctx, media.ThumbnailKey)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMediaService_Upload_UndecodableImageStillSucceeds(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	host := registerHost(t, env, "host@example.com")
	event := createEvent(t, env, host.ID)

	media, err := env.media.Upload(ctx, host.ID, event.ID, UploadMediaRequest{
		Filename: "photo.heic",
	}, []byte("heic-bytes-go-cannot-decode"))
	require.NoError(t, err)
	assert.Empty(t, media.BlurHash)
	assert.Empty(t, media.ThumbnailKey)
}

func TestMediaService_Upload_TypeInference(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	host := registerHost(t, env, "host@example.com")
	event := createEvent(t, env, host.ID)

	video, err := env.media.Upload(ctx, host.ID, event.ID, UploadMediaRequest{
		Filename: "first-dance.MP4",
	}, []byte("video-bytes"))
	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeVideo, video.Type)

	_, err = env.media.Upload(ctx, host.ID, event.ID, UploadMediaRequest{
		Filename: "playlist.txt",
	}, []byte("not media"))
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)

	_, err = env.media.Upload(ctx, host.ID, event.ID, UploadMediaRequest{
		Filename: "invite.png",
	}, nil)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
}

func TestMediaService_List(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	host := registerHost(t, env, "host@example.com")
	event := createEvent(t, env, host.ID)

	for _, name := range []string{"a.jpg", "b.jpg"} {
		_, err := env.media.Upload(ctx, host.ID, event.ID, UploadMediaRequest{Filename: name}, []byte(name))
		require.NoError(t, err)
	}

	items, err := env.media.List(ctx, host.ID, event.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestMediaService_Delete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	host := registerHost(t, env, "host@example.com")
	event := createEvent(t, env, host.ID)

	media, err := env.media.Upload(ctx, host.ID, event.ID, UploadMediaRequest{
		Filename: "venue.jpg",
	}, []byte("jpeg-bytes"))
	require.NoError(t, err)

	require.NoError(t, env.media.Delete(ctx, host.ID, event.ID, media.ID))

	_, _, err = env.media.Serve(ctx, media.StorageKey)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = env.media.Delete(ctx, host.ID, event.ID, media.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMediaService_CrossEventAccessDenied(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	host := registerHost(t, env, "host@example.com")
	eventA := createEvent(t, env, host.ID)
	eventB := createEvent(t, env, host.ID)

	media, err := env.media.Upload(ctx, host.ID, eventA.ID, UploadMediaRequest{
		Filename: "venue.jpg",
	}, []byte("jpeg-bytes"))
	require.NoError(t, err)

	err = env.media.Delete(ctx, host.ID, eventB.ID, media.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMediaService_OwnershipEnforced(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := registerHost(t, env, "owner@example.com")
	stranger := registerHost(t, env, "stranger@example.com")
	event := createEvent(t, env, owner.ID)

	_, err := env.media.Upload(ctx, stranger.ID, event.ID, UploadMediaRequest{
		Filename: "venue.jpg",
	}, []byte("jpeg-bytes"))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.media.List(ctx, stranger.ID, event.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}
