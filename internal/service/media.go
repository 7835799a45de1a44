package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/hagigaapp/hagiga-server/internal/id"
	"github.com/hagigaapp/hagiga-server/internal/media/files"
	"github.com/hagigaapp/hagiga-server/internal/media/images"
	"github.com/hagigaapp/hagiga-server/internal/store"
)

// Uploads past this size are rejected before touching storage.
const maxUploadBytes = 50 << 20 // 50 MiB

// MediaService manages event media: photos and videos hosts attach to
// an event, and the files behind invitations.
type MediaService struct {
	store   *store.Store
	storage files.Storage
	events  *EventService
	images  *images.Processor
	logger  *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(s *store.Store, storage files.Storage, events *EventService, logger *slog.Logger) *MediaService {
	return &MediaService{
		store:   s,
		storage: storage,
		events:  events,
		images:  images.NewProcessor(logger),
		logger:  logger,
	}
}

// UploadMediaRequest describes an upload; the file body travels
// separately.
type UploadMediaRequest struct {
	Filename   string
	Type       domain.MediaType
	Caption    string
	Visibility domain.MediaVisibility
}

// Upload stores a media file and its record.
func (s *MediaService) Upload(ctx context.Context, userID, eventID string, req UploadMediaRequest, data []byte) (*domain.Media, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, domainerrors.BadRequest("empty upload")
	}
	if len(data) > maxUploadBytes {
		return nil, domainerrors.BadRequest("file too large")
	}
	if req.Type == "" {
		req.Type = inferMediaType(req.Filename)
	}
	if req.Type != domain.MediaTypeImage && req.Type != domain.MediaTypeVideo {
		return nil, domainerrors.BadRequest("unsupported media type")
	}
	if req.Visibility == "" {
		req.Visibility = domain.MediaVisibilityEvent
	}
	if req.Visibility != domain.MediaVisibilityEvent && req.Visibility != domain.MediaVisibilityPublic {
		return nil, domainerrors.BadRequest("unknown visibility")
	}

	storageKey := files.NewKey("media", req.Filename)
	if err := s.storage.Save(ctx, storageKey, data); err != nil {
		return nil, fmt.Errorf("store media file: %w", err)
	}

	mediaID, err := id.Generate("med")
	if err != nil {
		return nil, fmt.Errorf("generate media ID: %w", err)
	}

	media := &domain.Media{
		Syncable:   domain.Syncable{ID: mediaID},
		EventID:    eventID,
		UploaderID: userID,
		StorageKey: storageKey,
		URL:        s.storage.URL(storageKey),
		Type:       req.Type,
		Caption:    req.Caption,
		Visibility: req.Visibility,
	}
	media.InitTimestamps()

	if req.Type == domain.MediaTypeImage {
		s.deriveImageAssets(ctx, media, data)
	}

	if err := s.store.CreateMedia(ctx, media); err != nil {
		// Roll the files back so we don't leak orphaned objects
		_ = s.storage.Delete(ctx, storageKey)
		if media.ThumbnailKey != "" {
			_ = s.storage.Delete(ctx, media.ThumbnailKey)
		}
		return nil, fmt.Errorf("create media record: %w", err)
	}

	s.logger.Info("media uploaded", "media_id", media.ID, "event_id", eventID, "bytes", len(data))
	return media, nil
}

// deriveImageAssets attaches a thumbnail and BlurHash to an image
// upload. Best-effort: some formats declared as images (HEIC in
// particular) cannot be decoded, and the upload must still succeed.
func (s *MediaService) deriveImageAssets(ctx context.Context, media *domain.Media, data []byte) {
	result, err := s.images.Process(data)
	if err != nil {
		s.logger.Warn("could not derive image assets", "media_id", media.ID, "error", err)
		return
	}

	thumbKey := files.NewKey("thumbs", "thumb.jpg")
	if err := s.storage.Save(ctx, thumbKey, result.Thumbnail); err != nil {
		s.logger.Warn("could not store thumbnail", "media_id", media.ID, "error", err)
		return
	}

	media.BlurHash = result.BlurHash
	media.ThumbnailKey = thumbKey
	media.ThumbnailURL = s.storage.URL(thumbKey)
	media.Width = result.Width
	media.Height = result.Height
}

// List returns an event's media records.
func (s *MediaService) List(ctx context.Context, userID, eventID string) ([]*domain.Media, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	items, err := s.store.ListMediaByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	return items, nil
}

// Serve opens a stored object by key for streaming to a client. Serving
// is key-addressed and public: keys are unguessable and invitation
// media must work for guests without accounts.
func (s *MediaService) Serve(ctx context.Context, key string) (io.ReadCloser, *domain.Media, error) {
	media, err := s.store.GetMediaByStorageKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrMediaNotFound) {
			return nil, nil, domainerrors.NotFound("media not found")
		}
		return nil, nil, fmt.Errorf("lookup media: %w", err)
	}

	rc, err := s.storage.Open(ctx, key)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("media not found")
		}
		return nil, nil, fmt.Errorf("open media: %w", err)
	}

	return rc, media, nil
}

// Delete removes a media record and its stored file.
func (s *MediaService) Delete(ctx context.Context, userID, eventID, mediaID string) error {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return err
	}

	media, err := s.store.GetMedia(ctx, mediaID)
	if err != nil {
		if errors.Is(err, store.ErrMediaNotFound) {
			return domainerrors.NotFound("media not found")
		}
		return fmt.Errorf("get media: %w", err)
	}
	if media.EventID != eventID {
		return domainerrors.NotFound("media not found")
	}

	if err := s.store.DeleteMedia(ctx, mediaID); err != nil {
		return fmt.Errorf("delete media record: %w", err)
	}

	if err := s.storage.Delete(ctx, media.StorageKey); err != nil {
		s.logger.Warn("failed to delete media file", "key", media.StorageKey, "error", err)
	}
	if media.ThumbnailKey != "" {
		if err := s.storage.Delete(ctx, media.ThumbnailKey); err != nil {
			s.logger.Warn("failed to delete thumbnail", "key", media.ThumbnailKey, "error", err)
		}
	}

	return nil
}

// inferMediaType guesses image/video from the filename extension.
func inferMediaType(filename string) domain.MediaType {
	dot := strings.LastIndexByte(filename, '.')
	if dot < 0 {
		return ""
	}

	switch strings.ToLower(filename[dot+1:]) {
	case "jpg", "jpeg", "png", "gif", "webp", "heic":
		return domain.MediaTypeImage
	case "mp4", "mov", "webm", "avi", "mkv":
		return domain.MediaTypeVideo
	default:
		return ""
	}
}
