package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

func (s *Server) registerMediaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadMedia",
		Method:      http.MethodPost,
		Path:        "/api/v1/events/{eventID}/media",
		Summary:     "Upload media",
		Description: "Uploads a photo or video and attaches it to the event",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMedia",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}/media",
		Summary:     "List media",
		Description: "Returns the event's media records",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMedia",
		Method:      http.MethodDelete,
		Path:        "/api/v1/events/{eventID}/media/{mediaID}",
		Summary:     "Delete media",
		Description: "Deletes a media record and its stored file",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMedia)

	// Direct chi route for file streaming. Keys are unguessable, so
	// objects are fetchable without auth; invitation media must load
	// for guests without accounts.
	s.router.Get("/media/*", s.handleServeMedia)
}

// === DTOs ===

// UploadMediaInput carries the raw file upload with its metadata in
// query parameters.
type UploadMediaInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	Filename      string `query:"filename" required:"true" doc:"Original filename, used to infer the media type"`
	Caption       string `query:"caption" doc:"Optional caption"`
	Visibility    string `query:"visibility" doc:"Visibility: event (default) or public"`
	RawBody       []byte
}

// MediaOutput wraps a single media record for Huma.
type MediaOutput struct {
	Body *domain.Media
}

// MediaInput contains parameters for media-scoped requests.
type MediaInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	MediaID       string `path:"mediaID" doc:"Media ID"`
}

// ListMediaResponse contains an event's media records.
type ListMediaResponse struct {
	Media []*domain.Media `json:"media" doc:"Media records"`
}

// ListMediaOutput wraps the list media response for Huma.
type ListMediaOutput struct {
	Body ListMediaResponse
}

// === Handlers ===

func (s *Server) handleUploadMedia(ctx context.Context, input *UploadMediaInput) (*MediaOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	media, err := s.services.Media.Upload(ctx, userID, input.EventID, service.UploadMediaRequest{
		Filename:   input.Filename,
		Caption:    input.Caption,
		Visibility: domain.MediaVisibility(input.Visibility),
	}, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &MediaOutput{Body: media}, nil
}

func (s *Server) handleListMedia(ctx context.Context, input *EventInput) (*ListMediaOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Media.List(ctx, userID, input.EventID)
	if err != nil {
		return nil, err
	}

	return &ListMediaOutput{Body: ListMediaResponse{Media: items}}, nil
}

func (s *Server) handleDeleteMedia(ctx context.Context, input *MediaInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Media.Delete(ctx, userID, input.EventID, input.MediaID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Media deleted"}}, nil
}

// handleServeMedia streams a stored object by key.
func (s *Server) handleServeMedia(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "key required", http.StatusBadRequest)
		return
	}

	rc, media, err := s.services.Media.Serve(r.Context(), key)
	if err != nil {
		http.Error(w, "media not found", http.StatusNotFound)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentTypeFor(media))
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("media stream interrupted", "key", key, "error", err)
	}
}

// contentTypeFor picks a content type from the stored key's extension.
func contentTypeFor(media *domain.Media) string {
	key := media.StorageKey
	dot := strings.LastIndexByte(key, '.')
	if dot < 0 {
		return "application/octet-stream"
	}

	switch key[dot+1:] {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "heic":
		return "image/heic"
	case "mp4":
		return "video/mp4"
	case "mov":
		return "video/quicktime"
	case "webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
