package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hagigaapp/hagiga-server/internal/auth"
	"github.com/hagigaapp/hagiga-server/internal/csvimport"
	"github.com/hagigaapp/hagiga-server/internal/media/files"
	"github.com/hagigaapp/hagiga-server/internal/ratelimit"
	"github.com/hagigaapp/hagiga-server/internal/search"
	"github.com/hagigaapp/hagiga-server/internal/service"
	"github.com/hagigaapp/hagiga-server/internal/store"
	"github.com/hagigaapp/hagiga-server/internal/validation"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
	otp *auth.OTPStore
	st  *store.Store
}

// setupTestServer creates a server over a temporary store with the full
// service stack wired.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "hagiga-api-test-*")
	require.NoError(t, err)

	st, err := store.New(tmpDir, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	storage, err := files.NewLocal(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	validator := validation.New()

	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	otp := auth.NewOTPStore(time.Minute)
	otpLimiter := ratelimit.New(10, 10)
	t.Cleanup(otpLimiter.Stop)

	guestIndex, err := search.NewGuestIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = guestIndex.Close() })

	events := service.NewEventService(st, storage, validator, logger)
	participants := service.NewParticipantService(st, events, validator, logger)
	imports := service.NewImportService(st, storage, events, csvimport.PhonePolicyLenient, 0, logger)
	searchSvc := service.NewSearchService(st, events, guestIndex, logger)
	events.SetGuestIndexer(searchSvc)
	participants.SetGuestIndexer(searchSvc)
	imports.SetGuestIndexer(searchSvc)

	services := &Services{
		Auth:        service.NewAuthService(st, tokens, otp, otpLimiter, validator, logger, true),
		Event:       events,
		Participant: participants,
		Import:      imports,
		Media:       service.NewMediaService(st, storage, events, logger),
		Invitation:  service.NewInvitationService(st, events, validator, logger),
		Seating:     service.NewSeatingService(st, events, validator, logger),
		Search:      searchSvc,
	}

	s := NewServer(services, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		otp:    otp,
		st:     st,
	}
}

// registerTestUser registers a host and returns the bearer header and user ID.
func (ts *testServer) registerTestUser(t *testing.T, email string) (authHeader string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      email,
		"password":   "TestPassword123",
		"first_name": "Test",
		"last_name":  "Host",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return "Bearer " + envelope.Data.Token, envelope.Data.User.ID
}

// createTestEvent creates an event through the API and returns its ID.
func (ts *testServer) createTestEvent(t *testing.T, authHeader string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/events",
		"Authorization: "+authHeader,
		map[string]any{
			"title": "Dana & Omer",
			"type":  "wedding",
			"date":  time.Now().AddDate(0, 3, 0).Format(time.RFC3339),
		})
	require.Equal(t, http.StatusOK, resp.Code, "Create event failed: %s", resp.Body.String())

	var envelope testEnvelope[map[string]any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	id, _ := envelope.Data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestServer_Health(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
}

func TestServer_EnvelopeErrorShape(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/events", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
	assert.NotEmpty(t, envelope.Error.Message)
}

func TestServer_MissingAuthHeader(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
