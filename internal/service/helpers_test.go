package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/hagigaapp/hagiga-server/internal/auth"
	"github.com/hagigaapp/hagiga-server/internal/csvimport"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/media/files"
	"github.com/hagigaapp/hagiga-server/internal/ratelimit"
	"github.com/hagigaapp/hagiga-server/internal/store"
	"github.com/hagigaapp/hagiga-server/internal/validation"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

// testEnv bundles the services under test over one temporary store.
type testEnv struct {
	store        *store.Store
	storage      files.Storage
	auth         *AuthService
	events       *EventService
	participants *ParticipantService
	imports      *ImportService
	media        *MediaService
	invitations  *InvitationService
	seating      *SeatingService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "hagiga-service-test-*")
	require.NoError(t, err)

	s, err := store.New(tmpDir, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	storage, err := files.NewLocal(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	validator := validation.New()

	tokens, err := auth.NewTokenService(testJWTSecret, time.Hour)
	require.NoError(t, err)

	otpLimiter := ratelimit.New(10, 10)
	t.Cleanup(otpLimiter.Stop)

	events := NewEventService(s, storage, validator, logger)

	imports := NewImportService(s, storage, events, csvimport.PhonePolicyLenient, 0, logger)
	// Run imports inline so tests can assert on terminal state
	imports.background = func(fn func()) { fn() }

	return &testEnv{
		store:        s,
		storage:      storage,
		auth:         NewAuthService(s, tokens, auth.NewOTPStore(time.Minute), otpLimiter, validator, logger, true),
		events:       events,
		participants: NewParticipantService(s, events, validator, logger),
		imports:      imports,
		media:        NewMediaService(s, storage, events, logger),
		invitations:  NewInvitationService(s, events, validator, logger),
		seating:      NewSeatingService(s, events, validator, logger),
	}
}

// registerHost creates a host account and returns the user.
func registerHost(t *testing.T, env *testEnv, email string) *domain.User {
	t.Helper()

	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:     email,
		Password:  "password123",
		FirstName: "Test",
		LastName:  "Host",
	})
	require.NoError(t, err)
	return resp.User
}

// createEvent creates an event owned by the user.
func createEvent(t *testing.T, env *testEnv, ownerID string) *domain.Event {
	t.Helper()

	event, err := env.events.Create(context.Background(), ownerID, CreateEventRequest{
		Title: "Dana & Omer",
		Type:  domain.EventTypeWedding,
		Date:  time.Now().AddDate(0, 3, 0),
		Venue: "Gan HaPkan",
	})
	require.NoError(t, err)
	return event
}
