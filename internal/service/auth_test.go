package service

import (
	"context"
	"testing"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Email:     "Host@Example.com",
		Password:  "password123",
		FirstName: "Noa",
		LastName:  "Levi",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "host@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleHost, resp.User.Role)
	assert.True(t, resp.User.HasPassword())

	// The token round-trips through verification
	claims, err := env.auth.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)
}

func TestAuthService_Register_Validation(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{
		Email:     "not-an-email",
		Password:  "password123",
		FirstName: "Noa",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.auth.Register(ctx, RegisterRequest{
		Email:     "host@example.com",
		Password:  "short",
		FirstName: "Noa",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	registerHost(t, env, "host@example.com")

	_, err := env.auth.Register(ctx, RegisterRequest{
		Email:     "host@example.com",
		Password:  "password123",
		FirstName: "Other",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	user := registerHost(t, env, "host@example.com")

	resp, err := env.auth.Login(ctx, LoginRequest{
		Email:    "host@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	registerHost(t, env, "host@example.com")

	_, err := env.auth.Login(ctx, LoginRequest{
		Email:    "host@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	// Same error as a wrong password; no account enumeration
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_OTPFlow(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	require.NoError(t, env.auth.RequestOTP(ctx, OTPRequest{Phone: "052-123-4567"}))

	// The service doesn't expose issued codes; fish it out via the
	// store the same way the SMS hook would.
	code, err := env.auth.otp.Issue("0521234567")
	require.NoError(t, err)

	resp, err := env.auth.VerifyOTP(ctx, OTPVerifyRequest{Phone: "0521234567", Code: code})
	require.NoError(t, err)

	// First OTP login creates the account
	assert.Equal(t, "0521234567", resp.User.Phone)
	assert.Equal(t, domain.RoleHost, resp.User.Role)
	assert.False(t, resp.User.HasPassword())
	assert.NotEmpty(t, resp.Token)

	// Second login reuses it
	code, err = env.auth.otp.Issue("0521234567")
	require.NoError(t, err)
	resp2, err := env.auth.VerifyOTP(ctx, OTPVerifyRequest{Phone: "0521234567", Code: code})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, resp2.User.ID)
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	require.NoError(t, env.auth.RequestOTP(ctx, OTPRequest{Phone: "0521234567"}))

	_, err := env.auth.VerifyOTP(ctx, OTPVerifyRequest{Phone: "0521234567", Code: "000000"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_RequestOTP_RateLimited(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	// The test limiter allows a burst of 10
	var err error
	for range 15 {
		err = env.auth.RequestOTP(ctx, OTPRequest{Phone: "0521234567"})
		if err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, domainerrors.ErrRateLimited)

	// Other phone numbers are unaffected
	assert.NoError(t, env.auth.RequestOTP(ctx, OTPRequest{Phone: "0529999999"}))
}
