// Package service implements the business logic between the HTTP
// surface and the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hagigaapp/hagiga-server/internal/auth"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/hagigaapp/hagiga-server/internal/id"
	"github.com/hagigaapp/hagiga-server/internal/normalize"
	"github.com/hagigaapp/hagiga-server/internal/ratelimit"
	"github.com/hagigaapp/hagiga-server/internal/store"
	"github.com/hagigaapp/hagiga-server/internal/validation"
)

// AuthService handles registration, login, and OTP authentication.
type AuthService struct {
	store      *store.Store
	tokens     *auth.TokenService
	otp        *auth.OTPStore
	otpLimiter *ratelimit.KeyedRateLimiter
	validator  *validation.Validator
	logger     *slog.Logger
	devMode    bool
}

// NewAuthService creates a new authentication service. In dev mode OTP
// codes are logged instead of delivered.
func NewAuthService(
	s *store.Store,
	tokens *auth.TokenService,
	otp *auth.OTPStore,
	otpLimiter *ratelimit.KeyedRateLimiter,
	validator *validation.Validator,
	logger *slog.Logger,
	devMode bool,
) *AuthService {
	return &AuthService{
		store:      s,
		tokens:     tokens,
		otp:        otp,
		otpLimiter: otpLimiter,
		validator:  validator,
		logger:     logger,
		devMode:    devMode,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,natphone"`
}

// LoginRequest contains email login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OTPRequest asks for a one-time code to be sent to a phone.
type OTPRequest struct {
	Phone string `json:"phone" validate:"required,natphone"`
}

// OTPVerifyRequest exchanges a one-time code for a token.
type OTPVerifyRequest struct {
	Phone string `json:"phone" validate:"required,natphone"`
	Code  string `json:"code" validate:"required,len=6"`
}

// AuthResponse contains the authenticated user and their access token.
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Register creates a new host account with email and password.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Syncable:     domain.Syncable{ID: userID},
		Email:        normalize.Email(req.Email),
		Phone:        normalize.Phone(req.Phone),
		PasswordHash: passwordHash,
		Role:         domain.RoleHost,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		LastLoginAt:  time.Now(),
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return nil, domainerrors.AlreadyExists("email already in use")
		case errors.Is(err, store.ErrPhoneExists):
			return nil, domainerrors.AlreadyExists("phone number already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return s.issueToken(user)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.HasPassword() {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Login still succeeds if the timestamp write fails
		s.logger.Warn("failed to record login time", "user_id", user.ID, "error", err)
	}

	return s.issueToken(user)
}

// RequestOTP issues a one-time code for the phone number. Delivery is
// rate-limited per phone; in dev mode the code is logged.
func (s *AuthService) RequestOTP(_ context.Context, req OTPRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	phone := normalize.Phone(req.Phone)
	if !s.otpLimiter.Allow(phone) {
		return domainerrors.RateLimited("too many code requests, try again later")
	}

	code, err := s.otp.Issue(phone)
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}

	if s.devMode {
		s.logger.Info("OTP code issued", "phone", phone, "code", code)
	} else {
		// SMS delivery hooks in here; for now the code only reaches
		// logs in dev mode.
		s.logger.Info("OTP code issued", "phone", phone)
	}

	return nil
}

// VerifyOTP exchanges a one-time code for a token, creating the user on
// first login.
func (s *AuthService) VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	phone := normalize.Phone(req.Phone)
	if !s.otp.Verify(phone, req.Code) {
		return nil, domainerrors.InvalidCredentials("invalid or expired code")
	}

	user, err := s.store.GetUserByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		user, err = s.createPhoneUser(ctx, phone)
		if err != nil {
			return nil, err
		}
	}

	user.LastLoginAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to record login time", "user_id", user.ID, "error", err)
	}

	return s.issueToken(user)
}

// GetUser returns the user for an authenticated subject.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// VerifyToken validates a bearer token and returns its claims.
func (s *AuthService) VerifyToken(tokenString string) (*auth.Claims, error) {
	return s.tokens.VerifyToken(tokenString)
}

func (s *AuthService) createPhoneUser(ctx context.Context, phone string) (*domain.User, error) {
	userID, err := id.Generate("usr")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Syncable: domain.Syncable{ID: userID},
		Phone:    phone,
		Role:     domain.RoleHost,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created via OTP", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.TokenDuration()),
	}, nil
}
