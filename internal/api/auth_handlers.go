package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new host",
		Description: "Creates a host account with email and password",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Email login",
		Description: "Authenticates with email and password and returns an access token",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "requestOTP",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/otp/request",
		Summary:     "Request one-time code",
		Description: "Sends a one-time login code to the given phone number",
		Tags:        []string{"Authentication"},
	}, s.handleRequestOTP)

	huma.Register(s.api, huma.Operation{
		OperationID: "verifyOTP",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/otp/verify",
		Summary:     "Verify one-time code",
		Description: "Exchanges a one-time code for an access token, creating the account on first login",
		Tags:        []string{"Authentication"},
	}, s.handleVerifyOTP)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// RegisterRequest is the request body for host registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	Password  string `json:"password" validate:"required,min=8,max=1024" doc:"Password"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100" doc:"First name"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=100" doc:"Last name"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=30" doc:"Phone number"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// LoginRequest is the request body for email login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	Password string `json:"password" validate:"required,max=1024" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// OTPRequestInput wraps the OTP request for Huma.
type OTPRequestInput struct {
	Body struct {
		Phone string `json:"phone" validate:"required,max=30" doc:"Phone number to send the code to"`
	}
}

// OTPVerifyInput wraps the OTP verification request for Huma.
type OTPVerifyInput struct {
	Body struct {
		Phone string `json:"phone" validate:"required,max=30" doc:"Phone number the code was sent to"`
		Code  string `json:"code" validate:"required,len=6" doc:"Six-digit one-time code"`
	}
}

// UserResponse contains user information in API responses. The password
// hash never leaves the service layer.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Email       string    `json:"email,omitempty" doc:"Email address"`
	Phone       string    `json:"phone,omitempty" doc:"Phone number"`
	Role        string    `json:"role" doc:"User role"`
	FirstName   string    `json:"first_name,omitempty" doc:"First name"`
	LastName    string    `json:"last_name,omitempty" doc:"Last name"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	LastLoginAt time.Time `json:"last_login_at,omitzero" doc:"Last login timestamp"`
}

// AuthResponse contains the access token and user info.
type AuthResponse struct {
	Token     string       `json:"token" doc:"JWT access token"`
	TokenType string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresAt time.Time    `json:"expires_at" doc:"Token expiry time"`
	User      UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Status message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// GetCurrentUserInput contains parameters for fetching the current user.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

func mapUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        string(u.Role),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		Token:     resp.Token,
		TokenType: "Bearer",
		ExpiresAt: resp.ExpiresAt,
		User:      mapUser(resp.User),
	}
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Phone:     input.Body.Phone,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleRequestOTP(ctx context.Context, input *OTPRequestInput) (*MessageOutput, error) {
	if err := s.services.Auth.RequestOTP(ctx, service.OTPRequest{Phone: input.Body.Phone}); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Code sent"}}, nil
}

func (s *Server) handleVerifyOTP(ctx context.Context, input *OTPVerifyInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.VerifyOTP(ctx, service.OTPVerifyRequest{
		Phone: input.Body.Phone,
		Code:  input.Body.Code,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}
