package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupdir/internal/auth"
	"github.com/mmynk/groupdir/internal/middleware"
	"github.com/mmynk/groupdir/internal/storage"
	"github.com/mmynk/groupdir/internal/validation"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	username := strings.TrimSpace(req.Msg.Username)
	s.logger.Info("Register request", "username", username)

	user, err := s.authenticator.Register(ctx, username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "username", username, "error", err)
		switch {
		case errors.Is(err, auth.ErrUsernameExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, validation.ErrWeakPassword), errors.Is(err, validation.ErrInvalidUsername):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		default:
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return connect.NewResponse(&RegisterResponse{User: user, Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	username := strings.TrimSpace(req.Msg.Username)
	s.logger.Info("Login request", "username", username)

	if username == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", username, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&LoginResponse{User: user, Token: token}), nil
}

// Logout is a no-op: tokens are stateless and discarded client-side.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	s.logger.Info("Logout request", "user_id", middleware.GetUserID(ctx), "username", middleware.GetUsername(ctx))
	return connect.NewResponse(&LogoutResponse{}), nil
}

// GetCurrentUser returns the authenticated user's account. The handler is
// mounted behind middleware.RequireAuth.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		s.logger.Error("GetCurrentUser failed", "user_id", userID, "username", middleware.GetUsername(ctx), "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if user == nil {
		// Token outlived the account (e.g. memory store restarted).
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	return connect.NewResponse(&GetCurrentUserResponse{User: user}), nil
}
