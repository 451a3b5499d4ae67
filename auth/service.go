package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/svega/cinelist/api"
	"github.com/svega/cinelist/session"
)

// Mirrors the backend's registration constraints so obviously bad
// input is rejected before a network call.
const (
	minUsernameLength = 3
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service orchestrates register, login, logout, and profile lookups
// against the backend. Successful logins commit the session to the
// store; logout clears it.
type Service struct {
	client *api.Client
	store  session.Store
	logger zerolog.Logger
}

// NewService creates a new auth service.
func NewService(client *api.Client, store session.Store, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
	}
}

// registerRequest is the POST /auth/register body.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginData is the data payload of a successful login.
type loginData struct {
	AccessToken string   `json:"access_token"`
	User        api.User `json:"user"`
}

// Register creates a new account and returns the backend's
// confirmation message. Backend field errors (duplicate username,
// weak password) surface unmodified as *api.APIError.
func (s *Service) Register(ctx context.Context, username, email, password string) (string, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return "", err
	}

	body, err := s.client.Post(ctx, "/auth/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", err
	}

	var resp api.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("Account registered")

	if resp.Message != "" {
		return resp.Message, nil
	}
	return "account created", nil
}

// Login authenticates with the backend and, on success, commits the
// bearer token and user profile to the session store. On failure the
// store is left untouched.
func (s *Service) Login(ctx context.Context, email, password string) (*api.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	body, err := s.client.Post(ctx, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var data loginData
	if err := api.DecodeData(body, &data); err != nil {
		return nil, err
	}
	if data.AccessToken == "" {
		return nil, ErrInvalidResponse
	}

	if err := s.store.Save(data.AccessToken, &data.User); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info().Str("username", data.User.Username).Msg("Logged in")
	return &data.User, nil
}

// Logout clears the local session. The token is not revoked on the
// backend; it stays valid there until it expires.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.logger.Info().Msg("Logged out")
	return nil
}

// CurrentUser fetches the authenticated user's profile. The client
// attaches the stored bearer token automatically; a missing or stale
// token surfaces as an authorization error from the backend.
func (s *Service) CurrentUser(ctx context.Context) (*api.User, error) {
	body, err := s.client.Get(ctx, "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user api.User
	if err := api.DecodeData(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// validateRegistration mirrors the server-side constraints.
func validateRegistration(username, email, password string) error {
	if len(strings.TrimSpace(username)) < minUsernameLength {
		return fmt.Errorf("username must be at least %d characters", minUsernameLength)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address: %s", email)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
