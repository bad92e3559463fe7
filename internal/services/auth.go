package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/store"
)

// loginFailureMessage is the single user-visible message every login failure
// collapses to, regardless of the underlying cause.
const loginFailureMessage = "invalid credentials"

// AuthService handles the session lifecycle: registration, the two-step
// CSRF/token login exchange, profile resolution and account mutations.
type AuthService struct {
	api   *api.Client
	store *store.Store
}

// NewAuthService creates a new auth service
func NewAuthService(client *api.Client, st *store.Store) *AuthService {
	return &AuthService{api: client, store: st}
}

// Login exchanges credentials for a bearer token and resolves the full user
// profile into the session: CSRF token first, then the token endpoint, then
// the profile lookup by username using the fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	gen := s.store.Session.Begin()

	fail := func(err error) error {
		log.Error().Err(err).Str("username", username).Msg("Login failed")
		s.store.Session.Fail(gen, loginFailureMessage)
		return fmt.Errorf("login: %w", err)
	}

	if username == "" || password == "" {
		return fail(fmt.Errorf("%w: username and password are required", ErrValidation))
	}

	if err := s.api.FetchCSRF(ctx); err != nil {
		return fail(err)
	}

	var tokenResp struct {
		Access string `json:"access"`
	}
	credentials := map[string]string{"username": username, "password": password}
	if err := s.api.Post(ctx, "/token/", false, credentials, &tokenResp); err != nil {
		return fail(err)
	}

	var profiles []models.User
	path := "/users/username/" + username + "/"
	if err := s.api.GetWithToken(ctx, path, tokenResp.Access, &profiles); err != nil {
		return fail(err)
	}
	if len(profiles) == 0 {
		return fail(fmt.Errorf("no profile returned for %q", username))
	}

	s.store.Session.Set(gen, profiles[0], tokenResp.Access, tokenExpiry(tokenResp.Access))

	log.Info().
		Str("username", username).
		Int("user_id", profiles[0].ID).
		Msg("Login succeeded")
	return nil
}

// Register creates a new account. The caller logs in separately afterwards;
// registration does not install a session.
func (s *AuthService) Register(ctx context.Context, username, email, password string, image *api.FileField) (models.User, error) {
	gen := s.store.Session.Begin()

	if username == "" || password == "" || email == "" {
		err := fmt.Errorf("%w: username, email and password are required", ErrValidation)
		s.store.Session.Fail(gen, err.Error())
		return models.User{}, err
	}

	if err := s.api.FetchCSRF(ctx); err != nil {
		s.store.Session.Fail(gen, err.Error())
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	fields := map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	}
	var created models.User
	if err := s.api.PostForm(ctx, "/users/", false, fields, image, &created); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Registration failed")
		s.store.Session.Fail(gen, err.Error())
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	s.store.Session.Succeed(gen)
	log.Info().Str("username", username).Int("user_id", created.ID).Msg("User registered")
	return created, nil
}

// Logout destroys the in-memory session.
func (s *AuthService) Logout() {
	s.store.Session.Clear()
	log.Info().Msg("Logged out")
}

// FetchUser fetches a user profile by id.
func (s *AuthService) FetchUser(ctx context.Context, id int) (models.User, error) {
	var user models.User
	if err := s.api.Get(ctx, "/users/"+strconv.Itoa(id)+"/", true, &user); err != nil {
		return models.User{}, fmt.Errorf("fetch user %d: %w", id, err)
	}
	return user, nil
}

// UpdateProfile patches the current user's profile and refreshes the session
// with the server's canonical copy.
func (s *AuthService) UpdateProfile(ctx context.Context, username, email string, image *api.FileField) (models.User, error) {
	current, ok := s.store.Session.User()
	if !ok {
		return models.User{}, api.ErrUnauthenticated
	}
	gen := s.store.Session.Begin()

	fields := map[string]string{"username": username, "email": email}
	var updated models.User
	path := "/users/" + strconv.Itoa(current.ID) + "/"
	if err := s.api.PatchForm(ctx, path, true, fields, image, &updated); err != nil {
		log.Error().Err(err).Int("user_id", current.ID).Msg("Profile update failed")
		s.store.Session.Fail(gen, err.Error())
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}

	s.store.Session.SetUser(updated)
	return updated, nil
}

// DeleteAccount deletes the current user server-side and clears the session.
func (s *AuthService) DeleteAccount(ctx context.Context) error {
	current, ok := s.store.Session.User()
	if !ok {
		return api.ErrUnauthenticated
	}
	gen := s.store.Session.Begin()

	if err := s.api.Delete(ctx, "/users/"+strconv.Itoa(current.ID)+"/", true); err != nil {
		log.Error().Err(err).Int("user_id", current.ID).Msg("Account deletion failed")
		s.store.Session.Fail(gen, err.Error())
		return fmt.Errorf("delete account: %w", err)
	}

	s.store.Session.Clear()
	log.Info().Int("user_id", current.ID).Msg("Account deleted")
	return nil
}

// tokenExpiry decodes the exp claim from the bearer token without verifying
// the signature; the client only uses it to stop sending a token the server
// would reject anyway. A token without a readable exp never self-expires.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
