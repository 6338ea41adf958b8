package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sigmabread/breadchat-server/internal/core"
	"github.com/sigmabread/breadchat-server/internal/utils"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidUsername is returned when username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service provides authentication operations over the user directory.
// Unknown usernames register on first authentication with a bcrypt
// hash; from then on the stored hash is authoritative.
type Service struct {
	directory *core.Directory
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(directory *core.Directory, jwtConfig *JWTConfig) *Service {
	return &Service{
		directory: directory,
		jwtConfig: jwtConfig,
	}
}

// Authenticate verifies a username/password pair against the directory.
// A username seen for the first time is materialized with the default
// role; an existing username must present its original password.
func (s *Service) Authenticate(username, password string) (core.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return core.User{}, ErrInvalidUsername
	}

	if hash, ok := s.directory.PasswordHash(username); ok {
		if err := ComparePassword(hash, password); err != nil {
			return core.User{}, ErrInvalidCredentials
		}
		user, ok := s.directory.Get(username)
		if !ok {
			return core.User{}, ErrInvalidCredentials
		}
		return user, nil
	}

	if len(password) < 6 {
		return core.User{}, ErrInvalidPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	user, _ := s.directory.GetOrCreate(username, username, hash)
	return user, nil
}

// AuthenticateToken verifies a resume token. Named identities are
// re-read from the directory so a role change survives token reuse;
// guest identities are reconstructed from the claims.
func (s *Service) AuthenticateToken(token string) (core.User, error) {
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return core.User{}, ErrInvalidCredentials
	}

	if claims.IsGuest {
		return core.User{
			Username:    claims.Username,
			DisplayName: claims.DisplayName,
			Role:        core.RoleGuest,
			Avatar:      core.DefaultAvatar,
			Theme:       core.DefaultTheme,
			CreatedAt:   time.Now(),
			IsGuest:     true,
		}, nil
	}

	user, ok := s.directory.Get(claims.Username)
	if !ok {
		return core.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Guest synthesizes a fresh, randomly suffixed guest identity. Guests
// are never stored in the directory and so never appear in user lists.
func (s *Service) Guest() core.User {
	return core.User{
		Username:    fmt.Sprintf("Guest_%d", utils.GuestSuffix()),
		DisplayName: "Guest User",
		Role:        core.RoleGuest,
		Avatar:      core.DefaultAvatar,
		Theme:       core.DefaultTheme,
		CreatedAt:   time.Now(),
		IsGuest:     true,
	}
}

// TokenFor issues a resume token for an authenticated identity.
func (s *Service) TokenFor(user core.User) (string, error) {
	return GenerateToken(s.jwtConfig, user.Username, user.DisplayName, string(user.Role), user.IsGuest)
}
