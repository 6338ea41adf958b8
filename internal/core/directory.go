package core

import (
	"sort"
	"sync"
	"time"
)

// OwnerSeed describes the pre-provisioned owner identity the directory
// is created with, so the server is administrable from first boot.
type OwnerSeed struct {
	Username     string
	DisplayName  string
	PasswordHash string
}

type userRecord struct {
	user         User
	passwordHash string
}

// Directory owns the username -> user mapping. All access goes through
// its methods; callers only ever see User value copies, never shared
// records. Users are created once and live for the process lifetime.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*userRecord
}

// NewDirectory builds a directory seeded with the owner identity.
func NewDirectory(owner OwnerSeed) *Directory {
	d := &Directory{users: make(map[string]*userRecord)}
	d.users[owner.Username] = &userRecord{
		user: User{
			Username:    owner.Username,
			DisplayName: owner.DisplayName,
			Role:        RoleOwner,
			Avatar:      DefaultAvatar,
			Theme:       DefaultTheme,
			CreatedAt:   time.Now(),
		},
		passwordHash: owner.PasswordHash,
	}
	return d
}

// Get returns the user registered under username.
func (d *Directory) Get(username string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.users[username]
	if !ok {
		return User{}, false
	}
	return rec.user, true
}

// GetOrCreate returns the existing user for username, or materializes a
// new one with the default role and the given credential hash. The
// second return value reports whether a new user was created; the hash
// argument is ignored for existing users.
func (d *Directory) GetOrCreate(username, displayName, passwordHash string) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if rec, ok := d.users[username]; ok {
		return rec.user, false
	}
	if displayName == "" {
		displayName = username
	}
	rec := &userRecord{
		user: User{
			Username:    username,
			DisplayName: displayName,
			Role:        RoleUser,
			Avatar:      DefaultAvatar,
			Theme:       DefaultTheme,
			CreatedAt:   time.Now(),
		},
		passwordHash: passwordHash,
	}
	d.users[username] = rec
	return rec.user, true
}

// PasswordHash returns the stored credential hash for username.
func (d *Directory) PasswordHash(username string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.users[username]
	if !ok {
		return "", false
	}
	return rec.passwordHash, true
}

// SetRole updates the role of username and returns the updated user.
func (d *Directory) SetRole(username string, role Role) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.users[username]
	if !ok {
		return User{}, false
	}
	rec.user.Role = role
	return rec.user, true
}

// List returns every registered user ordered by creation time, then
// username as a tie-break. Guests never appear here because they are
// never stored.
func (d *Directory) List() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]User, 0, len(d.users))
	for _, rec := range d.users {
		out = append(out, rec.user)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Username < out[j].Username
	})
	return out
}
