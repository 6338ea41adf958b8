package core

import "sync"

// Moderation tracks per-username moderation flags. Flags are
// process-wide and last-write-wins; there is no unban operation.
type Moderation struct {
	mu           sync.RWMutex
	banned       map[string]struct{}
	shadowBanned map[string]struct{}
}

// NewModeration builds an empty moderation state.
func NewModeration() *Moderation {
	return &Moderation{
		banned:       make(map[string]struct{}),
		shadowBanned: make(map[string]struct{}),
	}
}

// Ban marks username as banned. Banned users cannot post at all.
func (m *Moderation) Ban(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banned[username] = struct{}{}
}

// IsBanned reports whether username is banned.
func (m *Moderation) IsBanned(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.banned[username]
	return ok
}

// Shadowban marks username as shadow-banned. Their messages still land
// in the channel log but are delivered live only to themselves.
func (m *Moderation) Shadowban(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shadowBanned[username] = struct{}{}
}

// IsShadowbanned reports whether username is shadow-banned.
func (m *Moderation) IsShadowbanned(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.shadowBanned[username]
	return ok
}
