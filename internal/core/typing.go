package core

import "sync"

// TypingTracker mirrors which channel each user is currently typing in.
// At most one entry exists per username; the tracker performs no
// debouncing of its own, that is the client's job.
type TypingTracker struct {
	mu     sync.Mutex
	typing map[string]string // username -> channel
}

// NewTypingTracker builds an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{typing: make(map[string]string)}
}

// Start records that username is typing in channel. Re-entrant: calling
// it again while still typing just overwrites the entry.
func (t *TypingTracker) Start(username, channel string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typing[username] = channel
}

// Stop clears username's typing state and returns the channel they were
// typing in, if any. Disconnect cleanup uses this too, so no stale
// indicator survives a dropped connection.
func (t *TypingTracker) Stop(username string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	channel, ok := t.typing[username]
	if ok {
		delete(t.typing, username)
	}
	return channel, ok
}

// Channel returns the channel username is typing in, if any.
func (t *TypingTracker) Channel(username string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	channel, ok := t.typing[username]
	return channel, ok
}
