package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// ChannelStore owns the per-channel message logs. The channel set is
// fixed at construction; logs are append-only except for Purge, which
// atomically replaces a log with an empty one. Message IDs are
// monotonically non-decreasing across the whole process, so they can
// tie-break messages whose timestamps collide.
type ChannelStore struct {
	mu     sync.RWMutex
	logs   map[string][]Message
	lastID atomic.Int64
}

// NewChannelStore provisions a store with an empty log per channel name.
func NewChannelStore(channels []string) *ChannelStore {
	logs := make(map[string][]Message, len(channels))
	for _, name := range channels {
		logs[name] = nil
	}
	return &ChannelStore{logs: logs}
}

// Exists reports whether channel is a provisioned channel name.
func (s *ChannelStore) Exists(channel string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.logs[channel]
	return ok
}

// Append builds a message authored by user and appends it to channel's
// log. The author's display name and role are snapshotted from user as
// passed in. Returns ErrChannelNotFound for unknown channels.
func (s *ChannelStore) Append(channel, content string, user User) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[channel]
	if !ok {
		return Message{}, ErrChannelNotFound
	}
	msg := Message{
		ID:          s.lastID.Add(1),
		Channel:     channel,
		Content:     content,
		Author:      user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   time.Now(),
	}
	s.logs[channel] = append(log, msg)
	return msg, nil
}

// History returns a copy of channel's full log in append order.
func (s *ChannelStore) History(channel string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[channel]
	if !ok {
		return nil, ErrChannelNotFound
	}
	out := make([]Message, len(log))
	copy(out, log)
	return out, nil
}

// Purge atomically clears channel's log. Other channels are untouched.
func (s *ChannelStore) Purge(channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[channel]; !ok {
		return ErrChannelNotFound
	}
	s.logs[channel] = nil
	return nil
}
