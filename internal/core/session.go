package core

// Session is one live connection as seen by the core layer. Commands
// flow in from the transport, events flow out to it. The identity and
// channel set are owned by the hub goroutine and must not be touched
// from outside this package.
type Session struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	user     *User
	channels map[string]struct{}
}

// NewSession constructs a session with initialized channels.
func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		channels: make(map[string]struct{}),
	}
}

// bind attaches an identity to the session. A session authenticates at
// most once; a second bind is rejected rather than overwritten.
func (s *Session) bind(user User) error {
	if s.user != nil {
		return ErrAlreadyAuthenticated
	}
	s.user = &user
	return nil
}

// authenticated reports whether an identity is bound.
func (s *Session) authenticated() bool {
	return s.user != nil
}

// join records channel membership. Returns false if already joined.
func (s *Session) join(channel string) bool {
	if _, ok := s.channels[channel]; ok {
		return false
	}
	s.channels[channel] = struct{}{}
	return true
}

// joined reports whether the session is subscribed to channel.
func (s *Session) joined(channel string) bool {
	_, ok := s.channels[channel]
	return ok
}

// send delivers an event without blocking the hub. Slow consumers drop.
func (s *Session) send(event *Event) {
	select {
	case s.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
