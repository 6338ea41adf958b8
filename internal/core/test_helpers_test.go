package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// stubAuth accepts any credentials; the hub tests exercise dispatch and
// broadcast semantics, not credential verification.
type stubAuth struct {
	directory *Directory
	guests    atomic.Int64
}

func (a *stubAuth) Authenticate(username, _ string) (User, error) {
	if username == "" {
		return User{}, errors.New("empty username")
	}
	user, _ := a.directory.GetOrCreate(username, username, "")
	return user, nil
}

func (a *stubAuth) AuthenticateToken(string) (User, error) {
	return User{}, errors.New("tokens unsupported")
}

func (a *stubAuth) Guest() User {
	return User{
		Username:    fmt.Sprintf("Guest_%d", a.guests.Add(1)),
		DisplayName: "Guest User",
		Role:        RoleGuest,
		CreatedAt:   time.Now(),
		IsGuest:     true,
	}
}

func (a *stubAuth) TokenFor(User) (string, error) {
	return "stub-token", nil
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	directory := NewDirectory(OwnerSeed{
		Username:     "sigmabread",
		DisplayName:  "Sigma Bread",
		PasswordHash: "unused",
	})
	hub := NewHub(HubDeps{
		Directory:      directory,
		Channels:       NewChannelStore([]string{"announcements", "general", "links"}),
		Moderation:     NewModeration(),
		Typing:         NewTypingTracker(),
		Auth:           &stubAuth{directory: directory},
		DefaultChannel: "general",
	})
	go hub.Run(ctx)
	return hub
}

// connect registers a session and authenticates it under username.
func connect(t *testing.T, hub *Hub, username string) *Session {
	t.Helper()

	s := NewSession(username + "-session")
	hub.RegisterSession(s)
	s.Commands <- &Command{Kind: CommandAuth, Auth: AuthRequest{Username: username, Password: "password"}}
	mustEvent(t, s.Events, EventAuthSuccess)
	return s
}

// connectGuest registers a session and authenticates it as a guest.
func connectGuest(t *testing.T, hub *Hub) (*Session, string) {
	t.Helper()

	s := NewSession("guest-session")
	hub.RegisterSession(s)
	s.Commands <- &Command{Kind: CommandAuth, Auth: AuthRequest{IsGuest: true}}
	ev := mustEvent(t, s.Events, EventAuthSuccess)
	return s, ev.User.Username
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, wait time.Duration) {
	t.Helper()

	deadline := time.After(wait)
	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		case <-deadline:
			return
		}
	}
}

// countEvents drains ch for wait and counts events of the given kind.
func countEvents(ch <-chan *Event, kind EventKind, wait time.Duration) int {
	count := 0
	deadline := time.After(wait)
	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				count++
			}
		case <-deadline:
			return count
		}
	}
}
