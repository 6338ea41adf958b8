package core

import (
	"context"

	"github.com/rs/zerolog"
)

// channelGates maps channel names to the action required to post there.
// Channels without an entry only require an authenticated session.
var channelGates = map[string]Action{
	"announcements": ActionPostAnnouncement,
	"links":         ActionPostLink,
}

// Hub routes session commands to handlers, enforces permissions, and
// drives broadcasts. A single goroutine (Run) owns the session set and
// channel membership, so handler execution is serialized; the shared
// services it mutates are additionally safe on their own.
type Hub struct {
	directory      *Directory
	channels       *ChannelStore
	moderation     *Moderation
	typing         *TypingTracker
	auth           Authenticator
	defaultChannel string
	log            zerolog.Logger

	register   chan *Session
	unregister chan *Session
	commands   chan sessionCommand
	done       chan struct{}

	sessions map[*Session]struct{}
	members  map[string]map[*Session]struct{}
}

type sessionCommand struct {
	session *Session
	cmd     *Command
}

// HubDeps bundles the services the hub orchestrates.
type HubDeps struct {
	Directory      *Directory
	Channels       *ChannelStore
	Moderation     *Moderation
	Typing         *TypingTracker
	Auth           Authenticator
	DefaultChannel string
	Log            *zerolog.Logger
}

// NewHub creates a hub over the given services.
func NewHub(deps HubDeps) *Hub {
	logger := zerolog.Nop()
	if deps.Log != nil {
		logger = *deps.Log
	}
	return &Hub{
		directory:      deps.Directory,
		channels:       deps.Channels,
		moderation:     deps.Moderation,
		typing:         deps.Typing,
		auth:           deps.Auth,
		defaultChannel: deps.DefaultChannel,
		log:            logger,
		register:       make(chan *Session),
		unregister:     make(chan *Session),
		commands:       make(chan sessionCommand),
		done:           make(chan struct{}),
		sessions:       make(map[*Session]struct{}),
		members:        make(map[string]map[*Session]struct{}),
	}
}

// RegisterSession adds a session to the hub and starts pumping its
// commands. Commands from one session are processed in arrival order.
func (h *Hub) RegisterSession(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
		return
	}

	go func() {
		for {
			select {
			case cmd, ok := <-s.Commands:
				if !ok {
					return
				}
				select {
				case h.commands <- sessionCommand{session: s, cmd: cmd}:
				case <-h.done:
					return
				}
			case <-h.done:
				return
			}
		}
	}()
}

// UnregisterSession triggers teardown for a disconnected session. Safe
// to call more than once and concurrently with in-flight commands.
func (h *Hub) UnregisterSession(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case s := <-h.register:
			h.sessions[s] = struct{}{}
		case s := <-h.unregister:
			h.teardown(s)
		case sc := <-h.commands:
			h.dispatch(sc.session, sc.cmd)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(s *Session, cmd *Command) {
	if cmd.Kind == CommandAuth {
		h.handleAuth(s, cmd.Auth)
		return
	}

	// Everything except auth requires a bound identity. Unauthenticated
	// attempts are dropped without a response.
	if !s.authenticated() {
		h.log.Debug().Str("session_id", s.ID).Msg("dropping command from unauthenticated session")
		return
	}

	switch cmd.Kind {
	case CommandJoinChannel:
		h.handleJoin(s, cmd.Channel)
	case CommandSendMessage:
		h.handleSend(s, cmd.Channel, cmd.Content)
	case CommandTypingStart:
		h.handleTyping(s, cmd.Channel, true)
	case CommandTypingStop:
		h.handleTyping(s, cmd.Channel, false)
	case CommandAdminAction:
		h.handleAdmin(s, cmd.Admin)
	default:
		h.log.Debug().Str("session_id", s.ID).Int("kind", int(cmd.Kind)).Msg("unknown command kind")
	}
}

// currentUser resolves the session's identity against the directory so
// permission checks see the role current at the time of the check.
// Guests are not stored in the directory; their bound snapshot is final.
func (h *Hub) currentUser(s *Session) User {
	if s.user.IsGuest {
		return *s.user
	}
	if user, ok := h.directory.Get(s.user.Username); ok {
		return user
	}
	return *s.user
}

func (h *Hub) handleAuth(s *Session, req AuthRequest) {
	if s.authenticated() {
		s.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeAlreadyAuthenticated, "session already authenticated"),
		})
		return
	}

	var (
		user User
		err  error
	)
	switch {
	case req.IsGuest:
		user = h.auth.Guest()
	case req.Token != "":
		user, err = h.auth.AuthenticateToken(req.Token)
	default:
		user, err = h.auth.Authenticate(req.Username, req.Password)
	}
	if err != nil {
		h.log.Debug().Err(err).Str("session_id", s.ID).Msg("authentication failed")
		s.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeInvalidCredentials, "invalid credentials"),
		})
		return
	}

	if err := s.bind(user); err != nil {
		s.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeAlreadyAuthenticated, "session already authenticated"),
		})
		return
	}

	token, err := h.auth.TokenFor(user)
	if err != nil {
		h.log.Warn().Err(err).Str("username", user.Username).Msg("failed to issue resume token")
	}

	h.addMember(s, h.defaultChannel)

	s.send(&Event{Kind: EventAuthSuccess, User: &user, Token: token})

	if history, err := h.channels.History(h.defaultChannel); err == nil {
		s.send(&Event{Kind: EventHistory, Channel: h.defaultChannel, Messages: history})
	}

	h.broadcastAll(&Event{Kind: EventUsersUpdate, Users: h.directory.List()})

	h.log.Info().
		Str("session_id", s.ID).
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("session authenticated")
}

func (h *Hub) handleJoin(s *Session, channel string) {
	if !h.channels.Exists(channel) {
		h.log.Debug().Str("channel", channel).Msg("join to unknown channel ignored")
		return
	}

	h.addMember(s, channel)

	// History goes to the joining session only, even on a repeat join.
	if history, err := h.channels.History(channel); err == nil {
		s.send(&Event{Kind: EventHistory, Channel: channel, Messages: history})
	}
}

func (h *Hub) handleSend(s *Session, channel, content string) {
	user := h.currentUser(s)

	// A banned user's send is a full no-op: nothing appended, nothing
	// broadcast, no error surfaced.
	if h.moderation.IsBanned(user.Username) {
		return
	}

	if action, gated := channelGates[channel]; gated && !HasPermission(&user, action) {
		s.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodePermissionDenied, "no permission to post in "+channel),
		})
		return
	}

	msg, err := h.channels.Append(channel, content, user)
	if err != nil {
		h.log.Debug().Str("channel", channel).Msg("send to unknown channel ignored")
		return
	}

	event := &Event{Kind: EventNewMessage, Channel: channel, Message: msg}

	// Shadow-banned senders see their own message live; everyone else
	// only finds it later through history.
	if h.moderation.IsShadowbanned(user.Username) {
		s.send(event)
		return
	}
	h.broadcastChannel(channel, event, nil)
}

func (h *Hub) handleTyping(s *Session, channel string, start bool) {
	user := h.currentUser(s)

	if start {
		h.typing.Start(user.Username, channel)
		h.broadcastChannel(channel, &Event{
			Kind:        EventUserTyping,
			Channel:     channel,
			Username:    user.Username,
			DisplayName: user.DisplayName,
		}, s)
		return
	}

	target := channel
	if prev, ok := h.typing.Stop(user.Username); ok {
		target = prev
	}
	h.broadcastChannel(target, &Event{
		Kind:     EventUserStoppedTyping,
		Channel:  target,
		Username: user.Username,
	}, s)
}

func (h *Hub) handleAdmin(s *Session, req AdminRequest) {
	actor := h.currentUser(s)
	if !HasPermission(&actor, ActionAccessAdmin) {
		h.log.Debug().Str("username", actor.Username).Str("action", req.Action).Msg("admin action denied")
		return
	}

	switch req.Action {
	case AdminBan:
		h.moderation.Ban(req.Target)
		h.broadcastAll(&Event{Kind: EventUserBanned, Username: req.Target})
		h.log.Info().Str("actor", actor.Username).Str("target", req.Target).Msg("user banned")
	case AdminShadowban:
		// Deliberately no broadcast: the target should not learn of it.
		h.moderation.Shadowban(req.Target)
		h.log.Info().Str("actor", actor.Username).Str("target", req.Target).Msg("user shadow-banned")
	case AdminPurge:
		if err := h.channels.Purge(req.Target); err != nil {
			return
		}
		h.broadcastChannel(req.Target, &Event{Kind: EventChannelPurged, Channel: req.Target}, nil)
		h.log.Info().Str("actor", actor.Username).Str("channel", req.Target).Msg("channel purged")
	case AdminModifyRole:
		if !HasPermission(&actor, ActionModifyRoles) {
			h.log.Debug().Str("username", actor.Username).Msg("modify_role denied")
			return
		}
		role, ok := ParseRole(req.Role)
		if !ok {
			s.send(&Event{
				Kind:  EventError,
				Error: coreError(ErrCodeBadRequest, "unknown role: "+req.Role),
			})
			return
		}
		updated, ok := h.directory.SetRole(req.Target, role)
		if !ok {
			return
		}
		h.broadcastAll(&Event{Kind: EventUserUpdated, User: &updated})
		h.log.Info().
			Str("actor", actor.Username).
			Str("target", req.Target).
			Str("role", req.Role).
			Msg("role modified")
	default:
		h.log.Debug().Str("action", req.Action).Msg("unknown admin action")
	}
}

// teardown runs exactly once per session; repeat calls are no-ops.
func (h *Hub) teardown(s *Session) {
	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)

	for channel := range s.channels {
		if members, ok := h.members[channel]; ok {
			delete(members, s)
		}
	}

	if s.user == nil {
		return
	}

	// Clear any typing indicator before announcing the disconnect so no
	// session is left watching a ghost typist.
	if channel, ok := h.typing.Stop(s.user.Username); ok {
		h.broadcastChannel(channel, &Event{
			Kind:     EventUserStoppedTyping,
			Channel:  channel,
			Username: s.user.Username,
		}, s)
	}

	h.broadcastAll(&Event{Kind: EventUserOffline, Username: s.user.Username})

	h.log.Info().Str("session_id", s.ID).Str("username", s.user.Username).Msg("session closed")
}

func (h *Hub) addMember(s *Session, channel string) {
	if !s.join(channel) {
		return
	}
	members, ok := h.members[channel]
	if !ok {
		members = make(map[*Session]struct{})
		h.members[channel] = members
	}
	members[s] = struct{}{}
}

func (h *Hub) broadcastChannel(channel string, event *Event, except *Session) {
	for member := range h.members[channel] {
		if member == except {
			continue
		}
		member.send(event)
	}
}

func (h *Hub) broadcastAll(event *Event) {
	for session := range h.sessions {
		session.send(event)
	}
}
