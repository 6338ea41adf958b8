package core

import (
	"testing"
	"time"
)

func TestAuthDeliversProfileHistoryAndUserList(t *testing.T) {
	hub := newTestHub(t)

	s := NewSession("s1")
	hub.RegisterSession(s)
	s.Commands <- &Command{Kind: CommandAuth, Auth: AuthRequest{Username: "alice", Password: "pw"}}

	success := mustEvent(t, s.Events, EventAuthSuccess)
	if success.User == nil || success.User.Username != "alice" || success.User.Role != RoleUser {
		t.Fatalf("unexpected auth success: %+v", success)
	}
	if success.Token == "" {
		t.Fatal("auth success must carry a resume token")
	}

	history := mustEvent(t, s.Events, EventHistory)
	if history.Channel != "general" {
		t.Fatalf("auto-join must deliver general history, got %q", history.Channel)
	}

	users := mustEvent(t, s.Events, EventUsersUpdate)
	if len(users.Users) != 2 {
		t.Fatalf("expected owner and alice in user list, got %d", len(users.Users))
	}
}

func TestGuestSendsAndBothSessionsReceive(t *testing.T) {
	hub := newTestHub(t)

	bob := connect(t, hub, "bob")
	guest, guestName := connectGuest(t, hub)

	guest.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "hi"}

	own := mustEvent(t, guest.Events, EventNewMessage)
	if own.Message.Content != "hi" || own.Message.Author != guestName {
		t.Fatalf("unexpected own echo: %+v", own.Message)
	}
	if own.Message.Role != RoleGuest {
		t.Fatalf("message must snapshot guest role, got %s", own.Message.Role)
	}

	theirs := mustEvent(t, bob.Events, EventNewMessage)
	if theirs.Message.Content != "hi" || theirs.Message.Author != guestName {
		t.Fatalf("unexpected broadcast: %+v", theirs.Message)
	}
}

func TestGuestsAbsentFromUserList(t *testing.T) {
	hub := newTestHub(t)

	_, guestName := connectGuest(t, hub)

	observer := NewSession("obs")
	hub.RegisterSession(observer)
	observer.Commands <- &Command{Kind: CommandAuth, Auth: AuthRequest{Username: "carol", Password: "pw"}}

	users := mustEvent(t, observer.Events, EventUsersUpdate)
	for _, u := range users.Users {
		if u.Username == guestName {
			t.Fatal("guests must not appear in the user list")
		}
	}
}

func TestSecondAuthRejected(t *testing.T) {
	hub := newTestHub(t)

	s := connect(t, hub, "alice")
	s.Commands <- &Command{Kind: CommandAuth, Auth: AuthRequest{Username: "mallory", Password: "pw"}}

	ev := mustEvent(t, s.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeAlreadyAuthenticated {
		t.Fatalf("expected already_authenticated, got %+v", ev)
	}

	// The original identity stays bound.
	s.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "still me"}
	msg := mustEvent(t, s.Events, EventNewMessage)
	if msg.Message.Author != "alice" {
		t.Fatalf("identity was overwritten: %+v", msg.Message)
	}
}

func TestUnauthenticatedCommandsSilentlyDropped(t *testing.T) {
	hub := newTestHub(t)

	s := NewSession("probe")
	hub.RegisterSession(s)

	s.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "hello?"}
	s.Commands <- &Command{Kind: CommandJoinChannel, Channel: "general"}
	s.Commands <- &Command{Kind: CommandAdminAction, Admin: AdminRequest{Action: AdminBan, Target: "sigmabread"}}

	mustNoEvent(t, s.Events, EventError, 150*time.Millisecond)
	mustNoEvent(t, s.Events, EventNewMessage, 50*time.Millisecond)

	if hub.moderation.IsBanned("sigmabread") {
		t.Fatal("unauthenticated admin action must not take effect")
	}
	if history, _ := hub.channels.History("general"); len(history) != 0 {
		t.Fatal("unauthenticated send must not append")
	}
}

func TestAnnouncementsGatedByAllowList(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	alice.Commands <- &Command{Kind: CommandJoinChannel, Channel: "announcements"}
	mustEvent(t, alice.Events, EventHistory)

	alice.Commands <- &Command{Kind: CommandSendMessage, Channel: "announcements", Content: "psa"}

	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodePermissionDenied {
		t.Fatalf("expected permission_denied, got %+v", ev)
	}
	if history, _ := hub.channels.History("announcements"); len(history) != 0 {
		t.Fatal("denied message must not be appended")
	}

	// Role is evaluated at send time: a promotion without re-auth is
	// enough to pass the gate.
	hub.directory.SetRole("alice", RoleAnnouncer)
	alice.Commands <- &Command{Kind: CommandSendMessage, Channel: "announcements", Content: "psa2"}

	msg := mustEvent(t, alice.Events, EventNewMessage)
	if msg.Message.Content != "psa2" || msg.Message.Role != RoleAnnouncer {
		t.Fatalf("unexpected message after promotion: %+v", msg.Message)
	}
}

func TestLinkAccessIsLateralGrant(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	hub.directory.SetRole("alice", RoleAnnouncer)

	alice.Commands <- &Command{Kind: CommandSendMessage, Channel: "links", Content: "https://example.com"}

	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodePermissionDenied {
		t.Fatalf("announcer must not post links, got %+v", ev)
	}
}

func TestBannedSendIsFullNoOp(t *testing.T) {
	hub := newTestHub(t)

	owner := connect(t, hub, "sigmabread")
	alice := connect(t, hub, "alice")

	owner.Commands <- &Command{Kind: CommandAdminAction, Admin: AdminRequest{Action: AdminBan, Target: "alice"}}
	banned := mustEvent(t, owner.Events, EventUserBanned)
	if banned.Username != "alice" {
		t.Fatalf("unexpected ban broadcast: %+v", banned)
	}
	mustEvent(t, alice.Events, EventUserBanned)

	alice.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "let me in"}

	mustNoEvent(t, owner.Events, EventNewMessage, 150*time.Millisecond)
	mustNoEvent(t, alice.Events, EventNewMessage, 50*time.Millisecond)
	mustNoEvent(t, alice.Events, EventError, 50*time.Millisecond)

	if history, _ := hub.channels.History("general"); len(history) != 0 {
		t.Fatal("banned user's message must not be appended")
	}
}

func TestShadowbanAsymmetry(t *testing.T) {
	hub := newTestHub(t)

	owner := connect(t, hub, "sigmabread")
	alice := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")

	owner.Commands <- &Command{Kind: CommandAdminAction, Admin: AdminRequest{Action: AdminShadowban, Target: "alice"}}

	// Shadow-bans announce nothing; pipeline a marker message through
	// the same session to know the flag is applied.
	owner.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "marker"}
	mustEvent(t, alice.Events, EventNewMessage)
	mustEvent(t, bob.Events, EventNewMessage)
	mustNoEvent(t, alice.Events, EventUserBanned, 50*time.Millisecond)

	alice.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "secret"}

	own := mustEvent(t, alice.Events, EventNewMessage)
	if own.Message.Content != "secret" {
		t.Fatalf("sender must see own message live: %+v", own.Message)
	}
	mustNoEvent(t, bob.Events, EventNewMessage, 150*time.Millisecond)

	// The message is in the durable log: a later joiner sees it.
	late := connect(t, hub, "carol")
	history := mustEvent(t, late.Events, EventHistory)
	if len(history.Messages) != 2 || history.Messages[1].Content != "secret" {
		t.Fatalf("late joiner must see shadow-banned message in history: %+v", history.Messages)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")

	// bob is already in general via auto-join; joining twice more must
	// not produce duplicate deliveries.
	bob.Commands <- &Command{Kind: CommandJoinChannel, Channel: "general"}
	mustEvent(t, bob.Events, EventHistory)
	bob.Commands <- &Command{Kind: CommandJoinChannel, Channel: "general"}
	mustEvent(t, bob.Events, EventHistory)

	alice.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "once"}

	if got := countEvents(bob.Events, EventNewMessage, 300*time.Millisecond); got != 1 {
		t.Fatalf("expected exactly one delivery, got %d", got)
	}
}

func TestJoinUnknownChannelIgnored(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	alice.Commands <- &Command{Kind: CommandJoinChannel, Channel: "ghost"}

	mustNoEvent(t, alice.Events, EventHistory, 150*time.Millisecond)
	mustNoEvent(t, alice.Events, EventError, 50*time.Millisecond)
}

func TestPurgeClearsOnlyTargetAndNotifiesMembers(t *testing.T) {
	hub := newTestHub(t)

	owner := connect(t, hub, "sigmabread")
	alice := connect(t, hub, "alice")

	alice.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "one"}
	mustEvent(t, alice.Events, EventNewMessage)
	owner.Commands <- &Command{Kind: CommandSendMessage, Channel: "links", Content: "https://x"}

	owner.Commands <- &Command{Kind: CommandAdminAction, Admin: AdminRequest{Action: AdminPurge, Target: "general"}}

	purged := mustEvent(t, alice.Events, EventChannelPurged)
	if purged.Channel != "general" {
		t.Fatalf("unexpected purge notice: %+v", purged)
	}

	if history, _ := hub.channels.History("general"); len(history) != 0 {
		t.Fatal("general must be empty after purge")
	}
	if history, _ := hub.channels.History("links"); len(history) != 1 {
		t.Fatal("links must be untouched by purge of general")
	}
}

func TestAdminActionsRequireAccessAdmin(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	connect(t, hub, "bob")

	alice.Commands <- &Command{Kind: CommandAdminAction, Admin: AdminRequest{Action: AdminBan, Target: "bob"}}

	mustNoEvent(t, alice.Events, EventUserBanned, 150*time.Millisecond)
	if hub.moderation.IsBanned("bob") {
		t.Fatal("non-admin must not be able to ban")
	}
}

func TestModifyRoleRequiresStricterPermission(t *testing.T) {
	hub := newTestHub(t)

	owner := connect(t, hub, "sigmabread")
	mod := connect(t, hub, "moira")
	hub.directory.SetRole("moira", RoleMod)
	connect(t, hub, "alice")

	// A mod passes access_admin but not modify_roles.
	mod.Commands <- &Command{Kind: CommandAdminAction, Admin: AdminRequest{Action: AdminModifyRole, Target: "alice", Role: "admin"}}
	mustNoEvent(t, mod.Events, EventUserUpdated, 150*time.Millisecond)
	if user, _ := hub.directory.Get("alice"); user.Role != RoleUser {
		t.Fatalf("mod must not modify roles, alice is %s", user.Role)
	}

	owner.Commands <- &Command{Kind: CommandAdminAction, Admin: AdminRequest{Action: AdminModifyRole, Target: "alice", Role: "link-access"}}
	updated := mustEvent(t, mod.Events, EventUserUpdated)
	if updated.User.Username != "alice" || updated.User.Role != RoleLinkAccess {
		t.Fatalf("unexpected user:updated: %+v", updated.User)
	}
	if user, _ := hub.directory.Get("alice"); user.Role != RoleLinkAccess {
		t.Fatalf("role not applied: %s", user.Role)
	}
}

func TestModifyRoleUnknownRoleRejected(t *testing.T) {
	hub := newTestHub(t)

	owner := connect(t, hub, "sigmabread")
	connect(t, hub, "alice")

	owner.Commands <- &Command{Kind: CommandAdminAction, Admin: AdminRequest{Action: AdminModifyRole, Target: "alice", Role: "superuser"}}

	ev := mustEvent(t, owner.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got %+v", ev)
	}
}

func TestTypingBroadcastNeverEchoes(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")

	alice.Commands <- &Command{Kind: CommandTypingStart, Channel: "general"}

	typing := mustEvent(t, bob.Events, EventUserTyping)
	if typing.Username != "alice" {
		t.Fatalf("unexpected typing event: %+v", typing)
	}
	mustNoEvent(t, alice.Events, EventUserTyping, 150*time.Millisecond)

	alice.Commands <- &Command{Kind: CommandTypingStop, Channel: "general"}
	stopped := mustEvent(t, bob.Events, EventUserStoppedTyping)
	if stopped.Username != "alice" {
		t.Fatalf("unexpected stopped event: %+v", stopped)
	}
}

func TestDisconnectClearsTypingAndGoesOffline(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")

	alice.Commands <- &Command{Kind: CommandTypingStart, Channel: "general"}
	mustEvent(t, bob.Events, EventUserTyping)

	hub.UnregisterSession(alice)

	stopped := mustEvent(t, bob.Events, EventUserStoppedTyping)
	if stopped.Username != "alice" {
		t.Fatalf("typing state must clear on disconnect: %+v", stopped)
	}
	offline := mustEvent(t, bob.Events, EventUserOffline)
	if offline.Username != "alice" {
		t.Fatalf("unexpected offline event: %+v", offline)
	}
	if _, ok := hub.typing.Channel("alice"); ok {
		t.Fatal("tracker must have no entry after disconnect")
	}
}

func TestTeardownIsIdempotent(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")

	hub.UnregisterSession(alice)
	hub.UnregisterSession(alice)

	if got := countEvents(bob.Events, EventUserOffline, 300*time.Millisecond); got != 1 {
		t.Fatalf("expected one offline broadcast, got %d", got)
	}
}

func TestDisconnectedSessionReceivesNoBroadcasts(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")

	hub.UnregisterSession(bob)
	mustEvent(t, alice.Events, EventUserOffline)

	alice.Commands <- &Command{Kind: CommandSendMessage, Channel: "general", Content: "anyone?"}
	mustEvent(t, alice.Events, EventNewMessage)
	mustNoEvent(t, bob.Events, EventNewMessage, 150*time.Millisecond)
}
