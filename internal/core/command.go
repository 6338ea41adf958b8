package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandAuth binds an identity to the session.
	CommandAuth CommandKind = iota
	// CommandJoinChannel subscribes the session to a channel.
	CommandJoinChannel
	// CommandSendMessage posts a chat message to a channel.
	CommandSendMessage
	// CommandTypingStart signals the user started typing in a channel.
	CommandTypingStart
	// CommandTypingStop signals the user stopped typing in a channel.
	CommandTypingStop
	// CommandAdminAction performs a moderation sub-action.
	CommandAdminAction
)

// AdminActionKind names the moderation sub-actions.
const (
	AdminBan        = "ban"
	AdminShadowban  = "shadowban"
	AdminPurge      = "purge"
	AdminModifyRole = "modify_role"
)

// AuthRequest carries credentials for CommandAuth. Exactly one of the
// three paths applies: guest flag, resume token, or username/password.
type AuthRequest struct {
	Username string
	Password string
	Token    string
	IsGuest  bool
}

// AdminRequest carries a moderation sub-action for CommandAdminAction.
// Target is a username for ban/shadowban/modify_role and a channel name
// for purge.
type AdminRequest struct {
	Action string
	Target string
	Role   string
}

// Command represents an action requested by a session.
type Command struct {
	Kind    CommandKind
	Channel string
	Content string
	Auth    AuthRequest
	Admin   AdminRequest
}
