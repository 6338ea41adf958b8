package core

// Role is a named privilege level assigned to a user.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleUser       Role = "user"
	RoleLinkAccess Role = "link-access"
	RoleAnnouncer  Role = "announcer"
	RoleMod        Role = "mod"
	RoleAdmin      Role = "admin"
	RoleOwner      Role = "owner"
)

// Roles lists every role in ascending privilege order. The order is used
// for display only; permission checks go through the per-action
// allow-lists below.
var Roles = []Role{
	RoleGuest,
	RoleUser,
	RoleLinkAccess,
	RoleAnnouncer,
	RoleMod,
	RoleAdmin,
	RoleOwner,
}

// Action is a gated operation a user may attempt.
type Action string

const (
	ActionPostAnnouncement Action = "post_announcement"
	ActionPostLink         Action = "post_link"
	ActionAccessAdmin      Action = "access_admin"
	ActionModifyRoles      Action = "modify_roles"
)

// actionAllowList maps each gated action to the roles allowed to perform
// it. Membership is the sole criterion: link-access and announcer are
// lateral grants, not ancestors of mod, so an index comparison over
// Roles would get this wrong.
var actionAllowList = map[Action][]Role{
	ActionPostAnnouncement: {RoleAnnouncer, RoleMod, RoleAdmin, RoleOwner},
	ActionPostLink:         {RoleLinkAccess, RoleMod, RoleAdmin, RoleOwner},
	ActionAccessAdmin:      {RoleMod, RoleAdmin, RoleOwner},
	ActionModifyRoles:      {RoleAdmin, RoleOwner},
}

// HasPermission reports whether user may perform action. A nil user has
// no permissions at all. Actions without an allow-list are permitted to
// any bound user.
func HasPermission(user *User, action Action) bool {
	if user == nil {
		return false
	}
	allowed, gated := actionAllowList[action]
	if !gated {
		return true
	}
	for _, role := range allowed {
		if user.Role == role {
			return true
		}
	}
	return false
}

// ParseRole returns the Role matching name, or false if the name is not
// a known role.
func ParseRole(name string) (Role, bool) {
	for _, role := range Roles {
		if string(role) == name {
			return role, true
		}
	}
	return "", false
}
