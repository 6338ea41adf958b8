package core

import "time"

// User is an identity as seen by the rest of the system. Credential
// material never appears here; it stays inside the Directory.
type User struct {
	Username    string
	DisplayName string
	Role        Role
	Avatar      string
	Theme       string
	CreatedAt   time.Time
	IsGuest     bool
}

// DefaultAvatar is assigned to every identity until avatar uploads exist.
const DefaultAvatar = "/placeholder.svg?height=80&width=80"

// DefaultTheme is the theme new identities start with.
const DefaultTheme = "dark"
