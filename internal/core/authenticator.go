package core

// Authenticator abstracts credential checking for the Hub. The hub only
// decides when to authenticate; how credentials are verified (bcrypt,
// resume tokens, guest synthesis) lives in the auth service.
type Authenticator interface {
	// Authenticate verifies a username/password pair. Unknown usernames
	// are registered on first authentication.
	Authenticate(username, password string) (User, error)

	// AuthenticateToken verifies a resume token issued by TokenFor.
	AuthenticateToken(token string) (User, error)

	// Guest synthesizes a fresh guest identity. Guests are never stored
	// in the directory.
	Guest() User

	// TokenFor issues a resume token for an authenticated identity.
	TokenFor(user User) (string, error)
}
