package utils

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"

	"github.com/google/uuid"
)

// NewSessionID returns a unique identifier for a connection.
func NewSessionID() string {
	return uuid.NewString()
}

// GuestSuffix returns a random number in [0, 10000) used to build guest
// usernames.
func GuestSuffix() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// Fallback if crypto/rand is unavailable.
		return int64(mathrand.Intn(10000))
	}
	return n.Int64()
}
