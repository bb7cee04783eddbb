// Package password hashes and verifies user secrets.
//
// Hashes are bcrypt strings, each one carries its own random salt
// and cost, so Verify never needs anything besides the stored hash.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of plain using bcrypt.DefaultCost
func Hash(plain string) (string, error) {
	return HashWithCost(plain, bcrypt.DefaultCost)
}

// HashWithCost is like Hash but allows callers (mostly tests) to pick
// a cheaper cost
func HashWithCost(plain string, cost int) (string, error) {
	buf, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("password: unable to hash secret, cause %w", err)
	}
	return string(buf), nil
}

// Verify reports if plain matches hashed. Any error (malformed hash,
// mismatch) is reported as false.
func Verify(hashed, plain string) bool {
	if len(hashed) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
