package credentials

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher decides what is stored in Credential.Password and how a
// login attempt is compared against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(stored, supplied string) bool
}

type plainPasswords struct{}

// PlainPasswords stores passwords as entered (the blob is still encrypted)
// and compares them byte for byte, case-sensitively.
func PlainPasswords() PasswordHasher { return plainPasswords{} }

func (plainPasswords) Hash(password string) (string, error) { return password, nil }

func (plainPasswords) Matches(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

type bcryptPasswords struct {
	cost int
}

// BcryptPasswords stores bcrypt hashes. Credentials written in plain mode
// will no longer validate once this is switched on.
func BcryptPasswords(cost int) PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcryptPasswords{cost: cost}
}

func (b bcryptPasswords) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (bcryptPasswords) Matches(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}
