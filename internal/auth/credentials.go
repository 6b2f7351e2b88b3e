package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Credentials holds the configured admin username and secret. When
// PasswordHash is set it takes precedence over Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Validate reports whether username and password match the configured pair.
// Both halves are always compared so timing does not reveal which one failed.
func (c Credentials) Validate(username, password string) bool {
	if username == "" || password == "" || c.Username == "" {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1

	var passOK bool
	switch {
	case c.PasswordHash != "":
		passOK = bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	case c.Password != "":
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}

	return userOK && passOK
}

// HashPassword returns a bcrypt hash suitable for COURSEHUB_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
