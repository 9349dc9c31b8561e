package identity

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBadCredentials signals a wrong current password on a change attempt.
	ErrBadCredentials = errors.New("current password does not match")
	// ErrWeakPassword signals a new password below the minimum length.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{4,20}$`)

// ValidUsername reports whether the username is 4 to 20 word characters.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ValidPassword reports whether the password meets the minimum length.
func ValidPassword(password string) bool {
	return len(password) >= 6
}

// HashPassword derives the stored form of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// User is a login account tied to a person record.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password_hash"`
	Role         Role       `json:"role"`
	Person       Person     `json:"person"`
	PatientID    string     `json:"patient_id,omitempty"`
	Active       bool       `json:"active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedDate  time.Time  `json:"created_date"`
}

// NewUser creates an active account with a generated USR- id.
func NewUser(username, password string, role Role, person Person) *User {
	return &User{
		ID:           "USR-" + uuid.NewString()[:8],
		Username:     username,
		PasswordHash: HashPassword(password),
		Role:         role,
		Person:       person,
		Active:       true,
		CreatedDate:  today(),
	}
}

// CheckPassword reports whether the candidate matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return u.PasswordHash == HashPassword(password)
}

// ChangePassword replaces the password after verifying the current one.
func (u *User) ChangePassword(current, next string) error {
	if !u.CheckPassword(current) {
		return ErrBadCredentials
	}
	if !ValidPassword(next) {
		return ErrWeakPassword
	}
	u.PasswordHash = HashPassword(next)
	return nil
}

// RecordLogin stamps the last successful login time.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLogin = &now
}

// Deactivate disables the account. Disabled accounts cannot authenticate.
func (u *User) Deactivate() { u.Active = false }

// Activate re-enables the account.
func (u *User) Activate() { u.Active = true }

func (u *User) String() string {
	return u.Username + " (" + u.Role.DisplayName() + ")"
}
