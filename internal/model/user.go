package model

import (
	"errors"
	"strings"
	"time"
)

// User represents a registered account that owns sneakers.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	MiddleName   string    `json:"middle_name,omitempty"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPatch is a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Email      *string `json:"email,omitempty"`
	Username   *string `json:"username,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	MiddleName *string `json:"middle_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
}

// Validate checks that the provided patch fields are acceptable.
func (p *UserPatch) Validate() error {
	if p.Email != nil {
		if err := ValidateEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Username != nil && *p.Username == "" {
		return errors.New("username cannot be empty")
	}
	if p.FirstName != nil && *p.FirstName == "" {
		return errors.New("first_name cannot be empty")
	}
	if p.LastName != nil && *p.LastName == "" {
		return errors.New("last_name cannot be empty")
	}
	return nil
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks that a password meets the minimum requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidateEmail performs a light sanity check on an email address.
// Deliverability is the mail server's problem; this only rejects obvious garbage.
func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return errors.New("invalid email address")
	}
	return nil
}
