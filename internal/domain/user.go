package domain

import "time"

// User is an account record. PasswordHash and Fingerprint are independently
// nullable: a nil PasswordHash disables password login (fingerprint-only
// account), a nil Fingerprint means no sample has been enrolled yet.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash *string   `json:"password_hash"`
	Fingerprint  *string   `json:"fingerprint"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUser(username string, passwordHash *string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}

// HasPassword reports whether password login is enabled for this account.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil
}

// HasFingerprint reports whether a fingerprint sample is enrolled.
func (u *User) HasFingerprint() bool {
	return u.Fingerprint != nil
}

// StoredFingerprint returns the enrolled sample, or "" when none is enrolled.
func (u *User) StoredFingerprint() string {
	if u.Fingerprint == nil {
		return ""
	}
	return *u.Fingerprint
}

// Identity is the caller-visible projection of an account. It never carries
// credential material.
type Identity struct {
	Username string `json:"username"`
}

func (u *User) Identity() Identity {
	return Identity{Username: u.Username}
}
