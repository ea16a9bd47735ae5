package models

import "time"

// PendingUser is an unconfirmed registration waiting for its one-time
// code. Promoted to User on successful verification, deleted on expiry.
type PendingUser struct {
	ID           int
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	OTPCode      string
	ExpiresAt    time.Time
}
