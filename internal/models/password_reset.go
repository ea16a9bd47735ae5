package models

import "time"

// PasswordReset holds a live reset code for an email. At most one per
// email: older rows are purged before a new one is inserted.
type PasswordReset struct {
	ID        int
	Email     string
	OTPCode   string
	ExpiresAt time.Time
}
