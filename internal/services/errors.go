package services

import "errors"

// Terminal outcomes of the identity and chat flows. Handlers map these
// to HTTP statuses; anything else is an internal fault.
var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrAccountExists  = errors.New("account already exists")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrCodeExpired    = errors.New("code expired, please register again")
	ErrNoPending      = errors.New("no pending registration for this email")
	ErrNotVerified    = errors.New("email not verified")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNoAccount      = errors.New("no account with that email")
	ErrResetInvalid   = errors.New("invalid or expired reset code")

	ErrSessionNotFound = errors.New("session not found")
	ErrNotSessionOwner = errors.New("not authorized for this session")
)
