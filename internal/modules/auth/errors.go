package auth

import "errors"

// Error values carry the message keys shown to the user.
var (
	ErrUserNotFound    = errors.New("userNotFound")
	ErrInvalidPassword = errors.New("invalidPassword")
	ErrInvalidCode     = errors.New("invalidResetCode")
	ErrNoSession       = errors.New("no session")
)
