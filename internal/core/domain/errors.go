package domain

import "errors"

// Validation / not-found-by-value errors (400)
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrUserExists           = errors.New("username or email already exists")
	ErrInvalidOtp           = errors.New("invalid approval code")
	ErrAlreadySubscribed    = errors.New("email already subscribed")
	ErrAlreadyRegistered    = errors.New("email already registered for this event")
	ErrPaymentNotCompleted  = errors.New("payment not completed")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrUnknownRole          = errors.New("unknown role")
)

// Authorization errors (403)
var (
	ErrAccessDenied     = errors.New("access denied")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// Not-found-by-id errors (404)
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAdminNotFound = errors.New("admin not found")
)

// Bootstrap errors
var (
	ErrSuperAdminNotFound = errors.New("super admin not configured")
	ErrSuperAdminExists   = errors.New("super admin already exists")
)
