package util

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("record already exists")
	ErrValidation         = errors.New("validation failed")
	ErrAIUnavailable      = errors.New("AI scoring is not configured")
	ErrAIResponse         = errors.New("AI returned an unusable response")
	ErrEssayMarking       = errors.New("essay marking failed")
	ErrQueryNotAllowed    = errors.New("only single SELECT queries are allowed")
	ErrUnknownTable       = errors.New("unknown table")
)
