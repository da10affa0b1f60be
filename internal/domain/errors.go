package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrInvalidSensitivity  = errors.New("invalid sensitivity")
	ErrInvalidUsername     = errors.New("invalid username")
	ErrEmptyUpdate         = errors.New("no recognized preference fields")
)
