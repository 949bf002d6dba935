package core

import "errors"

var (
	ErrAccessDenied     = errors.New("access denied")
	ErrDuplicateSession = errors.New("session id already registered")
	ErrSessionClosed    = errors.New("session is closed")
)
