package app

import "errors"

// Sentinel kinds for service errors. Each missing-record case has its
// own kind so the transport layer can produce distinct messages.
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrRoutineNotFound         = errors.New("routine not found")
	ErrScoreNotFound           = errors.New("score not found")
	ErrRoutineForScoreNotFound = errors.New("invalid routine for score")
	ErrEmailTaken              = errors.New("a user with that email already exists")
	ErrBadCredentials          = errors.New("invalid credentials")
	ErrInvalidToken            = errors.New("invalid token")
)
