package service

import "errors"

var (
	// ErrUnauthenticated is returned when no verified caller identity is present.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrEmptyMessage is returned when a submitted message is empty after trimming.
	ErrEmptyMessage = errors.New("message is required")

	// ErrEmptyTopic is returned when a topic update carries no text.
	ErrEmptyTopic = errors.New("topic is required")

	// ErrNoMessages is returned when topic generation is asked for an empty transcript.
	ErrNoMessages = errors.New("messages are required")

	// ErrSessionNotFound is returned when the referenced session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotSessionOwner is returned when the caller does not own the session.
	ErrNotSessionOwner = errors.New("session does not belong to user")

	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound is returned when a token references a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
