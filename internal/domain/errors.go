package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrGameNotFound indicates the requested game does not exist
	ErrGameNotFound = errors.New("game not found")

	// ErrEntryNotFound indicates the requested library entry does not exist
	ErrEntryNotFound = errors.New("library entry not found")

	// ErrDuplicateEntry indicates the game is already in the user's library
	ErrDuplicateEntry = errors.New("game already in library")

	// ErrServerOffline indicates the API is unreachable
	ErrServerOffline = errors.New("api server is unreachable")

	// ErrAuthFailed indicates the API key or user id was rejected
	ErrAuthFailed = errors.New("api credentials are invalid")

	// ErrUsernameTaken indicates the requested display name is in use
	ErrUsernameTaken = errors.New("username already taken")

	// ErrNoIdentity indicates an operation requiring a user id ran before
	// the anonymous bootstrap completed
	ErrNoIdentity = errors.New("anonymous identity not established")
)
