package engine

import "errors"

// Errors returned by registry and controller operations. None of them is
// fatal: the platform drops the offending pointer event and carries on.
var (
	// ErrInvalidState is returned when a car (or the controller) is not in
	// the state an operation requires.
	ErrInvalidState = errors.New("invalid state")

	// ErrNoTarget is returned when a pointer ray hits nothing usable.
	ErrNoTarget = errors.New("no target")

	// ErrSessionConflict is returned for a pointer-down while a drag
	// session is already open.
	ErrSessionConflict = errors.New("drag session already open")

	// ErrGameOver is returned for a pointer-down after the round ended.
	ErrGameOver = errors.New("game over")
)
