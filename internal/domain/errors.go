package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a user acts without an active test session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrQuestionOutOfRange indicates a question index outside 0..11.
	ErrQuestionOutOfRange = errors.New("question index out of range")
)
