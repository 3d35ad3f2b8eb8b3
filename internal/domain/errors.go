package domain

import "errors"

var (
	// ErrBankNotFound indicates a category bank could not be located.
	// Callers treat it as an empty bank; it only escalates if the overall
	// pool ends up short.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrNoCategories is returned when a new game is requested without any
	// category selection.
	ErrNoCategories = errors.New("no categories selected")
	// ErrInsufficientQuestions is returned when a tier quota cannot be met
	// from the selected categories.
	ErrInsufficientQuestions = errors.New("not enough questions for a full game")
	// ErrSessionNotFound is returned when acting on a session that was never
	// opened or has already ended.
	ErrSessionNotFound = errors.New("game session not found")
)
