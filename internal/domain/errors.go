package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrNotTicket       = errors.New("channel is not a ticket")
	ErrEmptySuggestion = errors.New("suggestion text is empty")
	ErrTooManyPending  = errors.New("too many pending suggestions")
	ErrAlreadyClosed   = errors.New("ticket already closed")
)

type AlreadyOpenError struct {
	RequesterID string
	ChannelID   string
}

func (e *AlreadyOpenError) Error() string {
	if e.ChannelID != "" {
		return fmt.Sprintf("requester %s already has open ticket %s", e.RequesterID, e.ChannelID)
	}
	return fmt.Sprintf("requester %s already has an open ticket", e.RequesterID)
}

type NotAuthorizedError struct {
	ActorID   string
	ChannelID string
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("actor %s may not close ticket %s", e.ActorID, e.ChannelID)
}

type InvalidRatingError struct {
	Input string
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("invalid rating %q: want an integer between 1 and 5", e.Input)
}

// EvaluationFailure envuelve lo que falló al decidir una sugerencia.
type EvaluationFailure struct {
	SuggestionID string
	Stage        string
	Err          error
}

func (e *EvaluationFailure) Error() string {
	return fmt.Sprintf("evaluate suggestion %s (%s): %v", e.SuggestionID, e.Stage, e.Err)
}

func (e *EvaluationFailure) Unwrap() error { return e.Err }
