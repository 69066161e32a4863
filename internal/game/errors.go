package game

import (
	"errors"
	"fmt"
)

// Rule errors. Every rejected action wraps exactly one of these.
var (
	ErrInvalidPhase          = errors.New("invalid phase")
	ErrInvalidLocation       = errors.New("invalid location")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidPlayer         = errors.New("invalid player")
	ErrInvalidTrade          = errors.New("invalid trade")
	ErrBuildCapReached       = errors.New("build cap reached")
	ErrInvalidStealTarget    = errors.New("invalid steal target")
	ErrMissingStealTarget    = errors.New("steal target required")
	ErrActionRequired        = errors.New("action required before proceeding")
	ErrInvalidCard           = errors.New("invalid card")
)

// Construction errors.
var (
	ErrInvalidPlayerCount = errors.New("player count must be between 2 and 4")
	ErrInvalidLayout      = errors.New("layout does not fit the standard tile set")
)

// RuleError is a rejection with a human-readable reason. errors.Is matches
// it against the wrapped sentinel.
type RuleError struct {
	Err    error
	Reason string
}

func (e *RuleError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Reason
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

func reject(err error, format string, args ...any) error {
	return &RuleError{Err: err, Reason: fmt.Sprintf(format, args...)}
}
