package protocol

import (
	"errors"

	"settlers/internal/game"
)

// ErrorCode is the stable wire name of a failure.
type ErrorCode string

const (
	ErrCodeInvalidPhase          ErrorCode = "invalid_phase"
	ErrCodeInvalidLocation       ErrorCode = "invalid_location"
	ErrCodeInsufficientResources ErrorCode = "insufficient_resources"
	ErrCodeInvalidPlayer         ErrorCode = "invalid_player"
	ErrCodeInvalidTrade          ErrorCode = "invalid_trade"
	ErrCodeBuildCapReached       ErrorCode = "build_cap_reached"
	ErrCodeInvalidStealTarget    ErrorCode = "invalid_steal_target"
	ErrCodeMissingStealTarget    ErrorCode = "missing_steal_target"
	ErrCodeActionRequired        ErrorCode = "action_required"
	ErrCodeInvalidCard           ErrorCode = "invalid_card"
	ErrCodeBadRequest            ErrorCode = "bad_request"
	ErrCodeNotAuthenticated      ErrorCode = "not_authenticated"
	ErrCodeRateLimited           ErrorCode = "rate_limited"
	ErrCodeInternalError         ErrorCode = "internal_error"
)

var ruleCodes = []struct {
	err  error
	code ErrorCode
}{
	{game.ErrInvalidPhase, ErrCodeInvalidPhase},
	{game.ErrInvalidLocation, ErrCodeInvalidLocation},
	{game.ErrInsufficientResources, ErrCodeInsufficientResources},
	{game.ErrInvalidPlayer, ErrCodeInvalidPlayer},
	{game.ErrInvalidTrade, ErrCodeInvalidTrade},
	{game.ErrBuildCapReached, ErrCodeBuildCapReached},
	{game.ErrInvalidStealTarget, ErrCodeInvalidStealTarget},
	{game.ErrMissingStealTarget, ErrCodeMissingStealTarget},
	{game.ErrActionRequired, ErrCodeActionRequired},
	{game.ErrInvalidCard, ErrCodeInvalidCard},
	{ErrUnknownAction, ErrCodeBadRequest},
	{ErrBadPayload, ErrCodeBadRequest},
}

// ErrorCodeFor maps an error to its wire code. Unrecognized errors are
// internal.
func ErrorCodeFor(err error) ErrorCode {
	for _, rc := range ruleCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return ErrCodeInternalError
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	ReplyTo string    `json:"replyTo,omitempty"`
}

// NewError builds an error message replying to the message with id replyTo.
func NewError(code ErrorCode, text, replyTo string) (*Message, error) {
	return NewMessage(TypeError, ErrorPayload{Code: code, Message: text, ReplyTo: replyTo})
}
