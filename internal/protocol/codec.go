package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"settlers/internal/game"
)

var (
	// ErrUnknownAction is returned for a message type that carries no action.
	ErrUnknownAction = errors.New("unknown action type")
	// ErrBadPayload is returned when a payload does not decode.
	ErrBadPayload = errors.New("malformed payload")
)

// EncodeAction wraps an action in a message of the matching type.
func EncodeAction(a game.Action) (*Message, error) {
	return NewMessage(MessageType(a.Type()), a)
}

// IsAction reports whether the message type carries a game action.
func IsAction(t MessageType) bool {
	_, ok := newAction(game.ActionType(t))
	return ok
}

// DecodeAction decodes an action payload. The acting seat is left as sent;
// the server overwrites it with the authenticated player.
func DecodeAction(t MessageType, payload json.RawMessage) (game.Action, error) {
	ptr, ok := newAction(game.ActionType(t))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, t)
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, ptr); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadPayload, t, err)
		}
	}
	return deref(ptr), nil
}

// WithActor returns a copy of the action attributed to playerID.
func WithActor(a game.Action, playerID string) game.Action {
	seat := game.As(playerID)
	switch v := a.(type) {
	case game.RollDice:
		v.Seat = seat
		return v
	case game.BuildSettlement:
		v.Seat = seat
		return v
	case game.BuildCity:
		v.Seat = seat
		return v
	case game.BuildRoad:
		v.Seat = seat
		return v
	case game.BuyCard:
		v.Seat = seat
		return v
	case game.PlayCard:
		v.Seat = seat
		return v
	case game.BankTrade:
		v.Seat = seat
		return v
	case game.OfferTrade:
		v.Seat = seat
		return v
	case game.AcceptTrade:
		v.Seat = seat
		return v
	case game.RejectTrade:
		v.Seat = seat
		return v
	case game.MoveRobber:
		v.Seat = seat
		return v
	case game.Discard:
		v.Seat = seat
		return v
	case game.EndTurn:
		v.Seat = seat
		return v
	}
	return a
}

func newAction(t game.ActionType) (any, bool) {
	switch t {
	case game.ActionRollDice:
		return &game.RollDice{}, true
	case game.ActionBuildSettlement:
		return &game.BuildSettlement{}, true
	case game.ActionBuildCity:
		return &game.BuildCity{}, true
	case game.ActionBuildRoad:
		return &game.BuildRoad{}, true
	case game.ActionBuyCard:
		return &game.BuyCard{}, true
	case game.ActionPlayCard:
		return &game.PlayCard{}, true
	case game.ActionBankTrade:
		return &game.BankTrade{}, true
	case game.ActionOfferTrade:
		return &game.OfferTrade{}, true
	case game.ActionAcceptTrade:
		return &game.AcceptTrade{}, true
	case game.ActionRejectTrade:
		return &game.RejectTrade{}, true
	case game.ActionMoveRobber:
		return &game.MoveRobber{}, true
	case game.ActionDiscard:
		return &game.Discard{}, true
	case game.ActionEndTurn:
		return &game.EndTurn{}, true
	}
	return nil, false
}

func deref(ptr any) game.Action {
	switch v := ptr.(type) {
	case *game.RollDice:
		return *v
	case *game.BuildSettlement:
		return *v
	case *game.BuildCity:
		return *v
	case *game.BuildRoad:
		return *v
	case *game.BuyCard:
		return *v
	case *game.PlayCard:
		return *v
	case *game.BankTrade:
		return *v
	case *game.OfferTrade:
		return *v
	case *game.AcceptTrade:
		return *v
	case *game.RejectTrade:
		return *v
	case *game.MoveRobber:
		return *v
	case *game.Discard:
		return *v
	case *game.EndTurn:
		return *v
	}
	return nil
}
