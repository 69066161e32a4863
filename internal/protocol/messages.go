// Package protocol defines the network message types for client-server communication.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"settlers/internal/game"
)

// MessageType identifies the type of message.
type MessageType string

// Authentication message types
const (
	TypeAuthenticate MessageType = "authenticate"
	TypeAuthResult   MessageType = "auth_result"
)

// Game flow message types
const (
	TypeGameState    MessageType = "game_state"
	TypeEvents       MessageType = "events"
	TypeRequestLegal MessageType = "request_legal"
	TypeLegal        MessageType = "legal"
	TypeGameEnded    MessageType = "game_ended"
)

// Action message types. Each matches the game action it carries.
const (
	TypeRollDice        = MessageType(game.ActionRollDice)
	TypeBuildSettlement = MessageType(game.ActionBuildSettlement)
	TypeBuildCity       = MessageType(game.ActionBuildCity)
	TypeBuildRoad       = MessageType(game.ActionBuildRoad)
	TypeBuyCard         = MessageType(game.ActionBuyCard)
	TypePlayCard        = MessageType(game.ActionPlayCard)
	TypeBankTrade       = MessageType(game.ActionBankTrade)
	TypeOfferTrade      = MessageType(game.ActionOfferTrade)
	TypeAcceptTrade     = MessageType(game.ActionAcceptTrade)
	TypeRejectTrade     = MessageType(game.ActionRejectTrade)
	TypeMoveRobber      = MessageType(game.ActionMoveRobber)
	TypeDiscard         = MessageType(game.ActionDiscard)
	TypeEndTurn         = MessageType(game.ActionEndTurn)
)

// System message types
const (
	TypeWelcome MessageType = "welcome"
	TypeError   MessageType = "error"
	TypePing    MessageType = "ping"
	TypePong    MessageType = "pong"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload any) (*Message, error) {
	msg := &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = data
	}
	return msg, nil
}

// ParsePayload unmarshals the payload into the given type. Failures wrap
// ErrBadPayload.
func (m *Message) ParsePayload(v any) error {
	data := []byte(m.Payload)
	if len(data) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBadPayload, m.Type, err)
	}
	return nil
}
