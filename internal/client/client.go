package client

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"settlers/internal/ai"
	"settlers/internal/game"
	"settlers/internal/protocol"
)

// maxRetries bounds how often a rejected move is re-decided on the same
// state before the bot waits for the next broadcast.
const maxRetries = 5

// RemoteBot plays one seat over the network with the ai heuristics.
type RemoteBot struct {
	conn *NetworkClient
	bot  *ai.Bot
	log  *zap.Logger

	Moves    int // actions sent
	Rejected int // error replies received
}

// NewRemoteBot wraps an authenticated connection.
func NewRemoteBot(conn *NetworkClient, playerID string, difficulty game.Difficulty, seed int64, log *zap.Logger) *RemoteBot {
	if log == nil {
		log = zap.NewNop()
	}
	return &RemoteBot{
		conn: conn,
		bot:  ai.New(playerID, difficulty, seed),
		log:  log.Named("bot").With(zap.String("player_id", playerID)),
	}
}

// DecodeState extracts the snapshot from a game_state message.
func DecodeState(msg *protocol.Message) (*game.GameState, error) {
	var payload protocol.GameStatePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return nil, err
	}
	var g game.GameState
	if err := json.Unmarshal(payload.State, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Play answers every state broadcast until the game ends or ctx is done.
// It returns the winner's ID.
func (r *RemoteBot) Play(ctx context.Context) (string, error) {
	var latest *game.GameState
	retries := 0

	for {
		msg, err := r.conn.Await(ctx, protocol.TypeGameState, protocol.TypeError, protocol.TypeGameEnded)
		if err != nil {
			return "", err
		}

		switch msg.Type {
		case protocol.TypeGameEnded:
			var p protocol.GameEndedPayload
			if err := msg.ParsePayload(&p); err != nil {
				return "", err
			}
			return p.WinnerID, nil

		case protocol.TypeError:
			var p protocol.ErrorPayload
			_ = msg.ParsePayload(&p)
			r.Rejected++
			r.log.Debug("move rejected", zap.String("code", string(p.Code)), zap.String("reason", p.Message))
			if latest == nil || retries >= maxRetries {
				continue
			}
			retries++

		case protocol.TypeGameState:
			g, err := DecodeState(msg)
			if err != nil {
				return "", err
			}
			if g.IsGameOver() {
				return g.Winner, nil
			}
			latest, retries = g, 0
		}

		if err := r.act(latest); err != nil {
			return "", err
		}
	}
}

func (r *RemoteBot) act(g *game.GameState) error {
	a, ok := r.bot.Decide(g)
	if !ok {
		return nil
	}
	msg, err := protocol.EncodeAction(a)
	if err != nil {
		return err
	}
	r.Moves++
	if err := r.conn.Send(msg); err != nil {
		if errors.Is(err, ErrClosed) {
			return err
		}
		r.log.Warn("send failed", zap.Error(err))
	}
	return nil
}
