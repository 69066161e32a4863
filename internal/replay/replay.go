// Package replay records a game as a compressed action log and verifies
// that re-applying the log from the seed reproduces every state digest.
package replay

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"lukechampine.com/blake3"

	"settlers/internal/game"
	"settlers/internal/protocol"
)

// Version is the log format version written in the header.
const Version = 1

var (
	ErrDigestMismatch = errors.New("state digest mismatch")
	ErrBadLog         = errors.New("malformed replay log")
)

// Seat is one player as recorded in the header.
type Seat struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Color      game.PlayerColor `json:"color"`
	IsAI       bool             `json:"isAI,omitempty"`
	Difficulty game.Difficulty  `json:"difficulty,omitempty"`
}

// Header is the first line of a log: everything needed to rebuild the
// starting state.
type Header struct {
	Kind          string `json:"kind"`
	Version       int    `json:"version"`
	GameID        string `json:"gameId"`
	Seed          int64  `json:"seed"`
	LayoutID      string `json:"layoutId"`
	VictoryPoints int    `json:"victoryPoints"`
	Seats         []Seat `json:"seats"`
	Digest        string `json:"digest"`
}

// Entry is one accepted action and the digest of the state it produced.
type Entry struct {
	Kind   string               `json:"kind"`
	Seq    int                  `json:"seq"`
	Type   protocol.MessageType `json:"type"`
	Action json.RawMessage      `json:"action"`
	Digest string               `json:"digest"`
}

const (
	kindHeader = "header"
	kindAction = "action"
)

// NewHeader describes a freshly created game.
func NewHeader(g *game.GameState, seed int64) (Header, error) {
	digest, err := Digest(g)
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Kind:          kindHeader,
		Version:       Version,
		GameID:        g.ID,
		Seed:          seed,
		LayoutID:      g.Board.LayoutID,
		VictoryPoints: g.VictoryTarget(),
		Digest:        digest,
	}
	for _, id := range g.PlayerOrder {
		p := g.Players[id]
		h.Seats = append(h.Seats, Seat{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			IsAI:       p.IsAI,
			Difficulty: p.Difficulty,
		})
	}
	return h, nil
}

// Start rebuilds the initial state and the random source positioned right
// after game creation.
func (h Header) Start() (*game.GameState, *rand.Rand, error) {
	players := make([]*game.Player, 0, len(h.Seats))
	for _, s := range h.Seats {
		p := game.NewPlayer(s.ID, s.Name, s.Color)
		if s.IsAI {
			p = game.NewAIPlayer(s.ID, s.Name, s.Color, s.Difficulty)
		}
		players = append(players, p)
	}

	rng := game.NewRand(h.Seed)
	g, err := game.NewGame(game.Settings{LayoutID: h.LayoutID, VictoryPoints: h.VictoryPoints}, nil, players, rng)
	if err != nil {
		return nil, nil, err
	}
	g.ID = h.GameID
	return g, rng, nil
}

// Digest hashes the encoded state with BLAKE3.
func Digest(g *game.GameState) (string, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
