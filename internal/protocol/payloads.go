package protocol

import (
	"encoding/json"

	"settlers/internal/game"
)

// ==================== Authentication Payloads ====================

// AuthenticatePayload binds a connection to a seat. Spectators send an
// empty token.
type AuthenticatePayload struct {
	Token string `json:"token,omitempty"`
}

// AuthResultPayload is the response to authentication.
type AuthResultPayload struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ==================== Game Payloads ====================

// WelcomePayload is the first message on a new connection.
type WelcomePayload struct {
	ConnectionID string `json:"connectionId"`
	GameID       string `json:"gameId"`
}

// GameStatePayload carries a full snapshot plus the fields clients need
// without decoding it.
type GameStatePayload struct {
	GameID          string          `json:"gameId"`
	Phase           string          `json:"phase"`
	CurrentPlayerID string          `json:"currentPlayerId"`
	Turn            int             `json:"turn"`
	Winner          string          `json:"winner,omitempty"`
	Standings       []game.Standing `json:"standings"`
	State           json.RawMessage `json:"state"`
}

// NewGameStatePayload encodes a snapshot.
func NewGameStatePayload(g *game.GameState) (*GameStatePayload, error) {
	state, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return &GameStatePayload{
		GameID:          g.ID,
		Phase:           g.Phase().String(),
		CurrentPlayerID: g.CurrentPlayerID,
		Turn:            g.Turn,
		Winner:          g.Winner,
		Standings:       game.Standings(g),
		State:           state,
	}, nil
}

// EventsPayload carries new history entries.
type EventsPayload struct {
	Events []game.Event `json:"events"`
}

// RequestLegalPayload asks for the moves open to a player. An empty
// PlayerID means the connection's own seat.
type RequestLegalPayload struct {
	PlayerID string `json:"playerId,omitempty"`
}

// LegalPayload lists where a player may place pieces right now.
type LegalPayload struct {
	PlayerID    string                    `json:"playerId"`
	Phase       string                    `json:"phase"`
	Settlements []game.CornerID           `json:"settlements"`
	Cities      []game.CornerID           `json:"cities"`
	Roads       []game.PathID             `json:"roads"`
	RobberTiles []game.TileID             `json:"robberTiles"`
	Cards       []int                     `json:"cards"`
	OwedDiscard int                       `json:"owedDiscard"`
	TradeRatios map[game.ResourceType]int `json:"tradeRatios"`
}

// NewLegalPayload collects the query helpers for one player.
func NewLegalPayload(g *game.GameState, playerID string) *LegalPayload {
	p := &LegalPayload{
		PlayerID:    playerID,
		Phase:       g.Phase().String(),
		Settlements: game.LegalSettlementCorners(g, playerID),
		Cities:      game.LegalCityCorners(g, playerID),
		Roads:       game.LegalRoadPaths(g, playerID),
		Cards:       game.PlayableCards(g, playerID),
		OwedDiscard: game.OwedDiscard(g, playerID),
		TradeRatios: make(map[game.ResourceType]int, len(game.AllResources)),
	}
	if g.Phase() == game.PhaseRobber && g.CurrentPlayerID == playerID {
		p.RobberTiles = game.LegalRobberTiles(g)
	}
	for _, r := range game.AllResources {
		p.TradeRatios[r] = game.TradeRatio(g, playerID, r)
	}
	return p
}

// GameEndedPayload announces the winner.
type GameEndedPayload struct {
	WinnerID   string          `json:"winnerId"`
	WinnerName string          `json:"winnerName"`
	Standings  []game.Standing `json:"standings"`
}
