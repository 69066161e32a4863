package game

import (
	"fmt"

	"github.com/google/uuid"

	"settlers/pkg/maps"
)

// Supported player counts.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// maxPaths bounds the longest-road visited set.
const maxPaths = 128

// NewGame creates a game in the SETUP phase. Players keep the given seat
// order and start with empty hands. The board and deck are drawn from rng,
// so the same seed yields the same game.
func NewGame(settings Settings, layout *maps.Layout, players []*Player, rng Rand) (*GameState, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, len(players))
	}
	if layout == nil {
		layout = maps.Get(settings.LayoutID)
	}
	if layout == nil {
		return nil, fmt.Errorf("%w: unknown layout %q", ErrInvalidLayout, settings.LayoutID)
	}
	if len(layout.Paths) > maxPaths {
		return nil, fmt.Errorf("%w: %d paths", ErrInvalidLayout, len(layout.Paths))
	}
	settings.LayoutID = layout.ID
	if settings.VictoryPoints <= 0 {
		settings.VictoryPoints = DefaultVictoryPoints
	}

	state := &GameState{
		ID:          uuid.New().String(),
		Settings:    settings,
		PlayerOrder: make([]string, 0, len(players)),
		Players:     make(map[string]*Player, len(players)),
		Stage:       SetupStage{Round: 1, Step: SetupSettlement, LastSettlement: NoCorner},
	}

	colors := AllColors()
	for i, p := range players {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("%w: seat %d has no id", ErrInvalidPlayer, i)
		}
		if _, dup := state.Players[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidPlayer, p.ID)
		}
		seat := p.Clone()
		seat.Resources = Stockpile{}
		seat.Cards = nil
		seat.KnightsPlayed = 0
		seat.HasLongestRoad = false
		seat.HasLargestArmy = false
		seat.VictoryPoints = 0
		if seat.Color == "" {
			seat.Color = colors[i]
		}
		state.Players[seat.ID] = seat
		state.PlayerOrder = append(state.PlayerOrder, seat.ID)
	}
	state.CurrentPlayerID = state.PlayerOrder[0]

	board, err := NewBoard(layout, rng)
	if err != nil {
		return nil, err
	}
	state.Board = board
	state.Robber = board.EmptyTile
	state.Buildings = make([]Building, len(board.Corners))
	state.Roads = make([]string, len(board.Paths))
	state.Deck = NewDeck(rng)

	state.logEvent(EventSetup, "", "game created for %d players", len(players))
	return state, nil
}
