// Package game contains the rules engine: the board graph, the immutable
// game snapshot, action validation, state transitions, and scoring.
// Nothing in this package locks or blocks; callers own serialization.
package game

import (
	"encoding/json"
	"fmt"
)

// Build caps per player.
const (
	MaxSettlements = 5
	MaxCities      = 4
	MaxRoads       = 15
)

// Thresholds.
const (
	DefaultVictoryPoints = 10
	DiscardLimit         = 7
	MinLongestRoad       = 5
	MinLargestArmy       = 3
	maxLogEvents         = 64
)

// GameState represents the complete state of a game. A snapshot is never
// mutated once returned; Reduce works on a clone.
type GameState struct {
	ID              string             `json:"id"`
	Settings        Settings           `json:"settings"`
	Board           *Board             `json:"board"`
	PlayerOrder     []string           `json:"playerOrder"`
	Players         map[string]*Player `json:"players"`
	Stage           Stage              `json:"-"`
	CurrentPlayerID string             `json:"currentPlayerId"`
	Turn            int                `json:"turn"`
	Flags           TurnFlags          `json:"flags"`
	LastRoll        DiceRoll           `json:"lastRoll"`
	Deck            []CardKind         `json:"deck"`
	Buildings       []Building         `json:"buildings"`
	Roads           []string           `json:"roads"`
	Robber          TileID             `json:"robber"`
	LongestRoad     Title              `json:"longestRoad"`
	LargestArmy     Title              `json:"largestArmy"`
	Winner          string             `json:"winner,omitempty"`
	Log             []Event            `json:"log"`
}

// Settings contains the configurable game parameters.
type Settings struct {
	LayoutID      string `json:"layoutId"`
	VictoryPoints int    `json:"victoryPoints"`
}

// DiceRoll holds the two dice of the last roll. Zero before the first roll.
type DiceRoll [2]int

// Sum returns the total of both dice.
func (d DiceRoll) Sum() int {
	return d[0] + d[1]
}

// BuildingKind is what stands on a corner.
type BuildingKind string

const (
	BuildingNone       BuildingKind = ""
	BuildingSettlement BuildingKind = "settlement"
	BuildingCity       BuildingKind = "city"
)

// Building is the occupant of a corner. The zero value is an empty corner.
type Building struct {
	Owner string       `json:"owner,omitempty"`
	Kind  BuildingKind `json:"kind,omitempty"`
}

// Title is a contested 2-point award.
type Title struct {
	Holder string `json:"holder,omitempty"`
	Size   int    `json:"size"`
}

// Phase returns the current phase.
func (g *GameState) Phase() Phase {
	if g.Stage == nil {
		return PhaseSetup
	}
	return g.Stage.Phase()
}

// MarshalJSON adds the phase and the stage variant to the encoded state.
func (g *GameState) MarshalJSON() ([]byte, error) {
	type alias GameState
	return json.Marshal(struct {
		*alias
		Phase     Phase  `json:"phase"`
		PhaseName string `json:"phaseName"`
		Stage     Stage  `json:"stage"`
	}{(*alias)(g), g.Phase(), g.Phase().String(), g.Stage})
}

// UnmarshalJSON restores a state written by MarshalJSON, stage included.
func (g *GameState) UnmarshalJSON(b []byte) error {
	type alias GameState
	aux := struct {
		*alias
		Phase Phase           `json:"phase"`
		Stage json.RawMessage `json:"stage"`
	}{alias: (*alias)(g)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	stage, err := decodeStage(aux.Phase, aux.Stage)
	if err != nil {
		return err
	}
	g.Stage = stage
	return nil
}

func decodeStage(p Phase, raw json.RawMessage) (Stage, error) {
	var st Stage
	switch p {
	case PhaseSetup:
		st = &SetupStage{}
	case PhaseRoll:
		return RollStage{}, nil
	case PhaseMain:
		st = &MainStage{}
	case PhaseRobber:
		return RobberStage{}, nil
	case PhaseDiscard:
		st = &DiscardStage{}
	case PhaseFinished:
		st = &FinishedStage{}
	default:
		return nil, fmt.Errorf("unknown phase %d", p)
	}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, st); err != nil {
			return nil, fmt.Errorf("decode %s stage: %w", p, err)
		}
	}
	switch v := st.(type) {
	case *SetupStage:
		return *v, nil
	case *MainStage:
		return *v, nil
	case *DiscardStage:
		return *v, nil
	case *FinishedStage:
		return *v, nil
	}
	return st, nil
}

// Clone returns a deep copy. The board is immutable and shared.
func (g *GameState) Clone() *GameState {
	cp := *g
	cp.PlayerOrder = append([]string(nil), g.PlayerOrder...)
	cp.Players = make(map[string]*Player, len(g.Players))
	for id, p := range g.Players {
		cp.Players[id] = p.Clone()
	}
	if g.Stage != nil {
		cp.Stage = g.Stage.clone()
	}
	cp.Deck = append([]CardKind(nil), g.Deck...)
	cp.Buildings = append([]Building(nil), g.Buildings...)
	cp.Roads = append([]string(nil), g.Roads...)
	cp.Log = append([]Event(nil), g.Log...)
	return &cp
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *Player {
	return g.Players[g.CurrentPlayerID]
}

// Player returns a player by ID, or nil.
func (g *GameState) Player(id string) *Player {
	return g.Players[id]
}

// Seat returns the player's index in turn order, or -1.
func (g *GameState) Seat(id string) int {
	for i, pid := range g.PlayerOrder {
		if pid == id {
			return i
		}
	}
	return -1
}

// IsGameOver checks if the game has ended.
func (g *GameState) IsGameOver() bool {
	return g.Phase() == PhaseFinished
}

// VictoryTarget returns the points needed to win.
func (g *GameState) VictoryTarget() int {
	if g.Settings.VictoryPoints > 0 {
		return g.Settings.VictoryPoints
	}
	return DefaultVictoryPoints
}

// CountBuildings counts a player's buildings of one kind.
func (g *GameState) CountBuildings(playerID string, kind BuildingKind) int {
	n := 0
	for _, b := range g.Buildings {
		if b.Owner == playerID && b.Kind == kind {
			n++
		}
	}
	return n
}

// CountRoads counts a player's roads.
func (g *GameState) CountRoads(playerID string) int {
	n := 0
	for _, owner := range g.Roads {
		if owner == playerID {
			n++
		}
	}
	return n
}

// Offer returns the open trade offer, if any.
func (g *GameState) Offer() *TradeOffer {
	if st, ok := g.Stage.(MainStage); ok {
		return st.Offer
	}
	return nil
}

// totalCards sums every hand. Used by conservation checks in tests.
func (g *GameState) totalCards() int {
	n := 0
	for _, p := range g.Players {
		n += p.Resources.Total()
	}
	return n
}
