package game

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlers/pkg/maps"
)

func TestNewBoard_PreservesMultisets(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		b, err := NewBoard(maps.Standard(), NewRand(seed))
		require.NoError(t, err)

		resources := make(map[ResourceType]int)
		tokens := make(map[int]int)
		for _, tile := range b.Tiles {
			resources[tile.Resource]++
			if tile.Resource == ResourceNone {
				assert.Zero(t, tile.Number, "empty tile must not carry a token")
			} else {
				tokens[tile.Number]++
			}
		}
		assert.Equal(t, map[ResourceType]int{
			ResourceLumber: 4, ResourceBrick: 3, ResourceOre: 3,
			ResourceGrain: 4, ResourceWool: 4, ResourceNone: 1,
		}, resources)
		assert.Equal(t, map[int]int{
			2: 1, 3: 2, 4: 2, 5: 2, 6: 2, 8: 2, 9: 2, 10: 2, 11: 2, 12: 1,
		}, tokens)

		generic, specific := 0, make(map[ResourceType]int)
		for _, p := range b.Ports {
			if p.Generic() {
				generic++
			} else {
				specific[p.Resource]++
			}
		}
		assert.Equal(t, 4, generic)
		assert.Len(t, specific, 5)
	}
}

func TestNewBoard_Topology(t *testing.T) {
	b, err := NewBoard(maps.Standard(), NewRand(1))
	require.NoError(t, err)

	assert.Len(t, b.Tiles, 19)
	assert.Len(t, b.Corners, 54)
	assert.Len(t, b.Paths, 72)
	assert.Len(t, b.Ports, 9)

	for _, p := range b.Ports {
		for _, c := range p.Corners {
			assert.Equal(t, p.ID, b.Corners[c].Port)
		}
	}
}

func TestNewGame_RobberStartsOnEmptyTile(t *testing.T) {
	g, err := NewGame(Settings{}, nil, testPlayers("a", "b", "c"), NewRand(3))
	require.NoError(t, err)

	assert.Equal(t, ResourceNone, g.Board.Tiles[g.Robber].Resource)
	assert.Equal(t, PhaseSetup, g.Phase())
	assert.Equal(t, "a", g.CurrentPlayerID)
	assert.Len(t, g.Deck, DeckSize)
	assert.Equal(t, DefaultVictoryPoints, g.VictoryTarget())
	for _, id := range g.PlayerOrder {
		assert.True(t, g.Players[id].Resources.IsEmpty())
	}
}

func TestNewGame_RejectsPlayerCount(t *testing.T) {
	_, err := NewGame(Settings{}, nil, testPlayers("a"), NewRand(1))
	assert.True(t, errors.Is(err, ErrInvalidPlayerCount))

	_, err = NewGame(Settings{}, nil, testPlayers("a", "b", "c", "d", "e"), NewRand(1))
	assert.True(t, errors.Is(err, ErrInvalidPlayerCount))

	_, err = NewGame(Settings{}, nil, testPlayers("a", "a"), NewRand(1))
	assert.True(t, errors.Is(err, ErrInvalidPlayer))
}

func TestNewGame_RejectsOddLayout(t *testing.T) {
	small, err := maps.Generate(maps.RawLayout{ID: "small", Radius: 1, HarborSpacing: []int{2}})
	require.NoError(t, err)

	_, err = NewGame(Settings{}, small, testPlayers("a", "b"), NewRand(1))
	assert.True(t, errors.Is(err, ErrInvalidLayout))
}

func TestNewGame_DeterministicForSeed(t *testing.T) {
	g1, err := NewGame(Settings{}, nil, testPlayers("a", "b"), NewRand(42))
	require.NoError(t, err)
	g2, err := NewGame(Settings{}, nil, testPlayers("a", "b"), NewRand(42))
	require.NoError(t, err)

	assert.Equal(t, g1.Board, g2.Board)
	assert.Equal(t, g1.Deck, g2.Deck)

	rng1, rng2 := NewRand(9), NewRand(9)
	toMain(g1, "a")
	toMain(g2, "a")
	g1.Stage, g2.Stage = RollStage{}, RollStage{}
	for i := 0; i < 5; i++ {
		n1 := Reduce(g1, RollDice{Seat: As("a")}, rng1)
		n2 := Reduce(g2, RollDice{Seat: As("a")}, rng2)
		assert.Equal(t, n1.LastRoll, n2.LastRoll)
	}
}

func TestTradeRatio(t *testing.T) {
	g := newTestGame(t, "a", "b")

	assert.Equal(t, 4, TradeRatio(g, "a", ResourceLumber))

	generic := g.Board.Ports[0]
	require.True(t, generic.Generic())
	g.Buildings[generic.Corners[0]] = Building{Owner: "a", Kind: BuildingSettlement}
	assert.Equal(t, 3, TradeRatio(g, "a", ResourceLumber))
	assert.Equal(t, 4, TradeRatio(g, "b", ResourceLumber))

	lumber := g.Board.Ports[5]
	require.Equal(t, ResourceLumber, lumber.Resource)
	g.Buildings[lumber.Corners[1]] = Building{Owner: "a", Kind: BuildingCity}
	assert.Equal(t, 2, TradeRatio(g, "a", ResourceLumber))
	assert.Equal(t, 3, TradeRatio(g, "a", ResourceOre))
}

func TestTradeRatio_MissingPortData(t *testing.T) {
	g := newTestGame(t, "a", "b")
	port := g.Board.Ports[0]
	g.Buildings[port.Corners[0]] = Building{Owner: "a", Kind: BuildingSettlement}

	stripped := *g.Board
	stripped.Ports = nil
	g.Board = &stripped

	assert.Equal(t, 4, TradeRatio(g, "a", ResourceWool))
}

func TestGameState_DecodeRestoresStage(t *testing.T) {
	g := newTestGame(t, "a", "b")
	toMain(g, "a")
	g.Stage = MainStage{Offer: &TradeOffer{From: "a", Offer: Single(ResourceOre, 1), Request: Single(ResourceWool, 2)}}
	g.Players["a"].Resources = Single(ResourceOre, 1)
	g.Players["b"].Resources = Single(ResourceWool, 2)

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var back GameState
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, PhaseMain, back.Phase())
	require.NotNil(t, back.Offer())
	assert.Equal(t, *g.Offer(), *back.Offer())
	assert.NoError(t, Validate(&back, AcceptTrade{Seat: As("b")}), "decoded state validates like the original")

	again, err := json.Marshal(&back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	g.Stage = DiscardStage{Owed: map[string]int{"b": 4}}
	data, err = json.Marshal(g)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 4, OwedDiscard(&back, "b"))
}
