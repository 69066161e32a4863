package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongestRoad_Line(t *testing.T) {
	g := newTestGame(t, "a", "b")
	giveRoads(g, "a", perimeterTrail(5)...)

	assert.Equal(t, 5, LongestRoad(g, "a"))
	assert.Equal(t, 0, LongestRoad(g, "b"))
}

func TestLongestRoad_OpponentBuildingBreaksTrail(t *testing.T) {
	g := newTestGame(t, "a", "b")
	trail := perimeterTrail(6)
	giveRoads(g, "a", trail...)
	middle := sharedCorner(g, trail[2], trail[3])
	require.NotEqual(t, NoCorner, middle)

	g.Buildings[middle] = Building{Owner: "a", Kind: BuildingSettlement}
	assert.Equal(t, 6, LongestRoad(g, "a"), "own building does not break")

	g.Buildings[middle] = Building{Owner: "b", Kind: BuildingSettlement}
	assert.Equal(t, 3, LongestRoad(g, "a"))
}

func TestLongestRoad_LoopWithTail(t *testing.T) {
	g := newTestGame(t, "a", "b")
	center := g.Board.Tiles[9]
	require.Equal(t, 0, center.Q)
	require.Equal(t, 0, center.R)

	ring := center.Corners
	for i := range ring {
		p := pathBetween(g, ring[i], ring[(i+1)%6])
		require.NotEqual(t, NoPath, p)
		g.Roads[p] = "a"
	}

	// Tail of two paths leading away from ring corner 0.
	inRing := func(c CornerID) bool {
		for _, r := range ring {
			if r == c {
				return true
			}
		}
		return false
	}
	var n1, n2 CornerID = NoCorner, NoCorner
	for _, n := range g.Board.Corners[ring[0]].Neighbors {
		if !inRing(n) {
			n1 = n
		}
	}
	require.NotEqual(t, NoCorner, n1)
	for _, n := range g.Board.Corners[n1].Neighbors {
		if n != ring[0] {
			n2 = n
			break
		}
	}
	g.Roads[pathBetween(g, ring[0], n1)] = "a"
	g.Roads[pathBetween(g, n1, n2)] = "a"

	assert.Equal(t, 8, LongestRoad(g, "a"))
}

func TestLongestRoad_ExtendsFromEnd(t *testing.T) {
	g := newTestGame(t, "a", "b")
	trail := perimeterTrail(4)
	giveRoads(g, "a", trail...)

	// Either branch at the far end adds one.
	end := g.Board.Paths[trail[3]].Other(sharedCorner(g, trail[2], trail[3]))
	for _, p := range g.Board.Corners[end].Paths {
		if g.Roads[p] == "" {
			g.Roads[p] = "a"
			break
		}
	}
	assert.Equal(t, 5, LongestRoad(g, "a"))
}

func TestLongestRoadTitle_HolderKeepsOnTie(t *testing.T) {
	g := newTestGame(t, "a", "b")
	trail := perimeterTrail(16)

	giveRoads(g, "a", trail[0:4]...)
	g.rescore()
	assert.Empty(t, g.LongestRoad.Holder, "four roads do not qualify")

	giveRoads(g, "a", trail[4])
	g.rescore()
	assert.Equal(t, "a", g.LongestRoad.Holder)
	assert.Equal(t, 5, g.LongestRoad.Size)
	assert.True(t, g.Players["a"].HasLongestRoad)
	assert.Equal(t, 2, g.Players["a"].VictoryPoints)

	giveRoads(g, "b", trail[10:15]...)
	g.rescore()
	assert.Equal(t, "a", g.LongestRoad.Holder, "tie keeps holder")

	giveRoads(g, "b", trail[15])
	g.rescore()
	assert.Equal(t, "b", g.LongestRoad.Holder)
	assert.False(t, g.Players["a"].HasLongestRoad)
	assert.Equal(t, 0, g.Players["a"].VictoryPoints)

	// Breaking b's road below five hands the title back to a.
	g.Buildings[sharedCorner(g, trail[12], trail[13])] = Building{Owner: "a", Kind: BuildingSettlement}
	g.rescore()
	assert.Equal(t, 3, LongestRoad(g, "b"))
	assert.Equal(t, "a", g.LongestRoad.Holder)
}

func TestLongestRoadTitle_ClearedWhenNobodyQualifies(t *testing.T) {
	g := newTestGame(t, "a", "b")
	trail := perimeterTrail(5)
	giveRoads(g, "a", trail...)
	g.rescore()
	require.Equal(t, "a", g.LongestRoad.Holder)

	g.Buildings[sharedCorner(g, trail[1], trail[2])] = Building{Owner: "b", Kind: BuildingSettlement}
	g.rescore()
	assert.Empty(t, g.LongestRoad.Holder)
	assert.False(t, g.Players["a"].HasLongestRoad)
}

func TestLargestArmy(t *testing.T) {
	g := newTestGame(t, "a", "b", "c")

	g.Players["a"].KnightsPlayed = 2
	g.rescore()
	assert.Empty(t, g.LargestArmy.Holder)

	g.Players["a"].KnightsPlayed = 3
	g.rescore()
	assert.Equal(t, "a", g.LargestArmy.Holder)
	assert.Equal(t, 2, g.Players["a"].VictoryPoints)

	g.Players["b"].KnightsPlayed = 3
	g.rescore()
	assert.Equal(t, "a", g.LargestArmy.Holder, "tie keeps holder")

	g.Players["b"].KnightsPlayed = 4
	g.rescore()
	assert.Equal(t, "b", g.LargestArmy.Holder)
	assert.True(t, g.Players["b"].HasLargestArmy)
	assert.False(t, g.Players["a"].HasLargestArmy)
}

func TestLargestArmy_TiedChallengersAwardNobody(t *testing.T) {
	g := newTestGame(t, "a", "b")
	g.Players["a"].KnightsPlayed = 3
	g.Players["b"].KnightsPlayed = 3
	g.rescore()
	assert.Empty(t, g.LargestArmy.Holder)
}

func TestVictoryPoints_Breakdown(t *testing.T) {
	g := newTestGame(t, "a", "b")
	g.Buildings[0] = Building{Owner: "a", Kind: BuildingSettlement}
	g.Buildings[20] = Building{Owner: "a", Kind: BuildingCity}
	g.Players["a"].Cards = []DevCard{{Kind: CardVictoryPoint, Used: false}, {Kind: CardKnight}}
	g.LargestArmy = Title{Holder: "a", Size: 3}

	assert.Equal(t, 1+2+1+2, VictoryPoints(g, "a"))
	assert.Equal(t, 0, VictoryPoints(g, "b"))
	assert.Equal(t, 0, VictoryPoints(g, "nobody"))

	rows := Standings(g)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].PlayerID)
	assert.Equal(t, 1, rows[0].Cities)
	assert.Equal(t, 1, rows[0].VictoryCards)
}

func TestPips(t *testing.T) {
	assert.Equal(t, 5, Pips(6))
	assert.Equal(t, 5, Pips(8))
	assert.Equal(t, 1, Pips(2))
	assert.Equal(t, 0, Pips(7))
	assert.Equal(t, 0, Pips(0))
}
