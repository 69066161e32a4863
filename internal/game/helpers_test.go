package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"settlers/pkg/maps"
)

// seqRand replays fixed Intn results and leaves shuffles in input order, so
// the board comes out in the standard multiset order.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func (r *seqRand) Shuffle(n int, swap func(i, j int)) {}

func testPlayers(ids ...string) []*Player {
	players := make([]*Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, NewPlayer(id, id, ""))
	}
	return players
}

func newTestGame(t *testing.T, ids ...string) *GameState {
	t.Helper()
	g, err := NewGame(Settings{}, maps.Standard(), testPlayers(ids...), &seqRand{})
	require.NoError(t, err)
	return g
}

// toMain puts the player in the main phase of turn 1.
func toMain(g *GameState, id string) {
	g.Stage = MainStage{}
	g.CurrentPlayerID = id
	if g.Turn == 0 {
		g.Turn = 1
	}
}

// runSetup plays the opening with the first legal site each time.
func runSetup(t *testing.T, g *GameState) *GameState {
	t.Helper()
	rng := &seqRand{}
	for g.Phase() == PhaseSetup {
		id := g.CurrentPlayerID
		corners := LegalSettlementCorners(g, id)
		require.NotEmpty(t, corners)
		next, err := Apply(g, BuildSettlement{Seat: As(id), Corner: corners[0]}, rng)
		require.NoError(t, err)
		paths := LegalRoadPaths(next, id)
		require.NotEmpty(t, paths)
		g, err = Apply(next, BuildRoad{Seat: As(id), Path: paths[0]}, rng)
		require.NoError(t, err)
	}
	return g
}

// perimeterTrail returns n consecutive coastal paths.
func perimeterTrail(n int) []PathID {
	l := maps.Standard()
	out := make([]PathID, n)
	for i := range out {
		out[i] = PathID(l.Perimeter[i])
	}
	return out
}

func sharedCorner(g *GameState, p, q PathID) CornerID {
	a, b := g.Board.Paths[p], g.Board.Paths[q]
	for _, c := range a.Corners {
		if c == b.Corners[0] || c == b.Corners[1] {
			return c
		}
	}
	return NoCorner
}

func pathBetween(g *GameState, a, b CornerID) PathID {
	for _, p := range g.Board.Corners[a].Paths {
		if g.Board.Paths[p].Other(a) == b {
			return p
		}
	}
	return NoPath
}

func giveRoads(g *GameState, id string, paths ...PathID) {
	for _, p := range paths {
		g.Roads[p] = id
	}
}
