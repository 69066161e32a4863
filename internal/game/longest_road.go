package game

// pathSet is a fixed-size set of path IDs. It is copied by value, so each
// search frame owns its own visited set.
type pathSet [maxPaths / 64]uint64

func (s pathSet) has(p PathID) bool {
	return s[p/64]&(1<<(uint(p)%64)) != 0
}

func (s pathSet) with(p PathID) pathSet {
	s[p/64] |= 1 << (uint(p) % 64)
	return s
}

type roadFrame struct {
	corner  CornerID
	length  int
	visited pathSet
}

// LongestRoad returns the length of the longest trail in the player's road
// network. A trail may pass through empty corners and the player's own
// buildings, but stops at a corner holding an opponent's building.
func LongestRoad(g *GameState, playerID string) int {
	best := 0
	var stack []roadFrame

	for p, owner := range g.Roads {
		if owner != playerID {
			continue
		}
		start := PathID(p)
		path := g.Board.Paths[start]
		var visited pathSet
		visited = visited.with(start)

		// Walk away from each end in turn; every trail has an end path, so
		// starting from every path in both directions covers them all.
		stack = append(stack,
			roadFrame{corner: path.Corners[0], length: 1, visited: visited},
			roadFrame{corner: path.Corners[1], length: 1, visited: visited},
		)

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.length > best {
				best = f.length
			}
			if g.blockedFor(playerID, f.corner) {
				continue
			}
			for _, next := range g.Board.Corners[f.corner].Paths {
				if g.Roads[next] != playerID || f.visited.has(next) {
					continue
				}
				stack = append(stack, roadFrame{
					corner:  g.Board.Paths[next].Other(f.corner),
					length:  f.length + 1,
					visited: f.visited.with(next),
				})
			}
		}
	}
	return best
}
