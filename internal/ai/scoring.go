package ai

import "settlers/internal/game"

// siteScore rates a corner for a settlement: production weight, plus a
// bonus for distinct resources and distinct numbers, plus a small bonus
// for a port.
func siteScore(g *game.GameState, c game.CornerID) float64 {
	var score float64
	resources := make(map[game.ResourceType]bool)
	numbers := make(map[int]bool)
	for _, t := range g.Board.Corners[c].Tiles {
		tile := g.Board.Tiles[t]
		if tile.Resource == game.ResourceNone {
			continue
		}
		resources[tile.Resource] = true
		if tile.Number != 0 {
			numbers[tile.Number] = true
		}
	}
	score += float64(game.CornerValue(g, c))
	score += float64(2 * len(resources))
	score += float64(len(numbers))
	if _, ok := g.Board.PortAt(c); ok {
		score += 1
	}
	return score
}

// openSite reports whether a settlement could ever go on the corner: it is
// empty and so are its neighbors.
func openSite(g *game.GameState, c game.CornerID) bool {
	if g.Buildings[c].Owner != "" {
		return false
	}
	for _, n := range g.Board.Corners[c].Neighbors {
		if g.Buildings[n].Owner != "" {
			return false
		}
	}
	return true
}

// roadScore rates a road by the best open site at either end, or one step
// beyond.
func roadScore(g *game.GameState, p game.PathID) float64 {
	var best float64
	for _, c := range g.Board.Paths[p].Corners {
		if openSite(g, c) {
			best = max(best, siteScore(g, c))
		}
		for _, n := range g.Board.Corners[c].Neighbors {
			if openSite(g, n) {
				best = max(best, siteScore(g, n)*0.5)
			}
		}
	}
	return best
}

// bestCorner returns the highest scoring corner, keeping the first on ties.
func bestCorner(g *game.GameState, corners []game.CornerID) (game.CornerID, bool) {
	if len(corners) == 0 {
		return game.NoCorner, false
	}
	best, bestScore := corners[0], siteScore(g, corners[0])
	for _, c := range corners[1:] {
		if s := siteScore(g, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, true
}

func bestPath(g *game.GameState, paths []game.PathID) (game.PathID, bool) {
	if len(paths) == 0 {
		return game.NoPath, false
	}
	best, bestScore := paths[0], roadScore(g, paths[0])
	for _, p := range paths[1:] {
		if s := roadScore(g, p); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best, true
}
