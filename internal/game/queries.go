package game

// Read-only helpers for renderers and computer players. They report where
// pieces may go for the current phase; affordability is checked separately.

// LegalSettlementCorners returns the corners where the player could place a
// settlement right now.
func LegalSettlementCorners(g *GameState, playerID string) []CornerID {
	if playerID != g.CurrentPlayerID {
		return nil
	}
	var needRoad bool
	switch st := g.Stage.(type) {
	case SetupStage:
		if st.Step != SetupSettlement {
			return nil
		}
	case MainStage:
		needRoad = true
	default:
		return nil
	}

	var corners []CornerID
	for i := range g.Board.Corners {
		c := CornerID(i)
		if g.settlementSiteError(c) != nil {
			continue
		}
		if needRoad && !g.hasRoadAt(playerID, c) {
			continue
		}
		corners = append(corners, c)
	}
	return corners
}

// LegalCityCorners returns the player's settlements that could become
// cities.
func LegalCityCorners(g *GameState, playerID string) []CornerID {
	if playerID != g.CurrentPlayerID || g.Phase() != PhaseMain {
		return nil
	}
	var corners []CornerID
	for i, b := range g.Buildings {
		if b.Owner == playerID && b.Kind == BuildingSettlement {
			corners = append(corners, CornerID(i))
		}
	}
	return corners
}

// LegalRoadPaths returns the paths where the player could place a road.
func LegalRoadPaths(g *GameState, playerID string) []PathID {
	if playerID != g.CurrentPlayerID {
		return nil
	}
	var paths []PathID
	switch st := g.Stage.(type) {
	case SetupStage:
		if st.Step != SetupRoad {
			return nil
		}
		for _, p := range g.Board.Corners[st.LastSettlement].Paths {
			if g.setupRoadSiteError(p, st.LastSettlement) == nil {
				paths = append(paths, p)
			}
		}
	case MainStage:
		for i := range g.Board.Paths {
			if g.roadSiteError(playerID, PathID(i)) == nil {
				paths = append(paths, PathID(i))
			}
		}
	}
	return paths
}

// LegalRobberTiles returns every tile the robber may move to.
func LegalRobberTiles(g *GameState) []TileID {
	tiles := make([]TileID, 0, len(g.Board.Tiles))
	for _, t := range g.Board.Tiles {
		if t.ID != g.Robber {
			tiles = append(tiles, t.ID)
		}
	}
	return tiles
}

// PlayableCards returns the indexes of cards the player could play now,
// ignoring resource choices.
func PlayableCards(g *GameState, playerID string) []int {
	if g.requireMain(playerID) != nil || g.Flags.CardPlayed {
		return nil
	}
	var idx []int
	for i, c := range g.Players[playerID].Cards {
		if c.Playable(g.Turn) == nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// OwedDiscard returns how many cards the player must still discard.
func OwedDiscard(g *GameState, playerID string) int {
	if st, ok := g.Stage.(DiscardStage); ok {
		return st.Owed[playerID]
	}
	return 0
}

// CornerValue sums the dice probability weight (in 36ths) of the tiles
// around a corner, skipping the robber's tile.
func CornerValue(g *GameState, c CornerID) int {
	total := 0
	for _, t := range g.Board.Corners[c].Tiles {
		if t != g.Robber {
			total += Pips(g.Board.Tiles[t].Number)
		}
	}
	return total
}

// Pips returns the number of two-dice combinations that roll n.
func Pips(n int) int {
	if n < 2 || n > 12 || n == 7 {
		return 0
	}
	return 6 - abs(7-n)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
