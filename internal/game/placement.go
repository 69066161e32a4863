package game

// settlementSiteError checks that a corner exists, is empty, and has no
// building on any neighbor.
func (g *GameState) settlementSiteError(c CornerID) error {
	if !g.Board.ValidCorner(c) {
		return reject(ErrInvalidLocation, "no corner %d", c)
	}
	if g.Buildings[c].Owner != "" {
		return reject(ErrInvalidLocation, "corner %d is occupied", c)
	}
	for _, n := range g.Board.Corners[c].Neighbors {
		if g.Buildings[n].Owner != "" {
			return reject(ErrInvalidLocation, "corner %d is too close to corner %d", c, n)
		}
	}
	return nil
}

// hasRoadAt reports whether the player owns a road touching the corner.
func (g *GameState) hasRoadAt(playerID string, c CornerID) bool {
	for _, p := range g.Board.Corners[c].Paths {
		if g.Roads[p] == playerID {
			return true
		}
	}
	return false
}

// blockedFor reports whether an opponent's building sits on the corner.
func (g *GameState) blockedFor(playerID string, c CornerID) bool {
	owner := g.Buildings[c].Owner
	return owner != "" && owner != playerID
}

// roadSiteError checks a main-phase road site: the path exists, is empty,
// and touches the player's building or continues the player's road through
// a corner no opponent has built on.
func (g *GameState) roadSiteError(playerID string, p PathID) error {
	if !g.Board.ValidPath(p) {
		return reject(ErrInvalidLocation, "no path %d", p)
	}
	if g.Roads[p] != "" {
		return reject(ErrInvalidLocation, "path %d already has a road", p)
	}
	for _, c := range g.Board.Paths[p].Corners {
		if g.Buildings[c].Owner == playerID {
			return nil
		}
		if g.blockedFor(playerID, c) {
			continue
		}
		if g.hasRoadAt(playerID, c) {
			return nil
		}
	}
	return reject(ErrInvalidLocation, "path %d is not connected to your network", p)
}

// setupRoadSiteError checks that a setup road touches the settlement just
// placed.
func (g *GameState) setupRoadSiteError(p PathID, settlement CornerID) error {
	if !g.Board.ValidPath(p) {
		return reject(ErrInvalidLocation, "no path %d", p)
	}
	if g.Roads[p] != "" {
		return reject(ErrInvalidLocation, "path %d already has a road", p)
	}
	path := g.Board.Paths[p]
	if path.Corners[0] != settlement && path.Corners[1] != settlement {
		return reject(ErrInvalidLocation, "road must touch the settlement at corner %d", settlement)
	}
	return nil
}
