package game

// StealTargets returns the opponents of playerID with a building on the
// tile and at least one resource card, in seat order.
func StealTargets(g *GameState, tile TileID, playerID string) []string {
	if !g.Board.ValidTile(tile) {
		return nil
	}
	adjacent := make(map[string]bool)
	for _, c := range g.Board.Tiles[tile].Corners {
		if owner := g.Buildings[c].Owner; owner != "" && owner != playerID {
			adjacent[owner] = true
		}
	}
	var targets []string
	for _, id := range g.PlayerOrder {
		if adjacent[id] && g.Players[id].Resources.Total() > 0 {
			targets = append(targets, id)
		}
	}
	return targets
}

func (g *GameState) validateMoveRobber(a MoveRobber) error {
	switch g.Phase() {
	case PhaseRobber:
	case PhaseDiscard:
		return reject(ErrActionRequired, "waiting for discards")
	default:
		return reject(ErrInvalidPhase, "robber cannot move during %s", g.Phase())
	}
	if a.PlayerID != g.CurrentPlayerID {
		return reject(ErrInvalidPlayer, "not your turn")
	}
	if !g.Board.ValidTile(a.Tile) {
		return reject(ErrInvalidLocation, "no tile %d", a.Tile)
	}
	if a.Tile == g.Robber {
		return reject(ErrInvalidLocation, "robber must move to a new tile")
	}

	targets := StealTargets(g, a.Tile, a.PlayerID)
	if a.Target == "" {
		if len(targets) > 0 {
			return reject(ErrMissingStealTarget, "choose one of %v", targets)
		}
		return nil
	}
	if a.Target == a.PlayerID {
		return reject(ErrInvalidStealTarget, "cannot rob yourself")
	}
	for _, t := range targets {
		if t == a.Target {
			return nil
		}
	}
	return reject(ErrInvalidStealTarget, "%s has nothing to steal on tile %d", g.name(a.Target), a.Tile)
}

// applyMoveRobber moves the robber, steals one random card from the target
// (uniform over the target's non-empty resource types), and returns to MAIN.
func (g *GameState) applyMoveRobber(a MoveRobber, rng Rand) {
	g.Robber = a.Tile
	g.Stage = MainStage{}
	g.logEvent(EventRobber, a.PlayerID, "%s moved the robber to tile %d", g.name(a.PlayerID), a.Tile)

	if a.Target == "" {
		return
	}
	victim := g.Players[a.Target]
	held := victim.Resources.Held()
	if len(held) == 0 {
		return
	}
	r := held[rng.Intn(len(held))]
	victim.Resources.Remove(r, 1)
	g.Players[a.PlayerID].Resources.Add(r, 1)
	g.logEvent(EventRobber, a.PlayerID, "%s stole a card from %s", g.name(a.PlayerID), victim.Name)
}

// enterSeven starts the discard protocol, or goes straight to the robber
// when nobody holds more than the limit. A player over the limit keeps
// half their hand, rounded down.
func (g *GameState) enterSeven() {
	owed := make(map[string]int)
	for _, id := range g.PlayerOrder {
		if total := g.Players[id].Resources.Total(); total > DiscardLimit {
			owed[id] = total - total/2
		}
	}
	if len(owed) == 0 {
		g.Stage = RobberStage{}
		return
	}
	g.Stage = DiscardStage{Owed: owed}
}

func (g *GameState) applyDiscard(a Discard) {
	p := g.Players[a.PlayerID]
	p.Resources = p.Resources.Minus(a.Cards)
	g.logEvent(EventDiscard, a.PlayerID, "%s discarded %d cards", p.Name, a.Cards.Total())

	st := g.Stage.(DiscardStage)
	delete(st.Owed, a.PlayerID)
	if len(st.Owed) == 0 {
		g.Stage = RobberStage{}
		return
	}
	g.Stage = st
}
