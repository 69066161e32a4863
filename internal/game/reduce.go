package game

// Apply validates the action and, if legal, returns the next state. The
// input state is left untouched either way.
func Apply(g *GameState, a Action, rng Rand) (*GameState, error) {
	if err := Validate(g, a); err != nil {
		return nil, err
	}
	return Reduce(g, a, rng), nil
}

// Reduce returns the state after an already validated action, with titles,
// points, and the win condition recomputed. It never modifies g.
func Reduce(g *GameState, a Action, rng Rand) *GameState {
	next := g.Clone()

	switch act := a.(type) {
	case RollDice:
		next.applyRollDice(act, rng)
	case BuildSettlement:
		next.applyBuildSettlement(act)
	case BuildCity:
		next.applyBuildCity(act)
	case BuildRoad:
		next.applyBuildRoad(act)
	case BuyCard:
		next.applyBuyCard(act)
	case PlayCard:
		next.applyPlayCard(act)
	case BankTrade:
		next.applyBankTrade(act)
	case OfferTrade:
		next.applyOfferTrade(act)
	case AcceptTrade:
		next.applyAcceptTrade(act)
	case RejectTrade:
		next.applyRejectTrade(act)
	case MoveRobber:
		next.applyMoveRobber(act, rng)
	case Discard:
		next.applyDiscard(act)
	case EndTurn:
		next.applyEndTurn(act)
	}

	next.rescore()
	return next
}

func (g *GameState) applyRollDice(a RollDice, rng Rand) {
	g.LastRoll = DiceRoll{rollDie(rng), rollDie(rng)}
	sum := g.LastRoll.Sum()
	g.logEvent(EventRoll, a.PlayerID, "%s rolled %d", g.name(a.PlayerID), sum)

	if sum == 7 {
		g.enterSeven()
		return
	}
	g.produce(sum)
	g.Stage = MainStage{}
}

// produce pays out every tile with the rolled number that the robber is not
// on: 1 card per settlement, 2 per city.
func (g *GameState) produce(number int) {
	gains := make(map[string]Stockpile)
	for _, id := range g.Board.TilesWithNumber(number) {
		if id == g.Robber {
			continue
		}
		tile := g.Board.Tiles[id]
		for _, c := range tile.Corners {
			b := g.Buildings[c]
			if b.Owner == "" {
				continue
			}
			amount := 1
			if b.Kind == BuildingCity {
				amount = 2
			}
			gain := gains[b.Owner]
			gain.Add(tile.Resource, amount)
			gains[b.Owner] = gain
		}
	}

	for _, id := range g.PlayerOrder {
		gain, ok := gains[id]
		if !ok {
			continue
		}
		p := g.Players[id]
		p.Resources = p.Resources.Plus(gain)
		g.logEvent(EventProduction, id, "%s received %s", p.Name, gain)
	}
}

func (g *GameState) applyBuildSettlement(a BuildSettlement) {
	g.Buildings[a.Corner] = Building{Owner: a.PlayerID, Kind: BuildingSettlement}

	if st, ok := g.Stage.(SetupStage); ok {
		st.Step = SetupRoad
		st.LastSettlement = a.Corner
		g.Stage = st
		g.logEvent(EventSetup, a.PlayerID, "%s placed a settlement at corner %d", g.name(a.PlayerID), a.Corner)
		return
	}

	p := g.Players[a.PlayerID]
	p.Resources = p.Resources.Minus(CostSettlement)
	g.logEvent(EventBuild, a.PlayerID, "%s built a settlement at corner %d", p.Name, a.Corner)
}

func (g *GameState) applyBuildCity(a BuildCity) {
	p := g.Players[a.PlayerID]
	p.Resources = p.Resources.Minus(CostCity)
	g.Buildings[a.Corner] = Building{Owner: a.PlayerID, Kind: BuildingCity}
	g.logEvent(EventBuild, a.PlayerID, "%s built a city at corner %d", p.Name, a.Corner)
}

func (g *GameState) applyBuildRoad(a BuildRoad) {
	g.Roads[a.Path] = a.PlayerID

	if st, ok := g.Stage.(SetupStage); ok {
		g.logEvent(EventSetup, a.PlayerID, "%s placed a road at path %d", g.name(a.PlayerID), a.Path)
		g.advanceSetup(st)
		return
	}

	p := g.Players[a.PlayerID]
	st := g.Stage.(MainStage)
	if st.FreeRoads > 0 {
		st.FreeRoads--
		g.Stage = st
	} else {
		p.Resources = p.Resources.Minus(CostRoad)
	}
	g.logEvent(EventBuild, a.PlayerID, "%s built a road at path %d", p.Name, a.Path)
}

// advanceSetup moves to the next seat in snake order, or starts the first
// turn once every seat has placed twice.
func (g *GameState) advanceSetup(st SetupStage) {
	seat, round, done := nextSetupSeat(g.Seat(g.CurrentPlayerID), st.Round, len(g.PlayerOrder))
	if done {
		g.CurrentPlayerID = g.PlayerOrder[0]
		g.Turn = 1
		g.Stage = RollStage{}
		g.logEvent(EventTurn, g.CurrentPlayerID, "setup complete, %s to roll", g.name(g.CurrentPlayerID))
		return
	}
	g.CurrentPlayerID = g.PlayerOrder[seat]
	g.Stage = SetupStage{Round: round, Step: SetupSettlement, LastSettlement: NoCorner}
}

func (g *GameState) applyBuyCard(a BuyCard) {
	p := g.Players[a.PlayerID]
	p.Resources = p.Resources.Minus(CostDevCard)
	kind := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	p.Cards = append(p.Cards, DevCard{Kind: kind, AcquiredTurn: g.Turn})
	g.logEvent(EventCard, a.PlayerID, "%s bought a development card", p.Name)
}

func (g *GameState) applyPlayCard(a PlayCard) {
	p := g.Players[a.PlayerID]
	card := &p.Cards[a.Index]
	card.Used = true
	g.Flags.CardPlayed = true
	g.logEvent(EventCard, a.PlayerID, "%s played %s", p.Name, card.Kind)

	switch card.Kind {
	case CardKnight:
		p.KnightsPlayed++
		g.Stage = RobberStage{}

	case CardRoadBuilding:
		st := g.Stage.(MainStage)
		st.FreeRoads = min(2, MaxRoads-g.CountRoads(a.PlayerID))
		g.Stage = st

	case CardYearOfPlenty:
		for _, r := range a.Choices {
			p.Resources.Add(r, 1)
		}

	case CardMonopoly:
		r := a.Choices[0]
		taken := 0
		for _, id := range g.PlayerOrder {
			if id == a.PlayerID {
				continue
			}
			other := g.Players[id]
			n := other.Resources.Get(r)
			other.Resources.Remove(r, n)
			taken += n
		}
		p.Resources.Add(r, taken)
		g.logEvent(EventCard, a.PlayerID, "%s took %d %s", p.Name, taken, r)
	}
}

func (g *GameState) applyEndTurn(a EndTurn) {
	seat := (g.Seat(a.PlayerID) + 1) % len(g.PlayerOrder)
	g.CurrentPlayerID = g.PlayerOrder[seat]
	g.Turn++
	g.Flags = TurnFlags{}
	g.Stage = RollStage{}
	g.logEvent(EventTurn, g.CurrentPlayerID, "turn %d: %s to roll", g.Turn, g.name(g.CurrentPlayerID))
}
