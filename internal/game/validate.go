package game

// Validate reports whether the action is legal in the given state. It
// returns nil or an error wrapping one of the rule sentinels. The state is
// never modified. An unknown actor fails as ErrInvalidPlayer once the
// phase allows the action.
func Validate(g *GameState, a Action) error {
	if a == nil {
		return reject(ErrInvalidPhase, "no action")
	}
	if g.Phase() == PhaseFinished {
		return reject(ErrInvalidPhase, "game is over")
	}

	// Phase legality comes first; each validator checks the actor after it.
	switch act := a.(type) {
	case RollDice:
		return g.validateRollDice(act)
	case BuildSettlement:
		return g.validateBuildSettlement(act)
	case BuildCity:
		return g.validateBuildCity(act)
	case BuildRoad:
		return g.validateBuildRoad(act)
	case BuyCard:
		return g.validateBuyCard(act)
	case PlayCard:
		return g.validatePlayCard(act)
	case BankTrade:
		return g.validateBankTrade(act)
	case OfferTrade:
		return g.validateOfferTrade(act)
	case AcceptTrade:
		return g.validateAcceptTrade(act)
	case RejectTrade:
		return g.validateRejectTrade(act)
	case MoveRobber:
		return g.validateMoveRobber(act)
	case Discard:
		return g.validateDiscard(act)
	case EndTurn:
		return g.validateEndTurn(act)
	default:
		return reject(ErrInvalidPhase, "unsupported action %s", a.Type())
	}
}

// requireMain checks that a main-phase action may be taken by the player.
func (g *GameState) requireMain(playerID string) error {
	if g.Phase() != PhaseMain {
		return pendingError(g.Phase())
	}
	if playerID != g.CurrentPlayerID {
		return reject(ErrInvalidPlayer, "not your turn")
	}
	return nil
}

func (g *GameState) validateRollDice(a RollDice) error {
	if g.Phase() != PhaseRoll {
		return reject(ErrInvalidPhase, "cannot roll during %s", g.Phase())
	}
	if a.PlayerID != g.CurrentPlayerID {
		return reject(ErrInvalidPlayer, "not your turn")
	}
	return nil
}

func (g *GameState) validateBuildSettlement(a BuildSettlement) error {
	if st, ok := g.Stage.(SetupStage); ok {
		if a.PlayerID != g.CurrentPlayerID {
			return reject(ErrInvalidPlayer, "not your turn")
		}
		if st.Step != SetupSettlement {
			return reject(ErrActionRequired, "place a road first")
		}
		return g.settlementSiteError(a.Corner)
	}

	if err := g.requireMain(a.PlayerID); err != nil {
		return err
	}
	if !g.Players[a.PlayerID].Resources.CanAfford(CostSettlement) {
		return reject(ErrInsufficientResources, "settlement costs %s", CostSettlement)
	}
	if err := g.settlementSiteError(a.Corner); err != nil {
		return err
	}
	if !g.hasRoadAt(a.PlayerID, a.Corner) {
		return reject(ErrInvalidLocation, "corner %d is not on your road", a.Corner)
	}
	if g.CountBuildings(a.PlayerID, BuildingSettlement) >= MaxSettlements {
		return reject(ErrBuildCapReached, "all %d settlements built", MaxSettlements)
	}
	return nil
}

func (g *GameState) validateBuildCity(a BuildCity) error {
	if err := g.requireMain(a.PlayerID); err != nil {
		return err
	}
	if !g.Players[a.PlayerID].Resources.CanAfford(CostCity) {
		return reject(ErrInsufficientResources, "city costs %s", CostCity)
	}
	if !g.Board.ValidCorner(a.Corner) {
		return reject(ErrInvalidLocation, "no corner %d", a.Corner)
	}
	b := g.Buildings[a.Corner]
	if b.Kind != BuildingSettlement {
		return reject(ErrInvalidLocation, "no settlement at corner %d", a.Corner)
	}
	if b.Owner != a.PlayerID {
		return reject(ErrInvalidLocation, "settlement at corner %d is not yours", a.Corner)
	}
	if g.CountBuildings(a.PlayerID, BuildingCity) >= MaxCities {
		return reject(ErrBuildCapReached, "all %d cities built", MaxCities)
	}
	return nil
}

func (g *GameState) validateBuildRoad(a BuildRoad) error {
	if st, ok := g.Stage.(SetupStage); ok {
		if a.PlayerID != g.CurrentPlayerID {
			return reject(ErrInvalidPlayer, "not your turn")
		}
		if st.Step != SetupRoad {
			return reject(ErrActionRequired, "place a settlement first")
		}
		return g.setupRoadSiteError(a.Path, st.LastSettlement)
	}

	if err := g.requireMain(a.PlayerID); err != nil {
		return err
	}
	if g.Stage.(MainStage).FreeRoads == 0 && !g.Players[a.PlayerID].Resources.CanAfford(CostRoad) {
		return reject(ErrInsufficientResources, "road costs %s", CostRoad)
	}
	if err := g.roadSiteError(a.PlayerID, a.Path); err != nil {
		return err
	}
	if g.CountRoads(a.PlayerID) >= MaxRoads {
		return reject(ErrBuildCapReached, "all %d roads built", MaxRoads)
	}
	return nil
}

func (g *GameState) validateBuyCard(a BuyCard) error {
	if err := g.requireMain(a.PlayerID); err != nil {
		return err
	}
	if !g.Players[a.PlayerID].Resources.CanAfford(CostDevCard) {
		return reject(ErrInsufficientResources, "development card costs %s", CostDevCard)
	}
	if len(g.Deck) == 0 {
		return reject(ErrInvalidCard, "deck is empty")
	}
	return nil
}

func (g *GameState) validatePlayCard(a PlayCard) error {
	if err := g.requireMain(a.PlayerID); err != nil {
		return err
	}
	p := g.Players[a.PlayerID]
	if a.Index < 0 || a.Index >= len(p.Cards) {
		return reject(ErrInvalidCard, "no card at index %d", a.Index)
	}
	card := p.Cards[a.Index]
	if err := card.Playable(g.Turn); err != nil {
		return err
	}
	if g.Flags.CardPlayed {
		return reject(ErrInvalidPhase, "already played a card this turn")
	}

	switch card.Kind {
	case CardYearOfPlenty:
		if len(a.Choices) != 2 || !a.Choices[0].Valid() || !a.Choices[1].Valid() {
			return reject(ErrInvalidCard, "year of plenty needs two resources")
		}
	case CardMonopoly:
		if len(a.Choices) != 1 || !a.Choices[0].Valid() {
			return reject(ErrInvalidCard, "monopoly needs one resource")
		}
	case CardRoadBuilding:
		if g.CountRoads(a.PlayerID) >= MaxRoads {
			return reject(ErrBuildCapReached, "all %d roads built", MaxRoads)
		}
	}
	return nil
}

func (g *GameState) validateDiscard(a Discard) error {
	st, ok := g.Stage.(DiscardStage)
	if !ok {
		return reject(ErrInvalidPhase, "no discard pending")
	}
	owed := st.Owed[a.PlayerID]
	if owed == 0 {
		return reject(ErrInvalidPlayer, "%s owes no discard", g.name(a.PlayerID))
	}
	if !a.Cards.NonNegative() || a.Cards.Total() != owed {
		return reject(ErrInvalidTrade, "must discard exactly %d cards", owed)
	}
	if !g.Players[a.PlayerID].Resources.CanAfford(a.Cards) {
		return reject(ErrInsufficientResources, "cannot discard %s", a.Cards)
	}
	return nil
}

func (g *GameState) validateEndTurn(a EndTurn) error {
	return g.requireMain(a.PlayerID)
}
