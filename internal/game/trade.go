package game

// BankRatio is the exchange ratio without a port.
const BankRatio = 4

// TradeOffer represents a trade proposal. To is empty for an offer open to
// every other player.
type TradeOffer struct {
	From    string    `json:"from"`
	To      string    `json:"to,omitempty"`
	Offer   Stockpile `json:"offer"`
	Request Stockpile `json:"request"`
}

// TradeRatio returns how many of r the player must give the bank for one
// card: the best of 4, 3 at a generic port, 2 at a port for r. Corners with
// no port data count as no port.
func TradeRatio(g *GameState, playerID string, r ResourceType) int {
	ratio := BankRatio
	for c, b := range g.Buildings {
		if b.Owner != playerID {
			continue
		}
		port, ok := g.Board.PortAt(CornerID(c))
		if !ok {
			continue
		}
		if port.Generic() || port.Resource == r {
			ratio = min(ratio, port.Ratio())
		}
	}
	return ratio
}

func (g *GameState) validateBankTrade(a BankTrade) error {
	if err := g.requireMain(a.PlayerID); err != nil {
		return err
	}
	if !a.Give.Valid() || !a.Receive.Valid() {
		return reject(ErrInvalidTrade, "unknown resource")
	}
	if a.Give == a.Receive {
		return reject(ErrInvalidTrade, "cannot trade %s for itself", a.Give)
	}
	ratio := TradeRatio(g, a.PlayerID, a.Give)
	if g.Players[a.PlayerID].Resources.Get(a.Give) < ratio {
		return reject(ErrInsufficientResources, "need %d %s", ratio, a.Give)
	}
	return nil
}

func (g *GameState) validateOfferTrade(a OfferTrade) error {
	if err := g.requireMain(a.PlayerID); err != nil {
		return err
	}
	if g.Offer() != nil {
		return reject(ErrInvalidTrade, "an offer is already open")
	}
	if !a.Offer.NonNegative() || !a.Request.NonNegative() {
		return reject(ErrInvalidTrade, "negative amounts")
	}
	if a.Offer.IsEmpty() || a.Request.IsEmpty() {
		return reject(ErrInvalidTrade, "both sides must give something")
	}
	if a.To != "" {
		if a.To == a.PlayerID || g.Players[a.To] == nil {
			return reject(ErrInvalidPlayer, "cannot offer to %q", a.To)
		}
	}
	if !g.Players[a.PlayerID].Resources.CanAfford(a.Offer) {
		return reject(ErrInsufficientResources, "cannot supply %s", a.Offer)
	}
	if a.To != "" && !g.Players[a.To].Resources.CanAfford(a.Request) {
		return reject(ErrInsufficientResources, "%s cannot supply %s", g.name(a.To), a.Request)
	}
	return nil
}

func (g *GameState) validateAcceptTrade(a AcceptTrade) error {
	if g.Phase() != PhaseMain {
		return pendingError(g.Phase())
	}
	offer := g.Offer()
	if offer == nil {
		return reject(ErrInvalidTrade, "no open offer")
	}
	if g.Players[a.PlayerID] == nil {
		return reject(ErrInvalidPlayer, "unknown player %q", a.PlayerID)
	}
	if a.PlayerID == offer.From {
		return reject(ErrInvalidPlayer, "cannot accept your own offer")
	}
	if offer.To != "" && a.PlayerID != offer.To {
		return reject(ErrInvalidPlayer, "offer is for %s", g.name(offer.To))
	}
	if !g.Players[a.PlayerID].Resources.CanAfford(offer.Request) {
		return reject(ErrInsufficientResources, "cannot supply %s", offer.Request)
	}
	return nil
}

func (g *GameState) validateRejectTrade(a RejectTrade) error {
	if g.Phase() != PhaseMain {
		return pendingError(g.Phase())
	}
	offer := g.Offer()
	if offer == nil {
		return reject(ErrInvalidTrade, "no open offer")
	}
	if g.Players[a.PlayerID] == nil {
		return reject(ErrInvalidPlayer, "unknown player %q", a.PlayerID)
	}
	if offer.To != "" && a.PlayerID != offer.To && a.PlayerID != offer.From {
		return reject(ErrInvalidPlayer, "offer is for %s", g.name(offer.To))
	}
	return nil
}

func (g *GameState) applyBankTrade(a BankTrade) {
	p := g.Players[a.PlayerID]
	ratio := TradeRatio(g, a.PlayerID, a.Give)
	p.Resources.Remove(a.Give, ratio)
	p.Resources.Add(a.Receive, 1)
	g.logEvent(EventTrade, a.PlayerID, "%s traded %d %s to the bank for 1 %s", p.Name, ratio, a.Give, a.Receive)
}

func (g *GameState) applyOfferTrade(a OfferTrade) {
	st := g.Stage.(MainStage)
	st.Offer = &TradeOffer{From: a.PlayerID, To: a.To, Offer: a.Offer, Request: a.Request}
	g.Stage = st
	g.logEvent(EventTrade, a.PlayerID, "%s offers %s for %s", g.name(a.PlayerID), a.Offer, a.Request)
}

// applyAcceptTrade swaps the bundles. If either hand can no longer cover
// its side, the offer lapses without effect.
func (g *GameState) applyAcceptTrade(a AcceptTrade) {
	st := g.Stage.(MainStage)
	offer := st.Offer
	st.Offer = nil
	g.Stage = st

	from, to := g.Players[offer.From], g.Players[a.PlayerID]
	if !from.Resources.CanAfford(offer.Offer) || !to.Resources.CanAfford(offer.Request) {
		g.logEvent(EventTrade, a.PlayerID, "trade offer lapsed")
		return
	}
	from.Resources = from.Resources.Minus(offer.Offer).Plus(offer.Request)
	to.Resources = to.Resources.Minus(offer.Request).Plus(offer.Offer)
	g.logEvent(EventTrade, a.PlayerID, "%s accepted %s's trade", to.Name, from.Name)
}

func (g *GameState) applyRejectTrade(a RejectTrade) {
	st := g.Stage.(MainStage)
	st.Offer = nil
	g.Stage = st
	g.logEvent(EventTrade, a.PlayerID, "%s rejected the trade", g.name(a.PlayerID))
}
