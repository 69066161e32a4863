// Package ai plays computer-controlled seats. A Bot reads the same query
// helpers a client would and proposes one action at a time; every proposal
// passes game.Validate before it is returned.
package ai

import (
	"math/rand"
	"sort"

	"settlers/internal/game"
)

// Bot decides moves for one seat. It keeps a little per-turn memory, so
// use one Bot per seat and per game.
type Bot struct {
	ID         string
	Difficulty game.Difficulty

	w   Weights
	rng *rand.Rand

	turn   int
	trades int
}

// New creates a bot for a seat. The seed only drives the bot's own
// choices, never the game's dice.
func New(id string, difficulty game.Difficulty, seed int64) *Bot {
	return &Bot{
		ID:         id,
		Difficulty: difficulty,
		w:          WeightsFor(difficulty),
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// option is a scored candidate move.
type option struct {
	action game.Action
	score  float64
}

// Decide returns the bot's next action, or false when the bot has nothing
// to do in this state.
func (b *Bot) Decide(g *game.GameState) (game.Action, bool) {
	if g.IsGameOver() || g.Players[b.ID] == nil {
		return nil, false
	}
	if g.Turn != b.turn {
		b.turn, b.trades = g.Turn, 0
	}

	if owed := game.OwedDiscard(g, b.ID); owed > 0 {
		return b.valid(g, game.Discard{Seat: game.As(b.ID), Cards: b.chooseDiscard(g, owed)})
	}
	if offer := g.Offer(); offer != nil && offer.From != b.ID && (offer.To == b.ID || offer.To == "") {
		if a, ok := b.respond(g, offer); ok {
			return a, true
		}
	}
	if g.CurrentPlayerID != b.ID {
		return nil, false
	}

	switch st := g.Stage.(type) {
	case game.SetupStage:
		return b.setup(g, st)
	case game.RollStage:
		return b.valid(g, game.RollDice{Seat: game.As(b.ID)})
	case game.RobberStage:
		return b.valid(g, b.placeRobber(g))
	case game.MainStage:
		return b.main(g, st)
	}
	return nil, false
}

// valid returns the action only if the rules accept it.
func (b *Bot) valid(g *game.GameState, a game.Action) (game.Action, bool) {
	if game.Validate(g, a) != nil {
		return nil, false
	}
	return a, true
}

func (b *Bot) setup(g *game.GameState, st game.SetupStage) (game.Action, bool) {
	if st.Step == game.SetupSettlement {
		c, ok := bestCorner(g, game.LegalSettlementCorners(g, b.ID))
		if !ok {
			return nil, false
		}
		return b.valid(g, game.BuildSettlement{Seat: game.As(b.ID), Corner: c})
	}
	p, ok := bestPath(g, game.LegalRoadPaths(g, b.ID))
	if !ok {
		return nil, false
	}
	return b.valid(g, game.BuildRoad{Seat: game.As(b.ID), Path: p})
}

// robbed reports whether the robber blocks one of the bot's buildings.
func (b *Bot) robbed(g *game.GameState) bool {
	for _, c := range g.Board.Tiles[g.Robber].Corners {
		if g.Buildings[c].Owner == b.ID {
			return true
		}
	}
	return false
}

// playable finds an unplayed card of the kind that may be played now.
func (b *Bot) playable(g *game.GameState, kind game.CardKind) (int, bool) {
	cards := g.Players[b.ID].Cards
	for _, i := range game.PlayableCards(g, b.ID) {
		if cards[i].Kind == kind {
			return i, true
		}
	}
	return 0, false
}

// placeRobber picks the tile that hurts opponents most and never one of
// the bot's own tiles unless nothing else is left.
func (b *Bot) placeRobber(g *game.GameState) game.Action {
	leader := b.leader(g)

	best := game.MoveRobber{Seat: game.As(b.ID), Tile: game.NoTile}
	bestScore := -1.0
	for _, t := range game.LegalRobberTiles(g) {
		tile := g.Board.Tiles[t]
		var score float64
		own := false
		for _, c := range tile.Corners {
			bld := g.Buildings[c]
			switch {
			case bld.Owner == "":
			case bld.Owner == b.ID:
				own = true
			default:
				weight := 3.0
				if bld.Kind == game.BuildingCity {
					weight = 5
				}
				if b.w.RobLeader && bld.Owner == leader {
					weight *= 2
				}
				score += weight
			}
		}
		score += float64(2 * game.Pips(tile.Number))
		if own {
			score -= 20
		}
		if score > bestScore {
			bestScore = score
			best.Tile = t
		}
	}

	targets := game.StealTargets(g, best.Tile, b.ID)
	if len(targets) > 0 {
		best.Target = b.pickVictim(g, targets, leader)
	}
	return best
}

func (b *Bot) pickVictim(g *game.GameState, targets []string, leader string) string {
	if b.w.RobLeader {
		for _, id := range targets {
			if id == leader {
				return id
			}
		}
	}
	victim, most := targets[0], -1
	for _, id := range targets {
		if n := g.Players[id].Resources.Total(); n > most {
			victim, most = id, n
		}
	}
	return victim
}

// leader returns the opponent with the most points, first in seat order on
// ties.
func (b *Bot) leader(g *game.GameState) string {
	leader, best := "", -1
	for _, id := range g.PlayerOrder {
		if id == b.ID {
			continue
		}
		if vp := g.Players[id].VictoryPoints; vp > best {
			leader, best = id, vp
		}
	}
	return leader
}

func (b *Bot) main(g *game.GameState, st game.MainStage) (game.Action, bool) {
	if st.FreeRoads > 0 {
		if p, ok := bestPath(g, game.LegalRoadPaths(g, b.ID)); ok {
			if a, ok := b.valid(g, game.BuildRoad{Seat: game.As(b.ID), Path: p}); ok {
				return a, true
			}
		}
	}

	options := b.buildOptions(g)
	sort.SliceStable(options, func(i, j int) bool { return options[i].score > options[j].score })
	for _, o := range options {
		if b.w.SkipChance > 0 && b.rng.Float64() < b.w.SkipChance {
			continue
		}
		if a, ok := b.valid(g, o.action); ok {
			return a, true
		}
	}

	if a, ok := b.bankTrade(g); ok {
		return a, true
	}
	return b.valid(g, game.EndTurn{Seat: game.As(b.ID)})
}

// buildOptions scores every affordable move, following the build order
// city, settlement, card, road.
func (b *Bot) buildOptions(g *game.GameState) []option {
	me := g.Players[b.ID]
	hand := me.Resources
	seat := game.As(b.ID)
	var options []option

	if hand.CanAfford(game.CostCity) {
		if c, ok := bestCorner(g, game.LegalCityCorners(g, b.ID)); ok {
			options = append(options, option{game.BuildCity{Seat: seat, Corner: c}, b.w.City * 12})
		}
	}
	if hand.CanAfford(game.CostSettlement) {
		if c, ok := bestCorner(g, game.LegalSettlementCorners(g, b.ID)); ok {
			options = append(options, option{game.BuildSettlement{Seat: seat, Corner: c}, b.w.Settlement * 10})
		}
	}
	if hand.CanAfford(game.CostDevCard) && len(g.Deck) > 0 {
		options = append(options, option{game.BuyCard{Seat: seat}, b.w.DevCard * 6})
	}
	if hand.CanAfford(game.CostRoad) && b.wantsRoad(g) {
		if p, ok := bestPath(g, game.LegalRoadPaths(g, b.ID)); ok {
			bonus := 0.0
			if g.LongestRoad.Size > 3 {
				bonus = 2 * b.w.LongestRoad
			}
			options = append(options, option{game.BuildRoad{Seat: seat, Path: p}, b.w.Road * (5 + bonus)})
		}
	}

	if idx, ok := b.playable(g, game.CardKnight); ok {
		bonus := 0.0
		if me.KnightsPlayed+1 >= max(g.LargestArmy.Size, game.MinLargestArmy) {
			bonus = 5
		}
		if b.robbed(g) {
			bonus += 3
		}
		options = append(options, option{game.PlayCard{Seat: seat, Index: idx}, b.w.LargestArmy * (4 + bonus)})
	}
	if idx, ok := b.playable(g, game.CardRoadBuilding); ok && len(game.LegalRoadPaths(g, b.ID)) > 0 {
		options = append(options, option{game.PlayCard{Seat: seat, Index: idx}, b.w.Road * 8})
	}
	if idx, ok := b.playable(g, game.CardYearOfPlenty); ok {
		options = append(options, option{game.PlayCard{Seat: seat, Index: idx, Choices: b.plentyChoices(g)}, 7})
	}
	if idx, ok := b.playable(g, game.CardMonopoly); ok {
		if r, n := b.monopolyChoice(g); n >= 2 {
			options = append(options, option{game.PlayCard{Seat: seat, Index: idx, Choices: []game.ResourceType{r}}, float64(2 + n)})
		}
	}
	return options
}

// wantsRoad holds back roads while there is already somewhere to settle,
// unless the bot is chasing longest road.
func (b *Bot) wantsRoad(g *game.GameState) bool {
	if g.CountRoads(b.ID) >= game.MaxRoads {
		return false
	}
	if len(game.LegalSettlementCorners(g, b.ID)) == 0 {
		return true
	}
	return b.w.LongestRoad >= 0.9 && game.LongestRoad(g, b.ID) >= g.LongestRoad.Size-1
}

// goal is the next thing the bot is saving for.
func (b *Bot) goal(g *game.GameState) game.Stockpile {
	switch {
	case len(game.LegalCityCorners(g, b.ID)) > 0 && g.CountBuildings(b.ID, game.BuildingCity) < game.MaxCities:
		return game.CostCity
	case len(game.LegalSettlementCorners(g, b.ID)) > 0 && g.CountBuildings(b.ID, game.BuildingSettlement) < game.MaxSettlements:
		return game.CostSettlement
	case len(g.Deck) > 0 && b.w.DevCard >= 0.6:
		return game.CostDevCard
	default:
		return game.CostRoad
	}
}

// missing lists what the hand lacks for a cost, scarcest first.
func missing(hand, cost game.Stockpile) []game.ResourceType {
	var out []game.ResourceType
	for _, r := range game.AllResources {
		if hand.Get(r) < cost.Get(r) {
			out = append(out, r)
		}
	}
	return out
}

// bankTrade trades surplus toward the current goal.
func (b *Bot) bankTrade(g *game.GameState) (game.Action, bool) {
	if b.trades >= b.w.TradesPerTurn {
		return nil, false
	}
	hand := g.Players[b.ID].Resources
	goal := b.goal(g)
	need := missing(hand, goal)
	if len(need) == 0 {
		return nil, false
	}
	for _, give := range game.AllResources {
		surplus := hand.Get(give) - goal.Get(give)
		if surplus < game.TradeRatio(g, b.ID, give) {
			continue
		}
		a, ok := b.valid(g, game.BankTrade{Seat: game.As(b.ID), Give: give, Receive: need[0]})
		if ok {
			b.trades++
			return a, true
		}
	}
	return nil, false
}

func (b *Bot) plentyChoices(g *game.GameState) []game.ResourceType {
	need := missing(g.Players[b.ID].Resources, b.goal(g))
	switch len(need) {
	case 0:
		return []game.ResourceType{game.ResourceOre, game.ResourceGrain}
	case 1:
		return []game.ResourceType{need[0], need[0]}
	default:
		return need[:2]
	}
}

// monopolyChoice picks the resource opponents hold the most of.
func (b *Bot) monopolyChoice(g *game.GameState) (game.ResourceType, int) {
	best, most := game.ResourceGrain, 0
	for _, r := range game.AllResources {
		n := 0
		for _, id := range g.PlayerOrder {
			if id != b.ID {
				n += g.Players[id].Resources.Get(r)
			}
		}
		if n > most {
			best, most = r, n
		}
	}
	return best, most
}

// chooseDiscard gives up cards from the largest piles, keeping what the
// current goal needs where possible.
func (b *Bot) chooseDiscard(g *game.GameState, owed int) game.Stockpile {
	hand := g.Players[b.ID].Resources
	goal := b.goal(g)
	var out game.Stockpile
	for i := 0; i < owed; i++ {
		pick, bestSpare := game.ResourceNone, -1<<30
		for _, r := range game.AllResources {
			left := hand.Get(r) - out.Get(r)
			if left == 0 {
				continue
			}
			if spare := left - goal.Get(r); spare > bestSpare {
				pick, bestSpare = r, spare
			}
		}
		out.Add(pick, 1)
	}
	return out
}

// respond accepts offers that move the bot toward its goal. Directed
// offers it does not like are rejected; open ones are left alone.
func (b *Bot) respond(g *game.GameState, offer *game.TradeOffer) (game.Action, bool) {
	hand := g.Players[b.ID].Resources
	if hand.CanAfford(offer.Request) {
		goal := b.goal(g)
		before := len(missing(hand, goal))
		after := len(missing(hand.Minus(offer.Request).Plus(offer.Offer), goal))
		good := after < before || (after == before && offer.Offer.Total() > offer.Request.Total())
		if b.Difficulty == game.DifficultyEasy {
			good = b.rng.Intn(2) == 0
		}
		if good {
			return b.valid(g, game.AcceptTrade{Seat: game.As(b.ID)})
		}
	}
	if offer.To == b.ID {
		return b.valid(g, game.RejectTrade{Seat: game.As(b.ID)})
	}
	return nil, false
}
