package game

import "sort"

// rescore recomputes both titles, every player's points, and the win
// condition. Runs at the end of every Reduce.
func (g *GameState) rescore() {
	g.updateLongestRoad()
	g.updateLargestArmy()

	for _, id := range g.PlayerOrder {
		g.Players[id].VictoryPoints = VictoryPoints(g, id)
	}

	if g.Phase() == PhaseFinished {
		return
	}
	// The acting player is checked first, then seat order.
	candidates := append([]string{g.CurrentPlayerID}, g.PlayerOrder...)
	for _, id := range candidates {
		if g.Players[id].VictoryPoints >= g.VictoryTarget() {
			g.Winner = id
			g.Stage = FinishedStage{Winner: id}
			g.logEvent(EventGameEnd, id, "%s wins with %d points", g.name(id), g.Players[id].VictoryPoints)
			return
		}
	}
}

// VictoryPoints totals a player's points: 1 per settlement, 2 per city, 1
// per victory point card, and 2 for each title held.
func VictoryPoints(g *GameState, playerID string) int {
	p := g.Players[playerID]
	if p == nil {
		return 0
	}
	points := g.CountBuildings(playerID, BuildingSettlement) +
		2*g.CountBuildings(playerID, BuildingCity) +
		p.VictoryCards()
	if g.LongestRoad.Holder == playerID {
		points += 2
	}
	if g.LargestArmy.Holder == playerID {
		points += 2
	}
	return points
}

// updateLongestRoad keeps the holder unless someone strictly exceeds them
// or they drop below the minimum; otherwise the title goes to a unique
// qualifying leader, or to nobody.
func (g *GameState) updateLongestRoad() {
	lengths := make(map[string]int, len(g.PlayerOrder))
	for _, id := range g.PlayerOrder {
		lengths[id] = LongestRoad(g, id)
	}
	g.LongestRoad = g.contest(g.LongestRoad, lengths, MinLongestRoad, "longest road")
	for _, id := range g.PlayerOrder {
		g.Players[id].HasLongestRoad = g.LongestRoad.Holder == id
	}
}

func (g *GameState) updateLargestArmy() {
	knights := make(map[string]int, len(g.PlayerOrder))
	for _, id := range g.PlayerOrder {
		knights[id] = g.Players[id].KnightsPlayed
	}
	g.LargestArmy = g.contest(g.LargestArmy, knights, MinLargestArmy, "largest army")
	for _, id := range g.PlayerOrder {
		g.Players[id].HasLargestArmy = g.LargestArmy.Holder == id
	}
}

// contest applies the shared title rule to one set of scores.
func (g *GameState) contest(current Title, scores map[string]int, minimum int, label string) Title {
	if h := current.Holder; h != "" && scores[h] >= minimum {
		keep := true
		for id, s := range scores {
			if id != h && s > scores[h] {
				keep = false
				break
			}
		}
		if keep {
			return Title{Holder: h, Size: scores[h]}
		}
	}

	leader, best, tied := "", 0, false
	for _, id := range g.PlayerOrder {
		switch s := scores[id]; {
		case s > best:
			leader, best, tied = id, s, false
		case s == best:
			tied = true
		}
	}

	next := Title{}
	if best >= minimum && !tied {
		next = Title{Holder: leader, Size: best}
	}
	if next.Holder != current.Holder {
		if next.Holder == "" {
			g.logEvent(EventTitle, current.Holder, "%s lost %s", g.name(current.Holder), label)
		} else {
			g.logEvent(EventTitle, next.Holder, "%s took %s (%d)", g.name(next.Holder), label, best)
		}
	}
	return next
}

// Standing is one row of the score table.
type Standing struct {
	PlayerID     string `json:"playerId"`
	Name         string `json:"name"`
	Settlements  int    `json:"settlements"`
	Cities       int    `json:"cities"`
	VictoryCards int    `json:"victoryCards"`
	LongestRoad  bool   `json:"longestRoad"`
	LargestArmy  bool   `json:"largestArmy"`
	RoadLength   int    `json:"roadLength"`
	Knights      int    `json:"knights"`
	Points       int    `json:"points"`
}

// Standings returns the score table, highest points first, ties in seat
// order.
func Standings(g *GameState) []Standing {
	rows := make([]Standing, 0, len(g.PlayerOrder))
	for _, id := range g.PlayerOrder {
		p := g.Players[id]
		rows = append(rows, Standing{
			PlayerID:     id,
			Name:         p.Name,
			Settlements:  g.CountBuildings(id, BuildingSettlement),
			Cities:       g.CountBuildings(id, BuildingCity),
			VictoryCards: p.VictoryCards(),
			LongestRoad:  g.LongestRoad.Holder == id,
			LargestArmy:  g.LargestArmy.Holder == id,
			RoadLength:   LongestRoad(g, id),
			Knights:      p.KnightsPlayed,
			Points:       VictoryPoints(g, id),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Points > rows[j].Points })
	return rows
}
