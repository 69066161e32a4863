package game

import "fmt"

// Event kinds recorded in the game log.
const (
	EventSetup      = "setup"
	EventRoll       = "roll"
	EventProduction = "production"
	EventBuild      = "build"
	EventCard       = "card"
	EventTrade      = "trade"
	EventRobber     = "robber"
	EventDiscard    = "discard"
	EventTurn       = "turn"
	EventTitle      = "title"
	EventGameEnd    = "game_end"
)

// Event is one line of game history.
type Event struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Player  string `json:"player,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// logEvent appends to the bounded history. Seq keeps counting after old
// entries fall off so consumers can resume from the last one they saw.
func (g *GameState) logEvent(kind, playerID, format string, args ...any) {
	seq := 1
	if n := len(g.Log); n > 0 {
		seq = g.Log[n-1].Seq + 1
	}
	g.Log = append(g.Log, Event{
		Seq:     seq,
		Turn:    g.Turn,
		Player:  playerID,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
	if over := len(g.Log) - maxLogEvents; over > 0 {
		g.Log = append([]Event(nil), g.Log[over:]...)
	}
}

// EventsSince returns the logged events with Seq greater than after.
func (g *GameState) EventsSince(after int) []Event {
	var out []Event
	for _, e := range g.Log {
		if e.Seq > after {
			out = append(out, e)
		}
	}
	return out
}

// name returns a player's display name, falling back to the ID.
func (g *GameState) name(id string) string {
	if p := g.Players[id]; p != nil && p.Name != "" {
		return p.Name
	}
	return id
}
