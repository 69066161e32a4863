package game

// PlayerColor represents a player's color.
type PlayerColor string

const (
	ColorRed    PlayerColor = "red"
	ColorBlue   PlayerColor = "blue"
	ColorOrange PlayerColor = "orange"
	ColorWhite  PlayerColor = "white"
)

// AllColors returns all available player colors in seat order.
func AllColors() []PlayerColor {
	return []PlayerColor{
		ColorRed,
		ColorBlue,
		ColorOrange,
		ColorWhite,
	}
}

// Difficulty selects how a computer-controlled seat plays.
type Difficulty string

const (
	DifficultyNone   Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty converts a string to a Difficulty. Unknown values mean a
// human seat.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyNone
	}
}

// Player represents a seat in the game.
type Player struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Color          PlayerColor `json:"color"`
	IsAI           bool        `json:"isAI"`
	Difficulty     Difficulty  `json:"difficulty,omitempty"`
	Resources      Stockpile   `json:"resources"`
	Cards          []DevCard   `json:"cards"`
	KnightsPlayed  int         `json:"knightsPlayed"`
	HasLongestRoad bool        `json:"hasLongestRoad"`
	HasLargestArmy bool        `json:"hasLargestArmy"`
	VictoryPoints  int         `json:"victoryPoints"`
}

// NewPlayer creates a human player with an empty hand.
func NewPlayer(id, name string, color PlayerColor) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Color: color,
	}
}

// NewAIPlayer creates a computer-controlled player.
func NewAIPlayer(id, name string, color PlayerColor, difficulty Difficulty) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Color:      color,
		IsAI:       true,
		Difficulty: difficulty,
	}
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Cards = append([]DevCard(nil), p.Cards...)
	return &cp
}

// VictoryCards counts held victory-point cards. They score whether or not
// they have been revealed.
func (p *Player) VictoryCards() int {
	n := 0
	for _, c := range p.Cards {
		if c.Kind == CardVictoryPoint {
			n++
		}
	}
	return n
}
