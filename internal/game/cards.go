package game

// CardKind identifies a development card.
type CardKind string

const (
	CardKnight       CardKind = "knight"
	CardRoadBuilding CardKind = "road_building"
	CardYearOfPlenty CardKind = "year_of_plenty"
	CardMonopoly     CardKind = "monopoly"
	CardVictoryPoint CardKind = "victory_point"
)

// DevCard is a development card held by a player.
type DevCard struct {
	Kind         CardKind `json:"kind"`
	Used         bool     `json:"used"`
	AcquiredTurn int      `json:"acquiredTurn"`
}

// deckComposition is the fixed multiset of development cards.
var deckComposition = []struct {
	Kind  CardKind
	Count int
}{
	{CardKnight, 14},
	{CardVictoryPoint, 5},
	{CardRoadBuilding, 2},
	{CardYearOfPlenty, 2},
	{CardMonopoly, 2},
}

// DeckSize is the number of development cards in a fresh deck.
const DeckSize = 25

// NewDeck returns a shuffled development deck. Cards are drawn from the end.
func NewDeck(rng Rand) []CardKind {
	deck := make([]CardKind, 0, DeckSize)
	for _, entry := range deckComposition {
		for i := 0; i < entry.Count; i++ {
			deck = append(deck, entry.Kind)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// Playable reports whether a card can be played on the given turn, and if
// not, which rule error applies.
func (c DevCard) Playable(turn int) error {
	switch {
	case c.Kind == CardVictoryPoint:
		return reject(ErrInvalidCard, "victory point cards are not played")
	case c.Used:
		return reject(ErrInvalidCard, "card already used")
	case c.AcquiredTurn == turn:
		return reject(ErrInvalidPhase, "card bought this turn")
	}
	return nil
}
