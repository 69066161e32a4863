package game

import "math/rand"

// Rand is the randomness source for board generation, deck shuffles, dice,
// and robber steals. *rand.Rand satisfies it; tests inject fixed sequences.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source. The same seed replays the same game.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// rollDie returns a uniform value in 1..6.
func rollDie(rng Rand) int {
	return rng.Intn(6) + 1
}
