package ai

import "settlers/internal/game"

// Weights scale how much a bot values each kind of move.
type Weights struct {
	Settlement  float64
	City        float64
	Road        float64
	DevCard     float64
	LongestRoad float64
	LargestArmy float64

	// SkipChance is the probability of passing on an affordable build.
	SkipChance float64
	// TradesPerTurn caps bank trades in one turn.
	TradesPerTurn int
	// RobLeader aims the robber at the points leader instead of the
	// richest hand.
	RobLeader bool
}

var weightsByDifficulty = map[game.Difficulty]Weights{
	game.DifficultyEasy: {
		Settlement: 1.0, City: 0.7, Road: 0.6, DevCard: 0.3, LongestRoad: 0.4, LargestArmy: 0.3,
		SkipChance:    0.3,
		TradesPerTurn: 1,
	},
	game.DifficultyMedium: {
		Settlement: 1.0, City: 0.9, Road: 0.8, DevCard: 0.6, LongestRoad: 0.7, LargestArmy: 0.6,
		TradesPerTurn: 2,
	},
	game.DifficultyHard: {
		Settlement: 1.0, City: 1.0, Road: 0.9, DevCard: 0.8, LongestRoad: 0.9, LargestArmy: 0.9,
		TradesPerTurn: 3,
		RobLeader:     true,
	},
}

// WeightsFor returns the strategy weights for a difficulty. Unknown
// difficulties play as medium.
func WeightsFor(d game.Difficulty) Weights {
	if w, ok := weightsByDifficulty[d]; ok {
		return w
	}
	return weightsByDifficulty[game.DifficultyMedium]
}
