package game

// Phase represents the turn controller's current state.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseRoll
	PhaseMain
	PhaseRobber
	PhaseDiscard
	PhaseFinished
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseRoll:
		return "Roll"
	case PhaseMain:
		return "Main"
	case PhaseRobber:
		return "Robber"
	case PhaseDiscard:
		return "Discard"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Stage is the phase-specific part of the state. Each variant carries only
// the fields that mean something in its phase.
type Stage interface {
	Phase() Phase
	clone() Stage
}

// SetupStep says which piece the current player places next.
type SetupStep int

const (
	SetupSettlement SetupStep = iota
	SetupRoad
)

// SetupStage tracks the snake-order opening placements. Round 1 runs forward
// through the seats, round 2 runs backward.
type SetupStage struct {
	Round          int       `json:"round"`
	Step           SetupStep `json:"step"`
	LastSettlement CornerID  `json:"lastSettlement"`
}

// RollStage waits for the current player to roll.
type RollStage struct{}

// MainStage is the free-action part of a turn.
type MainStage struct {
	Offer     *TradeOffer `json:"offer,omitempty"`
	FreeRoads int         `json:"freeRoads,omitempty"`
}

// DiscardStage waits for every listed player to discard the owed count.
type DiscardStage struct {
	Owed map[string]int `json:"owed"`
}

// RobberStage waits for the current player to move the robber.
type RobberStage struct{}

// FinishedStage is terminal.
type FinishedStage struct {
	Winner string `json:"winner"`
}

func (SetupStage) Phase() Phase    { return PhaseSetup }
func (RollStage) Phase() Phase     { return PhaseRoll }
func (MainStage) Phase() Phase     { return PhaseMain }
func (DiscardStage) Phase() Phase  { return PhaseDiscard }
func (RobberStage) Phase() Phase   { return PhaseRobber }
func (FinishedStage) Phase() Phase { return PhaseFinished }

func (s SetupStage) clone() Stage    { return s }
func (s RollStage) clone() Stage     { return s }
func (s RobberStage) clone() Stage   { return s }
func (s FinishedStage) clone() Stage { return s }

func (s MainStage) clone() Stage {
	if s.Offer != nil {
		offer := *s.Offer
		s.Offer = &offer
	}
	return s
}

func (s DiscardStage) clone() Stage {
	owed := make(map[string]int, len(s.Owed))
	for id, n := range s.Owed {
		owed[id] = n
	}
	return DiscardStage{Owed: owed}
}

// TurnFlags are per-turn facts that outlive a single stage, e.g. a knight
// played in MAIN still counts after the robber phase returns to MAIN.
type TurnFlags struct {
	CardPlayed bool `json:"cardPlayed"`
}

// pendingError explains why a main-phase action cannot run right now.
func pendingError(p Phase) error {
	switch p {
	case PhaseRoll:
		return reject(ErrActionRequired, "roll the dice first")
	case PhaseRobber:
		return reject(ErrActionRequired, "move the robber first")
	case PhaseDiscard:
		return reject(ErrActionRequired, "waiting for discards")
	case PhaseFinished:
		return reject(ErrInvalidPhase, "game is over")
	default:
		return reject(ErrInvalidPhase, "not allowed during %s", p)
	}
}

// nextSetupSeat advances the snake order. It returns the next seat index
// and round, or done once the second round has wrapped back past seat 0.
func nextSetupSeat(seat, round, players int) (next, nextRound int, done bool) {
	if round == 1 {
		if seat < players-1 {
			return seat + 1, 1, false
		}
		return seat, 2, false
	}
	if seat > 0 {
		return seat - 1, 2, false
	}
	return 0, 2, true
}
