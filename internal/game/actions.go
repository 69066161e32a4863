package game

// ActionType names an action variant on the wire and in logs.
type ActionType string

const (
	ActionRollDice        ActionType = "roll_dice"
	ActionBuildSettlement ActionType = "build_settlement"
	ActionBuildCity       ActionType = "build_city"
	ActionBuildRoad       ActionType = "build_road"
	ActionBuyCard         ActionType = "buy_card"
	ActionPlayCard        ActionType = "play_card"
	ActionBankTrade       ActionType = "bank_trade"
	ActionOfferTrade      ActionType = "offer_trade"
	ActionAcceptTrade     ActionType = "accept_trade"
	ActionRejectTrade     ActionType = "reject_trade"
	ActionMoveRobber      ActionType = "move_robber"
	ActionDiscard         ActionType = "discard"
	ActionEndTurn         ActionType = "end_turn"
)

// Action is one of the closed set of player moves below.
type Action interface {
	Type() ActionType
	Actor() string
	isAction()
}

// Seat identifies the acting player. Every action embeds it.
type Seat struct {
	PlayerID string `json:"playerId"`
}

// As returns the Seat for a player ID.
func As(playerID string) Seat {
	return Seat{PlayerID: playerID}
}

// Actor returns the acting player's ID.
func (s Seat) Actor() string {
	return s.PlayerID
}

type RollDice struct {
	Seat
}

type BuildSettlement struct {
	Seat
	Corner CornerID `json:"corner"`
}

type BuildCity struct {
	Seat
	Corner CornerID `json:"corner"`
}

type BuildRoad struct {
	Seat
	Path PathID `json:"path"`
}

type BuyCard struct {
	Seat
}

// PlayCard plays the card at Index in the player's hand. Year of plenty
// takes two Choices, monopoly takes one.
type PlayCard struct {
	Seat
	Index   int            `json:"index"`
	Choices []ResourceType `json:"choices,omitempty"`
}

// BankTrade gives the player's port ratio of Give for one Receive.
type BankTrade struct {
	Seat
	Give    ResourceType `json:"give"`
	Receive ResourceType `json:"receive"`
}

// OfferTrade opens a player trade. An empty To leaves it open to anyone.
type OfferTrade struct {
	Seat
	To      string    `json:"to,omitempty"`
	Offer   Stockpile `json:"offer"`
	Request Stockpile `json:"request"`
}

type AcceptTrade struct {
	Seat
}

type RejectTrade struct {
	Seat
}

// MoveRobber relocates the robber and optionally names a player to rob.
type MoveRobber struct {
	Seat
	Tile   TileID `json:"tile"`
	Target string `json:"target,omitempty"`
}

// Discard gives up cards after a 7. Each owing player sends their own.
type Discard struct {
	Seat
	Cards Stockpile `json:"cards"`
}

type EndTurn struct {
	Seat
}

func (RollDice) Type() ActionType        { return ActionRollDice }
func (BuildSettlement) Type() ActionType { return ActionBuildSettlement }
func (BuildCity) Type() ActionType       { return ActionBuildCity }
func (BuildRoad) Type() ActionType       { return ActionBuildRoad }
func (BuyCard) Type() ActionType         { return ActionBuyCard }
func (PlayCard) Type() ActionType        { return ActionPlayCard }
func (BankTrade) Type() ActionType       { return ActionBankTrade }
func (OfferTrade) Type() ActionType      { return ActionOfferTrade }
func (AcceptTrade) Type() ActionType     { return ActionAcceptTrade }
func (RejectTrade) Type() ActionType     { return ActionRejectTrade }
func (MoveRobber) Type() ActionType      { return ActionMoveRobber }
func (Discard) Type() ActionType         { return ActionDiscard }
func (EndTurn) Type() ActionType         { return ActionEndTurn }

func (RollDice) isAction()        {}
func (BuildSettlement) isAction() {}
func (BuildCity) isAction()       {}
func (BuildRoad) isAction()       {}
func (BuyCard) isAction()         {}
func (PlayCard) isAction()        {}
func (BankTrade) isAction()       {}
func (OfferTrade) isAction()      {}
func (AcceptTrade) isAction()     {}
func (RejectTrade) isAction()     {}
func (MoveRobber) isAction()      {}
func (Discard) isAction()         {}
func (EndTurn) isAction()         {}
