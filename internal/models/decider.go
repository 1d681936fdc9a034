// internal/models/decider.go
package models

// TurnAction is a player's choice of how to open their turn.
type TurnAction string

const (
	ActionCallKabo    TurnAction = "CALL_KABO"
	ActionDrawDeck    TurnAction = "DRAW_DECK"
	ActionDrawDiscard TurnAction = "DRAW_DISCARD"
)

// DrawDecision is what a player does with a card drawn from the deck.
type DrawDecision string

const (
	DecisionKeep      DrawDecision = "KEEP"
	DecisionDiscard   DrawDecision = "DISCARD"
	DecisionUseEffect DrawDecision = "USE_EFFECT"
)

// PositionDecline is returned from ChoosePositionForNewCard to discard
// the drawn card instead of keeping it.
const PositionDecline = -1

// CardView is one hand slot as seen by a particular observer. Value is
// nil when the observer does not know the card.
type CardView struct {
	Position int  `json:"position"`
	Value    *int `json:"value"`
	Public   bool `json:"public"`
}

// OpponentView describes one opponent for spy/swap target selection.
// Hand contains only what the acting player may see (public cards and,
// for spy targets, instances they previously spied).
type OpponentView struct {
	PlayerID int        `json:"player_id"`
	Name     string     `json:"name"`
	HandSize int        `json:"hand_size"`
	Hand     []CardView `json:"hand"`
}

// TurnView is the table state offered alongside ChooseTurnAction.
type TurnView struct {
	Hand        []CardView
	DeckSize    int
	DiscardSize int
	DiscardTop  *int // nil when the discard pile is empty
	KaboCalled  bool
}

// DrawnCardView describes the card a player just drew from the deck.
type DrawnCardView struct {
	Value  int
	Effect Effect
	Hand   []CardView
}

// SpyChoice names an opponent card to spy on.
type SpyChoice struct {
	OpponentID int
	Position   int
}

// SwapChoice names the two cards exchanged by a swap effect.
type SwapChoice struct {
	OwnPosition      int
	OpponentID       int
	OpponentPosition int
}

// RoundSummary is pushed to every participant once a round is scored.
type RoundSummary struct {
	Round       int            `json:"round"`
	RoundScores map[string]int `json:"round_scores"`
	GameScores  map[string]int `json:"game_scores"`
	KaboCaller  string         `json:"kabo_caller,omitempty"`
	Kamikaze    string         `json:"kamikaze,omitempty"`
}

// Decider is the capability contract a seat binding must satisfy. One
// implementation exists per variant: interactive console, scripted bot,
// and remote participants reached over a transport. Every call is
// synchronous from the engine's point of view and may block for as long
// as a human or a network round-trip takes.
//
// Selection methods must return values inside the stated ranges; the
// engine re-validates every answer regardless, and treats a violation
// as an IllegalActionError rather than trusting caller-side checks.
// A returned error is fatal for the round (a lost remote participant).
type Decider interface {
	// ChooseTurnAction picks among the currently legal openings.
	// ActionCallKabo is only offered while no Kabo has been called this
	// round; ActionDrawDiscard only while the discard pile is non-empty.
	ChooseTurnAction(view TurnView, legal []TurnAction) (TurnAction, error)

	// DecideOnDrawnCard settles a deck draw. DecisionUseEffect is only
	// offered for cards with an effect; cards taken from the discard
	// pile never reach this call (they are implicitly kept).
	DecideOnDrawnCard(view DrawnCardView, legal []DrawDecision) (DrawDecision, error)

	// ChooseCardsToExchange returns a non-empty set of own-hand
	// positions to give up for the drawn card.
	ChooseCardsToExchange(view DrawnCardView) ([]int, error)

	// ChoosePositionForNewCard picks one of the freed slots for the
	// drawn card, or PositionDecline to discard it instead.
	ChoosePositionForNewCard(free []int) (int, error)

	// ChoosePeekPositions returns exactly n distinct own-hand positions
	// (round-start peek uses n=2, the peek effect n=1). An empty answer
	// means no preference and defaults to the leftmost n slots.
	ChoosePeekPositions(n, handSize int) ([]int, error)

	// ChooseSpyTarget picks an opponent and a position in their hand.
	ChooseSpyTarget(opponents []OpponentView) (SpyChoice, error)

	// ChooseSwapTargets picks an own position and an opponent card to
	// exchange it with.
	ChooseSwapTargets(hand []CardView, opponents []OpponentView) (SwapChoice, error)

	// NotifyHandKnowledge pushes the player's current view of their own
	// hand. Fire and forget.
	NotifyHandKnowledge(hand []CardView)

	// NotifyRevealedCard announces a value revealed to this player by a
	// peek or spy. Fire and forget.
	NotifyRevealedCard(value int, effect Effect)

	// NotifyRoundResult announces the scored round. Fire and forget.
	NotifyRoundResult(summary RoundSummary)
}
