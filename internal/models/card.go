// internal/models/card.go
package models

import "fmt"

// Effect is the special ability printed on a card, derived from its value.
type Effect int

const (
	EffectNone Effect = iota
	EffectPeek        // look at one own card
	EffectSpy         // look at one opponent card
	EffectSwap        // exchange one own card with an opponent card
)

func (e Effect) String() string {
	switch e {
	case EffectPeek:
		return "PEEK"
	case EffectSpy:
		return "SPY"
	case EffectSwap:
		return "SWAP"
	default:
		return "NONE"
	}
}

// Location tracks where a card currently lives.
type Location int

const (
	InDeck Location = iota
	InHand
	InDiscard
)

// EffectForValue derives a card's effect from its value: 7/8 peek,
// 9/10 spy, 11/12 swap, everything else none.
func EffectForValue(value int) Effect {
	switch value {
	case 7, 8:
		return EffectPeek
	case 9, 10:
		return EffectSpy
	case 11, 12:
		return EffectSwap
	default:
		return EffectNone
	}
}

// Card is a single card instance. Two cards sharing a value are still
// distinct objects: visibility and position tracking are per instance,
// so identity lives in ID, never in value equality.
type Card struct {
	ID     int
	Value  int
	Effect Effect

	Location        Location
	PubliclyVisible bool
	KnownToOwner    bool

	// seenBy records the ids of every player who has observed this exact
	// instance: spies, and owners who peeked at or knowingly kept it.
	// Spy knowledge survives ownership changes, so entries are never
	// removed during a round.
	seenBy map[int]bool
}

func (c *Card) String() string {
	if c.Effect == EffectNone {
		return fmt.Sprintf("Card(%d)", c.Value)
	}
	return fmt.Sprintf("Card(%d %s)", c.Value, c.Effect)
}

// MarkSeenBy records that the given player has observed this card.
func (c *Card) MarkSeenBy(playerID int) {
	if c.seenBy == nil {
		c.seenBy = make(map[int]bool)
	}
	c.seenBy[playerID] = true
}

// SeenBy reports whether the given player has observed this card
// instance at some point, whether as owner or as spy.
func (c *Card) SeenBy(playerID int) bool {
	return c.seenBy[playerID]
}

// CardFactory builds card instances with stable incrementing ids. One
// factory is owned per match; Reset starts ids over for the next match.
type CardFactory struct {
	nextID int
}

func NewCardFactory() *CardFactory {
	return &CardFactory{}
}

func (f *CardFactory) Reset() {
	f.nextID = 0
}

// NewCard fails on values outside the legal 0..13 range.
func (f *CardFactory) NewCard(value int) (*Card, error) {
	if value < 0 || value > 13 {
		return nil, fmt.Errorf("card value %d out of legal range 0..13", value)
	}
	c := &Card{
		ID:       f.nextID,
		Value:    value,
		Effect:   EffectForValue(value),
		Location: InDeck,
	}
	f.nextID++
	return c, nil
}

// cardAmounts is the fixed multiset of the game: values 0 and 13 ship
// two copies, everything else four.
var cardAmounts = map[int]int{
	0: 2, 1: 4, 2: 4, 3: 4, 4: 4, 5: 4, 6: 4,
	7: 4, 8: 4, 9: 4, 10: 4, 11: 4, 12: 4, 13: 2,
}

// TotalCards is the size of the full card multiset: 2 zeros, 2
// thirteens, and four copies of every value in between.
const TotalCards = 52

// NewCardSet builds the complete unshuffled multiset for one round.
func (f *CardFactory) NewCardSet() []*Card {
	cards := make([]*Card, 0, TotalCards)
	for value := 0; value <= 13; value++ {
		for i := 0; i < cardAmounts[value]; i++ {
			c, _ := f.NewCard(value)
			cards = append(cards, c)
		}
	}
	return cards
}
