// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/KoubaPetr/kabo/internal/models"
)

// Deck is the face-down main deck. The top of the stack is the last
// element of the slice.
type Deck struct {
	cards []*models.Card
}

func NewDeck(cards []*models.Card) *Deck {
	for _, c := range cards {
		c.Location = models.InDeck
	}
	return &Deck{cards: cards}
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Shuffle permutes the deck in place.
func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// DrawTop removes and returns the top card. Callers are expected to
// check Len first; an empty draw is an engine invariant violation.
func (d *Deck) DrawTop() (*models.Card, error) {
	if len(d.cards) == 0 {
		return nil, ErrEmptyDeck
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// DiscardPile is the face-up discard stack; the top card is publicly
// visible to everyone, spectators included.
type DiscardPile struct {
	cards []*models.Card
}

func NewDiscardPile() *DiscardPile {
	return &DiscardPile{}
}

func (p *DiscardPile) Len() int {
	return len(p.cards)
}

// Push places a card on top, face up.
func (p *DiscardPile) Push(c *models.Card) {
	c.Location = models.InDiscard
	c.PubliclyVisible = true
	p.cards = append(p.cards, c)
}

// Top peeks at the top card without removing it, or nil when empty.
func (p *DiscardPile) Top() *models.Card {
	if len(p.cards) == 0 {
		return nil
	}
	return p.cards[len(p.cards)-1]
}

// PopTop removes and returns the top card. Used only when a player
// draws from the discard pile, which the engine offers only while the
// pile is non-empty.
func (p *DiscardPile) PopTop() (*models.Card, error) {
	if len(p.cards) == 0 {
		return nil, ErrEmptyDeck
	}
	c := p.cards[len(p.cards)-1]
	p.cards = p.cards[:len(p.cards)-1]
	return c, nil
}
