// internal/bot/greedy.go
package bot

import (
	"math/rand"
	"time"

	"github.com/KoubaPetr/kabo/internal/models"
)

// kaboThreshold is the estimated hand sum at or below which the bot
// calls Kabo.
const kaboThreshold = 5

// unknownCardEstimate stands in for the value of a card the bot has
// never seen; it is roughly the mean of the deck.
const unknownCardEstimate = 6.0

// Greedy is a baseline strategy: track what it has seen, call Kabo on
// a low estimated hand, keep low draws in place of the highest known
// card, and always play effects. It holds no state beyond the latest
// hand view, so one instance serves one seat for a whole match.
type Greedy struct {
	rng  *rand.Rand
	hand []models.CardView
}

// NewGreedy builds a bot decider. A nil rng seeds one from the clock.
func NewGreedy(rng *rand.Rand) *Greedy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Greedy{rng: rng}
}

func (g *Greedy) estimatedHandSum() float64 {
	total := 0.0
	for _, c := range g.hand {
		if c.Value != nil {
			total += float64(*c.Value)
		} else {
			total += unknownCardEstimate
		}
	}
	return total
}

// highestKnownPosition returns the position of the highest card the
// bot knows, or -1 when the whole hand is dark.
func (g *Greedy) highestKnownPosition() int {
	best, bestValue := -1, -1
	for i, c := range g.hand {
		if c.Value != nil && *c.Value > bestValue {
			best, bestValue = i, *c.Value
		}
	}
	return best
}

func contains(actions []models.TurnAction, a models.TurnAction) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

func (g *Greedy) ChooseTurnAction(view models.TurnView, legal []models.TurnAction) (models.TurnAction, error) {
	g.hand = view.Hand

	if g.estimatedHandSum() <= kaboThreshold && contains(legal, models.ActionCallKabo) {
		return models.ActionCallKabo, nil
	}

	// A low exposed discard beats a known high card in hand.
	if view.DiscardTop != nil && contains(legal, models.ActionDrawDiscard) {
		if best := g.highestKnownPosition(); best >= 0 {
			if *view.DiscardTop < *g.hand[best].Value && *view.DiscardTop <= 4 {
				return models.ActionDrawDiscard, nil
			}
		}
	}
	return models.ActionDrawDeck, nil
}

func (g *Greedy) DecideOnDrawnCard(view models.DrawnCardView, legal []models.DrawDecision) (models.DrawDecision, error) {
	g.hand = view.Hand

	for _, d := range legal {
		if d == models.DecisionUseEffect {
			return models.DecisionUseEffect, nil
		}
	}

	knownSum, knownCount := 0, 0
	for _, c := range g.hand {
		if c.Value != nil {
			knownSum += *c.Value
			knownCount++
		}
	}
	if knownCount > 0 && float64(view.Value) < float64(knownSum)/float64(knownCount) {
		return models.DecisionKeep, nil
	}
	if view.Value <= 3 {
		return models.DecisionKeep, nil
	}
	return models.DecisionDiscard, nil
}

func (g *Greedy) ChooseCardsToExchange(view models.DrawnCardView) ([]int, error) {
	g.hand = view.Hand
	if best := g.highestKnownPosition(); best >= 0 {
		return []int{best}, nil
	}
	return []int{g.rng.Intn(len(g.hand))}, nil
}

func (g *Greedy) ChoosePositionForNewCard(free []int) (int, error) {
	return free[0], nil
}

// ChoosePeekPositions prefers positions the bot has not seen yet.
func (g *Greedy) ChoosePeekPositions(n, handSize int) ([]int, error) {
	positions := make([]int, 0, n)
	for i := 0; i < handSize && len(positions) < n; i++ {
		if i >= len(g.hand) || g.hand[i].Value == nil {
			positions = append(positions, i)
		}
	}
	for i := 0; i < handSize && len(positions) < n; i++ {
		picked := false
		for _, p := range positions {
			if p == i {
				picked = true
				break
			}
		}
		if !picked {
			positions = append(positions, i)
		}
	}
	return positions, nil
}

// pickOpponentWithCards draws a random opponent that still holds
// cards. A whole-hand exchange can leave an opponent with an empty
// hand, which offers nothing to spy or swap.
func (g *Greedy) pickOpponentWithCards(opponents []models.OpponentView) (models.OpponentView, bool) {
	withCards := make([]models.OpponentView, 0, len(opponents))
	for _, o := range opponents {
		if len(o.Hand) > 0 {
			withCards = append(withCards, o)
		}
	}
	if len(withCards) == 0 {
		return models.OpponentView{}, false
	}
	return withCards[g.rng.Intn(len(withCards))], true
}

// ChooseSpyTarget spies a random opponent card the bot has not already
// seen, falling back to any position.
func (g *Greedy) ChooseSpyTarget(opponents []models.OpponentView) (models.SpyChoice, error) {
	opp, ok := g.pickOpponentWithCards(opponents)
	if !ok {
		return models.SpyChoice{OpponentID: opponents[0].PlayerID}, nil
	}

	unknown := make([]int, 0, len(opp.Hand))
	for i, c := range opp.Hand {
		if c.Value == nil && !c.Public {
			unknown = append(unknown, i)
		}
	}
	pos := g.rng.Intn(len(opp.Hand))
	if len(unknown) > 0 {
		pos = unknown[g.rng.Intn(len(unknown))]
	}
	return models.SpyChoice{OpponentID: opp.PlayerID, Position: pos}, nil
}

// ChooseSwapTargets pushes the bot's highest known card onto a random
// opponent in exchange for a random card of theirs.
func (g *Greedy) ChooseSwapTargets(hand []models.CardView, opponents []models.OpponentView) (models.SwapChoice, error) {
	g.hand = hand
	own := g.highestKnownPosition()
	if own < 0 && len(hand) > 0 {
		own = g.rng.Intn(len(hand))
	}
	if own < 0 {
		own = 0
	}
	opp, ok := g.pickOpponentWithCards(opponents)
	if !ok {
		return models.SwapChoice{OwnPosition: own, OpponentID: opponents[0].PlayerID}, nil
	}
	return models.SwapChoice{
		OwnPosition:      own,
		OpponentID:       opp.PlayerID,
		OpponentPosition: g.rng.Intn(len(opp.Hand)),
	}, nil
}

func (g *Greedy) NotifyHandKnowledge(hand []models.CardView) {
	g.hand = hand
}

func (g *Greedy) NotifyRevealedCard(int, models.Effect) {}

func (g *Greedy) NotifyRoundResult(models.RoundSummary) {}
