// internal/game/player.go
package game

import (
	"fmt"

	"github.com/KoubaPetr/kabo/internal/models"
)

// Player is one seat at the table: an ordered hand, cumulative match
// score, per-round Kabo flag, and the bound Decider that supplies the
// seat's choices. Players persist across rounds within a match; the
// hand and Kabo flag reset every round, the matched-target flag only
// between matches.
type Player struct {
	ID   int
	Name string

	Hand []*models.Card

	GameScore      int
	LastRoundScore int
	MatchedTarget  bool
	CalledKabo     bool

	Decider models.Decider
}

func NewPlayer(id int, name string, decider models.Decider) *Player {
	return &Player{ID: id, Name: name, Decider: decider}
}

func (p *Player) String() string {
	return fmt.Sprintf("Player %s (id=%d)", p.Name, p.ID)
}

// ResetForRound clears everything a previous round may have changed.
func (p *Player) ResetForRound() {
	p.Hand = nil
	p.CalledKabo = false
	p.LastRoundScore = 0
}

// ResetForMatch clears the state that persists across rounds but not
// across matches.
func (p *Player) ResetForMatch() {
	p.GameScore = 0
	p.MatchedTarget = false
	p.ResetForRound()
}

// HandSum is the player's raw round score before Kabo or Kamikaze
// adjustments.
func (p *Player) HandSum() int {
	sum := 0
	for _, c := range p.Hand {
		sum += c.Value
	}
	return sum
}

// KnowsCard reports the player's knowledge of a card without regard to
// public visibility: own cards through KnownToOwner, foreign cards
// through prior spying.
func (p *Player) KnowsCard(c *models.Card) bool {
	for _, own := range p.Hand {
		if own == c {
			return c.KnownToOwner
		}
	}
	return c.SeenBy(p.ID)
}

// markCardKnown records that the owner has seen the card at the given
// hand position.
func (p *Player) markCardKnown(pos int) {
	c := p.Hand[pos]
	c.KnownToOwner = true
	c.MarkSeenBy(p.ID)
}

// OwnHandView is the hand as its owner sees it: values only for cards
// the owner knows or that are face up.
func (p *Player) OwnHandView() []models.CardView {
	view := make([]models.CardView, len(p.Hand))
	for i, c := range p.Hand {
		view[i] = models.CardView{Position: i, Public: c.PubliclyVisible}
		if c.KnownToOwner || c.PubliclyVisible {
			v := c.Value
			view[i].Value = &v
		}
	}
	return view
}

// handViewFor is the hand as a specific observer sees it: face-up
// cards plus instances the observer has previously spied.
func (p *Player) handViewFor(observerID int) []models.CardView {
	view := make([]models.CardView, len(p.Hand))
	for i, c := range p.Hand {
		view[i] = models.CardView{Position: i, Public: c.PubliclyVisible}
		if c.PubliclyVisible || c.SeenBy(observerID) {
			v := c.Value
			view[i].Value = &v
		}
	}
	return view
}

// opponentViews builds the spy/swap target descriptions offered to the
// acting player.
func opponentViews(actor *Player, opponents []*Player) []models.OpponentView {
	views := make([]models.OpponentView, len(opponents))
	for i, opp := range opponents {
		views[i] = models.OpponentView{
			PlayerID: opp.ID,
			Name:     opp.Name,
			HandSize: len(opp.Hand),
			Hand:     opp.handViewFor(actor.ID),
		}
	}
	return views
}

func findOpponent(opponents []*Player, id int) *Player {
	for _, opp := range opponents {
		if opp.ID == id {
			return opp
		}
	}
	return nil
}

// ResolvePeek handles the peek effect: the player picks exactly one own
// card, learns it, and nothing else changes.
func (p *Player) ResolvePeek() error {
	positions, err := p.Decider.ChoosePeekPositions(1, len(p.Hand))
	if err != nil {
		return &ParticipantLostError{Player: p.Name, Err: err}
	}
	if len(positions) == 0 {
		positions = []int{0}
	}
	if len(positions) != 1 {
		return &IllegalActionError{Player: p.Name, Call: "ChoosePeekPositions",
			Reason: fmt.Sprintf("expected 1 position, got %d", len(positions))}
	}
	pos := positions[0]
	if pos < 0 || pos >= len(p.Hand) {
		return &IllegalActionError{Player: p.Name, Call: "ChoosePeekPositions",
			Reason: fmt.Sprintf("position %d out of range for hand of size %d", pos, len(p.Hand))}
	}
	p.markCardKnown(pos)
	p.Decider.NotifyRevealedCard(p.Hand[pos].Value, models.EffectPeek)
	return nil
}

// ResolveSpy handles the spy effect: the player picks one opponent card
// and learns it. The opponent's own knowledge is unaffected.
func (p *Player) ResolveSpy(opponents []*Player) error {
	choice, err := p.Decider.ChooseSpyTarget(opponentViews(p, opponents))
	if err != nil {
		return &ParticipantLostError{Player: p.Name, Err: err}
	}
	target := findOpponent(opponents, choice.OpponentID)
	if target == nil {
		return &IllegalActionError{Player: p.Name, Call: "ChooseSpyTarget",
			Reason: fmt.Sprintf("no opponent with id %d", choice.OpponentID)}
	}
	if choice.Position < 0 || choice.Position >= len(target.Hand) {
		return &IllegalActionError{Player: p.Name, Call: "ChooseSpyTarget",
			Reason: fmt.Sprintf("position %d out of range for %s's hand of size %d",
				choice.Position, target.Name, len(target.Hand))}
	}
	spied := target.Hand[choice.Position]
	spied.MarkSeenBy(p.ID)
	p.Decider.NotifyRevealedCard(spied.Value, models.EffectSpy)
	return nil
}

// ResolveSwap handles the swap effect: the two card references change
// hands. Each card's owner knowledge is then recomputed as "has the new
// owner independently seen this exact instance before" -- spy knowledge
// survives the ownership change, the previous owner's knowledge does
// not transfer.
func (p *Player) ResolveSwap(opponents []*Player) error {
	choice, err := p.Decider.ChooseSwapTargets(p.OwnHandView(), opponentViews(p, opponents))
	if err != nil {
		return &ParticipantLostError{Player: p.Name, Err: err}
	}
	target := findOpponent(opponents, choice.OpponentID)
	if target == nil {
		return &IllegalActionError{Player: p.Name, Call: "ChooseSwapTargets",
			Reason: fmt.Sprintf("no opponent with id %d", choice.OpponentID)}
	}
	if choice.OwnPosition < 0 || choice.OwnPosition >= len(p.Hand) {
		return &IllegalActionError{Player: p.Name, Call: "ChooseSwapTargets",
			Reason: fmt.Sprintf("own position %d out of range for hand of size %d",
				choice.OwnPosition, len(p.Hand))}
	}
	if choice.OpponentPosition < 0 || choice.OpponentPosition >= len(target.Hand) {
		return &IllegalActionError{Player: p.Name, Call: "ChooseSwapTargets",
			Reason: fmt.Sprintf("opponent position %d out of range for %s's hand of size %d",
				choice.OpponentPosition, target.Name, len(target.Hand))}
	}

	own := p.Hand[choice.OwnPosition]
	theirs := target.Hand[choice.OpponentPosition]
	p.Hand[choice.OwnPosition], target.Hand[choice.OpponentPosition] = theirs, own

	theirs.KnownToOwner = theirs.SeenBy(p.ID)
	own.KnownToOwner = own.SeenBy(target.ID)
	return nil
}
