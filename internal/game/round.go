// internal/game/round.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/KoubaPetr/kabo/internal/models"
)

// Phase is the round's position in its state machine. Phases advance
// strictly forward; none is ever revisited.
type Phase int

const (
	PhaseDealt Phase = iota
	PhasePeeking
	PhasePlaying
	PhaseScoring
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseDealt:
		return "DEALT"
	case PhasePeeking:
		return "PEEKING"
	case PhasePlaying:
		return "PLAYING"
	case PhaseScoring:
		return "SCORING"
	default:
		return "DONE"
	}
}

// Round drives a single round: deal, initial peeks, the cyclic turn
// loop, and scoring. It owns the deck, the discard pile, and every
// card mutation; deciders only ever answer questions. The round runs
// strictly sequentially on the calling goroutine -- decider calls may
// block for as long as a human or network round-trip takes.
type Round struct {
	ID      int
	Players []*Player

	Deck    *Deck
	Discard *DiscardPile

	KaboCalled bool
	KaboCaller *Player

	// Kamikaze is the player whose hand triggered the scoring override,
	// if any.
	Kamikaze *Player

	phase Phase
	rng   *rand.Rand
	log   *logrus.Entry
}

// NewRound takes a fresh full card set; the previous round's
// arrangement is discarded, never reused. Players arrive already
// rotated so a different player opens each round.
func NewRound(id int, players []*Player, cards []*models.Card, rng *rand.Rand, log *logrus.Entry) *Round {
	for _, p := range players {
		p.ResetForRound()
	}
	return &Round{
		ID:      id,
		Players: players,
		Deck:    NewDeck(cards),
		Discard: NewDiscardPile(),
		phase:   PhaseDealt,
		rng:     rng,
		log:     log.WithField("round", id),
	}
}

func (r *Round) Phase() Phase {
	return r.phase
}

// Run plays the round to completion. Any returned error is fatal for
// the round: a lost participant, a decider contract violation from a
// non-interactive binding, or a broken engine invariant.
func (r *Round) Run() error {
	r.deal()
	r.phase = PhasePeeking
	if err := r.letPlayersPeek(); err != nil {
		return err
	}
	r.phase = PhasePlaying
	if err := r.playTurns(); err != nil {
		return err
	}
	r.phase = PhaseScoring
	r.score()
	r.phase = PhaseDone
	return nil
}

// deal shuffles the fresh deck, hands out CardsPerPlayer to each seat
// in rotation order, and opens the discard pile with one card that no
// player ever receives as part of dealing.
func (r *Round) deal() {
	r.Deck.Shuffle(r.rng)
	for _, p := range r.Players {
		p.Hand = make([]*models.Card, 0, CardsPerPlayer)
		for i := 0; i < CardsPerPlayer; i++ {
			c, _ := r.Deck.DrawTop()
			c.Location = models.InHand
			p.Hand = append(p.Hand, c)
		}
	}
	first, _ := r.Deck.DrawTop()
	r.Discard.Push(first)
	r.log.WithFields(logrus.Fields{
		"players": len(r.Players),
		"deck":    r.Deck.Len(),
	}).Debug("dealt round")
}

// letPlayersPeek asks every player for up to CardsToSeeAtStart own
// positions to look at; an empty answer defaults to the leftmost ones.
func (r *Round) letPlayersPeek() error {
	for _, p := range r.Players {
		positions, err := p.Decider.ChoosePeekPositions(CardsToSeeAtStart, len(p.Hand))
		if err != nil {
			return &ParticipantLostError{Player: p.Name, Err: err}
		}
		if len(positions) == 0 {
			for i := 0; i < CardsToSeeAtStart && i < len(p.Hand); i++ {
				positions = append(positions, i)
			}
		}
		if err := validatePositions(p, "ChoosePeekPositions", positions, len(p.Hand), CardsToSeeAtStart); err != nil {
			return err
		}
		for _, pos := range positions {
			p.markCardKnown(pos)
		}
		p.Decider.NotifyHandKnowledge(p.OwnHandView())
	}
	return nil
}

// playTurns cycles through the seats until the deck runs dry or the
// Kabo countdown reaches zero. The countdown starts at the player
// count and decrements once per turn beginning with the calling turn,
// so the caller gets no extra turn and everyone else exactly one.
func (r *Round) playTurns() error {
	countdown := len(r.Players)
	kaboActive := false

	for i := 0; ; i++ {
		if r.Deck.Len() == 0 {
			r.log.Debug("deck empty, round over")
			return nil
		}
		if kaboActive && countdown == 0 {
			r.log.Debug("kabo countdown finished, round over")
			return nil
		}

		p := r.Players[i%len(r.Players)]
		called, err := r.playTurn(p)
		if err != nil {
			return err
		}
		if called {
			kaboActive = true
		}
		if kaboActive {
			countdown--
		}

		if err := r.checkCardConservation(); err != nil {
			return err
		}
		p.Decider.NotifyHandKnowledge(p.OwnHandView())
	}
}

// playTurn runs one player's turn and reports whether they called Kabo.
func (r *Round) playTurn(p *Player) (bool, error) {
	legal := []models.TurnAction{models.ActionDrawDeck}
	if !r.KaboCalled {
		legal = append(legal, models.ActionCallKabo)
	}
	if r.Discard.Len() > 0 {
		legal = append(legal, models.ActionDrawDiscard)
	}

	action, err := p.Decider.ChooseTurnAction(r.turnView(p), legal)
	if err != nil {
		return false, &ParticipantLostError{Player: p.Name, Err: err}
	}

	switch action {
	case models.ActionCallKabo:
		if r.KaboCalled {
			return false, ErrKaboAlreadyCalled
		}
		r.KaboCalled = true
		r.KaboCaller = p
		p.CalledKabo = true
		r.log.WithField("player", p.Name).Info("kabo called")
		return true, nil

	case models.ActionDrawDeck:
		return false, r.drawFromDeck(p)

	case models.ActionDrawDiscard:
		if r.Discard.Len() == 0 {
			return false, &IllegalActionError{Player: p.Name, Call: "ChooseTurnAction",
				Reason: "discard pile is empty"}
		}
		card, err := r.Discard.PopTop()
		if err != nil {
			return false, err
		}
		// Cards taken from the discard pile never trigger effects and
		// are always implicitly kept; they stay face up in the hand.
		return false, r.keepDrawnCard(p, card, true)

	default:
		return false, &IllegalActionError{Player: p.Name, Call: "ChooseTurnAction",
			Reason: fmt.Sprintf("unknown action %q", action)}
	}
}

// drawFromDeck pops the deck and lets the player keep, discard, or play
// the card's effect.
func (r *Round) drawFromDeck(p *Player) error {
	card, err := r.Deck.DrawTop()
	if err != nil {
		return err
	}

	legal := []models.DrawDecision{models.DecisionKeep, models.DecisionDiscard}
	if card.Effect != models.EffectNone {
		legal = append(legal, models.DecisionUseEffect)
	}
	view := models.DrawnCardView{Value: card.Value, Effect: card.Effect, Hand: p.OwnHandView()}

	decision, err := p.Decider.DecideOnDrawnCard(view, legal)
	if err != nil {
		return &ParticipantLostError{Player: p.Name, Err: err}
	}

	switch decision {
	case models.DecisionDiscard:
		r.Discard.Push(card)
		return nil

	case models.DecisionUseEffect:
		if card.Effect == models.EffectNone {
			return &IllegalActionError{Player: p.Name, Call: "DecideOnDrawnCard",
				Reason: fmt.Sprintf("card %d has no effect", card.Value)}
		}
		r.Discard.Push(card)
		return r.resolveEffect(p, card.Effect)

	case models.DecisionKeep:
		return r.keepDrawnCard(p, card, false)

	default:
		return &IllegalActionError{Player: p.Name, Call: "DecideOnDrawnCard",
			Reason: fmt.Sprintf("unknown decision %q", decision)}
	}
}

func (r *Round) resolveEffect(p *Player, effect models.Effect) error {
	opponents := r.opponentsOf(p)
	switch effect {
	case models.EffectPeek:
		return p.ResolvePeek()
	case models.EffectSpy:
		return p.ResolveSpy(opponents)
	case models.EffectSwap:
		return p.ResolveSwap(opponents)
	}
	return nil
}

// keepDrawnCard runs the keep/exchange sub-protocol. The player names a
// set of own cards to give up; the engine checks the multi-exchange
// consistency rule itself (all selected cards share one value) no
// matter what the binding claims.
func (r *Round) keepDrawnCard(p *Player, card *models.Card, fromDiscard bool) error {
	card.Location = models.InHand
	card.KnownToOwner = true
	card.MarkSeenBy(p.ID)
	card.PubliclyVisible = fromDiscard

	view := models.DrawnCardView{Value: card.Value, Effect: card.Effect, Hand: p.OwnHandView()}
	positions, err := p.Decider.ChooseCardsToExchange(view)
	if err != nil {
		return &ParticipantLostError{Player: p.Name, Err: err}
	}
	if len(positions) == 0 {
		return &IllegalActionError{Player: p.Name, Call: "ChooseCardsToExchange",
			Reason: "no cards selected for exchange"}
	}
	if err := validatePositions(p, "ChooseCardsToExchange", positions, len(p.Hand), len(positions)); err != nil {
		return err
	}

	if r.exchangeConsistent(p, positions) {
		return r.performExchange(p, positions, card)
	}
	r.failMultiExchange(p, positions, card)
	return nil
}

// exchangeConsistent reports whether every selected card shares the
// same value.
func (r *Round) exchangeConsistent(p *Player, positions []int) bool {
	first := p.Hand[positions[0]].Value
	for _, pos := range positions[1:] {
		if p.Hand[pos].Value != first {
			return false
		}
	}
	return true
}

// performExchange discards the selected cards, then offers the vacated
// slots for the drawn card. Declining discards the drawn card instead.
// Holes exist only inside this method; the hand is compacted before it
// returns, preserving the relative order of the remaining cards.
func (r *Round) performExchange(p *Player, positions []int, card *models.Card) error {
	free := make([]int, 0, len(positions))
	for _, pos := range positions {
		r.Discard.Push(p.Hand[pos])
		p.Hand[pos] = nil
		free = append(free, pos)
	}

	choice, err := p.Decider.ChoosePositionForNewCard(free)
	if err != nil {
		return &ParticipantLostError{Player: p.Name, Err: err}
	}
	if choice == models.PositionDecline {
		r.Discard.Push(card)
	} else {
		placed := false
		for _, pos := range free {
			if pos == choice {
				placed = true
				break
			}
		}
		if !placed {
			return &IllegalActionError{Player: p.Name, Call: "ChoosePositionForNewCard",
				Reason: fmt.Sprintf("position %d is not a freed slot", choice)}
		}
		p.Hand[choice] = card
	}

	compact := p.Hand[:0]
	for _, c := range p.Hand {
		if c != nil {
			compact = append(compact, c)
		}
	}
	p.Hand = compact
	return nil
}

// failMultiExchange applies the failed-exchange penalty: the attempted
// cards turn face up in place (the player is penalized, not robbed),
// the drawn card joins the end of the hand, and attempting three or
// more cards costs one extra face-down card from the deck.
func (r *Round) failMultiExchange(p *Player, positions []int, card *models.Card) {
	for _, pos := range positions {
		p.Hand[pos].PubliclyVisible = true
	}
	p.Hand = append(p.Hand, card)

	if len(positions) >= MultiExchangePenaltyThreshold && r.Deck.Len() > 0 {
		penalty, _ := r.Deck.DrawTop()
		penalty.Location = models.InHand
		p.Hand = append(p.Hand, penalty)
	}
	r.log.WithFields(logrus.Fields{
		"player":    p.Name,
		"attempted": len(positions),
	}).Info("multi-exchange failed")
}

// score computes and applies every player's round score. Kamikaze
// overrides Kabo scoring for the whole round; otherwise a Kabo caller
// scores zero when no other hand beats theirs (ties succeed) and their
// hand sum plus the malus when one does.
func (r *Round) score() {
	r.Kamikaze = r.kamikazePlayer()

	if r.Kamikaze != nil {
		for _, p := range r.Players {
			if p == r.Kamikaze {
				p.LastRoundScore = 0
			} else {
				p.LastRoundScore = KamikazePenalty
			}
		}
	} else {
		for _, p := range r.Players {
			sum := p.HandSum()
			if !p.CalledKabo {
				p.LastRoundScore = sum
				continue
			}
			minOthers := -1
			for _, other := range r.Players {
				if other == p {
					continue
				}
				if s := other.HandSum(); minOthers < 0 || s < minOthers {
					minOthers = s
				}
			}
			if sum <= minOthers {
				p.LastRoundScore = 0
			} else {
				p.LastRoundScore = sum + KaboMalus
			}
		}
	}

	summary := models.RoundSummary{
		Round:       r.ID,
		RoundScores: make(map[string]int, len(r.Players)),
		GameScores:  make(map[string]int, len(r.Players)),
	}
	if r.KaboCaller != nil {
		summary.KaboCaller = r.KaboCaller.Name
	}
	if r.Kamikaze != nil {
		summary.Kamikaze = r.Kamikaze.Name
	}
	for _, p := range r.Players {
		p.GameScore += p.LastRoundScore
		summary.RoundScores[p.Name] = p.LastRoundScore
		summary.GameScores[p.Name] = p.GameScore
	}
	for _, p := range r.Players {
		p.Decider.NotifyRoundResult(summary)
	}
	r.log.WithField("scores", summary.RoundScores).Info("round scored")
}

// kamikazePlayer finds a hand matching the Kamikaze pattern, if any.
func (r *Round) kamikazePlayer() *Player {
	for _, p := range r.Players {
		if len(p.Hand) != KamikazeHandSize {
			continue
		}
		counts := make(map[int]int)
		for _, c := range p.Hand {
			counts[c.Value]++
		}
		matched := true
		for value, needed := range kamikazeValues {
			if counts[value] < needed {
				matched = false
				break
			}
		}
		if matched {
			return p
		}
	}
	return nil
}

func (r *Round) opponentsOf(p *Player) []*Player {
	opponents := make([]*Player, 0, len(r.Players)-1)
	for _, other := range r.Players {
		if other != p {
			opponents = append(opponents, other)
		}
	}
	return opponents
}

func (r *Round) turnView(p *Player) models.TurnView {
	view := models.TurnView{
		Hand:        p.OwnHandView(),
		DeckSize:    r.Deck.Len(),
		DiscardSize: r.Discard.Len(),
		KaboCalled:  r.KaboCalled,
	}
	if top := r.Discard.Top(); top != nil {
		v := top.Value
		view.DiscardTop = &v
	}
	return view
}

// checkCardConservation verifies that no card leaked or duplicated:
// deck + hands + discard always equals the full card set outside a
// single draw-decide transaction.
func (r *Round) checkCardConservation() error {
	total := r.Deck.Len() + r.Discard.Len()
	for _, p := range r.Players {
		total += len(p.Hand)
	}
	if total != models.TotalCards {
		return fmt.Errorf("card conservation broken: %d cards accounted for, want %d",
			total, models.TotalCards)
	}
	return nil
}

// validatePositions checks a decider-returned position set: in range,
// distinct, and at most maxLen entries.
func validatePositions(p *Player, call string, positions []int, handSize, maxLen int) error {
	if len(positions) > maxLen {
		return &IllegalActionError{Player: p.Name, Call: call,
			Reason: fmt.Sprintf("%d positions selected, at most %d allowed", len(positions), maxLen)}
	}
	seen := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= handSize {
			return &IllegalActionError{Player: p.Name, Call: call,
				Reason: fmt.Sprintf("position %d out of range for hand of size %d", pos, handSize)}
		}
		if seen[pos] {
			return &IllegalActionError{Player: p.Name, Call: call,
				Reason: fmt.Sprintf("position %d selected twice", pos)}
		}
		seen[pos] = true
	}
	return nil
}
