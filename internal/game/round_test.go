// internal/game/round_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KoubaPetr/kabo/internal/models"
)

// scriptedDecider replays canned answers and falls back to safe
// defaults (draw from deck, discard the draw) once a script runs out.
type scriptedDecider struct {
	turnActions   []models.TurnAction
	drawDecisions []models.DrawDecision
	exchanges     [][]int
	newPositions  []int
	peeks         [][]int
	spies         []models.SpyChoice
	swaps         []models.SwapChoice

	turnCalls int
	revealed  []int
	summaries []models.RoundSummary
}

func (d *scriptedDecider) ChooseTurnAction(_ models.TurnView, _ []models.TurnAction) (models.TurnAction, error) {
	d.turnCalls++
	if len(d.turnActions) > 0 {
		a := d.turnActions[0]
		d.turnActions = d.turnActions[1:]
		return a, nil
	}
	return models.ActionDrawDeck, nil
}

func (d *scriptedDecider) DecideOnDrawnCard(_ models.DrawnCardView, _ []models.DrawDecision) (models.DrawDecision, error) {
	if len(d.drawDecisions) > 0 {
		dec := d.drawDecisions[0]
		d.drawDecisions = d.drawDecisions[1:]
		return dec, nil
	}
	return models.DecisionDiscard, nil
}

func (d *scriptedDecider) ChooseCardsToExchange(_ models.DrawnCardView) ([]int, error) {
	if len(d.exchanges) > 0 {
		e := d.exchanges[0]
		d.exchanges = d.exchanges[1:]
		return e, nil
	}
	return []int{0}, nil
}

func (d *scriptedDecider) ChoosePositionForNewCard(free []int) (int, error) {
	if len(d.newPositions) > 0 {
		p := d.newPositions[0]
		d.newPositions = d.newPositions[1:]
		return p, nil
	}
	return free[0], nil
}

func (d *scriptedDecider) ChoosePeekPositions(_, _ int) ([]int, error) {
	if len(d.peeks) > 0 {
		p := d.peeks[0]
		d.peeks = d.peeks[1:]
		return p, nil
	}
	return nil, nil
}

func (d *scriptedDecider) ChooseSpyTarget(_ []models.OpponentView) (models.SpyChoice, error) {
	if len(d.spies) > 0 {
		s := d.spies[0]
		d.spies = d.spies[1:]
		return s, nil
	}
	return models.SpyChoice{}, nil
}

func (d *scriptedDecider) ChooseSwapTargets(_ []models.CardView, _ []models.OpponentView) (models.SwapChoice, error) {
	if len(d.swaps) > 0 {
		s := d.swaps[0]
		d.swaps = d.swaps[1:]
		return s, nil
	}
	return models.SwapChoice{}, nil
}

func (d *scriptedDecider) NotifyHandKnowledge(_ []models.CardView) {}

func (d *scriptedDecider) NotifyRevealedCard(value int, _ models.Effect) {
	d.revealed = append(d.revealed, value)
}

func (d *scriptedDecider) NotifyRoundResult(summary models.RoundSummary) {
	d.summaries = append(d.summaries, summary)
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func newTestRound(t *testing.T, numPlayers int) (*Round, []*scriptedDecider) {
	t.Helper()
	deciders := make([]*scriptedDecider, numPlayers)
	players := make([]*Player, numPlayers)
	names := []string{"ALICE", "BOB", "CAROL", "DAVE"}
	for i := 0; i < numPlayers; i++ {
		deciders[i] = &scriptedDecider{}
		players[i] = NewPlayer(i, names[i], deciders[i])
	}
	factory := models.NewCardFactory()
	r := NewRound(0, players, factory.NewCardSet(), rand.New(rand.NewSource(42)), testLogger())
	return r, deciders
}

// cardWithValue pulls a card of the wanted value out of a fresh set.
func cardWithValue(t *testing.T, factory *models.CardFactory, value int) *models.Card {
	t.Helper()
	c, err := factory.NewCard(value)
	require.NoError(t, err)
	c.Location = models.InHand
	return c
}

func setHand(t *testing.T, factory *models.CardFactory, p *Player, values ...int) {
	t.Helper()
	p.Hand = nil
	for _, v := range values {
		p.Hand = append(p.Hand, cardWithValue(t, factory, v))
	}
}

func TestDealCounts(t *testing.T) {
	for _, numPlayers := range []int{2, 3, 4} {
		r, _ := newTestRound(t, numPlayers)
		r.deal()

		assert.Equal(t, 1, r.Discard.Len())
		assert.Equal(t, models.TotalCards-CardsPerPlayer*numPlayers-1, r.Deck.Len())
		for _, p := range r.Players {
			assert.Len(t, p.Hand, CardsPerPlayer)
		}
		assert.True(t, r.Discard.Top().PubliclyVisible)
	}
}

func TestPeekDefaultsToLeftmost(t *testing.T) {
	r, _ := newTestRound(t, 2)
	r.deal()
	require.NoError(t, r.letPlayersPeek())

	for _, p := range r.Players {
		assert.True(t, p.Hand[0].KnownToOwner)
		assert.True(t, p.Hand[1].KnownToOwner)
		assert.False(t, p.Hand[2].KnownToOwner)
		assert.False(t, p.Hand[3].KnownToOwner)
	}
}

func TestFullRoundConservesCards(t *testing.T) {
	r, _ := newTestRound(t, 3)
	require.NoError(t, r.Run())
	require.Equal(t, PhaseDone, r.Phase())

	// Everyone discarded every draw, so the deck ran dry.
	assert.Equal(t, 0, r.Deck.Len())
	assert.NoError(t, r.checkCardConservation())
}

func TestKaboCountdownGivesOthersOneTurn(t *testing.T) {
	r, deciders := newTestRound(t, 3)
	deciders[0].turnActions = []models.TurnAction{models.ActionCallKabo}

	require.NoError(t, r.Run())

	assert.Equal(t, 1, deciders[0].turnCalls, "caller gets no extra turn")
	assert.Equal(t, 1, deciders[1].turnCalls)
	assert.Equal(t, 1, deciders[2].turnCalls)
	assert.True(t, r.KaboCalled)
	assert.Equal(t, r.Players[0], r.KaboCaller)
	assert.True(t, r.Players[0].CalledKabo)
}

func TestDuplicateKaboIsEngineError(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	deciders[0].turnActions = []models.TurnAction{models.ActionCallKabo}
	deciders[1].turnActions = []models.TurnAction{models.ActionCallKabo}

	err := r.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKaboAlreadyCalled)
}

func TestDrawDiscardStaysPublicInHand(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	deciders[0].turnActions = []models.TurnAction{models.ActionDrawDiscard}
	deciders[0].exchanges = [][]int{{0}}
	r.deal()
	require.NoError(t, r.letPlayersPeek())

	top := r.Discard.Top()
	_, err := r.playTurn(r.Players[0])
	require.NoError(t, err)

	assert.Contains(t, r.Players[0].Hand, top)
	assert.True(t, top.PubliclyVisible, "discard draws stay face up in hand")
	assert.True(t, top.KnownToOwner)
	assert.Equal(t, models.InHand, top.Location)
}

func TestKeptDeckCardBecomesPrivate(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	deciders[0].drawDecisions = []models.DrawDecision{models.DecisionKeep}
	deciders[0].exchanges = [][]int{{2}}
	r.deal()
	require.NoError(t, r.letPlayersPeek())

	p := r.Players[0]
	err := r.drawFromDeck(p)
	require.NoError(t, err)

	assert.Len(t, p.Hand, CardsPerPlayer)
	kept := p.Hand[2]
	assert.False(t, kept.PubliclyVisible)
	assert.True(t, kept.KnownToOwner)
}

func TestExchangeDeclineDiscardsDrawnCard(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	deciders[0].drawDecisions = []models.DrawDecision{models.DecisionKeep}
	deciders[0].exchanges = [][]int{{1}}
	deciders[0].newPositions = []int{models.PositionDecline}
	r.deal()
	require.NoError(t, r.letPlayersPeek())

	p := r.Players[0]
	err := r.drawFromDeck(p)
	require.NoError(t, err)

	assert.Len(t, p.Hand, CardsPerPlayer-1, "hand compacts after declining")
	assert.NoError(t, r.checkCardConservation())
}

func TestFailedMultiExchangePenalty(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	r.deal()
	require.NoError(t, r.letPlayersPeek())

	factory := models.NewCardFactory()
	p := r.Players[0]
	// Mismatched values make any multi-selection inconsistent. Replace
	// the dealt hand with a known one, and restore the card count by
	// returning the dealt cards to the discard pile.
	for _, c := range p.Hand {
		r.Discard.Push(c)
	}
	setHand(t, factory, p, 3, 5, 9, 11)
	drawn := cardWithValue(t, factory, 2)
	// The five swapped-in cards put the table over the full set; drop
	// as many from the deck so the totals stay balanced.
	for i := 0; i < 5; i++ {
		_, err := r.Deck.DrawTop()
		require.NoError(t, err)
	}

	deckBefore := r.Deck.Len()
	deciders[0].exchanges = [][]int{{0, 1, 2}}

	require.NoError(t, r.keepDrawnCard(p, drawn, false))

	assert.Len(t, p.Hand, 6, "hand grows by drawn card plus penalty card")
	assert.True(t, p.Hand[0].PubliclyVisible)
	assert.True(t, p.Hand[1].PubliclyVisible)
	assert.True(t, p.Hand[2].PubliclyVisible)
	assert.False(t, p.Hand[3].PubliclyVisible, "untouched card stays hidden")
	assert.Equal(t, drawn, p.Hand[4])
	assert.False(t, p.Hand[5].KnownToOwner, "penalty card is face down and unknown")
	assert.Equal(t, deckBefore-1, r.Deck.Len())
}

func TestFailedTwoCardExchangeHasNoPenaltyDraw(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	r.deal()
	require.NoError(t, r.letPlayersPeek())

	factory := models.NewCardFactory()
	p := r.Players[0]
	setHand(t, factory, p, 3, 5, 9, 11)
	drawn := cardWithValue(t, factory, 2)

	deckBefore := r.Deck.Len()
	deciders[0].exchanges = [][]int{{0, 1}}

	require.NoError(t, r.keepDrawnCard(p, drawn, false))

	assert.Len(t, p.Hand, 5, "only the drawn card is appended")
	assert.Equal(t, deckBefore, r.Deck.Len())
}

func TestOutOfRangeExchangeIsIllegal(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	deciders[0].drawDecisions = []models.DrawDecision{models.DecisionKeep}
	deciders[0].exchanges = [][]int{{7}}
	r.deal()
	require.NoError(t, r.letPlayersPeek())

	err := r.drawFromDeck(r.Players[0])
	require.Error(t, err)
	var illegal *IllegalActionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "ChooseCardsToExchange", illegal.Call)
}

func TestPeekEffectMarksCardKnown(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	r.deal()
	p := r.Players[0]
	deciders[0].peeks = [][]int{{3}}

	require.NoError(t, p.ResolvePeek())

	assert.True(t, p.Hand[3].KnownToOwner)
	require.Len(t, deciders[0].revealed, 1)
	assert.Equal(t, p.Hand[3].Value, deciders[0].revealed[0])
}

func TestSpyEffectLeavesOwnerKnowledgeAlone(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	r.deal()
	spy, target := r.Players[0], r.Players[1]
	deciders[0].spies = []models.SpyChoice{{OpponentID: target.ID, Position: 2}}

	require.NoError(t, spy.ResolveSpy(r.opponentsOf(spy)))

	spied := target.Hand[2]
	assert.True(t, spied.SeenBy(spy.ID))
	assert.False(t, spied.KnownToOwner)
	require.Len(t, deciders[0].revealed, 1)
	assert.Equal(t, spied.Value, deciders[0].revealed[0])
}

func TestSwapKnowledgeRecompute(t *testing.T) {
	r, deciders := newTestRound(t, 3)
	r.deal()
	a, b, dThird := r.Players[0], r.Players[1], r.Players[2]

	// B spied A's card at position 1.
	spied := a.Hand[1]
	spied.MarkSeenBy(b.ID)

	// B swaps their position 0 card for A's spied card.
	deciders[1].swaps = []models.SwapChoice{{OwnPosition: 0, OpponentID: a.ID, OpponentPosition: 1}}
	given := b.Hand[0]
	require.NoError(t, b.ResolveSwap(r.opponentsOf(b)))

	assert.Equal(t, spied, b.Hand[0], "card identity is preserved across the swap")
	assert.True(t, spied.KnownToOwner, "new owner spied this instance before")
	assert.False(t, given.KnownToOwner, "A never saw the card B gave up")
	assert.Equal(t, given, a.Hand[1])
	assert.Len(t, a.Hand, CardsPerPlayer)
	assert.Len(t, b.Hand, CardsPerPlayer)

	// Swapping an unspied card to a third player leaves it unknown.
	deciders[2].swaps = []models.SwapChoice{{OwnPosition: 2, OpponentID: a.ID, OpponentPosition: 0}}
	taken := a.Hand[0]
	require.NoError(t, dThird.ResolveSwap(r.opponentsOf(dThird)))
	assert.Equal(t, taken, dThird.Hand[2])
	assert.False(t, taken.KnownToOwner)
}

func TestSpyKnowledgeSurvivesSwap(t *testing.T) {
	r, deciders := newTestRound(t, 3)
	r.deal()
	a, b, c := r.Players[0], r.Players[1], r.Players[2]

	spied := a.Hand[0]
	spied.MarkSeenBy(c.ID)

	// A card spied by C moves from A to B; C's spy knowledge persists.
	deciders[1].swaps = []models.SwapChoice{{OwnPosition: 0, OpponentID: a.ID, OpponentPosition: 0}}
	require.NoError(t, b.ResolveSwap(r.opponentsOf(b)))

	assert.True(t, spied.SeenBy(c.ID))
	assert.True(t, c.KnowsCard(spied))
}

func TestKamikazeOverridesKabo(t *testing.T) {
	r, _ := newTestRound(t, 3)
	factory := models.NewCardFactory()
	setHand(t, factory, r.Players[0], 12, 12, 13, 13)
	setHand(t, factory, r.Players[1], 1, 1, 1, 1)
	setHand(t, factory, r.Players[2], 0, 0, 1, 2)
	r.Players[1].CalledKabo = true
	r.KaboCalled = true
	r.KaboCaller = r.Players[1]

	r.score()

	assert.Equal(t, r.Players[0], r.Kamikaze)
	assert.Equal(t, 0, r.Players[0].LastRoundScore)
	assert.Equal(t, KamikazePenalty, r.Players[1].LastRoundScore)
	assert.Equal(t, KamikazePenalty, r.Players[2].LastRoundScore)
}

func TestKamikazeNeedsExactPattern(t *testing.T) {
	r, _ := newTestRound(t, 2)
	factory := models.NewCardFactory()
	setHand(t, factory, r.Players[0], 12, 12, 13, 1)
	setHand(t, factory, r.Players[1], 5, 5, 5, 5)

	r.score()

	assert.Nil(t, r.Kamikaze)
	assert.Equal(t, 38, r.Players[0].LastRoundScore)
}

func TestKaboSuccess(t *testing.T) {
	r, _ := newTestRound(t, 2)
	factory := models.NewCardFactory()
	setHand(t, factory, r.Players[0], 1, 2)
	setHand(t, factory, r.Players[1], 5, 5)
	r.Players[0].CalledKabo = true

	r.score()

	assert.Equal(t, 0, r.Players[0].LastRoundScore)
	assert.Equal(t, 10, r.Players[1].LastRoundScore)
}

func TestKaboFailure(t *testing.T) {
	r, _ := newTestRound(t, 2)
	factory := models.NewCardFactory()
	setHand(t, factory, r.Players[0], 9, 9)
	setHand(t, factory, r.Players[1], 1, 1)
	r.Players[0].CalledKabo = true

	r.score()

	assert.Equal(t, 18+KaboMalus, r.Players[0].LastRoundScore)
	assert.Equal(t, 2, r.Players[1].LastRoundScore)
}

func TestKaboTieCountsAsSuccess(t *testing.T) {
	r, _ := newTestRound(t, 2)
	factory := models.NewCardFactory()
	setHand(t, factory, r.Players[0], 3, 4)
	setHand(t, factory, r.Players[1], 3, 4)
	r.Players[0].CalledKabo = true

	r.score()

	assert.Equal(t, 0, r.Players[0].LastRoundScore)
	assert.Equal(t, 7, r.Players[1].LastRoundScore)
}

func TestRoundSummaryReachesEveryPlayer(t *testing.T) {
	r, deciders := newTestRound(t, 2)
	require.NoError(t, r.Run())

	for _, d := range deciders {
		require.Len(t, d.summaries, 1)
		assert.Len(t, d.summaries[0].RoundScores, 2)
	}
}
