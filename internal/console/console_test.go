// internal/console/console_test.go
package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KoubaPetr/kabo/internal/models"
)

func newConsole(input string) (*Player, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewPlayer("ALICE", strings.NewReader(input), out), out
}

func TestTurnActionRepromptsOnGarbage(t *testing.T) {
	p, out := newConsole("banana\ncall_kabo\n")

	action, err := p.ChooseTurnAction(models.TurnView{}, []models.TurnAction{models.ActionDrawDeck, models.ActionCallKabo})
	require.NoError(t, err)
	assert.Equal(t, models.ActionCallKabo, action, "input is case insensitive")
	assert.Contains(t, out.String(), `Unknown play "banana"`)
}

func TestExchangeRejectsOutOfRangeThenAccepts(t *testing.T) {
	v := 9
	hand := []models.CardView{{Position: 0, Value: &v}, {Position: 1}}
	p, out := newConsole("5\n0 1\n")

	positions, err := p.ChooseCardsToExchange(models.DrawnCardView{Value: 2, Hand: hand})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, positions)
	assert.Contains(t, out.String(), "out of range")
}

func TestExchangeRequiresASelection(t *testing.T) {
	hand := []models.CardView{{Position: 0}, {Position: 1}}
	p, out := newConsole("\n1\n")

	positions, err := p.ChooseCardsToExchange(models.DrawnCardView{Value: 4, Hand: hand})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, positions)
	assert.Contains(t, out.String(), "at least one")
}

func TestPeekAllowsEmptyAnswer(t *testing.T) {
	p, _ := newConsole("\n")

	positions, err := p.ChoosePeekPositions(2, 4)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestSingleFreeSlotSkipsThePrompt(t *testing.T) {
	p, out := newConsole("")

	pos, err := p.ChoosePositionForNewCard([]int{2})
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
	assert.Empty(t, out.String())
}

func TestDeclinePlacingTheCard(t *testing.T) {
	p, _ := newConsole("-1\n")

	pos, err := p.ChoosePositionForNewCard([]int{0, 3})
	require.NoError(t, err)
	assert.Equal(t, models.PositionDecline, pos)
}

func TestSpySkipsOpponentPromptWhenAlone(t *testing.T) {
	p, out := newConsole("2\n")
	opponents := []models.OpponentView{{PlayerID: 7, Name: "BOB", HandSize: 4}}

	choice, err := p.ChooseSpyTarget(opponents)
	require.NoError(t, err)
	assert.Equal(t, models.SpyChoice{OpponentID: 7, Position: 2}, choice)
	assert.NotContains(t, out.String(), "Pick an opponent")
}

func TestSwapPicksOpponentByName(t *testing.T) {
	hand := []models.CardView{{Position: 0}, {Position: 1}}
	opponents := []models.OpponentView{
		{PlayerID: 1, Name: "BOB", HandSize: 4},
		{PlayerID: 2, Name: "CAROL", HandSize: 3},
	}
	p, _ := newConsole("1\ncarol\n0\n")

	choice, err := p.ChooseSwapTargets(hand, opponents)
	require.NoError(t, err)
	assert.Equal(t, models.SwapChoice{OwnPosition: 1, OpponentID: 2, OpponentPosition: 0}, choice)
}

func TestClosedInputIsAnError(t *testing.T) {
	p, _ := newConsole("")

	_, err := p.ChooseTurnAction(models.TurnView{}, []models.TurnAction{models.ActionDrawDeck})
	assert.Error(t, err)
}

func TestHandFormattingMarksVisibility(t *testing.T) {
	v3, v8 := 3, 8
	hand := []models.CardView{
		{Position: 0, Value: &v3},
		{Position: 1},
		{Position: 2, Value: &v8, Public: true},
	}
	assert.Equal(t, "[3] [?] [8!]", formatHand(hand))
}
