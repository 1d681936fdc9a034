// internal/transport/remote_test.go
package transport

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KoubaPetr/kabo/internal/models"
	"github.com/KoubaPetr/kabo/internal/protocol"
)

// fakeConn records outbound frames and replays scripted replies.
type fakeConn struct {
	sent    []*protocol.Message
	replies []*protocol.Message
	closed  bool
}

func (c *fakeConn) WriteMessage(msg *protocol.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) ReadMessage() (*protocol.Message, error) {
	if len(c.replies) == 0 {
		return nil, io.EOF
	}
	msg := c.replies[0]
	c.replies = c.replies[1:]
	return msg, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func newRemote(conn Conn) *RemotePlayer {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return NewRemotePlayer("ALICE", conn, l)
}

func TestTurnActionRequestAndReply(t *testing.T) {
	conn := &fakeConn{replies: []*protocol.Message{
		{RequestType: protocol.RequestPickTurnType, Action: "CALL_KABO"},
	}}
	r := newRemote(conn)

	v3 := 3
	view := models.TurnView{
		Hand:       []models.CardView{{Position: 0, Value: &v3}, {Position: 1}},
		DeckSize:   30,
		DiscardTop: protocol.Int(7),
	}
	action, err := r.ChooseTurnAction(view, []models.TurnAction{models.ActionDrawDeck, models.ActionCallKabo})
	require.NoError(t, err)
	assert.Equal(t, models.ActionCallKabo, action)

	require.Len(t, conn.sent, 1)
	sent := conn.sent[0]
	assert.Equal(t, protocol.RequestPickTurnType, sent.RequestType)
	assert.Equal(t, []string{"DRAW_DECK", "CALL_KABO"}, sent.Options)
	require.Len(t, sent.Hand, 2)
	assert.Equal(t, 3, *sent.Hand[0])
	assert.Nil(t, sent.Hand[1], "unknown cards cross the wire as null")
}

func TestStrayRoundAckIsSkipped(t *testing.T) {
	conn := &fakeConn{replies: []*protocol.Message{
		{Type: protocol.TypeRoundAck},
		{RequestType: protocol.RequestPickCardsToSee, Positions: []int{0, 2}},
	}}
	r := newRemote(conn)

	positions, err := r.ChoosePeekPositions(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, positions)
}

func TestMismatchedReplyIsProtocolViolation(t *testing.T) {
	conn := &fakeConn{replies: []*protocol.Message{
		{RequestType: protocol.RequestSpecifySwap},
	}}
	r := newRemote(conn)

	_, err := r.ChoosePeekPositions(2, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pick_cards_to_see")
}

func TestDisconnectSurfacesAsError(t *testing.T) {
	r := newRemote(&fakeConn{})

	_, err := r.ChooseTurnAction(models.TurnView{}, []models.TurnAction{models.ActionDrawDeck})
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

func TestSwapChoiceRequiresAllFields(t *testing.T) {
	conn := &fakeConn{replies: []*protocol.Message{
		{RequestType: protocol.RequestSpecifySwap, OwnPosition: protocol.Int(1)},
	}}
	r := newRemote(conn)

	_, err := r.ChooseSwapTargets(nil, []models.OpponentView{{PlayerID: 2, HandSize: 4}})
	assert.Error(t, err)
}

func TestSpyChoiceDecoding(t *testing.T) {
	conn := &fakeConn{replies: []*protocol.Message{
		{RequestType: protocol.RequestSpecifySpying, OpponentID: protocol.Int(2), Position: protocol.Int(3)},
	}}
	r := newRemote(conn)

	choice, err := r.ChooseSpyTarget([]models.OpponentView{{PlayerID: 2, Name: "BOB", HandSize: 4}})
	require.NoError(t, err)
	assert.Equal(t, models.SpyChoice{OpponentID: 2, Position: 3}, choice)
}

func TestPositionDeclinePassesThrough(t *testing.T) {
	conn := &fakeConn{replies: []*protocol.Message{
		{RequestType: protocol.RequestPickPosition, Position: protocol.Int(models.PositionDecline)},
	}}
	r := newRemote(conn)

	pos, err := r.ChoosePositionForNewCard([]int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, models.PositionDecline, pos)
}

func TestRoundResultNotification(t *testing.T) {
	conn := &fakeConn{}
	r := newRemote(conn)

	r.NotifyRoundResult(models.RoundSummary{
		Round:       2,
		RoundScores: map[string]int{"ALICE": 0, "BOB": 10},
		GameScores:  map[string]int{"ALICE": 12, "BOB": 40},
		KaboCaller:  "ALICE",
	})

	require.Len(t, conn.sent, 1)
	assert.Equal(t, protocol.TypeRoundEnd, conn.sent[0].Type)
	assert.Equal(t, "ALICE", conn.sent[0].KaboCaller)
	assert.Equal(t, 0, conn.sent[0].RoundScores["ALICE"])
}
