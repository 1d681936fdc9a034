// internal/transport/remote.go
package transport

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/KoubaPetr/kabo/internal/models"
	"github.com/KoubaPetr/kabo/internal/protocol"
)

// RemotePlayer binds the decision interface to a connected participant.
// Every Choose call sends one request frame and blocks until the reply
// arrives; there is no timeout, a remote human may think for as long
// as they like. Any read or write failure means the participant is
// gone, and the error propagates up to abort the match.
type RemotePlayer struct {
	Name string

	conn Conn
	log  *logrus.Entry
}

func NewRemotePlayer(name string, conn Conn, log *logrus.Logger) *RemotePlayer {
	return &RemotePlayer{
		Name: name,
		conn: conn,
		log:  log.WithField("participant", name),
	}
}

func (r *RemotePlayer) Close() error {
	return r.conn.Close()
}

// Notify pushes an out-of-band frame, e.g. game_start or game_end.
func (r *RemotePlayer) Notify(msg *protocol.Message) error {
	return r.conn.WriteMessage(msg)
}

// request sends one question and reads its answer. Stray round_ack
// frames from the previous round are skipped; any other mismatched
// reply is a protocol violation.
func (r *RemotePlayer) request(msg *protocol.Message) (*protocol.Message, error) {
	if err := r.conn.WriteMessage(msg); err != nil {
		return nil, fmt.Errorf("send %s to %s: %w", msg.RequestType, r.Name, err)
	}
	for {
		resp, err := r.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("awaiting %s from %s: %w", msg.RequestType, r.Name, err)
		}
		if resp.Type == protocol.TypeRoundAck {
			continue
		}
		if resp.RequestType != msg.RequestType {
			return nil, fmt.Errorf("%s answered %q to a %s request", r.Name, resp.RequestType, msg.RequestType)
		}
		return resp, nil
	}
}

func handToWire(hand []models.CardView) []*int {
	wire := make([]*int, len(hand))
	for i, c := range hand {
		wire[i] = c.Value
	}
	return wire
}

func opponentsToWire(opponents []models.OpponentView) []protocol.OpponentInfo {
	wire := make([]protocol.OpponentInfo, len(opponents))
	for i, o := range opponents {
		wire[i] = protocol.OpponentInfo{
			PlayerID: o.PlayerID,
			Name:     o.Name,
			HandSize: o.HandSize,
			Hand:     handToWire(o.Hand),
		}
	}
	return wire
}

func (r *RemotePlayer) ChooseTurnAction(view models.TurnView, legal []models.TurnAction) (models.TurnAction, error) {
	options := make([]string, len(legal))
	for i, a := range legal {
		options[i] = string(a)
	}
	resp, err := r.request(&protocol.Message{
		RequestType: protocol.RequestPickTurnType,
		Prompt:      "It is your turn. Choose an action.",
		Options:     options,
		Hand:        handToWire(view.Hand),
		HandSize:    len(view.Hand),
		DeckSize:    view.DeckSize,
		DiscardTop:  view.DiscardTop,
	})
	if err != nil {
		return "", err
	}
	if resp.Action == "" {
		return "", fmt.Errorf("%s sent an empty turn action", r.Name)
	}
	return models.TurnAction(resp.Action), nil
}

func (r *RemotePlayer) DecideOnDrawnCard(view models.DrawnCardView, legal []models.DrawDecision) (models.DrawDecision, error) {
	options := make([]string, len(legal))
	for i, d := range legal {
		options[i] = string(d)
	}
	msg := &protocol.Message{
		RequestType: protocol.RequestDecideOnCardUse,
		Prompt:      fmt.Sprintf("You drew a %d. Decide what to do with it.", view.Value),
		Options:     options,
		CardValue:   protocol.Int(view.Value),
		Hand:        handToWire(view.Hand),
	}
	if view.Effect != models.EffectNone {
		msg.CardEffect = view.Effect.String()
	}
	resp, err := r.request(msg)
	if err != nil {
		return "", err
	}
	if resp.Choice == "" {
		return "", fmt.Errorf("%s sent an empty draw decision", r.Name)
	}
	return models.DrawDecision(resp.Choice), nil
}

func (r *RemotePlayer) ChooseCardsToExchange(view models.DrawnCardView) ([]int, error) {
	resp, err := r.request(&protocol.Message{
		RequestType: protocol.RequestPickCardsForExchange,
		Prompt:      "Pick the hand positions to give up for the drawn card.",
		CardValue:   protocol.Int(view.Value),
		Hand:        handToWire(view.Hand),
		HandSize:    len(view.Hand),
	})
	if err != nil {
		return nil, err
	}
	return resp.Positions, nil
}

func (r *RemotePlayer) ChoosePositionForNewCard(free []int) (int, error) {
	resp, err := r.request(&protocol.Message{
		RequestType:   protocol.RequestPickPosition,
		Prompt:        "Pick a freed position for the drawn card, or -1 to discard it.",
		FreePositions: free,
	})
	if err != nil {
		return 0, err
	}
	if resp.Position == nil {
		return 0, fmt.Errorf("%s sent no position", r.Name)
	}
	return *resp.Position, nil
}

func (r *RemotePlayer) ChoosePeekPositions(n, handSize int) ([]int, error) {
	resp, err := r.request(&protocol.Message{
		RequestType: protocol.RequestPickCardsToSee,
		Prompt:      fmt.Sprintf("Pick up to %d of your cards to look at.", n),
		NumCards:    n,
		HandSize:    handSize,
	})
	if err != nil {
		return nil, err
	}
	return resp.Positions, nil
}

func (r *RemotePlayer) ChooseSpyTarget(opponents []models.OpponentView) (models.SpyChoice, error) {
	resp, err := r.request(&protocol.Message{
		RequestType: protocol.RequestSpecifySpying,
		Prompt:      "Pick an opponent card to look at.",
		Opponents:   opponentsToWire(opponents),
	})
	if err != nil {
		return models.SpyChoice{}, err
	}
	if resp.OpponentID == nil || resp.Position == nil {
		return models.SpyChoice{}, fmt.Errorf("%s sent an incomplete spy choice", r.Name)
	}
	return models.SpyChoice{OpponentID: *resp.OpponentID, Position: *resp.Position}, nil
}

func (r *RemotePlayer) ChooseSwapTargets(hand []models.CardView, opponents []models.OpponentView) (models.SwapChoice, error) {
	resp, err := r.request(&protocol.Message{
		RequestType: protocol.RequestSpecifySwap,
		Prompt:      "Pick one of your cards and one opponent card to swap.",
		Hand:        handToWire(hand),
		HandSize:    len(hand),
		Opponents:   opponentsToWire(opponents),
	})
	if err != nil {
		return models.SwapChoice{}, err
	}
	if resp.OwnPosition == nil || resp.OpponentID == nil || resp.OpponentPosition == nil {
		return models.SwapChoice{}, fmt.Errorf("%s sent an incomplete swap choice", r.Name)
	}
	return models.SwapChoice{
		OwnPosition:      *resp.OwnPosition,
		OpponentID:       *resp.OpponentID,
		OpponentPosition: *resp.OpponentPosition,
	}, nil
}

// Notifications are best effort: a dropped notification surfaces on
// the next request instead.

func (r *RemotePlayer) NotifyHandKnowledge(hand []models.CardView) {
	err := r.conn.WriteMessage(&protocol.Message{
		Type:     protocol.TypeHandUpdate,
		Hand:     handToWire(hand),
		HandSize: len(hand),
	})
	if err != nil {
		r.log.WithError(err).Warn("hand update not delivered")
	}
}

func (r *RemotePlayer) NotifyRevealedCard(value int, effect models.Effect) {
	err := r.conn.WriteMessage(&protocol.Message{
		Type:       protocol.TypeCardReveal,
		CardValue:  protocol.Int(value),
		CardEffect: effect.String(),
	})
	if err != nil {
		r.log.WithError(err).Warn("card reveal not delivered")
	}
}

func (r *RemotePlayer) NotifyRoundResult(summary models.RoundSummary) {
	err := r.conn.WriteMessage(&protocol.Message{
		Type:        protocol.TypeRoundEnd,
		Round:       protocol.Int(summary.Round),
		RoundScores: summary.RoundScores,
		GameScores:  summary.GameScores,
		KaboCaller:  summary.KaboCaller,
		Kamikaze:    summary.Kamikaze,
	})
	if err != nil {
		r.log.WithError(err).Warn("round result not delivered")
	}
}
