// internal/console/console.go

// Package console binds the decision interface to an interactive
// terminal session, for hot-seat play against bots.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KoubaPetr/kabo/internal/models"
)

// Player prompts on out and reads answers from in. Invalid input is
// re-prompted with the violated constraint; only a closed input stream
// produces an error.
type Player struct {
	Name string

	in  *bufio.Scanner
	out io.Writer
}

func NewPlayer(name string, in io.Reader, out io.Writer) *Player {
	return &Player{
		Name: name,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

func (p *Player) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Player) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func formatHand(hand []models.CardView) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		switch {
		case c.Value != nil && c.Public:
			parts[i] = fmt.Sprintf("[%d!]", *c.Value)
		case c.Value != nil:
			parts[i] = fmt.Sprintf("[%d]", *c.Value)
		default:
			parts[i] = "[?]"
		}
	}
	return strings.Join(parts, " ")
}

func (p *Player) ChooseTurnAction(view models.TurnView, legal []models.TurnAction) (models.TurnAction, error) {
	options := make([]string, len(legal))
	allowed := make(map[string]models.TurnAction, len(legal))
	for i, a := range legal {
		options[i] = string(a)
		allowed[string(a)] = a
	}

	p.printf("%s: your hand is %s, %d cards left in the deck.\n", p.Name, formatHand(view.Hand), view.DeckSize)
	if view.DiscardTop != nil {
		p.printf("Top of the discard pile: %d\n", *view.DiscardTop)
	}
	for {
		p.printf("Choose your play (%s):\n", strings.Join(options, "/"))
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if action, ok := allowed[strings.ToUpper(line)]; ok {
			return action, nil
		}
		p.printf("Unknown play %q. Allowed plays are %s.\n", line, strings.Join(options, ", "))
	}
}

func (p *Player) DecideOnDrawnCard(view models.DrawnCardView, legal []models.DrawDecision) (models.DrawDecision, error) {
	options := make([]string, len(legal))
	allowed := make(map[string]models.DrawDecision, len(legal))
	for i, d := range legal {
		options[i] = string(d)
		allowed[string(d)] = d
	}

	if view.Effect != models.EffectNone {
		p.printf("%s: you drew a %d with effect %s.\n", p.Name, view.Value, view.Effect)
	} else {
		p.printf("%s: you drew a %d.\n", p.Name, view.Value)
	}
	for {
		p.printf("Decide (%s):\n", strings.Join(options, "/"))
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if decision, ok := allowed[strings.ToUpper(line)]; ok {
			return decision, nil
		}
		p.printf("Unknown decision %q. Allowed: %s.\n", line, strings.Join(options, ", "))
	}
}

// readPositions parses a space-separated list of hand positions,
// re-prompting until every entry is an integer within the hand.
func (p *Player) readPositions(handSize int, atLeastOne bool) ([]int, error) {
	for {
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			if !atLeastOne {
				return nil, nil
			}
			p.printf("Select at least one position.\n")
			continue
		}

		positions := make([]int, 0, len(fields))
		valid := true
		for _, f := range fields {
			pos, err := strconv.Atoi(f)
			if err != nil {
				p.printf("%q is not a number.\n", f)
				valid = false
				break
			}
			if pos < 0 || pos >= handSize {
				p.printf("Position %d is out of range (0 to %d).\n", pos, handSize-1)
				valid = false
				break
			}
			positions = append(positions, pos)
		}
		if valid {
			return positions, nil
		}
	}
}

func (p *Player) ChooseCardsToExchange(view models.DrawnCardView) ([]int, error) {
	p.printf("%s: you drew %d; your hand is %s.\n", p.Name, view.Value, formatHand(view.Hand))
	p.printf("Pick the positions to exchange (numbered from the left, space separated):\n")
	return p.readPositions(len(view.Hand), true)
}

func (p *Player) ChoosePositionForNewCard(free []int) (int, error) {
	if len(free) == 1 {
		return free[0], nil
	}
	for {
		p.printf("%s: place the drawn card at one of %v, or -1 to discard it:\n", p.Name, free)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		pos, err := strconv.Atoi(line)
		if err != nil {
			p.printf("%q is not a number.\n", line)
			continue
		}
		if pos == models.PositionDecline {
			return pos, nil
		}
		for _, f := range free {
			if f == pos {
				return pos, nil
			}
		}
		p.printf("Position %d is not one of the freed slots %v.\n", pos, free)
	}
}

func (p *Player) ChoosePeekPositions(n, handSize int) ([]int, error) {
	for {
		p.printf("%s: pick up to %d of your cards to look at (empty picks the leftmost):\n", p.Name, n)
		positions, err := p.readPositions(handSize, false)
		if err != nil {
			return nil, err
		}
		if len(positions) <= n {
			return positions, nil
		}
		p.printf("You may pick at most %d positions.\n", n)
	}
}

func (p *Player) chooseOpponent(opponents []models.OpponentView) (*models.OpponentView, error) {
	if len(opponents) == 1 {
		return &opponents[0], nil
	}
	names := make([]string, len(opponents))
	for i, o := range opponents {
		names[i] = o.Name
	}
	for {
		p.printf("Pick an opponent (%s):\n", strings.Join(names, "/"))
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		for i, o := range opponents {
			if strings.EqualFold(o.Name, line) {
				return &opponents[i], nil
			}
		}
		p.printf("No opponent named %q.\n", line)
	}
}

func (p *Player) readOpponentPosition(o *models.OpponentView) (int, error) {
	for {
		p.printf("Pick a position in %s's hand of %d cards:\n", o.Name, o.HandSize)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		pos, err := strconv.Atoi(line)
		if err != nil {
			p.printf("%q is not a number.\n", line)
			continue
		}
		if pos < 0 || pos >= o.HandSize {
			p.printf("Position %d is out of range (0 to %d).\n", pos, o.HandSize-1)
			continue
		}
		return pos, nil
	}
}

func (p *Player) ChooseSpyTarget(opponents []models.OpponentView) (models.SpyChoice, error) {
	p.printf("%s: you may look at one opponent card.\n", p.Name)
	o, err := p.chooseOpponent(opponents)
	if err != nil {
		return models.SpyChoice{}, err
	}
	pos, err := p.readOpponentPosition(o)
	if err != nil {
		return models.SpyChoice{}, err
	}
	return models.SpyChoice{OpponentID: o.PlayerID, Position: pos}, nil
}

func (p *Player) ChooseSwapTargets(hand []models.CardView, opponents []models.OpponentView) (models.SwapChoice, error) {
	p.printf("%s: you may swap one of your cards; your hand is %s.\n", p.Name, formatHand(hand))
	own, err := p.readPositions(len(hand), true)
	if err != nil {
		return models.SwapChoice{}, err
	}
	for len(own) != 1 {
		p.printf("Pick exactly one of your own positions.\n")
		own, err = p.readPositions(len(hand), true)
		if err != nil {
			return models.SwapChoice{}, err
		}
	}
	o, err := p.chooseOpponent(opponents)
	if err != nil {
		return models.SwapChoice{}, err
	}
	pos, err := p.readOpponentPosition(o)
	if err != nil {
		return models.SwapChoice{}, err
	}
	return models.SwapChoice{OwnPosition: own[0], OpponentID: o.PlayerID, OpponentPosition: pos}, nil
}

func (p *Player) NotifyHandKnowledge(hand []models.CardView) {
	p.printf("%s: your hand is now %s.\n", p.Name, formatHand(hand))
}

func (p *Player) NotifyRevealedCard(value int, effect models.Effect) {
	if effect != models.EffectNone {
		p.printf("%s: the card is a %d (%s).\n", p.Name, value, effect)
		return
	}
	p.printf("%s: the card is a %d.\n", p.Name, value)
}

func (p *Player) NotifyRoundResult(summary models.RoundSummary) {
	p.printf("Round %d finished.", summary.Round)
	if summary.Kamikaze != "" {
		p.printf(" Kamikaze by %s!", summary.Kamikaze)
	} else if summary.KaboCaller != "" {
		p.printf(" Kabo was called by %s.", summary.KaboCaller)
	}
	p.printf("\n")
	for name, score := range summary.RoundScores {
		p.printf("  %s: %d this round, %d total\n", name, score, summary.GameScores[name])
	}
}
