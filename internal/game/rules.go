// internal/game/rules.go
package game

// Rule constants of the Kabo card game.
const (
	// TargetPointValue ends the match once strictly exceeded; matching
	// it exactly snaps the player's score to RecoveryPointValue the
	// first time and ends the match the second time.
	TargetPointValue   = 100
	RecoveryPointValue = 50

	// CardsPerPlayer are dealt to each player at round start.
	CardsPerPlayer = 4

	// CardsToSeeAtStart is how many own cards each player may look at
	// after the deal.
	CardsToSeeAtStart = 2

	// KaboMalus is added to a failed Kabo caller's hand sum.
	KaboMalus = 10

	// KamikazeHandSize and kamikazeValues define the scoring override:
	// a 4-card hand holding two 12s and two 13s wins the round outright.
	KamikazeHandSize = 4
	KamikazePenalty  = 50

	// MultiExchangePenaltyThreshold is the attempted-card count from
	// which a failed multi-exchange additionally draws a face-down
	// penalty card.
	MultiExchangePenaltyThreshold = 3

	MinPlayers = 2
	MaxPlayers = 4
)

// kamikazeValues maps card value to the copy count a hand must hold.
var kamikazeValues = map[int]int{12: 2, 13: 2}
