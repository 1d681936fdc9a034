// internal/protocol/message.go
package protocol

// Message types for handshake and out-of-band notifications. These
// carry no request_type and expect no response (join/join_ack aside).
const (
	TypeJoin       = "join"
	TypeJoinAck    = "join_ack"
	TypeJoinReject = "join_reject"
	TypeGameStart  = "game_start"
	TypeGameEnd    = "game_end"
	TypeHandUpdate = "hand_update"
	TypeCardReveal = "card_reveal"
	TypeRoundEnd   = "round_end"
	TypeRoundAck   = "round_ack"
)

// Request types, one per decision-interface method. A participant's
// response reuses the same request_type so the server can match it
// against the question it asked.
const (
	RequestPickTurnType         = "pick_turn_type"
	RequestDecideOnCardUse      = "decide_on_card_use"
	RequestPickCardsForExchange = "pick_hand_cards_for_exchange"
	RequestPickPosition         = "pick_position_for_new_card"
	RequestPickCardsToSee       = "pick_cards_to_see"
	RequestSpecifySpying        = "specify_spying"
	RequestSpecifySwap          = "specify_swap"
)

// OpponentInfo describes one opponent from the asking player's point
// of view: values appear only where that player is entitled to them.
type OpponentInfo struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	HandSize int    `json:"hand_size"`
	Hand     []*int `json:"hand"`
}

// Message is the single frame shape for both directions. Fields are
// omitted when empty, so each request or response carries only what
// its request_type calls for.
type Message struct {
	Type        string   `json:"type,omitempty"`
	RequestType string   `json:"request_type,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Options     []string `json:"options,omitempty"`

	// Handshake fields.
	Name     string `json:"name,omitempty"`
	PlayerID *int   `json:"player_id,omitempty"`
	Reason   string `json:"reason,omitempty"`

	// Request payloads. Hand entries are nil where the value is hidden
	// from the recipient.
	Hand          []*int         `json:"hand,omitempty"`
	HandSize      int            `json:"hand_size,omitempty"`
	DeckSize      int            `json:"deck_size,omitempty"`
	DiscardTop    *int           `json:"discard_top,omitempty"`
	CardValue     *int           `json:"card_value,omitempty"`
	CardEffect    string         `json:"card_effect,omitempty"`
	NumCards      int            `json:"num_cards,omitempty"`
	FreePositions []int          `json:"free_positions,omitempty"`
	Opponents     []OpponentInfo `json:"opponents,omitempty"`

	// Response payloads.
	Action           string `json:"action,omitempty"`
	Choice           string `json:"choice,omitempty"`
	Positions        []int  `json:"positions,omitempty"`
	Position         *int   `json:"position,omitempty"`
	OpponentID       *int   `json:"opponent_id,omitempty"`
	OwnPosition      *int   `json:"own_position,omitempty"`
	OpponentPosition *int   `json:"opponent_position,omitempty"`

	// Round and match reporting.
	Round       *int           `json:"round,omitempty"`
	RoundScores map[string]int `json:"round_scores,omitempty"`
	GameScores  map[string]int `json:"game_scores,omitempty"`
	KaboCaller  string         `json:"kabo_caller,omitempty"`
	Kamikaze    string         `json:"kamikaze,omitempty"`
	PlayerNames []string       `json:"player_names,omitempty"`
	Winner      string         `json:"winner,omitempty"`
}

// Int boxes a value for the nullable wire fields.
func Int(v int) *int { return &v }
