package engine

// EventType identifies an engine event
type EventType string

const (
	EventPiecePlaced  EventType = "piece_placed"
	EventScoreChanged EventType = "score_changed"
	EventTurnChanged  EventType = "turn_changed"
	EventGameOver     EventType = "game_over"
)

// Scores holds both players' piece counts
type Scores struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// Of returns the score for one player
func (s Scores) Of(p Player) int {
	if p == Player2 {
		return s.Player2
	}
	return s.Player1
}

// Event is emitted by AttemptMove for renderers and score displays.
// Player is the acting player, except for EventTurnChanged where it is
// the player now to move.
type Event struct {
	Type     EventType  `json:"type"`
	Player   Player     `json:"player"`
	Position Position   `json:"position"`
	Flips    []Position `json:"flips,omitempty"`
	Scores   Scores     `json:"scores"`
}
