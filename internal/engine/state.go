package engine

import "fmt"

// GameState is a single game: the board, whose turn it is and the
// score counters. The zero value is not usable; call NewGame.
//
// GameState is not safe for concurrent use. Callers embedding it in a
// concurrent host must serialize AttemptMove calls.
type GameState struct {
	board  Board
	active Player
	scores Scores
	moves  int
}

// NewGame returns a game in the opening position with Player1 to move
func NewGame() *GameState {
	g := &GameState{
		board:  startingBoard(),
		active: Player1,
	}
	g.recount()
	return g
}

// MoveResult is returned by AttemptMove
type MoveResult struct {
	Outcome PlacementOutcome
	Events  []Event
}

// Applied reports whether the move changed the game
func (r MoveResult) Applied() bool {
	return r.Outcome.Applied()
}

// Rejection returns the reason the move was refused, if any
func (r MoveResult) Rejection() Rejection {
	return r.Outcome.Rejection
}

// AttemptMove tries to place a piece for the active player at (x, y).
// A rejected attempt leaves the game unchanged. An applied one flips the
// captured runs, recounts both scores from the board and hands the turn
// to the other player.
func (g *GameState) AttemptMove(x, y int) MoveResult {
	acting := g.active
	outcome := Apply(&g.board, x, y, acting)
	if !outcome.Applied() {
		return MoveResult{Outcome: outcome}
	}

	g.recount()
	g.moves++
	g.active = acting.Opponent()

	events := []Event{
		{Type: EventPiecePlaced, Player: acting, Position: outcome.Position, Flips: outcome.Flips, Scores: g.scores},
		{Type: EventScoreChanged, Player: acting, Position: outcome.Position, Scores: g.scores},
		{Type: EventTurnChanged, Player: g.active, Position: outcome.Position, Scores: g.scores},
	}
	if g.IsGameOver() {
		events = append(events, Event{Type: EventGameOver, Player: acting, Position: outcome.Position, Scores: g.scores})
	}

	return MoveResult{Outcome: outcome, Events: events}
}

// recount derives the score counters from the board
func (g *GameState) recount() {
	g.scores = Scores{
		Player1: g.board.Count(OwnedByPlayer1),
		Player2: g.board.Count(OwnedByPlayer2),
	}
}

// PieceAt returns the cell at (x, y); off-board coordinates read as Empty
func (g *GameState) PieceAt(x, y int) Cell {
	return g.board.PieceAt(x, y)
}

// Board returns a copy of the board
func (g *GameState) Board() Board {
	return g.board
}

// IsGameOver reports whether every square is occupied
func (g *GameState) IsGameOver() bool {
	return g.board.IsFull()
}

// Scores returns the piece counts for Player1 and Player2
func (g *GameState) Scores() (int, int) {
	return g.scores.Player1, g.scores.Player2
}

// ScoreTable returns both piece counts as a Scores value
func (g *GameState) ScoreTable() Scores {
	return g.scores
}

// ActivePlayer returns the player whose turn it is
func (g *GameState) ActivePlayer() Player {
	return g.active
}

// MoveCount returns the number of applied placements
func (g *GameState) MoveCount() int {
	return g.moves
}

// LegalMoves returns the active player's legal placements
func (g *GameState) LegalMoves() []Position {
	return LegalMoves(&g.board, g.active)
}

// HasAnyLegalMove reports whether the given player could place anywhere
func (g *GameState) HasAnyLegalMove(player Player) bool {
	return HasAnyLegalMove(&g.board, player)
}

// Snapshot is the serializable form of a GameState
type Snapshot struct {
	Board        []string `json:"board"`
	ActivePlayer Player   `json:"active_player"`
	MoveCount    int      `json:"move_count"`
}

// Snapshot captures the game for storage
func (g *GameState) Snapshot() Snapshot {
	return Snapshot{
		Board:        g.board.Rows(),
		ActivePlayer: g.active,
		MoveCount:    g.moves,
	}
}

// Restore rebuilds a game from a snapshot. Scores are always recounted
// from the board rather than trusted from storage.
func Restore(s Snapshot) (*GameState, error) {
	board, err := ParseBoard(s.Board)
	if err != nil {
		return nil, err
	}
	if !s.ActivePlayer.Valid() {
		return nil, fmt.Errorf("%w: invalid active player %d", ErrMalformedBoard, s.ActivePlayer)
	}
	if s.MoveCount < 0 {
		return nil, fmt.Errorf("%w: negative move count", ErrMalformedBoard)
	}

	g := &GameState{
		board:  board,
		active: s.ActivePlayer,
		moves:  s.MoveCount,
	}
	g.recount()
	return g, nil
}
