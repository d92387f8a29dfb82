package model

import (
	"sort"
	"time"

	"github.com/mcoot/reversigame-go/internal/engine"
)

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStatePlaying   GameState = "playing"   // Awaiting a move from the active player
	GameStateComplete  GameState = "complete"  // Board is full
	GameStateAbandoned GameState = "abandoned" // Game was cancelled
)

// Game is a persisted reversi game between two seated players
type Game struct {
	ID        GameID
	LobbyCode LobbyCode
	State     GameState

	// Seats[0] plays engine.Player1, Seats[1] plays engine.Player2
	Seats [2]PlayerID

	// Engine holds the board and turn; scores are derived from it on restore
	Engine   engine.Snapshot
	LastMove *engine.Position

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SortGames orders games oldest first. Games created at the same instant
// are ordered by ID so the newest game is always the same one.
func SortGames(games []*Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.Before(games[j].CreatedAt)
		}
		return games[i].ID < games[j].ID
	})
}

// SeatOf returns which side the player is on
func (g *Game) SeatOf(playerID PlayerID) (engine.Player, bool) {
	switch playerID {
	case "":
		return 0, false
	case g.Seats[0]:
		return engine.Player1, true
	case g.Seats[1]:
		return engine.Player2, true
	default:
		return 0, false
	}
}

// PlayerFor returns the PlayerID seated as the given side
func (g *Game) PlayerFor(side engine.Player) PlayerID {
	if side == engine.Player2 {
		return g.Seats[1]
	}
	return g.Seats[0]
}

// ActivePlayerID returns the PlayerID whose turn it is
func (g *Game) ActivePlayerID() PlayerID {
	return g.PlayerFor(g.Engine.ActivePlayer)
}

// IsFinished returns true once the game is complete or abandoned
func (g *Game) IsFinished() bool {
	return g.State == GameStateComplete || g.State == GameStateAbandoned
}

// GameSummary is a lightweight record of a finished game
type GameSummary struct {
	ID          GameID
	FinalScores map[PlayerID]int
	Winner      PlayerID // Empty if tie or abandoned
	Abandoned   bool
	CompletedAt time.Time
}

// PlayerScore is one seat's piece count
type PlayerScore struct {
	PlayerID PlayerID
	Side     engine.Player
	Pieces   int
}
