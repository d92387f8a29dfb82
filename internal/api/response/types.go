package response

import (
	"time"

	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *model.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// LobbyMember represents a lobby member
type LobbyMember struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	IsHost      bool   `json:"is_host"`
}

// LobbyMemberFromModel converts model.LobbyMember
func LobbyMemberFromModel(m model.LobbyMember) LobbyMember {
	return LobbyMember{
		PlayerID:    string(m.Player.ID),
		DisplayName: m.Player.DisplayName,
		Role:        string(m.Role),
		IsHost:      m.IsHost,
	}
}

// GameSummary represents a finished game summary
type GameSummary struct {
	ID          string         `json:"id"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	Abandoned   bool           `json:"abandoned"`
	CompletedAt time.Time      `json:"completed_at"`
}

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(g model.GameSummary) GameSummary {
	scores := make(map[string]int, len(g.FinalScores))
	for pid, score := range g.FinalScores {
		scores[string(pid)] = score
	}
	return GameSummary{
		ID:          string(g.ID),
		FinalScores: scores,
		Winner:      optional(string(g.Winner)),
		Abandoned:   g.Abandoned,
		CompletedAt: g.CompletedAt,
	}
}

// Lobby represents a lobby in API responses
type Lobby struct {
	Code        string        `json:"code"`
	State       string        `json:"state"`
	Members     []LobbyMember `json:"members"`
	FreeSeats   int           `json:"free_seats"`
	CurrentGame *string       `json:"current_game"`
	GameHistory []GameSummary `json:"game_history,omitempty"`
}

// LobbyFromModel converts model.Lobby
func LobbyFromModel(l *model.Lobby) Lobby {
	members := make([]LobbyMember, len(l.Members))
	for i, m := range l.Members {
		members[i] = LobbyMemberFromModel(m)
	}

	history := make([]GameSummary, len(l.GameHistory))
	for i, g := range l.GameHistory {
		history[i] = GameSummaryFromModel(g)
	}

	var currentGame *string
	if l.CurrentGame != nil {
		currentGame = optional(string(*l.CurrentGame))
	}

	return Lobby{
		Code:        string(l.Code),
		State:       string(l.State),
		Members:     members,
		FreeSeats:   model.MaxSeatedPlayers - len(l.GetPlayers()),
		CurrentGame: currentGame,
		GameHistory: history,
	}
}

// Seats names the player on each side
type Seats struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// Game is the full view of a game. Board holds one string per row y,
// each character being '.', '1' or '2' for column x.
type Game struct {
	ID                  string           `json:"id"`
	LobbyCode           string           `json:"lobby_code"`
	State               string           `json:"state"`
	Board               []string         `json:"board"`
	Scores              engine.Scores    `json:"scores"`
	Seats               Seats            `json:"seats"`
	ActivePlayer        engine.Player    `json:"active_player"`
	ActivePlayerID      string           `json:"active_player_id,omitempty"`
	ActivePlayerCanMove bool             `json:"active_player_can_move"`
	MoveCount           int              `json:"move_count"`
	LastMove            *engine.Position `json:"last_move,omitempty"`
	GameOver            bool             `json:"game_over"`
	Winner              *string          `json:"winner,omitempty"`
}

// GameFromModel builds the game view from the stored game and its engine state
func GameFromModel(g *model.Game, state *engine.GameState, winner model.PlayerID) Game {
	board := state.Board()

	resp := Game{
		ID:           string(g.ID),
		LobbyCode:    string(g.LobbyCode),
		State:        string(g.State),
		Board:        board.Rows(),
		Scores:       state.ScoreTable(),
		Seats:        Seats{Player1: string(g.Seats[0]), Player2: string(g.Seats[1])},
		ActivePlayer: state.ActivePlayer(),
		MoveCount:    state.MoveCount(),
		LastMove:     g.LastMove,
		GameOver:     state.IsGameOver(),
		Winner:       optional(string(winner)),
	}

	if !g.IsFinished() {
		resp.ActivePlayerID = string(g.ActivePlayerID())
		resp.ActivePlayerCanMove = state.HasAnyLegalMove(state.ActivePlayer())
	}

	return resp
}

// PlaceResponse is the response after a successful placement
type PlaceResponse struct {
	Game    Game              `json:"game"`
	Flipped int               `json:"flipped"`
	Flips   []engine.Position `json:"flips"`
	Events  []engine.Event    `json:"events"`
}

// PlaceResponseFromResult builds the placement response
func PlaceResponseFromResult(game Game, result engine.MoveResult) PlaceResponse {
	return PlaceResponse{
		Game:    game,
		Flipped: result.Outcome.Flipped,
		Flips:   result.Outcome.Flips,
		Events:  result.Events,
	}
}

// MovesResponse lists the legal placements for the player to move
type MovesResponse struct {
	ActivePlayer   engine.Player     `json:"active_player"`
	ActivePlayerID string            `json:"active_player_id,omitempty"`
	Moves          []engine.Position `json:"moves"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status string `json:"status"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
