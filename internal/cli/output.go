package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	au     aurora.Aurora
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return NewOutputTo(os.Stdout, format, !cfg.NoColor)
}

// NewOutputTo creates an Output writing to w
func NewOutputTo(w io.Writer, format string, color bool) *Output {
	return &Output{format: format, w: w, au: aurora.NewAurora(color)}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Lobby:
		o.printLobby(v)
	case Game:
		o.printGame(v)
	case PlaceResult:
		o.printPlaceResult(v)
	case MovesResult:
		o.printMoves(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Lobby response type
type Lobby struct {
	Code        string        `json:"code"`
	State       string        `json:"state"`
	Members     []LobbyMember `json:"members"`
	FreeSeats   int           `json:"free_seats"`
	CurrentGame *string       `json:"current_game"`
	GameHistory []GameSummary `json:"game_history,omitempty"`
}

// LobbyMember response type
type LobbyMember struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	IsHost      bool   `json:"is_host"`
}

// GameSummary response type
type GameSummary struct {
	ID          string         `json:"id"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	Abandoned   bool           `json:"abandoned"`
}

// Position is a board square
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Scores holds both sides' piece counts
type Scores struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// Game response type
type Game struct {
	ID    string   `json:"id"`
	State string   `json:"state"`
	Board []string `json:"board"`
	Seats struct {
		Player1 string `json:"player1"`
		Player2 string `json:"player2"`
	} `json:"seats"`
	Scores              Scores    `json:"scores"`
	ActivePlayer        int       `json:"active_player"`
	ActivePlayerID      string    `json:"active_player_id,omitempty"`
	ActivePlayerCanMove bool      `json:"active_player_can_move"`
	MoveCount           int       `json:"move_count"`
	LastMove            *Position `json:"last_move,omitempty"`
	GameOver            bool      `json:"game_over"`
	Winner              *string   `json:"winner,omitempty"`
}

// PlaceResult response type
type PlaceResult struct {
	Game    Game       `json:"game"`
	Flipped int        `json:"flipped"`
	Flips   []Position `json:"flips"`
}

// MovesResult response type
type MovesResult struct {
	ActivePlayer   int        `json:"active_player"`
	ActivePlayerID string     `json:"active_player_id,omitempty"`
	Moves          []Position `json:"moves"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printLobby(l Lobby) {
	fmt.Fprintf(o.w, "Lobby: %s\n", l.Code)
	fmt.Fprintf(o.w, "State: %s\n", l.State)
	fmt.Fprintf(o.w, "Free seats: %d\n", l.FreeSeats)
	if l.CurrentGame != nil {
		fmt.Fprintf(o.w, "Current Game: %s\n", *l.CurrentGame)
	}
	fmt.Fprintf(o.w, "Members (%d):\n", len(l.Members))
	for _, m := range l.Members {
		hostStr := ""
		if m.IsHost {
			hostStr = " [host]"
		}
		fmt.Fprintf(o.w, "  - %s (%s) - %s%s\n", m.DisplayName, m.PlayerID, m.Role, hostStr)
	}
	if len(l.GameHistory) > 0 {
		fmt.Fprintf(o.w, "Games played: %d\n", len(l.GameHistory))
		for _, g := range l.GameHistory {
			switch {
			case g.Abandoned:
				fmt.Fprintf(o.w, "  - %s: abandoned\n", g.ID)
			case g.Winner != nil:
				fmt.Fprintf(o.w, "  - %s: won by %s\n", g.ID, *g.Winner)
			default:
				fmt.Fprintf(o.w, "  - %s: draw\n", g.ID)
			}
		}
	}
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.ID, g.State)
	fmt.Fprintf(o.w, "%s %s  %d\n", o.disc('1'), g.Seats.Player1, g.Scores.Player1)
	fmt.Fprintf(o.w, "%s %s  %d\n", o.disc('2'), g.Seats.Player2, g.Scores.Player2)
	fmt.Fprintln(o.w)
	o.printBoard(g.Board, g.LastMove)
	fmt.Fprintln(o.w)

	switch {
	case g.GameOver && g.Winner != nil:
		fmt.Fprintf(o.w, "Game over. Winner: %s\n", *g.Winner)
	case g.GameOver:
		fmt.Fprintln(o.w, "Game over. Draw")
	case g.State == "abandoned":
		fmt.Fprintln(o.w, "Game abandoned")
	case !g.ActivePlayerCanMove:
		fmt.Fprintf(o.w, "%s has no legal move; the game is stalled\n", g.ActivePlayerID)
	default:
		fmt.Fprintf(o.w, "To move: %s %s\n", o.disc(byte('0'+g.ActivePlayer)), g.ActivePlayerID)
	}
}

func (o *Output) printPlaceResult(p PlaceResult) {
	fmt.Fprintf(o.w, "Placed, flipping %d\n", p.Flipped)
	o.printGame(p.Game)
}

func (o *Output) printMoves(m MovesResult) {
	if len(m.Moves) == 0 {
		fmt.Fprintf(o.w, "%s has no legal moves\n", m.ActivePlayerID)
		return
	}
	moves := make([]string, len(m.Moves))
	for i, p := range m.Moves {
		moves[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	fmt.Fprintf(o.w, "Legal moves for %s: %s\n", m.ActivePlayerID, strings.Join(moves, " "))
}

// disc renders one cell symbol: red for player 1, green for player 2
func (o *Output) disc(symbol byte) string {
	switch symbol {
	case '1':
		return o.au.Red("●").String()
	case '2':
		return o.au.Green("●").String()
	default:
		return "·"
	}
}

// printBoard draws rows in the API format ('.', '1', '2' indexed [y][x]),
// with x across the top and y down the side
func (o *Output) printBoard(rows []string, last *Position) {
	fmt.Fprint(o.w, "   ")
	for x := 0; x < len(rows); x++ {
		fmt.Fprintf(o.w, " %d", x)
	}
	fmt.Fprintln(o.w)

	for y, row := range rows {
		fmt.Fprintf(o.w, " %d ", y)
		for x := 0; x < len(row); x++ {
			cell := o.disc(row[x])
			if last != nil && last.X == x && last.Y == y {
				cell = o.au.Bold(cell).String()
			}
			fmt.Fprintf(o.w, " %s", cell)
		}
		fmt.Fprintln(o.w)
	}
}
