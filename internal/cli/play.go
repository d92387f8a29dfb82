package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/reversigame-go/internal/engine"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game in this terminal",
		Long: `Play reversi on this terminal with two people taking turns at the keyboard.
No server is needed.

Red (player 1) moves first. Enter a move as "x y" (column then row, 0-7).
"moves" lists the legal moves and "quit" ends the game.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return playLocal(cmd.InOrStdin(), cmd.OutOrStdout(), !cfg.NoColor)
		},
	}
}

// playLocal runs a game against the engine, reading moves from in
func playLocal(in io.Reader, out io.Writer, color bool) error {
	game := engine.NewGame()
	o := NewOutputTo(out, "text", color)
	scanner := bufio.NewScanner(in)

	var last *Position
	redraw := true
	for {
		if redraw {
			fmt.Fprintln(out)
			o.printBoard(boardRows(game), last)
			redraw = false
		}

		if game.IsGameOver() {
			o.printLocalResult(game)
			return nil
		}
		if !game.HasAnyLegalMove(game.ActivePlayer()) {
			fmt.Fprintf(out, "%s has no legal move; the game cannot continue\n", o.side(game.ActivePlayer()))
			o.printLocalResult(game)
			return nil
		}

		fmt.Fprintf(out, "%s > ", o.side(game.ActivePlayer()))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Fprintln(out, "Game ended")
			return nil
		case "m", "moves":
			o.printLocalMoves(game.LegalMoves())
			continue
		}

		x, y, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		result := game.AttemptMove(x, y)
		if !result.Applied() {
			fmt.Fprintln(out, describeRejection(result.Rejection()))
			continue
		}

		last = &Position{X: x, Y: y}
		redraw = true
		for _, e := range result.Events {
			if e.Type == engine.EventScoreChanged {
				fmt.Fprintf(out, "%s %d  %s %d\n", o.disc('1'), e.Scores.Player1, o.disc('2'), e.Scores.Player2)
			}
		}
	}
}

// parseMove reads "x y" or "x,y"
func parseMove(line string) (int, int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("enter a move as \"x y\"")
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", fields[1])
	}
	return x, y, nil
}

func describeRejection(r engine.Rejection) string {
	switch r {
	case engine.Occupied:
		return "That square is taken"
	case engine.NoCapture:
		return "That move captures nothing"
	case engine.OutOfBounds:
		return "That square is off the board"
	default:
		return string(r)
	}
}

func boardRows(game *engine.GameState) []string {
	board := game.Board()
	return board.Rows()
}

func (o *Output) side(p engine.Player) string {
	if p == engine.Player2 {
		return o.disc('2') + " green"
	}
	return o.disc('1') + " red"
}

func (o *Output) printLocalMoves(moves []engine.Position) {
	parts := make([]string, len(moves))
	for i, p := range moves {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	fmt.Fprintf(o.w, "Legal moves: %s\n", strings.Join(parts, " "))
}

func (o *Output) printLocalResult(game *engine.GameState) {
	p1, p2 := game.Scores()
	fmt.Fprintf(o.w, "Final score: %s %d  %s %d\n", o.disc('1'), p1, o.disc('2'), p2)
	switch {
	case p1 > p2:
		fmt.Fprintf(o.w, "%s wins\n", o.side(engine.Player1))
	case p2 > p1:
		fmt.Fprintf(o.w, "%s wins\n", o.side(engine.Player2))
	default:
		fmt.Fprintln(o.w, "Draw")
	}
}
