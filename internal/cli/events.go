package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <code>",
		Short: "Stream live events from a lobby",
		Long: `Connect to the lobby's event stream and print events as they arrive.

Events include:
  - player_joined, player_left, role_changed, host_changed
  - game_started, game_abandoned
  - piece_placed: a piece was placed and its captures flipped
  - score_changed: both sides' piece counts
  - turn_changed: the other player is to move
  - game_over: the board is full

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(cmd.OutOrStdout(), args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

// streamEvent is the data of a lobby or game event frame
type streamEvent struct {
	Type     string         `json:"type"`
	PlayerID string         `json:"player_id"`
	GameID   string         `json:"game_id"`
	Payload  map[string]any `json:"payload"`
}

func streamEvents(w io.Writer, lobbyCode string, jsonOutput bool) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + lobbyPath(lobbyCode, "/events")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	// No timeout for a stream
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		fmt.Fprintf(w, "Connected to lobby %s\n", strings.ToUpper(lobbyCode))
	}

	err = readEvents(resp.Body, func(event, data string) {
		printEvent(w, event, data, jsonOutput)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream, calling emit for every complete frame.
// Comment lines (keepalives) are skipped.
func readEvents(r io.Reader, emit func(event, data string)) error {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				emit(currentEvent, strings.Join(dataLines, "\n"))
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	return scanner.Err()
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		jsonData, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: data})
		fmt.Fprintln(w, string(jsonData))
		return
	}

	fmt.Fprintf(w, "[%s] %s: %s\n", now.Format("15:04:05"), event, describeEvent(event, data))
}

// describeEvent renders an event's data as one line of text
func describeEvent(event, data string) string {
	var e streamEvent
	if err := sonic.UnmarshalString(data, &e); err != nil {
		return strings.ReplaceAll(data, "\n", " ")
	}

	switch event {
	case "connected":
		return "listening"
	case "player_joined":
		return fmt.Sprintf("%s joined as %v", e.Payload["display_name"], e.Payload["role"])
	case "player_left":
		return fmt.Sprintf("%s left", e.Payload["display_name"])
	case "role_changed":
		return fmt.Sprintf("%s is now a %v", e.PlayerID, e.Payload["role"])
	case "host_changed":
		return fmt.Sprintf("%v is now host", e.Payload["new_host_id"])
	case "game_started":
		return fmt.Sprintf("%v (red) vs %v (green)", e.Payload["player1"], e.Payload["player2"])
	case "game_abandoned":
		return fmt.Sprintf("game %s abandoned", e.GameID)
	case "piece_placed":
		pos, _ := e.Payload["position"].(map[string]any)
		flips, _ := e.Payload["flips"].([]any)
		return fmt.Sprintf("%s placed at %v,%v flipping %d", e.PlayerID, pos["x"], pos["y"], len(flips))
	case "score_changed", "game_over":
		scores, _ := e.Payload["scores"].(map[string]any)
		return fmt.Sprintf("red %v, green %v", scores["player1"], scores["player2"])
	case "turn_changed":
		return fmt.Sprintf("%s to move", e.PlayerID)
	default:
		return strings.ReplaceAll(data, "\n", " ")
	}
}
