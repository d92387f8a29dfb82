package model

import (
	"time"

	"github.com/mcoot/reversigame-go/internal/engine"
)

// EventType identifies the type of event
type EventType string

const (
	// Lobby events
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventHostChanged  EventType = "host_changed"
	EventRoleChanged  EventType = "role_changed"
	EventGameStarted  EventType = "game_started"

	// Game events, mirroring the engine's
	EventPiecePlaced   EventType = EventType(engine.EventPiecePlaced)
	EventScoreChanged  EventType = EventType(engine.EventScoreChanged)
	EventTurnChanged   EventType = EventType(engine.EventTurnChanged)
	EventGameOver      EventType = EventType(engine.EventGameOver)
	EventGameAbandoned EventType = "game_abandoned"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	LobbyCode LobbyCode `json:"lobby_code"`
	GameID    GameID    `json:"game_id,omitempty"`   // Empty for lobby-only events
	PlayerID  PlayerID  `json:"player_id,omitempty"` // The player who triggered or is affected
	Payload   any       `json:"payload,omitempty"`   // Type-specific data
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	DisplayName string          `json:"display_name"`
	Role        LobbyMemberRole `json:"role"`
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	DisplayName string `json:"display_name"`
}

// HostChangedPayload contains data for host changed events
type HostChangedPayload struct {
	OldHostID PlayerID `json:"old_host_id"`
	NewHostID PlayerID `json:"new_host_id"`
}

// RoleChangedPayload contains data for role changed events
type RoleChangedPayload struct {
	Role LobbyMemberRole `json:"role"`
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	Player1 PlayerID `json:"player1"`
	Player2 PlayerID `json:"player2"`
}

// GameEventPayload carries an engine event for a game
type GameEventPayload struct {
	Side     engine.Player     `json:"side"`
	Position engine.Position   `json:"position"`
	Flips    []engine.Position `json:"flips,omitempty"`
	Scores   engine.Scores     `json:"scores"`
}

// GameEventFromEngine converts an engine event into a game event
func GameEventFromEngine(game *Game, e engine.Event, at time.Time) Event {
	return Event{
		Type:      EventType(e.Type),
		Timestamp: at,
		LobbyCode: game.LobbyCode,
		GameID:    game.ID,
		PlayerID:  game.PlayerFor(e.Player),
		Payload: GameEventPayload{
			Side:     e.Player,
			Position: e.Position,
			Flips:    e.Flips,
			Scores:   e.Scores,
		},
	}
}
