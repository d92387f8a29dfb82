package sse

import (
	"log/slog"
	"time"

	"github.com/bytedance/sonic"

	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
)

// Broadcaster publishes lobby and game events to the lobby's stream.
// The SSE event name is the event type; the data is the event as JSON.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends one event to everyone watching its lobby
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.LobbyCode)
	if hub == nil {
		return
	}

	data, err := sonic.MarshalString(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("lobby", string(event.LobbyCode)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), data)
}

// PublishMove forwards the events of an applied move in engine order
func (b *Broadcaster) PublishMove(game *model.Game, result engine.MoveResult, at time.Time) {
	for _, e := range result.Events {
		b.Publish(model.GameEventFromEngine(game, e, at))
	}
}

// PublishPlayerJoined announces a new lobby member
func (b *Broadcaster) PublishPlayerJoined(code model.LobbyCode, player model.Player, role model.LobbyMemberRole, at time.Time) {
	b.Publish(model.Event{
		Type:      model.EventPlayerJoined,
		Timestamp: at,
		LobbyCode: code,
		PlayerID:  player.ID,
		Payload:   model.PlayerJoinedPayload{DisplayName: player.DisplayName, Role: role},
	})
}

// PublishPlayerLeft announces a member leaving
func (b *Broadcaster) PublishPlayerLeft(code model.LobbyCode, player model.Player, at time.Time) {
	b.Publish(model.Event{
		Type:      model.EventPlayerLeft,
		Timestamp: at,
		LobbyCode: code,
		PlayerID:  player.ID,
		Payload:   model.PlayerLeftPayload{DisplayName: player.DisplayName},
	})
}

// PublishHostChanged announces a new host
func (b *Broadcaster) PublishHostChanged(code model.LobbyCode, oldHost, newHost model.PlayerID, at time.Time) {
	b.Publish(model.Event{
		Type:      model.EventHostChanged,
		Timestamp: at,
		LobbyCode: code,
		PlayerID:  newHost,
		Payload:   model.HostChangedPayload{OldHostID: oldHost, NewHostID: newHost},
	})
}

// PublishRoleChanged announces a member sitting down or standing up
func (b *Broadcaster) PublishRoleChanged(code model.LobbyCode, playerID model.PlayerID, role model.LobbyMemberRole, at time.Time) {
	b.Publish(model.Event{
		Type:      model.EventRoleChanged,
		Timestamp: at,
		LobbyCode: code,
		PlayerID:  playerID,
		Payload:   model.RoleChangedPayload{Role: role},
	})
}

// PublishGameStarted announces a new game and its seats
func (b *Broadcaster) PublishGameStarted(game *model.Game, at time.Time) {
	b.Publish(model.Event{
		Type:      model.EventGameStarted,
		Timestamp: at,
		LobbyCode: game.LobbyCode,
		GameID:    game.ID,
		Payload: model.GameStartedPayload{
			Player1: game.PlayerFor(engine.Player1),
			Player2: game.PlayerFor(engine.Player2),
		},
	})
}

// PublishGameAbandoned announces that the game ended early
func (b *Broadcaster) PublishGameAbandoned(code model.LobbyCode, gameID model.GameID, by model.PlayerID, at time.Time) {
	b.Publish(model.Event{
		Type:      model.EventGameAbandoned,
		Timestamp: at,
		LobbyCode: code,
		GameID:    gameID,
		PlayerID:  by,
	})
}
