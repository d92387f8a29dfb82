package lobby

import (
	"context"
	"log/slog"

	"github.com/mcoot/reversigame-go/internal/dependencies/clock"
	"github.com/mcoot/reversigame-go/internal/dependencies/random"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/game"
	"github.com/mcoot/reversigame-go/internal/storage"
)

const (
	// LobbyCodeLength is the length of generated lobby codes
	LobbyCodeLength = 6
	// LobbyCodeAlphabet is the characters used in lobby codes (avoid confusing chars)
	LobbyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller manages lobby membership, the two seats and the game lifecycle
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewController creates a new LobbyController
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		clock:          clock,
		random:         random,
		logger:         logger,
	}
}

// CreateLobby creates a new lobby with the given player as host, seated
func (c *Controller) CreateLobby(ctx context.Context, host model.Player) (*model.Lobby, error) {
	now := c.clock.Now()

	// Generate unique lobby code
	var code model.LobbyCode
	for {
		code = model.LobbyCode(c.random.String(LobbyCodeLength, LobbyCodeAlphabet))
		exists, err := c.storage.LobbyExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	lobby := &model.Lobby{
		Code:  code,
		State: model.LobbyStateWaiting,
		Members: []model.LobbyMember{
			{
				Player:   host,
				Role:     model.RolePlayer,
				IsHost:   true,
				JoinedAt: now,
			},
		},
		GameHistory: []model.GameSummary{},
		CurrentGame: nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.logger.Info("lobby created",
		slog.String("lobby_code", string(code)),
		slog.String("host_id", string(host.ID)),
	)

	return lobby, nil
}

// GetLobby retrieves a lobby by code
func (c *Controller) GetLobby(ctx context.Context, code model.LobbyCode) (*model.Lobby, error) {
	return c.storage.GetLobby(ctx, code)
}

// JoinLobby adds a player to a lobby. The player takes a free seat when
// no game is running, otherwise they watch.
func (c *Controller) JoinLobby(ctx context.Context, code model.LobbyCode, player model.Player) (model.LobbyMemberRole, error) {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return "", err
	}

	// Check if already in lobby
	if lobby.GetMember(player.ID) != nil {
		return "", model.ErrAlreadyInLobby
	}

	role := model.RoleSpectator
	if lobby.State == model.LobbyStateWaiting && lobby.HasFreeSeat() {
		role = model.RolePlayer
	}

	lobby.Members = append(lobby.Members, model.LobbyMember{
		Player:   player,
		Role:     role,
		IsHost:   false,
		JoinedAt: c.clock.Now(),
	})
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return "", err
	}
	return role, nil
}

// LeaveLobby removes a player from a lobby. A seated player leaving
// mid-game abandons the game, and the longest-waiting spectator takes the
// free seat.
func (c *Controller) LeaveLobby(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) error {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return err
	}

	member := lobby.GetMember(playerID)
	if member == nil {
		return model.ErrNotInLobby
	}

	wasHost := member.IsHost
	wasPlayer := member.Role == model.RolePlayer

	// Remove member
	for i, m := range lobby.Members {
		if m.Player.ID == playerID {
			lobby.Members = append(lobby.Members[:i], lobby.Members[i+1:]...)
			break
		}
	}

	// A game cannot continue without both seats
	if wasPlayer && lobby.CurrentGame != nil {
		if err := c.endCurrentGame(ctx, lobby); err != nil {
			return err
		}
	}

	// If lobby is now empty, delete it
	if len(lobby.Members) == 0 {
		return c.storage.DeleteLobby(ctx, code)
	}

	// If host left, assign new host
	if wasHost {
		lobby.Members[0].IsHost = true
	}

	if wasPlayer {
		c.fillSeat(lobby)
	}

	lobby.UpdatedAt = c.clock.Now()
	return c.storage.SaveLobby(ctx, lobby)
}

// fillSeat seats the earliest spectator if a seat is free
func (c *Controller) fillSeat(lobby *model.Lobby) {
	if !lobby.HasFreeSeat() {
		return
	}
	for i := range lobby.Members {
		if lobby.Members[i].Role == model.RoleSpectator {
			lobby.Members[i].Role = model.RolePlayer
			return
		}
	}
}

// endCurrentGame abandons the running game and records it in the history
func (c *Controller) endCurrentGame(ctx context.Context, lobby *model.Lobby) error {
	gameID := *lobby.CurrentGame
	if err := c.gameController.AbandonGame(ctx, gameID); err != nil {
		return err
	}

	summary, err := c.gameController.CreateGameSummary(ctx, gameID)
	if err != nil {
		c.logger.Warn("failed to summarise abandoned game",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
	} else {
		lobby.GameHistory = append(lobby.GameHistory, *summary)
	}

	lobby.State = model.LobbyStateWaiting
	lobby.CurrentGame = nil
	return nil
}

// SetRole moves a member between a seat and the spectators
func (c *Controller) SetRole(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, role model.LobbyMemberRole) error {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return err
	}

	// Cannot change roles during a game
	if lobby.State == model.LobbyStateInGame {
		return model.ErrGameInProgress
	}

	member := lobby.GetMember(playerID)
	if member == nil {
		return model.ErrNotInLobby
	}

	if member.Role == role {
		return nil
	}
	if role == model.RolePlayer && !lobby.HasFreeSeat() {
		return model.ErrNoFreeSeat
	}

	member.Role = role
	lobby.UpdatedAt = c.clock.Now()

	return c.storage.SaveLobby(ctx, lobby)
}

// TransferHost makes another member the host
func (c *Controller) TransferHost(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID, newHostID model.PlayerID) error {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return err
	}

	// Verify requester is current host
	currentHost := lobby.GetHost()
	if currentHost == nil || currentHost.Player.ID != requestingPlayer {
		return model.ErrNotHost
	}

	// Verify new host is in lobby
	newHost := lobby.GetMember(newHostID)
	if newHost == nil {
		return model.ErrNotInLobby
	}

	// Transfer host
	currentHost.IsHost = false
	newHost.IsHost = true
	lobby.UpdatedAt = c.clock.Now()

	return c.storage.SaveLobby(ctx, lobby)
}

// StartGame begins a new game between the two seated players. A seated
// host plays first as Player1.
func (c *Controller) StartGame(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID) (*model.Game, error) {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return nil, err
	}

	// Verify requester is host
	host := lobby.GetHost()
	if host == nil || host.Player.ID != requestingPlayer {
		return nil, model.ErrNotHost
	}

	// Cannot start if game in progress
	if lobby.State == model.LobbyStateInGame {
		return nil, model.ErrGameInProgress
	}

	players := lobby.GetPlayers()
	if len(players) != model.MaxSeatedPlayers {
		return nil, model.ErrInsufficientPlayers
	}

	seats := [2]model.PlayerID{players[0].Player.ID, players[1].Player.ID}
	g, err := c.gameController.CreateGame(ctx, code, seats)
	if err != nil {
		return nil, err
	}

	// Update lobby state
	lobby.State = model.LobbyStateInGame
	lobby.CurrentGame = &g.ID
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	return g, nil
}

// AbandonGame ends the current game; only the host may do this
func (c *Controller) AbandonGame(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID) error {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return err
	}

	// Verify requester is host
	host := lobby.GetHost()
	if host == nil || host.Player.ID != requestingPlayer {
		return model.ErrNotHost
	}

	// Must have game in progress
	if lobby.State != model.LobbyStateInGame || lobby.CurrentGame == nil {
		return model.ErrNoGameInProgress
	}

	if err := c.endCurrentGame(ctx, lobby); err != nil {
		return err
	}

	lobby.UpdatedAt = c.clock.Now()
	return c.storage.SaveLobby(ctx, lobby)
}

// CompleteGame records the finished game and reopens the lobby
func (c *Controller) CompleteGame(ctx context.Context, code model.LobbyCode) error {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return err
	}

	if lobby.CurrentGame == nil {
		return model.ErrNoGameInProgress
	}

	// Create game summary
	summary, err := c.gameController.CreateGameSummary(ctx, *lobby.CurrentGame)
	if err != nil {
		return err
	}

	// Add to history
	lobby.GameHistory = append(lobby.GameHistory, *summary)
	lobby.State = model.LobbyStateWaiting
	lobby.CurrentGame = nil
	lobby.UpdatedAt = c.clock.Now()

	c.logger.Info("game recorded",
		slog.String("lobby_code", string(code)),
		slog.String("game_id", string(summary.ID)),
		slog.String("winner", string(summary.Winner)),
	)

	return c.storage.SaveLobby(ctx, lobby)
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateLobby(ctx context.Context, host model.Player) (*model.Lobby, error)
	GetLobby(ctx context.Context, code model.LobbyCode) (*model.Lobby, error)
	JoinLobby(ctx context.Context, code model.LobbyCode, player model.Player) (model.LobbyMemberRole, error)
	LeaveLobby(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) error
	SetRole(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, role model.LobbyMemberRole) error
	TransferHost(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID, newHostID model.PlayerID) error
	StartGame(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID) (*model.Game, error)
	AbandonGame(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID) error
	CompleteGame(ctx context.Context, code model.LobbyCode) error
}

var _ ControllerInterface = (*Controller)(nil)
