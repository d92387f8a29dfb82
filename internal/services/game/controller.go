package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/reversigame-go/internal/dependencies/clock"
	"github.com/mcoot/reversigame-go/internal/dependencies/random"
	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/scoring"
	"github.com/mcoot/reversigame-go/internal/storage"
)

// Controller owns persisted games: seats, turn ownership and moves.
// Moves on the same game are serialized; the engine itself is not safe
// for concurrent use.
type Controller struct {
	storage        storage.Storage
	scoringService *scoring.Service
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
	locks          *gameLocks
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		scoringService: scoringService,
		clock:          clock,
		random:         random,
		logger:         logger,
		locks:          newGameLocks(),
	}
}

// CreateGame starts a game in the opening position. seats[0] plays
// Player1 and moves first.
func (c *Controller) CreateGame(ctx context.Context, lobbyCode model.LobbyCode, seats [2]model.PlayerID) (*model.Game, error) {
	if seats[0] == "" || seats[1] == "" || seats[0] == seats[1] {
		return nil, model.ErrInsufficientPlayers
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:        model.GameID(c.random.UUID()),
		LobbyCode: lobbyCode,
		State:     model.GameStatePlaying,
		Seats:     seats,
		Engine:    engine.NewGame().Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("lobby_code", string(lobbyCode)),
		slog.String("player1", string(seats[0])),
		slog.String("player2", string(seats[1])),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// LatestGame returns the most recently created game of a lobby, finished
// or not
func (c *Controller) LatestGame(ctx context.Context, code model.LobbyCode) (*model.Game, error) {
	games, err := c.storage.GetGamesForLobby(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, model.ErrNoGameInProgress
	}
	return games[len(games)-1], nil
}

// LoadState rebuilds the engine state of a stored game
func (c *Controller) LoadState(game *model.Game) (*engine.GameState, error) {
	state, err := engine.Restore(game.Engine)
	if err != nil {
		c.logger.Error("corrupt game state",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptGameState, err)
	}
	return state, nil
}

// PlaceDisc plays the player's piece at pos. The move must come from the
// seat whose turn it is. A rejected placement returns an error and leaves
// the stored game untouched; an applied one returns the saved game and
// the engine result carrying the emitted events.
func (c *Controller) PlaceDisc(ctx context.Context, gameID model.GameID, playerID model.PlayerID, pos engine.Position) (*model.Game, engine.MoveResult, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, engine.MoveResult{}, err
	}

	if err := checkPlayable(game); err != nil {
		return nil, engine.MoveResult{}, err
	}

	side, ok := game.SeatOf(playerID)
	if !ok {
		return nil, engine.MoveResult{}, model.ErrNotSeated
	}

	state, err := c.LoadState(game)
	if err != nil {
		return nil, engine.MoveResult{}, err
	}

	if state.ActivePlayer() != side {
		return nil, engine.MoveResult{}, model.ErrNotPlayerTurn
	}

	result := state.AttemptMove(pos.X, pos.Y)
	if !result.Applied() {
		c.logger.Debug("placement rejected",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
			slog.Int("x", pos.X),
			slog.Int("y", pos.Y),
			slog.String("reason", string(result.Rejection())),
		)
		return nil, result, rejectionError(result.Rejection())
	}

	placed := result.Outcome.Position
	game.Engine = state.Snapshot()
	game.LastMove = &placed
	game.UpdatedAt = c.clock.Now()
	if state.IsGameOver() {
		game.State = model.GameStateComplete
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, engine.MoveResult{}, err
	}

	p1, p2 := state.Scores()
	c.logger.Info("piece placed",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Int("x", pos.X),
		slog.Int("y", pos.Y),
		slog.Int("flipped", result.Outcome.Flipped),
		slog.Int("player1_score", p1),
		slog.Int("player2_score", p2),
	)

	if game.State == model.GameStateComplete {
		c.logger.Info("game completed",
			slog.String("game_id", string(game.ID)),
			slog.String("lobby_code", string(game.LobbyCode)),
			slog.Int("moves", state.MoveCount()),
		)
	}

	return game, result, nil
}

// checkPlayable returns the error for a game that can no longer take moves
func checkPlayable(game *model.Game) error {
	switch game.State {
	case model.GameStateComplete:
		return model.ErrGameComplete
	case model.GameStateAbandoned:
		return model.ErrGameAbandoned
	}
	return nil
}

// rejectionError maps an engine rejection onto the service error
func rejectionError(r engine.Rejection) error {
	switch r {
	case engine.Occupied:
		return model.ErrCellOccupied
	case engine.NoCapture:
		return model.ErrNoCapture
	case engine.OutOfBounds:
		return model.ErrInvalidPosition
	}
	return fmt.Errorf("unexpected rejection %q", r)
}

// LegalMoves returns the placements open to the player whose turn it is
func (c *Controller) LegalMoves(ctx context.Context, gameID model.GameID) ([]engine.Position, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.IsFinished() {
		return []engine.Position{}, nil
	}

	state, err := c.LoadState(game)
	if err != nil {
		return nil, err
	}

	moves := state.LegalMoves()
	if moves == nil {
		moves = []engine.Position{}
	}
	return moves, nil
}

// AbandonGame ends a game prematurely
func (c *Controller) AbandonGame(ctx context.Context, gameID model.GameID) error {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	if game.IsFinished() {
		return nil // Already finished
	}

	game.State = model.GameStateAbandoned
	game.UpdatedAt = c.clock.Now()

	c.logger.Info("game abandoned",
		slog.String("game_id", string(gameID)),
		slog.String("lobby_code", string(game.LobbyCode)),
	)

	return c.storage.SaveGame(ctx, game)
}

// GetFinalScores returns the piece counts of a finished game
func (c *Controller) GetFinalScores(ctx context.Context, gameID model.GameID) ([]model.PlayerScore, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if !game.IsFinished() {
		return nil, model.ErrGameInProgress
	}

	return c.scoringService.ScoreGame(game)
}

// CreateGameSummary creates a summary record for a finished game.
// Abandoned games keep their piece counts but have no winner.
func (c *Controller) CreateGameSummary(ctx context.Context, gameID model.GameID) (*model.GameSummary, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if !game.IsFinished() {
		return nil, model.ErrGameInProgress
	}

	scores, err := c.scoringService.ScoreGame(game)
	if err != nil {
		return nil, err
	}

	summary := &model.GameSummary{
		ID:          gameID,
		FinalScores: c.scoringService.ScoreMap(scores),
		Abandoned:   game.State == model.GameStateAbandoned,
		CompletedAt: c.clock.Now(),
	}
	if !summary.Abandoned {
		summary.Winner = c.scoringService.DetermineWinner(scores)
	}

	return summary, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, lobbyCode model.LobbyCode, seats [2]model.PlayerID) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	LatestGame(ctx context.Context, code model.LobbyCode) (*model.Game, error)
	LoadState(game *model.Game) (*engine.GameState, error)
	PlaceDisc(ctx context.Context, gameID model.GameID, playerID model.PlayerID, pos engine.Position) (*model.Game, engine.MoveResult, error)
	LegalMoves(ctx context.Context, gameID model.GameID) ([]engine.Position, error)
	AbandonGame(ctx context.Context, gameID model.GameID) error
	GetFinalScores(ctx context.Context, gameID model.GameID) ([]model.PlayerScore, error)
	CreateGameSummary(ctx context.Context, gameID model.GameID) (*model.GameSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
