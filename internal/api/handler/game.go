package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/reversigame-go/internal/api/middleware"
	"github.com/mcoot/reversigame-go/internal/api/request"
	"github.com/mcoot/reversigame-go/internal/api/response"
	"github.com/mcoot/reversigame-go/internal/dependencies/clock"
	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/game"
	"github.com/mcoot/reversigame-go/internal/services/lobby"
	"github.com/mcoot/reversigame-go/internal/web/sse"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	lobbyController *lobby.Controller
	gameController  *game.Controller
	broadcaster     *sse.Broadcaster
	clock           clock.Clock
	logger          *slog.Logger
}

// NewGameHandler creates a new game handler. broadcaster may be nil.
func NewGameHandler(
	lobbyController *lobby.Controller,
	gameController *game.Controller,
	broadcaster *sse.Broadcaster,
	clock clock.Clock,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		lobbyController: lobbyController,
		gameController:  gameController,
		broadcaster:     broadcaster,
		clock:           clock,
		logger:          logger,
	}
}

// Start handles POST /api/v1/lobbies/{code}/game
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	g, err := h.lobbyController.StartGame(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.PublishGameStarted(g, h.clock.Now())
	}

	view, err := h.gameView(r.Context(), g)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, view)
}

// Get handles GET /api/v1/lobbies/{code}/game. With no game in progress
// the lobby's most recent game is returned, so the final board stays
// visible after the game ends.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	lob, err := h.memberLobby(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	var g *model.Game
	if lob.CurrentGame != nil {
		g, err = h.gameController.GetGame(r.Context(), *lob.CurrentGame)
	} else {
		g, err = h.gameController.LatestGame(r.Context(), code)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.gameView(r.Context(), g)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}

// Place handles POST /api/v1/lobbies/{code}/game/place
func (h *GameHandler) Place(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	var req request.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.X == nil || req.Y == nil {
		WriteError(w, NewInvalidRequestError("x and y are required"))
		return
	}

	lob, err := h.memberLobby(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if lob.CurrentGame == nil {
		WriteError(w, model.ErrNoGameInProgress)
		return
	}

	pos := engine.Position{X: *req.X, Y: *req.Y}
	g, result, err := h.gameController.PlaceDisc(r.Context(), *lob.CurrentGame, player.ID, pos)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.PublishMove(g, result, h.clock.Now())
	}

	// The move is committed at this point, so a failure to update the
	// lobby is logged rather than reported to the mover
	if g.State == model.GameStateComplete {
		err := h.lobbyController.CompleteGame(r.Context(), code)
		switch {
		case errors.Is(err, model.ErrNoGameInProgress):
			h.logger.Warn("lobby no longer holds the finished game",
				slog.String("lobby_code", string(code)),
				slog.String("game_id", string(g.ID)),
			)
		case err != nil:
			h.logger.Error("failed to record finished game",
				slog.String("lobby_code", string(code)),
				slog.String("game_id", string(g.ID)),
				slog.Any("error", err),
			)
		}
	}

	view, err := h.gameView(r.Context(), g)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlaceResponseFromResult(view, result))
}

// Moves handles GET /api/v1/lobbies/{code}/game/moves
func (h *GameHandler) Moves(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	lob, err := h.memberLobby(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if lob.CurrentGame == nil {
		WriteError(w, model.ErrNoGameInProgress)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), *lob.CurrentGame)
	if err != nil {
		WriteError(w, err)
		return
	}

	moves, err := h.gameController.LegalMoves(r.Context(), g.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MovesResponse{
		ActivePlayer:   g.Engine.ActivePlayer,
		ActivePlayerID: string(g.ActivePlayerID()),
		Moves:          moves,
	})
}

// Abandon handles DELETE /api/v1/lobbies/{code}/game
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	lob, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.lobbyController.AbandonGame(r.Context(), code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil && lob.CurrentGame != nil {
		h.broadcaster.PublishGameAbandoned(code, *lob.CurrentGame, player.ID, h.clock.Now())
	}

	response.NoContent(w)
}

// memberLobby loads the lobby and checks the player belongs to it
func (h *GameHandler) memberLobby(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) (*model.Lobby, error) {
	lob, err := h.lobbyController.GetLobby(ctx, code)
	if err != nil {
		return nil, err
	}
	if lob.GetMember(playerID) == nil {
		return nil, model.ErrNotInLobby
	}
	return lob, nil
}

func (h *GameHandler) gameView(ctx context.Context, g *model.Game) (response.Game, error) {
	state, err := h.gameController.LoadState(g)
	if err != nil {
		return response.Game{}, err
	}

	var winner model.PlayerID
	if g.IsFinished() {
		summary, err := h.gameController.CreateGameSummary(ctx, g.ID)
		if err != nil {
			return response.Game{}, err
		}
		winner = summary.Winner
	}

	return response.GameFromModel(g, state, winner), nil
}
