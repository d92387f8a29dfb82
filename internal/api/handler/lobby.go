package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/reversigame-go/internal/api/middleware"
	"github.com/mcoot/reversigame-go/internal/api/request"
	"github.com/mcoot/reversigame-go/internal/api/response"
	"github.com/mcoot/reversigame-go/internal/dependencies/clock"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/lobby"
	"github.com/mcoot/reversigame-go/internal/web/sse"
)

// LobbyHandler handles lobby-related endpoints
type LobbyHandler struct {
	lobbyController *lobby.Controller
	broadcaster     *sse.Broadcaster
	clock           clock.Clock
}

// NewLobbyHandler creates a new lobby handler. broadcaster may be nil.
func NewLobbyHandler(lobbyController *lobby.Controller, broadcaster *sse.Broadcaster, clock clock.Clock) *LobbyHandler {
	return &LobbyHandler{
		lobbyController: lobbyController,
		broadcaster:     broadcaster,
		clock:           clock,
	}
}

// Create handles POST /api/v1/lobbies
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	lobby, err := h.lobbyController.CreateLobby(r.Context(), *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LobbyFromModel(lobby))
}

// Get handles GET /api/v1/lobbies/{code}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])

	lobby, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// Join handles POST /api/v1/lobbies/{code}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	role, err := h.lobbyController.JoinLobby(r.Context(), code, *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	lobby, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.PublishPlayerJoined(code, *player, role, h.clock.Now())
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// Leave handles POST /api/v1/lobbies/{code}/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	before, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.lobbyController.LeaveLobby(r.Context(), code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		now := h.clock.Now()
		h.broadcaster.PublishPlayerLeft(code, *player, now)

		// The lobby is gone once its last member leaves
		after, err := h.lobbyController.GetLobby(r.Context(), code)
		if err == nil {
			if before.CurrentGame != nil && after.CurrentGame == nil {
				h.broadcaster.PublishGameAbandoned(code, *before.CurrentGame, player.ID, now)
			}
			oldHost, newHost := before.GetHost(), after.GetHost()
			if oldHost != nil && newHost != nil && oldHost.Player.ID != newHost.Player.ID {
				h.broadcaster.PublishHostChanged(code, oldHost.Player.ID, newHost.Player.ID, now)
			}
			// A spectator may have been seated in place of the leaver
			for _, member := range after.Members {
				if prev := before.GetMember(member.Player.ID); prev != nil && prev.Role != member.Role {
					h.broadcaster.PublishRoleChanged(code, member.Player.ID, member.Role, now)
				}
			}
		}
	}

	response.NoContent(w)
}

// SetRole handles PATCH /api/v1/lobbies/{code}/members/{player_id}/role.
// Members may change their own role; the host may change anyone's.
func (h *LobbyHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)
	code := model.LobbyCode(vars["code"])
	target := model.PlayerID(vars["player_id"])

	var req request.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	role := model.LobbyMemberRole(req.Role)
	if role != model.RolePlayer && role != model.RoleSpectator {
		WriteError(w, NewInvalidRequestError("role must be player or spectator"))
		return
	}

	if target != player.ID {
		lobby, err := h.lobbyController.GetLobby(r.Context(), code)
		if err != nil {
			WriteError(w, err)
			return
		}
		if host := lobby.GetHost(); host == nil || host.Player.ID != player.ID {
			WriteError(w, model.ErrNotHost)
			return
		}
	}

	if err := h.lobbyController.SetRole(r.Context(), code, target, role); err != nil {
		WriteError(w, err)
		return
	}

	lobby, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.PublishRoleChanged(code, target, role, h.clock.Now())
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// TransferHost handles POST /api/v1/lobbies/{code}/transfer-host
func (h *LobbyHandler) TransferHost(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	var req request.TransferHostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.NewHostID == "" {
		WriteError(w, NewInvalidRequestError("new_host_id is required"))
		return
	}

	newHost := model.PlayerID(req.NewHostID)
	if err := h.lobbyController.TransferHost(r.Context(), code, player.ID, newHost); err != nil {
		WriteError(w, err)
		return
	}

	lobby, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.PublishHostChanged(code, player.ID, newHost, h.clock.Now())
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}
