package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/reversigame-go/internal/api/middleware"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/lobby"
	"github.com/mcoot/reversigame-go/internal/web/sse"
)

// EventsHandler streams lobby and game events
type EventsHandler struct {
	lobbyController *lobby.Controller
	hubManager      *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(lobbyController *lobby.Controller, hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		lobbyController: lobbyController,
		hubManager:      hubManager,
	}
}

// Stream handles GET /api/v1/lobbies/{code}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	lob, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	if lob.GetMember(player.ID) == nil {
		WriteError(w, model.ErrNotInLobby)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, player.ID)
}
