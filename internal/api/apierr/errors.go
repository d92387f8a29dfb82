package apierr

import (
	"errors"
	"net/http"

	"github.com/mcoot/reversigame-go/internal/api/response"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidPosition     = "INVALID_POSITION"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotHost             = "NOT_HOST"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeNotSeated           = "NOT_SEATED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeLobbyNotFound       = "LOBBY_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeAlreadyInLobby      = "ALREADY_IN_LOBBY"
	CodeNotInLobby          = "NOT_IN_LOBBY"
	CodeNoFreeSeat          = "NO_FREE_SEAT"
	CodeGameInProgress      = "GAME_IN_PROGRESS"
	CodeNoGameInProgress    = "NO_GAME_IN_PROGRESS"
	CodeGameComplete        = "GAME_COMPLETE"
	CodeGameAbandoned       = "GAME_ABANDONED"
	CodeCellOccupied        = "CELL_OCCUPIED"
	CodeNoCapture           = "NO_CAPTURE"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	response.JSON(w, he.status, ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error is reported with
func Status(err error) int {
	return toHTTPError(err).status
}

// errorMapping pairs a sentinel error with its response
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// mappings is checked in order with errors.Is
var mappings = []errorMapping{
	// Model errors
	{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound, "Player not found"},
	{model.ErrLobbyNotFound, http.StatusNotFound, CodeLobbyNotFound, "Lobby not found"},
	{model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound, "Game not found"},
	{model.ErrAlreadyInLobby, http.StatusConflict, CodeAlreadyInLobby, "Already in this lobby"},
	{model.ErrNotInLobby, http.StatusNotFound, CodeNotInLobby, "Not in this lobby"},
	{model.ErrNotHost, http.StatusForbidden, CodeNotHost, "Only the host can perform this action"},
	{model.ErrNoFreeSeat, http.StatusConflict, CodeNoFreeSeat, "Both seats are taken"},
	{model.ErrGameInProgress, http.StatusConflict, CodeGameInProgress, "Game is in progress"},
	{model.ErrNoGameInProgress, http.StatusNotFound, CodeNoGameInProgress, "No game in progress"},
	{model.ErrInsufficientPlayers, http.StatusConflict, CodeInsufficientPlayers, "Two seated players are needed to start"},
	{model.ErrNotPlayerTurn, http.StatusForbidden, CodeNotYourTurn, "Not your turn"},
	{model.ErrNotSeated, http.StatusForbidden, CodeNotSeated, "You are not playing in this game"},
	{model.ErrInvalidPosition, http.StatusBadRequest, CodeInvalidPosition, "Position is off the board"},
	{model.ErrCellOccupied, http.StatusConflict, CodeCellOccupied, "Cell is already occupied"},
	{model.ErrNoCapture, http.StatusUnprocessableEntity, CodeNoCapture, "Placement must capture at least one piece"},
	{model.ErrGameComplete, http.StatusConflict, CodeGameComplete, "Game is already complete"},
	{model.ErrGameAbandoned, http.StatusConflict, CodeGameAbandoned, "Game has been abandoned"},

	// Auth errors
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password"},
	{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session"},
	{auth.ErrUsernameExists, http.StatusConflict, CodeUsernameExists, "Username already exists"},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return &httpError{m.status, APIError{m.code, m.message}}
		}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
