package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Lobby errors
	ErrLobbyNotFound       = errors.New("lobby not found")
	ErrAlreadyInLobby      = errors.New("player is already in lobby")
	ErrNotInLobby          = errors.New("player is not in lobby")
	ErrNotHost             = errors.New("player is not the host")
	ErrGameInProgress      = errors.New("game is in progress")
	ErrNoGameInProgress    = errors.New("no game in progress")
	ErrInsufficientPlayers = errors.New("exactly two seated players are needed to start")
	ErrNoFreeSeat          = errors.New("both seats are taken")

	// Game errors
	ErrGameNotFound     = errors.New("game not found")
	ErrNotPlayerTurn    = errors.New("not this player's turn")
	ErrNotSeated        = errors.New("player is not seated in this game")
	ErrInvalidPosition  = errors.New("invalid board position")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrNoCapture        = errors.New("placement captures no pieces")
	ErrGameComplete     = errors.New("game is already complete")
	ErrGameAbandoned    = errors.New("game has been abandoned")
	ErrCorruptGameState = errors.New("stored game state is corrupt")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)
