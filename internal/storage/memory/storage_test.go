package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newGame(id model.GameID, lobby model.LobbyCode, createdAt time.Time) *model.Game {
	return &model.Game{
		ID:        id,
		LobbyCode: lobby,
		State:     model.GameStatePlaying,
		Seats:     [2]model.PlayerID{"p1", "p2"},
		Engine:    engine.NewGame().Snapshot(),
		CreatedAt: createdAt,
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     false,
		CreatedAt:   time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
	}
	_ = s.storage.SaveRegisteredPlayer(s.ctx, rp)

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("player-1", string(retrieved.PlayerID))

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *StorageSuite) TestSaveGetDeleteSession() {
	session := &model.Session{
		Token:     "sess_1",
		PlayerID:  "player-1",
		Player:    model.Player{ID: "player-1", DisplayName: "Alice"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "sess_1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Player.DisplayName)

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "sess_1"))
	_, err = s.storage.GetSession(s.ctx, "sess_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteExpiredSessions() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveSession(s.ctx, &model.Session{Token: "old", ExpiresAt: now.Add(-time.Minute)})
	_ = s.storage.SaveSession(s.ctx, &model.Session{Token: "new", ExpiresAt: now.Add(time.Minute)})

	s.Equal(1, s.storage.DeleteExpiredSessions(now))

	_, err := s.storage.GetSession(s.ctx, "old")
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.storage.GetSession(s.ctx, "new")
	s.NoError(err)
}

// Lobby tests

func (s *StorageSuite) TestSaveAndGetLobby() {
	lobby := &model.Lobby{
		Code:      "ABC123",
		State:     model.LobbyStateWaiting,
		CreatedAt: time.Now(),
	}

	err := s.storage.SaveLobby(s.ctx, lobby)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetLobby(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(lobby.Code, retrieved.Code)
	s.Equal(lobby.State, retrieved.State)
}

func (s *StorageSuite) TestGetLobbyReturnsCopy() {
	lobby := &model.Lobby{
		Code:    "ABC123",
		Members: []model.LobbyMember{{Player: model.Player{ID: "p1"}, Role: model.RolePlayer}},
	}
	_ = s.storage.SaveLobby(s.ctx, lobby)

	retrieved, _ := s.storage.GetLobby(s.ctx, "ABC123")
	retrieved.Members[0].Role = model.RoleSpectator

	again, _ := s.storage.GetLobby(s.ctx, "ABC123")
	s.Equal(model.RolePlayer, again.Members[0].Role)
}

func (s *StorageSuite) TestGetLobbyNotFound() {
	_, err := s.storage.GetLobby(s.ctx, "NONEXISTENT")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *StorageSuite) TestLobbyExists() {
	lobby := &model.Lobby{Code: "ABC123", State: model.LobbyStateWaiting}
	_ = s.storage.SaveLobby(s.ctx, lobby)

	exists, err := s.storage.LobbyExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.LobbyExists(s.ctx, "NONEXISTENT")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteLobby() {
	lobby := &model.Lobby{Code: "ABC123", State: model.LobbyStateWaiting}
	_ = s.storage.SaveLobby(s.ctx, lobby)

	err := s.storage.DeleteLobby(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetLobby(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := newGame("game-1", "ABC123", time.Now())

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.State, retrieved.State)
	s.Equal(game.Seats, retrieved.Seats)
	s.Equal(game.Engine, retrieved.Engine)
}

func (s *StorageSuite) TestSavedGameIsIsolatedFromCaller() {
	game := newGame("game-1", "ABC123", time.Now())
	_ = s.storage.SaveGame(s.ctx, game)

	game.Engine.Board[0] = "11111111"
	game.State = model.GameStateAbandoned

	retrieved, _ := s.storage.GetGame(s.ctx, "game-1")
	s.Equal(model.GameStatePlaying, retrieved.State)
	s.Equal("........", retrieved.Engine.Board[0])
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "ABC123", time.Now()))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))
	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGetGamesForLobby() {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveGame(s.ctx, newGame("game-2", "ABC123", start.Add(time.Minute)))
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "ABC123", start))
	_ = s.storage.SaveGame(s.ctx, newGame("game-3", "OTHER1", start))

	games, err := s.storage.GetGamesForLobby(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("game-1"), games[0].ID)
	s.Equal(model.GameID("game-2"), games[1].ID)
}

func (s *StorageSuite) TestGetGamesForLobbyTiesOrderedByID() {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []model.GameID{"game-c", "game-a", "game-b"} {
		_ = s.storage.SaveGame(s.ctx, newGame(id, "ABC123", start))
	}

	for i := 0; i < 5; i++ {
		games, err := s.storage.GetGamesForLobby(s.ctx, "ABC123")
		s.Require().NoError(err)
		s.Require().Len(games, 3)
		s.Equal(model.GameID("game-a"), games[0].ID)
		s.Equal(model.GameID("game-b"), games[1].ID)
		s.Equal(model.GameID("game-c"), games[2].ID)
	}
}
