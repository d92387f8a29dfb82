package lobby

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/reversigame-go/internal/dependencies/mocks"
	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/game"
	"github.com/mcoot/reversigame-go/internal/services/scoring"
	"github.com/mcoot/reversigame-go/internal/storage/memory"
	"github.com/mcoot/reversigame-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage        *memory.Storage
	gameController *game.Controller
	clock          *mocks.MockClock
	random         *mocks.MockRandom
	controller     *Controller
	ctx            context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.gameController = game.NewController(s.storage, scoring.New(), s.clock, s.random, logger)
	s.controller = NewController(s.storage, s.gameController, s.clock, s.random, logger)
	s.ctx = context.Background()
}

func (s *ControllerSuite) createPlayer(id string, name string) model.Player {
	return model.Player{
		ID:          model.PlayerID(id),
		DisplayName: name,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}
}

// createLobby makes ABC123 hosted by alice
func (s *ControllerSuite) createLobby() *model.Lobby {
	s.random.QueueString("ABC123")
	lobby, err := s.controller.CreateLobby(s.ctx, s.createPlayer("alice", "Alice"))
	s.Require().NoError(err)
	return lobby
}

func (s *ControllerSuite) join(id, name string) model.LobbyMemberRole {
	role, err := s.controller.JoinLobby(s.ctx, "ABC123", s.createPlayer(id, name))
	s.Require().NoError(err)
	return role
}

// startGame seats bob and starts a game; alice is Player1
func (s *ControllerSuite) startGame() *model.Game {
	s.createLobby()
	s.join("bob", "Bob")
	s.random.QueueUUID("game-1")
	g, err := s.controller.StartGame(s.ctx, "ABC123", "alice")
	s.Require().NoError(err)
	return g
}

func (s *ControllerSuite) lobby() *model.Lobby {
	lobby, err := s.controller.GetLobby(s.ctx, "ABC123")
	s.Require().NoError(err)
	return lobby
}

// CreateLobby tests

func (s *ControllerSuite) TestCreateLobbySucceeds() {
	lobby := s.createLobby()

	s.Equal(model.LobbyCode("ABC123"), lobby.Code)
	s.Equal(model.LobbyStateWaiting, lobby.State)
	s.Require().Len(lobby.Members, 1)
	s.True(lobby.Members[0].IsHost)
	s.Equal(model.RolePlayer, lobby.Members[0].Role)
	s.Nil(lobby.CurrentGame)
	s.Empty(lobby.GameHistory)
}

func (s *ControllerSuite) TestCreateLobbyRetriesTakenCode() {
	s.createLobby()
	s.random.QueueString("ABC123", "XYZ789")

	lobby, err := s.controller.CreateLobby(s.ctx, s.createPlayer("bob", "Bob"))
	s.Require().NoError(err)
	s.Equal(model.LobbyCode("XYZ789"), lobby.Code)
}

// JoinLobby tests

func (s *ControllerSuite) TestJoinLobbyTakesFreeSeat() {
	s.createLobby()

	s.Equal(model.RolePlayer, s.join("bob", "Bob"))

	lobby := s.lobby()
	s.Len(lobby.GetPlayers(), 2)
	s.False(lobby.HasFreeSeat())
}

func (s *ControllerSuite) TestJoinFullLobbyAsSpectator() {
	s.createLobby()
	s.join("bob", "Bob")

	s.Equal(model.RoleSpectator, s.join("carol", "Carol"))
	s.Len(s.lobby().GetPlayers(), 2)
}

func (s *ControllerSuite) TestJoinLobbyDuringGameAsSpectator() {
	s.startGame()

	s.Equal(model.RoleSpectator, s.join("carol", "Carol"))
}

func (s *ControllerSuite) TestJoinLobbyFailsIfAlreadyMember() {
	s.createLobby()

	_, err := s.controller.JoinLobby(s.ctx, "ABC123", s.createPlayer("alice", "Alice"))
	s.ErrorIs(err, model.ErrAlreadyInLobby)
}

func (s *ControllerSuite) TestJoinLobbyFailsIfNotFound() {
	_, err := s.controller.JoinLobby(s.ctx, "NOPE00", s.createPlayer("bob", "Bob"))
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// LeaveLobby tests

func (s *ControllerSuite) TestLeaveLobbySucceeds() {
	s.createLobby()
	s.join("bob", "Bob")

	s.Require().NoError(s.controller.LeaveLobby(s.ctx, "ABC123", "bob"))

	lobby := s.lobby()
	s.Len(lobby.Members, 1)
	s.Nil(lobby.GetMember("bob"))
}

func (s *ControllerSuite) TestLeaveLobbyDeletesEmptyLobby() {
	s.createLobby()

	s.Require().NoError(s.controller.LeaveLobby(s.ctx, "ABC123", "alice"))

	_, err := s.controller.GetLobby(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *ControllerSuite) TestLeaveLobbyTransfersHost() {
	s.createLobby()
	s.join("bob", "Bob")

	s.Require().NoError(s.controller.LeaveLobby(s.ctx, "ABC123", "alice"))

	host := s.lobby().GetHost()
	s.Require().NotNil(host)
	s.Equal(model.PlayerID("bob"), host.Player.ID)
}

func (s *ControllerSuite) TestLeaveLobbySeatsWaitingSpectator() {
	s.createLobby()
	s.join("bob", "Bob")
	s.join("carol", "Carol")

	s.Require().NoError(s.controller.LeaveLobby(s.ctx, "ABC123", "bob"))

	carol := s.lobby().GetMember("carol")
	s.Require().NotNil(carol)
	s.Equal(model.RolePlayer, carol.Role)
}

func (s *ControllerSuite) TestSeatedPlayerLeavingAbandonsGame() {
	s.startGame()
	s.join("carol", "Carol")

	s.Require().NoError(s.controller.LeaveLobby(s.ctx, "ABC123", "bob"))

	lobby := s.lobby()
	s.Equal(model.LobbyStateWaiting, lobby.State)
	s.Nil(lobby.CurrentGame)
	s.Require().Len(lobby.GameHistory, 1)
	s.True(lobby.GameHistory[0].Abandoned)
	s.Equal(model.RolePlayer, lobby.GetMember("carol").Role)

	g, err := s.gameController.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GameStateAbandoned, g.State)
}

func (s *ControllerSuite) TestSpectatorLeavingKeepsGame() {
	s.startGame()
	s.join("carol", "Carol")

	s.Require().NoError(s.controller.LeaveLobby(s.ctx, "ABC123", "carol"))

	lobby := s.lobby()
	s.Equal(model.LobbyStateInGame, lobby.State)
	s.NotNil(lobby.CurrentGame)
}

func (s *ControllerSuite) TestLeaveLobbyFailsIfNotMember() {
	s.createLobby()

	err := s.controller.LeaveLobby(s.ctx, "ABC123", "nobody")
	s.ErrorIs(err, model.ErrNotInLobby)
}

// SetRole tests

func (s *ControllerSuite) TestSetRoleSucceeds() {
	s.createLobby()
	s.join("bob", "Bob")

	s.Require().NoError(s.controller.SetRole(s.ctx, "ABC123", "bob", model.RoleSpectator))

	s.Equal(model.RoleSpectator, s.lobby().GetMember("bob").Role)
	s.True(s.lobby().HasFreeSeat())
}

func (s *ControllerSuite) TestSetRoleFailsWhenSeatsTaken() {
	s.createLobby()
	s.join("bob", "Bob")
	s.join("carol", "Carol")

	err := s.controller.SetRole(s.ctx, "ABC123", "carol", model.RolePlayer)
	s.ErrorIs(err, model.ErrNoFreeSeat)
}

func (s *ControllerSuite) TestSetRoleFailsDuringGame() {
	s.startGame()

	err := s.controller.SetRole(s.ctx, "ABC123", "bob", model.RoleSpectator)
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *ControllerSuite) TestSetRoleFailsIfNotMember() {
	s.createLobby()

	err := s.controller.SetRole(s.ctx, "ABC123", "nobody", model.RoleSpectator)
	s.ErrorIs(err, model.ErrNotInLobby)
}

// TransferHost tests

func (s *ControllerSuite) TestTransferHostSucceeds() {
	s.createLobby()
	s.join("bob", "Bob")

	s.Require().NoError(s.controller.TransferHost(s.ctx, "ABC123", "alice", "bob"))

	lobby := s.lobby()
	s.Equal(model.PlayerID("bob"), lobby.GetHost().Player.ID)
	s.False(lobby.GetMember("alice").IsHost)
}

func (s *ControllerSuite) TestTransferHostFailsIfNotHost() {
	s.createLobby()
	s.join("bob", "Bob")

	err := s.controller.TransferHost(s.ctx, "ABC123", "bob", "bob")
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ControllerSuite) TestTransferHostFailsIfTargetNotInLobby() {
	s.createLobby()

	err := s.controller.TransferHost(s.ctx, "ABC123", "alice", "nobody")
	s.ErrorIs(err, model.ErrNotInLobby)
}

// StartGame tests

func (s *ControllerSuite) TestStartGameSeatsHostAsPlayer1() {
	g := s.startGame()

	s.Equal(model.GameID("game-1"), g.ID)
	s.Equal([2]model.PlayerID{"alice", "bob"}, g.Seats)
	s.Equal(engine.Player1, g.Engine.ActivePlayer)

	lobby := s.lobby()
	s.Equal(model.LobbyStateInGame, lobby.State)
	s.Require().NotNil(lobby.CurrentGame)
	s.Equal(g.ID, *lobby.CurrentGame)
}

func (s *ControllerSuite) TestStartGameAfterHostTransfer() {
	s.createLobby()
	s.join("bob", "Bob")
	s.Require().NoError(s.controller.TransferHost(s.ctx, "ABC123", "alice", "bob"))

	g, err := s.controller.StartGame(s.ctx, "ABC123", "bob")
	s.Require().NoError(err)
	s.Equal([2]model.PlayerID{"bob", "alice"}, g.Seats)
}

func (s *ControllerSuite) TestStartGameFailsIfNotHost() {
	s.createLobby()
	s.join("bob", "Bob")

	_, err := s.controller.StartGame(s.ctx, "ABC123", "bob")
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ControllerSuite) TestStartGameFailsIfGameInProgress() {
	s.startGame()

	_, err := s.controller.StartGame(s.ctx, "ABC123", "alice")
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *ControllerSuite) TestStartGameNeedsTwoSeatedPlayers() {
	s.createLobby()

	_, err := s.controller.StartGame(s.ctx, "ABC123", "alice")
	s.ErrorIs(err, model.ErrInsufficientPlayers)
}

// AbandonGame tests

func (s *ControllerSuite) TestAbandonGameSucceeds() {
	s.startGame()

	s.Require().NoError(s.controller.AbandonGame(s.ctx, "ABC123", "alice"))

	lobby := s.lobby()
	s.Equal(model.LobbyStateWaiting, lobby.State)
	s.Nil(lobby.CurrentGame)
	s.Require().Len(lobby.GameHistory, 1)
	s.True(lobby.GameHistory[0].Abandoned)
	s.Equal(2, lobby.GameHistory[0].FinalScores["alice"])
}

func (s *ControllerSuite) TestAbandonGameFailsIfNotHost() {
	s.startGame()

	err := s.controller.AbandonGame(s.ctx, "ABC123", "bob")
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ControllerSuite) TestAbandonGameFailsIfNoGame() {
	s.createLobby()

	err := s.controller.AbandonGame(s.ctx, "ABC123", "alice")
	s.ErrorIs(err, model.ErrNoGameInProgress)
}

// CompleteGame tests

func (s *ControllerSuite) TestCompleteGameAddsToHistory() {
	s.startGame()

	// Replace the game board with one that the next move fills
	g, err := s.gameController.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	g.Engine = engine.Snapshot{
		Board: []string{
			".2111111", "11111111", "11111111", "11111111",
			"11111111", "11111111", "11111111", "11111111",
		},
		ActivePlayer: engine.Player1,
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, g))

	g, _, err = s.gameController.PlaceDisc(s.ctx, "game-1", "alice", engine.Position{X: 0, Y: 0})
	s.Require().NoError(err)
	s.Require().Equal(model.GameStateComplete, g.State)

	s.Require().NoError(s.controller.CompleteGame(s.ctx, "ABC123"))

	lobby := s.lobby()
	s.Equal(model.LobbyStateWaiting, lobby.State)
	s.Nil(lobby.CurrentGame)
	s.Require().Len(lobby.GameHistory, 1)
	s.Equal(model.PlayerID("alice"), lobby.GameHistory[0].Winner)
	s.Equal(64, lobby.GameHistory[0].FinalScores["alice"])
}

func (s *ControllerSuite) TestCompleteGameFailsWhileInProgress() {
	s.startGame()

	err := s.controller.CompleteGame(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *ControllerSuite) TestCompleteGameFailsWithoutGame() {
	s.createLobby()

	err := s.controller.CompleteGame(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrNoGameInProgress)
}
