package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/reversigame-go/internal/dependencies/mocks"
	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/scoring"
	"github.com/mcoot/reversigame-go/internal/storage/memory"
	"github.com/mcoot/reversigame-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, scoring.New(), s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// Helper to create a standard game between alice (Player1) and bob (Player2)
func (s *ControllerSuite) createGame() *model.Game {
	s.random.QueueUUID("game-1")
	game, err := s.controller.CreateGame(s.ctx, "LOBBY1", [2]model.PlayerID{"alice", "bob"})
	s.Require().NoError(err)
	return game
}

// Helper to store a game with a custom board
func (s *ControllerSuite) saveGame(active engine.Player, rows ...string) *model.Game {
	game := &model.Game{
		ID:        "game-custom",
		LobbyCode: "LOBBY1",
		State:     model.GameStatePlaying,
		Seats:     [2]model.PlayerID{"alice", "bob"},
		Engine:    engine.Snapshot{Board: rows, ActivePlayer: active},
		CreatedAt: s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	return game
}

func (s *ControllerSuite) place(playerID model.PlayerID, x, y int) (*model.Game, engine.MoveResult, error) {
	return s.controller.PlaceDisc(s.ctx, "game-1", playerID, engine.Position{X: x, Y: y})
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	game := s.createGame()

	s.Equal(model.GameID("game-1"), game.ID)
	s.Equal(model.LobbyCode("LOBBY1"), game.LobbyCode)
	s.Equal(model.GameStatePlaying, game.State)
	s.Equal([2]model.PlayerID{"alice", "bob"}, game.Seats)
	s.Equal(engine.NewGame().Snapshot(), game.Engine)
	s.Nil(game.LastMove)
	s.Equal(model.PlayerID("alice"), game.ActivePlayerID())
}

func (s *ControllerSuite) TestCreateGameAssignsUUID() {
	game, err := s.controller.CreateGame(s.ctx, "LOBBY1", [2]model.PlayerID{"alice", "bob"})
	s.Require().NoError(err)
	s.Len(string(game.ID), 36)
}

func (s *ControllerSuite) TestCreateGameRequiresTwoDistinctPlayers() {
	_, err := s.controller.CreateGame(s.ctx, "LOBBY1", [2]model.PlayerID{"alice", ""})
	s.ErrorIs(err, model.ErrInsufficientPlayers)

	_, err = s.controller.CreateGame(s.ctx, "LOBBY1", [2]model.PlayerID{"alice", "alice"})
	s.ErrorIs(err, model.ErrInsufficientPlayers)
}

func (s *ControllerSuite) TestCreateGamePersists() {
	game := s.createGame()

	retrieved, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
}

func (s *ControllerSuite) TestLatestGameReturnsNewest() {
	s.random.QueueUUID("game-a", "game-b")
	seats := [2]model.PlayerID{"alice", "bob"}
	_, err := s.controller.CreateGame(s.ctx, "LOBBY1", seats)
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.controller.CreateGame(s.ctx, "LOBBY1", seats)
	s.Require().NoError(err)

	latest, err := s.controller.LatestGame(s.ctx, "LOBBY1")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-b"), latest.ID)

	_, err = s.controller.LatestGame(s.ctx, "OTHER1")
	s.ErrorIs(err, model.ErrNoGameInProgress)
}

// PlaceDisc tests

func (s *ControllerSuite) TestPlaceDiscAppliesMove() {
	s.createGame()
	s.clock.Advance(time.Minute)

	game, result, err := s.place("alice", 2, 4)
	s.Require().NoError(err)

	s.True(result.Applied())
	s.Equal(1, result.Outcome.Flipped)
	s.Equal([]engine.Position{{X: 3, Y: 4}}, result.Outcome.Flips)
	s.Equal(engine.Player2, game.Engine.ActivePlayer)
	s.Equal(model.PlayerID("bob"), game.ActivePlayerID())
	s.Equal(&engine.Position{X: 2, Y: 4}, game.LastMove)
	s.Equal(s.clock.Now(), game.UpdatedAt)

	stored, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	state, err := engine.Restore(stored.Engine)
	s.Require().NoError(err)
	p1, p2 := state.Scores()
	s.Equal(4, p1)
	s.Equal(1, p2)
	s.Equal(1, state.MoveCount())
}

func (s *ControllerSuite) TestPlaceDiscEmitsEngineEvents() {
	s.createGame()

	_, result, err := s.place("alice", 2, 4)
	s.Require().NoError(err)

	s.Require().Len(result.Events, 3)
	s.Equal(engine.EventPiecePlaced, result.Events[0].Type)
	s.Equal(engine.EventScoreChanged, result.Events[1].Type)
	s.Equal(engine.EventTurnChanged, result.Events[2].Type)
	s.Equal(engine.Player2, result.Events[2].Player)
}

func (s *ControllerSuite) TestPlaceDiscRejectsWrongTurn() {
	s.createGame()

	_, _, err := s.place("bob", 2, 3)
	s.ErrorIs(err, model.ErrNotPlayerTurn)
}

func (s *ControllerSuite) TestPlaceDiscRejectsUnseatedPlayer() {
	s.createGame()

	_, _, err := s.place("carol", 2, 4)
	s.ErrorIs(err, model.ErrNotSeated)
}

func (s *ControllerSuite) TestPlaceDiscMapsRejections() {
	s.createGame()

	_, result, err := s.place("alice", 2, 2)
	s.ErrorIs(err, model.ErrNoCapture)
	s.Equal(engine.NoCapture, result.Rejection())

	_, _, err = s.place("alice", 3, 3)
	s.ErrorIs(err, model.ErrCellOccupied)

	_, _, err = s.place("alice", 8, 0)
	s.ErrorIs(err, model.ErrInvalidPosition)

	_, _, err = s.place("alice", -1, 4)
	s.ErrorIs(err, model.ErrInvalidPosition)
}

func (s *ControllerSuite) TestRejectedPlacementDoesNotSave() {
	game := s.createGame()
	s.clock.Advance(time.Minute)

	_, _, err := s.place("alice", 2, 2)
	s.Require().Error(err)

	stored, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.Engine, stored.Engine)
	s.Equal(game.UpdatedAt, stored.UpdatedAt)
	s.Nil(stored.LastMove)
}

func (s *ControllerSuite) TestPlaceDiscTurnsAlternate() {
	s.createGame()

	_, _, err := s.place("alice", 2, 4)
	s.Require().NoError(err)

	_, _, err = s.place("alice", 2, 2)
	s.ErrorIs(err, model.ErrNotPlayerTurn)

	game, _, err := s.place("bob", 2, 5)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), game.ActivePlayerID())
}

func (s *ControllerSuite) TestFinalPlacementCompletesGame() {
	s.saveGame(engine.Player1,
		".2111111", "11111111", "11111111", "11111111",
		"11111111", "11111111", "11111111", "11111111")

	game, result, err := s.controller.PlaceDisc(s.ctx, "game-custom", "alice", engine.Position{X: 0, Y: 0})
	s.Require().NoError(err)

	s.Equal(model.GameStateComplete, game.State)
	s.Equal(engine.EventGameOver, result.Events[len(result.Events)-1].Type)

	_, _, err = s.controller.PlaceDisc(s.ctx, "game-custom", "bob", engine.Position{X: 0, Y: 0})
	s.ErrorIs(err, model.ErrGameComplete)
}

func (s *ControllerSuite) TestPlaceDiscOnAbandonedGame() {
	s.createGame()
	s.Require().NoError(s.controller.AbandonGame(s.ctx, "game-1"))

	_, _, err := s.place("alice", 2, 4)
	s.ErrorIs(err, model.ErrGameAbandoned)
}

func (s *ControllerSuite) TestPlaceDiscCorruptState() {
	s.saveGame(engine.Player1, "bad")

	_, _, err := s.controller.PlaceDisc(s.ctx, "game-custom", "alice", engine.Position{X: 0, Y: 0})
	s.ErrorIs(err, model.ErrCorruptGameState)
}

func (s *ControllerSuite) TestPlaceDiscGameNotFound() {
	_, _, err := s.place("alice", 2, 4)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestConcurrentPlacementsApplyOnce() {
	s.createGame()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for _, pos := range []engine.Position{{X: 2, Y: 4}, {X: 3, Y: 5}, {X: 4, Y: 2}, {X: 5, Y: 3}} {
		wg.Add(1)
		go func(p engine.Position) {
			defer wg.Done()
			_, _, err := s.controller.PlaceDisc(s.ctx, "game-1", "alice", p)
			errs <- err
		}(pos)
	}
	wg.Wait()
	close(errs)

	applied := 0
	for err := range errs {
		if err == nil {
			applied++
		} else {
			s.ErrorIs(err, model.ErrNotPlayerTurn)
		}
	}
	s.Equal(1, applied)

	stored, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(1, stored.Engine.MoveCount)
	s.Equal(0, s.controller.locks.size())
}

// LegalMoves tests

func (s *ControllerSuite) TestLegalMovesForActivePlayer() {
	s.createGame()

	moves, err := s.controller.LegalMoves(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal([]engine.Position{{X: 2, Y: 4}, {X: 3, Y: 5}, {X: 4, Y: 2}, {X: 5, Y: 3}}, moves)

	_, _, err = s.place("alice", 2, 4)
	s.Require().NoError(err)

	moves, err = s.controller.LegalMoves(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Contains(moves, engine.Position{X: 2, Y: 5})
	s.NotContains(moves, engine.Position{X: 2, Y: 4})
}

func (s *ControllerSuite) TestLegalMovesEmptyWhenFinished() {
	s.createGame()
	_ = s.controller.AbandonGame(s.ctx, "game-1")

	moves, err := s.controller.LegalMoves(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(moves)
	s.NotNil(moves)
}

// AbandonGame tests

func (s *ControllerSuite) TestAbandonGame() {
	s.createGame()

	err := s.controller.AbandonGame(s.ctx, "game-1")
	s.Require().NoError(err)

	game, _ := s.controller.GetGame(s.ctx, "game-1")
	s.Equal(model.GameStateAbandoned, game.State)
}

func (s *ControllerSuite) TestAbandonFinishedGameIsNoOp() {
	s.createGame()
	_ = s.controller.AbandonGame(s.ctx, "game-1")

	s.NoError(s.controller.AbandonGame(s.ctx, "game-1"))
}

// Scores and summaries

func (s *ControllerSuite) TestGetFinalScoresRequiresFinishedGame() {
	s.createGame()

	_, err := s.controller.GetFinalScores(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameInProgress)

	_, err = s.controller.CreateGameSummary(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *ControllerSuite) TestCreateGameSummaryForCompletedGame() {
	s.saveGame(engine.Player1,
		".2111111", "11111111", "11111111", "11111111",
		"11111111", "11111111", "11111111", "11111111")
	_, _, err := s.controller.PlaceDisc(s.ctx, "game-custom", "alice", engine.Position{X: 0, Y: 0})
	s.Require().NoError(err)

	scores, err := s.controller.GetFinalScores(s.ctx, "game-custom")
	s.Require().NoError(err)
	s.Equal(64, scores[0].Pieces)

	summary, err := s.controller.CreateGameSummary(s.ctx, "game-custom")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-custom"), summary.ID)
	s.Equal(model.PlayerID("alice"), summary.Winner)
	s.Equal(64, summary.FinalScores["alice"])
	s.Equal(0, summary.FinalScores["bob"])
	s.False(summary.Abandoned)
}

func (s *ControllerSuite) TestCreateGameSummaryForAbandonedGame() {
	s.createGame()
	_, _, err := s.place("alice", 2, 4)
	s.Require().NoError(err)
	_ = s.controller.AbandonGame(s.ctx, "game-1")

	summary, err := s.controller.CreateGameSummary(s.ctx, "game-1")
	s.Require().NoError(err)
	s.True(summary.Abandoned)
	s.Equal(model.PlayerID(""), summary.Winner)
	s.Equal(4, summary.FinalScores["alice"])
	s.Equal(1, summary.FinalScores["bob"])
}
