package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

func (s *ServiceSuite) game(rows ...string) *model.Game {
	return &model.Game{
		ID:    "game-1",
		Seats: [2]model.PlayerID{"alice", "bob"},
		Engine: engine.Snapshot{
			Board:        rows,
			ActivePlayer: engine.Player1,
		},
	}
}

func (s *ServiceSuite) TestScoreOpeningPositionIsTie() {
	g := &model.Game{
		Seats:  [2]model.PlayerID{"alice", "bob"},
		Engine: engine.NewGame().Snapshot(),
	}

	scores, err := s.service.ScoreGame(g)
	s.Require().NoError(err)
	s.Require().Len(scores, 2)
	s.Equal(model.PlayerID("alice"), scores[0].PlayerID)
	s.Equal(2, scores[0].Pieces)
	s.Equal(2, scores[1].Pieces)
	s.Equal(model.PlayerID(""), s.service.DetermineWinner(scores))
}

func (s *ServiceSuite) TestScoreFullBoardSortsByPieces() {
	rows := make([]string, engine.Size)
	for y := range rows {
		rows[y] = strings.Repeat("1", engine.Size)
	}
	rows[0] = strings.Repeat("2", engine.Size)

	scores, err := s.service.ScoreGame(s.game(rows...))
	s.Require().NoError(err)

	s.Equal(model.PlayerID("alice"), scores[0].PlayerID)
	s.Equal(engine.Player1, scores[0].Side)
	s.Equal(56, scores[0].Pieces)
	s.Equal(model.PlayerID("bob"), scores[1].PlayerID)
	s.Equal(8, scores[1].Pieces)
	s.Equal(model.PlayerID("alice"), s.service.DetermineWinner(scores))
}

func (s *ServiceSuite) TestPlayer2Winning() {
	scores := s.service.ScoreSides(s.game(), engine.Scores{Player1: 10, Player2: 30})

	s.Equal(model.PlayerID("bob"), scores[0].PlayerID)
	s.Equal(model.PlayerID("bob"), s.service.DetermineWinner(scores))
}

func (s *ServiceSuite) TestScoreGameCorruptSnapshot() {
	_, err := s.service.ScoreGame(s.game("bad"))
	s.ErrorIs(err, model.ErrCorruptGameState)
}

func (s *ServiceSuite) TestDetermineWinnerEmpty() {
	s.Equal(model.PlayerID(""), s.service.DetermineWinner(nil))
}

func (s *ServiceSuite) TestScoreMap() {
	m := s.service.ScoreMap(s.service.ScoreSides(s.game(), engine.Scores{Player1: 5, Player2: 7}))

	s.Equal(map[model.PlayerID]int{"alice": 5, "bob": 7}, m)
}
