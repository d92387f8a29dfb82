package scoring

import (
	"fmt"
	"sort"

	"github.com/mcoot/reversigame-go/internal/engine"
	"github.com/mcoot/reversigame-go/internal/model"
)

// Service tallies piece counts for persisted games
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// ScoreGame counts each seat's pieces from the stored board and returns
// the results sorted by piece count, highest first. Ties keep seat order.
func (s *Service) ScoreGame(game *model.Game) ([]model.PlayerScore, error) {
	state, err := engine.Restore(game.Engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptGameState, err)
	}

	return s.ScoreSides(game, state.ScoreTable()), nil
}

// ScoreSides maps engine scores onto the game's seats
func (s *Service) ScoreSides(game *model.Game, scores engine.Scores) []model.PlayerScore {
	result := []model.PlayerScore{
		{PlayerID: game.PlayerFor(engine.Player1), Side: engine.Player1, Pieces: scores.Player1},
		{PlayerID: game.PlayerFor(engine.Player2), Side: engine.Player2, Pieces: scores.Player2},
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Pieces > result[j].Pieces
	})

	return result
}

// DetermineWinner returns the winner's PlayerID, or empty string if tie
func (s *Service) DetermineWinner(scores []model.PlayerScore) model.PlayerID {
	if len(scores) == 0 {
		return ""
	}

	topScore := scores[0].Pieces
	tieCount := 0
	for _, score := range scores {
		if score.Pieces == topScore {
			tieCount++
		}
	}

	if tieCount > 1 {
		return "" // Tie
	}

	return scores[0].PlayerID
}

// ScoreMap flattens scores into a lookup by player
func (s *Service) ScoreMap(scores []model.PlayerScore) map[model.PlayerID]int {
	m := make(map[model.PlayerID]int, len(scores))
	for _, score := range scores {
		m[score.PlayerID] = score.Pieces
	}
	return m
}

// Interface for dependency injection
type ServiceInterface interface {
	ScoreGame(game *model.Game) ([]model.PlayerScore, error)
	ScoreSides(game *model.Game, scores engine.Scores) []model.PlayerScore
	DetermineWinner(scores []model.PlayerScore) model.PlayerID
	ScoreMap(scores []model.PlayerScore) map[model.PlayerID]int
}

var _ ServiceInterface = (*Service)(nil)
