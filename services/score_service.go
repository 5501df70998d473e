package services

import (
	"context"

	"game-tournament-api/apperrors"
	"game-tournament-api/models"

	"gorm.io/gorm"
)

// ScoreService records high scores and serves leaderboards. Scores are
// append-only; nothing updates or deletes them except the tournament
// cascade delete.
type ScoreService struct {
	DB          *gorm.DB
	Tournaments *TournamentService
}

func NewScoreService(db *gorm.DB, tournaments *TournamentService) *ScoreService {
	return &ScoreService{DB: db, Tournaments: tournaments}
}

// Submit is the open public path: anyone can post a score under a name,
// optionally tagged with a tournament. Registration is not checked here —
// only the tournament-bound path enforces it.
func (s *ScoreService) Submit(ctx context.Context, name string, points int, tournamentID string) (*models.Score, error) {
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if points <= 0 {
		return nil, apperrors.Validation("points must be a positive integer")
	}

	score := &models.Score{
		Name:         name,
		Points:       points,
		TournamentID: tournamentID,
	}
	if err := s.DB.WithContext(ctx).Create(score).Error; err != nil {
		return nil, err
	}
	return score, nil
}

// SubmitTournamentScore binds a score to the caller's active tournament.
// Scores are only accepted during the play phase, i.e. once registration
// has been locked and the tournament sits in closed state.
func (s *ScoreService) SubmitTournamentScore(ctx context.Context, user *models.User, points int) (*models.Score, error) {
	if points <= 0 {
		return nil, apperrors.Validation("points must be a positive integer")
	}

	tournament, err := s.Tournaments.ActiveTournamentForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if tournament == nil {
		return nil, apperrors.InvalidState("user is not registered in any active tournament")
	}
	if tournament.Status != models.TournamentStatusClosed {
		return nil, apperrors.InvalidState("tournament is not in playing phase")
	}

	score := &models.Score{
		UserID:       user.ID,
		Name:         user.Name,
		Points:       points,
		TournamentID: tournament.ID,
	}
	if err := s.DB.WithContext(ctx).Create(score).Error; err != nil {
		return nil, err
	}
	return score, nil
}

// TopN returns up to n scores, points descending, ties resolved by
// submission order. Pass an empty tournamentID for the global board.
func (s *ScoreService) TopN(ctx context.Context, n int, tournamentID string) ([]models.Score, error) {
	if n <= 0 || n > 100 {
		n = 10
	}
	q := s.DB.WithContext(ctx).Order("puntos DESC, id ASC").Limit(n)
	if tournamentID != "" {
		q = q.Where("tournament_id = ?", tournamentID)
	}
	var scores []models.Score
	if err := q.Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
