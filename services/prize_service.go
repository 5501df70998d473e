package services

import (
	"context"

	"game-tournament-api/apperrors"
	"game-tournament-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrizeSlot is one row of the payout table.
type PrizeSlot struct {
	Position   int     `json:"position"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"prize"`
}

// prizePercentages is the fixed 10-slot payout table. It sums to 94% of
// the pool — the remaining 6% stays unallocated.
var prizePercentages = []float64{0.35, 0.20, 0.15, 0.10, 0.07, 0.02, 0.02, 0.02, 0.02, 0.02}

// ComputeDistribution maps a prize pool onto the payout table.
func ComputeDistribution(prizePool float64) []PrizeSlot {
	slots := make([]PrizeSlot, len(prizePercentages))
	for i, pct := range prizePercentages {
		slots[i] = PrizeSlot{
			Position:   i + 1,
			Percentage: pct,
			Amount:     prizePool * pct,
		}
	}
	return slots
}

type PrizeService struct {
	DB *gorm.DB
}

func NewPrizeService(db *gorm.DB) *PrizeService {
	return &PrizeService{DB: db}
}

// ByTournament lists the recorded payout rows for a tournament.
func (s *PrizeService) ByTournament(ctx context.Context, tournamentID string) ([]models.Prize, error) {
	var prizes []models.Prize
	err := s.DB.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("position ASC").
		Find(&prizes).Error
	if err != nil {
		return nil, err
	}
	return prizes, nil
}

// distribute writes the prize batch for a closed tournament inside the
// caller's transaction. This is the only place prize rows are created; the
// state machine's completed guard makes sure it runs at most once.
func (s *PrizeService) distribute(tx *gorm.DB, tournament *models.Tournament) ([]models.Prize, error) {
	var topScores []models.Score
	err := tx.
		Where("tournament_id = ?", tournament.ID).
		Order("puntos DESC, id ASC").
		Limit(10).
		Find(&topScores).Error
	if err != nil {
		return nil, err
	}
	if len(topScores) == 0 {
		return nil, apperrors.InsufficientData("no scores available for this tournament")
	}

	slots := ComputeDistribution(tournament.PrizePool)

	prizes := make([]models.Prize, 0, len(topScores))
	for i, score := range topScores {
		if i >= len(slots) {
			break
		}
		prizes = append(prizes, models.Prize{
			ID:           uuid.NewString(),
			TournamentID: tournament.ID,
			UserID:       score.UserID,
			Position:     slots[i].Position,
			Amount:       slots[i].Amount,
			Status:       models.PrizeStatusPending,
		})
	}

	if err := tx.Create(&prizes).Error; err != nil {
		return nil, err
	}
	return prizes, nil
}
