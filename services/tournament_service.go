package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"time"

	"game-tournament-api/apperrors"
	"game-tournament-api/models"
	"game-tournament-api/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// TournamentService owns the tournament lifecycle: creation, the
// open → closed → completed state machine, prize distribution entry point
// and cascade deletion.
type TournamentService struct {
	DB      *gorm.DB
	Prizes  *PrizeService
	Storage *utils.R2Storage // nil when banner uploads are disabled
}

func NewTournamentService(db *gorm.DB, prizes *PrizeService, storage *utils.R2Storage) *TournamentService {
	return &TournamentService{DB: db, Prizes: prizes, Storage: storage}
}

type CreateTournamentInput struct {
	Name      string    `json:"name"`
	MaxUsers  int       `json:"max_users"`
	EntryFee  float64   `json:"entry_fee"`
	StartTime time.Time `json:"start_date"`
	EndTime   time.Time `json:"end_date"`
}

func (s *TournamentService) Create(ctx context.Context, in CreateTournamentInput) (*models.Tournament, error) {
	if in.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if in.MaxUsers <= 0 {
		return nil, apperrors.Validation("max_users must be a positive integer")
	}
	if in.EntryFee < 0 {
		return nil, apperrors.Validation("entry_fee must be a non-negative number")
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, apperrors.Validation("end_date must be after start_date")
	}

	tournament := &models.Tournament{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Slug:         slug.Make(in.Name),
		MaxUsers:     in.MaxUsers,
		EntryFee:     in.EntryFee,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Status:       models.TournamentStatusOpen,
		CurrentUsers: 0,
		PrizePool:    0,
	}
	if err := s.DB.WithContext(ctx).Create(tournament).Error; err != nil {
		return nil, err
	}
	return tournament, nil
}

// List returns all tournaments, optionally filtered by status.
func (s *TournamentService) List(ctx context.Context, status string) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&tournaments).Error; err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (s *TournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	var tournament models.Tournament
	if err := s.DB.WithContext(ctx).First(&tournament, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("tournament not found")
		}
		return nil, err
	}
	return &tournament, nil
}

// Close locks registration: open → closed, recording the close moment as
// the effective end of the registration window. Re-closing fails.
func (s *TournamentService) Close(ctx context.Context, id string, caller *models.User) (*models.Tournament, error) {
	if !caller.IsAdmin {
		return nil, apperrors.Permission("admin access required")
	}
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentStatusOpen {
		return nil, apperrors.InvalidState("tournament is not open")
	}

	now := time.Now().UTC()
	res := s.DB.WithContext(ctx).
		Model(&models.Tournament{}).
		Where("id = ? AND status = ?", id, models.TournamentStatusOpen).
		Updates(map[string]interface{}{
			"status":   models.TournamentStatusClosed,
			"end_time": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.InvalidState("tournament is not open")
	}

	tournament.Status = models.TournamentStatusClosed
	tournament.EndTime = now
	return tournament, nil
}

// DistributePrizes runs the one-shot payout: closed → completed plus the
// prize batch, in a single transaction. The status-guarded UPDATE makes a
// second call fail instead of double-recording prizes.
func (s *TournamentService) DistributePrizes(ctx context.Context, id string, caller *models.User) (*models.Tournament, []models.Prize, error) {
	if !caller.IsAdmin {
		return nil, nil, apperrors.Permission("admin access required")
	}
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if tournament.Status != models.TournamentStatusClosed {
		return nil, nil, apperrors.InvalidState("tournament must be closed first")
	}

	var prizes []models.Prize
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Tournament{}).
			Where("id = ? AND status = ?", id, models.TournamentStatusClosed).
			Updates(map[string]interface{}{
				"status":      models.TournamentStatusCompleted,
				"distributed": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidState("tournament must be closed first")
		}

		prizes, err = s.Prizes.distribute(tx, tournament)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("✅ Prizes distributed for tournament %s: %d winners, pool %.2f", id, len(prizes), tournament.PrizePool)
	tournament.Status = models.TournamentStatusCompleted
	tournament.Distributed = true
	return tournament, prizes, nil
}

// Delete removes a tournament and everything hanging off it. The store has
// no foreign-key cascade, so dependents go first.
func (s *TournamentService) Delete(ctx context.Context, id string, caller *models.User) error {
	if !caller.IsAdmin {
		return apperrors.Permission("admin access required")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tournament_id = ?", id).Delete(&models.Prize{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tournament_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tournament_id = ?", id).Delete(&models.Score{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tournament{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("tournament not found")
		}
		return nil
	})
}

// ActiveTournamentForUser resolves the caller's current tournament: the
// most recently joined one still in open or closed state. A nil result
// with nil error means "no active tournament" — that is not a failure.
func (s *TournamentService) ActiveTournamentForUser(ctx context.Context, userID string) (*models.Tournament, error) {
	var tournament models.Tournament
	err := s.DB.WithContext(ctx).
		Joins("JOIN payments ON payments.tournament_id = tournaments.id").
		Where("payments.user_id = ? AND tournaments.status IN ?", userID, []string{
			models.TournamentStatusOpen,
			models.TournamentStatusClosed,
		}).
		Order("payments.created_at DESC").
		First(&tournament).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tournament, nil
}

// SetBanner uploads a tournament banner to R2 and stores the public URL.
func (s *TournamentService) SetBanner(ctx context.Context, id string, caller *models.User, file *multipart.FileHeader) (*models.Tournament, error) {
	if !caller.IsAdmin {
		return nil, apperrors.Permission("admin access required")
	}
	if s.Storage == nil {
		return nil, apperrors.Validation("banner uploads are not configured")
	}
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("tournaments/banners/%s%s", uuid.NewString(), ext)
	url, err := s.Storage.UploadFile(ctx, file, key)
	if err != nil {
		return nil, fmt.Errorf("failed to upload banner: %w", err)
	}

	if err := s.DB.WithContext(ctx).Model(tournament).Update("banner_url", url).Error; err != nil {
		return nil, err
	}
	tournament.BannerURL = url
	return tournament, nil
}
