package services

import (
	"context"
	"errors"
	"log"

	"game-tournament-api/apperrors"
	"game-tournament-api/config"
	"game-tournament-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistrationService handles joining a tournament and funding its prize
// pool as payments confirm. The payments table is the source of truth for
// "who is registered"; the (user, tournament) unique index is the
// authoritative guard against double joins — the existence checks below
// only exist for friendlier error messages.
type RegistrationService struct {
	DB            *gorm.DB
	Verifier      *PaymentVerifier
	ManualFee     float64
	CentralWallet string
}

func NewRegistrationService(db *gorm.DB, verifier *PaymentVerifier, cfg config.Config) *RegistrationService {
	return &RegistrationService{
		DB:            db,
		Verifier:      verifier,
		ManualFee:     cfg.ManualEntryFee,
		CentralWallet: cfg.CentralWallet,
	}
}

// JoinAutomatic registers a user after verifying their on-chain entry-fee
// transaction. Nothing is written when verification fails.
func (s *RegistrationService) JoinAutomatic(ctx context.Context, tournamentID string, user *models.User, txHash string) (*models.Payment, error) {
	var tournament models.Tournament
	if err := s.DB.WithContext(ctx).First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("tournament not found")
		}
		return nil, err
	}

	if err := s.checkNotRegistered(ctx, user.ID, tournamentID); err != nil {
		return nil, err
	}

	if _, err := s.Verifier.VerifyAutomatic(ctx, txHash, tournament.EntryFee); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		TournamentID: tournamentID,
		TxHash:       txHash,
		Amount:       tournament.EntryFee,
		Status:       models.PaymentStatusConfirmed,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if err := s.creditPool(tx, tournamentID, tournament.EntryFee); err != nil {
			return err
		}
		return s.upgradePlan(tx, user.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("already registered in this tournament")
		}
		return nil, err
	}

	log.Printf("✅ User %s joined tournament %s (tx %s, fee %.2f)", user.Name, tournamentID, txHash, tournament.EntryFee)
	return payment, nil
}

// JoinManual records a pending registration to be confirmed by an admin
// after off-band payment. The pool is only credited on confirmation.
func (s *RegistrationService) JoinManual(ctx context.Context, tournamentID string, user *models.User) (*models.Payment, error) {
	var tournament models.Tournament
	if err := s.DB.WithContext(ctx).First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("tournament not found")
		}
		return nil, err
	}
	if tournament.Status != models.TournamentStatusOpen {
		return nil, apperrors.InvalidState("tournament is not open for registration")
	}

	if err := s.checkNotRegistered(ctx, user.ID, tournamentID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		TournamentID: tournamentID,
		TxHash:       models.TxHashManual,
		Amount:       s.ManualFee,
		Status:       models.PaymentStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("already registered in this tournament")
		}
		return nil, err
	}
	return payment, nil
}

// ConfirmManualPayment flips a pending payment to confirmed and credits
// the tournament in one transaction. The status-guarded UPDATE makes the
// operation single-shot: confirming an already-confirmed payment fails
// instead of crediting the pool twice.
func (s *RegistrationService) ConfirmManualPayment(ctx context.Context, paymentID string, caller *models.User) (*models.Payment, error) {
	if !caller.IsAdmin {
		return nil, apperrors.Permission("admin access required")
	}

	var payment models.Payment
	if err := s.DB.WithContext(ctx).First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment not found")
		}
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
			Update("status", models.PaymentStatusConfirmed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidState("payment is already confirmed")
		}
		if err := s.creditPool(tx, payment.TournamentID, payment.Amount); err != nil {
			return err
		}
		return s.upgradePlan(tx, payment.UserID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Manual payment %s confirmed by %s (tournament %s, amount %.2f)",
		paymentID, caller.Name, payment.TournamentID, payment.Amount)
	payment.Status = models.PaymentStatusConfirmed
	return &payment, nil
}

func (s *RegistrationService) checkNotRegistered(ctx context.Context, userID, tournamentID string) error {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ? AND tournament_id = ?", userID, tournamentID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("already registered in this tournament")
	}
	return nil
}

// creditPool bumps the derived counters server-side in one statement, so
// concurrent confirmations cannot lose updates.
func (s *RegistrationService) creditPool(tx *gorm.DB, tournamentID string, amount float64) error {
	return tx.Model(&models.Tournament{}).
		Where("id = ?", tournamentID).
		Updates(map[string]interface{}{
			"current_users": gorm.Expr("current_users + 1"),
			"prize_pool":    gorm.Expr("prize_pool + ?", amount),
		}).Error
}

func (s *RegistrationService) upgradePlan(tx *gorm.DB, userID string) error {
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("plan", models.PlanTournament).Error
}
