package models

import (
	"time"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
)

// TxHashManual marks payments awaiting off-band verification by an admin.
const TxHashManual = "manual_verification_required"

// Payment is the single source of truth for tournament registration: one
// row per (user, tournament), enforced by the composite unique index so
// concurrent joins cannot slip past the application-level existence check.
// A payment moves pending → confirmed exactly once and is never reversed.
type Payment struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"not null;uniqueIndex:idx_payments_user_tournament"`
	TournamentID string    `json:"tournament_id" gorm:"not null;uniqueIndex:idx_payments_user_tournament;index"`
	TxHash       string    `json:"tx_hash"`
	Amount       float64   `json:"amount" gorm:"not null"`
	Status       string    `json:"status" gorm:"default:'pending';index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
