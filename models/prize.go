package models

import (
	"time"
)

const (
	PrizeStatusPending = "pending"
	PrizeStatusPaid    = "paid"
)

// Prize is a payout bookkeeping row: rank position and computed share of
// the pool. Rows are created once per tournament in a single batch by the
// prize distributor; actual fund movement is out of scope.
type Prize struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	TournamentID string    `json:"tournament_id" gorm:"not null;index"`
	UserID       string    `json:"user_id" gorm:"not null;index"`
	Position     int       `json:"position" gorm:"not null"`
	Amount       float64   `json:"prize_amount" gorm:"column:prize_amount;not null"`
	Status       string    `json:"status" gorm:"default:'pending'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
