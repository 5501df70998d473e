package models

import (
	"time"
)

// Tournament lifecycle. Transitions only move forward:
// open (registration) → closed (play phase) → completed (prizes recorded).
const (
	TournamentStatusOpen      = "open"
	TournamentStatusClosed    = "closed"
	TournamentStatusCompleted = "completed"
)

// Tournament tracks a paid competition. CurrentUsers and PrizePool are
// derived from confirmed payments; they are updated server-side together
// with the payment row and periodically re-derived by the reconcile worker.
type Tournament struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Slug         string    `json:"slug" gorm:"index"`
	MaxUsers     int       `json:"max_users" gorm:"default:100"`
	EntryFee     float64   `json:"entry_fee" gorm:"default:0"`
	StartTime    time.Time `json:"start_time" gorm:"not null"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status" gorm:"default:'open';index"`
	CurrentUsers int       `json:"current_users" gorm:"default:0"`
	PrizePool    float64   `json:"prize_pool" gorm:"default:0"`
	Distributed  bool      `json:"distributed" gorm:"default:false"`
	BannerURL    string    `json:"banner_url"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
