package models

import (
	"time"
)

// Score is an append-only high-score row. The autoincrement ID doubles as
// the tie-breaker: equal point totals rank in submission order. UserID and
// TournamentID are optional — the public submission path only carries a name.
type Score struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       string    `json:"user_id,omitempty" gorm:"index"`
	Name         string    `json:"name" gorm:"not null;index"`
	Points       int       `json:"points" gorm:"column:puntos;not null"`
	TournamentID string    `json:"tournament_id,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName keeps the table the game clients have always written to.
func (Score) TableName() string { return "highscores" }
