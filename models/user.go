package models

import (
	"time"
)

// Account tiers. Joining a paid tournament upgrades a user from free.
const (
	PlanFree       = "free"
	PlanTournament = "tournament"
)

// User is the local identity record: login name, bcrypt credential hash
// and the TRC20 wallet that prize payouts would be sent to.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" gorm:"column:password;not null"`
	WalletUSDT   string    `json:"wallet_usdt" gorm:"column:wallet_usdt"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	Plan         string    `json:"plan" gorm:"default:'free'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
