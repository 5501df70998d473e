package services

import (
	"context"
	"testing"
	"time"

	"game-tournament-api/config"
	"game-tournament-api/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tournament{},
		&models.Payment{},
		&models.Score{},
		&models.Prize{},
	))
	return db
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		TokenTTL:       30 * time.Minute,
		CentralWallet:  "TCentralWallet123",
		ManualEntryFee: 10.00,
	}
}

func createUser(t *testing.T, db *gorm.DB, name string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		WalletUSDT:   "TWallet" + name,
		IsAdmin:      admin,
		Plan:         models.PlanFree,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTournament(t *testing.T, db *gorm.DB, status string, fee float64) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		ID:        uuid.NewString(),
		Name:      "Test Cup",
		Slug:      "test-cup",
		MaxUsers:  100,
		EntryFee:  fee,
		StartTime: time.Now(),
		EndTime:   time.Now().Add(24 * time.Hour),
		Status:    status,
	}
	require.NoError(t, db.Create(tournament).Error)
	return tournament
}

// fakeOracle lets registration tests script the chain lookup.
type fakeOracle struct {
	details *TxDetails
	err     error
}

func (f *fakeOracle) Lookup(_ context.Context, _ string) (*TxDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}
