package workers

import (
	"context"
	"testing"
	"time"

	"game-tournament-api/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
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

func seedTournament(t *testing.T, db *gorm.DB, status string, currentUsers int, prizePool float64) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		ID:           uuid.NewString(),
		Name:         "Test Cup",
		Slug:         "test-cup",
		MaxUsers:     100,
		EntryFee:     10,
		StartTime:    time.Now(),
		EndTime:      time.Now().Add(24 * time.Hour),
		Status:       status,
		CurrentUsers: currentUsers,
		PrizePool:    prizePool,
	}
	require.NoError(t, db.Create(tournament).Error)
	return tournament
}

func seedPayment(t *testing.T, db *gorm.DB, tournamentID, status string, amount float64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Payment{
		ID:           uuid.NewString(),
		UserID:       uuid.NewString(),
		TournamentID: tournamentID,
		TxHash:       uuid.NewString(),
		Amount:       amount,
		Status:       status,
	}).Error)
}

func TestReconcileOnceRepairsDrift(t *testing.T) {
	db := setupTestDB(t)

	// counters deliberately out of step with the payments table
	drifted := seedTournament(t, db, models.TournamentStatusOpen, 7, 999)
	seedPayment(t, db, drifted.ID, models.PaymentStatusConfirmed, 10)
	seedPayment(t, db, drifted.ID, models.PaymentStatusConfirmed, 10)
	seedPayment(t, db, drifted.ID, models.PaymentStatusPending, 10)

	worker := NewReconcileWorker(db, time.Minute)
	require.NoError(t, worker.ReconcileOnce(context.Background()))

	var reloaded models.Tournament
	require.NoError(t, db.First(&reloaded, "id = ?", drifted.ID).Error)
	assert.Equal(t, 2, reloaded.CurrentUsers, "pending payments must not count")
	assert.InDelta(t, 20, reloaded.PrizePool, 1e-9)
}

func TestReconcileOnceSkipsCompleted(t *testing.T) {
	db := setupTestDB(t)

	// completed tournaments keep whatever was recorded at distribution time
	frozen := seedTournament(t, db, models.TournamentStatusCompleted, 5, 50)
	seedPayment(t, db, frozen.ID, models.PaymentStatusConfirmed, 10)

	worker := NewReconcileWorker(db, time.Minute)
	require.NoError(t, worker.ReconcileOnce(context.Background()))

	var reloaded models.Tournament
	require.NoError(t, db.First(&reloaded, "id = ?", frozen.ID).Error)
	assert.Equal(t, 5, reloaded.CurrentUsers)
	assert.InDelta(t, 50, reloaded.PrizePool, 1e-9)
}

func TestReconcileOnceZeroesEmptyTournament(t *testing.T) {
	db := setupTestDB(t)

	drifted := seedTournament(t, db, models.TournamentStatusClosed, 3, 30)

	worker := NewReconcileWorker(db, time.Minute)
	require.NoError(t, worker.ReconcileOnce(context.Background()))

	var reloaded models.Tournament
	require.NoError(t, db.First(&reloaded, "id = ?", drifted.ID).Error)
	assert.Zero(t, reloaded.CurrentUsers)
	assert.Zero(t, reloaded.PrizePool)
}
