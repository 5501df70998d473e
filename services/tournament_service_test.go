package services

import (
	"context"
	"testing"
	"time"

	"game-tournament-api/apperrors"
	"game-tournament-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTournamentValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db, NewPrizeService(db), nil)
	ctx := context.Background()

	now := time.Now()
	tests := []struct {
		name string
		in   CreateTournamentInput
	}{
		{
			name: "zero capacity",
			in:   CreateTournamentInput{Name: "Cup", MaxUsers: 0, EntryFee: 5, StartTime: now, EndTime: now.Add(time.Hour)},
		},
		{
			name: "negative fee",
			in:   CreateTournamentInput{Name: "Cup", MaxUsers: 10, EntryFee: -1, StartTime: now, EndTime: now.Add(time.Hour)},
		},
		{
			name: "end before start",
			in:   CreateTournamentInput{Name: "Cup", MaxUsers: 10, EntryFee: 5, StartTime: now, EndTime: now.Add(-time.Hour)},
		},
		{
			name: "end equals start",
			in:   CreateTournamentInput{Name: "Cup", MaxUsers: 10, EntryFee: 5, StartTime: now, EndTime: now},
		},
		{
			name: "missing name",
			in:   CreateTournamentInput{MaxUsers: 10, EntryFee: 5, StartTime: now, EndTime: now.Add(time.Hour)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation), "got %v", err)
		})
	}
}

func TestCreateTournamentStartsOpen(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db, NewPrizeService(db), nil)

	tournament, err := svc.Create(context.Background(), CreateTournamentInput{
		Name:      "Spring Cup",
		MaxUsers:  50,
		EntryFee:  10,
		StartTime: time.Now(),
		EndTime:   time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, models.TournamentStatusOpen, tournament.Status)
	assert.Equal(t, 0, tournament.CurrentUsers)
	assert.Zero(t, tournament.PrizePool)
	assert.Equal(t, "spring-cup", tournament.Slug)
}

func TestCloseTournament(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db, NewPrizeService(db), nil)
	ctx := context.Background()
	admin := createUser(t, db, "admin", true)
	player := createUser(t, db, "player", false)
	tournament := createTournament(t, db, models.TournamentStatusOpen, 10)

	_, err := svc.Close(ctx, tournament.ID, player)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermission))

	closed, err := svc.Close(ctx, tournament.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusClosed, closed.Status)

	// closing twice must fail, not silently succeed
	_, err = svc.Close(ctx, tournament.ID, admin)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestDistributePrizesStateMachine(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db, NewPrizeService(db), nil)
	ctx := context.Background()
	admin := createUser(t, db, "admin", true)

	open := createTournament(t, db, models.TournamentStatusOpen, 10)
	_, _, err := svc.DistributePrizes(ctx, open.ID, admin)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	completed := createTournament(t, db, models.TournamentStatusCompleted, 10)
	_, _, err = svc.DistributePrizes(ctx, completed.ID, admin)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	_, _, err = svc.DistributePrizes(ctx, uuid.NewString(), admin)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestDistributePrizesNoScores(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db, NewPrizeService(db), nil)
	ctx := context.Background()
	admin := createUser(t, db, "admin", true)
	tournament := createTournament(t, db, models.TournamentStatusClosed, 10)

	_, _, err := svc.DistributePrizes(ctx, tournament.ID, admin)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientData))

	// the failed run must not have advanced the state machine
	var reloaded models.Tournament
	require.NoError(t, db.First(&reloaded, "id = ?", tournament.ID).Error)
	assert.Equal(t, models.TournamentStatusClosed, reloaded.Status)
	assert.False(t, reloaded.Distributed)
}

func TestDistributePrizes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db, NewPrizeService(db), nil)
	ctx := context.Background()
	admin := createUser(t, db, "admin", true)

	tournament := createTournament(t, db, models.TournamentStatusClosed, 10)
	require.NoError(t, db.Model(tournament).Update("prize_pool", 1000.0).Error)
	tournament.PrizePool = 1000

	for i, points := range []int{500, 400, 300} {
		player := createUser(t, db, []string{"alice", "bob", "carol"}[i], false)
		require.NoError(t, db.Create(&models.Score{
			UserID:       player.ID,
			Name:         player.Name,
			Points:       points,
			TournamentID: tournament.ID,
		}).Error)
	}

	updated, prizes, err := svc.DistributePrizes(ctx, tournament.ID, admin)
	require.NoError(t, err)

	assert.Equal(t, models.TournamentStatusCompleted, updated.Status)
	assert.True(t, updated.Distributed)

	// three scores → three prize rows, matched to the first three slots
	require.Len(t, prizes, 3)
	assert.Equal(t, 1, prizes[0].Position)
	assert.InDelta(t, 350, prizes[0].Amount, 1e-9)
	assert.Equal(t, 2, prizes[1].Position)
	assert.InDelta(t, 200, prizes[1].Amount, 1e-9)
	assert.Equal(t, 3, prizes[2].Position)
	assert.InDelta(t, 150, prizes[2].Amount, 1e-9)

	// second distribution attempt must fail — prizes are recorded at most once
	_, _, err = svc.DistributePrizes(ctx, tournament.ID, admin)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	var count int64
	require.NoError(t, db.Model(&models.Prize{}).Where("tournament_id = ?", tournament.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestDeleteTournamentCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db, NewPrizeService(db), nil)
	ctx := context.Background()
	admin := createUser(t, db, "admin", true)
	player := createUser(t, db, "player", false)
	tournament := createTournament(t, db, models.TournamentStatusCompleted, 10)

	require.NoError(t, db.Create(&models.Payment{
		ID: uuid.NewString(), UserID: player.ID, TournamentID: tournament.ID,
		Amount: 10, Status: models.PaymentStatusConfirmed,
	}).Error)
	require.NoError(t, db.Create(&models.Score{
		UserID: player.ID, Name: player.Name, Points: 100, TournamentID: tournament.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Prize{
		ID: uuid.NewString(), TournamentID: tournament.ID, UserID: player.ID,
		Position: 1, Amount: 3.5, Status: models.PrizeStatusPending,
	}).Error)

	require.NoError(t, svc.Delete(ctx, tournament.ID, admin))

	_, err := svc.GetByID(ctx, tournament.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	for _, model := range []interface{}{&models.Payment{}, &models.Score{}, &models.Prize{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("tournament_id = ?", tournament.ID).Count(&count).Error)
		assert.Zero(t, count)
	}

	// deleting again reports not found
	err = svc.Delete(ctx, tournament.ID, admin)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestActiveTournamentForUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db, NewPrizeService(db), nil)
	ctx := context.Background()
	player := createUser(t, db, "player", false)

	active, err := svc.ActiveTournamentForUser(ctx, player.ID)
	require.NoError(t, err)
	assert.Nil(t, active, "no registration means no active tournament, not an error")

	finished := createTournament(t, db, models.TournamentStatusCompleted, 10)
	require.NoError(t, db.Create(&models.Payment{
		ID: uuid.NewString(), UserID: player.ID, TournamentID: finished.ID,
		Amount: 10, Status: models.PaymentStatusConfirmed,
	}).Error)

	active, err = svc.ActiveTournamentForUser(ctx, player.ID)
	require.NoError(t, err)
	assert.Nil(t, active, "completed tournaments are not active")

	current := createTournament(t, db, models.TournamentStatusClosed, 10)
	require.NoError(t, db.Create(&models.Payment{
		ID: uuid.NewString(), UserID: player.ID, TournamentID: current.ID,
		Amount: 10, Status: models.PaymentStatusConfirmed,
	}).Error)

	active, err = svc.ActiveTournamentForUser(ctx, player.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, current.ID, active.ID)
}
