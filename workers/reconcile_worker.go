package workers

import (
	"context"
	"log"
	"time"

	"game-tournament-api/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ReconcileWorker periodically re-derives current_users and prize_pool
// from the payments table for every tournament that is not yet completed.
// The registration path keeps both counters in step with payments inside
// one transaction; this job repairs any drift left behind by a crash
// between the payment write and the counter write.
type ReconcileWorker struct {
	DB       *gorm.DB
	Interval time.Duration
}

func NewReconcileWorker(db *gorm.DB, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{DB: db, Interval: interval}
}

// Start schedules the reconcile job and shuts the scheduler down when ctx
// is cancelled.
func (w *ReconcileWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.Interval),
		gocron.NewTask(func() {
			if err := w.ReconcileOnce(ctx); err != nil {
				log.Printf("[Reconcile] failed: %v", err)
			}
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			log.Printf("[Reconcile] scheduler shutdown: %v", err)
		}
	}()
	return nil
}

// ReconcileOnce recomputes the derived counters in one statement per run.
// Completed tournaments are frozen and never touched again.
func (w *ReconcileWorker) ReconcileOnce(ctx context.Context) error {
	res := w.DB.WithContext(ctx).Exec(`
		UPDATE tournaments SET
			current_users = (
				SELECT COUNT(*) FROM payments
				WHERE payments.tournament_id = tournaments.id
				  AND payments.status = ?
			),
			prize_pool = (
				SELECT COALESCE(SUM(amount), 0) FROM payments
				WHERE payments.tournament_id = tournaments.id
				  AND payments.status = ?
			)
		WHERE status <> ?`,
		models.PaymentStatusConfirmed,
		models.PaymentStatusConfirmed,
		models.TournamentStatusCompleted,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[Reconcile] refreshed counters for %d tournaments", res.RowsAffected)
	}
	return nil
}
