// Package scheduler runs the daily overdue-installment sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// InstallmentStore is the subset of the repository the sweep needs.
type InstallmentStore interface {
	MarkOverdueInstallments(ctx context.Context, asOf time.Time) (int64, error)
	OverdueInstallments(ctx context.Context) ([]models.OverdueInstallment, error)
}

// DigestSender emails the overdue summary to an ops address.
type DigestSender interface {
	SendOverdueDigest(to string, overdue []models.OverdueInstallment) error
}

// Scheduler owns the cron runner for periodic maintenance jobs.
type Scheduler struct {
	store    InstallmentStore
	sender   DigestSender
	opsEmail string
	cron     *cron.Cron
	log      *logrus.Logger
}

// NewScheduler initializes a new scheduler. The digest email is skipped when
// opsEmail is empty.
func NewScheduler(store InstallmentStore, sender DigestSender, opsEmail string, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		sender:   sender,
		opsEmail: opsEmail,
		cron:     cron.New(),
		log:      log,
	}
}

// Start registers the sweep on the given cron schedule and starts the runner
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.RunSweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Overdue sweep scheduled: %s", schedule)
	return nil
}

// Stop halts the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunSweep marks past-due installments overdue and emails the ops digest.
// Failures are logged; the sweep reruns on the next tick.
func (s *Scheduler) RunSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	marked, err := s.store.MarkOverdueInstallments(ctx, time.Now().UTC())
	if err != nil {
		s.log.Errorf("Overdue sweep failed: %v", err)
		return
	}
	s.log.Infof("Overdue sweep marked %d installment(s)", marked)

	if s.opsEmail == "" {
		return
	}
	overdue, err := s.store.OverdueInstallments(ctx)
	if err != nil {
		s.log.Errorf("Failed to load overdue installments for digest: %v", err)
		return
	}
	if len(overdue) == 0 {
		return
	}
	if err := s.sender.SendOverdueDigest(s.opsEmail, overdue); err != nil {
		s.log.Errorf("Failed to send overdue digest: %v", err)
	}
}
