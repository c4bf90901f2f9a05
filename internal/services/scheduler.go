package services

import (
	"context"
	"log"
	"time"
)

// Scheduler запускает ночную синхронизацию транзакций раз в сутки
// в фиксированное время (полночь UTC)
type Scheduler struct {
	syncService *SyncService
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewScheduler(syncService *SyncService) *Scheduler {
	return &Scheduler{
		syncService: syncService,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)
	log.Println("✅ Sync scheduler started")
}

// Stop останавливает планировщик и дожидается завершения цикла.
// Уже идущий прогон дорабатывает до конца.
func (s *Scheduler) Stop() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	<-s.done
	log.Println("⏹️  Sync scheduler stopped")
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		timer := time.NewTimer(untilNextRun(time.Now().UTC()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			log.Println("Running daily transaction update...")
			if err := s.syncService.SyncAll(ctx); err != nil {
				log.Printf("Daily transaction update failed: %v", err)
			} else {
				log.Println("Daily transaction update completed.")
			}
		}
	}
}

// untilNextRun - время до ближайшей полуночи UTC
func untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(now)
}
