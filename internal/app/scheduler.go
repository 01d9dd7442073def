package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher обновляет справочные данные
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(refresher Refresher, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
		logger:    logger,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("refresh_interval", s.interval))

	go s.runRefreshTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

// runRefreshTask периодически обновляет кэш справочников
func (s *Scheduler) runRefreshTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.stopChan:
			s.logger.Info("Reference refresh task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reference refresh task cancelled")
			return
		}
	}
}

// refresh ошибки только логируются: в кэше остаются прежние данные
func (s *Scheduler) refresh(ctx context.Context) {
	if err := s.refresher.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("Failed to refresh reference data", zap.Error(err))
	}
}
