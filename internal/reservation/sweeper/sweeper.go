package sweeper

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rekafoe/newCRM-sub001/internal/reservation"
	"github.com/rekafoe/newCRM-sub001/pkg/cache"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
	"go.uber.org/zap"
)

const lockKey = "lock:reservations:sweep"

// Sweeper periodically reclaims expired reservations. The redis lock keeps
// multiple instances from running overlapping sweeps; the sweep itself is
// idempotent, so a lost lock is harmless.
type Sweeper struct {
	uc       reservation.UseCase
	cache    *cache.RedisClient
	logger   logger.ZapLogger
	interval time.Duration
	lockTTL  time.Duration
}

func NewSweeper(uc reservation.UseCase, cache *cache.RedisClient, log logger.ZapLogger, interval, lockTTL time.Duration) *Sweeper {
	return &Sweeper{
		uc:       uc,
		cache:    cache,
		logger:   log,
		interval: interval,
		lockTTL:  lockTTL,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("starting reservation sweeper", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping reservation sweeper")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	lockValue := uuid.New().String()
	ok, err := s.cache.AcquireLock(ctx, lockKey, lockValue, s.lockTTL)
	if err != nil {
		s.logger.Error("failed to acquire sweep lock", zap.Error(err))
		return
	}
	if !ok {
		// Another instance is sweeping.
		return
	}
	defer s.cache.ReleaseLock(ctx, lockKey, lockValue)

	if _, err := s.uc.CleanupExpired(ctx); err != nil {
		s.logger.Error("reservation sweep failed", zap.Error(err))
	}
}
