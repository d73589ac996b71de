package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionCleaner removes expired view sessions and reports how many went
type SessionCleaner interface {
	Cleanup() int
}

// SessionReaper periodically drops expired view sessions
type SessionReaper struct {
	sessions SessionCleaner
	interval time.Duration
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSessionReaper creates a new session reaper
func NewSessionReaper(sessions SessionCleaner, interval time.Duration, logger *zap.Logger) *SessionReaper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionReaper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

// Start starts the reaper. A non-positive interval disables it.
func (s *SessionReaper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Warn("session reaper disabled", zap.Duration("interval", s.interval))
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.cleanupLoop()

	s.logger.Info("session reaper started", zap.Duration("interval", s.interval))
}

// Stop stops the reaper and waits for the loop to exit
func (s *SessionReaper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("session reaper stopped")
}

func (s *SessionReaper) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *SessionReaper) cleanup() {
	if n := s.sessions.Cleanup(); n > 0 {
		s.logger.Info("expired sessions removed", zap.Int("count", n))
	}
}
