package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/repo"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("session not found")

// SessionOptions contains session usecase settings
type SessionOptions struct {
	Collection   string
	FetchTimeout time.Duration // 0 disables the timeout
	Session      domain.SessionConfig
}

// SessionUsecase owns the view sessions and their one-time batch fetch
type SessionUsecase struct {
	requestRepo repo.RequestRepo
	notifyRepo  repo.NotifyRepo
	opts        SessionOptions
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*domain.ViewSession
}

// NewSessionUsecase creates a new session usecase. notifyRepo may be nil.
func NewSessionUsecase(requestRepo repo.RequestRepo, notifyRepo repo.NotifyRepo, opts SessionOptions, logger *zap.Logger) *SessionUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionUsecase{
		requestRepo: requestRepo,
		notifyRepo:  notifyRepo,
		opts:        opts,
		logger:      logger,
		sessions:    make(map[string]*domain.ViewSession),
	}
}

// Get returns a fresh session by id
func (uc *SessionUsecase) Get(id string) (*domain.ViewSession, error) {
	uc.mu.Lock()
	sess, ok := uc.sessions[id]
	uc.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if !sess.IsFresh(uc.opts.Session) {
		uc.remove(id)
		uc.logger.Debug("session expired", zap.String("session", id))
		return nil, ErrSessionNotFound
	}
	sess.Touch()
	return sess, nil
}

// GetOrCreate returns the session for id, creating one (and fetching its batch)
// when id is unknown, expired or its fetch failed. created reports whether a new
// session was made.
func (uc *SessionUsecase) GetOrCreate(ctx context.Context, id string, theme domain.Theme) (sess *domain.ViewSession, created bool) {
	if id != "" {
		if sess, err := uc.Get(id); err == nil {
			if sess.FetchErr == nil {
				return sess, false
			}
			uc.remove(id)
			uc.logger.Debug("dropping session with failed fetch", zap.String("session", id))
		}
	}
	return uc.Create(ctx, theme), true
}

func (uc *SessionUsecase) remove(id string) {
	uc.mu.Lock()
	delete(uc.sessions, id)
	uc.mu.Unlock()
}

// Create starts a new session and fetches the request batch once.
// A fetch failure is kept on the session rather than returned.
func (uc *SessionUsecase) Create(ctx context.Context, theme domain.Theme) *domain.ViewSession {
	rows, err := uc.fetch(ctx)
	if err != nil {
		uc.logger.Error("failed to fetch requests", zap.String("collection", uc.opts.Collection), zap.Error(err))
	}

	sess := domain.NewViewSession(uuid.NewString(), rows, err, theme)

	uc.mu.Lock()
	uc.sessions[sess.ID] = sess
	uc.mu.Unlock()

	uc.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.Int("rows", len(rows)),
		zap.Bool("fetch_failed", err != nil),
	)
	return sess
}

func (uc *SessionUsecase) fetch(ctx context.Context) ([]domain.Row, error) {
	if uc.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.FetchTimeout)
		defer cancel()
	}

	recs, err := uc.requestRepo.FetchAll(ctx, uc.opts.Collection)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uc.opts.Collection, err)
	}
	return domain.NormalizeAll(recs), nil
}

// RecordStatus stores label for a row of the session and sends the optional notification
func (uc *SessionUsecase) RecordStatus(ctx context.Context, sess *domain.ViewSession, rowID, label string) (domain.Row, error) {
	row, err := sess.FindRow(rowID)
	if err != nil {
		return domain.Row{}, err
	}
	sess.Status.Set(row.ID, label)

	uc.logger.Info("status recorded",
		zap.String("session", sess.ID),
		zap.String("request", row.ID),
		zap.String("status", label),
	)

	if uc.notifyRepo != nil {
		text := fmt.Sprintf("%s: %s (%s)", label, row.CustomerName.Display(), row.ID)
		if err := uc.notifyRepo.Notify(ctx, text); err != nil {
			uc.logger.Warn("failed to send status notification", zap.String("request", row.ID), zap.Error(err))
		}
	}
	return row, nil
}

// Cleanup removes sessions that are no longer fresh and returns how many were removed
func (uc *SessionUsecase) Cleanup() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	removed := 0
	for id, sess := range uc.sessions {
		if !sess.IsFresh(uc.opts.Session) {
			delete(uc.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions
func (uc *SessionUsecase) Count() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.sessions)
}
