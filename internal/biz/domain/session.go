package domain

import (
	"sync"
	"time"
)

// ViewMode selects the column subset shown in the table
type ViewMode string

const (
	ModeMinimal ViewMode = "minimal"
	ModeFull    ViewMode = "full"
)

// Toggle returns the other mode
func (m ViewMode) Toggle() ViewMode {
	if m == ModeFull {
		return ModeMinimal
	}
	return ModeFull
}

// Theme is the dashboard colour scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemeForHour picks dark between 18:00 and 06:00
func ThemeForHour(hour int) Theme {
	if hour < 6 || hour >= 18 {
		return ThemeDark
	}
	return ThemeLight
}

// SortState is the selected sort column and direction (value object)
type SortState struct {
	Key  ColumnKey
	Desc bool
}

// Toggle flips the direction for the same key and resets to ascending for a new key
func (s SortState) Toggle(key ColumnKey) SortState {
	if s.Key == key {
		return SortState{Key: key, Desc: !s.Desc}
	}
	return SortState{Key: key}
}

// ViewSession is the state one admin owns while looking at the dashboard.
// Rows and FetchErr are set once when the batch is fetched and never change after.
type ViewSession struct {
	ID        string
	CreatedAt time.Time
	Rows      []Row
	FetchErr  error
	Status    *StatusTracker

	mu        sync.Mutex
	updatedAt time.Time
	query     string
	sort      SortState
	mode      ViewMode
	theme     Theme
}

// SessionConfig represents session configuration (value object)
type SessionConfig struct {
	IdleTimeout time.Duration // Idle timeout
	ResetHour   int           // Daily reset hour (0-23, -1 to disable)
}

// ViewState is a consistent copy of the mutable part of a session
type ViewState struct {
	Query string
	Sort  SortState
	Mode  ViewMode
	Theme Theme
}

// NewViewSession creates a session around a fetched batch
func NewViewSession(id string, rows []Row, fetchErr error, theme Theme) *ViewSession {
	now := time.Now()
	return &ViewSession{
		ID:        id,
		CreatedAt: now,
		Rows:      rows,
		FetchErr:  fetchErr,
		Status:    NewStatusTracker(),
		updatedAt: now,
		mode:      ModeMinimal,
		theme:     theme,
	}
}

// State returns the current view state
func (s *ViewSession) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewState{Query: s.query, Sort: s.sort, Mode: s.mode, Theme: s.theme}
}

// UpdatedAt returns the last time the session was used
func (s *ViewSession) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Touch updates active time
func (s *ViewSession) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
}

// SetQuery replaces the search text
func (s *ViewSession) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	s.updatedAt = time.Now()
}

// ToggleSort applies SortState.Toggle and returns the new state
func (s *ViewSession) ToggleSort(key ColumnKey) SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Toggle(key)
	s.updatedAt = time.Now()
	return s.sort
}

// ToggleMode switches between minimal and full columns
func (s *ViewSession) ToggleMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.Toggle()
	s.updatedAt = time.Now()
	return s.mode
}

// SetTheme sets the colour scheme
func (s *ViewSession) SetTheme(t Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
	s.updatedAt = time.Now()
}

// FindRow returns the row with the given id
func (s *ViewSession) FindRow(id string) (Row, error) {
	for _, r := range s.Rows {
		if r.ID == id {
			return r, nil
		}
	}
	return Row{}, ErrRequestNotFound
}

// IsFresh checks if session is valid
func (s *ViewSession) IsFresh(cfg SessionConfig) bool {
	return s.isFreshAt(cfg, time.Now())
}

func (s *ViewSession) isFreshAt(cfg SessionConfig, now time.Time) bool {
	updatedAt := s.UpdatedAt()

	// Check idle timeout
	if cfg.IdleTimeout > 0 {
		if now.Sub(updatedAt) > cfg.IdleTimeout {
			return false
		}
	}

	// Check daily reset
	if cfg.ResetHour >= 0 && cfg.ResetHour < 24 {
		resetTime := time.Date(now.Year(), now.Month(), now.Day(), cfg.ResetHour, 0, 0, 0, now.Location())

		if now.After(resetTime) && updatedAt.Before(resetTime) {
			return false
		}

		if now.Before(resetTime) {
			yesterdayReset := resetTime.Add(-24 * time.Hour)
			if updatedAt.Before(yesterdayReset) {
				return false
			}
		}
	}

	return true
}
