package repo

import "context"

// NotifyRepo delivers a short operations notice when a row action is recorded
type NotifyRepo interface {
	// Notify sends text to the configured destination
	Notify(ctx context.Context, text string) error
}
