package repo

import (
	"context"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
)

// RequestRepo is the order request source interface
// Responsible for fetching the full request collection from the document store
type RequestRepo interface {
	// FetchAll returns every document of the collection, in no particular order
	FetchAll(ctx context.Context, collection string) ([]domain.Record, error)

	Close() error
}

// DocumentWriter stores raw documents, used to seed a local store
type DocumentWriter interface {
	Put(ctx context.Context, collection string, rec domain.Record) error
}
