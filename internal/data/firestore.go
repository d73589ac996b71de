package data

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/repo"
)

// firestoreRepo reads request documents from a hosted Firestore collection
type firestoreRepo struct {
	client *firestore.Client
}

// NewFirestoreRepo connects to the Firestore project.
// credsFile may be empty to use application default credentials.
func NewFirestoreRepo(ctx context.Context, projectID, credsFile string) (repo.RequestRepo, error) {
	var opts []option.ClientOption
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &firestoreRepo{client: client}, nil
}

// FetchAll returns every document of the collection
func (r *firestoreRepo) FetchAll(ctx context.Context, collection string) ([]domain.Record, error) {
	snaps, err := r.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}

	records := make([]domain.Record, 0, len(snaps))
	for _, snap := range snaps {
		records = append(records, domain.Record{
			ID:     snap.Ref.ID,
			Fields: snap.Data(),
		})
	}
	return records, nil
}

// Close closes the client
func (r *firestoreRepo) Close() error {
	return r.client.Close()
}
