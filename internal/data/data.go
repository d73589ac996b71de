package data

import (
	"context"

	"github.com/orderdesk/request-dashboard/internal/biz/repo"
	"github.com/orderdesk/request-dashboard/internal/conf"
	"github.com/orderdesk/request-dashboard/internal/infra/feishu"
)

// Repositories contains all repositories
type Repositories struct {
	Request repo.RequestRepo
	Notify  repo.NotifyRepo // nil when notifications are disabled
}

// SourceOptions selects the request source
type SourceOptions struct {
	FirestoreProjectID string
	FirestoreCredsFile string
	DBPath             string
}

// NewRepositories creates all repositories.
// Firestore is used when a project id is given, otherwise the local SQLite store.
// The Feishu notifier is created only when notify is fully configured.
func NewRepositories(ctx context.Context, src SourceOptions, notify conf.FeishuConfig) (*Repositories, error) {
	var requestRepo repo.RequestRepo
	if src.FirestoreProjectID != "" {
		r, err := NewFirestoreRepo(ctx, src.FirestoreProjectID, src.FirestoreCredsFile)
		if err != nil {
			return nil, err
		}
		requestRepo = r
	} else {
		r, err := NewDocumentRepo(src.DBPath)
		if err != nil {
			return nil, err
		}
		requestRepo = r
	}

	repos := &Repositories{Request: requestRepo}
	if notify.NotifyEnabled() {
		repos.Notify = NewFeishuRepo(feishu.NewClient(notify.AppID, notify.AppSecret), notify.NotifyChatID)
	}
	return repos, nil
}

// Close releases the request source
func (r *Repositories) Close() error {
	return r.Request.Close()
}
