package data

import (
	"context"

	"github.com/orderdesk/request-dashboard/internal/biz/repo"
)

// TextSender sends a text message to a chat
type TextSender interface {
	SendText(ctx context.Context, chatID, text string) error
}

// feishuRepo posts status notices to one Feishu chat
type feishuRepo struct {
	client TextSender
	chatID string
}

// NewFeishuRepo creates a new Feishu notification repository
func NewFeishuRepo(client TextSender, chatID string) repo.NotifyRepo {
	return &feishuRepo{client: client, chatID: chatID}
}

// Notify sends text to the configured chat
func (r *feishuRepo) Notify(ctx context.Context, text string) error {
	return r.client.SendText(ctx, r.chatID, text)
}
