package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/shipper/pkg/domain/interfaces"
	"github.com/m-mizutani/shipper/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts completion notices to a Slack incoming webhook. Other
// notification levels are ignored.
type Notifier struct {
	webhookURL string
	repo       string
}

var _ interfaces.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier. repo is prefixed to messages when set.
func NewNotifier(webhookURL, repo string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		repo:       repo,
	}
}

// Notify implements interfaces.Notifier. A failed post is logged, it never
// fails the run.
func (n *Notifier) Notify(ctx context.Context, notification model.Notification) {
	if notification.Level != model.LevelNotice {
		return
	}

	text := notification.String()
	if n.repo != "" {
		text = "*" + n.repo + "*: " + text
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, &slack.WebhookMessage{Text: text}); err != nil {
		ctxlog.From(ctx).Warn("Failed to post notice to Slack", "error", err)
		return
	}
	ctxlog.From(ctx).Debug("Posted notice to Slack", "text", text)
}
