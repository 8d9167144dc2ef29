// Package notify turns account and article events into queued emails.
package notify

import (
	"context"
	"time"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/pkg/mailer"
	mailtpl "github.com/oksasatya/news-portal-api/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier queues emails for the email worker to send.
type EmailNotifier struct {
	pub  Publisher
	base mailtpl.Base
	now  func() time.Time
}

func NewEmailNotifier(pub Publisher, appName, dashboardURL string) *EmailNotifier {
	return &EmailNotifier{
		pub:  pub,
		base: mailtpl.Base{AppName: appName, DashboardURL: dashboardURL},
		now:  time.Now,
	}
}

func (n *EmailNotifier) WriterCreated(ctx context.Context, w entity.Identity) error {
	return n.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       w.Email,
		Template: mailtpl.WriterWelcome,
		Data:     mailtpl.NewWriterWelcomeData(n.base, w.Name, w.Email, w.Category),
	})
}

func (n *EmailNotifier) ArticleStatusChanged(ctx context.Context, author entity.Identity, a entity.Article) error {
	return n.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       author.Email,
		Template: mailtpl.ArticleStatus,
		Data: mailtpl.NewArticleStatusData(n.base, author.Name, author.Email, a.Title, a.Slug, string(a.Status),
			mailtpl.WithTime(n.now())),
	})
}

var _ application.Notifier = (*EmailNotifier)(nil)
