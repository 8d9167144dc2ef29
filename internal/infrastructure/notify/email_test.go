package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/pkg/mailer"
	mailtpl "github.com/oksasatya/news-portal-api/pkg/mailer/templates"
)

type capture struct{ jobs []mailer.EmailJob }

func (c *capture) PublishJSON(_ context.Context, body any) error {
	c.jobs = append(c.jobs, body.(mailer.EmailJob))
	return nil
}

func TestWriterCreated(t *testing.T) {
	c := &capture{}
	n := NewEmailNotifier(c, "Daily Planet", "https://planet.example/dashboard")
	require.NoError(t, n.WriterCreated(context.Background(), entity.Identity{Name: "Jane", Email: "jane@x.io", Category: "tech"}))

	require.Len(t, c.jobs, 1)
	job := c.jobs[0]
	assert.Equal(t, "jane@x.io", job.To)
	assert.Equal(t, mailtpl.WriterWelcome, job.Template)
	assert.Equal(t, "tech", job.Data["Category"])
	assert.Equal(t, "Daily Planet", job.Data["AppName"])
}

func TestArticleStatusChanged_RendersForWorker(t *testing.T) {
	c := &capture{}
	n := NewEmailNotifier(c, "Daily Planet", "")
	a := entity.Article{Title: "Big News", Slug: "big-news", Status: entity.StatusDeactive}
	require.NoError(t, n.ArticleStatusChanged(context.Background(), entity.Identity{Name: "Jane", Email: "jane@x.io"}, a))

	job := c.jobs[0]
	assert.Equal(t, "deactive", job.Data["Status"])
	subject, _, _, err := mailtpl.Render(job.Template, job.Data)
	require.NoError(t, err)
	assert.Contains(t, subject, `"Big News" is now deactive`)
}
