package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}
func WithCategory(c string) Option { return func(d *EmailData) { d.Category = c } }
func WithArticle(title, slug, status string) Option {
	return func(d *EmailData) {
		d.ArticleTitle = title
		d.ArticleSlug = slug
		d.Status = status
	}
}

// Base carries the application wide fields every email shows.
type Base struct {
	AppName      string
	DashboardURL string
}

// NewBaseEmailData fills the common fields and applies opts.
func NewBaseEmailData(b Base, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:         name,
		Email:        email,
		Type:         typ,
		AppName:      b.AppName,
		DashboardURL: b.DashboardURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWriterWelcomeData(b Base, name, email, category string, opts ...Option) map[string]any {
	opts = append([]Option{WithCategory(category)}, opts...)
	return ToMap(NewBaseEmailData(b, WriterWelcome, name, email, opts...))
}

func NewArticleStatusData(b Base, name, email, title, slug, status string, opts ...Option) map[string]any {
	opts = append([]Option{WithArticle(title, slug, status)}, opts...)
	return ToMap(NewBaseEmailData(b, ArticleStatus, name, email, opts...))
}
