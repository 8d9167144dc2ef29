package entity

import (
	"regexp"
	"strings"
	"time"
)

// Status is the publication state of an Article
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusDeactive Status = "deactive"
)

// ParseStatus returns the Status named by s
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusActive, StatusDeactive:
		return st, true
	}
	return "", false
}

// CanTransition decides whether an article may move from one status to another.
// Every transition is currently allowed.
func CanTransition(from, to Status) bool {
	return true
}

// Article is one news item. WriterName and Category are copied from the author
// when the article is created and are not kept in sync afterwards.
type Article struct {
	ID          string    `json:"id"`
	WriterID    string    `json:"writer_id"`
	WriterName  string    `json:"writer_name"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Image       string    `json:"image"`
	Status      Status    `json:"status"`
	ViewCount   int64     `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify derives the URL key of a title: trimmed, lower-cased, whitespace runs replaced by "-".
func Slugify(title string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

// CategoryCount is the number of articles filed under one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Statistics aggregates dashboard counters
type Statistics struct {
	TotalNews    int64 `json:"totalNews"`
	PendingNews  int64 `json:"totalPendingNews"`
	ActiveNews   int64 `json:"totalActiveNews"`
	DeactiveNews int64 `json:"deactiveNews"`
	TotalWriters int64 `json:"totalWriters"`
}

// ArticleImage is the image of an article, used by the image strip on the front page
type ArticleImage struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}
