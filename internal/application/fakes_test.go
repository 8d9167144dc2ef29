package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
)

var errBoom = errors.New("boom")

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func image(name string) *ImageFile {
	return &ImageFile{Filename: name, ContentType: "image/png", Body: strings.NewReader("png")}
}

type fakeImages struct {
	mu        sync.Mutex
	seq       int
	uploads   []string
	deleted   []string
	failOn    string // upload of this filename fails
	deleteErr error
}

func (f *fakeImages) Upload(_ context.Context, folder string, img ImageFile) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && img.Filename == f.failOn {
		return "", errBoom
	}
	f.seq++
	url := fmt.Sprintf("https://img.example.com/%s/img%d.png", folder, f.seq)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeImages) Delete(_ context.Context, folder, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, folder+"/"+publicID)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	welcomed []string
	statuses []string
	err      error
}

func (f *fakeNotifier) WriterCreated(_ context.Context, w entity.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomed = append(f.welcomed, w.Email)
	return f.err
}

func (f *fakeNotifier) ArticleStatusChanged(_ context.Context, author entity.Identity, a entity.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, author.Email+":"+string(a.Status))
	return f.err
}

type fakeIndex struct {
	docs      map[string]entity.Article
	searchErr error
	searched  int
	lastLimit int
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]entity.Article{}} }

func (f *fakeIndex) Index(_ context.Context, a entity.Article) error {
	f.docs[a.ID] = a
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, term string, limit int) ([]entity.Article, error) {
	f.searched++
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := []entity.Article{}
	for _, a := range f.docs {
		if strings.Contains(strings.ToLower(a.Title), strings.ToLower(term)) && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeIndex) Reindex(_ context.Context, articles []entity.Article) error {
	f.docs = map[string]entity.Article{}
	for _, a := range articles {
		f.docs[a.ID] = a
	}
	return nil
}

// memCache keeps values unserialized. Get only knows the query service read models.
type memCache struct {
	values  map[string]any
	gets    int
	deletes []string
}

func newMemCache() *memCache { return &memCache{values: map[string]any{}} }

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *map[string][]entity.Article:
		*d = v.(map[string][]entity.Article)
	case *map[string]int64:
		*d = v.(map[string]int64)
	default:
		return false, fmt.Errorf("unsupported cache type %T", dest)
	}
	return true, nil
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}
