// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/internal/domain/repository"
)

// clock hands out strictly increasing timestamps so ordering by creation time is deterministic.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	c.now = c.now.Add(time.Second)
	return c.now
}

// Identities is an in-memory IdentityRepository.
type Identities struct {
	mu    sync.Mutex
	clk   clock
	items map[string]entity.Identity
	Err   error // returned by every call when set
}

func NewIdentities() *Identities {
	return &Identities{items: map[string]entity.Identity{}}
}

func (r *Identities) Create(_ context.Context, i *entity.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, it := range r.items {
		if it.Email == i.Email {
			return repository.ErrDuplicate
		}
	}
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	i.CreatedAt = r.clk.next()
	i.UpdatedAt = i.CreatedAt
	r.items[i.ID] = *i
	return nil
}

func (r *Identities) GetByID(_ context.Context, id string) (*entity.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	it, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (r *Identities) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, it := range r.items {
		if it.Email == email {
			out := it
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Identities) ListByRole(_ context.Context, role entity.Role) ([]entity.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []entity.Identity{}
	for _, it := range r.items {
		if it.Role == role {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (r *Identities) Update(_ context.Context, i *entity.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cur, ok := r.items[i.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, it := range r.items {
		if id != i.ID && it.Email == i.Email {
			return repository.ErrDuplicate
		}
	}
	cur.Name, cur.Email, cur.Category, cur.Image = i.Name, i.Email, i.Category, i.Image
	cur.UpdatedAt = r.clk.next()
	r.items[i.ID] = cur
	*i = cur
	return nil
}

func (r *Identities) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cur, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.PasswordHash = hash
	cur.UpdatedAt = r.clk.next()
	r.items[id] = cur
	return nil
}

func (r *Identities) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Identities) CountByRole(_ context.Context, role entity.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, it := range r.items {
		if it.Role == role {
			n++
		}
	}
	return n, nil
}

// Articles is an in-memory ArticleRepository.
type Articles struct {
	mu    sync.Mutex
	clk   clock
	items map[string]entity.Article
	Err   error
}

func NewArticles() *Articles {
	return &Articles{items: map[string]entity.Article{}}
}

// Put stores a copy of a as is, assigning an ID and timestamps when missing.
func (r *Articles) Put(a entity.Article) entity.Article {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.clk.next()
		a.UpdatedAt = a.CreatedAt
	}
	r.items[a.ID] = a
	return a
}

func (r *Articles) Create(_ context.Context, a *entity.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.clk.next()
	a.UpdatedAt = a.CreatedAt
	r.items[a.ID] = *a
	return nil
}

func (r *Articles) GetByID(_ context.Context, id string) (*entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	a, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *Articles) Update(_ context.Context, a *entity.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cur, ok := r.items[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Title, cur.Slug, cur.Description, cur.Image = a.Title, a.Slug, a.Description, a.Image
	cur.UpdatedAt = r.clk.next()
	r.items[a.ID] = cur
	*a = cur
	return nil
}

func (r *Articles) UpdateStatus(_ context.Context, id string, status entity.Status) (*entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	cur, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cur.Status = status
	cur.UpdatedAt = r.clk.next()
	r.items[id] = cur
	return &cur, nil
}

func (r *Articles) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Articles) sorted(order repository.ArticleOrder) []entity.Article {
	out := make([]entity.Article, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if order == repository.OrderMostViewed && out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *Articles) List(_ context.Context, f repository.ArticleFilter) ([]entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []entity.Article{}
	for _, a := range r.sorted(f.Order) {
		if f.WriterID != "" && a.WriterID != f.WriterID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.ExcludeSlug != "" && a.Slug == f.ExcludeSlug {
			continue
		}
		if f.TitleContains != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(f.TitleContains)) {
			continue
		}
		out = append(out, a)
	}
	if f.Skip > 0 {
		if f.Skip >= len(out) {
			return []entity.Article{}, nil
		}
		out = out[f.Skip:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *Articles) IncrementViews(_ context.Context, slug string) (*entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, a := range r.sorted(repository.OrderNewest) {
		if a.Slug == slug {
			a.ViewCount++
			r.items[a.ID] = a
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Articles) LatestPerCategory(_ context.Context, status entity.Status, perCategory int) ([]entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	seen := map[string]int{}
	out := []entity.Article{}
	for _, a := range r.sorted(repository.OrderNewest) {
		if a.Status != status || seen[a.Category] >= perCategory {
			continue
		}
		seen[a.Category]++
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *Articles) CountByCategory(_ context.Context) ([]entity.CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	counts := map[string]int64{}
	for _, a := range r.items {
		counts[a.Category]++
	}
	out := make([]entity.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, entity.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *Articles) Count(_ context.Context, status entity.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, a := range r.items {
		if status == "" || a.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *Articles) SampleImages(_ context.Context, status entity.Status, n int) ([]entity.ArticleImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []entity.ArticleImage{}
	for _, a := range r.items {
		if a.Status == status {
			out = append(out, entity.ArticleImage{ID: a.ID, Image: a.Image})
		}
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Gallery is an in-memory GalleryRepository.
type Gallery struct {
	mu    sync.Mutex
	clk   clock
	items []entity.GalleryImage
	Err   error
}

func NewGallery() *Gallery { return &Gallery{} }

func (r *Gallery) CreateMany(_ context.Context, images []entity.GalleryImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for i := range images {
		images[i].ID = uuid.NewString()
		images[i].CreatedAt = r.clk.next()
	}
	r.items = append(r.items, images...)
	return nil
}

func (r *Gallery) ListByWriter(_ context.Context, writerID string) ([]entity.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []entity.GalleryImage{}
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].WriterID == writerID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

// Len reports how many gallery images are stored.
func (r *Gallery) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

var (
	_ repository.IdentityRepository = (*Identities)(nil)
	_ repository.ArticleRepository  = (*Articles)(nil)
	_ repository.GalleryRepository  = (*Gallery)(nil)
)
