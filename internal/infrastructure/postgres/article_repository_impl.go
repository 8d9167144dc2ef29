package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/internal/domain/repository"
)

const articleColumns = `id, writer_id, writer_name, title, slug, category, description, date, image, status, view_count, created_at, updated_at`

type ArticleRepository struct {
	db DBTX
}

func NewArticleRepository(db DBTX) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func scanArticle(row rowScanner) (*entity.Article, error) {
	a := &entity.Article{}
	var status string
	if err := row.Scan(&a.ID, &a.WriterID, &a.WriterName, &a.Title, &a.Slug, &a.Category, &a.Description,
		&a.Date, &a.Image, &status, &a.ViewCount, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = entity.Status(status)
	return a, nil
}

func (r *ArticleRepository) queryArticles(ctx context.Context, op, query string, args ...any) ([]entity.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer func() { _ = rows.Close() }()

	out := []entity.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, mapErr(op, err)
		}
		out = append(out, *a)
	}
	return out, mapErr(op, rows.Err())
}

func (r *ArticleRepository) Create(ctx context.Context, a *entity.Article) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO articles (writer_id, writer_name, title, slug, category, description, date, image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, view_count, created_at, updated_at
	`, a.WriterID, a.WriterName, a.Title, a.Slug, a.Category, a.Description, a.Date, a.Image, string(a.Status)).
		Scan(&a.ID, &a.ViewCount, &a.CreatedAt, &a.UpdatedAt)
	return mapErr("insert article", err)
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("get article", err)
	}
	return a, nil
}

func (r *ArticleRepository) Update(ctx context.Context, a *entity.Article) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE articles
		SET title = $2, slug = $3, description = $4, image = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, a.ID, a.Title, a.Slug, a.Description, a.Image).Scan(&a.UpdatedAt)
	return mapErr("update article", err)
}

func (r *ArticleRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, `
		UPDATE articles SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+articleColumns, id, string(status)))
	if err != nil {
		return nil, mapErr("update article status", err)
	}
	return a, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	return affected("delete article", res, err)
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildListQuery renders the filter as SQL with positional arguments.
func buildListQuery(f repository.ArticleFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.WriterID != "" {
		add("writer_id = $%d", f.WriterID)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.ExcludeSlug != "" {
		add("slug <> $%d", f.ExcludeSlug)
	}
	if f.TitleContains != "" {
		add("title ILIKE $%d", "%"+escapeLike(f.TitleContains)+"%")
	}

	var b strings.Builder
	b.WriteString("SELECT " + articleColumns + " FROM articles")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	switch f.Order {
	case repository.OrderMostViewed:
		b.WriteString(" ORDER BY view_count DESC, created_at DESC")
	default:
		b.WriteString(" ORDER BY created_at DESC")
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if f.Skip > 0 {
		args = append(args, f.Skip)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func (r *ArticleRepository) List(ctx context.Context, f repository.ArticleFilter) ([]entity.Article, error) {
	q, args := buildListQuery(f)
	return r.queryArticles(ctx, "list articles", q, args...)
}

func (r *ArticleRepository) IncrementViews(ctx context.Context, slug string) (*entity.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, `
		UPDATE articles SET view_count = view_count + 1
		WHERE id = (
			SELECT id FROM articles WHERE slug = $1 ORDER BY created_at DESC LIMIT 1
		)
		RETURNING `+articleColumns, slug))
	if err != nil {
		return nil, mapErr("increment views", err)
	}
	return a, nil
}

func (r *ArticleRepository) LatestPerCategory(ctx context.Context, status entity.Status, perCategory int) ([]entity.Article, error) {
	return r.queryArticles(ctx, "latest per category", `
		SELECT `+articleColumns+` FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY category ORDER BY created_at DESC) AS rn
			FROM articles
			WHERE status = $1
		) ranked
		WHERE rn <= $2
		ORDER BY category, created_at DESC
	`, string(status), perCategory)
}

func (r *ArticleRepository) CountByCategory(ctx context.Context) ([]entity.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, count(*) FROM articles GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, mapErr("count by category", err)
	}
	defer func() { _ = rows.Close() }()

	out := []entity.CategoryCount{}
	for rows.Next() {
		var c entity.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, mapErr("count by category", err)
		}
		out = append(out, c)
	}
	return out, mapErr("count by category", rows.Err())
}

func (r *ArticleRepository) Count(ctx context.Context, status entity.Status) (int64, error) {
	var (
		n   int64
		err error
	)
	if status == "" {
		err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM articles WHERE status = $1`, string(status)).Scan(&n)
	}
	if err != nil {
		return 0, mapErr("count articles", err)
	}
	return n, nil
}

func (r *ArticleRepository) SampleImages(ctx context.Context, status entity.Status, n int) ([]entity.ArticleImage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, image FROM articles WHERE status = $1 ORDER BY random() LIMIT $2`, string(status), n)
	if err != nil {
		return nil, mapErr("sample images", err)
	}
	defer func() { _ = rows.Close() }()

	out := []entity.ArticleImage{}
	for rows.Next() {
		var im entity.ArticleImage
		if err := rows.Scan(&im.ID, &im.Image); err != nil {
			return nil, mapErr("sample images", err)
		}
		out = append(out, im)
	}
	return out, mapErr("sample images", rows.Err())
}

var (
	_ repository.IdentityRepository = (*IdentityRepository)(nil)
	_ repository.ArticleRepository  = (*ArticleRepository)(nil)
	_ repository.GalleryRepository  = (*GalleryRepository)(nil)
)
