package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/internal/domain/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var (
	ts             = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	identityFields = []string{"id", "name", "email", "password_hash", "role", "category", "image", "created_at", "updated_at"}
	articleFields  = []string{"id", "writer_id", "writer_name", "title", "slug", "category", "description", "date", "image", "status", "view_count", "created_at", "updated_at"}
)

func articleRow(id, slug string, views int64) []driver.Value {
	return []driver.Value{id, "w-1", "Jane", "Big News", slug, "tech", "<p>x</p>", "March 1, 2025", "https://img/x.png", "active", views, ts, ts}
}

func TestIdentityCreate(t *testing.T) {
	db, mock := newMock(t)
	r := NewIdentityRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO identities \(name, email, password_hash, role, category, image\).*RETURNING id, created_at, updated_at`).
		WithArgs("Jane", "jane@x.io", "hash", "writer", "tech", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-1", ts, ts))

	u := &entity.Identity{Name: "Jane", Email: "jane@x.io", PasswordHash: "hash", Role: entity.RoleWriter, Category: "tech"}
	require.NoError(t, r.Create(context.Background(), u))
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, ts, u.CreatedAt)
}

func TestIdentityCreate_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	r := NewIdentityRepository(db)

	mock.ExpectQuery(`INSERT INTO identities`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "identities_email_key"})

	err := r.Create(context.Background(), &entity.Identity{Email: "jane@x.io", Role: entity.RoleWriter})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestIdentityGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	r := NewIdentityRepository(db)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, role, category, image, created_at, updated_at FROM identities WHERE email = \$1`).
		WithArgs("jane@x.io").
		WillReturnRows(sqlmock.NewRows(identityFields).AddRow("u-1", "Jane", "jane@x.io", "hash", "writer", "tech", "", ts, ts))

	u, err := r.GetByEmail(context.Background(), "jane@x.io")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleWriter, u.Role)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestIdentityGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewIdentityRepository(db)

	mock.ExpectQuery(`FROM identities WHERE id = \$1`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	_, err := r.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectQuery(`FROM identities WHERE id = \$1`).WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})
	_, err = r.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIdentityListByRole(t *testing.T) {
	db, mock := newMock(t)
	r := NewIdentityRepository(db)

	mock.ExpectQuery(`FROM identities WHERE role = \$1 ORDER BY created_at DESC`).
		WithArgs("writer").
		WillReturnRows(sqlmock.NewRows(identityFields).
			AddRow("u-2", "Bob", "bob@x.io", "h", "writer", "sport", "", ts, ts).
			AddRow("u-1", "Jane", "jane@x.io", "h", "writer", "tech", "", ts, ts))

	list, err := r.ListByRole(context.Background(), entity.RoleWriter)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bob", list[0].Name)
}

func TestIdentityDelete(t *testing.T) {
	db, mock := newMock(t)
	r := NewIdentityRepository(db)

	mock.ExpectExec(`DELETE FROM identities WHERE id = \$1`).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.Delete(context.Background(), "u-1"))

	mock.ExpectExec(`DELETE FROM identities WHERE id = \$1`).WithArgs("u-9").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, r.Delete(context.Background(), "u-9"), repository.ErrNotFound)
}

func TestIdentityUpdatePassword_DBError(t *testing.T) {
	db, mock := newMock(t)
	r := NewIdentityRepository(db)

	mock.ExpectExec(`UPDATE identities SET password_hash = \$2`).WithArgs("u-1", "h2").WillReturnError(errors.New("db down"))
	err := r.UpdatePassword(context.Background(), "u-1", "h2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update password: db down")
}

func TestArticleCreate(t *testing.T) {
	db, mock := newMock(t)
	r := NewArticleRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO articles .*RETURNING id, view_count, created_at, updated_at`).
		WithArgs("w-1", "Jane", "Big News Today", "big-news-today", "tech", "", "March 1, 2025", "https://img/a.png", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "view_count", "created_at", "updated_at"}).AddRow("a-1", int64(0), ts, ts))

	a := &entity.Article{WriterID: "w-1", WriterName: "Jane", Title: "Big News Today", Slug: "big-news-today",
		Category: "tech", Date: "March 1, 2025", Image: "https://img/a.png", Status: entity.StatusPending}
	require.NoError(t, r.Create(context.Background(), a))
	assert.Equal(t, "a-1", a.ID)
}

func TestArticleIncrementViews(t *testing.T) {
	db, mock := newMock(t)
	r := NewArticleRepository(db)

	mock.ExpectQuery(`(?s)UPDATE articles SET view_count = view_count \+ 1.*WHERE slug = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("big-news").
		WillReturnRows(sqlmock.NewRows(articleFields).AddRow(articleRow("a-1", "big-news", 4)...))

	a, err := r.IncrementViews(context.Background(), "big-news")
	require.NoError(t, err)
	assert.Equal(t, int64(4), a.ViewCount)
	assert.Equal(t, entity.StatusActive, a.Status)

	mock.ExpectQuery(`UPDATE articles SET view_count`).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err = r.IncrementViews(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBuildListQuery(t *testing.T) {
	q, args := buildListQuery(repository.ArticleFilter{
		Status:        entity.StatusActive,
		Category:      "tech",
		ExcludeSlug:   "big-news",
		TitleContains: "50%_off",
		Order:         repository.OrderMostViewed,
		Skip:          6,
		Limit:         5,
	})
	assert.Equal(t, "SELECT "+articleColumns+" FROM articles"+
		" WHERE status = $1 AND category = $2 AND slug <> $3 AND title ILIKE $4"+
		" ORDER BY view_count DESC, created_at DESC LIMIT $5 OFFSET $6", q)
	assert.Equal(t, []any{"active", "tech", "big-news", `%50\%\_off%`, 5, 6}, args)

	q, args = buildListQuery(repository.ArticleFilter{})
	assert.Equal(t, "SELECT "+articleColumns+" FROM articles ORDER BY created_at DESC", q)
	assert.Empty(t, args)
}

func TestArticleList(t *testing.T) {
	db, mock := newMock(t)
	r := NewArticleRepository(db)

	mock.ExpectQuery(`FROM articles WHERE writer_id = \$1 ORDER BY created_at DESC`).
		WithArgs("w-1").
		WillReturnRows(sqlmock.NewRows(articleFields).
			AddRow(articleRow("a-2", "two", 0)...).
			AddRow(articleRow("a-1", "one", 0)...))

	list, err := r.List(context.Background(), repository.ArticleFilter{WriterID: "w-1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-2", list[0].ID)
}

func TestArticleLatestPerCategory(t *testing.T) {
	db, mock := newMock(t)
	r := NewArticleRepository(db)

	mock.ExpectQuery(`(?s)ROW_NUMBER\(\) OVER \(PARTITION BY category ORDER BY created_at DESC\).*WHERE rn <= \$2`).
		WithArgs("active", 5).
		WillReturnRows(sqlmock.NewRows(articleFields).AddRow(articleRow("a-1", "one", 0)...))

	list, err := r.LatestPerCategory(context.Background(), entity.StatusActive, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestArticleCounts(t *testing.T) {
	db, mock := newMock(t)
	r := NewArticleRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM articles$`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))
	n, err := r.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	mock.ExpectQuery(`SELECT count\(\*\) FROM articles WHERE status = \$1`).WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	n, err = r.Count(ctx, entity.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mock.ExpectQuery(`SELECT category, count\(\*\) FROM articles GROUP BY category`).
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).AddRow("sport", int64(1)).AddRow("tech", int64(6)))
	cc, err := r.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.CategoryCount{{Category: "sport", Count: 1}, {Category: "tech", Count: 6}}, cc)
}

func TestArticleUpdateStatus_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewArticleRepository(db)

	mock.ExpectQuery(`UPDATE articles SET status = \$2`).WithArgs("a-9", "active").WillReturnError(sql.ErrNoRows)
	_, err := r.UpdateStatus(context.Background(), "a-9", entity.StatusActive)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestArticleSampleImages(t *testing.T) {
	db, mock := newMock(t)
	r := NewArticleRepository(db)

	mock.ExpectQuery(`SELECT id, image FROM articles WHERE status = \$1 ORDER BY random\(\) LIMIT \$2`).
		WithArgs("active", 9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "image"}).AddRow("a-1", "https://img/1.png"))

	imgs, err := r.SampleImages(context.Background(), entity.StatusActive, 9)
	require.NoError(t, err)
	assert.Equal(t, []entity.ArticleImage{{ID: "a-1", Image: "https://img/1.png"}}, imgs)
}

func TestGalleryCreateMany(t *testing.T) {
	db, mock := newMock(t)
	r := NewGalleryRepository(db)

	mock.ExpectQuery(`INSERT INTO gallery_images \(writer_id, url\) VALUES \(\$1, \$2\), \(\$3, \$4\) RETURNING id, created_at`).
		WithArgs("w-1", "https://img/1.png", "w-1", "https://img/2.png").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("g-1", ts).AddRow("g-2", ts))

	images := []entity.GalleryImage{{WriterID: "w-1", URL: "https://img/1.png"}, {WriterID: "w-1", URL: "https://img/2.png"}}
	require.NoError(t, r.CreateMany(context.Background(), images))
	assert.Equal(t, "g-1", images[0].ID)
	assert.Equal(t, "g-2", images[1].ID)

	require.NoError(t, r.CreateMany(context.Background(), nil))
}

func TestGalleryListByWriter(t *testing.T) {
	db, mock := newMock(t)
	r := NewGalleryRepository(db)

	mock.ExpectQuery(`(?s)FROM gallery_images\s+WHERE writer_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs("w-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "writer_id", "url", "created_at"}).AddRow("g-2", "w-1", "https://img/2.png", ts))

	list, err := r.ListByWriter(context.Background(), "w-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "g-2", list[0].ID)
}
