package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/internal/domain/repository/repotest"
	"github.com/oksasatya/news-portal-api/internal/interface/middleware"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
	"github.com/oksasatya/news-portal-api/pkg/validation"
)

type stubImages struct {
	mu  sync.Mutex
	seq int
	err error
}

func (s *stubImages) Upload(_ context.Context, folder string, img application.ImageFile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, img.Body)
	s.seq++
	return fmt.Sprintf("https://img.example.com/%s/%d.png", folder, s.seq), nil
}

func (s *stubImages) Delete(context.Context, string, string) error { return nil }

type testEnv struct {
	engine     *gin.Engine
	jwt        *helpers.JWTManager
	identities *repotest.Identities
	articles   *repotest.Articles
	images     *stubImages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		jwt:        helpers.NewJWTManager("test-secret"),
		identities: repotest.NewIdentities(),
		articles:   repotest.NewArticles(),
		images:     &stubImages{},
	}
	gallery := repotest.NewGallery()
	accounts := application.NewAccountService(env.identities, env.jwt, env.images, nil, logger)
	articles := application.NewArticleService(env.articles, gallery, env.identities, env.images, logger)
	queries := application.NewQueryService(env.articles, env.identities, logger)

	authH := NewAuthHandler(accounts, logger)
	writerH := NewWriterHandler(accounts, logger)
	newsH := NewNewsHandler(articles, queries, logger)
	publicH := NewPublicHandler(queries, logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	api := r.Group("/api")
	api.POST("/login", authH.Login)
	api.GET("/news/details/:slug", publicH.Detail)
	api.GET("/search/news", publicH.Search)
	api.GET("/news-statistics", publicH.Statistics)

	auth := api.Group("/", middleware.Auth(env.jwt))
	auth.POST("/change-password", authH.ChangePassword)
	auth.POST("/news/add", newsH.Add)
	auth.PUT("/news/status-update/:newsId", newsH.UpdateStatus)
	auth.POST("/images/add", newsH.AddImages)

	admin := auth.Group("/", middleware.RequireRoles(entity.RoleAdmin))
	admin.POST("/writer/add", writerH.Add)

	env.engine = r
	return env
}

func (e *testEnv) seed(t *testing.T, name, email, password string, role entity.Role) *entity.Identity {
	t.Helper()
	hash, err := helpers.HashPassword(password)
	require.NoError(t, err)
	u := &entity.Identity{Name: name, Email: email, PasswordHash: hash, Role: role, Category: "tech"}
	require.NoError(t, e.identities.Create(context.Background(), u))
	return u
}

func (e *testEnv) token(t *testing.T, u *entity.Identity) string {
	t.Helper()
	tok, _, err := e.jwt.Issue(helpers.Claims{ID: u.ID, Name: u.Name, Category: u.Category, Role: string(u.Role)})
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileField string, files ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range files {
		fw, err := mw.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("png-bytes"))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type envelope struct {
	Status    int             `json:"status"`
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "Admin", "admin@example.com", "secret123", entity.RoleAdmin)

	w := env.do(jsonRequest(http.MethodPost, "/api/login", gin.H{"email": "admin@example.com", "password": "secret123"}), "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.RequestID)

	var data struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	claims, err := env.jwt.Verify(data.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.NotContains(t, data.User, "password_hash")
	assert.NotContains(t, w.Body.String(), "secret123")

	w = env.do(jsonRequest(http.MethodPost, "/api/login", gin.H{"email": "admin@example.com", "password": "wrong-pass"}), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/api/login", gin.H{"email": "nobody@example.com", "password": "secret123"}), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/api/login", gin.H{"email": "not-an-email"}), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(decode(t, w).Error), "email")
}

func TestAddWriter_AdminOnlyAndConflict(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seed(t, "Admin", "admin@example.com", "secret123", entity.RoleAdmin)
	writer := env.seed(t, "Will", "will@example.com", "secret123", entity.RoleWriter)
	payload := gin.H{"name": "Jane", "email": "jane@x.com", "password": "secret1", "category": "tech"}

	w := env.do(jsonRequest(http.MethodPost, "/api/writer/add", payload), env.token(t, writer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/api/writer/add", payload), env.token(t, admin))
	require.Equal(t, http.StatusCreated, w.Code)
	var created entity.Identity
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, entity.RoleWriter, created.Role)

	w = env.do(jsonRequest(http.MethodPost, "/api/writer/add", payload), env.token(t, admin))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSetStatus_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seed(t, "Admin", "admin@example.com", "secret123", entity.RoleAdmin)
	writer := env.seed(t, "Will", "will@example.com", "secret123", entity.RoleWriter)
	a := env.articles.Put(entity.Article{WriterID: writer.ID, Title: "T", Slug: "t", Status: entity.StatusPending})
	path := "/api/news/status-update/" + a.ID
	body := gin.H{"status": "active"}

	w := env.do(jsonRequest(http.MethodPut, path, body), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(jsonRequest(http.MethodPut, path, body), env.token(t, writer))
	assert.Equal(t, http.StatusForbidden, w.Code)
	got, err := env.articles.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)

	w = env.do(jsonRequest(http.MethodPut, path, body), env.token(t, admin))
	require.Equal(t, http.StatusOK, w.Code)
	got, err = env.articles.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, got.Status)

	w = env.do(jsonRequest(http.MethodPut, path, gin.H{"status": "published"}), env.token(t, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	req := jsonRequest(http.MethodPost, "/api/change-password", gin.H{})
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/api/change-password", gin.H{}), "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddNews_Multipart(t *testing.T) {
	env := newTestEnv(t)
	writer := env.seed(t, "Will", "will@example.com", "secret123", entity.RoleWriter)

	req := multipartRequest(t, "/api/news/add", map[string]string{"title": "Big News Today", "description": "<p>hi</p><script>x()</script>"}, "image", "a.png")
	w := env.do(req, env.token(t, writer))
	require.Equal(t, http.StatusCreated, w.Code)

	var a entity.Article
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &a))
	assert.Equal(t, "big-news-today", a.Slug)
	assert.Equal(t, entity.StatusPending, a.Status)
	assert.Equal(t, "Will", a.WriterName)
	assert.Equal(t, "tech", a.Category)
	assert.NotContains(t, a.Description, "script")
	assert.Contains(t, a.Image, "news_images")

	req = multipartRequest(t, "/api/news/add", map[string]string{"title": "No image"}, "image")
	w = env.do(req, env.token(t, writer))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddImages_InternalErrorIsGeneric(t *testing.T) {
	env := newTestEnv(t)
	writer := env.seed(t, "Will", "will@example.com", "secret123", entity.RoleWriter)
	env.images.err = fmt.Errorf("bucket exploded")

	req := multipartRequest(t, "/api/images/add", nil, "images", "a.png", "b.png")
	w := env.do(req, env.token(t, writer))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, w.Body.String(), "bucket exploded")

	env.images.err = nil
	req = multipartRequest(t, "/api/images/add", nil, "images", "a.png", "b.png")
	w = env.do(req, env.token(t, writer))
	require.Equal(t, http.StatusCreated, w.Code)
	var images []entity.GalleryImage
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &images))
	assert.Len(t, images, 2)
}

func TestPublicEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.articles.Put(entity.Article{Title: "Go", Slug: "go", Category: "tech", Status: entity.StatusActive})

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/news/details/go", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		News    entity.Article   `json:"news"`
		Related []entity.Article `json:"related_news"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &detail))
	assert.Equal(t, int64(1), detail.News.ViewCount)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/news/details/missing", nil), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/search/news?value=", nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/search/news?value=GO", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	var found []entity.Article
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &found))
	assert.Len(t, found, 1)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/news-statistics", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	var st entity.Statistics
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &st))
	assert.Equal(t, int64(1), st.ActiveNews)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		application.ErrBadRequest:         http.StatusBadRequest,
		application.ErrUnauthorized:       http.StatusUnauthorized,
		application.ErrInvalidToken:       http.StatusUnauthorized,
		application.ErrInvalidCredentials: http.StatusUnauthorized,
		application.ErrAccessDenied:       http.StatusForbidden,
		application.ErrNotFound:           http.StatusNotFound,
		application.ErrConflict:           http.StatusConflict,
		application.ErrInternal:           http.StatusInternalServerError,
		fmt.Errorf("other"):               http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
}
