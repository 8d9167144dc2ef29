package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/internal/domain/repository/repotest"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

func newAccountService(t *testing.T) (*AccountService, *repotest.Identities, *fakeImages, *fakeNotifier) {
	t.Helper()
	ids := repotest.NewIdentities()
	imgs := &fakeImages{}
	n := &fakeNotifier{}
	return NewAccountService(ids, helpers.NewJWTManager("test-secret"), imgs, n, quietLogger()), ids, imgs, n
}

func seedAdmin(t *testing.T, ids *repotest.Identities) *entity.Identity {
	t.Helper()
	hash, err := helpers.HashPassword("admin-pass")
	require.NoError(t, err)
	a := &entity.Identity{Name: "Admin", Email: "admin@x.io", PasswordHash: hash, Role: entity.RoleAdmin}
	require.NoError(t, ids.Create(context.Background(), a))
	return a
}

func TestCreateWriter_ThenDuplicateConflicts(t *testing.T) {
	svc, _, _, n := newAccountService(t)
	ctx := context.Background()

	w, err := svc.CreateWriter(ctx, CreateWriterInput{Name: "Jane", Email: "jane@x.io", Password: "secret1", Category: "tech"})
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, entity.RoleWriter, w.Role)
	assert.NotEqual(t, "secret1", w.PasswordHash)
	assert.Equal(t, []string{"jane@x.io"}, n.welcomed)

	_, err = svc.CreateWriter(ctx, CreateWriterInput{Name: "Jane 2", Email: "jane@x.io", Password: "other", Category: "sport"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateWriter_MissingField(t *testing.T) {
	svc, _, _, _ := newAccountService(t)
	_, err := svc.CreateWriter(context.Background(), CreateWriterInput{Name: "Jane", Email: "jane@x.io", Password: "secret1", Category: "  "})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestCreateWriter_NotifierFailureIsIgnored(t *testing.T) {
	svc, _, _, n := newAccountService(t)
	n.err = errBoom
	_, err := svc.CreateWriter(context.Background(), CreateWriterInput{Name: "Jane", Email: "jane@x.io", Password: "secret1", Category: "tech"})
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _, _ := newAccountService(t)
	ctx := context.Background()
	_, err := svc.CreateWriter(ctx, CreateWriterInput{Name: "Jane", Email: "jane@x.io", Password: "secret1", Category: "tech"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "jane@x.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@x.io", "secret1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Authenticate(ctx, "", "secret1")
	assert.ErrorIs(t, err, ErrBadRequest)

	res, err := svc.Authenticate(ctx, "jane@x.io", "secret1")
	require.NoError(t, err)
	claims, err := svc.JWT.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "writer", claims.Role)
	assert.Equal(t, "Jane", claims.Name)
	assert.Equal(t, "tech", claims.Category)
	assert.Equal(t, res.Identity.ID, claims.ID)
}

func TestWriterManagement(t *testing.T) {
	svc, ids, _, _ := newAccountService(t)
	ctx := context.Background()
	admin := seedAdmin(t, ids)
	w, err := svc.CreateWriter(ctx, CreateWriterInput{Name: "Jane", Email: "jane@x.io", Password: "secret1", Category: "tech"})
	require.NoError(t, err)
	_, err = svc.CreateWriter(ctx, CreateWriterInput{Name: "Bob", Email: "bob@x.io", Password: "secret1", Category: "sport"})
	require.NoError(t, err)

	list, err := svc.ListWriters(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "Bob", list[0].Name)

	_, err = svc.GetWriter(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateWriter(ctx, w.ID, UpdateWriterInput{Email: "bob@x.io"})
	assert.ErrorIs(t, err, ErrConflict)

	up, err := svc.UpdateWriter(ctx, w.ID, UpdateWriterInput{Name: "Jane Doe", Category: "science"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", up.Name)
	assert.Equal(t, "jane@x.io", up.Email)
	assert.Equal(t, "science", up.Category)

	require.NoError(t, svc.DeleteWriter(ctx, w.ID))
	_, err = svc.GetWriter(ctx, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteWriter(ctx, admin.ID), ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, ids, imgs, _ := newAccountService(t)
	ctx := context.Background()
	admin := seedAdmin(t, ids)
	w, err := svc.CreateWriter(ctx, CreateWriterInput{Name: "Jane", Email: "jane@x.io", Password: "secret1", Category: "tech"})
	require.NoError(t, err)
	writer := Caller{ID: w.ID, Role: entity.RoleWriter}

	_, err = svc.UpdateProfile(ctx, writer, admin.ID, UpdateProfileInput{Name: "Hacker", Email: "h@x.io"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateProfile(ctx, writer, w.ID, UpdateProfileInput{Name: "Jane", Email: "admin@x.io"})
	assert.ErrorIs(t, err, ErrConflict)

	u, err := svc.UpdateProfile(ctx, writer, w.ID, UpdateProfileInput{Name: "Jane D", Email: "jd@x.io", Image: image("me.png")})
	require.NoError(t, err)
	assert.Equal(t, "jd@x.io", u.Email)
	require.Len(t, imgs.uploads, 1)
	assert.Equal(t, imgs.uploads[0], u.Image)
	assert.Contains(t, u.Image, FolderProfile)

	u, err = svc.UpdateProfile(ctx, Caller{ID: admin.ID, Role: entity.RoleAdmin}, w.ID, UpdateProfileInput{Name: "Jane E", Email: "jd@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "Jane E", u.Name)
	assert.Equal(t, imgs.uploads[0], u.Image)
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newAccountService(t)
	ctx := context.Background()
	w, err := svc.CreateWriter(ctx, CreateWriterInput{Name: "Jane", Email: "jane@x.io", Password: "secret1", Category: "tech"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, w.ID, "nope", "secret2"), ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, w.ID, "secret1", "secret2"))

	_, err = svc.Authenticate(ctx, "jane@x.io", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "jane@x.io", "secret2")
	assert.NoError(t, err)
}

func TestAccountService_RepositoryFailureIsInternal(t *testing.T) {
	svc, ids, _, _ := newAccountService(t)
	ids.Err = errBoom
	_, err := svc.ListWriters(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, errBoom)
}
