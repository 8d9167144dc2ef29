package postgres

import (
	"context"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
)

const identityColumns = `id, name, email, password_hash, role, category, image, created_at, updated_at`

type IdentityRepository struct {
	db DBTX
}

func NewIdentityRepository(db DBTX) *IdentityRepository {
	return &IdentityRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*entity.Identity, error) {
	u := &entity.Identity{}
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Category, &u.Image,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *IdentityRepository) Create(ctx context.Context, u *entity.Identity) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO identities (name, email, password_hash, role, category, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Category, u.Image).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return mapErr("insert identity", err)
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	u, err := scanIdentity(r.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("get identity", err)
	}
	return u, nil
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	u, err := scanIdentity(r.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE email = $1`, email))
	if err != nil {
		return nil, mapErr("get identity by email", err)
	}
	return u, nil
}

func (r *IdentityRepository) ListByRole(ctx context.Context, role entity.Role) ([]entity.Identity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE role = $1 ORDER BY created_at DESC`, string(role))
	if err != nil {
		return nil, mapErr("list identities", err)
	}
	defer func() { _ = rows.Close() }()

	out := []entity.Identity{}
	for rows.Next() {
		u, err := scanIdentity(rows)
		if err != nil {
			return nil, mapErr("scan identity", err)
		}
		out = append(out, *u)
	}
	return out, mapErr("list identities", rows.Err())
}

func (r *IdentityRepository) Update(ctx context.Context, u *entity.Identity) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE identities
		SET name = $2, email = $3, category = $4, image = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, u.ID, u.Name, u.Email, u.Category, u.Image).Scan(&u.UpdatedAt)
	return mapErr("update identity", err)
}

func (r *IdentityRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE identities SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	return affected("update password", res, err)
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, id)
	return affected("delete identity", res, err)
}

func (r *IdentityRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM identities WHERE role = $1`, string(role)).Scan(&n); err != nil {
		return 0, mapErr("count identities", err)
	}
	return n, nil
}
