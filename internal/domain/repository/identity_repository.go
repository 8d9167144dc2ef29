package repository

import (
	"context"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
)

// IdentityRepository defines the persistence operations for identities.
type IdentityRepository interface {
	Create(ctx context.Context, i *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	ListByRole(ctx context.Context, role entity.Role) ([]entity.Identity, error)
	Update(ctx context.Context, i *entity.Identity) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
