package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	repo "github.com/oksasatya/news-portal-api/internal/domain/repository"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// AccountService authenticates identities and manages writer accounts and profiles.
type AccountService struct {
	Repo   repo.IdentityRepository
	JWT    *helpers.JWTManager
	Images ImageHost
	Notify Notifier
	Logger *logrus.Logger
}

func NewAccountService(repo repo.IdentityRepository, jwt *helpers.JWTManager, images ImageHost, notify Notifier, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Repo:   repo,
		JWT:    jwt,
		Images: images,
		Notify: notify,
		Logger: logger,
	}
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  *entity.Identity
}

// Authenticate validates email/password and issues a token for the identity.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, badRequest("email and password required")
	}
	u, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Issue(helpers.Claims{
		ID:       u.ID,
		Name:     u.Name,
		Category: u.Category,
		Role:     string(u.Role),
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		}
		return nil, internalErr("issue token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Identity: u}, nil
}

type CreateWriterInput struct {
	Name     string
	Email    string
	Password string
	Category string
}

// CreateWriter registers a new identity with the writer role.
func (s *AccountService) CreateWriter(ctx context.Context, in CreateWriterInput) (*entity.Identity, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	category := strings.TrimSpace(in.Category)
	if name == "" || email == "" || category == "" || in.Password == "" {
		return nil, badRequest("name, email, password and category are required")
	}
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, internalErr("hash password", err)
	}
	w := &entity.Identity{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleWriter,
		Category:     category,
	}
	if err := s.Repo.Create(ctx, w); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, conflict("email")
		}
		return nil, internalErr("create writer", err)
	}
	if s.Notify != nil {
		if nErr := s.Notify.WriterCreated(ctx, *w); nErr != nil && s.Logger != nil {
			s.Logger.WithError(nErr).WithField("user_id", w.ID).Warn("writer welcome notification failed")
		}
	}
	return w, nil
}

func (s *AccountService) ListWriters(ctx context.Context) ([]entity.Identity, error) {
	out, err := s.Repo.ListByRole(ctx, entity.RoleWriter)
	if err != nil {
		return nil, internalErr("list writers", err)
	}
	return out, nil
}

func (s *AccountService) GetWriter(ctx context.Context, id string) (*entity.Identity, error) {
	u, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != entity.RoleWriter {
		return nil, notFound("writer")
	}
	return u, nil
}

type UpdateWriterInput struct {
	Name     string
	Email    string
	Category string
}

// UpdateWriter overwrites the writer's name, email and category; empty fields keep their value.
func (s *AccountService) UpdateWriter(ctx context.Context, id string, in UpdateWriterInput) (*entity.Identity, error) {
	u, err := s.GetWriter(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(in.Category); v != "" {
		u.Category = v
	}
	if v := strings.TrimSpace(in.Email); v != "" && v != u.Email {
		if err := s.ensureEmailFree(ctx, v, u.ID); err != nil {
			return nil, err
		}
		u.Email = v
	}
	if err := s.update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AccountService) DeleteWriter(ctx context.Context, id string) error {
	if _, err := s.GetWriter(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("writer")
		}
		return internalErr("delete writer", err)
	}
	return nil
}

func (s *AccountService) GetProfile(ctx context.Context, id string) (*entity.Identity, error) {
	return s.getByID(ctx, id)
}

type UpdateProfileInput struct {
	Name  string
	Email string
	Image *ImageFile // optional
}

// UpdateProfile changes name and email and, when an image is attached, the profile image.
// Only the identity itself or an admin may update a profile.
func (s *AccountService) UpdateProfile(ctx context.Context, caller Caller, id string, in UpdateProfileInput) (*entity.Identity, error) {
	if !caller.canManage(id) {
		return nil, ErrAccessDenied
	}
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, badRequest("name and email are required")
	}
	u, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if email != u.Email {
		if err := s.ensureEmailFree(ctx, email, u.ID); err != nil {
			return nil, err
		}
	}
	u.Name = name
	u.Email = email
	if in.Image != nil {
		url, err := s.Images.Upload(ctx, FolderProfile, *in.Image)
		if err != nil {
			return nil, internalErr("upload profile image", err)
		}
		u.Image = url
	}
	if err := s.update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces the password hash after verifying the old password.
func (s *AccountService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return badRequest("old and new password are required")
	}
	u, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return internalErr("hash password", err)
	}
	if err := s.Repo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("user")
		}
		return internalErr("update password", err)
	}
	return nil
}

func (s *AccountService) getByID(ctx context.Context, id string) (*entity.Identity, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, internalErr("get identity", err)
	}
	return u, nil
}

func (s *AccountService) getByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, internalErr("get identity by email", err)
	}
	return u, nil
}

// ensureEmailFree fails with a conflict when email belongs to an identity other than selfID.
func (s *AccountService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil
	case err != nil:
		return internalErr("check email", err)
	case existing.ID != selfID:
		return conflict("email")
	}
	return nil
}

func (s *AccountService) update(ctx context.Context, u *entity.Identity) error {
	if err := s.Repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return notFound("user")
		case errors.Is(err, repo.ErrDuplicate):
			return conflict("email")
		}
		return internalErr("update identity", err)
	}
	return nil
}
