package application

import (
	"errors"
	"fmt"

	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

var (
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = helpers.ErrInvalidToken
	ErrAccessDenied       = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal server error")
)

func badRequest(msg string) error { return fmt.Errorf("%w: %s", ErrBadRequest, msg) }

func notFound(what string) error { return fmt.Errorf("%s %w", what, ErrNotFound) }

func conflict(what string) error { return fmt.Errorf("%s %w", what, ErrConflict) }

// internalErr keeps the collaborator error in the chain for logging while
// classifying the failure as internal.
func internalErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}
