package services

import (
	"context"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// UserService exposes the account directory, read-only, to authenticated
// actors.
type UserService interface {
	GetUser(ctx context.Context, actor *authz.Actor, userID uint) (*models.User, error)
	ListUsers(ctx context.Context, actor *authz.Actor) ([]models.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

var _ UserService = (*userService)(nil)

func (s *userService) GetUser(ctx context.Context, actor *authz.Actor, userID uint) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var u models.User
	if err := s.users.GetWithProfile(ctx, userID, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("user")
		}
		return nil, err
	}
	return &u, nil
}

func (s *userService) ListUsers(ctx context.Context, actor *authz.Actor) ([]models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}
