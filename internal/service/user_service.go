package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"salespipeline/internal/model"
	"salespipeline/internal/repository"
	"salespipeline/internal/validation"
)

// CreateUserInput holds the fields accepted when creating a user.
type CreateUserInput struct {
	Name  string     `json:"name"`
	Email string     `json:"email" validate:"required,email"`
	Role  model.Role `json:"role" validate:"user_role"`
}

// UserService exposes user operations.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error)
	GetUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	store     repository.Store
	validator *validation.Validator
	logger    *zap.Logger
}

// NewUserService builds a UserService on top of store.
func NewUserService(store repository.Store, v *validation.Validator, logger *zap.Logger) UserService {
	return &userService{store: store, validator: v, logger: logger}
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := s.validator.Struct(input); err != nil {
		s.logger.Warn("create user rejected", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		s.logger.Error("create user", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		s.logger.Error("list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUserByID returns nil without error when the id is unknown.
func (s *userService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get user", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}
