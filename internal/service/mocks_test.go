package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"salespipeline/internal/model"
	"salespipeline/internal/repository"
	"salespipeline/internal/validation"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockOpportunityRepository is a mock implementation of OpportunityRepository.
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) Create(ctx context.Context, opp *model.SalesOpportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}

func (m *MockOpportunityRepository) Update(ctx context.Context, opp *model.SalesOpportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}

func (m *MockOpportunityRepository) FindByID(ctx context.Context, id string) (*model.SalesOpportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesOpportunity), args.Error(1)
}

func (m *MockOpportunityRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOpportunityRepository) List(ctx context.Context, filters model.OpportunityFilters) ([]model.SalesOpportunity, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SalesOpportunity), args.Error(1)
}

// MockStore hands out the mock repositories and runs transactions inline.
type MockStore struct {
	mock.Mock
	users         *MockUserRepository
	opportunities *MockOpportunityRepository
}

func newMockStore() *MockStore {
	return &MockStore{
		users:         new(MockUserRepository),
		opportunities: new(MockOpportunityRepository),
	}
}

func (m *MockStore) Users() repository.UserRepository {
	return m.users
}

func (m *MockStore) Opportunities() repository.OpportunityRepository {
	return m.opportunities
}

func (m *MockStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	m.Called(ctx)
	return fn(ctx, m)
}

func (m *MockStore) assertExpectations(t mock.TestingT) {
	m.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.opportunities.AssertExpectations(t)
}

func testDeps() (*validation.Validator, *zap.Logger) {
	return validation.New(), zap.NewNop()
}
