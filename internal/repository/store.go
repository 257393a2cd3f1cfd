package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle.
type Store interface {
	Users() UserRepository
	Opportunities() OpportunityRepository
	// WithTransaction runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type store struct {
	db            *gorm.DB
	users         UserRepository
	opportunities OpportunityRepository
}

// NewStore creates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &store{
		db:            db,
		users:         NewUserRepository(db),
		opportunities: NewOpportunityRepository(db),
	}
}

func (s *store) Users() UserRepository {
	return s.users
}

func (s *store) Opportunities() OpportunityRepository {
	return s.opportunities
}

func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	})
}
