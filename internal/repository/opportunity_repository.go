package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"salespipeline/internal/model"
)

// OpportunityRepository defines sales opportunity persistence operations.
type OpportunityRepository interface {
	Create(ctx context.Context, opp *model.SalesOpportunity) error
	Update(ctx context.Context, opp *model.SalesOpportunity) error
	FindByID(ctx context.Context, id string) (*model.SalesOpportunity, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filters model.OpportunityFilters) ([]model.SalesOpportunity, error)
}

type opportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository creates a new opportunity repository.
func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &opportunityRepository{db: db}
}

// Create creates a new opportunity record.
func (r *opportunityRepository) Create(ctx context.Context, opp *model.SalesOpportunity) error {
	return r.db.WithContext(ctx).Create(opp).Error
}

var updatableColumns = []string{
	"name", "stage", "amount", "close_date", "assigned_to_id",
	"customer_name", "last_activity_date", "deal_probability", "updated_at",
}

// Update writes every mutable column of an existing opportunity.
func (r *opportunityRepository) Update(ctx context.Context, opp *model.SalesOpportunity) error {
	return r.db.WithContext(ctx).Model(opp).Select(updatableColumns).Updates(opp).Error
}

// FindByID returns nil, nil when no opportunity has the id.
func (r *opportunityRepository) FindByID(ctx context.Context, id string) (*model.SalesOpportunity, error) {
	var opp model.SalesOpportunity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&opp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

// Delete removes the opportunity and reports whether a row was removed.
func (r *opportunityRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SalesOpportunity{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns the opportunities matching every filter that is set.
func (r *opportunityRepository) List(ctx context.Context, filters model.OpportunityFilters) ([]model.SalesOpportunity, error) {
	opps := []model.SalesOpportunity{}
	if err := applyFilters(r.db.WithContext(ctx), filters).Find(&opps).Error; err != nil {
		return nil, err
	}
	return opps, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally. '!' is used as the escape
// character since a backslash literal is itself an escape in MySQL's default mode.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func applyFilters(q *gorm.DB, f model.OpportunityFilters) *gorm.DB {
	if f.AssignedToID != "" {
		q = q.Where("assigned_to_id = ?", f.AssignedToID)
	}
	if f.Stage != "" {
		q = q.Where("stage = ?", f.Stage)
	}
	if f.CustomerName != "" {
		q = q.Where("LOWER(customer_name) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(f.CustomerName))+"%")
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.CloseDateFrom != nil {
		q = q.Where("close_date >= ?", *f.CloseDateFrom)
	}
	if f.CloseDateTo != nil {
		q = q.Where("close_date <= ?", *f.CloseDateTo)
	}
	return q
}
