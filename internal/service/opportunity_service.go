package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	apperr "salespipeline/internal/errors"
	"salespipeline/internal/model"
	"salespipeline/internal/repository"
	"salespipeline/internal/validation"
)

// OpportunityService handles sales opportunity operations.
type OpportunityService interface {
	CreateOpportunity(ctx context.Context, input model.NewSalesOpportunity) (*model.SalesOpportunity, error)
	GetOpportunities(ctx context.Context, filters model.OpportunityFilters) ([]model.SalesOpportunity, error)
	UpdateOpportunity(ctx context.Context, id string, patch model.OpportunityPatch) (*model.SalesOpportunity, error)
	DeleteOpportunity(ctx context.Context, id string) (bool, error)
}

type opportunityService struct {
	store     repository.Store
	validator *validation.Validator
	logger    *zap.Logger
}

// NewOpportunityService creates a new opportunity service.
func NewOpportunityService(store repository.Store, v *validation.Validator, logger *zap.Logger) OpportunityService {
	return &opportunityService{store: store, validator: v, logger: logger}
}

// CreateOpportunity checks the assignee and inserts the opportunity in one transaction.
func (s *opportunityService) CreateOpportunity(ctx context.Context, input model.NewSalesOpportunity) (*model.SalesOpportunity, error) {
	if err := s.validator.Struct(input); err != nil {
		s.logger.Warn("create opportunity rejected", zap.Error(err))
		return nil, err
	}

	opp := &model.SalesOpportunity{
		Name:             input.Name,
		Stage:            input.Stage,
		Amount:           input.Amount,
		CloseDate:        input.CloseDate.UTC(),
		AssignedToID:     input.AssignedToID,
		CustomerName:     input.CustomerName,
		LastActivityDate: input.LastActivityDate.UTC(),
		DealProbability:  input.DealProbability,
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := requireUser(ctx, tx, input.AssignedToID); err != nil {
			return err
		}
		if err := tx.Opportunities().Create(ctx, opp); err != nil {
			return fmt.Errorf("insert opportunity: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("create opportunity", zap.String("assigned_to_id", input.AssignedToID), zap.Error(err))
		return nil, err
	}
	return opp, nil
}

func (s *opportunityService) GetOpportunities(ctx context.Context, filters model.OpportunityFilters) ([]model.SalesOpportunity, error) {
	opps, err := s.store.Opportunities().List(ctx, filters)
	if err != nil {
		s.logger.Error("list opportunities", zap.Error(err))
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	return opps, nil
}

// UpdateOpportunity merges patch onto the stored record. Unset patch fields keep their value.
func (s *opportunityService) UpdateOpportunity(ctx context.Context, id string, patch model.OpportunityPatch) (*model.SalesOpportunity, error) {
	if err := s.validator.Struct(patch); err != nil {
		s.logger.Warn("update opportunity rejected", zap.String("opportunity_id", id), zap.Error(err))
		return nil, err
	}

	var updated *model.SalesOpportunity
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		opp, err := tx.Opportunities().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load opportunity: %w", err)
		}
		if opp == nil {
			return apperr.OpportunityNotFound(id)
		}
		if patch.AssignedToID != nil {
			if err := requireUser(ctx, tx, *patch.AssignedToID); err != nil {
				return err
			}
		}

		patch.Apply(opp)
		opp.CloseDate = opp.CloseDate.UTC()
		opp.LastActivityDate = opp.LastActivityDate.UTC()
		if err := tx.Opportunities().Update(ctx, opp); err != nil {
			return fmt.Errorf("save opportunity: %w", err)
		}
		updated = opp
		return nil
	})
	if err != nil {
		s.logger.Error("update opportunity", zap.String("opportunity_id", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// DeleteOpportunity reports whether a record was removed. A missing id is not an error.
func (s *opportunityService) DeleteOpportunity(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.Opportunities().Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete opportunity", zap.String("opportunity_id", id), zap.Error(err))
		return false, fmt.Errorf("delete opportunity %s: %w", id, err)
	}
	return deleted, nil
}

func requireUser(ctx context.Context, tx repository.Store, id string) error {
	ok, err := tx.Users().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user %s: %w", id, err)
	}
	if !ok {
		return apperr.UserNotFound(id)
	}
	return nil
}
