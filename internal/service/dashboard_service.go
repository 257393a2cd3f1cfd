package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"salespipeline/internal/dashboard"
	"salespipeline/internal/model"
	"salespipeline/internal/repository"
	"salespipeline/internal/validation"
)

// DashboardService serves the persona-scoped dashboard views.
type DashboardService interface {
	GetDashboardMetrics(ctx context.Context, userID string, persona model.Persona) (*model.DashboardMetrics, error)
	GetPipelineStageData(ctx context.Context, userID string, persona model.Persona) ([]model.PipelineStageData, error)
}

type dashboardService struct {
	store     repository.Store
	validator *validation.Validator
	logger    *zap.Logger
	clock     func() time.Time
}

// NewDashboardService creates a dashboard service reading the current time from the system clock.
func NewDashboardService(store repository.Store, v *validation.Validator, logger *zap.Logger) DashboardService {
	return &dashboardService{store: store, validator: v, logger: logger, clock: time.Now}
}

func (s *dashboardService) GetDashboardMetrics(ctx context.Context, userID string, persona model.Persona) (*model.DashboardMetrics, error) {
	visible, err := s.visible(ctx, userID, persona)
	if err != nil {
		s.logger.Error("dashboard metrics", zap.String("user_id", userID), zap.String("persona", string(persona)), zap.Error(err))
		return nil, err
	}
	metrics := dashboard.ComputeMetrics(visible, s.clock())
	return &metrics, nil
}

func (s *dashboardService) GetPipelineStageData(ctx context.Context, userID string, persona model.Persona) ([]model.PipelineStageData, error) {
	visible, err := s.visible(ctx, userID, persona)
	if err != nil {
		s.logger.Error("pipeline stage data", zap.String("user_id", userID), zap.String("persona", string(persona)), zap.Error(err))
		return nil, err
	}
	return dashboard.GroupByStage(visible), nil
}

// visible loads users and opportunities from one snapshot and applies the persona rule.
func (s *dashboardService) visible(ctx context.Context, userID string, persona model.Persona) ([]model.SalesOpportunity, error) {
	if err := s.validator.Var("persona", persona, "persona"); err != nil {
		return nil, err
	}

	var users []model.User
	var opps []model.SalesOpportunity
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		if persona == model.PersonaManager {
			if users, err = tx.Users().List(ctx); err != nil {
				return fmt.Errorf("list users: %w", err)
			}
		}
		filters := model.OpportunityFilters{}
		if persona == model.PersonaIC {
			filters.AssignedToID = userID
		}
		if opps, err = tx.Opportunities().List(ctx, filters); err != nil {
			return fmt.Errorf("list opportunities: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dashboard.Select(opps, dashboard.Visibility(persona, userID, users)), nil
}
