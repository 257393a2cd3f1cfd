package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperr "salespipeline/internal/errors"
	"salespipeline/internal/model"
)

var dashboardNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func dashboardOpp(id, assignee string, stage model.Stage, amount int64, prob int) model.SalesOpportunity {
	return model.SalesOpportunity{
		ID:              id,
		Stage:           stage,
		Amount:          decimal.NewFromInt(amount),
		AssignedToID:    assignee,
		CloseDate:       dashboardNow.AddDate(0, 2, 0),
		DealProbability: prob,
		CreatedAt:       dashboardNow.AddDate(0, -3, 0),
	}
}

func newTestDashboardService(store *MockStore) DashboardService {
	v, logger := testDeps()
	svc := NewDashboardService(store, v, logger).(*dashboardService)
	svc.clock = func() time.Time { return dashboardNow }
	return svc
}

func TestDashboardService_GetDashboardMetrics_IC(t *testing.T) {
	store := newMockStore()
	store.On("WithTransaction", mock.Anything).Return(nil)
	store.opportunities.On("List", mock.Anything, model.OpportunityFilters{AssignedToID: "ic-1"}).Return([]model.SalesOpportunity{
		dashboardOpp("1", "ic-1", model.StageProposal, 10000, 50),
		dashboardOpp("2", "ic-1", model.StageClosedWon, 5000, 100),
		dashboardOpp("3", "ic-1", model.StageClosedLost, 3000, 0),
	}, nil)

	metrics, err := newTestDashboardService(store).GetDashboardMetrics(context.Background(), "ic-1", model.PersonaIC)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10000).Equal(metrics.PipelineValue))
	assert.True(t, decimal.NewFromInt(5000).Equal(metrics.ForecastedRevenue))
	assert.True(t, decimal.NewFromInt(50).Equal(metrics.WinRate))
	assert.Equal(t, 1, metrics.OpenOpportunities)
	assert.Equal(t, 1, metrics.OpportunitiesWon)
	store.assertExpectations(t)
}

func TestDashboardService_ManagerIgnoresUserID(t *testing.T) {
	users := []model.User{
		{ID: "ic-1", Role: model.RoleIC},
		{ID: "ic-2", Role: model.RoleIC},
		{ID: "flm-1", Role: model.RoleFrontLineManager},
	}
	opps := []model.SalesOpportunity{
		dashboardOpp("1", "ic-1", model.StageProspecting, 10000, 10),
		dashboardOpp("2", "ic-2", model.StageProspecting, 15000, 10),
		dashboardOpp("3", "ic-2", model.StageQualification, 25000, 20),
		dashboardOpp("4", "flm-1", model.StageQualification, 99000, 20),
	}

	for _, userID := range []string{"flm-1", "someone-else"} {
		t.Run(userID, func(t *testing.T) {
			store := newMockStore()
			store.On("WithTransaction", mock.Anything).Return(nil)
			store.users.On("List", mock.Anything).Return(users, nil)
			store.opportunities.On("List", mock.Anything, model.OpportunityFilters{}).Return(opps, nil)

			rows, err := newTestDashboardService(store).GetPipelineStageData(context.Background(), userID, model.PersonaManager)

			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, model.StageProspecting, rows[0].Stage)
			assert.Equal(t, 2, rows[0].Count)
			assert.True(t, decimal.NewFromInt(25000).Equal(rows[0].Value))
			assert.Equal(t, model.StageQualification, rows[1].Stage)
			assert.Equal(t, 1, rows[1].Count)
			assert.True(t, decimal.NewFromInt(25000).Equal(rows[1].Value))
			store.assertExpectations(t)
		})
	}
}

func TestDashboardService_Executive(t *testing.T) {
	store := newMockStore()
	store.On("WithTransaction", mock.Anything).Return(nil)
	store.opportunities.On("List", mock.Anything, model.OpportunityFilters{}).Return([]model.SalesOpportunity{
		dashboardOpp("1", "a", model.StageNegotiation, 100, 50),
		dashboardOpp("2", "b", model.StageNegotiation, 300, 50),
	}, nil)

	metrics, err := newTestDashboardService(store).GetDashboardMetrics(context.Background(), "", model.PersonaExecutive)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400).Equal(metrics.PipelineValue))
	assert.True(t, metrics.WinRate.IsZero())
	store.assertExpectations(t)
}

func TestDashboardService_InvalidPersona(t *testing.T) {
	store := newMockStore()

	_, err := newTestDashboardService(store).GetDashboardMetrics(context.Background(), "u", model.Persona("Front Line Manager"))
	assert.True(t, apperr.IsValidation(err))

	_, err = newTestDashboardService(store).GetPipelineStageData(context.Background(), "u", "")
	assert.True(t, apperr.IsValidation(err))

	store.assertExpectations(t)
}

func TestDashboardService_StoreFailure(t *testing.T) {
	store := newMockStore()
	store.On("WithTransaction", mock.Anything).Return(nil)
	store.opportunities.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	rows, err := newTestDashboardService(store).GetPipelineStageData(context.Background(), "u", model.PersonaExecutive)

	assert.Error(t, err)
	assert.Nil(t, rows)
	store.assertExpectations(t)
}
