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

func newOpportunityInput() model.NewSalesOpportunity {
	loc := time.FixedZone("UTC+2", 2*60*60)
	return model.NewSalesOpportunity{
		Name:             "Platform deal",
		Stage:            model.StageProspecting,
		Amount:           decimal.NewFromInt(10000),
		CloseDate:        time.Date(2024, 9, 30, 2, 0, 0, 0, loc),
		AssignedToID:     "user-1",
		CustomerName:     "Acme",
		LastActivityDate: time.Date(2024, 9, 1, 2, 0, 0, 0, loc),
		DealProbability:  40,
	}
}

func TestOpportunityService_CreateOpportunity(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.NewSalesOpportunity)
		setupMock func(*MockStore)
		check     func(*testing.T, *model.SalesOpportunity, error)
	}{
		{
			name:   "successful creation",
			mutate: func(*model.NewSalesOpportunity) {},
			setupMock: func(m *MockStore) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.users.On("Exists", mock.Anything, "user-1").Return(true, nil)
				m.opportunities.On("Create", mock.Anything, mock.AnythingOfType("*model.SalesOpportunity")).Return(nil)
			},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				require.NoError(t, err)
				assert.Equal(t, "Platform deal", opp.Name)
				assert.Equal(t, "user-1", opp.AssignedToID)
				assert.Equal(t, time.UTC, opp.CloseDate.Location())
				assert.Equal(t, time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), opp.CloseDate)
			},
		},
		{
			name:   "assignee does not exist",
			mutate: func(*model.NewSalesOpportunity) {},
			setupMock: func(m *MockStore) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.users.On("Exists", mock.Anything, "user-1").Return(false, nil)
			},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				assert.Nil(t, opp)
				assert.True(t, errors.Is(err, apperr.ErrUserNotFound))
				assert.EqualError(t, err, "User with id user-1 not found")
			},
		},
		{
			name:      "probability out of range is rejected before store access",
			mutate:    func(o *model.NewSalesOpportunity) { o.DealProbability = 120 },
			setupMock: func(*MockStore) {},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				assert.Nil(t, opp)
				assert.True(t, apperr.IsValidation(err))
			},
		},
		{
			name:      "unknown stage is rejected before store access",
			mutate:    func(o *model.NewSalesOpportunity) { o.Stage = "Pending" },
			setupMock: func(*MockStore) {},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				assert.Nil(t, opp)
				assert.True(t, apperr.IsValidation(err))
			},
		},
		{
			name:   "insert failure",
			mutate: func(*model.NewSalesOpportunity) {},
			setupMock: func(m *MockStore) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.users.On("Exists", mock.Anything, "user-1").Return(true, nil)
				m.opportunities.On("Create", mock.Anything, mock.Anything).Return(errors.New("constraint"))
			},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				assert.Nil(t, opp)
				assert.Error(t, err)
				assert.False(t, apperr.IsNotFound(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			tt.setupMock(store)
			v, logger := testDeps()

			input := newOpportunityInput()
			tt.mutate(&input)

			svc := NewOpportunityService(store, v, logger)
			opp, err := svc.CreateOpportunity(context.Background(), input)
			tt.check(t, opp, err)

			store.assertExpectations(t)
		})
	}
}

func storedOpportunity() *model.SalesOpportunity {
	return &model.SalesOpportunity{
		ID:               "opp-1",
		Name:             "Platform deal",
		Stage:            model.StageProposal,
		Amount:           decimal.NewFromInt(10000),
		CloseDate:        time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
		AssignedToID:     "user-1",
		CustomerName:     "Acme",
		LastActivityDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		DealProbability:  40,
		CreatedAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestOpportunityService_UpdateOpportunity(t *testing.T) {
	stage := model.StageNegotiation
	prob := 80
	other := "user-2"
	badProb := -3

	tests := []struct {
		name      string
		id        string
		patch     model.OpportunityPatch
		setupMock func(*MockStore)
		check     func(*testing.T, *model.SalesOpportunity, error)
	}{
		{
			name:  "partial update keeps omitted fields",
			id:    "opp-1",
			patch: model.OpportunityPatch{Stage: &stage, DealProbability: &prob},
			setupMock: func(m *MockStore) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.opportunities.On("FindByID", mock.Anything, "opp-1").Return(storedOpportunity(), nil)
				m.opportunities.On("Update", mock.Anything, mock.AnythingOfType("*model.SalesOpportunity")).Return(nil)
			},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				require.NoError(t, err)
				assert.Equal(t, model.StageNegotiation, opp.Stage)
				assert.Equal(t, 80, opp.DealProbability)
				assert.Equal(t, "Platform deal", opp.Name)
				assert.Equal(t, "user-1", opp.AssignedToID)
				assert.True(t, decimal.NewFromInt(10000).Equal(opp.Amount))
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), opp.CreatedAt)
			},
		},
		{
			name:  "missing opportunity",
			id:    "opp-404",
			patch: model.OpportunityPatch{Stage: &stage},
			setupMock: func(m *MockStore) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.opportunities.On("FindByID", mock.Anything, "opp-404").Return(nil, nil)
			},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				assert.Nil(t, opp)
				assert.True(t, errors.Is(err, apperr.ErrOpportunityNotFound))
			},
		},
		{
			name:  "reassign to unknown user",
			id:    "opp-1",
			patch: model.OpportunityPatch{AssignedToID: &other},
			setupMock: func(m *MockStore) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.opportunities.On("FindByID", mock.Anything, "opp-1").Return(storedOpportunity(), nil)
				m.users.On("Exists", mock.Anything, "user-2").Return(false, nil)
			},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				assert.Nil(t, opp)
				assert.True(t, errors.Is(err, apperr.ErrUserNotFound))
			},
		},
		{
			name:  "reassign to existing user",
			id:    "opp-1",
			patch: model.OpportunityPatch{AssignedToID: &other},
			setupMock: func(m *MockStore) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.opportunities.On("FindByID", mock.Anything, "opp-1").Return(storedOpportunity(), nil)
				m.users.On("Exists", mock.Anything, "user-2").Return(true, nil)
				m.opportunities.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				require.NoError(t, err)
				assert.Equal(t, "user-2", opp.AssignedToID)
			},
		},
		{
			name:      "invalid patch is rejected before store access",
			id:        "opp-1",
			patch:     model.OpportunityPatch{DealProbability: &badProb},
			setupMock: func(*MockStore) {},
			check: func(t *testing.T, opp *model.SalesOpportunity, err error) {
				assert.Nil(t, opp)
				assert.True(t, apperr.IsValidation(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			tt.setupMock(store)
			v, logger := testDeps()

			svc := NewOpportunityService(store, v, logger)
			opp, err := svc.UpdateOpportunity(context.Background(), tt.id, tt.patch)
			tt.check(t, opp, err)

			store.assertExpectations(t)
		})
	}
}

func TestOpportunityService_DeleteOpportunity(t *testing.T) {
	store := newMockStore()
	store.opportunities.On("Delete", mock.Anything, "opp-1").Return(true, nil)
	store.opportunities.On("Delete", mock.Anything, "opp-2").Return(false, nil)
	store.opportunities.On("Delete", mock.Anything, "opp-3").Return(false, errors.New("locked"))
	v, logger := testDeps()
	svc := NewOpportunityService(store, v, logger)

	deleted, err := svc.DeleteOpportunity(context.Background(), "opp-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteOpportunity(context.Background(), "opp-2")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.DeleteOpportunity(context.Background(), "opp-3")
	assert.Error(t, err)

	store.assertExpectations(t)
}

func TestOpportunityService_GetOpportunities(t *testing.T) {
	filters := model.OpportunityFilters{Stage: model.StageProposal, CustomerName: "acme"}
	store := newMockStore()
	store.opportunities.On("List", mock.Anything, filters).Return([]model.SalesOpportunity{*storedOpportunity()}, nil)
	v, logger := testDeps()
	svc := NewOpportunityService(store, v, logger)

	opps, err := svc.GetOpportunities(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "opp-1", opps[0].ID)

	store.assertExpectations(t)
}
