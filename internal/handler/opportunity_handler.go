package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"salespipeline/internal/model"
	"salespipeline/internal/service"
)

// OpportunityHandler handles the sales opportunity procedures.
type OpportunityHandler struct {
	svc service.OpportunityService
}

// NewOpportunityHandler creates a new opportunity handler.
func NewOpportunityHandler(svc service.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{svc: svc}
}

// CreateOpportunityRequest is the input of createSalesOpportunity.
type CreateOpportunityRequest struct {
	Name             string           `json:"name"`
	Stage            model.Stage      `json:"stage" validate:"opportunity_stage"`
	Amount           *decimal.Decimal `json:"amount" swaggertype:"number" validate:"required,gt=0,money"`
	CloseDate        *model.FlexTime  `json:"close_date" swaggertype:"string" format:"date-time" validate:"required"`
	AssignedToID     string           `json:"assigned_to_id"`
	CustomerName     string           `json:"customer_name"`
	LastActivityDate *model.FlexTime  `json:"last_activity_date" swaggertype:"string" format:"date-time" validate:"required"`
	DealProbability  *int             `json:"deal_probability" validate:"required,min=0,max=100"`
}

func (r CreateOpportunityRequest) toModel() model.NewSalesOpportunity {
	return model.NewSalesOpportunity{
		Name:             r.Name,
		Stage:            r.Stage,
		Amount:           *r.Amount,
		CloseDate:        r.CloseDate.Time,
		AssignedToID:     r.AssignedToID,
		CustomerName:     r.CustomerName,
		LastActivityDate: r.LastActivityDate.Time,
		DealProbability:  *r.DealProbability,
	}
}

// UpdateOpportunityRequest is the input of updateSalesOpportunity. Omitted fields are left unchanged.
type UpdateOpportunityRequest struct {
	ID               *string          `json:"id" validate:"required"`
	Name             *string          `json:"name"`
	Stage            *model.Stage     `json:"stage" validate:"omitempty,opportunity_stage"`
	Amount           *decimal.Decimal `json:"amount" swaggertype:"number" validate:"omitempty,gt=0,money"`
	CloseDate        *model.FlexTime  `json:"close_date" swaggertype:"string" format:"date-time"`
	AssignedToID     *string          `json:"assigned_to_id"`
	CustomerName     *string          `json:"customer_name"`
	LastActivityDate *model.FlexTime  `json:"last_activity_date" swaggertype:"string" format:"date-time"`
	DealProbability  *int             `json:"deal_probability" validate:"omitempty,min=0,max=100"`
}

func (r UpdateOpportunityRequest) toPatch() model.OpportunityPatch {
	return model.OpportunityPatch{
		Name:             r.Name,
		Stage:            r.Stage,
		Amount:           r.Amount,
		CloseDate:        r.CloseDate.Ptr(),
		AssignedToID:     r.AssignedToID,
		CustomerName:     r.CustomerName,
		LastActivityDate: r.LastActivityDate.Ptr(),
		DealProbability:  r.DealProbability,
	}
}

// OpportunityFiltersRequest is the optional input of getSalesOpportunities.
type OpportunityFiltersRequest struct {
	AssignedToID  string           `query:"assigned_to_id"`
	Stage         model.Stage      `query:"stage" validate:"omitempty,opportunity_stage"`
	CustomerName  string           `query:"customer_name"`
	MinAmount     *decimal.Decimal `query:"min_amount"`
	MaxAmount     *decimal.Decimal `query:"max_amount"`
	CloseDateFrom *model.FlexTime  `query:"close_date_from"`
	CloseDateTo   *model.FlexTime  `query:"close_date_to"`
}

func (r OpportunityFiltersRequest) toModel() model.OpportunityFilters {
	return model.OpportunityFilters{
		AssignedToID:  r.AssignedToID,
		Stage:         r.Stage,
		CustomerName:  r.CustomerName,
		MinAmount:     r.MinAmount,
		MaxAmount:     r.MaxAmount,
		CloseDateFrom: r.CloseDateFrom.Ptr(),
		CloseDateTo:   r.CloseDateTo.Ptr(),
	}
}

// DeleteOpportunityRequest is the input of deleteSalesOpportunity.
type DeleteOpportunityRequest struct {
	ID *string `json:"id" validate:"required"`
}

// CreateOpportunity godoc
// @Summary Create sales opportunity
// @Tags opportunities
// @Accept json
// @Produce json
// @Param request body CreateOpportunityRequest true "Opportunity payload"
// @Success 200 {object} model.SalesOpportunity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /createSalesOpportunity [post]
func (h *OpportunityHandler) CreateOpportunity(c echo.Context) error {
	var req CreateOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err)
	}
	opp, err := h.svc.CreateOpportunity(c.Request().Context(), req.toModel())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, opp)
}

// GetOpportunities godoc
// @Summary List sales opportunities
// @Description Every provided filter must match. No filters returns all opportunities.
// @Tags opportunities
// @Produce json
// @Param assigned_to_id query string false "Assignee user ID"
// @Param stage query string false "Stage"
// @Param customer_name query string false "Case-insensitive substring of the customer name"
// @Param min_amount query number false "Minimum amount, inclusive"
// @Param max_amount query number false "Maximum amount, inclusive"
// @Param close_date_from query string false "Earliest close date, inclusive"
// @Param close_date_to query string false "Latest close date, inclusive"
// @Success 200 {array} model.SalesOpportunity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /getSalesOpportunities [get]
func (h *OpportunityHandler) GetOpportunities(c echo.Context) error {
	var req OpportunityFiltersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err)
	}
	opps, err := h.svc.GetOpportunities(c.Request().Context(), req.toModel())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, opps)
}

// UpdateOpportunity godoc
// @Summary Update sales opportunity
// @Tags opportunities
// @Accept json
// @Produce json
// @Param request body UpdateOpportunityRequest true "Fields to change"
// @Success 200 {object} model.SalesOpportunity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /updateSalesOpportunity [post]
func (h *OpportunityHandler) UpdateOpportunity(c echo.Context) error {
	var req UpdateOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err)
	}
	opp, err := h.svc.UpdateOpportunity(c.Request().Context(), *req.ID, req.toPatch())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, opp)
}

// DeleteOpportunity godoc
// @Summary Delete sales opportunity
// @Description Responds with true when a record was removed and false when none matched.
// @Tags opportunities
// @Accept json
// @Produce json
// @Param request body DeleteOpportunityRequest true "Opportunity ID"
// @Success 200 {boolean} boolean
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /deleteSalesOpportunity [post]
func (h *OpportunityHandler) DeleteOpportunity(c echo.Context) error {
	var req DeleteOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err)
	}
	deleted, err := h.svc.DeleteOpportunity(c.Request().Context(), *req.ID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, deleted)
}
