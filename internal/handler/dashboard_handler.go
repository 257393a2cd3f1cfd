package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"salespipeline/internal/model"
	"salespipeline/internal/service"
)

// DashboardHandler handles the persona dashboard procedures.
type DashboardHandler struct {
	svc service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// DashboardRequest is the input shared by the dashboard procedures.
type DashboardRequest struct {
	UserID  *string       `query:"userId" json:"userId" validate:"required"`
	Persona model.Persona `query:"persona" json:"persona" validate:"persona"`
}

// GetDashboardMetrics godoc
// @Summary Dashboard metrics for a persona
// @Tags dashboard
// @Produce json
// @Param userId query string true "User ID"
// @Param persona query string true "Persona" Enums(IC, Manager, Executive)
// @Success 200 {object} model.DashboardMetrics
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /getDashboardMetrics [get]
func (h *DashboardHandler) GetDashboardMetrics(c echo.Context) error {
	var req DashboardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err)
	}
	metrics, err := h.svc.GetDashboardMetrics(c.Request().Context(), *req.UserID, req.Persona)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, metrics)
}

// GetPipelineStageData godoc
// @Summary Opportunity count and value per stage for a persona
// @Tags dashboard
// @Produce json
// @Param userId query string true "User ID"
// @Param persona query string true "Persona" Enums(IC, Manager, Executive)
// @Success 200 {array} model.PipelineStageData
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /getPipelineStageData [get]
func (h *DashboardHandler) GetPipelineStageData(c echo.Context) error {
	var req DashboardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err)
	}
	rows, err := h.svc.GetPipelineStageData(c.Request().Context(), *req.UserID, req.Persona)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, rows)
}
