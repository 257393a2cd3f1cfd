package model

import "github.com/shopspring/decimal"

// Persona is the dashboard viewpoint. It is chosen by the caller and is independent of the stored role.
type Persona string

const (
	PersonaIC        Persona = "IC"
	PersonaManager   Persona = "Manager"
	PersonaExecutive Persona = "Executive"
)

// Valid reports whether p is one of the known personas.
func (p Persona) Valid() bool {
	switch p {
	case PersonaIC, PersonaManager, PersonaExecutive:
		return true
	}
	return false
}

// DashboardMetrics summarises the opportunities visible to a persona.
type DashboardMetrics struct {
	PipelineValue       decimal.Decimal `json:"pipeline_value"`
	OpportunitiesWon    int             `json:"opportunities_won"`
	ActivitiesCompleted int             `json:"activities_completed"`
	WinRate             decimal.Decimal `json:"win_rate"`
	OpenOpportunities   int             `json:"open_opportunities"`
	ClosedWonThisMonth  int             `json:"closed_won_this_month"`
	ForecastedRevenue   decimal.Decimal `json:"forecasted_revenue"`
	UpcomingActivities  int             `json:"upcoming_activities"`
}

// PipelineStageData is the count and total amount of visible opportunities in one stage.
type PipelineStageData struct {
	Stage Stage           `json:"stage"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}
