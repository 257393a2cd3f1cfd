// Package dashboard computes persona-scoped pipeline views from already loaded records.
// Nothing here touches storage.
package dashboard

import (
	"sort"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"salespipeline/internal/model"
)

// UpcomingWindow is how far ahead an open deal's close date counts as an upcoming activity.
const UpcomingWindow = 30 * 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// Predicate decides whether an opportunity is visible.
type Predicate func(opp *model.SalesOpportunity) bool

// Visibility returns the rule selecting the opportunities a persona sees.
//
// IC sees deals assigned to userID. Manager sees every deal assigned to an IC-role user,
// regardless of userID, since no reporting line is modelled. Executive sees everything.
func Visibility(persona model.Persona, userID string, users []model.User) Predicate {
	switch persona {
	case model.PersonaIC:
		return func(opp *model.SalesOpportunity) bool {
			return opp.AssignedToID == userID
		}
	case model.PersonaManager:
		ics := make(map[string]struct{})
		for _, u := range users {
			if u.Role == model.RoleIC {
				ics[u.ID] = struct{}{}
			}
		}
		return func(opp *model.SalesOpportunity) bool {
			_, ok := ics[opp.AssignedToID]
			return ok
		}
	case model.PersonaExecutive:
		return func(*model.SalesOpportunity) bool { return true }
	default:
		return func(*model.SalesOpportunity) bool { return false }
	}
}

// Select returns the opportunities accepted by pred, in input order.
func Select(opps []model.SalesOpportunity, pred Predicate) []model.SalesOpportunity {
	visible := make([]model.SalesOpportunity, 0, len(opps))
	for i := range opps {
		if pred(&opps[i]) {
			visible = append(visible, opps[i])
		}
	}
	return visible
}

// ComputeMetrics aggregates opps as seen at instant at.
func ComputeMetrics(opps []model.SalesOpportunity, at time.Time) model.DashboardMetrics {
	cal := now.With(at)
	monthStart := cal.BeginningOfMonth()
	monthEnd := cal.EndOfMonth()
	horizon := at.Add(UpcomingWindow)

	m := model.DashboardMetrics{
		PipelineValue:     decimal.Zero,
		WinRate:           decimal.Zero,
		ForecastedRevenue: decimal.Zero,
	}
	lost := 0
	for i := range opps {
		opp := &opps[i]
		switch opp.Stage {
		case model.StageClosedWon:
			m.OpportunitiesWon++
			if !opp.CreatedAt.Before(monthStart) && !opp.CreatedAt.After(monthEnd) {
				m.ClosedWonThisMonth++
			}
		case model.StageClosedLost:
			lost++
		default:
			m.OpenOpportunities++
			m.PipelineValue = m.PipelineValue.Add(opp.Amount)
			weighted := opp.Amount.Mul(decimal.NewFromInt(int64(opp.DealProbability))).Div(hundred)
			m.ForecastedRevenue = m.ForecastedRevenue.Add(weighted)
			if !opp.CloseDate.Before(at) && !opp.CloseDate.After(horizon) {
				m.UpcomingActivities++
			}
		}
	}

	if closed := m.OpportunitiesWon + lost; closed > 0 {
		m.WinRate = decimal.NewFromInt(int64(m.OpportunitiesWon)).
			Div(decimal.NewFromInt(int64(closed))).
			Mul(hundred).
			Round(2)
	}
	// No activity log exists to count from.
	m.ActivitiesCompleted = 0
	return m
}

// GroupByStage returns one row per stage that has at least one opportunity, ordered by stage name.
func GroupByStage(opps []model.SalesOpportunity) []model.PipelineStageData {
	byStage := make(map[model.Stage]*model.PipelineStageData)
	for i := range opps {
		opp := &opps[i]
		row, ok := byStage[opp.Stage]
		if !ok {
			row = &model.PipelineStageData{Stage: opp.Stage, Value: decimal.Zero}
			byStage[opp.Stage] = row
		}
		row.Count++
		row.Value = row.Value.Add(opp.Amount)
	}

	rows := make([]model.PipelineStageData, 0, len(byStage))
	for _, row := range byStage {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Stage < rows[j].Stage
	})
	return rows
}
