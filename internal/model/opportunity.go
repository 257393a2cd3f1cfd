package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Currency crosses the API boundary as a JSON number, not a string.
	decimal.MarshalJSONWithoutQuotes = true
}

// Stage is the pipeline position of an opportunity. Any stage may follow any other.
type Stage string

const (
	StageProspecting   Stage = "Prospecting"
	StageQualification Stage = "Qualification"
	StageProposal      Stage = "Proposal"
	StageNegotiation   Stage = "Negotiation"
	StageClosedWon     Stage = "Closed Won"
	StageClosedLost    Stage = "Closed Lost"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// Closed reports whether the deal has been won or lost.
func (s Stage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// SalesOpportunity is a deal tracked through the pipeline.
type SalesOpportunity struct {
	ID               string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name             string          `json:"name" gorm:"size:255;not null"`
	Stage            Stage           `json:"stage" gorm:"type:varchar(32);not null;index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	CloseDate        time.Time       `json:"close_date" gorm:"not null;index"`
	AssignedToID     string          `json:"assigned_to_id" gorm:"type:varchar(36);not null;index"`
	CustomerName     string          `json:"customer_name" gorm:"size:255;not null"`
	LastActivityDate time.Time       `json:"last_activity_date" gorm:"not null"`
	DealProbability  int             `json:"deal_probability" gorm:"not null"`
	CreatedAt        time.Time       `json:"created_at" gorm:"not null;<-:create"`
	UpdatedAt        time.Time       `json:"-"`
}

// BeforeCreate sets the ID before creating the record.
func (o *SalesOpportunity) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Open reports whether the opportunity is still being worked.
func (o *SalesOpportunity) Open() bool {
	return !o.Stage.Closed()
}

// NewSalesOpportunity holds the fields required to create an opportunity.
type NewSalesOpportunity struct {
	Name             string          `json:"name"`
	Stage            Stage           `json:"stage" validate:"opportunity_stage"`
	Amount           decimal.Decimal `json:"amount" validate:"gt=0,money"`
	CloseDate        time.Time       `json:"close_date" validate:"required"`
	AssignedToID     string          `json:"assigned_to_id"`
	CustomerName     string          `json:"customer_name"`
	LastActivityDate time.Time       `json:"last_activity_date" validate:"required"`
	DealProbability  int             `json:"deal_probability" validate:"min=0,max=100"`
}

// OpportunityPatch carries the fields of a partial update. Nil members keep their stored value.
type OpportunityPatch struct {
	Name             *string          `json:"name"`
	Stage            *Stage           `json:"stage" validate:"omitempty,opportunity_stage"`
	Amount           *decimal.Decimal `json:"amount" validate:"omitempty,gt=0,money"`
	CloseDate        *time.Time       `json:"close_date"`
	AssignedToID     *string          `json:"assigned_to_id"`
	CustomerName     *string          `json:"customer_name"`
	LastActivityDate *time.Time       `json:"last_activity_date"`
	DealProbability  *int             `json:"deal_probability" validate:"omitempty,min=0,max=100"`
}

// Apply overwrites the fields of o that are set on p.
func (p OpportunityPatch) Apply(o *SalesOpportunity) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Stage != nil {
		o.Stage = *p.Stage
	}
	if p.Amount != nil {
		o.Amount = *p.Amount
	}
	if p.CloseDate != nil {
		o.CloseDate = *p.CloseDate
	}
	if p.AssignedToID != nil {
		o.AssignedToID = *p.AssignedToID
	}
	if p.CustomerName != nil {
		o.CustomerName = *p.CustomerName
	}
	if p.LastActivityDate != nil {
		o.LastActivityDate = *p.LastActivityDate
	}
	if p.DealProbability != nil {
		o.DealProbability = *p.DealProbability
	}
}

// OpportunityFilters narrows a listing. Every set member must match.
type OpportunityFilters struct {
	AssignedToID  string
	Stage         Stage
	CustomerName  string
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	CloseDateFrom *time.Time
	CloseDateTo   *time.Time
}
