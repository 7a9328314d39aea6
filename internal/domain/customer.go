package domain

import (
	"time"

	"gorm.io/gorm"
)

// Stage is a customer's position in the sales funnel.
type Stage string

const (
	StagePotential   Stage = "potential"
	StageContacted   Stage = "contacted"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageWon         Stage = "won"
	StageLost        Stage = "lost"
)

// Stages lists the funnel in pipeline order.
var Stages = []Stage{StagePotential, StageContacted, StageProposal, StageNegotiation, StageWon, StageLost}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// OrDefault treats an empty stage as potential.
func (s Stage) OrDefault() Stage {
	if s == "" {
		return StagePotential
	}
	return s
}

type CustomerStatus string

const (
	CustomerActive  CustomerStatus = "active"
	CustomerPassive CustomerStatus = "passive"
)

// AIAnalysis is a stored AI generated note about a customer.
type AIAnalysis struct {
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

type Customer struct {
	ID              string         `json:"id" gorm:"primaryKey"`
	Name            string         `json:"name" gorm:"index;not null" validate:"required"`
	Email           string         `json:"email,omitempty" validate:"omitempty,email"`
	CurrentCode     string         `json:"current_code,omitempty"`
	CommercialTitle string         `json:"commercial_title,omitempty"`
	Address         string         `json:"address,omitempty" gorm:"type:text"`
	Country         string         `json:"country,omitempty"`
	City            string         `json:"city,omitempty"`
	District        string         `json:"district,omitempty"`
	PostalCode      string         `json:"postal_code,omitempty"`
	Group           string         `json:"group,omitempty" gorm:"column:customer_group"`
	Subgroup1       string         `json:"subgroup1,omitempty"`
	Subgroup2       string         `json:"subgroup2,omitempty"`
	Phone1          string         `json:"phone1,omitempty"`
	Phone2          string         `json:"phone2,omitempty"`
	HomePhone       string         `json:"home_phone,omitempty"`
	MobilePhone1    string         `json:"mobile_phone1,omitempty"`
	Fax             string         `json:"fax,omitempty"`
	TaxOffice       string         `json:"tax_office,omitempty"`
	TaxNumber       string         `json:"tax_number,omitempty"`
	NationalID      string         `json:"national_id,omitempty"`
	SpecialCode1    string         `json:"special_code1,omitempty"`
	SpecialCode2    string         `json:"special_code2,omitempty"`
	SpecialCode3    string         `json:"special_code3,omitempty"`
	Notes           string         `json:"notes,omitempty" gorm:"type:text"`
	Stage           Stage          `json:"stage" gorm:"index"`
	Status          CustomerStatus `json:"status,omitempty" gorm:"index"`

	AISentiment   *AIAnalysis `json:"ai_sentiment_analysis,omitempty" gorm:"serializer:json"`
	AIOpportunity *AIAnalysis `json:"ai_opportunity_analysis,omitempty" gorm:"serializer:json"`
	AINextStep    *AIAnalysis `json:"ai_next_step_suggestion,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Customer) TableName() string { return "customers" }

// AfterFind normalizes rows written before stages existed.
func (c *Customer) AfterFind(_ *gorm.DB) error {
	c.Stage = c.Stage.OrDefault()
	return nil
}
