package domain

import "time"

type DraftStatus string

const (
	DraftPending DraftStatus = "draft"
	DraftSent    DraftStatus = "sent"
)

type EmailDraft struct {
	ID                string      `json:"id" gorm:"primaryKey"`
	RecipientEmail    string      `json:"recipient_email"`
	RecipientName     string      `json:"recipient_name"`
	Subject           string      `json:"subject"`
	Body              string      `json:"body" gorm:"type:text"`
	Status            DraftStatus `json:"status" gorm:"index"`
	RelatedObjectType string      `json:"related_object_type"`
	RelatedObjectID   string      `json:"related_object_id" gorm:"index"`
	GeneratedBy       string      `json:"generated_by"`
	CreatedAt         time.Time   `json:"created_at" gorm:"index"`
}

func (EmailDraft) TableName() string { return "email_drafts" }

// AISettings configures the proactive agent for one user.
type AISettings struct {
	UserID               string `json:"user_id" gorm:"primaryKey"`
	IsAgentActive        bool   `json:"is_agent_active"`
	EnableFollowUpDrafts bool   `json:"enable_follow_up_drafts"`
	EnableAtRiskAlerts   bool   `json:"enable_at_risk_alerts"`
	FollowUpDays         int    `json:"follow_up_days"`
	AtRiskDays           int    `json:"at_risk_days"`
}

func (AISettings) TableName() string { return "ai_settings" }

func DefaultAISettings(userID string) AISettings {
	return AISettings{
		UserID:               userID,
		IsAgentActive:        true,
		EnableFollowUpDrafts: true,
		EnableAtRiskAlerts:   true,
		FollowUpDays:         7,
		AtRiskDays:           30,
	}
}
