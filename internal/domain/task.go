package domain

import "time"

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// SystemAutomation is the creator id of tasks created by automation rules.
const SystemAutomation = "system-automation"

type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	Status      TaskStatus `json:"status" gorm:"index"`
	DueDate     time.Time  `json:"due_date" gorm:"index"`
	AssignedTo  string     `json:"assigned_to" gorm:"index"`
	CreatedBy   string     `json:"created_by"`
	CustomerID  string     `json:"customer_id,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Task) TableName() string { return "tasks" }
