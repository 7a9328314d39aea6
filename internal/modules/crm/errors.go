package crm

import "errors"

var (
	ErrInvalidStage  = errors.New("invalid funnel stage")
	ErrNotifyFailed  = errors.New("notification could not be recorded")
	ErrAutomation    = errors.New("stage automation failed")
	ErrTaskNotFound  = errors.New("task not found")
	ErrDraftNotFound = errors.New("email draft not found")
)
