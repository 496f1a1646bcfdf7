package undoapplicationstatus

import (
	"context"

	"talent-workers/internal/audit"
	"talent-workers/internal/models"
	"talent-workers/internal/status"
)

type ApplicationStore interface {
	status.StatusWriter
	GetApplication(ctx context.Context, applicationID string) (*models.Application, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, ev audit.Event) (string, error)
}

type Input struct {
	ApplicationID string `json:"applicationId"`
	// CurrentStatus is looked up at the backend when empty.
	CurrentStatus string `json:"currentStatus,omitempty"`
	SessionID     string `json:"sessionId,omitempty"`
}

type Output struct {
	TransitionID   string          `json:"transitionId"`
	ApplicationID  string          `json:"applicationId"`
	PreviousStatus models.Status   `json:"previousStatus"`
	NewStatus      models.Status   `json:"newStatus"`
	HistoryUpdated bool            `json:"historyUpdated"`
	Intents        []status.Intent `json:"intents"`
	AuditEventID   string          `json:"auditEventId,omitempty"`
}

const inputSchema = `{
  "type": "object",
  "required": ["applicationId"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "currentStatus": {"type": "string"},
    "sessionId": {"type": "string"}
  }
}`
