package transitionapplicationstatus

import (
	"context"

	"talent-workers/internal/audit"
	"talent-workers/internal/models"
	"talent-workers/internal/status"
)

// ApplicationStore is the backend that owns application status.
type ApplicationStore interface {
	status.StatusWriter
	GetApplication(ctx context.Context, applicationID string) (*models.Application, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, ev audit.Event) (string, error)
}

type Input struct {
	ApplicationID string `json:"applicationId"`
	// FromStatus is looked up at the backend when empty.
	FromStatus string            `json:"fromStatus,omitempty"`
	ToStatus   string            `json:"toStatus"`
	Actor      string            `json:"actor,omitempty"`
	Interview  *models.Interview `json:"interview,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	SessionID  string            `json:"sessionId,omitempty"`
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
  "required": ["applicationId", "toStatus"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "fromStatus": {"type": "string"},
    "toStatus": {"type": "string", "minLength": 1},
    "actor": {"type": "string"},
    "interview": {
      "type": "object",
      "required": ["when", "mode"],
      "properties": {
        "when": {"type": "string", "format": "date-time"},
        "mode": {"type": "string"},
        "notes": {"type": "string"}
      }
    },
    "notes": {"type": "string"},
    "sessionId": {"type": "string"}
  }
}`
