package transitionapplicationstatus

import (
	"encoding/json"

	"talent-workers/internal/common/errors"
	"talent-workers/pkg/registry"
)

// Activity describes this worker for process modellers.
func Activity() registry.Activity {
	return registry.Activity{
		TaskType:    TaskType,
		DisplayName: "Transition Application Status",
		Description: "Moves an application to a new status and records it for undo.",
		Category:    "application",
		InputSchema: json.RawMessage(inputSchema),
		ErrorCodes: []string{
			errors.BPMNErrorMapping[errors.ErrCodeValidation],
			errors.BPMNErrorMapping[errors.ErrCodeNotFound],
			errors.BPMNErrorMapping[errors.ErrCodeUpstream],
			errors.BPMNErrorMapping[errors.ErrCodeHistoryStoreFailed],
		},
		Retries: errors.GetRetryCount(errors.ErrCodeUpstream),
	}
}
