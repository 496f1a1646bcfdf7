package undoapplicationstatus

import (
	"encoding/json"

	"talent-workers/internal/common/errors"
	"talent-workers/pkg/registry"
)

// Activity describes this worker for process modellers.
func Activity() registry.Activity {
	return registry.Activity{
		TaskType:    TaskType,
		DisplayName: "Undo Application Status",
		Description: "Reverts the most recent status change in a session.",
		Category:    "application",
		InputSchema: json.RawMessage(inputSchema),
		ErrorCodes: []string{
			errors.BPMNErrorMapping[errors.ErrCodeConflict],
			errors.BPMNErrorMapping[errors.ErrCodeNotFound],
			errors.BPMNErrorMapping[errors.ErrCodeUpstream],
			errors.BPMNErrorMapping[errors.ErrCodeHistoryStoreFailed],
		},
		Retries: errors.GetRetryCount(errors.ErrCodeUpstream),
	}
}
