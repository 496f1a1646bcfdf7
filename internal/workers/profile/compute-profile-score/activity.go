package computeprofilescore

import (
	"encoding/json"

	"talent-workers/internal/common/errors"
	"talent-workers/pkg/registry"
)

// Activity describes this worker for process modellers.
func Activity() registry.Activity {
	return registry.Activity{
		TaskType:    TaskType,
		DisplayName: "Compute Profile Score",
		Description: "Scores profile completion, assigns a membership tier and rewards points.",
		Category:    "profile",
		InputSchema: json.RawMessage(inputSchema),
		ErrorCodes: []string{
			errors.BPMNErrorMapping[errors.ErrCodeValidation],
			errors.BPMNErrorMapping[errors.ErrCodeNotFound],
			errors.BPMNErrorMapping[errors.ErrCodeUpstream],
		},
		Retries: errors.GetRetryCount(errors.ErrCodeUpstream),
	}
}
