package checkapplicationeligibility

import (
	"encoding/json"

	"talent-workers/internal/common/errors"
	"talent-workers/pkg/registry"
)

// Activity describes this worker for process modellers.
func Activity() registry.Activity {
	return registry.Activity{
		TaskType:    TaskType,
		DisplayName: "Check Application Eligibility",
		Description: "Checks that a job seeker's profile is complete enough to apply.",
		Category:    "application",
		InputSchema: json.RawMessage(inputSchema),
		ErrorCodes: []string{
			errors.BPMNErrorMapping[errors.ErrCodeValidation],
			errors.BPMNErrorMapping[errors.ErrCodeNotFound],
			errors.BPMNErrorMapping[errors.ErrCodeUpstream],
		},
		Retries: errors.GetRetryCount(errors.ErrCodeUpstream),
	}
}
