// pkg/registry/schema.go
package registry

import "encoding/json"

type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

// Activity describes one job worker to process modellers.
type Activity struct {
	TaskType    string          `json:"taskType"`
	DisplayName string          `json:"displayName"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	InputSchema json.RawMessage `json:"inputSchema"`
	ErrorCodes  []string        `json:"errorCodes"`
	Retries     int             `json:"retries"`
}
