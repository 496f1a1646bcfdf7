// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

func New(version string, activities ...Activity) (*ActivityRegistry, error) {
	reg := &ActivityRegistry{Version: version, Activities: activities}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	sort.Slice(reg.Activities, func(i, j int) bool {
		return reg.Activities[i].TaskType < reg.Activities[j].TaskType
	})
	return reg, nil
}

// Validate rejects empty or duplicate task types and malformed input schemas.
func (r *ActivityRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %q has no task type", a.DisplayName)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("duplicate task type %s", a.TaskType)
		}
		seen[a.TaskType] = true
		if len(a.InputSchema) > 0 && !json.Valid(a.InputSchema) {
			return fmt.Errorf("activity %s: input schema is not valid JSON", a.TaskType)
		}
	}
	return nil
}

func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Handler serves the registry as JSON.
func (r *ActivityRegistry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r)
	})
}
