package registry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg, err := New("1.0.0",
		Activity{TaskType: "undo-application-status", InputSchema: json.RawMessage(`{"type":"object"}`)},
		Activity{TaskType: "compute-profile-score"},
	)
	require.NoError(t, err)
	assert.Equal(t, "compute-profile-score", reg.Activities[0].TaskType)

	a, ok := reg.Find("undo-application-status")
	assert.True(t, ok)
	assert.JSONEq(t, `{"type":"object"}`, string(a.InputSchema))

	_, ok = reg.Find("missing")
	assert.False(t, ok)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{"empty task type", []Activity{{DisplayName: "x"}}, "no task type"},
		{"duplicate", []Activity{{TaskType: "a"}, {TaskType: "a"}}, "duplicate task type"},
		{"bad schema", []Activity{{TaskType: "a", InputSchema: json.RawMessage(`{`)}}, "not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("1", tt.activities...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHandler(t *testing.T) {
	reg, err := New("2.0.0", Activity{TaskType: "check-application-eligibility", Retries: 0})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got ActivityRegistry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2.0.0", got.Version)
	require.Len(t, got.Activities, 1)
	assert.Equal(t, "check-application-eligibility", got.Activities[0].TaskType)
}
