package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, "test-token")
}

func TestGetApplication(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/applications/APP-1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"APP-1","status":"shortlisted","appliedDate":"2026-01-05T10:00:00Z"}`))
	})

	app, err := c.GetApplication(context.Background(), " APP-1 ")
	require.NoError(t, err)
	assert.Equal(t, "APP-1", app.ID)
	assert.Equal(t, models.StatusShortlisted, app.Status)
	assert.Equal(t, 2026, app.AppliedAt.Year())
}

func TestGetApplication_NotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such application", http.StatusNotFound)
	})

	_, err := c.GetApplication(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateStatus(t *testing.T) {
	when := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	var got models.StatusUpdate
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/applications/a%2Fb/status", r.URL.EscapedPath())
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.UpdateStatus(context.Background(), "a/b", models.StatusUpdate{
		Status:        models.StatusInterviewScheduled,
		Notes:         "panel",
		InterviewDate: &when,
		InterviewMode: models.InterviewVirtual,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInterviewScheduled, got.Status)
	assert.Equal(t, models.InterviewVirtual, got.InterviewMode)
	require.NotNil(t, got.InterviewDate)
	assert.True(t, got.InterviewDate.Equal(when))
}

func TestUpdateStatus_ServerErrorIsUpstream(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
	})

	err := c.UpdateStatus(context.Background(), "a1", models.StatusUpdate{Status: models.StatusRejected})
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
	assert.Contains(t, err.Error(), "503")
}

func TestUpdateStatus_TransportErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, time.Second, "")
	err := c.UpdateStatus(context.Background(), "a1", models.StatusUpdate{Status: models.StatusRejected})
	assert.True(t, errors.IsUpstream(err))
}

func TestGetProfileDetails(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile/details", r.URL.Path)
		assert.Equal(t, "u-17", r.URL.Query().Get("userId"))
		_, _ = w.Write([]byte(`{"userId":"u-17","kind":"employer","employer":{"companyName":"Emirates","teamSize":"1000+"}}`))
	})

	rec, err := c.GetProfileDetails(context.Background(), "u-17")
	require.NoError(t, err)
	assert.Equal(t, models.ProfileEmployer, rec.Kind)
	require.NotNil(t, rec.Employer)
	assert.Equal(t, "1000+", rec.Employer.TeamSize)
	assert.Nil(t, rec.JobSeeker)
}
