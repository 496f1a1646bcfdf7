package undoapplicationstatus

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"talent-workers/internal/audit"
	"talent-workers/internal/common/errors"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/models"
	"talent-workers/internal/status"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockApplicationStore struct {
	mock.Mock
}

func (m *MockApplicationStore) GetApplication(ctx context.Context, applicationID string) (*models.Application, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationStore) UpdateStatus(ctx context.Context, applicationID string, update models.StatusUpdate) error {
	args := m.Called(ctx, applicationID, update)
	return args.Error(0)
}

// ==========================
// Test Helpers
// ==========================

func newTestHandler(t *testing.T, store ApplicationStore, history *status.MemoryHistory, rec AuditRecorder) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Applications: store,
		History:      status.SharedHistory(history),
		Audit:        rec,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func seedHistory(t *testing.T, id string, prev models.Status) *status.MemoryHistory {
	history := status.NewMemoryHistory()
	require.NoError(t, history.Set(context.Background(), id, prev))
	return history
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       key,
		Type:      TaskType,
		Retries:   3,
		Variables: string(variablesJSON),
	}}
}

// ==========================
// Undo Tests
// ==========================

func TestExecute_TwoUndosToggle(t *testing.T) {
	history := seedHistory(t, "a-1", models.StatusShortlisted)
	store := new(MockApplicationStore)
	store.On("UpdateStatus", mock.Anything, "a-1", mock.Anything).Return(nil)
	h := newTestHandler(t, store, history, nil)
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{ApplicationID: "a-1", CurrentStatus: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, out.PreviousStatus)
	assert.Equal(t, models.StatusShortlisted, out.NewStatus)
	require.Len(t, out.Intents, 1)
	assert.Equal(t, status.IntentReopenApplication, out.Intents[0].Type)

	out, err = h.Execute(ctx, &Input{ApplicationID: "a-1", CurrentStatus: "shortlisted"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, out.NewStatus)
	require.Len(t, out.Intents, 1)
	assert.Equal(t, status.IntentCloseApplication, out.Intents[0].Type)

	prev, ok, _ := history.Get(ctx, "a-1")
	assert.True(t, ok)
	assert.Equal(t, models.StatusShortlisted, prev)
}

func TestExecute_NothingToUndo(t *testing.T) {
	store := new(MockApplicationStore)
	h := newTestHandler(t, store, status.NewMemoryHistory(), nil)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "a-2", CurrentStatus: "pending"})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_WithdrawnIsFinal(t *testing.T) {
	store := new(MockApplicationStore)
	h := newTestHandler(t, store, seedHistory(t, "a-3", models.StatusShortlisted), nil)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "a-3", CurrentStatus: "withdrawn"})
	assert.True(t, errors.IsValidation(err))
}

func TestExecute_IntoInterviewWithoutDetails(t *testing.T) {
	store := new(MockApplicationStore)
	store.On("UpdateStatus", mock.Anything, "a-4", models.StatusUpdate{Status: models.StatusInterviewScheduled}).Return(nil)
	h := newTestHandler(t, store, seedHistory(t, "a-4", models.StatusInterviewScheduled), nil)

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "a-4", CurrentStatus: "hired"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterviewScheduled, out.NewStatus)
	require.Len(t, out.Intents, 1)
	assert.Equal(t, status.IntentReopenApplication, out.Intents[0].Type)
	store.AssertExpectations(t)
}

func TestExecute_FetchesCurrentStatus(t *testing.T) {
	store := new(MockApplicationStore)
	store.On("GetApplication", mock.Anything, "A-5").
		Return(&models.Application{ID: "A-5", Status: models.StatusShortlisted}, nil)
	store.On("UpdateStatus", mock.Anything, "A-5", mock.Anything).Return(nil)
	h := newTestHandler(t, store, seedHistory(t, "a-5", models.StatusPending), nil)

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "A-5"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, out.NewStatus)
}

func TestExecute_BackendFailureKeepsSlot(t *testing.T) {
	history := seedHistory(t, "a-6", models.StatusPending)
	store := new(MockApplicationStore)
	store.On("UpdateStatus", mock.Anything, "a-6", mock.Anything).Return(stderrors.New("connection refused"))
	h := newTestHandler(t, store, history, nil)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "a-6", CurrentStatus: "shortlisted"})
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))

	prev, ok, _ := history.Get(context.Background(), "a-6")
	assert.True(t, ok)
	assert.Equal(t, models.StatusPending, prev)
}

func TestExecute_RecordsAudit(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlMock.ExpectExec("INSERT INTO application_status_audit").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "a-7", "rejected", "shortlisted", "undo", "employer", "s-3", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := new(MockApplicationStore)
	store.On("UpdateStatus", mock.Anything, "a-7", mock.Anything).Return(nil)
	h := newTestHandler(t, store, seedHistory(t, "a-7", models.StatusShortlisted), audit.NewRecorder(db))

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "a-7", CurrentStatus: "rejected", SessionID: "s-3"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AuditEventID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestParseInput(t *testing.T) {
	h := newTestHandler(t, new(MockApplicationStore), status.NewMemoryHistory(), nil)

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{
		"applicationId": "a-8",
		"sessionId":     "s-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "s-1", input.SessionID)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{"currentStatus": "pending"}))
	assert.Equal(t, errors.ErrCodeSchemaValidationFailed, errors.Code(err))
}

func TestActivity(t *testing.T) {
	a := Activity()
	assert.Equal(t, TaskType, a.TaskType)
	assert.True(t, json.Valid(a.InputSchema))
	assert.Contains(t, a.ErrorCodes, "NOTHING_TO_UNDO")
	assert.Equal(t, 3, a.Retries)
}
