package status

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) UpdateStatus(ctx context.Context, applicationID string, update models.StatusUpdate) error {
	args := m.Called(ctx, applicationID, update)
	return args.Error(0)
}

func newTestEngine() (*Engine, *MemoryHistory) {
	h := NewMemoryHistory()
	return NewEngine(h, WithClock(func() time.Time { return fixedNow })), h
}

func okWriter() *mockWriter {
	w := &mockWriter{}
	w.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return w
}

func move(t *testing.T, e *Engine, id string, from, to models.Status) *Result {
	t.Helper()
	p, err := e.Transition(context.Background(), Request{ApplicationID: id, From: from, To: to})
	require.NoError(t, err)
	res, err := e.Apply(context.Background(), p, okWriter())
	require.NoError(t, err)
	return res
}

func undo(t *testing.T, e *Engine, id string, current models.Status) *Result {
	t.Helper()
	p, err := e.Undo(context.Background(), id, current)
	require.NoError(t, err)
	res, err := e.Apply(context.Background(), p, okWriter())
	require.NoError(t, err)
	return res
}

// ==========================
// Core Functionality Tests
// ==========================

func TestTransition_RecordsHistory(t *testing.T) {
	e, h := newTestEngine()

	res := move(t, e, "APP-1", models.StatusPending, models.StatusShortlisted)

	assert.Equal(t, models.StatusShortlisted, res.NewStatus)
	assert.Equal(t, models.StatusPending, res.PreviousStatus)
	assert.True(t, res.HistoryUpdated)
	assert.Equal(t, "app-1", res.Key)
	assert.Equal(t, "APP-1", res.ApplicationID)

	prev, ok, _ := h.Get(context.Background(), "app-1")
	assert.True(t, ok)
	assert.Equal(t, models.StatusPending, prev)
}

func TestTransition_NormalizesIDs(t *testing.T) {
	e, h := newTestEngine()
	ctx := context.Background()

	move(t, e, "abc", models.StatusPending, models.StatusShortlisted)

	prev, err := e.Previous(ctx, "ABC ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, prev)

	p, err := e.Transition(ctx, Request{ApplicationID: "ABC ", From: models.StatusShortlisted, To: models.StatusPending})
	require.NoError(t, err)
	assert.True(t, p.hadPrior)
	assert.Equal(t, models.StatusPending, p.prior)
	assert.Equal(t, "ABC", p.ApplicationID)

	assert.Equal(t, 1, h.Len())
}

func TestTransition_Rejections(t *testing.T) {
	future := &models.Interview{When: fixedNow.Add(24 * time.Hour), Mode: models.InterviewVirtual}

	tests := []struct {
		name string
		req  Request
	}{
		{"empty id", Request{ApplicationID: "  ", From: models.StatusPending, To: models.StatusShortlisted}},
		{"same status", Request{ApplicationID: "a", From: models.StatusPending, To: models.StatusPending}},
		{"unknown from", Request{ApplicationID: "a", From: "archived", To: models.StatusPending}},
		{"unknown to", Request{ApplicationID: "a", From: models.StatusPending, To: "offer"}},
		{"forward out of hired", Request{ApplicationID: "a", From: models.StatusHired, To: models.StatusShortlisted}},
		{"forward out of rejected", Request{ApplicationID: "a", From: models.StatusRejected, To: models.StatusPending}},
		{"out of withdrawn", Request{ApplicationID: "a", From: models.StatusWithdrawn, To: models.StatusPending, Actor: ActorApplicant}},
		{"employer withdraws", Request{ApplicationID: "a", From: models.StatusPending, To: models.StatusWithdrawn}},
		{"applicant shortlists", Request{ApplicationID: "a", From: models.StatusPending, To: models.StatusShortlisted, Actor: ActorApplicant}},
		{"unknown actor", Request{ApplicationID: "a", From: models.StatusPending, To: models.StatusShortlisted, Actor: "admin"}},
		{"interview without details", Request{ApplicationID: "a", From: models.StatusShortlisted, To: models.StatusInterviewScheduled}},
		{"interview now", Request{ApplicationID: "a", From: models.StatusShortlisted, To: models.StatusInterviewScheduled,
			Interview: &models.Interview{When: fixedNow, Mode: models.InterviewVirtual}}},
		{"interview in past", Request{ApplicationID: "a", From: models.StatusShortlisted, To: models.StatusInterviewScheduled,
			Interview: &models.Interview{When: fixedNow.Add(-time.Minute), Mode: models.InterviewInPerson}}},
		{"interview bad mode", Request{ApplicationID: "a", From: models.StatusShortlisted, To: models.StatusInterviewScheduled,
			Interview: &models.Interview{When: future.When, Mode: "phone"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, h := newTestEngine()

			p, err := e.Transition(context.Background(), tt.req)

			assert.Nil(t, p)
			assert.True(t, errors.IsValidation(err), "got %v", err)
			assert.Equal(t, 0, h.Len(), "rejected transition must not touch history")
		})
	}
}

func TestTransition_ScheduleInterview(t *testing.T) {
	e, _ := newTestEngine()
	iv := &models.Interview{When: fixedNow.Add(time.Second), Mode: models.InterviewInPerson, Notes: "Bring portfolio"}

	p, err := e.Transition(context.Background(), Request{
		ApplicationID: "a1",
		From:          models.StatusShortlisted,
		To:            models.StatusInterviewScheduled,
		Interview:     iv,
	})
	require.NoError(t, err)

	require.Len(t, p.Intents, 1)
	assert.Equal(t, IntentScheduleInterview, p.Intents[0].Type)
	assert.Equal(t, iv, p.Intents[0].Interview)

	assert.Equal(t, models.StatusInterviewScheduled, p.Update.Status)
	require.NotNil(t, p.Update.InterviewDate)
	assert.True(t, p.Update.InterviewDate.Equal(iv.When))
	assert.Equal(t, models.InterviewInPerson, p.Update.InterviewMode)
	assert.Equal(t, "Bring portfolio", p.Update.Notes)
}

func TestTransition_Intents(t *testing.T) {
	e, _ := newTestEngine()

	res := move(t, e, "a", models.StatusInterviewScheduled, models.StatusRejected)
	assert.Equal(t, []Intent{{Type: IntentCancelInterview}, {Type: IntentCloseApplication}}, res.Intents)

	res = move(t, e, "b", models.StatusInterviewScheduled, models.StatusHired)
	assert.Equal(t, []Intent{{Type: IntentCloseApplication}}, res.Intents)

	res = move(t, e, "c", models.StatusPending, models.StatusShortlisted)
	assert.Empty(t, res.Intents)
}

func TestTransition_ApplicantWithdraws(t *testing.T) {
	e, _ := newTestEngine()

	p, err := e.Transition(context.Background(), Request{
		ApplicationID: "a",
		From:          models.StatusShortlisted,
		To:            models.StatusWithdrawn,
		Actor:         ActorApplicant,
	})
	require.NoError(t, err)
	assert.Equal(t, []Intent{{Type: IntentCloseApplication}}, p.Intents)

	_, err = e.Undo(context.Background(), "a", models.StatusWithdrawn)
	assert.True(t, errors.IsValidation(err))
}

// ==========================
// Undo Tests
// ==========================

func TestUndo_TogglesSingleSlot(t *testing.T) {
	e, _ := newTestEngine()

	move(t, e, "id-7", models.StatusPending, models.StatusRejected)

	res := undo(t, e, "id-7", models.StatusRejected)
	assert.Equal(t, models.StatusPending, res.NewStatus)
	assert.Equal(t, KindUndo, res.Kind)
	assert.Contains(t, res.Intents, Intent{Type: IntentReopenApplication})

	res = undo(t, e, " ID-7", models.StatusPending)
	assert.Equal(t, models.StatusRejected, res.NewStatus)

	res = undo(t, e, "id-7", models.StatusRejected)
	assert.Equal(t, models.StatusPending, res.NewStatus)
}

func TestUndo_NothingToUndo(t *testing.T) {
	e, _ := newTestEngine()

	_, err := e.Undo(context.Background(), "ghost", models.StatusPending)
	assert.True(t, errors.IsConflict(err))

	_, err = e.Previous(context.Background(), "ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestUndo_IntoInterviewDoesNotNeedDetails(t *testing.T) {
	e, _ := newTestEngine()
	iv := &models.Interview{When: fixedNow.Add(time.Hour), Mode: models.InterviewVirtual}

	p, err := e.Transition(context.Background(), Request{ApplicationID: "x", From: models.StatusShortlisted, To: models.StatusInterviewScheduled, Interview: iv})
	require.NoError(t, err)
	_, err = e.Apply(context.Background(), p, okWriter())
	require.NoError(t, err)

	move(t, e, "x", models.StatusInterviewScheduled, models.StatusHired)

	res := undo(t, e, "x", models.StatusHired)
	assert.Equal(t, models.StatusInterviewScheduled, res.NewStatus)
	assert.Nil(t, res.Update.InterviewDate)
}

// ==========================
// Rollback Tests
// ==========================

func TestApply_RollsBackNewEntry(t *testing.T) {
	e, h := newTestEngine()
	ctx := context.Background()

	p, err := e.Transition(ctx, Request{ApplicationID: "r1", From: models.StatusPending, To: models.StatusShortlisted})
	require.NoError(t, err)

	cause := stderrors.New("503 service unavailable")
	w := &mockWriter{}
	w.On("UpdateStatus", mock.Anything, "r1", p.Update).Return(cause).Once()

	res, err := e.Apply(ctx, p, w)
	assert.Nil(t, res)
	assert.True(t, errors.IsUpstream(err))
	assert.ErrorIs(t, err, cause)
	w.AssertExpectations(t)

	assert.Equal(t, 0, h.Len())
	_, err = e.Undo(ctx, "r1", models.StatusPending)
	assert.True(t, errors.IsConflict(err))
}

func TestApply_KeepsTypedWriterError(t *testing.T) {
	e, h := newTestEngine()
	ctx := context.Background()

	p, err := e.Transition(ctx, Request{ApplicationID: "gone", From: models.StatusPending, To: models.StatusShortlisted})
	require.NoError(t, err)

	notFound := errors.NewNotFoundError("application", "gone")
	w := &mockWriter{}
	w.On("UpdateStatus", mock.Anything, "gone", p.Update).Return(notFound).Once()

	_, err = e.Apply(ctx, p, w)
	assert.Same(t, notFound, err)
	assert.Equal(t, errors.ErrCodeNotFound, errors.Code(err))
	assert.False(t, errors.IsUpstream(err))
	assert.Equal(t, 0, h.Len())
}

func TestApply_RollsBackToPriorEntry(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	move(t, e, "r2", models.StatusPending, models.StatusShortlisted)

	p, err := e.Transition(ctx, Request{ApplicationID: "R2", From: models.StatusShortlisted, To: models.StatusRejected})
	require.NoError(t, err)

	w := &mockWriter{}
	w.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(context.DeadlineExceeded)

	_, err = e.Apply(ctx, p, w)
	require.Error(t, err)

	prev, err := e.Previous(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, prev)
}

func TestApply_RollsBackOnCancelledContext(t *testing.T) {
	e, h := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())

	p, err := e.Transition(ctx, Request{ApplicationID: "c1", From: models.StatusPending, To: models.StatusShortlisted})
	require.NoError(t, err)

	cancel()
	w := &mockWriter{}
	w.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(context.Canceled)

	_, err = e.Apply(ctx, p, w)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, h.Len())
}

func TestPending_RollbackAfterCommitIsNoop(t *testing.T) {
	e, h := newTestEngine()

	p, err := e.Transition(context.Background(), Request{ApplicationID: "k", From: models.StatusPending, To: models.StatusShortlisted})
	require.NoError(t, err)

	p.Commit()
	require.NoError(t, p.Rollback(context.Background()))
	assert.Equal(t, 1, h.Len())
}
