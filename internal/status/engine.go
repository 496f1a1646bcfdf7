package status

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"talent-workers/internal/common/errors"
	"talent-workers/internal/models"
)

type Actor string

const (
	ActorEmployer  Actor = "employer"
	ActorApplicant Actor = "applicant"
)

type Kind string

const (
	KindForward Kind = "forward"
	KindUndo    Kind = "undo"
)

type IntentType string

const (
	IntentScheduleInterview IntentType = "schedule_interview"
	IntentCancelInterview   IntentType = "cancel_interview"
	IntentCloseApplication  IntentType = "close_application"
	IntentReopenApplication IntentType = "reopen_application"
)

// Intent is a side effect the caller must carry out against an external
// collaborator once the status write succeeds.
type Intent struct {
	Type      IntentType        `json:"type"`
	Interview *models.Interview `json:"interview,omitempty"`
}

type Request struct {
	ApplicationID string
	From          models.Status
	To            models.Status
	Actor         Actor
	Interview     *models.Interview
	Notes         string
}

type Result struct {
	ApplicationID  string              `json:"applicationId"`
	Key            string              `json:"key"`
	Kind           Kind                `json:"kind"`
	PreviousStatus models.Status       `json:"previousStatus"`
	NewStatus      models.Status       `json:"newStatus"`
	HistoryUpdated bool                `json:"historyUpdated"`
	Intents        []Intent            `json:"intents"`
	Update         models.StatusUpdate `json:"update"`
}

// StatusWriter persists an approved transition, normally the backend's
// PATCH /applications/{id}/status.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, applicationID string, update models.StatusUpdate) error
}

type Engine struct {
	history HistoryStore
	now     func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(history HistoryStore, opts ...Option) *Engine {
	e := &Engine{history: history, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pending is a transition whose history write has happened but whose status
// write has not been confirmed yet.
type Pending struct {
	Result

	engine   *Engine
	prior    models.Status
	hadPrior bool
	settled  bool
}

// Commit marks the transition as persisted; later Rollback calls are no-ops.
func (p *Pending) Commit() {
	p.settled = true
}

// Rollback restores the history slot to what it held before the transition,
// deleting it if the transition created it.
func (p *Pending) Rollback(ctx context.Context) error {
	if p.settled {
		return nil
	}
	p.settled = true

	var err error
	if p.hadPrior {
		err = p.engine.history.Set(ctx, p.Key, p.prior)
	} else {
		err = p.engine.history.Delete(ctx, p.Key)
	}
	if err != nil {
		return errors.NewHistoryStoreError("rollback", err)
	}
	return nil
}

// Transition validates a forward move and records the departed-from status.
func (e *Engine) Transition(ctx context.Context, req Request) (*Pending, error) {
	return e.begin(ctx, req, KindForward)
}

// Previous returns the recorded previous status, or a not-found error.
func (e *Engine) Previous(ctx context.Context, applicationID string) (models.Status, error) {
	key := models.NormalizeID(applicationID)
	if key == "" {
		return "", errors.NewValidationError("application id is required", "")
	}
	prev, ok, err := e.history.Get(ctx, key)
	if err != nil {
		return "", errors.NewHistoryStoreError("read", err)
	}
	if !ok {
		return "", errors.NewNotFoundError("status history entry", key)
	}
	return prev, nil
}

// Undo moves the application back to its recorded previous status. The slot
// then holds the status being left, so a second undo toggles back.
func (e *Engine) Undo(ctx context.Context, applicationID string, current models.Status) (*Pending, error) {
	prev, err := e.Previous(ctx, applicationID)
	if errors.IsNotFound(err) {
		return nil, errors.NewConflictError("nothing to undo", fmt.Sprintf("id: %s", models.NormalizeID(applicationID)))
	}
	if err != nil {
		return nil, err
	}

	return e.begin(ctx, Request{
		ApplicationID: applicationID,
		From:          current,
		To:            prev,
		Actor:         ActorEmployer,
	}, KindUndo)
}

// Apply writes p through w. On failure the history slot is rolled back and
// the writer's error is returned unchanged; errors without a code become
// upstream errors.
func (e *Engine) Apply(ctx context.Context, p *Pending, w StatusWriter) (*Result, error) {
	if err := w.UpdateStatus(ctx, p.ApplicationID, p.Update); err != nil {
		var typed *errors.StandardError
		if !stderrors.As(err, &typed) {
			err = errors.NewUpstreamError("update status", err)
		}
		// the caller's context may already be cancelled
		if rbErr := p.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			return nil, stderrors.Join(err, rbErr)
		}
		return nil, err
	}
	p.Commit()
	return &p.Result, nil
}

func (e *Engine) begin(ctx context.Context, req Request, kind Kind) (*Pending, error) {
	id := strings.TrimSpace(req.ApplicationID)
	key := models.NormalizeID(id)
	if key == "" {
		return nil, errors.NewValidationError("application id is required", "")
	}

	from, err := models.ParseStatus(string(req.From))
	if err != nil {
		return nil, errors.NewValidationError("invalid current status", err.Error())
	}
	to, err := models.ParseStatus(string(req.To))
	if err != nil {
		return nil, errors.NewValidationError("invalid target status", err.Error())
	}
	if from == to {
		return nil, errors.NewValidationError("application already has this status", string(to))
	}

	if err := e.checkAllowed(from, to, req.Actor, kind); err != nil {
		return nil, err
	}
	if err := e.checkInterview(to, req.Interview, kind); err != nil {
		return nil, err
	}

	prior, hadPrior, err := e.history.Get(ctx, key)
	if err != nil {
		return nil, errors.NewHistoryStoreError("read", err)
	}
	if err := e.history.Set(ctx, key, from); err != nil {
		return nil, errors.NewHistoryStoreError("write", err)
	}

	return &Pending{
		Result: Result{
			ApplicationID:  id,
			Key:            key,
			Kind:           kind,
			PreviousStatus: from,
			NewStatus:      to,
			HistoryUpdated: true,
			Intents:        intents(from, to, req.Interview, kind),
			Update:         update(to, req.Interview, req.Notes),
		},
		engine:   e,
		prior:    prior,
		hadPrior: hadPrior,
	}, nil
}

func (e *Engine) checkAllowed(from, to models.Status, actor Actor, kind Kind) error {
	if from == models.StatusWithdrawn || (to == models.StatusWithdrawn && kind == KindUndo) {
		return errors.NewValidationError("withdrawn applications cannot change status", fmt.Sprintf("%s -> %s", from, to))
	}
	if kind == KindUndo {
		return nil
	}

	if actor == "" {
		actor = ActorEmployer
	}
	switch actor {
	case ActorApplicant:
		if to != models.StatusWithdrawn {
			return errors.NewValidationError("applicants may only withdraw", string(to))
		}
	case ActorEmployer:
		if to == models.StatusWithdrawn {
			return errors.NewValidationError("only the applicant can withdraw", "")
		}
	default:
		return errors.NewValidationError("unknown actor", string(actor))
	}

	if from.IsTerminal() {
		return errors.NewValidationError("status is terminal", fmt.Sprintf("%s -> %s", from, to))
	}
	return nil
}

// checkInterview requires schedule details on a forward move into
// interview_scheduled. On undo the earlier schedule is kept by the backend,
// so details are optional but still validated when present.
func (e *Engine) checkInterview(to models.Status, iv *models.Interview, kind Kind) error {
	if to != models.StatusInterviewScheduled {
		return nil
	}
	if iv == nil {
		if kind == KindUndo {
			return nil
		}
		return errors.NewValidationError("interview details are required", "")
	}
	if !iv.When.After(e.now()) {
		return errors.NewValidationError("interview must be scheduled in the future", iv.When.Format(time.RFC3339))
	}
	if !iv.Mode.Valid() {
		return errors.NewValidationError("invalid interview mode", string(iv.Mode))
	}
	return nil
}

func intents(from, to models.Status, iv *models.Interview, kind Kind) []Intent {
	out := make([]Intent, 0, 2)
	if to == models.StatusInterviewScheduled && iv != nil {
		out = append(out, Intent{Type: IntentScheduleInterview, Interview: iv})
	}
	if from == models.StatusInterviewScheduled && to != models.StatusHired {
		out = append(out, Intent{Type: IntentCancelInterview})
	}
	if kind == KindUndo && (from == models.StatusHired || from == models.StatusRejected) {
		out = append(out, Intent{Type: IntentReopenApplication})
	}
	if to.IsTerminal() {
		out = append(out, Intent{Type: IntentCloseApplication})
	}
	return out
}

func update(to models.Status, iv *models.Interview, notes string) models.StatusUpdate {
	u := models.StatusUpdate{Status: to, Notes: notes}
	if iv != nil && to == models.StatusInterviewScheduled {
		when := iv.When.UTC()
		u.InterviewDate = &when
		u.InterviewMode = iv.Mode
		if u.Notes == "" {
			u.Notes = iv.Notes
		}
	}
	return u
}
