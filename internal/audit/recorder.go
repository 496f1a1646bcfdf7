package audit

import (
	"context"
	"database/sql"
	"time"

	"talent-workers/internal/common/errors"

	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS application_status_audit (
	event_id        UUID PRIMARY KEY,
	transition_id   TEXT NOT NULL,
	application_key TEXT NOT NULL,
	from_status     TEXT NOT NULL,
	to_status       TEXT NOT NULL,
	kind            TEXT NOT NULL,
	actor           TEXT NOT NULL,
	session_id      TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL
)`

// Event is one applied status change.
type Event struct {
	TransitionID   string
	ApplicationKey string
	From           string
	To             string
	Kind           string
	Actor          string
	SessionID      string
}

// Recorder appends applied transitions to application_status_audit.
type Recorder struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

func (r *Recorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.NewAuditWriteError(err)
	}
	return nil
}

// Record inserts ev and returns the generated event id.
func (r *Recorder) Record(ctx context.Context, ev Event) (string, error) {
	eventID := uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO application_status_audit (
			event_id, transition_id, application_key, from_status,
			to_status, kind, actor, session_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		eventID,
		ev.TransitionID,
		ev.ApplicationKey,
		ev.From,
		ev.To,
		ev.Kind,
		ev.Actor,
		ev.SessionID,
		r.now().UTC(),
	)
	if err != nil {
		return "", errors.NewAuditWriteError(err)
	}
	return eventID, nil
}
