package models

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending            Status = "pending"
	StatusShortlisted        Status = "shortlisted"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusHired              Status = "hired"
	StatusRejected           Status = "rejected"
	StatusWithdrawn          Status = "withdrawn"
)

var allStatuses = []Status{
	StatusPending,
	StatusShortlisted,
	StatusInterviewScheduled,
	StatusHired,
	StatusRejected,
	StatusWithdrawn,
}

// ParseStatus accepts any case and surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range allStatuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// IsTerminal reports whether no forward transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusHired || s == StatusRejected || s == StatusWithdrawn
}

type InterviewMode string

const (
	InterviewInPerson InterviewMode = "in-person"
	InterviewVirtual  InterviewMode = "virtual"
)

func (m InterviewMode) Valid() bool {
	return m == InterviewInPerson || m == InterviewVirtual
}

type Interview struct {
	When  time.Time     `json:"when"`
	Mode  InterviewMode `json:"mode"`
	Notes string        `json:"notes,omitempty"`
}

// Application is the record owned by the backend tracking service.
type Application struct {
	ID        string     `json:"id"`
	Status    Status     `json:"status"`
	AppliedAt time.Time  `json:"appliedDate"`
	Interview *Interview `json:"interview,omitempty"`
}

// StatusUpdate is the body of PATCH /applications/{id}/status.
type StatusUpdate struct {
	Status        Status        `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	InterviewDate *time.Time    `json:"interviewDate,omitempty"`
	InterviewMode InterviewMode `json:"interviewMode,omitempty"`
}

// NormalizeID is the canonical key form for application ids.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
