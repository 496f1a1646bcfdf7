package eligibility

import (
	"talent-workers/internal/models"
	"talent-workers/internal/scoring"
)

const (
	DefaultMinCompletion = 70

	ResumeField = "resume"
)

type Result struct {
	Eligible      bool     `json:"eligible"`
	Completion    int      `json:"completion"`
	MinCompletion int      `json:"minCompletion"`
	MissingFields []string `json:"missingFields"`
}

// Gate decides whether a job seeker may submit a new application.
type Gate struct {
	minCompletion int
}

// NewGate clamps minCompletion to [0, 100]; 0 disables the completion check.
func NewGate(minCompletion int) *Gate {
	if minCompletion < 0 {
		minCompletion = 0
	}
	if minCompletion > 100 {
		minCompletion = 100
	}
	return &Gate{minCompletion: minCompletion}
}

func (g *Gate) MinCompletion() int { return g.minCompletion }

// IsEligible requires both the minimum completion and a resume. When the
// completion is short every unfilled checklist field is reported.
func (g *Gate) IsEligible(p *models.JobSeekerProfile, hasResume bool) Result {
	fields := scoring.JobSeekerChecklist(p)
	completion := scoring.ComputeCompletion(fields, scoring.JobSeekerFieldCount)

	missing := make([]string, 0)
	if completion < g.minCompletion {
		missing = append(missing, scoring.MissingFields(fields)...)
	}
	if !hasResume {
		missing = append(missing, ResumeField)
	}

	return Result{
		Eligible:      len(missing) == 0,
		Completion:    completion,
		MinCompletion: g.minCompletion,
		MissingFields: missing,
	}
}
