package checkapplicationeligibility

import (
	"context"

	"talent-workers/internal/models"
)

type ProfileFetcher interface {
	GetProfileDetails(ctx context.Context, userID string) (*models.ProfileRecord, error)
}

type Input struct {
	UserID  string                   `json:"userId,omitempty"`
	JobID   string                   `json:"jobId,omitempty"`
	Profile *models.JobSeekerProfile `json:"profile,omitempty"`
	// HasResume falls back to whether profile.resumeUrl is set.
	HasResume *bool `json:"hasResume,omitempty"`
}

type Output struct {
	Eligible          bool     `json:"eligible"`
	ProfileCompletion int      `json:"profileCompletion"`
	MinCompletion     int      `json:"minCompletion"`
	MissingFields     []string `json:"missingFields"`
}

const inputSchema = `{
  "type": "object",
  "anyOf": [
    {"required": ["userId"]},
    {"required": ["profile"]}
  ],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "jobId": {"type": "string"},
    "profile": {"type": "object"},
    "hasResume": {"type": "boolean"}
  }
}`
