package computeprofilescore

import (
	"context"

	"talent-workers/internal/models"
	"talent-workers/internal/scoring"
)

// ProfileFetcher loads a profile when the process did not pass one inline.
type ProfileFetcher interface {
	GetProfileDetails(ctx context.Context, userID string) (*models.ProfileRecord, error)
}

type Input struct {
	UserID         string                `json:"userId,omitempty"`
	Profile        *models.ProfileRecord `json:"profile,omitempty"`
	Bonuses        models.Bonuses        `json:"bonuses"`
	PointsDeducted int                   `json:"pointsDeducted"`
	RedeemCost     int                   `json:"redeemCost,omitempty"`
}

type Output struct {
	UserID            string              `json:"userId,omitempty"`
	ProfileCompletion int                 `json:"profileCompletion"`
	MembershipTier    scoring.Tier        `json:"membershipTier"`
	AvailablePoints   int                 `json:"availablePoints"`
	CanRedeem         *bool               `json:"canRedeem,omitempty"`
	ProfileScore      *scoring.Evaluation `json:"profileScore"`
}

const inputSchema = `{
  "type": "object",
  "anyOf": [
    {"required": ["userId"]},
    {"required": ["profile"]}
  ],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "profile": {
      "type": "object",
      "required": ["kind"],
      "properties": {
        "kind": {"type": "string", "enum": ["job_seeker", "employer"]},
        "jobSeeker": {"type": "object"},
        "employer": {"type": "object"}
      }
    },
    "bonuses": {
      "type": "object",
      "properties": {
        "applications": {"type": "integer", "minimum": 0},
        "rmService": {"type": "integer", "minimum": 0},
        "referral": {"type": "integer", "minimum": 0},
        "social": {"type": "integer", "minimum": 0}
      }
    },
    "pointsDeducted": {"type": "integer", "minimum": 0},
    "redeemCost": {"type": "integer", "minimum": 0}
  }
}`
