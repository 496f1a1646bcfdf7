package scoring

import (
	"fmt"

	"talent-workers/internal/models"
)

// Accrual is the ledger state that lives outside the profile record.
type Accrual struct {
	Bonuses  models.Bonuses
	Deducted int
}

// Evaluation is every derived display value for one profile.
type Evaluation struct {
	Kind               models.ProfileKind    `json:"kind"`
	Completion         int                   `json:"completion"`
	Groups             map[string]GroupScore `json:"groups"`
	MissingFields      []string              `json:"missingFields"`
	Tier               Tier                  `json:"tier"`
	Multiplier         float64               `json:"multiplier"`
	RawBasePoints      int                   `json:"rawBasePoints"`
	AdjustedBasePoints int                   `json:"adjustedBasePoints"`
	TotalEarned        int                   `json:"totalEarned"`
	AvailablePoints    int                   `json:"availablePoints"`

	JobSeeker *JobSeekerTier `json:"jobSeeker,omitempty"`
	Employer  *EmployerTier  `json:"employer,omitempty"`
}

// Evaluate runs completion, tier and ledger for rec. The ledger is fed the
// raw (pre-multiplier) base points.
func (c *Classifier) Evaluate(rec models.ProfileRecord, accrual Accrual) (*Evaluation, error) {
	switch rec.Kind {
	case models.ProfileJobSeeker:
		if rec.JobSeeker == nil {
			return nil, fmt.Errorf("profile kind %s without jobSeeker payload", rec.Kind)
		}
		fields := JobSeekerChecklist(rec.JobSeeker)
		completion := ComputeCompletion(fields, JobSeekerFieldCount)
		tier := c.JobSeeker(JobSeekerInput{
			Completion:        completion,
			YearsOfExperience: rec.JobSeeker.YearsOfExperience,
			Nationality:       rec.JobSeeker.Nationality,
			AccumulatedPoints: accrual.Bonuses.Sum(),
		})
		return &Evaluation{
			Kind:               rec.Kind,
			Completion:         completion,
			Groups:             Groups(fields),
			MissingFields:      MissingFields(fields),
			Tier:               tier.Tier,
			Multiplier:         tier.Multiplier,
			RawBasePoints:      tier.RawBasePoints,
			AdjustedBasePoints: tier.AdjustedBasePoints,
			TotalEarned:        TotalEarned(tier.RawBasePoints, accrual.Bonuses),
			AvailablePoints:    AvailablePoints(tier.RawBasePoints, accrual.Bonuses, accrual.Deducted),
			JobSeeker:          &tier,
		}, nil

	case models.ProfileEmployer:
		if rec.Employer == nil {
			return nil, fmt.Errorf("profile kind %s without employer payload", rec.Kind)
		}
		fields := EmployerChecklist(rec.Employer)
		completion := ComputeCompletion(fields, EmployerFieldCount)
		tier := c.Employer(EmployerInput{
			Completion:        completion,
			TeamSize:          rec.Employer.TeamSize,
			CompanyName:       rec.Employer.CompanyName,
			AccumulatedPoints: accrual.Bonuses.Sum(),
		})
		return &Evaluation{
			Kind:               rec.Kind,
			Completion:         completion,
			Groups:             Groups(fields),
			MissingFields:      MissingFields(fields),
			Tier:               tier.Tier,
			Multiplier:         1.0,
			RawBasePoints:      tier.Points,
			AdjustedBasePoints: tier.Points,
			TotalEarned:        TotalEarned(tier.Points, accrual.Bonuses),
			AvailablePoints:    AvailablePoints(tier.Points, accrual.Bonuses, accrual.Deducted),
			Employer:           &tier,
		}, nil

	default:
		return nil, fmt.Errorf("unknown profile kind %q", rec.Kind)
	}
}
