package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Tier string

const (
	TierBlue     Tier = "Blue"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

const (
	PlatinumThreshold = 500

	jobSeekerBase       = 50
	jobSeekerPerPercent = 2.0
	employerBase        = 80
	employerPerPercent  = 2.5
)

var DefaultTopCompanies = []string{
	"Emirates",
	"Etihad Airways",
	"Emirates NBD",
	"First Abu Dhabi Bank",
	"ADNOC",
	"Emaar Properties",
	"DP World",
	"Mubadala",
	"Etisalat",
	"du",
	"Majid Al Futtaim",
	"Dubai Holding",
}

type JobSeekerInput struct {
	Completion        int
	YearsOfExperience int
	Nationality       string
	AccumulatedPoints int
}

type JobSeekerTier struct {
	Tier               Tier    `json:"tier"`
	ExperienceBracket  Tier    `json:"experienceBracket"`
	Multiplier         float64 `json:"multiplier"`
	RawBasePoints      int     `json:"rawBasePoints"`
	AdjustedBasePoints int     `json:"adjustedBasePoints"`
	IsEmirati          bool    `json:"isEmirati"`
}

type EmployerInput struct {
	Completion        int
	TeamSize          string
	CompanyName       string
	AccumulatedPoints int
}

type EmployerTier struct {
	Tier               Tier `json:"tier"`
	Points             int  `json:"points"`
	TeamSizeLowerBound int  `json:"teamSizeLowerBound"`
	IsTopCompany       bool `json:"isTopCompany"`
}

// Classifier holds the top-company allow-list. It is read-only after
// construction and safe for concurrent use.
type Classifier struct {
	topCompanies map[string]struct{}
}

func NewClassifier(topCompanies []string) *Classifier {
	set := make(map[string]struct{}, len(topCompanies))
	for _, name := range topCompanies {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			set[key] = struct{}{}
		}
	}
	return &Classifier{topCompanies: set}
}

func (c *Classifier) IsTopCompany(name string) bool {
	_, ok := c.topCompanies[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func IsEmirati(nationality string) bool {
	return strings.Contains(strings.ToLower(nationality), "emirati")
}

func JobSeekerBasePoints(completion int) int {
	return jobSeekerBase + int(float64(completion)*jobSeekerPerPercent)
}

func EmployerPoints(completion int) int {
	return int(math.Round(employerBase + float64(completion)*employerPerPercent))
}

// ClassifyJobSeekerTier applies the job-seeker rules in priority order.
func ClassifyJobSeekerTier(tierPoints, years int, isEmirati bool) Tier {
	switch {
	case isEmirati:
		return TierPlatinum
	case tierPoints >= PlatinumThreshold:
		return TierPlatinum
	case years >= 5:
		return TierGold
	case years >= 2 && years <= 5:
		return TierSilver
	default:
		return TierBlue
	}
}

func ExperienceBracket(years int) Tier {
	switch {
	case years <= 1:
		return TierBlue
	case years <= 5:
		return TierSilver
	default:
		return TierGold
	}
}

func Multiplier(tier, bracket Tier) float64 {
	switch tier {
	case TierPlatinum:
		switch bracket {
		case TierGold:
			return 4.0
		case TierSilver:
			return 3.0
		default:
			return 2.0
		}
	case TierGold:
		return 2.0
	case TierSilver:
		return 1.5
	default:
		return 1.0
	}
}

func (c *Classifier) JobSeeker(in JobSeekerInput) JobSeekerTier {
	base := JobSeekerBasePoints(in.Completion)
	emirati := IsEmirati(in.Nationality)
	tier := ClassifyJobSeekerTier(base+max(in.AccumulatedPoints, 0), in.YearsOfExperience, emirati)
	bracket := ExperienceBracket(in.YearsOfExperience)
	mult := Multiplier(tier, bracket)

	return JobSeekerTier{
		Tier:               tier,
		ExperienceBracket:  bracket,
		Multiplier:         mult,
		RawBasePoints:      base,
		AdjustedBasePoints: int(math.Round(float64(base) * mult)),
		IsEmirati:          emirati,
	}
}

// ClassifyEmployerTier applies the employer rules in priority order.
func ClassifyEmployerTier(tierPoints, teamSizeLowerBound int, topCompany bool) Tier {
	switch {
	case tierPoints >= PlatinumThreshold:
		return TierPlatinum
	case teamSizeLowerBound <= 100:
		return TierBlue
	case teamSizeLowerBound <= 500:
		return TierSilver
	case teamSizeLowerBound <= 1000 || topCompany:
		return TierGold
	default:
		return TierBlue
	}
}

func (c *Classifier) Employer(in EmployerInput) EmployerTier {
	points := EmployerPoints(in.Completion)
	lower := ParseTeamSizeLowerBound(in.TeamSize)
	top := c.IsTopCompany(in.CompanyName)

	return EmployerTier{
		Tier:               ClassifyEmployerTier(points+max(in.AccumulatedPoints, 0), lower, top),
		Points:             points,
		TeamSizeLowerBound: lower,
		IsTopCompany:       top,
	}
}

var leadingNumber = regexp.MustCompile(`\d[\d,]*`)

// ParseTeamSizeLowerBound takes the first number in brackets like "501-1000"
// or "1,000+". Unparsable input yields 0.
func ParseTeamSizeLowerBound(s string) int {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
