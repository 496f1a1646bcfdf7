package scoring

import (
	"math"
	"strings"

	"talent-workers/internal/models"
)

const (
	JobSeekerFieldCount = 24
	EmployerFieldCount  = 17
)

// Field is one checklist entry of a profile.
type Field struct {
	Name   string `json:"name"`
	Group  string `json:"group"`
	Filled bool   `json:"filled"`
}

type GroupScore struct {
	Filled int `json:"filled"`
	Total  int `json:"total"`
}

func text(s string) bool { return strings.TrimSpace(s) != "" }

func positive(n int) bool { return n > 0 }

// JobSeekerChecklist returns the job-seeker checklist in display order. A nil
// profile yields every field unfilled.
func JobSeekerChecklist(p *models.JobSeekerProfile) []Field {
	if p == nil {
		p = &models.JobSeekerProfile{}
	}
	return []Field{
		{"fullName", "contact", text(p.FullName)},
		{"email", "contact", text(p.Email)},
		{"phone", "contact", text(p.Phone)},
		{"nationality", "contact", text(p.Nationality)},
		{"currentLocation", "contact", text(p.CurrentLocation)},
		{"dateOfBirth", "contact", text(p.DateOfBirth)},

		{"currentJobTitle", "experience", text(p.CurrentJobTitle)},
		{"currentEmployer", "experience", text(p.CurrentEmployer)},
		{"yearsOfExperience", "experience", positive(p.YearsOfExperience)},
		{"industry", "experience", text(p.Industry)},
		{"workExperience", "experience", len(p.WorkExperience) > 0},

		{"highestDegree", "education", text(p.HighestDegree)},
		{"institution", "education", text(p.Institution)},
		{"fieldOfStudy", "education", text(p.FieldOfStudy)},
		{"graduationYear", "education", positive(p.GraduationYear)},

		{"skills", "skills", len(p.Skills) > 0},
		{"languages", "skills", len(p.Languages) > 0},
		{"certifications", "skills", len(p.Certifications) > 0},

		{"linkedInUrl", "social", text(p.LinkedInURL)},
		{"portfolioUrl", "social", text(p.PortfolioURL)},
		{"gitHubUrl", "social", text(p.GitHubURL)},

		{"resumeUrl", "documents", text(p.ResumeURL)},
		{"profilePhotoUrl", "documents", text(p.ProfilePhotoURL)},
		{"coverLetterUrl", "documents", text(p.CoverLetterURL)},
	}
}

func EmployerChecklist(p *models.EmployerProfile) []Field {
	if p == nil {
		p = &models.EmployerProfile{}
	}
	return []Field{
		{"companyName", "company", text(p.CompanyName)},
		{"industry", "company", text(p.Industry)},
		{"teamSize", "company", text(p.TeamSize)},
		{"foundedYear", "company", positive(p.FoundedYear)},
		{"headquarters", "company", text(p.Headquarters)},
		{"description", "company", text(p.Description)},

		{"contactName", "contact", text(p.ContactName)},
		{"contactEmail", "contact", text(p.ContactEmail)},
		{"contactPhone", "contact", text(p.ContactPhone)},
		{"website", "contact", text(p.Website)},

		{"linkedInUrl", "social", text(p.LinkedInURL)},
		{"twitterUrl", "social", text(p.TwitterURL)},
		{"facebookUrl", "social", text(p.FacebookURL)},

		{"logoUrl", "documents", text(p.LogoURL)},
		{"tradeLicenseUrl", "documents", text(p.TradeLicenseURL)},

		{"benefits", "hiring", len(p.Benefits) > 0},
		{"officeLocations", "hiring", len(p.OfficeLocations) > 0},
	}
}

// ComputeCompletion returns round(100*filled/total) clamped to [0, 100].
func ComputeCompletion(fields []Field, total int) int {
	if total <= 0 {
		return 0
	}
	filled := 0
	for _, f := range fields {
		if f.Filled {
			filled++
		}
	}
	pct := int(math.Round(100 * float64(filled) / float64(total)))
	return clamp(pct, 0, 100)
}

func JobSeekerCompletion(p *models.JobSeekerProfile) int {
	return ComputeCompletion(JobSeekerChecklist(p), JobSeekerFieldCount)
}

func EmployerCompletion(p *models.EmployerProfile) int {
	return ComputeCompletion(EmployerChecklist(p), EmployerFieldCount)
}

// MissingFields lists the unfilled field names in checklist order.
func MissingFields(fields []Field) []string {
	missing := make([]string, 0)
	for _, f := range fields {
		if !f.Filled {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

func Groups(fields []Field) map[string]GroupScore {
	out := make(map[string]GroupScore)
	for _, f := range fields {
		g := out[f.Group]
		g.Total++
		if f.Filled {
			g.Filled++
		}
		out[f.Group] = g
	}
	return out
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
