// internal/scoring/completion_test.go
package scoring

import (
	"testing"

	"talent-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createCompleteSeeker() *models.JobSeekerProfile {
	return &models.JobSeekerProfile{
		FullName:          "Mariam Al Hashimi",
		Email:             "mariam@example.com",
		Phone:             "+971500000000",
		Nationality:       "Emirati",
		CurrentLocation:   "Abu Dhabi",
		DateOfBirth:       "1994-03-11",
		CurrentJobTitle:   "Data Engineer",
		CurrentEmployer:   "ADNOC",
		YearsOfExperience: 6,
		Industry:          "Energy",
		WorkExperience:    []models.WorkExperience{{Title: "Analyst", Company: "du"}},
		HighestDegree:     "MSc",
		Institution:       "Khalifa University",
		FieldOfStudy:      "Computer Science",
		GraduationYear:    2017,
		Skills:            []string{"go", "sql"},
		Languages:         []string{"Arabic", "English"},
		Certifications:    []string{"CKA"},
		LinkedInURL:       "https://linkedin.com/in/mariam",
		PortfolioURL:      "https://mariam.dev",
		GitHubURL:         "https://github.com/mariam",
		ResumeURL:         "s3://resumes/mariam.pdf",
		ProfilePhotoURL:   "s3://photos/mariam.png",
		CoverLetterURL:    "s3://letters/mariam.pdf",
	}
}

func createCompleteEmployer() *models.EmployerProfile {
	return &models.EmployerProfile{
		CompanyName:     "Falcon Logistics",
		Industry:        "Logistics",
		TeamSize:        "501-1000",
		FoundedYear:     2004,
		Headquarters:    "Dubai",
		Description:     "Freight forwarding",
		ContactName:     "Omar",
		ContactEmail:    "hr@falcon.example",
		ContactPhone:    "+97140000000",
		Website:         "https://falcon.example",
		LinkedInURL:     "https://linkedin.com/company/falcon",
		TwitterURL:      "https://x.com/falcon",
		FacebookURL:     "https://facebook.com/falcon",
		LogoURL:         "s3://logos/falcon.png",
		TradeLicenseURL: "s3://licenses/falcon.pdf",
		Benefits:        []string{"health"},
		OfficeLocations: []string{"Dubai", "Sharjah"},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestChecklistSizes(t *testing.T) {
	assert.Len(t, JobSeekerChecklist(nil), JobSeekerFieldCount)
	assert.Len(t, EmployerChecklist(nil), EmployerFieldCount)
}

func TestComputeCompletion(t *testing.T) {
	tests := []struct {
		name     string
		profile  func() *models.JobSeekerProfile
		expected int
	}{
		{"nil profile", func() *models.JobSeekerProfile { return nil }, 0},
		{"empty profile", func() *models.JobSeekerProfile { return &models.JobSeekerProfile{} }, 0},
		{"complete profile", createCompleteSeeker, 100},
		{"whitespace strings do not count", func() *models.JobSeekerProfile {
			return &models.JobSeekerProfile{FullName: "   ", Email: "\t"}
		}, 0},
		{"one field rounds to 4", func() *models.JobSeekerProfile {
			return &models.JobSeekerProfile{FullName: "A"}
		}, 4},
		{"half the checklist", func() *models.JobSeekerProfile {
			p := createCompleteSeeker()
			p.HighestDegree, p.Institution, p.FieldOfStudy, p.GraduationYear = "", "", "", 0
			p.Skills, p.Languages, p.Certifications = nil, []string{}, nil
			p.LinkedInURL, p.PortfolioURL, p.GitHubURL = "", "", ""
			p.ResumeURL, p.ProfilePhotoURL = "", ""
			return p
		}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JobSeekerCompletion(tt.profile()))
		})
	}
}

func TestComputeCompletion_EmployerRounding(t *testing.T) {
	p := &models.EmployerProfile{CompanyName: "Acme", Industry: "Retail", TeamSize: "1-10"}
	// 3/17 = 17.6%
	assert.Equal(t, 18, EmployerCompletion(p))
	assert.Equal(t, 100, EmployerCompletion(createCompleteEmployer()))
}

func TestComputeCompletion_ClampsUndercountedTotal(t *testing.T) {
	fields := JobSeekerChecklist(createCompleteSeeker())
	assert.Equal(t, 100, ComputeCompletion(fields, 10))
	assert.Equal(t, 0, ComputeCompletion(fields, 0))
}

func TestComputeCompletion_Monotonic(t *testing.T) {
	p := &models.JobSeekerProfile{}
	fillers := []func(){
		func() { p.FullName = "x" },
		func() { p.Skills = []string{"go"} },
		func() { p.YearsOfExperience = 3 },
		func() { p.ResumeURL = "r" },
		func() { p.GraduationYear = 2010 },
		func() { p.WorkExperience = []models.WorkExperience{{Title: "t"}} },
		func() { p.LinkedInURL = "l" },
	}

	prev := JobSeekerCompletion(p)
	for i, fill := range fillers {
		fill()
		next := JobSeekerCompletion(p)
		require.GreaterOrEqual(t, next, prev, "filler %d lowered completion", i)
		require.GreaterOrEqual(t, next, 0)
		require.LessOrEqual(t, next, 100)
		prev = next
	}
}

func TestMissingFieldsAndGroups(t *testing.T) {
	p := createCompleteSeeker()
	p.GitHubURL = ""
	p.Certifications = nil

	fields := JobSeekerChecklist(p)
	assert.Equal(t, []string{"certifications", "gitHubUrl"}, MissingFields(fields))

	groups := Groups(fields)
	assert.Equal(t, GroupScore{Filled: 2, Total: 3}, groups["skills"])
	assert.Equal(t, GroupScore{Filled: 2, Total: 3}, groups["social"])
	assert.Equal(t, GroupScore{Filled: 6, Total: 6}, groups["contact"])
}
