package models

type ProfileKind string

const (
	ProfileJobSeeker ProfileKind = "job_seeker"
	ProfileEmployer  ProfileKind = "employer"
)

type WorkExperience struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	StartYear int    `json:"startYear,omitempty"`
	EndYear   int    `json:"endYear,omitempty"`
}

type JobSeekerProfile struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Nationality     string `json:"nationality"`
	CurrentLocation string `json:"currentLocation"`
	DateOfBirth     string `json:"dateOfBirth"`

	CurrentJobTitle   string           `json:"currentJobTitle"`
	CurrentEmployer   string           `json:"currentEmployer"`
	YearsOfExperience int              `json:"yearsOfExperience"`
	Industry          string           `json:"industry"`
	WorkExperience    []WorkExperience `json:"workExperience"`

	HighestDegree  string `json:"highestDegree"`
	Institution    string `json:"institution"`
	FieldOfStudy   string `json:"fieldOfStudy"`
	GraduationYear int    `json:"graduationYear"`

	Skills         []string `json:"skills"`
	Languages      []string `json:"languages"`
	Certifications []string `json:"certifications"`

	LinkedInURL  string `json:"linkedInUrl"`
	PortfolioURL string `json:"portfolioUrl"`
	GitHubURL    string `json:"gitHubUrl"`

	ResumeURL       string `json:"resumeUrl"`
	ProfilePhotoURL string `json:"profilePhotoUrl"`
	CoverLetterURL  string `json:"coverLetterUrl"`
}

type EmployerProfile struct {
	CompanyName  string `json:"companyName"`
	Industry     string `json:"industry"`
	TeamSize     string `json:"teamSize"`
	FoundedYear  int    `json:"foundedYear"`
	Headquarters string `json:"headquarters"`
	Description  string `json:"description"`

	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Website      string `json:"website"`

	LinkedInURL string `json:"linkedInUrl"`
	TwitterURL  string `json:"twitterUrl"`
	FacebookURL string `json:"facebookUrl"`

	LogoURL         string `json:"logoUrl"`
	TradeLicenseURL string `json:"tradeLicenseUrl"`

	Benefits        []string `json:"benefits"`
	OfficeLocations []string `json:"officeLocations"`
}

// ProfileRecord is what GET /profile/details returns. Exactly one of
// JobSeeker or Employer is set, matching Kind.
type ProfileRecord struct {
	UserID    string            `json:"userId,omitempty"`
	Kind      ProfileKind       `json:"kind"`
	JobSeeker *JobSeekerProfile `json:"jobSeeker,omitempty"`
	Employer  *EmployerProfile  `json:"employer,omitempty"`
}

// Bonuses are the reward-point components accrued outside the profile itself.
type Bonuses struct {
	Applications int `json:"applications"`
	RMService    int `json:"rmService"`
	Referral     int `json:"referral"`
	Social       int `json:"social"`
}

func (b Bonuses) Sum() int {
	return b.Applications + b.RMService + b.Referral + b.Social
}
