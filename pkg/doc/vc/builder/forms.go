/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package builder

// Kind enumerates the credential kinds this builder assembles.
type Kind string

// Supported credential kinds.
const (
	KindAchievement       Kind = "Achievement"
	KindEmployment        Kind = "Employment"
	KindVolunteering      Kind = "Volunteering"
	KindPerformanceReview Kind = "PerformanceReview"
	KindRecommendation    Kind = "Recommendation"
	KindResume            Kind = "Resume"
)

// Form is the closed set of typed form inputs, one per credential kind.
// Recommendation input is separate (RecommendationForm) because building a
// recommendation additionally needs the id of the credential it targets.
type Form interface {
	Kind() Kind
	expiration() string
}

// PortfolioItem is a single portfolio entry projected onto the subject.
type PortfolioItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AchievementForm is the input for an OpenBadge achievement credential.
type AchievementForm struct {
	FullName               string
	ExpirationDate         string
	Portfolio              []PortfolioItem
	AchievementName        string
	AchievementDescription string
	CriteriaNarrative      string
	EvidenceLink           string
	Duration               string
	CredentialType         string
}

func (f AchievementForm) Kind() Kind { return KindAchievement }
func (f AchievementForm) expiration() string { return f.ExpirationDate }

// EmploymentForm is the input for an employment credential.
type EmploymentForm struct {
	FullName       string
	ExpirationDate string
	Company        string
	Position       string
	Description    string
	Duration       string
	Portfolio      []PortfolioItem
}

func (f EmploymentForm) Kind() Kind { return KindEmployment }
func (f EmploymentForm) expiration() string { return f.ExpirationDate }

// VolunteeringForm is the input for a volunteering credential.
type VolunteeringForm struct {
	FullName       string
	ExpirationDate string
	Organization   string
	Role           string
	Cause          string
	Description    string
	Duration       string
}

func (f VolunteeringForm) Kind() Kind { return KindVolunteering }
func (f VolunteeringForm) expiration() string { return f.ExpirationDate }

// PerformanceReviewForm is the input for a performance-review credential.
type PerformanceReviewForm struct {
	FullName       string
	ExpirationDate string
	Company        string
	Role           string
	Reviewer       string
	ReviewComment  string
	OverallRating  string
	Duration       string
}

func (f PerformanceReviewForm) Kind() Kind { return KindPerformanceReview }
func (f PerformanceReviewForm) expiration() string { return f.ExpirationDate }

// RecommendationForm is the input for a recommendation on an existing
// credential. It is passed to BuildRecommendation together with the id of
// the credential being recommended.
type RecommendationForm struct {
	FullName           string
	ExpirationDate     string
	RecommendationText string
	Qualifications     string
}

func (f RecommendationForm) expiration() string { return f.ExpirationDate }

// ContactInfo is the contact block of a resume credential.
type ContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// ExperienceItem is a single work-experience entry of a resume credential.
type ExperienceItem struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationItem is a single education entry of a resume credential.
type EducationItem struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Year        string `json:"year,omitempty"`
}

// ResumeForm is the input for a resume credential.
type ResumeForm struct {
	FullName       string
	ExpirationDate string
	Summary        string
	Contact        ContactInfo
	Experience     []ExperienceItem
	Education      []EducationItem
	Skills         []string
	Portfolio      []PortfolioItem
}

func (f ResumeForm) Kind() Kind { return KindResume }
func (f ResumeForm) expiration() string { return f.ExpirationDate }
