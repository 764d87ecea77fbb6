/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package builder

// Subject variants, one per credential kind. Field order is fixed by the
// struct definition; the document is hashed from these marshaled bytes, so
// reordering fields changes every derived credential id.

type achievementSubject struct {
	ID             string             `json:"id"`
	Type           []string           `json:"type"`
	FullName       string             `json:"fullName"`
	Portfolio      []PortfolioItem    `json:"portfolio,omitempty"`
	EvidenceLink   string             `json:"evidenceLink,omitempty"`
	CredentialType string             `json:"credentialType,omitempty"`
	Duration       string             `json:"duration,omitempty"`
	Achievement    []achievementEntry `json:"achievement"`
}

type achievementEntry struct {
	ID          string              `json:"id"`
	Type        []string            `json:"type"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Criteria    achievementCriteria `json:"criteria"`
}

type achievementCriteria struct {
	Narrative string `json:"narrative"`
}

type employmentSubject struct {
	ID          string          `json:"id"`
	Type        []string        `json:"type"`
	FullName    string          `json:"fullName"`
	Company     string          `json:"company"`
	Position    string          `json:"position"`
	Description string          `json:"description,omitempty"`
	Duration    string          `json:"duration,omitempty"`
	Portfolio   []PortfolioItem `json:"portfolio,omitempty"`
}

type volunteeringSubject struct {
	ID           string   `json:"id"`
	Type         []string `json:"type"`
	FullName     string   `json:"fullName"`
	Organization string   `json:"organization"`
	Role         string   `json:"role"`
	Cause        string   `json:"cause,omitempty"`
	Description  string   `json:"description,omitempty"`
	Duration     string   `json:"duration,omitempty"`
}

type performanceReviewSubject struct {
	ID            string   `json:"id"`
	Type          []string `json:"type"`
	FullName      string   `json:"fullName"`
	Company       string   `json:"company"`
	Role          string   `json:"role"`
	Reviewer      string   `json:"reviewer,omitempty"`
	ReviewComment string   `json:"reviewComment,omitempty"`
	OverallRating string   `json:"overallRating,omitempty"`
	Duration      string   `json:"duration,omitempty"`
}

type recommendationSubject struct {
	ID                 string   `json:"id"`
	Type               []string `json:"type"`
	FullName           string   `json:"fullName"`
	RecommendationText string   `json:"recommendationText"`
	Qualifications     string   `json:"qualifications,omitempty"`
}

type resumeSubject struct {
	ID         string           `json:"id"`
	Type       []string         `json:"type"`
	FullName   string           `json:"fullName"`
	Summary    string           `json:"summary,omitempty"`
	Contact    ContactInfo      `json:"contact"`
	Experience []ExperienceItem `json:"experience,omitempty"`
	Education  []EducationItem  `json:"education,omitempty"`
	Skills     []string         `json:"skills,omitempty"`
	Portfolio  []PortfolioItem  `json:"portfolio,omitempty"`
}
