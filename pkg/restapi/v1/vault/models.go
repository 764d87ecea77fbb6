/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vault

import (
	"encoding/json"
	"fmt"

	"github.com/opencreds/credvault/pkg/doc/vc/builder"
)

// CredentialFormModel is the superset of form fields accepted on issuance.
// Which fields are read depends on the requested kind.
type CredentialFormModel struct {
	FullName       string                  `json:"fullName"`
	ExpirationDate string                  `json:"expirationDate"`
	Portfolio      []builder.PortfolioItem `json:"portfolio,omitempty"`
	Duration       string                  `json:"duration,omitempty"`
	Description    string                  `json:"description,omitempty"`

	AchievementName        string `json:"achievementName,omitempty"`
	AchievementDescription string `json:"achievementDescription,omitempty"`
	CriteriaNarrative      string `json:"criteriaNarrative,omitempty"`
	EvidenceLink           string `json:"evidenceLink,omitempty"`
	CredentialType         string `json:"credentialType,omitempty"`

	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`

	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
	Cause        string `json:"cause,omitempty"`

	Reviewer      string `json:"reviewer,omitempty"`
	ReviewComment string `json:"reviewComment,omitempty"`
	OverallRating string `json:"overallRating,omitempty"`

	Summary    string                   `json:"summary,omitempty"`
	Contact    builder.ContactInfo      `json:"contact,omitempty"`
	Experience []builder.ExperienceItem `json:"experience,omitempty"`
	Education  []builder.EducationItem  `json:"education,omitempty"`
	Skills     []string                 `json:"skills,omitempty"`
}

// IssueCredentialRequest is the body of POST /v1/credentials.
type IssueCredentialRequest struct {
	Kind string              `json:"kind"`
	Form CredentialFormModel `json:"form"`
}

// IssueRecommendationRequest is the body of
// POST /v1/credentials/{fileId}/recommendations.
type IssueRecommendationRequest struct {
	FullName           string `json:"fullName"`
	ExpirationDate     string `json:"expirationDate"`
	RecommendationText string `json:"recommendationText"`
	Qualifications     string `json:"qualifications,omitempty"`
}

// CreatePresentationRequest is the body of POST /v1/presentations.
type CreatePresentationRequest struct {
	Credentials []json.RawMessage `json:"credentials"`
	Challenge   string            `json:"challenge,omitempty"`
	Domain      string            `json:"domain,omitempty"`
}

// SaveMediaRequest is the body of POST /v1/media. Data is base64-encoded.
type SaveMediaRequest struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// IssuedCredentialResponse is returned by the issuance endpoints.
type IssuedCredentialResponse struct {
	Credential      json.RawMessage `json:"credential"`
	KeyID           string          `json:"keyId"`
	FolderID        string          `json:"folderId"`
	FileID          string          `json:"fileId"`
	RelationsFileID string          `json:"relationsFileId"`
}

// CreatePresentationResponse is returned by POST /v1/presentations.
type CreatePresentationResponse struct {
	Presentation json.RawMessage `json:"presentation"`
}

// SaveMediaResponse is returned by POST /v1/media.
type SaveMediaResponse struct {
	FileID string `json:"fileId"`
}

// ListFileIDsResponse is returned by GET /v1/files.
type ListFileIDsResponse struct {
	FileIDs []string `json:"fileIds"`
}

// toForm maps the superset model onto the typed form for the given kind.
func (m *CredentialFormModel) toForm(kind builder.Kind) (builder.Form, error) {
	switch kind {
	case builder.KindAchievement:
		return builder.AchievementForm{
			FullName:               m.FullName,
			ExpirationDate:         m.ExpirationDate,
			Portfolio:              m.Portfolio,
			AchievementName:        m.AchievementName,
			AchievementDescription: m.AchievementDescription,
			CriteriaNarrative:      m.CriteriaNarrative,
			EvidenceLink:           m.EvidenceLink,
			Duration:               m.Duration,
			CredentialType:         m.CredentialType,
		}, nil
	case builder.KindEmployment:
		return builder.EmploymentForm{
			FullName:       m.FullName,
			ExpirationDate: m.ExpirationDate,
			Company:        m.Company,
			Position:       m.Position,
			Description:    m.Description,
			Duration:       m.Duration,
			Portfolio:      m.Portfolio,
		}, nil
	case builder.KindVolunteering:
		return builder.VolunteeringForm{
			FullName:       m.FullName,
			ExpirationDate: m.ExpirationDate,
			Organization:   m.Organization,
			Role:           m.Role,
			Cause:          m.Cause,
			Description:    m.Description,
			Duration:       m.Duration,
		}, nil
	case builder.KindPerformanceReview:
		return builder.PerformanceReviewForm{
			FullName:       m.FullName,
			ExpirationDate: m.ExpirationDate,
			Company:        m.Company,
			Role:           m.Role,
			Reviewer:       m.Reviewer,
			ReviewComment:  m.ReviewComment,
			OverallRating:  m.OverallRating,
			Duration:       m.Duration,
		}, nil
	case builder.KindResume:
		return builder.ResumeForm{
			FullName:       m.FullName,
			ExpirationDate: m.ExpirationDate,
			Summary:        m.Summary,
			Contact:        m.Contact,
			Experience:     m.Experience,
			Education:      m.Education,
			Skills:         m.Skills,
			Portfolio:      m.Portfolio,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported credential kind %q", kind)
	}
}
