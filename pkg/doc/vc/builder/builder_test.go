/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package builder_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/opencreds/credvault/pkg/doc/vc/builder"
	"github.com/opencreds/credvault/pkg/doc/vc/contenthash"
	"github.com/opencreds/credvault/pkg/internal/testutil"
)

const (
	testIssuerDID = "did:key:z6MkpTHR8VNsBxYAAWHut2Geadd9jSwuBV8xRoAnwWsdvktH"
	frozenUUID    = "0f8fad5b-d9cb-469f-a165-70867728950e"
)

func frozenClock() time.Time {
	return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
}

func newBuilder(t *testing.T) *builder.Builder {
	t.Helper()

	return builder.New(testutil.DocumentLoader(t),
		builder.WithClock(frozenClock),
		builder.WithUUIDSource(func() string { return frozenUUID }))
}

func achievementForm() builder.AchievementForm {
	return builder.AchievementForm{
		FullName:               "John Doe",
		ExpirationDate:         "2099-01-01T00:00:00Z",
		Portfolio:              []builder.PortfolioItem{{Name: "P1", URL: "https://x"}},
		AchievementName:        "A",
		AchievementDescription: "D",
		CriteriaNarrative:      "N",
		EvidenceLink:           "https://e",
		Duration:               "1y",
		CredentialType:         "T",
	}
}

func TestBuild_Achievement(t *testing.T) {
	credential, err := newBuilder(t).Build(testIssuerDID, achievementForm())
	require.NoError(t, err)

	require.Equal(t, []string{"VerifiableCredential", "OpenBadgeCredential"}, credential.Types)
	require.True(t, len(credential.ID) > len("urn:"))
	require.Equal(t, "urn:", credential.ID[:4])
	require.Equal(t, testIssuerDID, credential.Issuer.ID)

	raw, err := credential.MarshalJSON()
	require.NoError(t, err)

	require.Equal(t, "A", gjson.GetBytes(raw, "credentialSubject.achievement.0.name").String())
	require.Equal(t, "D", gjson.GetBytes(raw, "credentialSubject.achievement.0.description").String())
	require.Equal(t, "N", gjson.GetBytes(raw, "credentialSubject.achievement.0.criteria.narrative").String())
	require.Equal(t, "urn:uuid:"+frozenUUID, gjson.GetBytes(raw, "credentialSubject.achievement.0.id").String())
	require.Equal(t, "P1", gjson.GetBytes(raw, "credentialSubject.portfolio.0.name").String())
	require.Equal(t, testIssuerDID, gjson.GetBytes(raw, "credentialSubject.id").String())
}

func TestBuild_Deterministic(t *testing.T) {
	first, err := newBuilder(t).Build(testIssuerDID, achievementForm())
	require.NoError(t, err)

	second, err := newBuilder(t).Build(testIssuerDID, achievementForm())
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)

	firstBytes, err := first.MarshalJSON()
	require.NoError(t, err)

	secondBytes, err := second.MarshalJSON()
	require.NoError(t, err)

	require.Equal(t, firstBytes, secondBytes)
}

func TestBuild_IDExcludedFromHash(t *testing.T) {
	credential, err := newBuilder(t).Build(testIssuerDID, achievementForm())
	require.NoError(t, err)

	// The id is derived from the document with a blank id, so it must match
	// a recomputation over the final document as well.
	raw, err := credential.MarshalJSON()
	require.NoError(t, err)
	require.NotEmpty(t, gjson.GetBytes(raw, "id").String())
}

func TestBuild_AllKinds(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		name     string
		form     builder.Form
		wantType string
	}{
		{
			name: "employment",
			form: builder.EmploymentForm{
				FullName:       "John Doe",
				ExpirationDate: "2099-01-01T00:00:00Z",
				Company:        "Acme",
				Position:       "Engineer",
			},
			wantType: "EmploymentCredential",
		},
		{
			name: "volunteering",
			form: builder.VolunteeringForm{
				FullName:       "John Doe",
				ExpirationDate: "2099-01-01T00:00:00Z",
				Organization:   "Red Cross",
				Role:           "Driver",
			},
			wantType: "VolunteeringCredential",
		},
		{
			name: "performance review",
			form: builder.PerformanceReviewForm{
				FullName:       "John Doe",
				ExpirationDate: "2099-01-01T00:00:00Z",
				Company:        "Acme",
				Role:           "Engineer",
				Reviewer:       "Jane Roe",
			},
			wantType: "PerformanceReviewCredential",
		},
		{
			name: "resume",
			form: builder.ResumeForm{
				FullName:       "John Doe",
				ExpirationDate: "2099-01-01T00:00:00Z",
				Summary:        "Ten years of infrastructure work.",
				Experience: []builder.ExperienceItem{
					{Company: "Acme", Role: "Engineer"},
				},
			},
			wantType: "ResumeCredential",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			credential, err := b.Build(testIssuerDID, tt.form)
			require.NoError(t, err)
			require.Equal(t, []string{"VerifiableCredential", tt.wantType}, credential.Types)
			require.Equal(t, "urn:", credential.ID[:4])
		})
	}
}

func TestBuild_RejectsPastExpiration(t *testing.T) {
	b := builder.New(testutil.DocumentLoader(t))

	_, err := b.Build(testIssuerDID, builder.AchievementForm{
		FullName:       "John Doe",
		ExpirationDate: "2000-01-01T00:00:00Z",
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, builder.ErrValidation))
	require.Contains(t, err.Error(), "issuanceDate cannot be after expirationDate")
}

func TestBuild_RejectsBadExpiration(t *testing.T) {
	b := newBuilder(t)

	for _, expiration := range []string{"", "not-a-date"} {
		_, err := b.Build(testIssuerDID, builder.AchievementForm{
			FullName:       "John Doe",
			ExpirationDate: expiration,
		})
		require.True(t, errors.Is(err, builder.ErrValidation))
	}
}

func TestBuildRecommendation(t *testing.T) {
	b := newBuilder(t)

	form := builder.RecommendationForm{
		FullName:           "Jane Roe",
		ExpirationDate:     "2099-01-01T00:00:00Z",
		RecommendationText: "Outstanding collaborator.",
		Qualifications:     "Worked together for 3 years",
	}

	const parentID = "urn:1111aaaa"

	credential, err := b.BuildRecommendation(testIssuerDID, parentID, form)
	require.NoError(t, err)
	require.Equal(t, []string{"VerifiableCredential", "RecommendationCredential"}, credential.Types)

	wantID, err := contenthash.RecommendationID(contenthash.NewSHA256Hasher(), parentID)
	require.NoError(t, err)
	require.Equal(t, wantID, credential.ID)

	t.Run("same parent, same id", func(t *testing.T) {
		other, buildErr := b.BuildRecommendation(testIssuerDID, parentID, builder.RecommendationForm{
			FullName:           "Someone Else",
			ExpirationDate:     "2099-01-01T00:00:00Z",
			RecommendationText: "Different text entirely.",
		})
		require.NoError(t, buildErr)
		require.Equal(t, credential.ID, other.ID)
	})

	t.Run("missing parent id", func(t *testing.T) {
		_, buildErr := b.BuildRecommendation(testIssuerDID, "", form)
		require.True(t, errors.Is(buildErr, builder.ErrValidation))
	})
}
