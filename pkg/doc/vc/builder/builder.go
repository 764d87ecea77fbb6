/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package builder assembles unsigned credential documents from typed form
// input. Building is pure computation: no I/O, and with a frozen clock and
// uuid source the output is byte-deterministic. The credential id is derived
// from a content hash of the document with the id field blank, so it is
// stable for identical input.
package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/pkg/doc/verifiable"
	jsonld "github.com/piprate/json-gold/ld"
	"github.com/tidwall/sjson"

	"github.com/opencreds/credvault/pkg/doc/vc/contenthash"
)

// ErrValidation marks malformed form input. Detected before any document is
// assembled; never retried.
var ErrValidation = errors.New("invalid input")

// issuanceDateFormat is ISO-8601 with millisecond precision.
const issuanceDateFormat = "2006-01-02T15:04:05.000Z"

const (
	vcType                = "VerifiableCredential"
	openBadgeType         = "OpenBadgeCredential"
	employmentType        = "EmploymentCredential"
	volunteeringType      = "VolunteeringCredential"
	performanceReviewType = "PerformanceReviewCredential"
	recommendationType    = "RecommendationCredential"
	resumeType            = "ResumeCredential"
)

type issuerProfile struct {
	ID   string   `json:"id"`
	Type []string `json:"type"`
}

// unsignedCredential is the document shape the hash is computed over. Field
// order is load-bearing, same as the subject structs.
type unsignedCredential struct {
	Context           []interface{} `json:"@context"`
	ID                string        `json:"id"`
	Type              []string      `json:"type"`
	Issuer            issuerProfile `json:"issuer"`
	IssuanceDate      string        `json:"issuanceDate"`
	ExpirationDate    string        `json:"expirationDate"`
	CredentialSubject interface{}   `json:"credentialSubject"`
}

// Builder assembles unsigned credentials.
type Builder struct {
	documentLoader jsonld.DocumentLoader
	hasher         contenthash.Hasher
	now            func() time.Time
	newUUID        func() string
}

// Option configures the Builder.
type Option func(b *Builder)

// WithClock overrides the issuance-date clock.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithUUIDSource overrides the uuid source used for achievement entry ids.
func WithUUIDSource(newUUID func() string) Option {
	return func(b *Builder) {
		b.newUUID = newUUID
	}
}

// WithHasher overrides the identifier hasher.
func WithHasher(hasher contenthash.Hasher) Option {
	return func(b *Builder) {
		b.hasher = hasher
	}
}

// New returns a Builder backed by the given document loader.
func New(documentLoader jsonld.DocumentLoader, opts ...Option) *Builder {
	b := &Builder{
		documentLoader: documentLoader,
		hasher:         contenthash.NewSHA256Hasher(),
		now:            time.Now,
		newUUID:        uuid.NewString,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build assembles the unsigned credential for the given form. The subject id
// and the issuer id are both the supplied DID; credentials in this system
// are self-issued by their holder.
func (b *Builder) Build(issuerDID string, form Form) (*verifiable.Credential, error) {
	issued := b.now().UTC()

	if err := validateWindow(issued, form.expiration()); err != nil {
		return nil, err
	}

	var (
		contexts []interface{}
		types    []string
		subject  interface{}
	)

	switch f := form.(type) {
	case AchievementForm:
		contexts, types = achievementContexts(), []string{vcType, openBadgeType}
		subject = b.achievementSubject(issuerDID, f)
	case EmploymentForm:
		contexts, types = domainContexts(), []string{vcType, employmentType}
		subject = employmentSubject{
			ID:          issuerDID,
			Type:        []string{"EmploymentSubject"},
			FullName:    f.FullName,
			Company:     f.Company,
			Position:    f.Position,
			Description: f.Description,
			Duration:    f.Duration,
			Portfolio:   f.Portfolio,
		}
	case VolunteeringForm:
		contexts, types = domainContexts(), []string{vcType, volunteeringType}
		subject = volunteeringSubject{
			ID:           issuerDID,
			Type:         []string{"VolunteeringSubject"},
			FullName:     f.FullName,
			Organization: f.Organization,
			Role:         f.Role,
			Cause:        f.Cause,
			Description:  f.Description,
			Duration:     f.Duration,
		}
	case PerformanceReviewForm:
		contexts, types = domainContexts(), []string{vcType, performanceReviewType}
		subject = performanceReviewSubject{
			ID:            issuerDID,
			Type:          []string{"PerformanceReviewSubject"},
			FullName:      f.FullName,
			Company:       f.Company,
			Role:          f.Role,
			Reviewer:      f.Reviewer,
			ReviewComment: f.ReviewComment,
			OverallRating: f.OverallRating,
			Duration:      f.Duration,
		}
	case ResumeForm:
		contexts, types = domainContexts(), []string{vcType, resumeType}
		subject = resumeSubject{
			ID:         issuerDID,
			Type:       []string{"ResumeSubject"},
			FullName:   f.FullName,
			Summary:    f.Summary,
			Contact:    f.Contact,
			Experience: f.Experience,
			Education:  f.Education,
			Skills:     f.Skills,
			Portfolio:  f.Portfolio,
		}
	default:
		return nil, fmt.Errorf("%w: unsupported form %T", ErrValidation, form)
	}

	return b.assemble(contexts, types, issuerDID, issued, form.expiration(), subject,
		func(doc []byte) (string, error) {
			return contenthash.CredentialID(b.hasher, doc)
		})
}

// BuildRecommendation assembles a recommendation credential targeting the
// credential identified by vcID. Its id is derived from the target
// credential's id, not from its own content.
func (b *Builder) BuildRecommendation(
	issuerDID, vcID string, form RecommendationForm) (*verifiable.Credential, error) {
	issued := b.now().UTC()

	if err := validateWindow(issued, form.ExpirationDate); err != nil {
		return nil, err
	}

	if vcID == "" {
		return nil, fmt.Errorf("%w: missing target credential id", ErrValidation)
	}

	subject := recommendationSubject{
		ID:                 issuerDID,
		Type:               []string{"RecommendationSubject"},
		FullName:           form.FullName,
		RecommendationText: form.RecommendationText,
		Qualifications:     form.Qualifications,
	}

	return b.assemble(domainContexts(), []string{vcType, recommendationType},
		issuerDID, issued, form.ExpirationDate, subject,
		func([]byte) (string, error) {
			return contenthash.RecommendationID(b.hasher, vcID)
		})
}

func (b *Builder) achievementSubject(issuerDID string, f AchievementForm) achievementSubject {
	return achievementSubject{
		ID:             issuerDID,
		Type:           []string{"AchievementSubject"},
		FullName:       f.FullName,
		Portfolio:      f.Portfolio,
		EvidenceLink:   f.EvidenceLink,
		CredentialType: f.CredentialType,
		Duration:       f.Duration,
		Achievement: []achievementEntry{
			{
				ID:          "urn:uuid:" + b.newUUID(),
				Type:        []string{"Achievement"},
				Name:        f.AchievementName,
				Description: f.AchievementDescription,
				Criteria:    achievementCriteria{Narrative: f.CriteriaNarrative},
			},
		},
	}
}

func (b *Builder) assemble(
	contexts []interface{}, types []string, issuerDID string, issued time.Time,
	expirationDate string, subject interface{},
	deriveID func(doc []byte) (string, error)) (*verifiable.Credential, error) {
	doc := unsignedCredential{
		Context:           contexts,
		Type:              types,
		Issuer:            issuerProfile{ID: issuerDID, Type: []string{"Profile"}},
		IssuanceDate:      issued.Format(issuanceDateFormat),
		ExpirationDate:    expirationDate,
		CredentialSubject: subject,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal unsigned credential: %w", err)
	}

	id, err := deriveID(raw)
	if err != nil {
		return nil, fmt.Errorf("derive credential id: %w", err)
	}

	raw, err = sjson.SetBytes(raw, "id", id)
	if err != nil {
		return nil, fmt.Errorf("set credential id: %w", err)
	}

	credential, err := verifiable.ParseCredential(raw,
		verifiable.WithDisabledProofCheck(),
		verifiable.WithJSONLDDocumentLoader(b.documentLoader))
	if err != nil {
		return nil, fmt.Errorf("parse assembled credential: %w", err)
	}

	return credential, nil
}

func validateWindow(issued time.Time, expirationDate string) error {
	if expirationDate == "" {
		return fmt.Errorf("%w: missing expirationDate", ErrValidation)
	}

	expiration, err := time.Parse(time.RFC3339, expirationDate)
	if err != nil {
		return fmt.Errorf("%w: malformed expirationDate: %s", ErrValidation, expirationDate)
	}

	if issued.After(expiration) {
		return fmt.Errorf("%w: issuanceDate cannot be after expirationDate", ErrValidation)
	}

	return nil
}
