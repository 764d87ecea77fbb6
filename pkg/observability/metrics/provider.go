/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
)

// Logger used by the metrics providers.
var Logger = log.New("metrics-provider")

// Constants used by the metrics providers.
const (
	// Namespace Organization namespace.
	Namespace = "credvault"

	// Crypto plain crypto operations.
	Crypto               = "crypto"
	CryptoSignTimeMetric = "crypto_sign_seconds"

	// Service operations.
	Service                           = "service"
	ServiceCredentialsIssuedMetric    = "service_credentials_issued_total"
	ServiceRecommendationsMetric      = "service_recommendations_issued_total"
	ServicePresentationsCreatedMetric = "service_presentations_created_total"
)

// Provider is an interface for metrics provider.
type Provider interface {
	// Create creates a metrics provider instance
	Create() error
	// Destroy destroys the metrics provider instance
	Destroy() error
	// Metrics providers metrics
	Metrics() Metrics
}

// Metrics is an interface for the metrics to be supported by the provider.
type Metrics interface {
	CredentialIssued(kind string)
	RecommendationIssued()
	PresentationCreated()
	SignTime(value time.Duration)
}
