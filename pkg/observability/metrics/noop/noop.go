/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package noop provides a no-op metrics provider.
package noop

import (
	"time"

	"github.com/opencreds/credvault/pkg/observability/metrics"
)

// NewMetrics returns a metrics implementation that discards everything.
func NewMetrics() metrics.Metrics {
	return &noopMetrics{}
}

type noopMetrics struct{}

func (m *noopMetrics) CredentialIssued(string) {}

func (m *noopMetrics) RecommendationIssued() {}

func (m *noopMetrics) PresentationCreated() {}

func (m *noopMetrics) SignTime(time.Duration) {}
