/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package prometheus provides a Prometheus-backed metrics provider.
package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/opencreds/credvault/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

type promProvider struct {
	httpServer *http.Server
}

// NewPrometheusProvider creates new instance of Prometheus Metrics Provider.
func NewPrometheusProvider(httpServer *http.Server) metrics.Provider {
	return &promProvider{httpServer: httpServer}
}

// Create creates/initializes the prometheus metrics provider.
func (pp *promProvider) Create() error {
	if pp.httpServer == nil {
		return nil
	}

	if err := pp.httpServer.ListenAndServe(); err != nil {
		return fmt.Errorf("start metrics HTTP server: %w", err)
	}

	return nil
}

// Metrics returns supported metrics.
func (pp *promProvider) Metrics() metrics.Metrics {
	return GetMetrics()
}

// Destroy destroys the prometheus metrics provider.
func (pp *promProvider) Destroy() error {
	if pp.httpServer != nil {
		return pp.httpServer.Shutdown(context.Background())
	}

	return nil
}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics()
	})

	return instance
}

// PromMetrics manages the credvault metrics.
type PromMetrics struct {
	credentialsIssued    *prometheus.CounterVec
	recommendations      prometheus.Counter
	presentationsCreated prometheus.Counter
	signTime             prometheus.Histogram
}

// NewMetrics creates instance of prometheus metrics.
func NewMetrics() metrics.Metrics {
	pm := &PromMetrics{
		credentialsIssued:    newCredentialsIssued(),
		recommendations:      newRecommendations(),
		presentationsCreated: newPresentationsCreated(),
		signTime:             newSignTime(),
	}

	registerMetrics(pm)

	return pm
}

// CredentialIssued counts issued credentials by kind.
func (pm *PromMetrics) CredentialIssued(kind string) {
	pm.credentialsIssued.WithLabelValues(kind).Inc()
}

// RecommendationIssued counts issued recommendations.
func (pm *PromMetrics) RecommendationIssued() {
	pm.recommendations.Inc()
}

// PresentationCreated counts created presentations.
func (pm *PromMetrics) PresentationCreated() {
	pm.presentationsCreated.Inc()
}

// SignTime records the time for sign.
func (pm *PromMetrics) SignTime(value time.Duration) {
	pm.signTime.Observe(value.Seconds())

	logger.Debug("crypto sign time", log.WithDuration(value))
}

func registerMetrics(pm *PromMetrics) {
	prometheus.MustRegister(
		pm.credentialsIssued, pm.recommendations, pm.presentationsCreated, pm.signTime,
	)
}

func newCredentialsIssued() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.Service,
		Name:      metrics.ServiceCredentialsIssuedMetric,
		Help:      "The total number of issued credentials.",
	}, []string{"kind"})
}

func newRecommendations() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.Service,
		Name:      metrics.ServiceRecommendationsMetric,
		Help:      "The total number of issued recommendations.",
	})
}

func newPresentationsCreated() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.Service,
		Name:      metrics.ServicePresentationsCreatedMetric,
		Help:      "The total number of created presentations.",
	})
}

func newSignTime() prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.Crypto,
		Name:      metrics.CryptoSignTimeMetric,
		Help:      "The time (in seconds) it takes to run crypto sign.",
	})
}
