/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
	vdrpkg "github.com/hyperledger/aries-framework-go/pkg/vdr"
	"github.com/hyperledger/aries-framework-go/pkg/vdr/key"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/opencreds/credvault/cmd/common"
	"github.com/opencreds/credvault/pkg/doc/vc/builder"
	"github.com/opencreds/credvault/pkg/doc/vc/crypto"
	"github.com/opencreds/credvault/pkg/ld"
	"github.com/opencreds/credvault/pkg/observability/metrics"
	"github.com/opencreds/credvault/pkg/observability/metrics/noop"
	"github.com/opencreds/credvault/pkg/observability/metrics/prometheus"
	"github.com/opencreds/credvault/pkg/restapi/resterr"
	"github.com/opencreds/credvault/pkg/restapi/v1/vault"
	"github.com/opencreds/credvault/pkg/service/issuecredential"
	"github.com/opencreds/credvault/pkg/service/keystore"
	"github.com/opencreds/credvault/pkg/service/presentation"
	"github.com/opencreds/credvault/pkg/service/relations"
	"github.com/opencreds/credvault/pkg/storage/blobstore"
	"github.com/opencreds/credvault/pkg/storage/blobstore/inmem"
	"github.com/opencreds/credvault/pkg/storage/mongodb"
	mongodbstore "github.com/opencreds/credvault/pkg/storage/mongodb/blobstore"
)

var logger = log.New("vault-rest")

const (
	healthCheckPath  = "/healthcheck"
	mongoPingTimeout = 3 * time.Second
	mongoConnTimeout = 10 * time.Second
)

type server interface {
	ListenAndServe(host string, handler http.Handler) error
}

// HTTPServer is the production server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server on the given host.
func (s *HTTPServer) ListenAndServe(host string, handler http.Handler) error {
	return http.ListenAndServe(host, handler) //nolint:gosec
}

// GetStartCmd returns the Cobra start command.
func GetStartCmd(srv server) *cobra.Command {
	startCmd := createStartCmd(srv)

	createFlags(startCmd)

	return startCmd
}

func createStartCmd(srv server) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start vault-rest",
		Long:  "Start the credential vault REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := getStartupParameters(cmd)
			if err != nil {
				return err
			}

			return startService(params, srv)
		},
	}
}

func startService(params *startupParameters, srv server) error {
	common.SetDefaultLogLevel(logger, params.logLevel)

	store, closeStore, err := createStore(params)
	if err != nil {
		return err
	}

	defer closeStore()

	m := noop.NewMetrics()

	if params.metricsHost != "" {
		provider := createMetricsProvider(params.metricsHost)
		m = provider.Metrics()

		go func() {
			if createErr := provider.Create(); createErr != nil &&
				!errors.Is(createErr, http.ErrServerClosed) {
				logger.Error("metrics server exited", log.WithError(createErr))
			}
		}()
	}

	handler, err := buildHandler(params, store, m)
	if err != nil {
		return err
	}

	logger.Info("starting vault-rest server", log.WithURL(params.hostURL))

	return srv.ListenAndServe(params.hostURL, handler)
}

// buildHandler wires the services into an echo handler.
func buildHandler(params *startupParameters, store blobstore.Store, m metrics.Metrics) (http.Handler, error) {
	loader, err := ld.NewDocumentLoader()
	if err != nil {
		return nil, err
	}

	taxonomy := blobstore.NewTaxonomy(blobstore.NewCachedStore(store))
	c := crypto.New(vdrpkg.New(vdrpkg.WithVDR(key.New())), loader)
	ks := keystore.New(store, taxonomy)
	rel := relations.New(store, taxonomy)

	issueSvc := issuecredential.New(&issuecredential.Config{
		Store:     store,
		Taxonomy:  taxonomy,
		Builder:   builder.New(loader),
		Crypto:    c,
		Keystore:  ks,
		Relations: rel,
		Metrics:   m,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = resterr.HTTPErrorHandler
	e.Use(middleware.Recover())

	e.GET(healthCheckPath, echo.WrapHandler(newHealthHandler(params)))

	vault.NewController(e, vault.Config{
		IssueCredentialService: issueSvc,
		PresentationService:    presentation.New(c, ks),
		RelationsService:       rel,
		Store:                  store,
		Metrics:                m,
	})

	return e, nil
}

func createStore(params *startupParameters) (blobstore.Store, func(), error) {
	if params.mongoDBURL == "" {
		logger.Warn("no mongodb-url configured, using in-memory store")

		return inmem.NewStore(), func() {}, nil
	}

	client, err := mongodb.New(params.mongoDBURL, params.mongoDBDatabase,
		mongodb.WithTimeout(mongoConnTimeout))
	if err != nil {
		return nil, nil, err
	}

	closeStore := func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("close mongodb client", log.WithError(closeErr))
		}
	}

	return mongodbstore.NewStore(client), closeStore, nil
}

func createMetricsProvider(metricsHost string) metrics.Provider {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return prometheus.NewPrometheusProvider(&http.Server{ //nolint:gosec
		Addr:    metricsHost,
		Handler: mux,
	})
}

func newHealthHandler(params *startupParameters) http.Handler {
	opts := []health.CheckerOption{
		health.WithCacheDuration(5 * time.Second), //nolint:gomnd
		health.WithTimeout(10 * time.Second),      //nolint:gomnd
	}

	if params.mongoDBURL != "" {
		opts = append(opts, health.WithCheck(health.Check{
			Name:    "mongodb",
			Timeout: mongoPingTimeout,
			Check:   mongoPing(params.mongoDBURL, params.mongoDBDatabase),
		}))
	}

	return health.NewHandler(health.NewChecker(opts...))
}

func mongoPing(mongoDBURL, databaseName string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		client, err := mongodb.New(mongoDBURL, databaseName, mongodb.WithTimeout(mongoPingTimeout))
		if err != nil {
			return err
		}

		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				logger.Warn("close mongodb health check client", log.WithError(closeErr))
			}
		}()

		return client.Ping(ctx)
	}
}
