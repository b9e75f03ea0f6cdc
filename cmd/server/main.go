package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"reviewdesk/config"
	"reviewdesk/internal/delivery"
	"reviewdesk/internal/delivery/api"
	"reviewdesk/internal/delivery/api/middleware"
	"reviewdesk/internal/delivery/api/router/handler"
	"reviewdesk/internal/domain/service"
	"reviewdesk/internal/infra/auth"
	"reviewdesk/internal/infra/auth/google"
	"reviewdesk/internal/infra/crypto"
	"reviewdesk/internal/infra/gbp"
	logs "reviewdesk/internal/infra/log"
	"reviewdesk/internal/infra/metrics"
	"reviewdesk/internal/infra/persistence/postgres"
	"reviewdesk/internal/infra/pubsub"
	"reviewdesk/internal/infra/session"
	"reviewdesk/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		metrics.New,
		newMetricsRecorder,
		fx.Annotate(
			newMetricsHandler,
			fx.ResultTags(`name:"metrics"`),
		),
		pubsub.NewEventPublisher,
	)
}

// newMetricsRecorder exposes the Prometheus collectors to the services.
func newMetricsRecorder(m *metrics.Metrics) service.MetricsRecorder {
	return m
}

func newMetricsHandler(m *metrics.Metrics) http.Handler {
	return m.Handler()
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTenantRepository,
			postgres.NewReviewRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			crypto.NewTokenCipher,
			google.NewOAuthService,
			gbp.NewClient,
			session.NewOAuthStateStore,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewTokenAccessor,
			impl.NewConnectionService,
			impl.NewReviewService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewGoogleHandler,
			handler.NewReviewHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
