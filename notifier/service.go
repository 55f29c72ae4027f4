// Package notifier assembles the marketplace notifier service: the event
// pipeline plus the token registration API.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-marketplace-notifier/internal/api"
	"github.com/tinywideclouds/go-marketplace-notifier/internal/notify"
	"github.com/tinywideclouds/go-marketplace-notifier/internal/pipeline"
	"github.com/tinywideclouds/go-marketplace-notifier/notifier/config"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
	"github.com/tinywideclouds/go-microservice-base/pkg/microservice"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"
)

type Service struct {
	*microservice.BaseServer
	pipelineService *messagepipeline.StreamingService[marketplace.DocumentEvent]
	logger          *slog.Logger
}

// New assembles the service from its injected collaborators.
func New(
	cfg *config.Config,
	consumer messagepipeline.MessageConsumer,
	pushDispatcher dispatch.Dispatcher,
	profiles dispatch.ProfileStore,
	history dispatch.NotificationLog,
	authMiddleware func(http.Handler) http.Handler,
	logger *slog.Logger,
) (*Service, error) {

	// 1. Base Server
	baseServer := microservice.NewBaseServer(logger, cfg.ListenAddr)

	// 2. Handlers + Processor
	notifier := notify.NewNotifier(profiles, pushDispatcher, history, logger)
	processor := pipeline.NewProcessor(notifier, logger)

	// 3. Pipeline
	streamingService, err := messagepipeline.NewStreamingService[marketplace.DocumentEvent](
		messagepipeline.StreamingServiceConfig{NumWorkers: cfg.NumPipelineWorkers},
		consumer,
		pipeline.DocumentEventTransformer,
		processor,
		slog.New(slog.DiscardHandler),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create streaming service: %w", err)
	}

	// 4. API (Token Registration)
	tokenAPI := api.NewTokenAPI(profiles, logger)

	// Register Routes
	mux := baseServer.Mux()

	corsMiddleware := middleware.NewCorsMiddleware(cfg.CorsConfig, logger)

	// OPTIONS
	mux.Handle("OPTIONS /tokens", corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	// PUT + DELETE /tokens (Protected)
	mux.Handle("PUT /tokens", corsMiddleware(authMiddleware(http.HandlerFunc(tokenAPI.RegisterToken))))
	mux.Handle("DELETE /tokens", corsMiddleware(authMiddleware(http.HandlerFunc(tokenAPI.UnregisterToken))))

	return &Service{
		BaseServer:      baseServer,
		pipelineService: streamingService,
		logger:          logger,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Core processing pipeline starting...")
	if err := s.pipelineService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start processing service: %w", err)
	}
	s.SetReady(true)
	s.logger.Info("Service is now ready.")
	return s.BaseServer.Start()
}

func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down service components...")
	var finalErr error
	if err := s.pipelineService.Stop(ctx); err != nil {
		s.logger.Error("Processing pipeline shutdown failed.", "err", err)
		finalErr = err
	}
	if err := s.BaseServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown failed.", "err", err)
		finalErr = err
	}
	s.logger.Info("Service shutdown complete.")
	return finalErr
}
