package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/reflection"

	_ "github.com/tair/user-favorites/docs"
	"github.com/tair/user-favorites/internal/user"
	grpcDelivery "github.com/tair/user-favorites/internal/user/delivery/grpc"
	httpDelivery "github.com/tair/user-favorites/internal/user/delivery/http"
	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/kafka"
	"github.com/tair/user-favorites/pkg/auth"
	"github.com/tair/user-favorites/pkg/config"
	"github.com/tair/user-favorites/pkg/logger"
	"github.com/tair/user-favorites/pkg/tracing"
)

const serviceVersion = "1.0.0"

type serveOptions struct {
	*rootOptions
	migrate bool
}

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.rootOptions)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "apply migrations before serving")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, opts *serveOptions) error {
	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: serviceVersion,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shut down tracer")
		}
	}()

	s, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if opts.migrate {
		if err := s.migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	publisher := newPublisher(cfg)
	if closer, ok := publisher.(*kafka.Publisher); ok {
		defer closer.Close()
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	policy := domain.DeletePolicy(cfg.Users.DeletePolicy)
	registry := prometheus.DefaultRegisterer

	httpServer := newHTTPServer(cfg, s, tokens, publisher, policy, registry)

	grpcServer, healthServer := grpcDelivery.NewServer(
		user.InitializeGRPCServer(s.users, s.favorites, s.tx, tokens, publisher, policy),
		tokens,
		grpcDelivery.NewMetrics(registry),
	)
	reflection.Register(grpcServer)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Logger.Info().
			Str("port", cfg.HTTP.Port).
			Msg("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
		if err != nil {
			return fmt.Errorf("failed to listen on port %s: %w", cfg.GRPC.Port, err)
		}
		logger.Logger.Info().
			Str("port", cfg.GRPC.Port).
			Msg("gRPC server starting")
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info().Msg("Shutting down servers")

		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		}
		grpcServer.GracefulStop()
		return nil
	})

	return g.Wait()
}

func newHTTPServer(
	cfg *config.Config,
	s *stores,
	tokens *auth.TokenManager,
	publisher domain.EventPublisher,
	policy domain.DeletePolicy,
	registry prometheus.Registerer,
) *http.Server {
	var limiter *httpDelivery.RateLimiter
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = httpDelivery.NewRateLimiter(client, cfg.Redis.RateLimit, cfg.Redis.Window)
	}

	router := mux.NewRouter()
	httpDelivery.RegisterMiddlewares(router, limiter)

	handler := user.InitializeHTTPHandler(s.users, s.favorites, s.tx, tokens, publisher, policy, registry)
	handler.RegisterRoutes(router)

	httpDelivery.RegisterHealthCheck(router, s.ping)
	router.Handle("/metrics", promhttp.Handler())
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newPublisher returns a Kafka publisher when brokers are configured. A
// broker that cannot be reached at startup disables publishing.
func newPublisher(cfg *config.Config) domain.EventPublisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return domain.NopPublisher{}
	}

	publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Strs("brokers", cfg.Kafka.Brokers).
			Msg("Kafka unavailable, events will not be published")
		return domain.NopPublisher{}
	}
	return publisher
}
