package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/pkg/auth"
	"github.com/tair/user-favorites/pkg/logger"
)

// Metrics holds the gRPC Prometheus collectors
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the gRPC collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"method", "status_code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "user_service_grpc_request_duration_seconds",
				Help:    "Duration of gRPC requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Interceptor collects Prometheus metrics for gRPC calls
func (m *Metrics) Interceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	m.requests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	m.duration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())

	return resp, err
}

// LoggingInterceptor logs gRPC requests with structured logging
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	duration := time.Since(start)
	code := status.Code(err)

	var event *zerolog.Event
	switch code {
	case codes.OK:
		event = logger.Info(ctx)
	case codes.Internal, codes.Unavailable, codes.DeadlineExceeded, codes.Unknown:
		event = logger.Error(ctx).Err(err)
	default:
		event = logger.Warn(ctx).Err(err)
	}

	event.
		Str("method", info.FullMethod).
		Str("protocol", "grpc").
		Str("grpc_status", code.String()).
		Dur("duration", duration).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("gRPC request completed")

	return resp, err
}

// publicMethods are served without a token
var publicMethods = map[string]bool{
	MethodGetUser: true,
}

// AuthInterceptor validates bearer tokens and puts the caller identity in
// the context. Ownership and roles are checked by the use cases.
func AuthInterceptor(tokens *auth.TokenManager) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if publicMethods[info.FullMethod] || strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "metadata not provided")
		}

		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization token not provided")
		}

		token := strings.TrimPrefix(values[0], "Bearer ")
		claims, err := tokens.ValidateToken(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		ctx = domain.WithIdentity(ctx, domain.Identity{
			UserID:   claims.UserID,
			UserName: claims.UserName,
			Role:     claims.Role,
		})

		return handler(ctx, req)
	}
}

// NewServer builds a gRPC server with tracing, logging, metrics and auth,
// and registers the favorites and health services on it.
func NewServer(favorites FavoriteServiceServer, tokens *auth.TokenManager, metrics *Metrics) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor,
			metrics.Interceptor,
			AuthInterceptor(tokens),
		),
	)

	RegisterFavoriteServiceServer(server, favorites)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	return server, healthServer
}
