package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/muzz-interest/internal/config"
)

// NewGRPCServer builds a server with logging/recovery interceptors, the
// health service, reflection and all provided services.
func NewGRPCServer(log *slog.Logger, registrars ...Registrar) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryRecovery(log), UnaryLogging(log)),
	)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	for name := range grpcServer.GetServiceInfo() {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)
	return grpcServer
}

// StartGRPCServer boots a gRPC server and registers all provided services.
// It stops gracefully when ctx is cancelled.
func StartGRPCServer(ctx context.Context, cfg *config.Config, log *slog.Logger, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	grpcServer := NewGRPCServer(log, registrars...)
	log.Info("starting gRPC server", "addr", addr)

	go func() {
		<-ctx.Done()
		log.Info("stopping gRPC server")
		grpcServer.GracefulStop()
	}()

	return grpcServer.Serve(lis)
}
