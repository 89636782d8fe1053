package app

import (
	"context"
	"net"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const healthCheckTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer answers grpc.health.v1 probes for orchestrators that speak
// gRPC. It is SERVING while the store answers a ping.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	store pinger
}

func NewHealthServer(store pinger) *HealthServer {
	return &HealthServer{store: store}
}

func (s *HealthServer) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Warn("gRPC health check: store unreachable")
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (s *HealthServer) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: s.status(ctx)}, nil
}

func (s *HealthServer) Watch(_ *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: s.status(stream.Context())})
}

// ServeGRPC blocks serving the health service on port until ctx is done.
func ServeGRPC(ctx context.Context, port string, store pinger) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	server := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(server, NewHealthServer(store))

	go func() {
		<-ctx.Done()
		server.GracefulStop()
	}()

	utils.Logger.Infof("gRPC health server listening on :%s", port)
	if err := server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}
