package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"fieldops-backend/internal/api/grpc/interceptor"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/security"
	"fieldops-backend/internal/service"
)

// ServiceName is reported through the health service alongside "".
const ServiceName = "fieldops.v1"

type Server struct {
	*grpc.Server
	health *health.Server
}

// NewServer builds the gRPC server with health, reflection and the dashboard
// service registered.
func NewServer(tm security.TokenManager, validator service.SessionValidator, dashboard service.DashboardService) *Server {
	auth := interceptor.NewAuthInterceptor(tm, validator)
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptor.Recovery(),
		interceptor.Logging(),
		auth.Unary(),
	))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	gs.RegisterService(&dashboardServiceDesc, &dashboardServer{metrics: dashboard})
	reflection.Register(gs)

	return &Server{Server: gs, health: hs}
}

// SetServing flips the reported status of both the overall server and
// ServiceName.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// MonitorHealth pings the backing store every interval and mirrors the result
// into the health service until ctx is done.
func (s *Server) MonitorHealth(ctx context.Context, ping func(context.Context) error, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval/2)
		defer cancel()
		err := ping(pingCtx)
		if err != nil {
			logger.Warn("Health check failed", "error", err)
		}
		s.SetServing(err == nil)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			check()
		}
	}
}
