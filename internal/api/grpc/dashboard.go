package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/service"
)

// DashboardGetMetricsMethod is the full name of the back-office metrics RPC.
const DashboardGetMetricsMethod = "/fieldops.v1.Dashboard/GetMetrics"

// DashboardServer serves the metrics snapshot over gRPC. Callers are gated
// by the auth interceptor before GetMetrics runs.
type DashboardServer interface {
	GetMetrics(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var dashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: "fieldops.v1.Dashboard",
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMetrics", Handler: dashboardGetMetricsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fieldops/v1/dashboard.proto",
}

func dashboardGetMetricsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).GetMetrics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DashboardGetMetricsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).GetMetrics(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type dashboardServer struct {
	metrics service.DashboardService
}

// GetMetrics returns the same document as GET /api/dashboard/metrics.
func (d *dashboardServer) GetMetrics(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	m, err := d.metrics.Metrics(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load dashboard metrics", "error", err)
		return nil, status.Error(codes.Internal, "failed to load metrics")
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode metrics")
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Error(codes.Internal, "failed to encode metrics")
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode metrics")
	}
	return out, nil
}
