package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fieldops-backend/internal/logger"
)

// Logging records every unary call with its gRPC status code.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Request("grpc", "unary", info.FullMethod, int(status.Code(err)), time.Since(start))
		return resp, err
	}
}

// Recovery converts handler panics into codes.Internal.
func Recovery() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Panic in gRPC handler", "method", info.FullMethod, "panic", p)
				err = status.Error(codes.Internal, "operation failed, please retry")
			}
		}()
		return handler(ctx, req)
	}
}
