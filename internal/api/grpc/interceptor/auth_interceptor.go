package interceptor

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"fieldops-backend/internal/config"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/security"
	"fieldops-backend/internal/service"
)

type claimsKey struct{}

// ClaimsFromContext returns the caller attached by the auth interceptor.
func ClaimsFromContext(ctx context.Context) *security.SessionClaims {
	claims, _ := ctx.Value(claimsKey{}).(*security.SessionClaims)
	return claims
}

type AuthInterceptor struct {
	tokenManager security.TokenManager
	validator    service.SessionValidator
}

// NewAuthInterceptor builds the interceptor. A nil validator trusts the token
// claims without re-reading the user store.
func NewAuthInterceptor(tm security.TokenManager, validator service.SessionValidator) *AuthInterceptor {
	return &AuthInterceptor{tokenManager: tm, validator: validator}
}

// Unary returns a server interceptor function to authenticate unary RPCs.
// Roles come from config.GetRPCAccess; unknown methods admit nobody.
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		access := config.GetRPCAccess(info.FullMethod)
		if access.Public() {
			return handler(ctx, req)
		}

		token, err := i.extractToken(ctx)
		if err != nil {
			return nil, err
		}

		claims, err := i.tokenManager.ValidateToken(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		if i.validator != nil {
			if err := i.validator.Validate(ctx, claims); err != nil {
				return nil, status.Error(codes.Unauthenticated, "session is no longer valid")
			}
		}

		switch security.Authorize(claims, access.Roles...) {
		case security.Unauthorized:
			return nil, status.Error(codes.Unauthenticated, "authentication required")
		case security.Forbidden:
			logger.Debug("Rejected RPC for role", "method", info.FullMethod, "userID", claims.UserID, "role", claims.Role)
			return nil, status.Error(codes.PermissionDenied, "operation not permitted for this role")
		}

		return handler(context.WithValue(ctx, claimsKey{}, claims), req)
	}
}

func (i *AuthInterceptor) extractToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	authHeader := md["authorization"]
	if len(authHeader) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization token is not provided")
	}

	token := authHeader[0]
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}

	return token, nil
}
