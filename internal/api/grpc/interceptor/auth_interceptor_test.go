package interceptor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/security"
)

type stubValidator struct {
	err error
}

func (v stubValidator) Validate(context.Context, *security.SessionClaims) error {
	return v.err
}

func newTokenManager() security.TokenManager {
	return security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour, clock.Real(time.UTC))
}

func withToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
}

func TestAuthInterceptor(t *testing.T) {
	tm := newTokenManager()
	token, err := tm.GenerateSessionToken("admin-1", domain.RoleAdmin)
	require.NoError(t, err)
	techToken, err := tm.GenerateSessionToken("tech-1", domain.RoleTechnician)
	require.NoError(t, err)

	var seen *security.SessionClaims
	handler := func(ctx context.Context, req any) (any, error) {
		seen = ClaimsFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/fieldops.v1.Dashboard/GetMetrics"}

	t.Run("PublicHealth", func(t *testing.T) {
		seen = nil
		i := NewAuthInterceptor(tm, nil)
		resp, err := i.Unary()(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Nil(t, seen)
	})

	t.Run("MissingToken", func(t *testing.T) {
		i := NewAuthInterceptor(tm, nil)
		_, err := i.Unary()(context.Background(), nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("InvalidToken", func(t *testing.T) {
		i := NewAuthInterceptor(tm, nil)
		_, err := i.Unary()(withToken("garbage"), nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("ValidToken", func(t *testing.T) {
		seen = nil
		i := NewAuthInterceptor(tm, nil)
		_, err := i.Unary()(withToken(token), nil, info, handler)
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Equal(t, "admin-1", seen.UserID)
		assert.Equal(t, domain.RoleAdmin, seen.Role)
	})

	t.Run("WrongRole", func(t *testing.T) {
		seen = nil
		i := NewAuthInterceptor(tm, nil)
		_, err := i.Unary()(withToken(techToken), nil, info, handler)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
		assert.Nil(t, seen)
	})

	t.Run("UnknownMethodAdmitsNobody", func(t *testing.T) {
		i := NewAuthInterceptor(tm, nil)
		_, err := i.Unary()(withToken(token), nil, &grpc.UnaryServerInfo{FullMethod: "/fieldops.v1.Unknown/Call"}, handler)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("RevalidationFails", func(t *testing.T) {
		i := NewAuthInterceptor(tm, stubValidator{err: errors.New("role changed")})
		_, err := i.Unary()(withToken(token), nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}

func TestRecovery(t *testing.T) {
	_, err := Recovery()(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, func(context.Context, any) (any, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}
