package server

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oggyb/muzz-interest/internal/logger"
)

func TestJSONCodec(t *testing.T) {
	c := JSONCodec{}
	assert.Equal(t, "json", c.Name())

	type msg struct {
		UserID string `json:"user_id"`
	}
	b, err := c.Marshal(msg{UserID: "7"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"7"}`, string(b))

	var out msg
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, "7", out.UserID)

	// protobuf messages go through protojson
	b, err = c.Marshal(&healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING})
	require.NoError(t, err)
	var hr healthpb.HealthCheckResponse
	require.NoError(t, c.Unmarshal(b, &hr))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hr.GetStatus())

	assert.Error(t, c.Unmarshal([]byte("{"), &out))
}

func TestUnaryLogging_RequestScopedLogger(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/interest.v1.InterestService/Like"}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDKey, "req-1"))

	var got *slog.Logger
	_, err := UnaryLogging(logger.Discard())(ctx, nil, info, func(ctx context.Context, _ any) (any, error) {
		got = logger.FromContext(ctx, nil)
		return nil, status.Error(codes.AlreadyExists, "action_exists")
	})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	assert.NotNil(t, got)

	assert.Equal(t, "req-1", requestID(ctx))
	assert.NotEmpty(t, requestID(context.Background()))
}

func TestUnaryRecovery(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/x/y"}
	_, err := UnaryRecovery(logger.Discard())(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestNewGRPCServer_RegistersServices(t *testing.T) {
	called := false
	s := NewGRPCServer(logger.Discard(), RegistrarFunc(func(*grpc.Server) { called = true }))
	defer s.Stop()
	assert.True(t, called)
	assert.Contains(t, s.GetServiceInfo(), healthpb.Health_ServiceDesc.ServiceName)
}
