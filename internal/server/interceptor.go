package server

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oggyb/muzz-interest/internal/logger"
)

// RequestIDKey is the metadata key carrying the request id both ways.
const RequestIDKey = "x-request-id"

// UnaryLogging tags each call with a request id, puts a request-scoped
// logger on the context and logs the outcome.
func UnaryLogging(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqID := requestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, reqID))

		l := log.With("request_id", reqID, "method", info.FullMethod)
		ctx = logger.WithContext(ctx, l)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		attrs := []any{"code", code.String(), "duration_ms", time.Since(start).Milliseconds()}
		switch code {
		case codes.OK:
			l.Debug("grpc call", attrs...)
		case codes.Internal, codes.Unavailable, codes.Unknown, codes.DataLoss:
			l.Error("grpc call failed", append(attrs, "err", err)...)
		default:
			l.Info("grpc call rejected", append(attrs, "err", err)...)
		}
		return resp, err
	}
}

// UnaryRecovery turns handler panics into Internal errors.
func UnaryRecovery(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in grpc handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}
