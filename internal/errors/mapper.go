// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-interest/internal/model"
	"github.com/oggyb/muzz-interest/internal/swipe"
)

// Domain is the ErrorInfo domain attached to engine outcomes.
const Domain = "interest.v1"

var codeFor = map[swipe.Code]codes.Code{
	swipe.CodeInvalidUsers:      codes.InvalidArgument,
	swipe.CodeInvalidAction:     codes.InvalidArgument,
	swipe.CodeInvalidTarget:     codes.InvalidArgument,
	swipe.CodeRateLimitMinute:   codes.ResourceExhausted,
	swipe.CodeDailyLikes:        codes.ResourceExhausted,
	swipe.CodeDailySuperLikes:   codes.ResourceExhausted,
	swipe.CodeActionExists:      codes.AlreadyExists,
	swipe.CodeNoActionToUndo:    codes.FailedPrecondition,
	swipe.CodeUndoExpired:       codes.FailedPrecondition,
	swipe.CodePersistenceFailed: codes.Unavailable,
}

// Map converts engine/repo/infra errors into gRPC-friendly status errors.
// Engine outcomes carry an ErrorInfo detail whose Reason is the swipe code.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")
	}

	if c := swipe.CodeOf(err); c != "" {
		grpcCode, ok := codeFor[c]
		if !ok {
			grpcCode = codes.Unknown
		}
		msg := string(c)
		if c == swipe.CodePersistenceFailed {
			// cause stays in the server log
			msg = "storage unavailable"
		}
		return withReason(grpcCode, msg, string(c))
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "record not found")

	default:
		// fallback → bubble up error message for debugging
		return status.Error(codes.Internal, err.Error())
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

// Reason returns the ErrorInfo reason carried by a status error, or "".
func Reason(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}

func withReason(c codes.Code, msg, reason string) error {
	st := status.New(c, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: Domain})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
