package interest

import (
	"google.golang.org/grpc"

	"github.com/oggyb/muzz-interest/internal/app"
)

// Registrar ties the Interest service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Interest service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Interest service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	s.RegisterService(&ServiceDesc, NewInterestService(r.appCtx))
}
