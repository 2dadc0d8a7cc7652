package liquidity

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// BuildInfo backs the /version operational endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	GoVersion string
}

// HealthServer implements the /ready and /alive operational endpoints over
// the standard grpc_health_v1 service, rather than hand-rolling a bespoke
// health protocol — the grpc module ships this service pre-compiled, so
// there is no .proto to author.
type HealthServer struct {
	*health.Server
	build BuildInfo
}

// NewHealthServer builds a health server reporting build as its version.
func NewHealthServer(build BuildInfo) *HealthServer {
	return &HealthServer{Server: health.NewServer(), build: build}
}

// RegisterService attaches the health service to srv.
func (h *HealthServer) RegisterService(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, h.Server)
}

// SetReady marks service as serving (or not), toggling /ready for the given
// component ("" for the overall process health used by /alive).
func (h *HealthServer) SetReady(service string, ready bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.SetServingStatus(service, status)
}

// Version returns build info for the /version endpoint.
func (h *HealthServer) Version(context.Context) BuildInfo {
	return h.build
}
