// Package grpc runs the gRPC side port: the standard grpc.health.v1.Health
// service (backed by a database ping) plus reflection for grpcurl.
//
//	srv := grpc.New(func(ctx context.Context) error { return database.Ping(db) })
//	go srv.Serve(lis)
//	defer srv.Stop()
package grpc

import (
	"context"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/metrics"
)

// Checker reports whether the service can do useful work.
type Checker func(ctx context.Context) error

const watchInterval = 5 * time.Second

func recovery(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return next(ctx, req)
}

func observe(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := next(ctx, req)
	code := status.Code(err)

	metrics.GRPCHandled.WithLabelValues(info.FullMethod, code.String()).Inc()
	metrics.GRPCDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"code", code.String(),
		"duration", time.Since(start).String(),
	)
	return resp, err
}

type health struct {
	grpc_health_v1.UnimplementedHealthServer
	check Checker
}

func (h *health) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.check(ctx); err != nil {
		logger.Warn("grpc: health check failing", "error", err)
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (h *health) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if req.GetService() != "" && req.GetService() != grpc_health_v1.Health_ServiceDesc.ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
	return &grpc_health_v1.HealthCheckResponse{Status: h.status(ctx)}, nil
}

// Watch sends the status now and again whenever it changes.
func (h *health) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	ctx := stream.Context()
	last := grpc_health_v1.HealthCheckResponse_UNKNOWN

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		if cur := h.status(ctx); cur != last {
			if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: cur}); err != nil {
				return err
			}
			last = cur
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Server is the gRPC side port.
type Server struct {
	srv *grpc.Server
}

func New(check Checker) *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recovery, observe),
		grpc.MaxRecvMsgSize(1<<20),
	)
	grpc_health_v1.RegisterHealthServer(srv, &health{check: check})
	reflection.Register(srv)
	return &Server{srv: srv}
}

// Serve blocks until Stop is called or lis fails.
func (s *Server) Serve(lis net.Listener) error {
	logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.srv.Serve(lis)
}

// Stop waits for in-flight RPCs, then closes listeners.
func (s *Server) Stop() {
	s.srv.GracefulStop()
}
