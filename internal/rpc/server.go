package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/geode-solver/internal/batch"
	"github.com/napolitain/geode-solver/internal/config"
	"github.com/napolitain/geode-solver/internal/loader"
	"github.com/napolitain/geode-solver/internal/logging"
	"github.com/napolitain/geode-solver/internal/models"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

// Server implements OptimizerServer.
//
// Solve takes {blueprint: string, minutes?: number} and returns a summary
// {id, geodes, quality, complete, nodes, pruned, elapsedMs, schedule}.
// SolveBatch takes {blueprints: string, minutes?: number, first?: number} and
// returns {minutes, results, quality, product}. Blueprint text may also be in
// the JSON input format. A search cut short by the call deadline returns its
// best result so far with complete=false.
type Server struct {
	cfg config.Config
}

var _ OptimizerServer = (*Server)(nil)

// NewServer creates a server using cfg for defaults
func NewServer(cfg config.Config) *Server {
	return &Server{cfg: cfg}
}

// Solve implements the Solve RPC
func (s *Server) Solve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	minutes, err := s.intField(req, "minutes", s.cfg.Minutes)
	if err != nil {
		return nil, err
	}
	bps, err := s.blueprints(req, "blueprint")
	if err != nil {
		return nil, err
	}
	if len(bps) != 1 {
		return nil, status.Errorf(codes.InvalidArgument, "expected exactly one blueprint, got %d", len(bps))
	}

	results, err := s.run(ctx, bps, minutes)
	if err != nil {
		return nil, err
	}
	return toStruct(results[0].Summarize())
}

// SolveBatch implements the SolveBatch RPC
func (s *Server) SolveBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	minutes, err := s.intField(req, "minutes", s.cfg.Minutes)
	if err != nil {
		return nil, err
	}
	first, err := s.intField(req, "first", 0)
	if err != nil {
		return nil, err
	}
	bps, err := s.blueprints(req, "blueprints")
	if err != nil {
		return nil, err
	}

	results, err := s.run(ctx, batch.First(bps, first), minutes)
	if err != nil {
		return nil, err
	}
	return toStruct(batch.NewReport(minutes, results))
}

func (s *Server) run(ctx context.Context, bps []*models.Blueprint, minutes int) ([]batch.Result, error) {
	start := time.Now()
	results, err := batch.Run(ctx, bps, batch.Options{
		Minutes: minutes,
		Workers: s.cfg.Workers,
		Timeout: s.cfg.Timeout,
	})
	logging.Info("request solved", "blueprints", len(bps), "minutes", minutes, "elapsed", time.Since(start))

	if err != nil && !onlyInterrupted(results) {
		return nil, status.Errorf(codes.Internal, "solve failed: %v", err)
	}
	return results, nil
}

func onlyInterrupted(results []batch.Result) bool {
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, geode.ErrInterrupted) {
			return false
		}
	}
	return true
}

func (s *Server) blueprints(req *structpb.Struct, field string) ([]*models.Blueprint, error) {
	text := req.GetFields()[field].GetStringValue()
	if text == "" {
		return nil, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	bps, err := loader.Parse([]byte(text))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s: %v", field, err)
	}
	if len(bps) == 0 {
		return nil, status.Errorf(codes.InvalidArgument, "%s: no blueprints found", field)
	}
	return bps, nil
}

func (s *Server) intField(req *structpb.Struct, field string, def int) (int, error) {
	v, ok := req.GetFields()[field]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", field)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f < 0 || f > geode.MaxHorizon {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer in [0, %d], got %v", field, geode.MaxHorizon, f)
	}
	return int(f), nil
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return out, nil
}

// LoggingInterceptor logs every unary call with its status code and duration
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	if err != nil {
		logging.Warn("rpc failed", "method", info.FullMethod, "code", code.String(), "elapsed", time.Since(start), "error", err)
	} else {
		logging.Debug("rpc", "method", info.FullMethod, "code", code.String(), "elapsed", time.Since(start))
	}
	return resp, err
}

// NewGRPCServer creates a grpc.Server with the Optimizer and the standard
// health service registered
func NewGRPCServer(cfg config.Config, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.UnaryInterceptor(LoggingInterceptor)}, opts...)
	s := grpc.NewServer(opts...)
	Register(s, NewServer(cfg))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}
