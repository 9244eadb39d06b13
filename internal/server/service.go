package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
	"github.com/joseph-ayodele/tender-analyzer/internal/repository"
)

const requestIDHeader = "x-request-id"

type AnalysisService struct {
	proc     DocumentProcessor
	analyses repository.AnalysisRepository
	logger   *slog.Logger
}

var _ AnalysisServiceServer = (*AnalysisService)(nil)

func NewAnalysisService(proc DocumentProcessor, analyses repository.AnalysisRepository, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{proc: proc, analyses: analyses, logger: logger}
}

func (s *AnalysisService) Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source := strings.TrimSpace(stringField(req, "source"))
	text := stringField(req, "text")

	v := common.NewValidator().
		Field("text", text, common.Required, common.ValidUTF8, common.MaxLength(maxTextBytes)).
		Field("source", source, common.ValidUTF8, common.MaxLength(255))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	if source == "" {
		source = "text"
	}

	a, err := s.proc.ProcessText(ctx, source, text)
	if err != nil {
		common.LoggerFrom(ctx, s.logger).Warn("grpc.analyze.failed", "source", source, "err", err)
		return nil, common.GRPCError(err)
	}
	return analysisStruct(a)
}

func (s *AnalysisService) GetAnalysis(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw := strings.TrimSpace(stringField(req, "id"))
	if err := common.ValidateAndReturnError(common.NewValidator().Field("id", raw, common.Required, common.UUID)); err != nil {
		return nil, err
	}
	a, err := s.analyses.GetByID(ctx, uuid.MustParse(raw))
	if err != nil {
		return nil, common.GRPCError(err)
	}
	return analysisStruct(a)
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

// analysisStruct converts a through its JSON form so both transports agree on field names.
func analysisStruct(a *entity.Analysis) (*structpb.Struct, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, common.InternalErrorf("marshal analysis: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, common.InternalErrorf("unmarshal analysis: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.InternalErrorf("build struct: %v", err)
	}
	return out, nil
}

// UnaryLogging tags each call with a request ID (from metadata or freshly minted) and logs it.
func UnaryLogging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(requestIDHeader); len(vals) > 0 {
				reqID = vals[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx = common.WithRequestID(ctx, reqID)

		resp, err := handler(ctx, req)
		log := common.LoggerFrom(ctx, logger)
		if err != nil {
			log.Warn("grpc.request", "method", info.FullMethod, "elapsed_ms", time.Since(start).Milliseconds(), "err", err)
		} else {
			log.Info("grpc.request", "method", info.FullMethod, "elapsed_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}

// NewGRPCServer builds a server with the analysis, health and reflection services registered.
func NewGRPCServer(svc AnalysisServiceServer, logger *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLogging(logger))}, opts...)
	gs := grpc.NewServer(opts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(AnalysisServiceName, healthpb.HealthCheckResponse_SERVING)

	RegisterAnalysisServiceServer(gs, svc)
	reflection.Register(gs)
	return gs, hs
}
