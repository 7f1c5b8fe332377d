package predictor

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region service-desc
type predictService interface {
	predict(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "powertoys.LossPredictor",
	HandlerType: (*predictService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Predict", Handler: predictHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "powertoys/predictor",
}

func predictHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	svc := srv.(predictService)
	if interceptor == nil {
		return svc.predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PredictMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return svc.predict(ctx, req.(*structpb.Struct))
	})
}

// #endregion service-desc

// #region server
// Server exposes a LossPredictor over gRPC.
type Server struct {
	backend component.LossPredictor
}

func NewServer(backend component.LossPredictor) *Server {
	return &Server{backend: backend}
}

// Register attaches the service to gs.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
}

func (s *Server) predict(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := in.GetFields()
	q := component.Query{
		PartID:    f["part_id"].GetStringValue(),
		DC:        f["dc"].GetNumberValue(),
		Ripple:    f["ripple"].GetNumberValue(),
		Frequency: f["frequency"].GetNumberValue(),
		Series:    int(f["series"].GetNumberValue()),
	}
	if q.PartID == "" {
		return nil, status.Error(codes.InvalidArgument, "part_id is required")
	}
	p, err := s.backend.Predict(ctx, q)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("predict %s: %v", q.PartID, err))
	}
	return encodePrediction(p)
}

// #endregion server
