package grpc

// proto.go defines the StressService server interface and messages by hand.
// Messages travel through the JSON codec registered in json_codec.go, so no
// generated protobuf code is needed.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "stress.v1.StressService"

// Full method names.
const (
	PredictMethod         = "/" + ServiceName + "/Predict"
	DescribeRuleSetMethod = "/" + ServiceName + "/DescribeRuleSet"
)

// StressServiceServer is the server API for StressService.
type StressServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	DescribeRuleSet(context.Context, *DescribeRuleSetRequest) (*RuleSetResponse, error)
	mustEmbedUnimplementedStressServiceServer()
}

// UnimplementedStressServiceServer provides forward-compatible default implementations.
type UnimplementedStressServiceServer struct{}

func (UnimplementedStressServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedStressServiceServer) DescribeRuleSet(context.Context, *DescribeRuleSetRequest) (*RuleSetResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DescribeRuleSet not implemented")
}
func (UnimplementedStressServiceServer) mustEmbedUnimplementedStressServiceServer() {}

// PredictRequest represents the Predict request message. Fields are pointers
// so that absent fields can be rejected.
type PredictRequest struct {
	Assignments *int     `json:"assignments"`
	ClassHours  *float64 `json:"class_hours"`
	DaysToExam  *int     `json:"days_to_exam"`
	SleepHours  *float64 `json:"sleep_hours"`
}

// PredictResponse represents the Predict response message.
type PredictResponse struct {
	Category    string   `json:"category"`
	TopFactor   string   `json:"top_factor"`
	Advice      []string `json:"advice"`
	StressScore float64  `json:"stress_score"`
}

// DescribeRuleSetRequest represents the empty DescribeRuleSet request message.
type DescribeRuleSetRequest struct{}

// RangeMsg represents an inclusive numeric range.
type RangeMsg struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RuleSetResponse represents the DescribeRuleSet response message.
type RuleSetResponse struct {
	Bounds        map[string]RangeMsg `json:"bounds"`
	Labels        map[string]string   `json:"labels"`
	Revision      string              `json:"revision"`
	MediumFrom    float64             `json:"medium_from"`
	HighFrom      float64             `json:"high_from"`
	PositiveBelow float64             `json:"positive_below,omitempty"`
}

// RegisterStressServiceServer registers the StressServiceServer with the gRPC server.
func RegisterStressServiceServer(s grpclib.ServiceRegistrar, srv StressServiceServer) {
	s.RegisterService(&_StressService_serviceDesc, srv)
}

var _StressService_serviceDesc = grpclib.ServiceDesc{ //nolint:revive
	ServiceName: ServiceName,
	HandlerType: (*StressServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _StressService_Predict_Handler},
		{MethodName: "DescribeRuleSet", Handler: _StressService_DescribeRuleSet_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _StressService_Predict_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive // gRPC handler registration
	in := new(PredictRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StressServiceServer).Predict(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: PredictMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StressServiceServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StressService_DescribeRuleSet_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) { //nolint:revive // gRPC handler registration
	in := new(DescribeRuleSetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StressServiceServer).DescribeRuleSet(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: DescribeRuleSetMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StressServiceServer).DescribeRuleSet(ctx, req.(*DescribeRuleSetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// StressServiceClient is the client API for StressService.
type StressServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewStressServiceClient creates a client that speaks the JSON codec.
func NewStressServiceClient(cc grpclib.ClientConnInterface) *StressServiceClient {
	return &StressServiceClient{cc: cc}
}

// Predict calls StressService.Predict.
func (c *StressServiceClient) Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error) {
	out := new(PredictResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, PredictMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DescribeRuleSet calls StressService.DescribeRuleSet.
func (c *StressServiceClient) DescribeRuleSet(ctx context.Context, in *DescribeRuleSetRequest, opts ...grpclib.CallOption) (*RuleSetResponse, error) {
	out := new(RuleSetResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, DescribeRuleSetMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
