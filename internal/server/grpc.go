package server

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"threatscope/internal/threat"
	"threatscope/internal/validate"
)

// The service is declared with protobuf well-known types so no generated
// stubs are needed:
//
//	service ThreatService {
//	  rpc Analyze(google.protobuf.StringValue) returns (google.protobuf.Struct);
//	  rpc History(google.protobuf.Empty) returns (google.protobuf.ListValue);
//	}
const (
	ThreatServiceName     = "threatscope.v1.ThreatService"
	analyzeFullMethodName = "/" + ThreatServiceName + "/Analyze"
	historyFullMethodName = "/" + ThreatServiceName + "/History"
)

type ThreatServiceServer interface {
	Analyze(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	History(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

func RegisterThreatServiceServer(s grpc.ServiceRegistrar, srv ThreatServiceServer) {
	s.RegisterService(&threatServiceDesc, srv)
}

var threatServiceDesc = grpc.ServiceDesc{
	ServiceName: ThreatServiceName,
	HandlerType: (*ThreatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: analyzeHandler},
		{MethodName: "History", Handler: historyHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "threatscope/v1/threat.proto",
}

func analyzeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ThreatServiceServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: analyzeFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ThreatServiceServer).Analyze(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func historyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ThreatServiceServer).History(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: historyFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ThreatServiceServer).History(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ThreatServiceClient is the client side of ThreatService.
type ThreatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewThreatServiceClient(cc grpc.ClientConnInterface) *ThreatServiceClient {
	return &ThreatServiceClient{cc: cc}
}

func (c *ThreatServiceClient) Analyze(ctx context.Context, ip string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, analyzeFullMethodName, wrapperspb.String(ip), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ThreatServiceClient) History(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, historyFullMethodName, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type threatService struct {
	srv *Server
}

func (t *threatService) Analyze(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	ip := validate.Normalize(in.GetValue())
	if !validate.IsIPv4(ip) {
		return nil, status.Error(codes.InvalidArgument, invalidIPMessage)
	}
	rec, err := t.srv.svc.Analyze(ctx, ip)
	if err != nil {
		return nil, status.Error(codes.Unavailable, t.srv.failureMessage())
	}
	return recordStruct(*rec)
}

func (t *threatService) History(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	records := t.srv.store.History()
	values := make([]any, 0, len(records))
	for _, rec := range records {
		m, err := recordMap(rec)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		values = append(values, m)
	}
	list, err := structpb.NewList(values)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return list, nil
}

// recordMap flattens rec through its JSON form so field names match the HTTP API.
func recordMap(rec threat.ThreatRecord) (map[string]any, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func recordStruct(rec threat.ThreatRecord) (*structpb.Struct, error) {
	m, err := recordMap(rec)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}
