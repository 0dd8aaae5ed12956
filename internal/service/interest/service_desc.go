package interest

import (
	"context"

	"google.golang.org/grpc"

	"github.com/oggyb/muzz-interest/internal/server"
)

const ServiceName = "interest.v1.InterestService"

// InterestServer is the server API for InterestService.
type InterestServer interface {
	Like(context.Context, *ActionRequest) (*ActionResponse, error)
	Dislike(context.Context, *ActionRequest) (*ActionResponse, error)
	SuperLike(context.Context, *ActionRequest) (*ActionResponse, error)
	Pass(context.Context, *ActionRequest) (*ActionResponse, error)
	Block(context.Context, *BlockRequest) (*ActionResponse, error)
	Report(context.Context, *ReportRequest) (*ActionResponse, error)
	Undo(context.Context, *UndoRequest) (*UndoResponse, error)
	ListActionHistory(context.Context, *ListRequest) (*ActionHistoryResponse, error)
	ListLikedYou(context.Context, *ListRequest) (*LikedYouResponse, error)
	CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error)
	ListMatches(context.Context, *ListRequest) (*MatchesResponse, error)
	ListQueue(context.Context, *QueueRequest) (*QueueResponse, error)
}

// ServiceDesc describes InterestService. Messages are JSON encoded, see
// server.JSONCodec.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InterestServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Like", InterestServer.Like),
		unary("Dislike", InterestServer.Dislike),
		unary("SuperLike", InterestServer.SuperLike),
		unary("Pass", InterestServer.Pass),
		unary("Block", InterestServer.Block),
		unary("Report", InterestServer.Report),
		unary("Undo", InterestServer.Undo),
		unary("ListActionHistory", InterestServer.ListActionHistory),
		unary("ListLikedYou", InterestServer.ListLikedYou),
		unary("CountLikedYou", InterestServer.CountLikedYou),
		unary("ListMatches", InterestServer.ListMatches),
		unary("ListQueue", InterestServer.ListQueue),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "interest/v1/interest.json",
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

func unary[Req, Resp any](name string, call func(InterestServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(InterestServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(InterestServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client is the InterestService client. Calls always use the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(server.CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Like(ctx context.Context, in *ActionRequest, opts ...grpc.CallOption) (*ActionResponse, error) {
	return invoke[ActionResponse](ctx, c.cc, "Like", in, opts)
}

func (c *Client) Dislike(ctx context.Context, in *ActionRequest, opts ...grpc.CallOption) (*ActionResponse, error) {
	return invoke[ActionResponse](ctx, c.cc, "Dislike", in, opts)
}

func (c *Client) SuperLike(ctx context.Context, in *ActionRequest, opts ...grpc.CallOption) (*ActionResponse, error) {
	return invoke[ActionResponse](ctx, c.cc, "SuperLike", in, opts)
}

func (c *Client) Pass(ctx context.Context, in *ActionRequest, opts ...grpc.CallOption) (*ActionResponse, error) {
	return invoke[ActionResponse](ctx, c.cc, "Pass", in, opts)
}

func (c *Client) Block(ctx context.Context, in *BlockRequest, opts ...grpc.CallOption) (*ActionResponse, error) {
	return invoke[ActionResponse](ctx, c.cc, "Block", in, opts)
}

func (c *Client) Report(ctx context.Context, in *ReportRequest, opts ...grpc.CallOption) (*ActionResponse, error) {
	return invoke[ActionResponse](ctx, c.cc, "Report", in, opts)
}

func (c *Client) Undo(ctx context.Context, in *UndoRequest, opts ...grpc.CallOption) (*UndoResponse, error) {
	return invoke[UndoResponse](ctx, c.cc, "Undo", in, opts)
}

func (c *Client) ListActionHistory(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ActionHistoryResponse, error) {
	return invoke[ActionHistoryResponse](ctx, c.cc, "ListActionHistory", in, opts)
}

func (c *Client) ListLikedYou(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*LikedYouResponse, error) {
	return invoke[LikedYouResponse](ctx, c.cc, "ListLikedYou", in, opts)
}

func (c *Client) CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error) {
	return invoke[CountLikedYouResponse](ctx, c.cc, "CountLikedYou", in, opts)
}

func (c *Client) ListMatches(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*MatchesResponse, error) {
	return invoke[MatchesResponse](ctx, c.cc, "ListMatches", in, opts)
}

func (c *Client) ListQueue(ctx context.Context, in *QueueRequest, opts ...grpc.CallOption) (*QueueResponse, error) {
	return invoke[QueueResponse](ctx, c.cc, "ListQueue", in, opts)
}
