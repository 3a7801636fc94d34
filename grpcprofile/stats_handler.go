package grpcprofile

import (
	"context"
	"sync/atomic"

	"google.golang.org/grpc/stats"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

// Origins and names of the records written by this package.
const (
	OriginClient = "grpc.client"
	OriginServer = "grpc.server"

	EventSendInitialMetadata = "SendInitialMetadata"
	EventSendMessage         = "SendMessage"
	EventRecvInitialMetadata = "RecvInitialMetadata"
	EventRecvMessage         = "RecvMessage"
	EventRecvStatus          = "RecvStatus"
	EventSendStatus          = "SendStatus"
	EventBlockingUnaryCall   = "BlockingUnaryCall"
	EventHandleUnaryCall     = "HandleUnaryCall"
	EventClientStreamingCall = "ClientStreamingCall"
	EventServerStreamingCall = "ServerStreamingCall"
)

// rpcStateKey is the context key of the per-RPC rpcState.
type rpcStateKey struct{}

// rpcState holds the marks of one RPC. Stats events of one RPC can arrive from different goroutines.
type rpcState struct {
	method    string
	begin     profiler.Nanoseconds
	last      atomic.Uint64
	streaming atomic.Bool
}

// StatsHandler implements stats.Handler and records the transport phases of every RPC.
//
// Each phase record spans from the previous mark of the RPC to the phase's event, the first mark is
// taken when the RPC is tagged. The call record spans from tagging to the End event.
type StatsHandler struct {
	stopwatch profiler.Stopwatch
	origin    string
	callEvent string
}

// NewClientStatsHandler creates a StatsHandler for grpc.WithStatsHandler.
func NewClientStatsHandler(stopwatch profiler.Stopwatch) *StatsHandler {
	return &StatsHandler{stopwatch: stopwatch, origin: OriginClient, callEvent: EventBlockingUnaryCall}
}

// NewServerStatsHandler creates a StatsHandler for grpc.StatsHandler.
func NewServerStatsHandler(stopwatch profiler.Stopwatch) *StatsHandler {
	return &StatsHandler{stopwatch: stopwatch, origin: OriginServer, callEvent: EventHandleUnaryCall}
}

// TagRPC takes the first mark of the RPC and attaches its state to the context.
func (h *StatsHandler) TagRPC(ctx context.Context, info *stats.RPCTagInfo) context.Context {
	now := h.stopwatch.Clock().Now()

	state := &rpcState{method: info.FullMethodName, begin: now}
	state.last.Store(now)

	return context.WithValue(ctx, rpcStateKey{}, state)
}

// HandleRPC records the phase that belongs to the stats event.
func (h *StatsHandler) HandleRPC(ctx context.Context, rpcStats stats.RPCStats) {
	state, ok := ctx.Value(rpcStateKey{}).(*rpcState)
	if !ok {
		return
	}

	switch event := rpcStats.(type) {
	case *stats.Begin:
		state.streaming.Store(event.IsClientStream || event.IsServerStream)
	case *stats.OutHeader:
		h.mark(state, EventSendInitialMetadata)
	case *stats.OutPayload:
		h.mark(state, EventSendMessage)
	case *stats.InHeader:
		h.mark(state, EventRecvInitialMetadata)
	case *stats.InPayload:
		h.mark(state, EventRecvMessage)
	case *stats.InTrailer:
		h.mark(state, EventRecvStatus)
	case *stats.OutTrailer:
		h.mark(state, EventSendStatus)
	case *stats.End:
		h.stopwatch.RecordSpan(h.operation(state, h.callName(state)), state.begin, h.stopwatch.Clock().Now())
	}
}

// TagConn implements stats.Handler, connections are not recorded.
func (h *StatsHandler) TagConn(ctx context.Context, _ *stats.ConnTagInfo) context.Context {
	return ctx
}

// HandleConn implements stats.Handler, connections are not recorded.
func (h *StatsHandler) HandleConn(_ context.Context, _ stats.ConnStats) {}

// mark records the phase from the previous mark to now and moves the mark.
func (h *StatsHandler) mark(state *rpcState, event string) {
	now := h.stopwatch.Clock().Now()
	previous := state.last.Swap(now)

	h.stopwatch.RecordSpan(h.operation(state, event), previous, now)
}

func (h *StatsHandler) callName(state *rpcState) string {
	if !state.streaming.Load() {
		return h.callEvent
	}

	if h.origin == OriginClient {
		return EventClientStreamingCall
	}

	return EventServerStreamingCall
}

func (h *StatsHandler) operation(state *rpcState, event string) profiler.Operation {
	return profiler.Op(event, h.origin).WithDescription(state.method)
}

var _ stats.Handler = (*StatsHandler)(nil)
