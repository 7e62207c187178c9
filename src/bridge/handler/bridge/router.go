package bridge

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	controller "github.com/uber/microcad-bridge/src/bridge/controller/bridge"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

const _tagMethod = "method"

type jsonRPCRouter struct {
	bridge controller.Controller
	uuid   uuid.UUID
	logger *zap.SugaredLogger
	stats  tally.Scope

	// closed is cancelled once the connection is gone, aborting requests still in flight.
	closed   context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

func newRouter(ctrl controller.Controller, id uuid.UUID, logger *zap.SugaredLogger, stats tally.Scope) *jsonRPCRouter {
	closed, cancel := context.WithCancel(context.Background())
	return &jsonRPCRouter{
		bridge: ctrl,
		uuid:   id,
		logger: logger,
		stats:  stats,
		closed: closed,
		cancel: cancel,
	}
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = mapper.EditorUUIDToContext(ctx, r.uuid)
	r.stats.Tagged(map[string]string{_tagMethod: req.Method()}).Counter("requests").Inc(1)

	switch req.Method() {
	// Lifecycle related methods may wait on the language server, so they must not hold up the read loop.
	case entity.MethodActivate:
		return r.async(ctx, reply, req, r.Activate)

	case entity.MethodDeactivate:
		return r.async(ctx, reply, req, r.Deactivate)

	// Workspace methods
	case protocol.MethodWorkspaceExecuteCommand:
		return r.async(ctx, reply, req, r.ExecuteCommand)

	// Document related methods are forwarded in the order they were received.
	case entity.MethodActiveDocumentChanged:
		return r.ActiveDocumentChanged(ctx, reply, req)

	case protocol.MethodTextDocumentDidOpen:
		return r.DidOpen(ctx, reply, req)

	case protocol.MethodTextDocumentDidChange:
		return r.DidChange(ctx, reply, req)

	case protocol.MethodTextDocumentDidSave:
		return r.DidSave(ctx, reply, req)

	case protocol.MethodTextDocumentDidClose:
		return r.DidClose(ctx, reply, req)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}

// async runs handler outside of the connection's read loop.
func (r *jsonRPCRouter) async(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, handler jsonrpc2.Handler) error {
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(r.closed, cancel)
		defer stop()

		if err := handler(ctx, reply, req); err != nil {
			r.logger.Warnw("Failed to reply", "method", req.Method(), "error", err)
		}
	}()
	return nil
}

// reply answers req, logging err since notifications have no way to carry it back.
func (r *jsonRPCRouter) reply(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, result interface{}, err error) error {
	if err != nil {
		r.logger.Warnw("Request failed", "method", req.Method(), "error", err)
		r.stats.Tagged(map[string]string{_tagMethod: req.Method()}).Counter("errors").Inc(1)
	}
	return reply(ctx, result, mapper.ToResponseError(err))
}

// close cancels requests still in flight and waits for them to return.
func (r *jsonRPCRouter) close() {
	r.cancel()
	r.inflight.Wait()
}

type routerSet struct {
	mu      sync.Mutex
	routers map[uuid.UUID]*jsonRPCRouter
}

func newRouterSet() *routerSet {
	return &routerSet{routers: make(map[uuid.UUID]*jsonRPCRouter)}
}

func (s *routerSet) add(r *jsonRPCRouter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routers[r.uuid] = r
}

func (s *routerSet) remove(id uuid.UUID) *jsonRPCRouter {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.routers[id]
	delete(s.routers, id)
	return r
}
