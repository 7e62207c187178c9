package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _errSendToClient = "sending notification to editor: %w"

// Gateway is used to send outbound notifications to the editor hosts connected to the bridge.
// A context carrying an editor UUID routes the notification to that editor only. Without one, the notification is sent to every connected editor.
type Gateway interface {
	// Methods used to manage the client for each editor connection.

	// RegisterClient registers a new client with the gateway. Should be called each time an editor connects.
	RegisterClient(ctx context.Context, id uuid.UUID, conn *jsonrpc2.Conn) error
	// DeregisterClient removes a client from the gateway. Should be called each time an editor connection is closed.
	DeregisterClient(ctx context.Context, id uuid.UUID) error
	// ClientCount returns the number of connected editors.
	ClientCount() int

	// Methods from protocol.Client interface.
	LogMessage(ctx context.Context, params *protocol.LogMessageParams) (err error)
	PublishDiagnostics(ctx context.Context, params *protocol.PublishDiagnosticsParams) (err error)
	ShowMessage(ctx context.Context, params *protocol.ShowMessageParams) (err error)
}

type gateway struct {
	clients   map[uuid.UUID]protocol.Client
	clientsMu sync.Mutex
	logger    *zap.Logger
}

// New returns a Gateway for sending editor notifications.
func New(logger *zap.Logger) Gateway {
	return &gateway{
		clients: make(map[uuid.UUID]protocol.Client),
		logger:  logger,
	}
}

func (g *gateway) RegisterClient(ctx context.Context, id uuid.UUID, conn *jsonrpc2.Conn) error {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	g.clients[id] = protocol.ClientDispatcher(*conn, g.logger)
	return nil
}

func (g *gateway) DeregisterClient(ctx context.Context, id uuid.UUID) error {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	delete(g.clients, id)
	return nil
}

func (g *gateway) ClientCount() int {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	return len(g.clients)
}

func (g *gateway) LogMessage(ctx context.Context, params *protocol.LogMessageParams) (err error) {
	return g.send(ctx, func(c protocol.Client) error {
		return c.LogMessage(ctx, params)
	})
}

func (g *gateway) PublishDiagnostics(ctx context.Context, params *protocol.PublishDiagnosticsParams) (err error) {
	return g.send(ctx, func(c protocol.Client) error {
		return c.PublishDiagnostics(ctx, params)
	})
}

func (g *gateway) ShowMessage(ctx context.Context, params *protocol.ShowMessageParams) (err error) {
	return g.send(ctx, func(c protocol.Client) error {
		return c.ShowMessage(ctx, params)
	})
}

func (g *gateway) send(ctx context.Context, notify func(c protocol.Client) error) error {
	clients, err := g.getClients(ctx)
	if err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}

	for _, c := range clients {
		err = multierr.Append(err, notify(c))
	}
	if err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}
	return nil
}

// getClients returns the client addressed by the context, or every client if the context names none.
func (g *gateway) getClients(ctx context.Context) ([]protocol.Client, error) {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	id, err := mapper.ContextToEditorUUID(ctx)
	if err != nil {
		clients := make([]protocol.Client, 0, len(g.clients))
		for _, c := range g.clients {
			clients = append(clients, c)
		}
		return clients, nil
	}

	client, ok := g.clients[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id}
	}
	return []protocol.Client{client}, nil
}
