package mapper

import (
	stderr "errors"
	"fmt"

	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"go.lsp.dev/jsonrpc2"
)

const _resultKeyError = "error"

var errNoParams = errors.NoParamsOnWireError

// CallErrorToError classifies the error returned by a call to the language server.
// Error responses become a ProtocolError; everything else is returned as is.
func CallErrorToError(method string, err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *jsonrpc2.Error
	if stderr.As(err, &rpcErr) {
		return &errors.ProtocolError{
			Method:  method,
			Code:    int64(rpcErr.Code),
			Message: rpcErr.Message,
		}
	}
	return err
}

// ExecuteCommandResultToError returns a ProtocolError if the language server answered a command with an {"error": ...} payload.
func ExecuteCommandResultToError(command string, result interface{}) error {
	payload, ok := result.(map[string]interface{})
	if !ok {
		return nil
	}
	value, ok := payload[_resultKeyError]
	if !ok || value == nil {
		return nil
	}

	msg, ok := value.(string)
	if !ok {
		msg = fmt.Sprint(value)
	}
	return &errors.ProtocolError{Method: command, Message: msg}
}

// ToResponseError maps a service error into the JSON-RPC error returned to the editor host.
func ToResponseError(err error) error {
	if err == nil {
		return nil
	}

	var precondition *errors.PreconditionError
	switch {
	case errors.IsBadRequest(err):
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	case stderr.Is(err, jsonrpc2.ErrParse):
		return jsonrpc2.NewError(jsonrpc2.ParseError, err.Error())
	case stderr.As(err, &precondition):
		return jsonrpc2.NewError(jsonrpc2.InvalidRequest, err.Error())
	default:
		return jsonrpc2.NewError(jsonrpc2.InternalError, err.Error())
	}
}
