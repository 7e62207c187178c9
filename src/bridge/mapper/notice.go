package mapper

import (
	"context"
	stderr "errors"
	"fmt"
	"strings"

	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"go.lsp.dev/protocol"
)

const (
	_noticeShowPreview    = "Showing preview of %s"
	_noticeHidePreview    = "Preview hidden"
	_noticeDone           = "%s done"
	_noticeNotAvailable   = "The microcad language server is not available"
	_noticeSessionClosed  = "%s failed: the microcad language server connection closed"
	_noticeTimeout        = "%s failed: the microcad language server did not answer in time"
	_noticeUnreachable    = "%s failed: the microcad language server could not be reached"
	_noticeCommandFailure = "%s failed: %s"
)

// CommandResultToNotice returns the one-line notice shown after a command succeeded.
func CommandResultToNotice(command string, doc entity.Document) entity.Notice {
	var msg string
	switch command {
	case entity.CommandShowPreview:
		name := string(doc.URI)
		if filename, ok := doc.Filename(); ok {
			name = filename
		}
		msg = fmt.Sprintf(_noticeShowPreview, name)
	case entity.CommandHidePreview:
		msg = _noticeHidePreview
	default:
		msg = fmt.Sprintf(_noticeDone, command)
	}
	return entity.Notice{Type: protocol.MessageTypeInfo, Message: msg}
}

// ErrorToNotice returns the one-line notice shown after a command failed. Preconditions are warnings, everything else is an error.
func ErrorToNotice(command string, err error) entity.Notice {
	var precondition *errors.PreconditionError
	if stderr.As(err, &precondition) {
		msg := precondition.Error()
		if precondition.Kind == errors.SessionNotRunning {
			msg = _noticeNotAvailable
		}
		return entity.Notice{Type: protocol.MessageTypeWarning, Message: oneLine(msg)}
	}

	var msg string
	switch {
	case errors.IsSessionClosed(err):
		msg = fmt.Sprintf(_noticeSessionClosed, command)
	case stderr.Is(err, context.DeadlineExceeded):
		msg = fmt.Sprintf(_noticeTimeout, command)
	case errors.IsTransport(err):
		msg = fmt.Sprintf(_noticeUnreachable, command)
	default:
		if protoErr, ok := errors.AsProtocol(err); ok {
			msg = fmt.Sprintf(_noticeCommandFailure, command, protoErr.Message)
		} else {
			msg = fmt.Sprintf(_noticeCommandFailure, command, err.Error())
		}
	}
	return entity.Notice{Type: protocol.MessageTypeError, Message: oneLine(msg)}
}

// NoticeToShowMessageParams maps a notice into window/showMessage parameters.
func NoticeToShowMessageParams(n entity.Notice) *protocol.ShowMessageParams {
	return &protocol.ShowMessageParams{Type: n.Type, Message: n.Message}
}

func oneLine(msg string) string {
	if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}
