// Package bridge exposes every repository operation as a named, invokable
// command behind a synchronous request-response envelope. It is a pure
// pass-through: no business logic lives here.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

const (
	codeUnknownCommand = "unknown_command"
	codeBadPayload     = "bad_payload"
	codeInternal       = "internal"
)

// Request is the inbound command envelope.
type Request struct {
	ID      string          `json:"id"`
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload"`
}

// ResponseError describes a failed command.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the outbound envelope. Found is false when the command targeted
// a row that does not exist; that outcome is still OK, because absence is an
// expected result (a double-delete from a stale view, for example).
type Response struct {
	ID    string         `json:"id"`
	OK    bool           `json:"ok"`
	Found bool           `json:"found"`
	Data  any            `json:"data,omitempty"`
	Error *ResponseError `json:"error,omitempty"`
}

// Handler executes one command. It returns the response data and whether the
// target row was found.
type Handler func(ctx context.Context, payload json.RawMessage) (any, bool, error)

// Dispatcher routes requests to registered handlers by command name.
type Dispatcher struct {
	handlers map[string]Handler
	logger   *zap.Logger
}

// Dispatch runs the named command and wraps its outcome in a response
// envelope. Repository errors surface with code "internal"; absence of the
// target row is not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, request Request) Response {
	handler, ok := d.handlers[request.Command]
	if !ok {
		return failure(request.ID, codeUnknownCommand, fmt.Sprintf("unknown command %q", request.Command))
	}

	data, found, err := handler(ctx, request.Payload)
	if err != nil {
		var decodeErr *payloadError
		if errors.As(err, &decodeErr) {
			return failure(request.ID, codeBadPayload, err.Error())
		}
		d.logger.Error("command failed", zap.String("command", request.Command), zap.Error(err))
		return failure(request.ID, codeInternal, err.Error())
	}

	return Response{ID: request.ID, OK: true, Found: found, Data: data}
}

// Commands returns the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) register(command string, handler Handler) {
	d.handlers[command] = handler
}

func failure(id, code, message string) Response {
	return Response{ID: id, OK: false, Error: &ResponseError{Code: code, Message: message}}
}

type payloadError struct {
	cause error
}

func (e *payloadError) Error() string {
	return fmt.Sprintf("invalid payload: %v", e.cause)
}

func (e *payloadError) Unwrap() error {
	return e.cause
}

// decode unmarshals a command payload, reporting a missing or malformed
// document as a payload error so it maps to "bad_payload" instead of
// "internal".
func decode[T any](payload json.RawMessage) (T, error) {
	var decoded T
	if len(payload) == 0 {
		return decoded, &payloadError{cause: errors.New("payload is required")}
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return decoded, &payloadError{cause: err}
	}
	return decoded, nil
}
