package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Serve reads request envelopes from reader and writes one response per
// request to writer, in the order received. Requests execute one at a time;
// the data layer has exactly one logical writer. Serve returns nil on EOF.
func (d *Dispatcher) Serve(ctx context.Context, reader io.Reader, writer io.Writer) error {
	decoder := json.NewDecoder(reader)
	encoder := json.NewEncoder(writer)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var request Request
		if err := decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode request: %w", err)
		}

		if strings.TrimSpace(request.ID) == "" {
			request.ID = newRequestID()
		}

		response := d.Dispatch(ctx, request)
		if err := encoder.Encode(response); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}
}

// newRequestID backfills a correlation id for requests that arrive without
// one, so every response remains attributable.
func newRequestID() string {
	value, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return value.String()
}
