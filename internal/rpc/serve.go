package rpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"

	"go.uber.org/zap"
)

// request is the newline-delimited JSON shape read from the transport:
// {"verb": "food_item.add", "params": {...}}.
type request struct {
	Verb   string          `json:"verb"`
	Params json.RawMessage `json:"params"`
}

// Serve reads one JSON request object per line from r, dispatches it
// through d, and writes one JSON Envelope per line to w. It returns only
// when r is exhausted or ctx-independent I/O fails; a malformed request line
// or a handler error both produce an error Envelope and do not stop the
// loop.
func Serve(r io.Reader, w io.Writer, d *Dispatcher, log *zap.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := enc.Encode(Envelope{Error: &ErrorEnvelope{
				Code:    "VALIDATION",
				Message: "malformed request: " + err.Error(),
			}}); encErr != nil {
				return encErr
			}
			continue
		}

		result, err := d.Dispatch(req.Verb, req.Params)
		if err != nil {
			log.Warn("rpc verb failed", zap.String("verb", req.Verb), zap.Error(err))
			if encErr := enc.Encode(Envelope{Error: ToEnvelope(err)}); encErr != nil {
				return encErr
			}
			continue
		}

		if err := enc.Encode(Envelope{Result: result}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
