package rpc

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestServe_DispatchesEachLine(t *testing.T) {
	d := NewDispatcher()
	d.Handle("echo", func(params json.RawMessage) (any, error) {
		return "ok", nil
	})

	in := strings.NewReader(`{"verb":"echo","params":{}}` + "\n")
	var out bytes.Buffer
	err := Serve(in, &out, d, zap.NewNop())
	assert.NoError(t, err)

	var env Envelope
	assert.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &env))
	assert.Equal(t, "ok", env.Result)
	assert.Nil(t, env.Error)
}

func TestServe_MalformedLineProducesValidationEnvelopeAndContinues(t *testing.T) {
	d := NewDispatcher()
	d.Handle("echo", func(params json.RawMessage) (any, error) {
		return "ok", nil
	})

	in := strings.NewReader("not json\n" + `{"verb":"echo","params":{}}` + "\n")
	var out bytes.Buffer
	err := Serve(in, &out, d, zap.NewNop())
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)

	var first Envelope
	assert.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "VALIDATION", first.Error.Code)

	var second Envelope
	assert.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "ok", second.Result)
}

func TestServe_UnknownVerbProducesErrorEnvelope(t *testing.T) {
	d := NewDispatcher()

	in := strings.NewReader(`{"verb":"nope.nope","params":{}}` + "\n")
	var out bytes.Buffer
	err := Serve(in, &out, d, zap.NewNop())
	assert.NoError(t, err)

	var env Envelope
	assert.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &env))
	assert.NotNil(t, env.Error)
}
