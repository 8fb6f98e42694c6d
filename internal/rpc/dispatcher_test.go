package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

type greetParams struct {
	Name string `json:"name" binding:"required"`
}

func TestDispatcher_Dispatch_UnknownVerb(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Dispatch("nope.nope", nil)
	assert.Error(t, err)
}

func TestDispatcher_Handle_RawHandler(t *testing.T) {
	d := NewDispatcher()
	d.Handle("ping", func(params json.RawMessage) (any, error) {
		return "pong", nil
	})

	result, err := d.Dispatch("ping", nil)
	assert.NoError(t, err)
	assert.Equal(t, "pong", result)
}

func TestDispatcher_Bind_ValidatesBindingTag(t *testing.T) {
	d := NewDispatcher()
	d.Handle("greet.hello", func(params json.RawMessage) (any, error) {
		return bind(d, params, func(in greetParams) (any, error) {
			return "hello " + in.Name, nil
		})
	})

	_, err := d.Dispatch("greet.hello", json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestDispatcher_Bind_Success(t *testing.T) {
	d := NewDispatcher()
	d.Handle("greet.hello", func(params json.RawMessage) (any, error) {
		return bind(d, params, func(in greetParams) (any, error) {
			return "hello " + in.Name, nil
		})
	})

	result, err := d.Dispatch("greet.hello", json.RawMessage(`{"name":"Ada"}`))
	assert.NoError(t, err)
	assert.Equal(t, "hello Ada", result)
}
