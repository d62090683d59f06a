package handlers

import (
	"encoding/json"
	"testing"

	"frontline-server/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPayload(t *testing.T) {
	var got api.PositionPayload
	h := WithPayload(func(_ Context, p api.PositionPayload) (Result, error) {
		got = p
		return Result{Msg: "ok"}, nil
	})

	res, err := h(Context{}, json.RawMessage(`{"x":10,"y":20}`))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Msg)
	assert.Equal(t, api.PositionPayload{X: 10, Y: 20}, got)

	_, err = h(Context{}, nil)
	assert.ErrorIs(t, err, ErrPayloadRequired)
	_, err = h(Context{}, json.RawMessage(`null`))
	assert.ErrorIs(t, err, ErrPayloadRequired)

	_, err = h(Context{}, json.RawMessage(`{"x":"left"}`))
	assert.ErrorIs(t, err, ErrPayloadFormat)

	_, err = h(Context{}, json.RawMessage(`{"x":-5,"y":20}`))
	assert.ErrorIs(t, err, api.ErrOutOfField)
}

func TestWithEmptyPayload(t *testing.T) {
	calls := 0
	h := WithEmptyPayload(func(Context) (Result, error) {
		calls++
		return EmptyResult(), nil
	})

	_, err := h(Context{}, json.RawMessage(`{"anything":true}`))
	require.NoError(t, err)
	_, err = h(Context{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
