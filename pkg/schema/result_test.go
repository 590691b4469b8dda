package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	ok := Valid()
	assert.True(t, ok.OK())
	assert.Empty(t, ok.Reason())
	assert.NoError(t, ok.Err())
	assert.Equal(t, "valid", ok.String())

	bad := Invalid("Invalid date")
	assert.False(t, bad.OK())
	assert.Equal(t, "Invalid date", bad.Reason())
	assert.EqualError(t, bad.Err(), "Invalid date")

	var zero Result
	assert.True(t, zero.OK(), "zero value is valid")

	assert.False(t, Invalid("").OK(), "invalid results always carry a reason")
	assert.NotEmpty(t, Invalid("").Reason())
}

func TestResult_JSON(t *testing.T) {
	data, err := json.Marshal(Valid())
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true}`, string(data))

	data, err = json.Marshal(Invalid("Value is required"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":false,"reason":"Value is required"}`, string(data))

	var got Result
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Invalid("Value is required"), got)

	assert.Error(t, json.Unmarshal([]byte(`{"valid":false}`), &got))
}
