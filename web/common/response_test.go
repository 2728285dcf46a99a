package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessResponseEnvelope(t *testing.T) {
	b, err := json.Marshal(NewSuccessResponse([]int{1, 2}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[1,2]}`, string(b))

	var decoded SuccessResponse[map[string]string]
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"token":"t"}}`), &decoded))
	assert.Equal(t, "t", decoded.Data["token"])

	b, err = json.Marshal(NewErrorResponse("nope"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"nope"}`, string(b))
}
