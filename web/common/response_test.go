package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseEnvelopes(t *testing.T) {
	out, err := json.Marshal(NewErrorResponse("record not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"record not found"}`, string(out))

	out, err = json.Marshal(NewSearchResponse([]string{"a"}, 2, 10, 11))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":["a"],"pagination":{"page":2,"limit":10,"total":11}}`, string(out))
}
