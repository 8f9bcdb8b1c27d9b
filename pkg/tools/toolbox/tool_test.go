package toolbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolHandler(t *testing.T) {
	tool := Tool{
		Name:        "greet",
		Description: "Greets by name",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`),
		Handler: func(_ context.Context, input json.RawMessage) (string, error) {
			var params struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(input, &params); err != nil {
				return "", err
			}
			return "hello " + params.Name, nil
		},
	}

	result, err := tool.Handler(context.Background(), json.RawMessage(`{"name":"dev"}`))
	require.NoError(t, err)
	assert.Equal(t, "hello dev", result)
}
