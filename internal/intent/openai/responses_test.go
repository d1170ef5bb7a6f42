package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskvox/internal/action"
)

func TestFunctionTools(t *testing.T) {
	catalog := action.Builtin()
	tools := functionTools(catalog)
	require.Len(t, tools, catalog.Len())

	for i, d := range catalog.All() {
		fn := tools[i].OfFunction
		require.NotNil(t, fn, d.Name)
		assert.Equal(t, d.Name, fn.Name)
		assert.Equal(t, d.Description, fn.Description.Value)
		assert.Equal(t, "object", fn.Parameters["type"])
	}
}
