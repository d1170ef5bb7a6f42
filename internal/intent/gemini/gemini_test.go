package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"deskvox/internal/action"
)

func TestFunctionDeclarations(t *testing.T) {
	catalog := action.Builtin()
	decls := functionDeclarations(catalog)
	require.Len(t, decls, catalog.Len())

	byName := make(map[string]*genai.FunctionDeclaration, len(decls))
	for _, d := range decls {
		byName[d.Name] = d
	}

	assert.Nil(t, byName[action.OpenBrowser].Parameters, "no params, no schema")

	search := byName[action.Search]
	require.NotNil(t, search.Parameters)
	assert.Equal(t, genai.TypeObject, search.Parameters.Type)
	assert.Contains(t, search.Parameters.Properties, "query")
	assert.Equal(t, []string{"query"}, search.Parameters.Required)
}
