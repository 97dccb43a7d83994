package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockRouterResolveLibraryID(t *testing.T) {
	r := NewMockRouter()
	libs, err := r.ResolveLibraryID(context.Background(), "react")
	require.NoError(t, err)
	require.Len(t, libs, 1)
	assert.Equal(t, "react", libs[0].Name)
}

func TestMockRouterGetLibraryDocs(t *testing.T) {
	r := NewMockRouter()
	docs, err := r.GetLibraryDocs(context.Background(), "/mock/react", "hooks", 500)
	require.NoError(t, err)
	assert.Contains(t, docs, "hooks")
}

func TestMockRouterGenerate(t *testing.T) {
	r := NewMockRouter()
	result, err := r.Generate(context.Background(), GenerateRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "mock", result.Provider)
	assert.Contains(t, result.Best, "hello")
}
