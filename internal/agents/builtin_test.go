package agents

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCatalog(t *testing.T) {
	bound := Builtin("claude-sonnet-4")
	require.Len(t, bound, 4)

	seen := map[string]bool{}
	for _, b := range bound {
		assert.True(t, strings.HasPrefix(b.Prefix, "/"), "prefix %q", b.Prefix)
		assert.False(t, seen[b.Prefix], "duplicate prefix %q", b.Prefix)
		seen[b.Prefix] = true

		require.NotNil(t, b.Agent)
		assert.NotEmpty(t, b.Agent.Name)
		assert.NotEmpty(t, b.Agent.Instructions)
		assert.Equal(t, "claude-sonnet-4", b.Agent.Model)
	}
}

func TestBuiltinDefaultModel(t *testing.T) {
	bound := Builtin("")
	require.NotEmpty(t, bound)
	assert.Equal(t, "gpt-4.1-mini", bound[0].Agent.Model)
}
