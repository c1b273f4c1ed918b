package assets

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_NotEmpty(t *testing.T) {
	assert.NotEmpty(t, Policy())
}

func TestSettings_ValidJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(Settings(), &doc))

	for _, key := range []string{"features", "contextFiles", "mcpServers", "models"} {
		assert.Contains(t, doc, key)
	}
}

func TestSettings_PlaceholdersAreLiteral(t *testing.T) {
	content := string(Settings())

	// Placeholders must name the collected secrets exactly and stay literal;
	// the consuming CLI resolves them, never the installer.
	for _, name := range []string{
		"${ANTHROPIC_API_KEY}",
		"${GITHUB_PERSONAL_ACCESS_TOKEN}",
		"${BRAVE_API_KEY}",
	} {
		assert.Contains(t, content, name)
	}
	assert.False(t, strings.Contains(content, "sk-"),
		"settings template must not contain a literal key")
}
