package secrets

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cserrors "github.com/mhoffman/clawstrap/internal/errors"
)

// mapSetter returns a Setter writing into env, so tests never touch the
// real process environment.
func mapSetter(env map[string]string) Setter {
	return func(name, value string) error {
		env[name] = value
		return nil
	}
}

func collect(t *testing.T, script string, env map[string]string) (Entry, string, error) {
	t.Helper()
	var out bytes.Buffer
	c := NewCollectorWithIO(strings.NewReader(script), &out, WithEnvSetter(mapSetter(env)))
	entry, err := c.Collect("ANTHROPIC_API_KEY", "Enter your Anthropic API key")
	return entry, out.String(), err
}

func TestCollect_ConfirmedFirstTry(t *testing.T) {
	env := map[string]string{}
	entry, out, err := collect(t, "abc123XYZ0\ny\n", env)

	require.NoError(t, err)
	assert.Equal(t, "ANTHROPIC_API_KEY", entry.Name)
	assert.Equal(t, "abc123XYZ0", entry.Value)
	assert.Equal(t, "abc123XYZ0", env["ANTHROPIC_API_KEY"])

	// Only the masked hint is ever shown
	assert.Contains(t, out, "****XYZ0")
	assert.NotContains(t, out, "abc123XYZ0")
}

func TestCollect_EmptyInputReprompts(t *testing.T) {
	env := map[string]string{}
	entry, out, err := collect(t, "\n\nkey2val\ny\n", env)

	require.NoError(t, err)
	assert.Equal(t, "key2val", entry.Value)
	assert.Contains(t, out, "cannot be empty")
	assert.Equal(t, "key2val", env["ANTHROPIC_API_KEY"])
}

func TestCollect_RejectionDiscardsValue(t *testing.T) {
	env := map[string]string{}
	entry, _, err := collect(t, "secretA\nn\nsecretB\ny\n", env)

	require.NoError(t, err)
	assert.Equal(t, "secretB", entry.Value)
	assert.Equal(t, "secretB", env["ANTHROPIC_API_KEY"],
		"rejected value must never be bound")
}

func TestCollect_OnlyExplicitYesAccepts(t *testing.T) {
	// "yes", empty, and garbage all reject; uppercase Y accepts.
	env := map[string]string{}
	script := "v1\nyes\nv2\n\nv3\nwhat\nv4\nY\n"
	entry, _, err := collect(t, script, env)

	require.NoError(t, err)
	assert.Equal(t, "v4", entry.Value)
}

func TestCollect_ShortValueHintShowsFullValue(t *testing.T) {
	env := map[string]string{}
	entry, out, err := collect(t, "k3\ny\n", env)

	require.NoError(t, err)
	assert.Equal(t, "k3", entry.Value)
	assert.Contains(t, out, "You entered: ****k3",
		"a value shorter than 4 chars shows in full behind the mask so it can be confirmed")
}

func TestCollect_ValueKeptVerbatim(t *testing.T) {
	env := map[string]string{}
	entry, _, err := collect(t, "  spaced $value `here` \ny\n", env)

	require.NoError(t, err)
	assert.Equal(t, "  spaced $value `here` ", entry.Value,
		"secret characters must not be trimmed or altered")
}

func TestCollect_InputClosedPropagates(t *testing.T) {
	env := map[string]string{}
	_, _, err := collect(t, "", env)

	require.Error(t, err)
	assert.ErrorIs(t, err, cserrors.ErrInputClosed)
	assert.Empty(t, env, "no binding on interrupted input")
}

func TestCollect_InputClosedDuringConfirm(t *testing.T) {
	env := map[string]string{}
	_, _, err := collect(t, "value\n", env)

	require.Error(t, err)
	assert.Empty(t, env)
}

func TestStore_PreservesOrder(t *testing.T) {
	s := NewStore()
	s.Add(Entry{Name: "ANTHROPIC_API_KEY", Value: "a"})
	s.Add(Entry{Name: "GITHUB_PERSONAL_ACCESS_TOKEN", Value: "b"})
	s.Add(Entry{Name: "BRAVE_API_KEY", Value: "c"})

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "ANTHROPIC_API_KEY", entries[0].Name)
	assert.Equal(t, "GITHUB_PERSONAL_ACCESS_TOKEN", entries[1].Name)
	assert.Equal(t, "BRAVE_API_KEY", entries[2].Name)
}
