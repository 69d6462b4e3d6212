package correction

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cosponsor_spider/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func politicians() []*models.Politician {
	return []*models.Politician{
		{ID: "R000146", Title: "Sen", FirstName: "Harry", LastName: "Reid", State: "NV"},
		{ID: "K000148", Title: "Sen", FirstName: "Edward M.", LastName: "Kennedy", State: "MA"},
	}
}

func TestApplyStatic(t *testing.T) {
	pols := politicians()
	n, err := Apply(Static{"R000146": {Party: "D"}}, pols)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, "D", pols[0].Party)
	assert.Equal(t, "NV", pols[0].State)
	assert.Equal(t, "", pols[1].Party)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.yaml")
	require.NoError(t, os.WriteFile(path, []byte("K000148:\n  party: D\n  state: MA\n"), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Correction{Party: "D", State: "MA"}, s["K000148"])
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	pols := politicians()

	n, err := Apply(NewPrompt(strings.NewReader("d\n\ni\nma\n"), &out), pols)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, "D", pols[0].Party)
	assert.Equal(t, "NV", pols[0].State)
	assert.Equal(t, "I", pols[1].Party)
	assert.Equal(t, "MA", pols[1].State)
	assert.Contains(t, out.String(), "Sen Harry Reid(-NV)")
	assert.Contains(t, out.String(), "party?")
}

func TestPromptRunsOutOfInput(t *testing.T) {
	_, err := Apply(NewPrompt(strings.NewReader("d\n"), io.Discard), politicians())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestChain(t *testing.T) {
	c := Chain{Static{"R000146": {Party: "D", State: "XX"}}, Static{"R000146": {State: "NV"}}}
	got, err := c.Correct(politicians()[0])
	require.NoError(t, err)
	assert.Equal(t, Correction{Party: "D", State: "NV"}, got)
}
