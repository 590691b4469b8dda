package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/stratum/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeReference(t *testing.T) {
	md := TypeReference()
	for _, c := range schema.Categories() {
		assert.Contains(t, md, "## "+string(c))
	}
	for _, tag := range schema.Tags() {
		assert.Contains(t, md, "| `"+string(tag)+"` |")
	}
}

func TestTypeDetail(t *testing.T) {
	info, ok := schema.Lookup(schema.DateArray)
	require.True(t, ok)

	md := TypeDetail(info)
	assert.True(t, strings.HasPrefix(md, "# []DATE\n"))
	assert.Contains(t, md, "**Category:** Array")
	assert.Contains(t, md, "validated as `DATE`")

	info, _ = schema.Lookup(schema.Integer)
	assert.NotContains(t, TypeDetail(info), "Elements are validated")
}

func TestRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Title\n\nbody text\n")
	require.NoError(t, err)
	assert.Contains(t, out, "body text")
}

func TestVerdict(t *testing.T) {
	ok := Verdict(`"42" as INTEGER`, schema.Valid())
	assert.Contains(t, ok, SymbolSuccess)
	assert.Contains(t, ok, "valid")

	bad := Verdict(`"x" as INTEGER`, schema.Invalid("Value must be a valid integer"))
	assert.Contains(t, bad, SymbolError)
	assert.Contains(t, bad, "Value must be a valid integer")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Greater(t, strings.Count(buf.String(), "\n"), 5)
}
