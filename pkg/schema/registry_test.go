package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ClosedSet(t *testing.T) {
	tags := Tags()
	require.Len(t, tags, 19)

	seen := make(map[Tag]bool)
	for _, tag := range tags {
		assert.False(t, seen[tag], "duplicate tag %s", tag)
		seen[tag] = true
		assert.True(t, tag.Known())

		info, ok := Lookup(tag)
		require.True(t, ok)
		assert.Equal(t, tag, info.Tag)
		assert.NotEmpty(t, Describe(tag))
		assert.NotEmpty(t, Example(tag))
		assert.NotEmpty(t, info.Input.Widget)
	}
}

func TestRegistry_ExamplesValidate(t *testing.T) {
	for _, tag := range Tags() {
		res := ValidateValue(Example(tag), tag)
		assert.True(t, res.OK(), "Example(%s) = %q: %s", tag, Example(tag), res.Reason())
	}
}

func TestCategorize(t *testing.T) {
	groups := Categorize()
	require.Len(t, groups, 4)

	assert.Equal(t, []Tag{Char, String, Integer, Boolean, Float, Null}, groups[Primitive])
	assert.Equal(t, []Tag{Date, Time, DateTime}, groups[Temporal])
	assert.Equal(t, []Tag{UUID}, groups[Identifier])
	assert.Len(t, groups[Array], 9)

	total := 0
	for _, c := range Categories() {
		for _, tag := range groups[c] {
			if c == Array {
				assert.True(t, tag.IsArray())
			} else {
				assert.False(t, tag.IsArray())
			}
		}
		total += len(groups[c])
	}
	assert.Equal(t, len(Tags()), total, "every tag belongs to exactly one category")
}

func TestRegistry_UnknownTag(t *testing.T) {
	_, ok := Lookup("BLOB")
	assert.False(t, ok)
	assert.Equal(t, "Unknown data type", Describe("BLOB"))
	assert.Empty(t, Example("BLOB"))
}

func TestTags_ReturnsCopy(t *testing.T) {
	tags := Tags()
	tags[0] = "MUTATED"
	assert.Equal(t, Char, Tags()[0])
}
