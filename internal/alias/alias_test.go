package alias

import (
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	table := New()

	cases := map[string]string{
		"a":           "author",
		"au":          "author",
		"author":      "author",
		"name":        "author",
		"t":           "title",
		"ti":          "title",
		"d":           "date",
		"j":           "journal",
		"coden":       "journal",
		"aff":         "affiliation",
		"institution": "affiliation",
		"topcite":     "cited",
		"cited":       "cited",
		"r":           "report",
		"rn":          "report",
		"rept":        "report",
		"k":           "keyword",
		"kw":          "keyword",
		"ft":          "fulltext",
		"exp":         "experiment",
		"ea":          "exactauthor",
		"fa":          "firstauthor",
		"ac":          "authorcount",
		"cc":          "country",
		"cn":          "collaboration",
		"cnum":        "confnumber",
		"jy":          "journalyear",
		"jp":          "journalpage",
		"scl":         "subject",
		"ps":          "subject",
		"primarch":    "primarch",
		"refersto":    "refersto",
		"texkey":      "texkey",
		"recid":       "recid",
		"doi":         "doi",
		"any":         "anyfield",
	}
	for name, want := range cases {
		got, ok := table.Resolve(name)
		assert.True(t, ok, "alias %q should be known", name)
		assert.Equal(t, want, got, "alias %q", name)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	table := New()
	got, ok := table.Resolve("AU")
	assert.True(t, ok)
	assert.Equal(t, "author", got)
}

func TestResolveMiss(t *testing.T) {
	table := New()
	got, ok := table.Resolve("zzz")
	assert.False(t, ok)
	assert.Equal(t, DefaultField, got)

	table.SetDefault("fulltext")
	got, _ = table.Resolve("zzz")
	assert.Equal(t, "fulltext", got)
	assert.Equal(t, "fulltext", table.Default())
}

func TestAddOverride(t *testing.T) {
	table := New()
	table.Add("spokesperson", "author")
	got, ok := table.Resolve("Spokesperson")
	assert.True(t, ok)
	assert.Equal(t, "author", got)
}

func TestLen(t *testing.T) {
	// The built-in set covers the historical field aliases; the exact count
	// moves, but it should never shrink below the documented minimum.
	assert.GreaterOrEqual(t, New().Len(), 60)
}

func TestMergeTOML(t *testing.T) {
	tree, err := toml.Load(`
spokesperson = "author"
tc = "collaboration"
`)
	require.NoError(t, err)

	table := New()
	require.NoError(t, table.MergeTOML(tree))

	got, ok := table.Resolve("spokesperson")
	assert.True(t, ok)
	assert.Equal(t, "author", got)

	// Overrides win over the built-in entry.
	got, _ = table.Resolve("tc")
	assert.Equal(t, "collaboration", got)
}

func TestMergeTOMLRejectsNonStrings(t *testing.T) {
	tree, err := toml.Load(`spokesperson = 42`)
	require.NoError(t, err)

	err = New().MergeTOML(tree)
	assert.ErrorContains(t, err, "expected string value")
}
