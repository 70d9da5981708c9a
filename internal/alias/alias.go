// Package alias holds the mapping from SPIRES-era field aliases to the
// canonical index field names. The mapping is data: the built-in table
// covers the historical SPIRES field set, and deployments extend or
// override it from the `[aliases]` table of the config file.
package alias

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml"
)

// DefaultField is the canonical field substituted for legacy keywords the
// table does not know, turning unknown keys into an all-fields search
// instead of an error.
const DefaultField = "anyfield"

// canonicalFields maps each canonical field name to its legacy aliases.
// Every canonical name is also accepted as its own alias.
var canonicalFields = map[string][]string{
	"abstract":      {"abs"},
	"affiliation":   {"aff", "af", "affil", "institution", "inst"},
	"anyfield":      {"any"},
	"author":        {"a", "au", "name"},
	"authorcount":   {"ac"},
	"caption":       {},
	"cited":         {"topcite", "citations"},
	"citedby":       {},
	"collaboration": {"cn"},
	"confnumber":    {"cnum"},
	"country":       {"cc"},
	"date":          {"d"},
	"doi":           {},
	"eprint":        {"arxiv", "bb", "bull"},
	"exactauthor":   {"ea"},
	"experiment":    {"exp"},
	"firstauthor":   {"fa"},
	"fulltext":      {"ft"},
	"journal":       {"j", "coden"},
	"journalpage":   {"jp"},
	"journalyear":   {"jy"},
	"keyword":       {"k", "kw", "keywords"},
	"note":          {},
	"primarch":      {},
	"recid":         {},
	"refersto":      {},
	"report":        {"r", "rn", "rept", "reportnumber"},
	"subject":       {"field", "scl", "ps"},
	"texkey":        {},
	"title":         {"t", "ti"},
	"type":          {"tc", "ty", "typecode"},
}

// Table resolves legacy field names to canonical ones. Build one with New,
// optionally merge config overrides, then treat it as read-only: Resolve is
// safe for concurrent use once construction is done.
type Table struct {
	fields       map[string]string
	defaultField string
}

// New returns a Table with the built-in SPIRES alias set and DefaultField
// as the fallback.
func New() *Table {
	t := &Table{
		fields:       make(map[string]string, 3*len(canonicalFields)),
		defaultField: DefaultField,
	}
	for canonical, aliases := range canonicalFields {
		t.fields[canonical] = canonical
		for _, a := range aliases {
			t.fields[a] = canonical
		}
	}
	return t
}

// SetDefault changes the fallback field for unknown legacy keywords.
func (t *Table) SetDefault(field string) {
	t.defaultField = field
}

// Default returns the fallback field.
func (t *Table) Default() string {
	return t.defaultField
}

// Add maps one legacy alias to a canonical field, overriding any built-in
// entry for that alias.
func (t *Table) Add(aliasName, canonical string) {
	t.fields[strings.ToLower(aliasName)] = canonical
}

// Resolve maps a legacy field name to its canonical name. Lookup is
// case-insensitive. The second return is false on a miss, in which case the
// default field is returned.
func (t *Table) Resolve(name string) (string, bool) {
	if canonical, ok := t.fields[strings.ToLower(name)]; ok {
		return canonical, true
	}
	return t.defaultField, false
}

// Len returns the number of alias entries.
func (t *Table) Len() int {
	return len(t.fields)
}

// MergeTOML merges alias overrides from a TOML tree of the form
// `alias = "canonical"`. Non-string values are an error: a broken alias
// configuration should fail at startup, not mis-route queries.
func (t *Table) MergeTOML(tree *toml.Tree) error {
	for _, key := range tree.Keys() {
		val := tree.Get(key)
		canonical, ok := val.(string)
		if !ok {
			return fmt.Errorf("alias %q: expected string value, got %T", key, val)
		}
		t.Add(key, canonical)
	}
	return nil
}
