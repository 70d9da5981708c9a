package walkers_test

import (
	"strings"
	"testing"

	"github.com/bibql/go-bibql/internal/alias"
	"github.com/bibql/go-bibql/internal/ast"
	"github.com/bibql/go-bibql/internal/bibql"
	"github.com/bibql/go-bibql/internal/walkers"
)

func canonicalise(t *testing.T, query string) ast.Node {
	t.Helper()
	tree, err := bibql.Parse(query)
	if err != nil {
		t.Fatalf("parse %q: %s", query, err)
	}
	out, err := walkers.NewCanonicalizer(alias.New()).Transform(tree)
	if err != nil {
		t.Fatalf("canonicalise %q: %s", query, err)
	}
	return out
}

func render(t *testing.T, n ast.Node) string {
	t.Helper()
	s, err := (&walkers.Printer{}).Render(n)
	if err != nil {
		t.Fatalf("render %s: %s", n, err)
	}
	return s
}

// End-to-end: input query to canonical printed form.
var canonicalTestCases = []struct {
	name  string
	input string
	want  string
}{
	{"keyword value", "foo:bar", "foo:bar"},
	{"quoted author", `author:"Ellis, J"`, `author:"Ellis, J"`},
	{"range", "year: 2000->2012", "year:2000->2012"},
	{"boolean group", "foo:bar or (foo:bar and baz:qux)",
		"(foo:bar or (foo:bar and baz:qux))"},
	{"find two clauses", "find a ellis and t quark",
		"(author:ellis and title:quark)"},
	{"find or chain",
		"find a l everett or t light higgs and j phys.rev.lett. and primarch hep-ph",
		`(author:"l everett" or (title:"light higgs" and (journal:phys.rev.lett. and primarch:hep-ph)))`},
	{"signs in parens", "e(+)e(-)", "e(+)e(-)"},
	{"nested keyword query", "refersto:author:Ellis", "refersto:author:Ellis"},
	{"symbolic chain", "aaa +bbb -ccc +ddd",
		"(aaa and (bbb and (not (ccc and ddd))))"},
	{"empty", "", ""},

	// Implicit keyword propagation
	{"propagated keyword", "find a x and y", "(author:x and author:y)"},
	{"propagation over and-not", "find a x and not y",
		"(author:x and (not author:y))"},
	{"propagation scoped to group",
		"find a ellis and (t quark or lepton) and smith",
		"(author:ellis and ((title:quark or title:lepton) and author:smith))"},

	// Alias resolution
	{"alias au", "find au ellis", "author:ellis"},
	{"alias topcite", "find topcite 200+", "cited:>=200"},
	{"alias rept", "find rept CERN-TH-4036", "report:CERN-TH-4036"},
	{"unknown key searches all fields", "find zzz ellis", "anyfield:ellis"},

	// Comparisons survive the rewrite
	{"find greater", "find date > 1984", "date:>1984"},
	{"find after", "find date after 1984", "date:>1984"},
	{"find before", "find d before 1984", "date:<1984"},
	{"find trailing minus", "find d 2014-01-", "date:<=2014-01"},
	{"bare range stays bare", "find 1984->2000", "1984->2000"},

	// Modern queries pass through unchanged
	{"modern untouched", "a b c", "((a and b) and c)"},
	{"modern keyword not aliased", "t:quark", "t:quark"},
}

func TestCanonicalise(t *testing.T) {
	for _, tc := range canonicalTestCases {
		t.Run(tc.name, func(t *testing.T) {
			got := render(t, canonicalise(t, tc.input))
			if got != tc.want {
				t.Errorf("input %q:\ngot      %q\nexpected %q", tc.input, got, tc.want)
			}
		})
	}
}

// After canonicalisation no SPIRES node remains: reparsing the printed
// canonical form must reproduce the canonical tree exactly, which it could
// not if the tree still printed as `find ...`.
func TestCanonicalRoundTrip(t *testing.T) {
	queries := []string{
		"foo:bar",
		`author:"Ellis, J"`,
		"year: 2000->2012",
		"foo:bar or (foo:bar and baz:qux)",
		"find a ellis and t quark",
		"find a l everett or t light higgs and j phys.rev.lett. and primarch hep-ph",
		"e(+)e(-)",
		"refersto:author:Ellis",
		"aaa +bbb -ccc +ddd",
		"find date > 1984",
		"find topcite 200+",
		"find a x and y",
		"find a ellis and (t quark or lepton) and smith",
	}
	for _, q := range queries {
		canonical := canonicalise(t, q)
		printed := render(t, canonical)
		reparsed, err := bibql.Parse(printed)
		if err != nil {
			t.Errorf("reparse of %q (canonical of %q) failed: %s", printed, q, err)
			continue
		}
		if !canonical.Equal(reparsed) {
			t.Errorf("round trip of %q:\ncanonical %s\nreparsed  %s",
				q, canonical, reparsed)
		}
		if again := render(t, reparsed); again != printed {
			t.Errorf("print not idempotent for %q: %q then %q", q, printed, again)
		}
	}
}

// The propagated keyword goes through the alias table too.
func TestCanonicalisePropagatedAlias(t *testing.T) {
	out := render(t, canonicalise(t, "find a x and y"))
	if !strings.Contains(out, "author:y") {
		t.Errorf("second clause not propagated through alias table: %s", out)
	}
}

// A custom table with a different default field.
func TestCanonicaliseCustomDefault(t *testing.T) {
	table := alias.New()
	table.SetDefault("fulltext")
	tree := bibql.MustParse("find zzz ellis")
	out, err := walkers.NewCanonicalizer(table).Transform(tree)
	if err != nil {
		t.Fatal(err)
	}
	if got := render(t, out); got != "fulltext:ellis" {
		t.Errorf("got %q, expected %q", got, "fulltext:ellis")
	}
}

// Transform must not mutate its input tree.
func TestCanonicaliseLeavesInputAlone(t *testing.T) {
	tree := bibql.MustParse("find a ellis and t quark")
	before := tree.String()
	if _, err := walkers.NewCanonicalizer(alias.New()).Transform(tree); err != nil {
		t.Fatal(err)
	}
	if after := tree.String(); after != before {
		t.Errorf("input tree changed:\nbefore %s\nafter  %s", before, after)
	}
}
