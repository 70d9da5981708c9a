package bibql

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"

	"github.com/bibql/go-bibql/internal/ast"
)

// Tree-building helpers to keep the expectation tables readable.
func kw(s string) *ast.Keyword           { return &ast.Keyword{Value: s} }
func val(s string) *ast.Value            { return &ast.Value{Value: s} }
func sq(s string) *ast.SingleQuotedValue { return &ast.SingleQuotedValue{Value: s} }
func dq(s string) *ast.DoubleQuotedValue { return &ast.DoubleQuotedValue{Value: s} }
func rx(s string) *ast.RegexValue        { return &ast.RegexValue{Value: s} }
func vq(v ast.Node) *ast.ValueQuery      { return &ast.ValueQuery{Val: v} }
func grp(v ast.Node) *ast.GroupOp        { return &ast.GroupOp{Op: v} }
func not(v ast.Node) *ast.NotOp          { return &ast.NotOp{Op: v} }
func and(l, r ast.Node) *ast.AndOp       { return &ast.AndOp{Left: l, Right: r} }
func or(l, r ast.Node) *ast.OrOp         { return &ast.OrOp{Left: l, Right: r} }
func rng(l, r ast.Node) *ast.RangeOp     { return &ast.RangeOp{Low: l, High: r} }
func kwq(k string, v ast.Node) *ast.KeywordOp {
	return &ast.KeywordOp{Key: kw(k), Val: v}
}
func spq(k string, v ast.Node) *ast.SpiresOp {
	return &ast.SpiresOp{Key: kw(k), Val: v}
}

type parseTestCase struct {
	name      string
	input     string
	tree      ast.Node
	errSubstr string // expected substring of error from parsing
}

var parseTestCases = []parseTestCase{
	{"empty", "", &ast.EmptyQuery{}, ""},
	{"spaces only", " \t\n", &ast.EmptyQuery{}, ""},

	{"bare value", "bar", vq(val("bar")), ""},
	{"adjacent bare values", "J. Ellis",
		and(vq(val("J.")), vq(val("Ellis"))), ""},

	// Basic keyword:value
	{"keyword value", "foo:bar", kwq("foo", val("bar")), ""},
	{"keyword value with space", "foo: bar", kwq("foo", val("bar")), ""},
	{"numeric keyword", "999C5: bar", kwq("999C5", val("bar")), ""},

	// Quoted values
	{"single quoted", "foo: 'bar'", kwq("foo", sq("bar")), ""},
	{"double quoted", `foo: "bar"`, kwq("foo", dq("bar")), ""},
	{"regex", "foo: /bar/", kwq("foo", rx("bar")), ""},
	{"nested quotes preserved", `foo: "'bar'"`, kwq("foo", dq("'bar'")), ""},
	{"quoted author", `author:"Ellis, J"`, kwq("author", dq("Ellis, J")), ""},

	// Ranges
	{"range", "year: 2000->2012",
		kwq("year", rng(val("2000"), val("2012"))), ""},
	{"range of dashed dates", "year: 2000-10->2012-09",
		kwq("year", rng(val("2000-10"), val("2012-09"))), ""},
	{"range with spaces around arrow", "year: 2000-10 -> 2012-09",
		kwq("year", rng(val("2000-10"), val("2012-09"))), ""},
	{"range of quoted endpoints", `year: "2000"->"2012"`,
		kwq("year", rng(dq("2000"), dq("2012"))), ""},

	// Star patterns
	{"trailing star", "foo: hello*", kwq("foo", val("hello*")), ""},
	{"inner star", "foo: he*o", kwq("foo", val("he*o")), ""},
	{"leading star", "foo: *hello", kwq("foo", val("*hello")), ""},

	// Value assembly
	{"mid-word quote", "foo: O'Shea", kwq("foo", val("O'Shea")), ""},
	{"cyrillic value", "foo: пушкин", kwq("foo", val("пушкин")), ""},
	{"accented value", "foo: Lemaître", kwq("foo", val("Lemaître")), ""},
	{"eprint identifier", "refersto:hep-th/0201100",
		kwq("refersto", val("hep-th/0201100")), ""},
	{"group-bearing identifier", "U(1)", vq(val("U(1)")), ""},
	{"group with comma", "SL(2,Z)", vq(val("SL(2,Z)")), ""},
	{"signs in parens", "e(+)e(-)", vq(val("e(+)e(-)")), ""},

	// Boolean structure
	{"adjacency is and", "foo:bar foo:bar",
		and(kwq("foo", val("bar")), kwq("foo", val("bar"))), ""},
	{"explicit and", "foo:bar and foo:bar",
		and(kwq("foo", val("bar")), kwq("foo", val("bar"))), ""},
	{"explicit or", "foo:bar or foo:bar",
		or(kwq("foo", val("bar")), kwq("foo", val("bar"))), ""},
	{"pipe is or", "foo:bar | foo:bar",
		or(kwq("foo", val("bar")), kwq("foo", val("bar"))), ""},
	{"not connective", "foo:bar not foo:bar",
		and(kwq("foo", val("bar")), not(kwq("foo", val("bar")))), ""},
	{"minus connective", "foo:bar -foo:bar",
		and(kwq("foo", val("bar")), not(kwq("foo", val("bar")))), ""},
	{"prefix not", "not foo", not(vq(val("foo"))), ""},
	{"adjacency folds left", "a b c",
		and(and(vq(val("a")), vq(val("b"))), vq(val("c"))), ""},
	{"adjacency binds before or", "a b or c",
		or(and(vq(val("a")), vq(val("b"))), vq(val("c"))), ""},
	{"parens are transparent", "(foo:bar)", kwq("foo", val("bar")), ""},
	{"double parens", "((foo:bar))", kwq("foo", val("bar")), ""},
	{"parens group", "foo:bar or (foo:bar and baz:qux)",
		or(kwq("foo", val("bar")),
			and(kwq("foo", val("bar")), kwq("baz", val("qux")))), ""},
	{"symbolic chain distributes negation", "aaa +bbb -ccc +ddd",
		and(vq(val("aaa")),
			and(vq(val("bbb")),
				not(and(vq(val("ccc")), vq(val("ddd")))))), ""},

	// Second-order keywords
	{"nested keyword query", "refersto:author:Ellis",
		kwq("refersto", kwq("author", val("Ellis"))), ""},
	{"nested with space separator", "refersto author:Ellis",
		kwq("refersto", kwq("author", val("Ellis"))), ""},
	{"second-order group", "refersto (foo:bar or baz:qux)",
		kwq("refersto",
			or(kwq("foo", val("bar")), kwq("baz", val("qux")))), ""},
	{"keyword group value", "foo:(bar or baz)",
		kwq("foo", or(vq(val("bar")), vq(val("baz")))), ""},

	// Comparisons in keyword position
	{"keyword comparison", "date:>1984",
		kwq("date", &ast.GreaterOp{Op: val("1984")}), ""},
	{"keyword lte comparison", "cited:<=200",
		kwq("cited", &ast.LowerEqualOp{Op: val("200")}), ""},

	// SPIRES syntax
	{"find", "find t quark", spq("t", val("quark")), ""},
	{"find abbreviated", "f t quark", spq("t", val("quark")), ""},
	{"find multiword value", "find a richter, b",
		spq("a", dq("richter, b")), ""},
	{"find journal value", "find j phys.rev.,D50,1140",
		spq("j", val("phys.rev.,D50,1140")), ""},
	{"find value with colon", "find eprint arxiv:1007.5048",
		spq("eprint", val("arxiv:1007.5048")), ""},
	{"find quoted value", `find fulltext "quark-gluon plasma"`,
		spq("fulltext", dq("quark-gluon plasma")), ""},
	{"find comparison", "find date > 1984",
		spq("date", &ast.GreaterOp{Op: val("1984")}), ""},
	{"find before", "find date before 1984",
		spq("date", &ast.LowerOp{Op: val("1984")}), ""},
	{"find after", "find date after 1984",
		spq("date", &ast.GreaterOp{Op: val("1984")}), ""},
	{"find bare range", "find 1984->2000",
		vq(rng(val("1984"), val("2000"))), ""},
	{"find keyword range", "find d 1984-01->2000-01",
		spq("d", rng(val("1984-01"), val("2000-01"))), ""},
	{"find trailing plus", "find topcite 200+",
		spq("topcite", &ast.GreaterEqualOp{Op: val("200")}), ""},
	{"find trailing minus", "find d 2014-01-",
		spq("d", &ast.LowerEqualOp{Op: val("2014-01")}), ""},
	{"find connective chain", "find a richter, b and t quark and date > 1984",
		and(spq("a", dq("richter, b")),
			and(spq("t", val("quark")),
				spq("date", &ast.GreaterOp{Op: val("1984")}))), ""},
	{"find implicit keyword clause", "find a x and y",
		and(spq("a", val("x")), vq(val("y"))), ""},
	{"find and-not", "find a x and not y",
		and(spq("a", val("x")), not(vq(val("y")))), ""},
	{"find or chain", "find a l everett or t light higgs and j phys.rev.lett. and primarch hep-ph",
		or(spq("a", dq("l everett")),
			and(spq("t", dq("light higgs")),
				and(spq("j", val("phys.rev.lett.")),
					spq("primarch", val("hep-ph"))))), ""},
	{"find group scope", "find a ellis and (t quark or lepton) and smith",
		and(spq("a", val("ellis")),
			and(grp(or(spq("t", val("quark")), vq(val("lepton")))),
				vq(val("smith")))), ""},

	// Errors
	{"unterminated single quote", "foo: 'bar", nil, "unterminated"},
	{"unterminated double quote", `foo: "bar`, nil, "unterminated"},
	{"unterminated regex", "foo: /bar", nil, "unterminated"},
	{"unclosed paren", "(foo:bar", nil, "mismatched parentheses"},
	{"unmatched close paren", "foo:bar)", nil, "unmatched close parenthesis"},
	{"colon without rhs", "foo:", nil, "expected a value"},
	{"colon without keyword", ":bar", nil, "expected a value"},
	{"arrow without high endpoint", "year: 2000->", nil, "expected a value"},
	{"single-quoted range endpoint", "year: 'a'->'b'", nil, "range endpoint"},
	{"stray operator", "> 5", nil, "expected a value"},
}

func equalErrSubstr(err error, errSubstr string) bool {
	if err == nil {
		return errSubstr == ""
	} else if errSubstr == "" {
		return false
	}
	return strings.Contains(err.Error(), errSubstr)
}

func TestParse(t *testing.T) {
	for _, tc := range parseTestCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Logf("  input: %#v\n", tc.input)
			tree, err := Parse(tc.input)
			if err != nil {
				t.Logf("  err: %s\n", err)
			}
			if !equalErrSubstr(err, tc.errSubstr) {
				t.Fatalf(
					"%s:\n"+
						"input:\n"+
						"\t%s\n"+
						"got error:\n"+
						"\t%+v\n"+
						"expected error with this substring:\n"+
						"\t%q\n",
					tc.name, tc.input, err, tc.errSubstr)
			}
			if tc.tree == nil {
				return
			}
			t.Logf("  tree: %# v\n", pretty.Formatter(tree))
			if tree == nil || !tc.tree.Equal(tree) {
				t.Errorf("%s:\ninput:\n\t%s\ndiff (-want +got):\n%s",
					tc.name, tc.input, cmp.Diff(tc.tree, tree))
			}
		})
	}
}

// Parenthesising a balanced query must not change its parse.
func TestParseParenTransparency(t *testing.T) {
	queries := []string{
		"foo:bar",
		"a b c",
		"foo:bar or (foo:bar and baz:qux)",
		`author:"Ellis, J"`,
	}
	for _, q := range queries {
		plain := MustParse(q)
		wrapped := MustParse("(" + q + ")")
		if !plain.Equal(wrapped) {
			t.Errorf("parse(%q) != parse(%q):\n%s\nvs\n%s",
				q, "("+q+")", plain, wrapped)
		}
	}
}

// Implicit adjacency is AND.
func TestParseAdjacencyIsAnd(t *testing.T) {
	if a, b := MustParse("a b"), MustParse("a and b"); !a.Equal(b) {
		t.Errorf("parse(\"a b\") != parse(\"a and b\"): %s vs %s", a, b)
	}
}

func TestParseErrOffsets(t *testing.T) {
	_, err := Parse("foo:bar)")
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a *SyntaxError, got %T: %v", err, err)
	}
	if serr.Offset != 7 {
		t.Errorf("offset %d, expected 7", serr.Offset)
	}
	if serr.Tok != ")" {
		t.Errorf("offending token %q, expected \")\"", serr.Tok)
	}

	_, err = Parse("foo: 'bar")
	var lerr *LexError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected a *LexError, got %T: %v", err, err)
	}
	if lerr.Offset != 5 {
		t.Errorf("offset %d, expected 5", lerr.Offset)
	}
}

func TestParseReentrant(t *testing.T) {
	// Parses share no state; run a few concurrently to let the race
	// detector check that.
	queries := []string{
		"find a ellis and t quark",
		"foo:bar or (foo:bar and baz:qux)",
		"e(+)e(-)",
	}
	done := make(chan bool)
	for i := 0; i < 8; i++ {
		go func() {
			for _, q := range queries {
				MustParse(q)
			}
			done <- true
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
