package walkers

// Loading an AST from its JSON interchange form. External tools (the admin
// pages, test harnesses) describe trees as tagged arrays:
//
//     ["and", [["keyword_query", [["keyword", "author"],
//                                 ["value", "ellis"]]],
//              ["value_query", ["value", "quark"]]]]
//
// Binary nodes carry a two-element payload, unary nodes carry the child
// node, leaves carry their string, and "empty" carries null.

import (
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/bibql/go-bibql/internal/ast"
	"github.com/bibql/go-bibql/internal/jsonutils"
)

// ASTFromJSON parses a JSON document into an AST.
func ASTFromJSON(data []byte) (ast.Node, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("walkers: invalid AST JSON: %s", err)
	}
	return nodeFromJSON(v)
}

func nodeFromJSON(v *fastjson.Value) (ast.Node, error) {
	tag, payload, err := jsonutils.TaggedNode(v)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "and":
		left, right, err := binaryFromJSON(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		return &ast.AndOp{Left: left, Right: right}, nil
	case "or":
		left, right, err := binaryFromJSON(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		return &ast.OrOp{Left: left, Right: right}, nil
	case "not":
		op, err := nodeFromJSON(payload)
		if err != nil {
			return nil, err
		}
		return &ast.NotOp{Op: op}, nil
	case "group":
		op, err := nodeFromJSON(payload)
		if err != nil {
			return nil, err
		}
		return &ast.GroupOp{Op: op}, nil
	case "keyword_query", "spires_query":
		left, right, err := binaryFromJSON(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		key, ok := left.(*ast.Keyword)
		if !ok {
			return nil, fmt.Errorf("%q node: left side must be a keyword, got %s", tag, left)
		}
		if tag == "spires_query" {
			return &ast.SpiresOp{Key: key, Val: right}, nil
		}
		return &ast.KeywordOp{Key: key, Val: right}, nil
	case "value_query":
		val, err := nodeFromJSON(payload)
		if err != nil {
			return nil, err
		}
		return &ast.ValueQuery{Val: val}, nil
	case "range":
		low, high, err := binaryFromJSON(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		return &ast.RangeOp{Low: low, High: high}, nil
	case "greater":
		op, err := nodeFromJSON(payload)
		if err != nil {
			return nil, err
		}
		return &ast.GreaterOp{Op: op}, nil
	case "greater_equal":
		op, err := nodeFromJSON(payload)
		if err != nil {
			return nil, err
		}
		return &ast.GreaterEqualOp{Op: op}, nil
	case "lower":
		op, err := nodeFromJSON(payload)
		if err != nil {
			return nil, err
		}
		return &ast.LowerOp{Op: op}, nil
	case "lower_equal":
		op, err := nodeFromJSON(payload)
		if err != nil {
			return nil, err
		}
		return &ast.LowerEqualOp{Op: op}, nil
	case "keyword":
		s, err := jsonutils.StringValue(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		return &ast.Keyword{Value: s}, nil
	case "value":
		s, err := jsonutils.StringValue(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		return &ast.Value{Value: s}, nil
	case "single_quoted":
		s, err := jsonutils.StringValue(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		return &ast.SingleQuotedValue{Value: s}, nil
	case "double_quoted":
		s, err := jsonutils.StringValue(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		return &ast.DoubleQuotedValue{Value: s}, nil
	case "regex":
		s, err := jsonutils.StringValue(payload)
		if err != nil {
			return nil, fmt.Errorf("%q node: %s", tag, err)
		}
		return &ast.RegexValue{Value: s}, nil
	case "empty":
		return &ast.EmptyQuery{}, nil
	default:
		return nil, fmt.Errorf("unknown AST node tag %q", tag)
	}
}

func binaryFromJSON(payload *fastjson.Value) (ast.Node, ast.Node, error) {
	lv, rv, err := jsonutils.Pair(payload)
	if err != nil {
		return nil, nil, err
	}
	left, err := nodeFromJSON(lv)
	if err != nil {
		return nil, nil, err
	}
	right, err := nodeFromJSON(rv)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
