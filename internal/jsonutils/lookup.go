package jsonutils

// Convenience functions for working with the fastjson API.

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// TaggedNode splits a `[tag, payload]` JSON array into its parts. The
// serialised AST interchange format tags every node this way, e.g.
// `["keyword", "author"]` or `["and", [left, right]]`.
func TaggedNode(v *fastjson.Value) (tag string, payload *fastjson.Value, err error) {
	arr, err := v.Array()
	if err != nil {
		return "", nil, fmt.Errorf("expected a [tag, payload] array: %s", err)
	}
	if len(arr) != 2 {
		return "", nil, fmt.Errorf("expected a [tag, payload] array, got %d elements", len(arr))
	}
	tagBytes, err := arr[0].StringBytes()
	if err != nil {
		return "", nil, fmt.Errorf("node tag is not a string: %s", err)
	}
	return string(tagBytes), arr[1], nil
}

// StringValue returns v as a Go string, erroring on any other JSON type.
func StringValue(v *fastjson.Value) (string, error) {
	b, err := v.StringBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Pair returns the two elements of a JSON array of length two: the child
// payload of every binary node.
func Pair(v *fastjson.Value) (*fastjson.Value, *fastjson.Value, error) {
	arr, err := v.Array()
	if err != nil {
		return nil, nil, err
	}
	if len(arr) != 2 {
		return nil, nil, fmt.Errorf("expected 2 elements, got %d", len(arr))
	}
	return arr[0], arr[1], nil
}
