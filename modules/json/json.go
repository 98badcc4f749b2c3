/*
File    : gosetl/modules/json/json.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package json is the built-in `json` module: a single `load(path)`
// function that reads a file and deep-converts its parsed document into
// the language's own Object types.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/akashmaji946/gosetl/object"
)

// Module builds the `json` hash exposed to `import json`.
func Module() object.Object {
	load := object.MakeFunc(func(self object.Object, args []object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("json.load: expected 1 argument, got %d", len(args))
		}
		path, ok := object.AsStr(args[0])
		if !ok {
			return nil, fmt.Errorf("json.load: path must be a 'str', not '%s'", object.TypeName(args[0]))
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("json.load: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("json.load: %w", err)
		}
		return convert(value)
	})
	return object.MakeHash([]object.HashField{{Name: "load", Value: load}})
}

// convert maps a decoded JSON value onto the language's value types:
// objects become hash, arrays become list, numbers become i64 when they
// fit exactly, otherwise f64.
func convert(value any) (object.Object, error) {
	switch v := value.(type) {
	case nil:
		return object.Null, nil
	case bool:
		return object.MakeBool(v), nil
	case string:
		return object.MakeStr(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return object.MakeI64(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("json.load: invalid number %q", v.String())
		}
		return object.MakeF64(f), nil
	case []any:
		elems := make([]object.Object, 0, len(v))
		for _, e := range v {
			o, err := convert(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, o)
		}
		return object.MakeList(elems), nil
	case map[string]any:
		fields := make([]object.HashField, 0, len(v))
		for k, val := range v {
			o, err := convert(val)
			if err != nil {
				return nil, err
			}
			fields = append(fields, object.HashField{Name: k, Value: o})
		}
		return object.MakeHash(fields), nil
	default:
		return nil, fmt.Errorf("json.load: unsupported json value of type %T", v)
	}
}
