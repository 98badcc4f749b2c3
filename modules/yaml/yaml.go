/*
File    : gosetl/modules/yaml/yaml.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package yaml is the built-in `yaml` module: a single `load(path)`
// function mirroring modules/json but backed by gopkg.in/yaml.v3.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akashmaji946/gosetl/object"
)

// Module builds the `yaml` hash exposed to `import yaml`.
func Module() object.Object {
	load := object.MakeFunc(func(self object.Object, args []object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("yaml.load: expected 1 argument, got %d", len(args))
		}
		path, ok := object.AsStr(args[0])
		if !ok {
			return nil, fmt.Errorf("yaml.load: path must be a 'str', not '%s'", object.TypeName(args[0]))
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("yaml.load: %w", err)
		}
		var value any
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("yaml.load: %w", err)
		}
		return convert(value)
	})
	return object.MakeHash([]object.HashField{{Name: "load", Value: load}})
}

func convert(value any) (object.Object, error) {
	switch v := value.(type) {
	case nil:
		return object.Null, nil
	case bool:
		return object.MakeBool(v), nil
	case int:
		return object.MakeI64(int64(v)), nil
	case int64:
		return object.MakeI64(v), nil
	case float64:
		return object.MakeF64(v), nil
	case string:
		return object.MakeStr(v), nil
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
		return nil, fmt.Errorf("yaml.load: unsupported yaml value of type %T", v)
	}
}
