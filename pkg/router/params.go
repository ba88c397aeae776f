package router

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

// ParseParams populates a struct from extracted path parameters. The target
// must be a pointer to a struct with `param` tags:
//
//	type RecommendationsParams struct {
//	    UserName string `param:"userName"`
//	}
func ParseParams(params routetree.Params, target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("param")
		if name == "" {
			continue
		}
		value, ok := params[name]
		if !ok {
			continue
		}
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if err := setField(field, value); err != nil {
			return fmt.Errorf("parsing param %q: %w", name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field kind: %s", field.Kind())
	}
	return nil
}
