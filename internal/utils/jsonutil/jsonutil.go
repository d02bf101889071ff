package jsonutil

import (
	"encoding/json"
	"reflect"

	"golang.org/x/xerrors"
)

// FormatJSON pretty-formats the object.
func FormatJSON(input interface{}) (string, error) {
	output, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", xerrors.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// MarshalWithoutNulls marshals the object after dropping its null map entries.
func MarshalWithoutNulls(input interface{}) ([]byte, error) {
	FilterNulls(input)
	output, err := json.Marshal(input)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal payload: %w", err)
	}

	return output, nil
}

// FilterNulls recursively removes null entries from the maps of the object.
func FilterNulls(v interface{}) {
	filterNulls(reflect.ValueOf(v))
}

func filterNulls(v reflect.Value) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		for _, key := range v.MapKeys() {
			val := v.MapIndex(key)
			if isNil(val) {
				v.SetMapIndex(key, reflect.Value{})
				continue
			}

			filterNulls(val)
		}

	case reflect.Array, reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			filterNulls(v.Index(i))
		}
	}
}

func isNil(v reflect.Value) bool {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
