package testutil

import (
	"reflect"

	"golang.org/x/xerrors"
)

// StaticRow is an in-memory database row. It feeds the scan callbacks of storage tests.
type StaticRow []any

func (r StaticRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return xerrors.Errorf("expected %d destinations, got %d", len(r), len(dest))
	}

	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Ptr || target.IsNil() {
			return xerrors.Errorf("destination %d is not a pointer", i)
		}

		elem := target.Elem()
		if r[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}

		src := reflect.ValueOf(r[i])
		switch {
		case src.Type().AssignableTo(elem.Type()):
			elem.Set(src)
		case src.Type().ConvertibleTo(elem.Type()):
			elem.Set(src.Convert(elem.Type()))
		default:
			return xerrors.Errorf("cannot scan %T into %v", r[i], elem.Type())
		}
	}

	return nil
}
