package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var errBadDest = errors.New("destination must be a non-nil pointer to a struct")

// decodeValues copies string values into the fields of the struct dst
// points to. Fields are keyed by their json tag, falling back to the
// field name. Nested structs read "parent.child" keys.
func decodeValues(values map[string][]string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errBadDest
	}
	return decodeStruct(rv.Elem(), values)
}

func decodeStruct(v reflect.Value, values map[string][]string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		if sf.Anonymous && fv.Kind() == reflect.Struct {
			if err := decodeStruct(fv, values); err != nil {
				return err
			}
			continue
		}

		key := fieldKey(sf)
		if fv.Kind() == reflect.Struct {
			if err := decodeStruct(fv, scoped(values, key+".")); err != nil {
				return err
			}
			continue
		}

		raw, ok := values[key]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
	}
	return nil
}

func fieldKey(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

func scoped(values map[string][]string, prefix string) map[string][]string {
	out := make(map[string][]string)
	for k, v := range values {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			out[rest] = v
		}
	}
	return out
}

func assign(fv reflect.Value, raw []string) error {
	switch fv.Kind() {
	case reflect.Pointer:
		if raw[0] == "" {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		elem := reflect.New(fv.Type().Elem())
		if err := assignScalar(elem.Elem(), raw[0]); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	case reflect.Slice:
		out := reflect.MakeSlice(fv.Type(), len(raw), len(raw))
		for i, s := range raw {
			item := out.Index(i)
			if item.Kind() == reflect.Pointer {
				item.Set(reflect.New(item.Type().Elem()))
				item = item.Elem()
			}
			if err := assignScalar(item, s); err != nil {
				return err
			}
		}
		fv.Set(out)
		return nil
	}
	return assignScalar(fv, raw[0])
}

func assignScalar(fv reflect.Value, s string) error {
	if s == "" {
		return nil
	}
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}
