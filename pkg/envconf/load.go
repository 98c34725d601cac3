// Package envconf populates config structs from environment variables.
//
// Fields are bound with an `env:"NAME"` tag. A missing variable is an error
// unless the field also carries a `default:"..."` tag. Untagged struct
// fields (and pointers to structs) are walked recursively, so configs can be
// composed from smaller sections.
package envconf

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

var (
	ErrMissingRequired = errors.New("missing required environment variable")
	ErrUnsupportedType = errors.New("unsupported field type")
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load fills dst, which must be a non-nil pointer to a struct.
func Load(dst any) error {
	if dst == nil {
		return errors.New("destination is nil")
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return errors.New("destination must be a non-nil pointer to a struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return errors.New("destination must point to a struct")
	}

	t := v.Type()
	for i := range v.NumField() {
		field := t.Field(i)
		value := v.Field(i)

		if !field.IsExported() {
			continue
		}

		name, tagged := field.Tag.Lookup("env")
		if !tagged || name == "" || name == "-" {
			err := descend(field, value)
			if err != nil {
				return err
			}

			continue
		}

		raw, ok := os.LookupEnv(name)
		if !ok {
			raw, ok = field.Tag.Lookup("default")
			if !ok {
				return fmt.Errorf("%w: %s (field %q)", ErrMissingRequired, name, field.Name)
			}
		}

		err := assign(value, raw)
		if err != nil {
			return fmt.Errorf("parse %s for field %q: %w", name, field.Name, err)
		}
	}

	return nil
}

// descend recurses into untagged struct and *struct fields.
func descend(field reflect.StructField, value reflect.Value) error {
	switch {
	case value.Kind() == reflect.Struct && field.Type != durationType:
		err := Load(value.Addr().Interface())
		if err != nil {
			return fmt.Errorf("load section %q: %w", field.Name, err)
		}
	case value.Kind() == reflect.Pointer && value.Type().Elem().Kind() == reflect.Struct:
		if value.IsNil() {
			value.Set(reflect.New(value.Type().Elem()))
		}

		err := Load(value.Interface())
		if err != nil {
			return fmt.Errorf("load section %q: %w", field.Name, err)
		}
	}

	return nil
}

func assign(value reflect.Value, raw string) error {
	if !value.CanSet() {
		return ErrUnsupportedType
	}

	if value.CanAddr() {
		u, ok := value.Addr().Interface().(encoding.TextUnmarshaler)
		if ok {
			err := u.UnmarshalText([]byte(raw))
			if err != nil {
				return fmt.Errorf("unmarshal text: %w", err)
			}

			return nil
		}
	}

	switch value.Kind() {
	case reflect.String:
		value.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse bool: %w", err)
		}

		value.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value.Type() == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("parse duration: %w", err)
			}

			value.SetInt(int64(d))

			return nil
		}

		n, err := strconv.ParseInt(raw, 10, value.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse int: %w", err)
		}

		value.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, value.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse uint: %w", err)
		}

		value.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, value.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse float: %w", err)
		}

		value.SetFloat(f)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, value.Type())
	}

	return nil
}
