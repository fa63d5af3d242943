package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/taskboard-pm/apiserver/internal/apierr"
)

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// expectation is implemented by custom field types to describe the accepted JSON shapes.
type expectation interface {
	Expected() string
}

// DecodeJSON decodes a JSON object into dst and validates it. Every problem is
// collected: type mismatches, unknown keys and rule violations end up in one
// 422 error. Declared defaults are applied only when the payload is valid.
func (v *Validator) DecodeJSON(body []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: destination must be a pointer to a struct, got %T", dst)
	}

	raw := map[string]json.RawMessage{}
	if body = bytes.TrimSpace(body); len(body) > 0 {
		if !json.Valid(body) {
			return apierr.BadRequest("Malformed JSON body")
		}
		if body[0] != '{' {
			return apierr.Unprocessable(`"value" must be of type object`)
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return apierr.BadRequest("Malformed JSON body")
		}
	}

	elem := rv.Elem()
	t := elem.Type()

	var found []violation
	known := make(map[string]bool, t.NumField())
	failed := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		name, ok := jsonFieldName(t.Field(i))
		if !ok {
			continue
		}
		known[name] = true

		data, present := raw[name]
		if !present {
			continue
		}
		if msg, bad := decodeValue(name, data, elem.Field(i)); bad {
			found = append(found, violation{field: i, message: msg})
			failed[name] = true
		}
	}

	if allower, ok := dst.(UnknownAllower); !ok || !allower.AllowUnknown() {
		var unknown []string
		for key := range raw {
			if !known[key] {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			found = append(found, violation{field: t.NumField(), message: fmt.Sprintf(`"%s" is not allowed`, key)})
		}
	}

	found = append(found, v.violations(dst, failed)...)
	if len(found) > 0 {
		return newValidationError(found)
	}

	if d, ok := dst.(Defaulter); ok {
		d.ApplyDefaults()
	}
	return nil
}

// DecodeParams fills the string fields of dst from lookup, keyed by json name, and validates them.
func (v *Validator) DecodeParams(lookup func(name string) string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: destination must be a pointer to a struct, got %T", dst)
	}

	elem := rv.Elem()
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		name, ok := jsonFieldName(t.Field(i))
		if !ok || elem.Field(i).Kind() != reflect.String {
			continue
		}
		elem.Field(i).SetString(lookup(name))
	}
	return v.Struct(dst)
}

// decodeValue unmarshals one JSON value into field. It returns a client message
// and true when the value has the wrong shape.
func decodeValue(name string, data json.RawMessage, field reflect.Value) (string, bool) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", false
	}

	if field.CanAddr() && field.Addr().Type().Implements(unmarshalerType) {
		if err := json.Unmarshal(data, field.Addr().Interface()); err != nil {
			return typeMessage(name, field, data), true
		}
		return "", false
	}

	switch field.Kind() {
	case reflect.Pointer:
		ptr := reflect.New(field.Type().Elem())
		if msg, bad := decodeValue(name, data, ptr.Elem()); bad {
			return msg, true
		}
		field.Set(ptr)
		return "", false

	case reflect.Slice:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Sprintf(`"%s" must be an array`, name), true
		}
		out := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			if msg, bad := decodeValue(fmt.Sprintf("%s[%d]", name, i), item, out.Index(i)); bad {
				return msg, true
			}
		}
		field.Set(out)
		return "", false
	}

	if err := json.Unmarshal(data, field.Addr().Interface()); err != nil {
		return typeMessage(name, field, data), true
	}
	return "", false
}

func typeMessage(name string, field reflect.Value, data []byte) string {
	if field.CanAddr() {
		if e, ok := field.Addr().Interface().(expectation); ok {
			return fmt.Sprintf(`"%s" must be %s`, name, e.Expected())
		}
	}

	switch field.Kind() {
	case reflect.String:
		return fmt.Sprintf(`"%s" must be a string`, name)
	case reflect.Bool:
		return fmt.Sprintf(`"%s" must be a boolean`, name)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) {
			return fmt.Sprintf(`"%s" must be an integer`, name)
		}
		return fmt.Sprintf(`"%s" must be a number`, name)
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf(`"%s" must be a number`, name)
	default:
		return fmt.Sprintf(`"%s" must be of type object`, name)
	}
}
