package jsonresult

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// decodeStrict decodes data into dst and verifies the payload actually has
// dst's shape. encoding/json silently zeroes missing members, which would
// make every object payload "match" every struct target; shape matching
// between two alternatives needs missing required fields to fail the
// attempt. Unknown object members are ignored, exactly as a plain decode
// ignores them.
//
// For struct targets, required fields must be present in the payload;
// nested struct fields, slice elements and map values are matched
// recursively. Required means exported, not tagged "-", no
// omitempty/omitzero option, and not pointer-typed. Types implementing
// json.Unmarshaler define their own shape and are exempt. Type mismatches
// fail through the decoder itself.
func decodeStrict(data []byte, dst any) error {
	// shape is checked before decoding so a payload missing required fields
	// reports the missing names rather than a decoder type error
	if err := matchShape(data, reflect.TypeOf(dst).Elem()); err != nil {
		return err
	}

	return json.Unmarshal(data, dst)
}

func matchShape(data []byte, t reflect.Type) error {
	nullable := false
	for t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		payload := bytes.TrimSpace(data)
		if bytes.Equal(payload, []byte("null")) {
			if nullable {
				return nil
			}
			return fmt.Errorf("cannot match null against %s", t)
		}

		var members map[string]json.RawMessage
		if err := json.Unmarshal(payload, &members); err != nil {
			// not an object; the decoder's own type error is the verdict
			return nil
		}

		return matchStruct(t, members)

	case reflect.Slice, reflect.Array:
		var elems []json.RawMessage
		if err := json.Unmarshal(bytes.TrimSpace(data), &elems); err != nil {
			return nil
		}

		for i, raw := range elems {
			if err := matchShape(raw, t.Elem()); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}

		return nil

	case reflect.Map:
		var members map[string]json.RawMessage
		if err := json.Unmarshal(bytes.TrimSpace(data), &members); err != nil {
			return nil
		}

		for k, raw := range members {
			if err := matchShape(raw, t.Elem()); err != nil {
				return fmt.Errorf("member %q: %w", k, err)
			}
		}

		return nil

	default:
		return nil
	}
}

func matchStruct(t reflect.Type, members map[string]json.RawMessage) error {
	var missing []string

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		// embedded structs are flattened into the parent, like encoding/json
		// does; this has to happen before the exported-field filter because
		// an embedded unexported struct type still promotes exported fields
		if f.Anonymous && name == "" {
			et := f.Type
			for et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if err := matchStruct(et, members); err != nil {
					return err
				}
				continue
			}
		}

		if !f.IsExported() {
			continue
		}

		if name == "" {
			name = f.Name
		}

		raw, present := member(members, name)
		if !present {
			if strings.Contains(opts, "omitempty") || strings.Contains(opts, "omitzero") {
				continue
			}
			if f.Type.Kind() == reflect.Pointer {
				continue
			}
			missing = append(missing, name)
			continue
		}

		if err := matchShape(raw, f.Type); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	return nil
}

// member looks up a payload member by field name, falling back to the
// case-insensitive match encoding/json itself performs.
func member(members map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if raw, ok := members[name]; ok {
		return raw, true
	}
	for k, raw := range members {
		if strings.EqualFold(k, name) {
			return raw, true
		}
	}
	return nil, false
}
