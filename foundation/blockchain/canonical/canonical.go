// Package canonical provides the deterministic encoding used to hash blocks.
// The output is byte for byte what Python's json.dumps(value, sort_keys=True)
// produces, so nodes written in either language agree on block hashes.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Marshaler is implemented by types that need to control their own
// canonical representation.
type Marshaler interface {
	MarshalCanonical() ([]byte, error)
}

var marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()

// UnsupportedTypeError is returned when a value can't be represented.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "canonical: unsupported type: " + e.Type.String()
}

// =============================================================================

// Marshal returns the canonical encoding of the value. Struct fields are named
// by their json tags and, like map keys, written in sorted order.
func Marshal(value any) ([]byte, error) {
	var e encoder
	if err := e.encode(reflect.ValueOf(value)); err != nil {
		return nil, err
	}

	return e.Bytes(), nil
}

// Hash returns the lowercase hex SHA-256 digest of the canonical encoding of
// the value.
func Hash(value any) string {
	data, err := Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// FormatFloat renders a float the way Python's repr does: the shortest
// string that round trips, always carrying a decimal point or an exponent.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// =============================================================================

type encoder struct {
	bytes.Buffer
}

func (e *encoder) encode(v reflect.Value) error {
	if !v.IsValid() {
		e.WriteString("null")
		return nil
	}

	if v.Type().Implements(marshalerType) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			e.WriteString("null")
			return nil
		}

		data, err := v.Interface().(Marshaler).MarshalCanonical()
		if err != nil {
			return fmt.Errorf("canonical: %s: %w", v.Type(), err)
		}
		e.Write(data)
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			e.WriteString("null")
			return nil
		}
		return e.encode(v.Elem())

	case reflect.Bool:
		e.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		e.WriteString(FormatFloat(v.Float()))

	case reflect.String:
		writeString(&e.Buffer, v.String())

	case reflect.Slice:
		if v.IsNil() {
			e.WriteString("null")
			return nil
		}
		return e.encodeList(v)

	case reflect.Array:
		return e.encodeList(v)

	case reflect.Map:
		if v.IsNil() {
			e.WriteString("null")
			return nil
		}
		return e.encodeMap(v)

	case reflect.Struct:
		return e.encodeStruct(v)

	default:
		return &UnsupportedTypeError{Type: v.Type()}
	}

	return nil
}

func (e *encoder) encodeList(v reflect.Value) error {
	e.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			e.WriteString(", ")
		}
		if err := e.encode(v.Index(i)); err != nil {
			return err
		}
	}
	e.WriteByte(']')

	return nil
}

func (e *encoder) encodeMap(v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return &UnsupportedTypeError{Type: v.Type()}
	}

	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	e.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.WriteString(", ")
		}
		writeString(&e.Buffer, k)
		e.WriteString(": ")

		kv := reflect.ValueOf(k).Convert(v.Type().Key())
		if err := e.encode(v.MapIndex(kv)); err != nil {
			return err
		}
	}
	e.WriteByte('}')

	return nil
}

type field struct {
	name  string
	value reflect.Value
}

func (e *encoder) encodeStruct(v reflect.Value) error {
	t := v.Type()

	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := sf.Name
		var omitEmpty bool
		if tag, ok := sf.Tag.Lookup("json"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" && len(parts) == 1 {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitEmpty = true
				}
			}
		}

		fv := v.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}

		fields = append(fields, field{name: name, value: fv})
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].name < fields[j].name
	})

	e.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			e.WriteString(", ")
		}
		writeString(&e.Buffer, f.name)
		e.WriteString(": ")
		if err := e.encode(f.value); err != nil {
			return err
		}
	}
	e.WriteByte('}')

	return nil
}

// writeString escapes everything outside printable ASCII with lowercase
// \uXXXX sequences, using surrogate pairs above the BMP.
func writeString(buf *bytes.Buffer, s string) {
	const hexDigits = "0123456789abcdef"

	writeU := func(r rune) {
		buf.WriteString(`\u`)
		buf.WriteByte(hexDigits[(r>>12)&0xf])
		buf.WriteByte(hexDigits[(r>>8)&0xf])
		buf.WriteByte(hexDigits[(r>>4)&0xf])
		buf.WriteByte(hexDigits[r&0xf])
	}

	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r >= 0x20 && r <= 0x7e:
			buf.WriteByte(byte(r))
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			writeU(r1)
			writeU(r2)
		default:
			writeU(r)
		}
	}
	buf.WriteByte('"')
}
