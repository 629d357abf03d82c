// Package minijson encodes and decodes the restricted JSON subset this system
// exchanges over HTTP: objects with string/number/boolean/null values, nested
// objects, and arrays of objects or scalars. It is deliberately not a general
// JSON codec; shapes outside the subset fail with ErrUnsupportedJSON.
package minijson

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Encode renders a value from the supported subset as JSON text. Numbers are
// emitted in their natural decimal notation; rounding to a fixed precision is
// the caller's responsibility. Strings escape backslash, double quote, and
// newline only.
func Encode(v any) (string, error) {
	var sb strings.Builder
	if err := encodeValue(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func encodeValue(sb *strings.Builder, v any) error {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case int:
		sb.WriteString(strconv.Itoa(t))
	case int64:
		sb.WriteString(strconv.FormatInt(t, 10))
	case float64:
		sb.WriteString(formatNumber(t))
	case decimal.Decimal:
		sb.WriteString(t.String())
	case string:
		writeQuoted(sb, t)
	case *Object:
		return encodeObject(sb, t)
	case []*Object:
		elements := make([]any, len(t))
		for i, obj := range t {
			elements[i] = obj
		}
		return encodeArray(sb, elements)
	case []any:
		return encodeArray(sb, t)
	default:
		return fmt.Errorf("minijson: cannot encode value of type %T", v)
	}
	return nil
}

func encodeObject(sb *strings.Builder, obj *Object) error {
	sb.WriteByte('{')
	for i, key := range obj.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeQuoted(sb, key)
		sb.WriteByte(':')
		if err := encodeValue(sb, obj.values[key]); err != nil {
			return err
		}
	}
	sb.WriteByte('}')
	return nil
}

func encodeArray(sb *strings.Builder, elements []any) error {
	sb.WriteByte('[')
	for i, el := range elements {
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := encodeValue(sb, el); err != nil {
			return err
		}
	}
	sb.WriteByte(']')
	return nil
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	sb.WriteString(escape(s))
	sb.WriteByte('"')
}

// escape covers the documented subset: backslash, double quote, newline.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
