package minijson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedJSON marks input outside the supported subset: arrays of
// arrays, unicode escapes, exponent-notation numbers, unterminated strings.
// Callers should treat it as invalid client input, not a server fault.
var ErrUnsupportedJSON = errors.New("minijson: unsupported JSON")

// DecodeObject parses JSON text expected to hold a single object and returns
// its members in source order. A missing outer brace pair is tolerated:
// `"k":1` parses the same as `{"k":1}`.
func DecodeObject(text string) (*Object, error) {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "{") {
		end, err := FindMatchingBracket(body, 0)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(body[end+1:]) != "" {
			return nil, fmt.Errorf("%w: data after closing brace", ErrUnsupportedJSON)
		}
		body = body[1:end]
	}
	return decodeMembers(body)
}

// FindMatchingBracket returns the index of the bracket closing the one at
// open. Content inside quoted strings, including escaped quotes, is opaque
// to the depth tracking.
func FindMatchingBracket(text string, open int) (int, error) {
	if open < 0 || open >= len(text) {
		return 0, fmt.Errorf("%w: bracket offset %d out of range", ErrUnsupportedJSON, open)
	}

	openCh := text[open]
	var closeCh byte
	switch openCh {
	case '{':
		closeCh = '}'
	case '[':
		closeCh = ']'
	default:
		return 0, fmt.Errorf("%w: no bracket at offset %d", ErrUnsupportedJSON, open)
	}

	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '"':
			i++
			for i < len(text) && text[i] != '"' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(text) {
				return 0, fmt.Errorf("%w: unterminated string", ErrUnsupportedJSON)
			}
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unbalanced %q", ErrUnsupportedJSON, string(openCh))
}

// decodeMembers parses `"key": value` pairs from an object body with the
// outer braces already stripped.
func decodeMembers(body string) (*Object, error) {
	obj := NewObject()
	c := &cursor{s: body}

	for {
		c.skipSpace()
		if c.eof() {
			return obj, nil
		}

		key, err := c.readString()
		if err != nil {
			return nil, err
		}

		c.skipSpace()
		if c.eof() || c.peek() != ':' {
			return nil, fmt.Errorf("%w: missing ':' after key %q", ErrUnsupportedJSON, key)
		}
		c.i++

		value, err := c.readValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)

		c.skipSpace()
		if c.eof() {
			return obj, nil
		}
		if c.peek() != ',' {
			return nil, fmt.Errorf("%w: expected ',' at offset %d", ErrUnsupportedJSON, c.i)
		}
		c.i++
	}
}

// decodeArray parses array elements from a body with the outer brackets
// already stripped. Elements may be objects or scalars; nested arrays are
// outside the subset.
func decodeArray(body string) ([]any, error) {
	elements := []any{}
	c := &cursor{s: body}

	for {
		c.skipSpace()
		if c.eof() {
			return elements, nil
		}

		if c.peek() == '[' {
			return nil, fmt.Errorf("%w: array of arrays", ErrUnsupportedJSON)
		}

		value, err := c.readValue()
		if err != nil {
			return nil, err
		}
		elements = append(elements, value)

		c.skipSpace()
		if c.eof() {
			return elements, nil
		}
		if c.peek() != ',' {
			return nil, fmt.Errorf("%w: expected ',' at offset %d", ErrUnsupportedJSON, c.i)
		}
		c.i++
	}
}

// cursor is a byte-offset scanner over one object or array body.
type cursor struct {
	s string
	i int
}

func (c *cursor) eof() bool {
	return c.i >= len(c.s)
}

func (c *cursor) peek() byte {
	return c.s[c.i]
}

func (c *cursor) skipSpace() {
	for !c.eof() {
		switch c.s[c.i] {
		case ' ', '\t', '\n', '\r':
			c.i++
		default:
			return
		}
	}
}

func (c *cursor) readValue() (any, error) {
	c.skipSpace()
	if c.eof() {
		return nil, fmt.Errorf("%w: missing value", ErrUnsupportedJSON)
	}

	switch c.peek() {
	case '"':
		return c.readString()
	case '{':
		end, err := FindMatchingBracket(c.s, c.i)
		if err != nil {
			return nil, err
		}
		inner := c.s[c.i+1 : end]
		c.i = end + 1
		return decodeMembers(inner)
	case '[':
		end, err := FindMatchingBracket(c.s, c.i)
		if err != nil {
			return nil, err
		}
		inner := c.s[c.i+1 : end]
		c.i = end + 1
		return decodeArray(inner)
	default:
		return c.readScalar()
	}
}

func (c *cursor) readString() (string, error) {
	if c.eof() || c.peek() != '"' {
		return "", fmt.Errorf("%w: expected string at offset %d", ErrUnsupportedJSON, c.i)
	}
	c.i++

	var sb strings.Builder
	for !c.eof() {
		ch := c.s[c.i]
		switch ch {
		case '"':
			c.i++
			return sb.String(), nil
		case '\\':
			c.i++
			if c.eof() {
				return "", fmt.Errorf("%w: unterminated escape", ErrUnsupportedJSON)
			}
			switch esc := c.s[c.i]; esc {
			case '"', '\\', '/':
				sb.WriteByte(esc)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				return "", fmt.Errorf("%w: escape \\%c", ErrUnsupportedJSON, esc)
			}
			c.i++
		default:
			sb.WriteByte(ch)
			c.i++
		}
	}
	return "", fmt.Errorf("%w: unterminated string", ErrUnsupportedJSON)
}

// readScalar consumes an unquoted token up to the next comma. Numbers become
// float64; true/false/null become their Go values; anything else unparsable
// is kept as a string, matching how permissive the wire format has always
// been about bare tokens.
func (c *cursor) readScalar() (any, error) {
	start := c.i
	for !c.eof() && c.peek() != ',' {
		c.i++
	}
	token := strings.TrimSpace(c.s[start:c.i])
	if token == "" {
		return nil, fmt.Errorf("%w: missing value", ErrUnsupportedJSON)
	}

	switch token {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}

	if n, err := strconv.ParseFloat(token, 64); err == nil {
		if strings.ContainsAny(token, "eE") {
			return nil, fmt.Errorf("%w: exponent notation %q", ErrUnsupportedJSON, token)
		}
		return n, nil
	}
	return token, nil
}
