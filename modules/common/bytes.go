package common

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

func EncodeToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// HasPrefixRun reports whether the first n characters of s are all c.
func HasPrefixRun(s string, c byte, n int) bool {
	if n > len(s) {
		return false
	}
	for i := 0; i < n; i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

// Serialize encodes v as JSON. Maps are emitted with their keys sorted, which
// makes the output of a map[string]any independent of insertion order.
func Serialize(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Canonicalize rewrites an arbitrary payload into canonical JSON: object keys
// sorted at every depth, numbers kept as their literal text and insignificant
// whitespace removed. Raw JSON input is normalized the same way. Invalid UTF-8
// is rejected, since the encoder would otherwise replace it with U+FFFD.
func Canonicalize(v any) (json.RawMessage, error) {
	if err := checkUTF8(v); err != nil {
		return nil, err
	}

	var raw []byte
	switch t := v.(type) {
	case json.RawMessage:
		raw = t
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(out), nil
}

func checkUTF8(v any) error {
	switch t := v.(type) {
	case string:
		if !utf8.ValidString(t) {
			return fmt.Errorf("%w: %q", ErrInvalidUTF8, t)
		}
	case json.RawMessage:
		if !utf8.Valid(t) {
			return ErrInvalidUTF8
		}
	case []string:
		for _, s := range t {
			if err := checkUTF8(s); err != nil {
				return err
			}
		}
	case []any:
		for _, e := range t {
			if err := checkUTF8(e); err != nil {
				return err
			}
		}
	case map[string]any:
		for k, e := range t {
			if err := checkUTF8(k); err != nil {
				return err
			}
			if err := checkUTF8(e); err != nil {
				return err
			}
		}
	case map[string]string:
		for k, e := range t {
			if err := checkUTF8(k); err != nil {
				return err
			}
			if err := checkUTF8(e); err != nil {
				return err
			}
		}
	}
	return nil
}
