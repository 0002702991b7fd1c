package jws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrFieldNotFound is returned by ExtractStringField when name is not a
// top-level key of the given JSON object, or when data does not decode
// as a JSON object at all.
var ErrFieldNotFound = errors.New("jws: field not found")

// ErrFieldType is returned by ExtractStringField when name is a top-level
// key of the given JSON object but its value is not a JSON string.
var ErrFieldType = errors.New("jws: field is not a string")

// ExtractStringField reads a single string-valued field at the top level of
// a JSON object without building a complete in-memory representation of it.
// It walks tokens depth-first, consuming and discarding the value of every
// key that is not name and stopping as soon as name is found, so that a
// large sibling field (for example a nested JWK) is never fully decoded.
//
// This mirrors the token-walk style of a streaming JSON reader that
// advances token by token and explicitly skips the children of any value
// it does not need, rather than unmarshaling the whole document first.
//
// Fails with ErrFieldNotFound if name is absent or data is not a JSON
// object, and with ErrFieldType if name is present but its value is not
// a string — callers that must report these two conditions separately
// (manifest.Verify maps them to the JsonMissing and JsonType taxonomy
// members, respectively) can distinguish them with errors.Is.
func ExtractStringField(data []byte, name string) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrFieldNotFound, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", fmt.Errorf("%w: not a JSON object", ErrFieldNotFound)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrFieldNotFound, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return "", fmt.Errorf("%w: non-string key", ErrFieldNotFound)
		}

		valTok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrFieldNotFound, err)
		}

		if key != name {
			// Not the field we want: if it opened an object or array,
			// skip its children without decoding them.
			if delim, ok := valTok.(json.Delim); ok && (delim == '{' || delim == '[') {
				if err := skipChildren(dec); err != nil {
					return "", fmt.Errorf("%w: %s", ErrFieldNotFound, err)
				}
			}
			continue
		}

		s, ok := valTok.(string)
		if !ok {
			return "", fmt.Errorf("%w: %q is not a string", ErrFieldType, name)
		}
		return s, nil
	}

	return "", fmt.Errorf("%w: %q", ErrFieldNotFound, name)
}

// skipChildren consumes and discards tokens until the matching closing
// delimiter for the object or array whose opening delimiter was already
// read from dec. It never recurses into Go call stack depth per nesting
// level; instead it tracks nesting with a counter, matching the
// non-recursive shape of a depth-bounded embedded JSON reader.
func skipChildren(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return errors.New("unexpected end of JSON while skipping children")
			}
			return err
		}
		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
