// Package encoding implements the base64url codec used by compact JWS
// serialization as defined in RFC 7515 section 2
// (https://datatracker.ietf.org/doc/html/rfc7515#section-2).
//
// Compact JWS segments omit "=" padding and use the URL-safe alphabet, but
// implementations are known to emit the standard alphabet or explicit
// padding anyway. Decode tolerates both without mutating its input.
package encoding

import (
	"encoding/base64"
	"errors"
)

// ErrInvalidPadding is returned when the input length, after stripping any
// explicit "=" padding, cannot be brought to a multiple of 4 by adding at
// most two pad bytes.
var ErrInvalidPadding = errors.New("encoding: invalid base64 padding")

var unpadded = base64.URLEncoding.WithPadding(base64.NoPadding)

// Encode encodes data using unpadded, URL-safe base64 as required for
// compact JWS segments.
func Encode(data []byte) string {
	return unpadded.EncodeToString(data)
}

// Decode decodes a base64 string that may use either the URL-safe or the
// standard alphabet, and that may or may not carry explicit "=" padding.
// It never modifies s. Missing padding is reconstructed; a remainder of 1
// character after accounting for any explicit padding is a structural
// impossibility and returns ErrInvalidPadding without attempting a decode.
func Decode(s string) ([]byte, error) {
	normalized := make([]byte, 0, len(s)+2)
	trailingEquals := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '-':
			c = '+'
		case '_':
			c = '/'
		case '=':
			trailingEquals++
			continue
		}

		if trailingEquals > 0 {
			// "=" may only appear as a suffix.
			return nil, ErrInvalidPadding
		}

		normalized = append(normalized, c)
	}

	switch len(normalized) % 4 {
	case 0:
		// already aligned; any explicit padding was redundant
	case 2:
		normalized = append(normalized, '=', '=')
	case 3:
		normalized = append(normalized, '=')
	case 1:
		return nil, ErrInvalidPadding
	}

	return base64.StdEncoding.DecodeString(string(normalized))
}
