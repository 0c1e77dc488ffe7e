package keyset

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

var _encoder = base64.RawURLEncoding

// EncodeCursor packs per-dimension tokens into one URL-safe string: a JSON
// array of strings, base64 (RawURL) encoded. Tokens may contain any
// character, including the array delimiter. No tokens encode to "".
func EncodeCursor(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor tokens: %w", err))
	}

	return _encoder.EncodeToString(data)
}

// DecodeCursor is the inverse of EncodeCursor. An empty string decodes to no
// tokens. Anything EncodeCursor could not have produced is reported with an
// error wrapping ErrMalformedCursor.
func DecodeCursor(cursor string) ([]string, error) {
	if len(cursor) == 0 {
		return nil, nil
	}

	data, err := _encoder.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base64: %v", ErrMalformedCursor, err)
	}

	var tokens []string
	if err = json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal tokens: %v", ErrMalformedCursor, err)
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens", ErrMalformedCursor)
	}

	return tokens, nil
}
