package keyset

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Cursor_roundTrip(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{"single", []string{"42"}},
		{"epoch and id", []string{"1704067200", "5"}},
		{"delimiters inside tokens", []string{"a,b", "c,,d", ","}},
		{"quotes and escapes", []string{`"quoted"`, `back\slash`, "'single'"}},
		{"unicode", []string{"привет", "日本語", "🙂"}},
		{"empty token", []string{"", "1"}},
		{"whitespace", []string{" leading", "trailing ", "\ttab\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := EncodeCursor(tt.tokens)
			require.NotEmpty(t, cursor)
			require.NotContains(t, cursor, "=")
			require.NotContains(t, cursor, "+")
			require.NotContains(t, cursor, "/")

			got, err := DecodeCursor(cursor)
			require.NoError(t, err)
			require.Equal(t, tt.tokens, got)
		})
	}
}

func Test_Cursor_format(t *testing.T) {
	require.Equal(t,
		base64.RawURLEncoding.EncodeToString([]byte(`["1704067200","5"]`)),
		EncodeCursor([]string{"1704067200", "5"}),
	)

	require.Equal(t, "", EncodeCursor(nil))
	require.Equal(t, "", EncodeCursor([]string{}))

	tokens, err := DecodeCursor("")
	require.NoError(t, err)
	require.Nil(t, tokens)
}

func Test_DecodeCursor_malformed(t *testing.T) {
	encode := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name   string
		cursor string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"padded standard base64", base64.StdEncoding.EncodeToString([]byte(`["1"]`)) + "=="},
		{"not json", encode("1704067200,5")},
		{"json object", encode(`{"id":"5"}`)},
		{"json numbers", encode(`[1704067200,5]`)},
		{"empty array", encode(`[]`)},
		{"null", encode(`null`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.cursor)
			require.ErrorIs(t, err, ErrMalformedCursor)
		})
	}
}
