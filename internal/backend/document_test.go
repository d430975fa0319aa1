package backend

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/demodash/internal/domain"
)

func TestParseDocument_AcceptsObjects(t *testing.T) {
	doc, err := ParseDocument(`  {"message": "Hello", "n": 12345678901234567890, "nested": {"list": [1, true, null, "x"]}}  `, 0)
	require.NoError(t, err)

	assert.Equal(t, "Hello", doc["message"])
	assert.Equal(t, json.Number("12345678901234567890"), doc["n"])

	nested, ok := doc["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{json.Number("1"), true, nil, "x"}, nested["list"])
}

func TestParseDocument_EmptyObject(t *testing.T) {
	doc, err := ParseDocument(`{}`, 0)
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Empty(t, doc)
}

func TestParseDocument_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":             "   ",
		"unbalanced braces": `{"a": {"b": 1}`,
		"python literal":    `{'message': 'hi', 'ok': True}`,
		"expression":        `{"a": __import__('os').system('id')}`,
		"arithmetic":        `{"a": 1 + 2}`,
		"trailing data":     `{"a": 1} {"b": 2}`,
		"trailing garbage":  `{"a": 1};rm -rf /`,
		"top-level array":   `[1, 2, 3]`,
		"top-level string":  `"hello"`,
		"top-level null":    `null`,
		"NaN":               `{"a": NaN}`,
		"leading zero":      `{"a": 01}`,
		"trailing dot":      `{"a": 1.}`,
		"bare exponent":     `{"a": [1, 2e]}`,
		"leading dot":       `{"a": {"b": -.5}}`,
		"trailing NUL":      "{\"a\": 1}\x00",
		"raw control char":  "{\"a\": \"x\x01y\"}",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := ParseDocument(in, 0)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestParseDocument_TooLarge(t *testing.T) {
	in := `{"a": "` + strings.Repeat("x", 64) + `"}`
	_, err := ParseDocument(in, 32)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDocument))
	assert.True(t, errors.Is(err, ErrDocumentTooLarge))
}

func TestParseDocument_ReasonNamesKind(t *testing.T) {
	_, err := ParseDocument(`[1]`, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got array")
}

func TestDecodeBody_ObjectBecomesDocument(t *testing.T) {
	v, err := decodeBody([]byte(`{"status":"ok"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.Document{"status": "ok"}, v)

	v, err = decodeBody([]byte(`[1,2]`))
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, v)
}

func TestIsJSONContentType(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"Application/JSON", true},
		{"application/problem+json", true},
		{"text/plain", false},
		{"text/html; charset=utf-8", false},
		{"", false},
		{";;", false},
	}
	for _, c := range cases {
		if got := IsJSONContentType(c.in); got != c.want {
			t.Fatalf("IsJSONContentType(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestParseDocument_NumberGrammar(t *testing.T) {
	for _, n := range []string{"0", "-0", "10", "1.5", "-0.25", "1e10", "1E+2", "2.5e-3"} {
		doc, err := ParseDocument(`{"n": `+n+`}`, 0)
		require.NoError(t, err, n)
		assert.Equal(t, json.Number(n), doc["n"])
	}
}

func TestNormalizeDocument(t *testing.T) {
	doc, body, err := NormalizeDocument(domain.Document{"n": 1, "f": 1.5, "list": []int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, domain.Document{
		"n":    json.Number("1"),
		"f":    json.Number("1.5"),
		"list": []any{json.Number("1"), json.Number("2")},
	}, doc)
	assert.True(t, json.Valid(body))

	_, _, err = NormalizeDocument(domain.Document{"n": json.Number("01")})
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, _, err = NormalizeDocument(nil)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
