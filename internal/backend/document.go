package backend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/hamed0406/demodash/internal/domain"
)

var (
	ErrInvalidDocument  = errors.New("invalid document")
	ErrDocumentTooLarge = errors.New("document too large")
)

// ParseDocument parses user-supplied text into a Document. Only a single JSON
// object is accepted; anything else, including trailing data, is rejected.
// Numbers are kept as json.Number so they round-trip unchanged.
// maxBytes <= 0 disables the size check.
func ParseDocument(text string, maxBytes int) (domain.Document, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
	}
	if maxBytes > 0 && len(trimmed) > maxBytes {
		return nil, fmt.Errorf("%w: %w: %d bytes exceeds %d", ErrInvalidDocument, ErrDocumentTooLarge, len(trimmed), maxBytes)
	}

	v, err := decodeStrict([]byte(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value must be a JSON object, got %s", ErrInvalidDocument, jsonKind(v))
	}
	return domain.Document(m), nil
}

// numberGrammar is the RFC 8259 number production.
var numberGrammar = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// decodeStrict decodes exactly one JSON value from b. The decoder alone is
// lenient about number syntax and a trailing NUL, so both are checked here.
func decodeStrict(b []byte) (any, error) {
	if err := checkControlBytes(b); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	if err := checkNumbers(v); err != nil {
		return nil, err
	}
	return v, nil
}

// checkControlBytes rejects raw control characters other than JSON
// whitespace. They are never valid outside or inside a JSON string.
func checkControlBytes(b []byte) error {
	for i, c := range b {
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			return fmt.Errorf("control character 0x%02x at offset %d", c, i)
		}
	}
	return nil
}

func checkNumbers(v any) error {
	switch t := v.(type) {
	case json.Number:
		if !numberGrammar.MatchString(string(t)) {
			return fmt.Errorf("malformed number %q", string(t))
		}
	case map[string]any:
		for _, e := range t {
			if err := checkNumbers(e); err != nil {
				return err
			}
		}
	case []any:
		for _, e := range t {
			if err := checkNumbers(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// NormalizeDocument passes doc through the wire codec and the strict parser,
// returning the exact form the backend receives and an echoing backend
// returns: every number becomes a json.Number. Documents that cannot be
// encoded, or that would encode to invalid JSON, are rejected with
// ErrInvalidDocument.
func NormalizeDocument(doc domain.Document) (domain.Document, []byte, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	v, err := decodeStrict(body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: document encodes to %s", ErrInvalidDocument, jsonKind(v))
	}
	return domain.Document(m), body, nil
}

// decodeBody turns a response body into a display value. Objects become
// Documents; other JSON values are returned as decoded.
func decodeBody(b []byte) (any, error) {
	v, err := decodeStrict(b)
	if err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		return domain.Document(m), nil
	}
	return v, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// IsJSONContentType reports whether a Content-Type header declares JSON,
// either application/json or a +json structured suffix.
func IsJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
