// Package payload pulls the machine-readable JSON object out of a
// collaborator's free-text reply.
//
// A structured reply carries a literal square-bracketed marker such as
// [LearningPlan] next to one JSON object. Whether a reply is "the structured
// one" is a plain substring test for the marker; the object itself is found
// with a brace-depth scanner that starts at the marker.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/studyflow/internal/llm"
)

var (
	// ErrNoMarker means the reply does not contain the expected tag.
	ErrNoMarker = errors.New("marker not found")

	// ErrNoObject means no balanced JSON object was found.
	ErrNoObject = errors.New("no JSON object found")
)

// Error describes why a payload could not be decoded.
type Error struct {
	Tag string
	Raw string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("payload %s: %v", e.Tag, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Span returns the substring from the first '{' to the last '}' inclusive,
// or "" if either is missing or the last '}' precedes the first '{'.
//
// It is purely lexical and does not balance braces: "{a}{b}" yields
// "{a}{b}". Use Extract when the reply may hold more than one object or
// braces inside strings.
func Span(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

// HasMarker reports whether text contains tag.
func HasMarker(text, tag string) bool {
	return tag != "" && strings.Contains(text, tag)
}

// Extract returns the first balanced JSON object following tag. When the
// tag is absent, or nothing balanced follows it (the object came before
// the tag), the whole text is scanned. Braces inside JSON strings are
// ignored.
func Extract(text, tag string) (string, bool) {
	if i := strings.Index(text, tag); tag != "" && i >= 0 {
		if obj, ok := firstObject(text[i+len(tag):]); ok {
			return obj, true
		}
	}
	return firstObject(text)
}

// firstObject scans for the first '{' that opens a balanced object.
func firstObject(text string) (string, bool) {
	for from := 0; from < len(text); {
		off := strings.IndexByte(text[from:], '{')
		if off < 0 {
			return "", false
		}
		start := from + off
		if end, ok := matchBrace(text, start); ok {
			return text[start : end+1], true
		}
		from = start + 1
	}
	return "", false
}

// matchBrace returns the index of the '}' closing the '{' at start.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// Decode locates the object tagged with tag, validates it against schema
// (nil skips schema validation but still requires valid JSON) and
// unmarshals it into T. Failures are returned as *Error.
func Decode[T any](text, tag string, schema *llm.Schema) (T, error) {
	var out T

	if !HasMarker(text, tag) {
		return out, &Error{Tag: tag, Err: ErrNoMarker}
	}

	obj, ok := Extract(text, tag)
	if !ok {
		return out, &Error{Tag: tag, Err: ErrNoObject}
	}

	if err := llm.ValidateJSON(schema, json.RawMessage(obj)); err != nil {
		return out, &Error{Tag: tag, Raw: obj, Err: err}
	}

	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return out, &Error{Tag: tag, Raw: obj, Err: fmt.Errorf("unmarshal: %w", err)}
	}
	return out, nil
}
