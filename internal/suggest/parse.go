package suggest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/youruser/vcardapp/internal/card"
)

var ErrNoJSON = errors.New("no json object in response")

// DecodeError reports why a model response could not become a Document.
// Stage is "extract", "syntax" or "schema".
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("suggestion %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var fenceRe = regexp.MustCompile("(?i)```(?:json)?[ \t]*\r?\n?|\r?\n?```")

// StripFences removes Markdown code fence markers, keeping their content.
func StripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// ExtractJSON returns the outermost JSON object in text after fence
// stripping. Prose before the first '{' or after the last '}' is dropped.
func ExtractJSON(text string) ([]byte, error) {
	s := StripFences(text)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, &DecodeError{Stage: "extract", Err: ErrNoJSON}
	}
	return []byte(s[start : end+1]), nil
}

// Suggestion is a decoded model answer: a complete Document plus the set of
// top-level keys the model actually supplied.
type Suggestion struct {
	Document card.Document
	Keys     map[string]bool
}

// Has reports whether the model supplied the top-level key.
func (s Suggestion) Has(key string) bool { return s.Keys[key] }

// Decode parses raw onto the default document. Missing fields keep their
// default, unknown fields are ignored, and the result must validate.
func Decode(raw []byte) (Suggestion, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return Suggestion{}, &DecodeError{Stage: "syntax", Err: err}
	}

	doc := card.Default()
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&doc); err != nil {
		return Suggestion{}, &DecodeError{Stage: "syntax", Err: err}
	}
	if doc.Services == nil {
		doc.Services = []card.Service{}
	}
	if err := card.Validate(doc); err != nil {
		return Suggestion{}, &DecodeError{Stage: "schema", Err: err}
	}

	keys := make(map[string]bool, len(top))
	for k := range top {
		keys[k] = true
	}
	return Suggestion{Document: doc, Keys: keys}, nil
}

// Parse is ExtractJSON followed by Decode.
func Parse(text string) (Suggestion, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return Suggestion{}, err
	}
	return Decode(raw)
}
