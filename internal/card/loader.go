package card

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DecodeDocument decodes JSON onto Default(): absent fields keep their
// default, unknown fields are ignored, and the result is validated.
func DecodeDocument(r io.Reader) (Document, error) {
	doc := Default()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode card document: %w", err)
	}
	if doc.Services == nil {
		doc.Services = []Service{}
	}
	if err := Validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DecodeDocumentBytes is DecodeDocument over a byte slice.
func DecodeDocumentBytes(b []byte) (Document, error) {
	return DecodeDocument(bytes.NewReader(b))
}

// LoadDocumentFile reads a single document from disk.
func LoadDocumentFile(path string) (Document, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer fp.Close()
	doc, err := DecodeDocument(fp)
	if err != nil {
		return Document{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return doc, nil
}

// Template is a named starting design shipped in the data directory.
type Template struct {
	Name     string   `json:"name"`
	Document Document `json:"document"`
}

// LoadTemplatesFromDir loads every *.json file in dir (best-effort). Files
// that fail to decode are reported through skipped and left out.
func LoadTemplatesFromDir(dir string) (templates []Template, skipped map[string]error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read template dir %s: %w", dir, err)
	}
	skipped = map[string]error{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		doc, err := LoadDocumentFile(path)
		if err != nil {
			skipped[e.Name()] = err
			continue
		}
		templates = append(templates, Template{
			Name:     strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Document: doc,
		})
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, skipped, nil
}
