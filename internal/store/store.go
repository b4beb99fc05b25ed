package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/youruser/vcardapp/internal/card"
)

// DefaultKey is the fixed key a saved design lives under.
const DefaultKey = "savedCardDesign"

var ErrNotFound = errors.New("no saved design")

// DesignStore persists a single card document.
type DesignStore interface {
	Save(ctx context.Context, doc card.Document) error
	Load(ctx context.Context) (card.Document, error)
}

// Encode serializes doc in its external JSON shape.
func Encode(doc card.Document) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode design: %w", err)
	}
	return b, nil
}

// Decode parses a stored design. Unknown fields are ignored and missing ones
// take their defaults; a blob that does not validate is rejected whole.
func Decode(b []byte) (card.Document, error) {
	doc, err := card.DecodeDocumentBytes(b)
	if err != nil {
		return card.Document{}, fmt.Errorf("decode saved design: %w", err)
	}
	return doc, nil
}
