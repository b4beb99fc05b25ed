package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/youruser/vcardapp/internal/card"
	"github.com/youruser/vcardapp/internal/util"
)

// FileStore keeps the design in a JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(_ context.Context, doc card.Document) error {
	b, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(s.path, b); err != nil {
		return fmt.Errorf("save design to %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (card.Document, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return card.Document{}, ErrNotFound
	}
	if err != nil {
		return card.Document{}, fmt.Errorf("load design from %s: %w", s.path, err)
	}
	return Decode(b)
}
