package editor

import (
	"errors"

	"github.com/youruser/vcardapp/internal/card"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

const DefaultHistoryLimit = 50

// History is a bounded undo/redo stack of document snapshots. It is not safe
// for concurrent use; Session serializes access.
type History struct {
	past    []card.Document
	present card.Document
	future  []card.Document
	limit   int
}

// NewHistory starts a history at doc. limit bounds the number of undo steps;
// zero or less means DefaultHistoryLimit.
func NewHistory(doc card.Document, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{present: doc.Clone(), limit: limit}
}

func (h *History) Present() card.Document { return h.present.Clone() }

func (h *History) CanUndo() bool { return len(h.past) > 0 }

func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Apply reduces a against the present document. On success the old present
// becomes an undo step and the redo stack is cleared; on error nothing
// changes.
func (h *History) Apply(a Action) (card.Document, error) {
	next, err := Reduce(h.present, a)
	if err != nil {
		return h.Present(), err
	}
	h.push(next)
	return h.Present(), nil
}

func (h *History) push(next card.Document) {
	h.past = append(h.past, h.present)
	if over := len(h.past) - h.limit; over > 0 {
		h.past = append(h.past[:0:0], h.past[over:]...)
	}
	h.present = next
	h.future = nil
}

func (h *History) Undo() (card.Document, error) {
	if !h.CanUndo() {
		return h.Present(), ErrNothingToUndo
	}
	last := len(h.past) - 1
	h.future = append([]card.Document{h.present}, h.future...)
	h.present = h.past[last]
	h.past = h.past[:last]
	return h.Present(), nil
}

func (h *History) Redo() (card.Document, error) {
	if !h.CanRedo() {
		return h.Present(), ErrNothingToRedo
	}
	h.past = append(h.past, h.present)
	h.present = h.future[0]
	h.future = h.future[1:]
	return h.Present(), nil
}
