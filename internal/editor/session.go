package editor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/youruser/vcardapp/internal/card"
	"github.com/youruser/vcardapp/internal/render"
	"github.com/youruser/vcardapp/internal/store"
)

var ErrNoStore = errors.New("no design store configured")

// State is what a client sees after every command.
type State struct {
	Document card.Document `json:"document"`
	CanUndo  bool          `json:"canUndo"`
	CanRedo  bool          `json:"canRedo"`
}

// Session owns one editor's document history. Commands are serialized;
// rendering works on a snapshot and does not hold the lock.
type Session struct {
	ID string

	mu       sync.Mutex
	history  *History
	renderer *render.Renderer
	store    store.DesignStore
	log      *slog.Logger
}

type SessionOptions struct {
	HistoryLimit int
	Store        store.DesignStore
	Logger       *slog.Logger
}

func NewSession(doc card.Document, renderer *render.Renderer, opts SessionOptions) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		ID:       id,
		history:  NewHistory(doc, opts.HistoryLimit),
		renderer: renderer,
		store:    opts.Store,
		log:      log.With("session_id", id),
	}
}

func (s *Session) state() State {
	return State{
		Document: s.history.Present(),
		CanUndo:  s.history.CanUndo(),
		CanRedo:  s.history.CanRedo(),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Dispatch applies a. A rejected action leaves the state untouched.
func (s *Session) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.history.Apply(a); err != nil {
		s.log.Debug("action rejected", "type", a.Type(), "error", err)
		return s.state(), err
	}
	return s.state(), nil
}

func (s *Session) Undo() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.history.Undo()
	return s.state(), err
}

func (s *Session) Redo() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.history.Redo()
	return s.state(), err
}

// Save persists the present document. A failure does not touch the session.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	doc := s.State().Document
	if err := s.store.Save(ctx, doc); err != nil {
		s.log.Warn("save design failed", "error", err)
		return err
	}
	return nil
}

// Load replaces the document with the saved design as an undoable step.
func (s *Session) Load(ctx context.Context) (State, error) {
	if s.store == nil {
		return s.State(), ErrNoStore
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("load design failed", "error", err)
		}
		return s.State(), err
	}
	return s.Dispatch(LoadDocument{Document: doc})
}

// RenderPNG renders the present document.
func (s *Session) RenderPNG(ctx context.Context) ([]byte, error) {
	doc := s.State().Document
	var buf bytes.Buffer
	if err := s.renderer.RenderPNG(ctx, doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
