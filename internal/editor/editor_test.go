package editor

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/vcardapp/internal/card"
	"github.com/youruser/vcardapp/internal/render"
	"github.com/youruser/vcardapp/internal/store"
	"github.com/youruser/vcardapp/internal/suggest"
)

type memStore struct {
	doc     *card.Document
	saveErr error
}

func (m *memStore) Save(_ context.Context, doc card.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	d := doc.Clone()
	m.doc = &d
	return nil
}

func (m *memStore) Load(_ context.Context) (card.Document, error) {
	if m.doc == nil {
		return card.Document{}, store.ErrNotFound
	}
	return m.doc.Clone(), nil
}

func TestReduceSetField(t *testing.T) {
	doc := card.Default()

	next, err := Reduce(doc, SetField{Field: "title.text", Value: "CTO"})
	require.NoError(t, err)
	assert.Equal(t, "CTO", next.Title.Text)
	assert.Equal(t, "", doc.Title.Text, "input must not be modified")

	next, err = Reduce(next, SetField{Field: "designStyle.gradientColors", Value: []string{"#000", "#fff", "#f00"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"#000", "#fff", "#f00"}, next.DesignStyle.GradientColors)

	next, err = Reduce(next, SetField{Field: "backgroundColor", Value: "#4a90e2"})
	require.NoError(t, err)
	assert.Equal(t, "#4a90e2", next.BackgroundColor)
	assert.Equal(t, "CTO", next.Title.Text)
}

func TestReduceSetFieldRejectsBadInput(t *testing.T) {
	doc := card.Default()

	_, err := Reduce(doc, SetField{Field: "nickname", Value: "x"})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = Reduce(doc, SetField{Field: "name.size", Value: "huge"})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = Reduce(doc, SetField{Field: "services.0.text", Value: "x"})
	assert.ErrorIs(t, err, ErrUnknownField)

	out, err := Reduce(doc, SetField{Field: "textColor", Value: "not-a-color"})
	var verr *card.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, doc, out)
}

func TestReduceMoveAndResize(t *testing.T) {
	doc := card.Default()
	doc.Services = []card.Service{card.NewService("A", 0)}

	next, err := Reduce(doc, MoveElement{Element: "services.0", X: 200, Y: 300})
	require.NoError(t, err)
	assert.Equal(t, 200.0, next.Services[0].X)
	assert.Equal(t, 300.0, next.Services[0].Y)

	next, err = Reduce(next, MoveElement{Element: "logoImage", X: -40, Y: 999})
	require.NoError(t, err)
	assert.Equal(t, -40.0, next.LogoImage.X)

	next, err = Reduce(next, ResizeElement{Element: "name", Size: 32})
	require.NoError(t, err)
	assert.Equal(t, 32.0, next.Name.Size)

	next, err = Reduce(next, ResizeElement{Element: "profileImage", Size: 140})
	require.NoError(t, err)
	assert.Equal(t, 140.0, next.ProfileImage.Size)

	_, err = Reduce(next, ResizeElement{Element: "name", Size: -1})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = Reduce(next, MoveElement{Element: "services.5", X: 1, Y: 1})
	assert.ErrorIs(t, err, card.ErrUnknownElement)

	_, err = Reduce(next, MoveElement{Element: "designStyle", X: 1, Y: 1})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestReduceSetStyle(t *testing.T) {
	doc := card.Default()
	doc.Services = []card.Service{card.NewService("A", 0)}

	next, err := Reduce(doc, SetStyle{Element: "profileImage", Property: "shape", Value: "hexagon"})
	require.NoError(t, err)
	assert.Equal(t, card.ShapeHexagon, next.ProfileImage.Style.Shape)

	next, err = Reduce(next, SetStyle{Element: "services.0", Property: "textStyle", Value: "boldItalic"})
	require.NoError(t, err)
	assert.Equal(t, card.TextBoldItalic, next.Services[0].TextStyle)

	next, err = Reduce(next, SetStyle{Element: "services.0", Property: "underline", Value: true})
	require.NoError(t, err)
	assert.True(t, next.Services[0].Underline)

	next, err = Reduce(next, SetStyle{Element: "email", Property: "font", Value: "Lato"})
	require.NoError(t, err)
	assert.Equal(t, "Lato", next.Email.Font)

	_, err = Reduce(next, SetStyle{Element: "profileImage", Property: "shape", Value: "star"})
	var verr *card.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = Reduce(next, SetStyle{Element: "logoImage", Property: "rotation", Value: 30})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestReduceServices(t *testing.T) {
	doc := card.Default()
	var err error
	for _, s := range []string{"A", "B", "C"} {
		doc, err = Reduce(doc, AddService{Text: s})
		require.NoError(t, err)
	}
	assert.Equal(t, 270.0, doc.Services[2].Y)

	doc, err = Reduce(doc, RemoveService{Index: 1})
	require.NoError(t, err)
	require.Len(t, doc.Services, 2)
	assert.Equal(t, "A", doc.Services[0].Text)
	assert.Equal(t, "C", doc.Services[1].Text)

	_, err = Reduce(doc, RemoveService{Index: 2})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestReduceImagesAndReset(t *testing.T) {
	doc := card.Default()
	doc.Name.Text = "Keep me"
	doc.DesignStyle.Pattern = card.PatternDots
	doc.BackgroundColor = "#000000"

	doc, err := Reduce(doc, SetImage{Element: "logoImage", Ref: " asset:logo.png "})
	require.NoError(t, err)
	assert.Equal(t, "asset:logo.png", doc.LogoImage.ImageRef)

	_, err = Reduce(doc, SetImage{Element: "name", Ref: "x"})
	assert.ErrorIs(t, err, card.ErrUnknownElement)

	doc, err = Reduce(doc, ResetDesign{})
	require.NoError(t, err)
	assert.Equal(t, card.DefaultDesignStyle(), doc.DesignStyle)
	assert.Equal(t, "#ffffff", doc.BackgroundColor)
	assert.Equal(t, "Keep me", doc.Name.Text)
	assert.Equal(t, "asset:logo.png", doc.LogoImage.ImageRef)
}

func TestReduceApplySuggestion(t *testing.T) {
	doc := card.Default()
	doc.ProfileImage.ImageRef = "asset:me.png"

	s, err := suggest.Decode([]byte(`{"textColor": "#ffffff", "backgroundColor": "#222222"}`))
	require.NoError(t, err)
	next, err := Reduce(doc, ApplySuggestion{Suggestion: s})
	require.NoError(t, err)
	assert.Equal(t, "#222222", next.BackgroundColor)
	assert.Equal(t, doc.ProfileImage, next.ProfileImage)
}

func TestDecodeAction(t *testing.T) {
	a, err := DecodeAction([]byte(`{"type":"moveElement","payload":{"element":"title","x":10,"y":20}}`))
	require.NoError(t, err)
	assert.Equal(t, MoveElement{Element: "title", X: 10, Y: 20}, a)

	a, err = DecodeAction([]byte(`{"type":"resetDesign"}`))
	require.NoError(t, err)
	assert.Equal(t, ResetDesign{}, a)

	a, err = DecodeAction([]byte(`{"type":"applySuggestion","payload":{"textColor":"#123456"}}`))
	require.NoError(t, err)
	require.IsType(t, ApplySuggestion{}, a)
	assert.Equal(t, "#123456", a.(ApplySuggestion).Suggestion.Document.TextColor)

	a, err = DecodeAction([]byte(`{"type":"loadDocument","payload":{"name":{"text":"Z"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "Z", a.(LoadDocument).Document.Name.Text)

	_, err = DecodeAction([]byte(`{"type":"explode"}`))
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = DecodeAction([]byte(`{"type":"moveElement","payload":{"element":"title","z":1}}`))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = DecodeAction([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(card.Default(), 0)
	assert.False(t, h.CanUndo())
	_, err := h.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)

	_, err = h.Apply(SetField{Field: "name.text", Value: "one"})
	require.NoError(t, err)
	_, err = h.Apply(SetField{Field: "name.text", Value: "two"})
	require.NoError(t, err)

	doc, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, "one", doc.Name.Text)
	assert.True(t, h.CanRedo())

	doc, err = h.Redo()
	require.NoError(t, err)
	assert.Equal(t, "two", doc.Name.Text)
	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)

	h.Undo()
	_, err = h.Apply(SetField{Field: "name.text", Value: "three"})
	require.NoError(t, err)
	assert.False(t, h.CanRedo(), "a new edit clears redo")
}

func TestHistoryRejectedActionKeepsState(t *testing.T) {
	h := NewHistory(card.Default(), 0)
	_, err := h.Apply(SetField{Field: "textColor", Value: "bogus"})
	require.Error(t, err)
	assert.False(t, h.CanUndo())
	assert.Equal(t, "#000000", h.Present().TextColor)
}

func TestHistoryIsBounded(t *testing.T) {
	h := NewHistory(card.Default(), 3)
	for i := 0; i < 10; i++ {
		_, err := h.Apply(AddService{Text: "s"})
		require.NoError(t, err)
	}
	undos := 0
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	assert.Equal(t, 3, undos)
	assert.Len(t, h.Present().Services, 7)
}

func TestSessionSaveLoadAndRender(t *testing.T) {
	st := &memStore{}
	s := NewSession(card.Default(), render.New(nil, nil), SessionOptions{Store: st})
	ctx := context.Background()
	assert.NotEmpty(t, s.ID)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	state, err := s.Dispatch(SetField{Field: "name.text", Value: "Saved"})
	require.NoError(t, err)
	assert.True(t, state.CanUndo)
	require.NoError(t, s.Save(ctx))

	_, err = s.Dispatch(SetField{Field: "name.text", Value: "Unsaved"})
	require.NoError(t, err)
	state, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Saved", state.Document.Name.Text)

	state, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Unsaved", state.Document.Name.Text)

	st.saveErr = errors.New("disk full")
	assert.Error(t, s.Save(ctx))
	assert.Equal(t, "Unsaved", s.State().Document.Name.Text)

	b, err := s.RenderPNG(ctx)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, card.CanvasWidth, img.Bounds().Dx())
}

func TestSessionWithoutStore(t *testing.T) {
	s := NewSession(card.Default(), render.New(nil, nil), SessionOptions{})
	assert.ErrorIs(t, s.Save(context.Background()), ErrNoStore)
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoStore)
}
