package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/youruser/vcardapp/internal/card"
	"github.com/youruser/vcardapp/internal/suggest"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidAction = errors.New("invalid action")
)

// Action is a single user edit. Every action is reduced against the current
// document to produce the next one.
type Action interface {
	Type() string
}

// SetField sets the value at a dotted path such as "textColor",
// "title.text", "services.1.color" or "designStyle.gradientColors".
type SetField struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// MoveElement moves a text field, service or image to (X, Y).
type MoveElement struct {
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// ResizeElement sets the font size of text or the edge length of an image.
type ResizeElement struct {
	Element string  `json:"element"`
	Size    float64 `json:"size"`
}

// SetStyle sets one style property. For images the property lives under
// "style" (shape, shadow, shadowBlur); for services it is one of color,
// textStyle, underline or shadow.
type SetStyle struct {
	Element  string `json:"element"`
	Property string `json:"property"`
	Value    any    `json:"value"`
}

type ApplySuggestion struct {
	Suggestion suggest.Suggestion `json:"-"`
}

type AddService struct {
	Text string `json:"text"`
}

// RemoveService deletes the entry at Index; later entries shift down.
type RemoveService struct {
	Index int `json:"index"`
}

// SetImage attaches an asset reference to an image element. An empty Ref
// detaches it.
type SetImage struct {
	Element string `json:"element"`
	Ref     string `json:"ref"`
}

// ResetDesign restores colors and design style, keeping text and images.
type ResetDesign struct{}

// LoadDocument replaces the whole document.
type LoadDocument struct {
	Document card.Document `json:"-"`
}

func (SetField) Type() string        { return "setField" }
func (MoveElement) Type() string     { return "moveElement" }
func (ResizeElement) Type() string   { return "resizeElement" }
func (SetStyle) Type() string        { return "setStyle" }
func (ApplySuggestion) Type() string { return "applySuggestion" }
func (AddService) Type() string      { return "addService" }
func (RemoveService) Type() string   { return "removeService" }
func (SetImage) Type() string        { return "setImage" }
func (ResetDesign) Type() string     { return "resetDesign" }
func (LoadDocument) Type() string    { return "loadDocument" }

// Envelope is the wire form of an action: {"type": ..., "payload": {...}}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeAction decodes an action envelope.
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	return env.Action()
}

// Action decodes the payload according to the envelope type.
func (env Envelope) Action() (Action, error) {
	payload := env.Payload
	if len(bytes.TrimSpace(payload)) == 0 {
		payload = []byte("{}")
	}

	switch env.Type {
	case "applySuggestion":
		s, err := suggest.Decode(payload)
		if err != nil {
			return nil, err
		}
		return ApplySuggestion{Suggestion: s}, nil
	case "loadDocument":
		doc, err := card.DecodeDocumentBytes(payload)
		if err != nil {
			return nil, err
		}
		return LoadDocument{Document: doc}, nil
	case "resetDesign":
		return ResetDesign{}, nil
	}

	var a Action
	var err error
	switch env.Type {
	case "setField":
		var v SetField
		err = strictUnmarshal(payload, &v)
		a = v
	case "moveElement":
		var v MoveElement
		err = strictUnmarshal(payload, &v)
		a = v
	case "resizeElement":
		var v ResizeElement
		err = strictUnmarshal(payload, &v)
		a = v
	case "setStyle":
		var v SetStyle
		err = strictUnmarshal(payload, &v)
		a = v
	case "addService":
		var v AddService
		err = strictUnmarshal(payload, &v)
		a = v
	case "removeService":
		var v RemoveService
		err = strictUnmarshal(payload, &v)
		a = v
	case "setImage":
		var v SetImage
		err = strictUnmarshal(payload, &v)
		a = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAction, env.Type, err)
	}
	return a, nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
