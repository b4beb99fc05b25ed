package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/youruser/vcardapp/internal/card"
	"github.com/youruser/vcardapp/internal/suggest"
)

var ErrUnknownField = errors.New("unknown field")

var (
	imageStyleProps   = map[string]bool{"shape": true, "shadow": true, "shadowBlur": true}
	serviceStyleProps = map[string]bool{"color": true, "textStyle": true, "underline": true, "shadow": true, "font": true}
	textStyleProps    = map[string]bool{"font": true}
)

// Reduce returns the document that results from applying a to doc. doc is
// never modified. On error the caller keeps doc; a result is always valid.
func Reduce(doc card.Document, a Action) (card.Document, error) {
	next, err := reduce(doc.Clone(), a)
	if err != nil {
		return doc, err
	}
	if next.Services == nil {
		next.Services = []card.Service{}
	}
	if err := card.Validate(next); err != nil {
		return doc, err
	}
	return next, nil
}

func reduce(doc card.Document, a Action) (card.Document, error) {
	switch a := a.(type) {
	case SetField:
		return setPath(doc, a.Field, a.Value)

	case MoveElement:
		x, y, err := position(&doc, a.Element)
		if err != nil {
			return doc, err
		}
		*x, *y = a.X, a.Y
		return doc, nil

	case ResizeElement:
		if a.Size < 0 {
			return doc, fmt.Errorf("%w: negative size", ErrInvalidAction)
		}
		size, err := sizeOf(&doc, a.Element)
		if err != nil {
			return doc, err
		}
		*size = a.Size
		return doc, nil

	case SetStyle:
		el, err := card.ParseElement(a.Element)
		if err != nil {
			return doc, err
		}
		var path string
		switch {
		case el.Kind == card.KindImage && imageStyleProps[a.Property]:
			path = el.Name + ".style." + a.Property
		case el.Kind == card.KindService && serviceStyleProps[a.Property]:
			path = el.String() + "." + a.Property
		case el.Kind == card.KindText && textStyleProps[a.Property]:
			path = el.Name + "." + a.Property
		default:
			return doc, fmt.Errorf("%w: %s has no style property %q", ErrInvalidAction, a.Element, a.Property)
		}
		return setPath(doc, path, a.Value)

	case ApplySuggestion:
		return suggest.Apply(doc, a.Suggestion), nil

	case AddService:
		doc.Services = append(doc.Services, card.NewService(a.Text, len(doc.Services)))
		return doc, nil

	case RemoveService:
		if a.Index < 0 || a.Index >= len(doc.Services) {
			return doc, fmt.Errorf("%w: service index %d out of range", ErrInvalidAction, a.Index)
		}
		doc.Services = append(doc.Services[:a.Index], doc.Services[a.Index+1:]...)
		return doc, nil

	case SetImage:
		img, ok := doc.Image(a.Element)
		if !ok {
			return doc, fmt.Errorf("%w: %q is not an image", card.ErrUnknownElement, a.Element)
		}
		img.ImageRef = strings.TrimSpace(a.Ref)
		return doc, nil

	case ResetDesign:
		def := card.Default()
		doc.BackgroundColor = def.BackgroundColor
		doc.TextColor = def.TextColor
		doc.DesignStyle = card.DefaultDesignStyle()
		return doc, nil

	case LoadDocument:
		return a.Document.Clone(), nil
	}
	return doc, fmt.Errorf("%w: %T", ErrUnknownAction, a)
}

func position(doc *card.Document, name string) (x, y *float64, err error) {
	el, err := card.ParseElement(name)
	if err != nil {
		return nil, nil, err
	}
	switch el.Kind {
	case card.KindText:
		f, _ := doc.TextField(el.Name)
		return &f.X, &f.Y, nil
	case card.KindService:
		s, err := service(doc, el.Index)
		if err != nil {
			return nil, nil, err
		}
		return &s.X, &s.Y, nil
	case card.KindImage:
		img, _ := doc.Image(el.Name)
		return &img.X, &img.Y, nil
	}
	return nil, nil, fmt.Errorf("%w: %s cannot be moved", ErrInvalidAction, name)
}

func sizeOf(doc *card.Document, name string) (*float64, error) {
	el, err := card.ParseElement(name)
	if err != nil {
		return nil, err
	}
	switch el.Kind {
	case card.KindText:
		f, _ := doc.TextField(el.Name)
		return &f.Size, nil
	case card.KindService:
		s, err := service(doc, el.Index)
		if err != nil {
			return nil, err
		}
		return &s.Size, nil
	case card.KindImage:
		img, _ := doc.Image(el.Name)
		return &img.Size, nil
	}
	return nil, fmt.Errorf("%w: %s cannot be resized", ErrInvalidAction, name)
}

func service(doc *card.Document, i int) (*card.Service, error) {
	if i < 0 || i >= len(doc.Services) {
		return nil, fmt.Errorf("%w: service index %d out of range", card.ErrUnknownElement, i)
	}
	return &doc.Services[i], nil
}

// setPath sets a dotted JSON path on the document's wire form and decodes the
// result back. Unknown keys and type mismatches are rejected.
func setPath(doc card.Document, path string, value any) (card.Document, error) {
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return doc, fmt.Errorf("%w: %q", ErrUnknownField, path)
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return doc, err
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return doc, err
	}
	if err := setIn(tree, parts, value); err != nil {
		return doc, fmt.Errorf("%w: %q: %v", ErrUnknownField, path, err)
	}

	raw, err = json.Marshal(tree)
	if err != nil {
		return doc, fmt.Errorf("%w: %q: %v", ErrInvalidAction, path, err)
	}
	var out card.Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return doc, fmt.Errorf("%w: %q: %v", ErrInvalidAction, path, err)
	}
	return out, nil
}

func setIn(node any, parts []string, value any) error {
	key, rest := parts[0], parts[1:]
	switch n := node.(type) {
	case map[string]any:
		if len(rest) == 0 {
			n[key] = value
			return nil
		}
		child, ok := n[key]
		if !ok || child == nil {
			child = map[string]any{}
			n[key] = child
		}
		return setIn(child, rest, value)
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(n) {
			return fmt.Errorf("bad index %q", key)
		}
		if len(rest) == 0 {
			n[i] = value
			return nil
		}
		return setIn(n[i], rest, value)
	}
	return fmt.Errorf("%q is not an object", key)
}
