package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"

	"github.com/youruser/vcardapp/internal/card"
	imagepkg "github.com/youruser/vcardapp/internal/image"
)

var errNoLoader = errors.New("no image loader configured")

// Renderer draws a card.Document onto a Surface. It keeps no state between
// calls and is safe for concurrent use.
type Renderer struct {
	loader       imagepkg.Loader
	fonts        *FontBook
	log          *slog.Logger
	imageTimeout time.Duration
	onImageFail  func(element string, err error)
}

type Option func(*Renderer)

func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithImageFailureHook registers fn to be called whenever an image element is
// skipped because its asset could not be loaded or decoded.
func WithImageFailureHook(fn func(element string, err error)) Option {
	return func(r *Renderer) { r.onImageFail = fn }
}

// WithImageTimeout bounds each image load. Zero means no per-image limit.
func WithImageTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.imageTimeout = d }
}

// New returns a Renderer. loader may be nil, in which case every image
// element is skipped. fonts may be nil, in which case only the built-in
// fallback family is available.
func New(loader imagepkg.Loader, fonts *FontBook, opts ...Option) *Renderer {
	r := &Renderer{loader: loader, fonts: fonts, log: slog.Default()}
	if r.fonts == nil {
		r.fonts = NewFontBook()
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render fully redraws s from doc. Passes run in a fixed order: background,
// pattern, images (profile then logo), text, overlay, border. A failed image
// load only drops that element; the error return is reserved for context
// cancellation.
func (r *Renderer) Render(ctx context.Context, doc card.Document, s Surface) error {
	faces := newFaceCache(r.fonts)
	defer faces.close()

	r.drawBackground(doc, s)
	r.drawPattern(doc.DesignStyle.Pattern, s)

	images := []struct {
		name string
		el   card.ImageElement
	}{
		{card.ElementProfileImage, doc.ProfileImage},
		{card.ElementLogoImage, doc.LogoImage},
	}
	for _, im := range images {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.drawImage(ctx, im.name, im.el, s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.drawText(doc, s, faces)
	r.drawOverlay(doc.DesignStyle.Overlay, s)
	r.drawBorder(doc, s)
	return nil
}

// RenderImage renders doc onto a fresh canvas of the card's logical size.
func (r *Renderer) RenderImage(ctx context.Context, doc card.Document) (*image.RGBA, error) {
	c := NewCanvas(card.CanvasWidth, card.CanvasHeight)
	if err := r.Render(ctx, doc, c); err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// RenderPNG renders doc and writes it to w as PNG.
func (r *Renderer) RenderPNG(ctx context.Context, doc card.Document, w io.Writer) error {
	img, err := r.RenderImage(ctx, doc)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Renderer) loadImage(ctx context.Context, ref string) (image.Image, error) {
	if r.loader == nil {
		return nil, errNoLoader
	}
	if r.imageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.imageTimeout)
		defer cancel()
	}
	return r.loader.Load(ctx, ref)
}

func (r *Renderer) imageFailed(element string, err error) {
	r.log.Warn("image element skipped", "element", element, "error", err)
	if r.onImageFail != nil {
		r.onImageFail(element, err)
	}
}

func (r *Renderer) color(field, s string, fallback color.NRGBA) color.NRGBA {
	c, err := card.ParseColor(s)
	if err != nil {
		r.log.Warn("unparsable color, using fallback", "field", field, "value", s)
		return fallback
	}
	return c
}

type faceKey struct {
	family string
	style  card.TextStyle
	size   float64
}

// faceCache holds the faces used by one render call.
type faceCache struct {
	book  *FontBook
	faces map[faceKey]font.Face
}

func newFaceCache(book *FontBook) *faceCache {
	return &faceCache{book: book, faces: map[faceKey]font.Face{}}
}

func (c *faceCache) get(family string, style card.TextStyle, size float64) (font.Face, error) {
	k := faceKey{family, style, size}
	if f, ok := c.faces[k]; ok {
		return f, nil
	}
	f, err := c.book.Face(family, style, size)
	if err != nil {
		return nil, err
	}
	c.faces[k] = f
	return f, nil
}

func (c *faceCache) close() {
	for _, f := range c.faces {
		f.Close()
	}
}
