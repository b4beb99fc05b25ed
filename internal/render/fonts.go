package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/youruser/vcardapp/internal/card"
)

type family struct {
	name       string
	regular    *opentype.Font
	bold       *opentype.Font
	italic     *opentype.Font
	boldItalic *opentype.Font
}

func (f *family) pick(style card.TextStyle) *opentype.Font {
	var out *opentype.Font
	switch {
	case style.Bold() && style.Italic():
		out = f.boldItalic
	case style.Bold():
		out = f.bold
	case style.Italic():
		out = f.italic
	}
	if out == nil {
		out = f.regular
	}
	return out
}

// FontBook resolves CSS-like family names to parsed font files. Families it
// does not know fall back to the built-in Go fonts. A FontBook is read-only
// after construction and safe for concurrent use; faces are not, so callers
// create faces per render.
type FontBook struct {
	families map[string]*family
	fallback *family
}

// NewFontBook returns a book holding only the built-in fallback family.
func NewFontBook() *FontBook {
	fb := &family{name: "Go"}
	fb.regular, _ = opentype.Parse(goregular.TTF)
	fb.bold, _ = opentype.Parse(gobold.TTF)
	fb.italic, _ = opentype.Parse(goitalic.TTF)
	fb.boldItalic, _ = opentype.Parse(gobolditalic.TTF)
	return &FontBook{families: map[string]*family{}, fallback: fb}
}

var variantSuffixes = map[string]string{
	"regular":    "regular",
	"bold":       "bold",
	"italic":     "italic",
	"bolditalic": "boldItalic",
}

// LoadFonts scans dir for files named <Family>-<Variant>.ttf or .otf where
// Variant is Regular, Bold, Italic or BoldItalic (best-effort). Files that
// fail to parse are returned in skipped. A family without a Regular file is
// ignored.
func LoadFonts(dir string) (book *FontBook, skipped map[string]error, err error) {
	book = NewFontBook()
	skipped = map[string]error{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return book, skipped, fmt.Errorf("read font dir %s: %w", dir, err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		dash := strings.LastIndexByte(base, '-')
		if dash <= 0 {
			skipped[e.Name()] = fmt.Errorf("missing variant suffix")
			continue
		}
		variant, ok := variantSuffixes[strings.ToLower(base[dash+1:])]
		if !ok {
			skipped[e.Name()] = fmt.Errorf("unknown variant %q", base[dash+1:])
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			skipped[e.Name()] = err
			continue
		}
		f, err := opentype.Parse(raw)
		if err != nil {
			skipped[e.Name()] = err
			continue
		}
		name := base[:dash]
		key := familyKey(name)
		fam := book.families[key]
		if fam == nil {
			fam = &family{name: name}
			book.families[key] = fam
		}
		switch variant {
		case "regular":
			fam.regular = f
		case "bold":
			fam.bold = f
		case "italic":
			fam.italic = f
		case "boldItalic":
			fam.boldItalic = f
		}
	}
	for key, fam := range book.families {
		if fam.regular == nil {
			delete(book.families, key)
		}
	}
	return book, skipped, nil
}

func familyKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

// Families lists the loaded family names, sorted.
func (b *FontBook) Families() []string {
	out := make([]string, 0, len(b.families))
	for _, f := range b.families {
		out = append(out, f.name)
	}
	sort.Strings(out)
	return out
}

// Has reports whether name resolves to a loaded family.
func (b *FontBook) Has(name string) bool {
	_, ok := b.families[familyKey(name)]
	return ok
}

// Face builds a face for the family at size px. Unknown families use the
// fallback family.
func (b *FontBook) Face(name string, style card.TextStyle, size float64) (font.Face, error) {
	fam, ok := b.families[familyKey(name)]
	if !ok {
		fam = b.fallback
	}
	return opentype.NewFace(fam.pick(style), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
