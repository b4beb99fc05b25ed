package suggest

import (
	"fmt"
	"strings"

	"github.com/youruser/vcardapp/internal/card"
)

// Ranges the model is told to stay within. The renderer itself accepts any
// coordinates.
const (
	minX, maxX       = 20, 380
	minY, maxY       = 20, 330
	minSize, maxSize = 14, 36
)

const promptTemplate = `Create a unique, creative business card design for: %q.

Analyse the field of work and pick a matching style:
- colour combinations suited to the industry
- fonts that reflect the character of the business
- a creative arrangement of the elements

Return ONLY a JSON object with this structure (replace the examples with real values):
{
  "backgroundColor": "#FFFFFF",
  "textColor": "#000000",
  "name": {"text": "Jane Doe", "x": 20, "y": 160, "size": 24, "font": "Arial"},
  "title": {"text": "Senior Developer", "x": 20, "y": 190, "size": 18, "font": "Arial"},
  "company": {"text": "Tech Solutions", "x": 20, "y": 220, "size": 18, "font": "Arial"},
  "email": {"text": "jane@example.com", "x": 20, "y": 250, "size": 16, "font": "Arial"},
  "phone": {"text": "+1 555 123 4567", "x": 20, "y": 280, "size": 16, "font": "Arial"},
  "website": {"text": "www.example.com", "x": 20, "y": 310, "size": 16, "font": "Arial"},
  "profileImage": {"style": {"shape": "circle", "shadow": true, "shadowBlur": 10}},
  "logoImage": {"style": {"shape": "square", "shadow": true, "shadowBlur": 10}},
  "designStyle": {
    "pattern": "dots",
    "overlay": "gradient",
    "gradientColors": ["#4a90e2", "#50e3c2"],
    "borderStyle": "solid",
    "backgroundGradient": true,
    "backgroundGradientType": "linear",
    "backgroundGradientAngle": 45
  }
}

IMPORTANT:
1. Return only JSON, with no extra text.
2. Use only these values:
   - shape: %s
   - pattern: %s
   - overlay: %s
   - borderStyle: %s
   - font: %s
   - x coordinates: %d to %d
   - y coordinates: %d to %d
   - font size: %d to %d
3. All colours must be HEX (#RRGGBB).
4. All numbers must be JSON numbers, not strings.
5. All booleans must be true/false, not strings.`

// BuildPrompt wraps a free-form description in the instructions that make the
// model answer with a card document.
func BuildPrompt(description string) string {
	return fmt.Sprintf(promptTemplate,
		strings.TrimSpace(description),
		quoted(card.ShapeCircle, card.ShapeSquare, card.ShapeHexagon),
		quoted(card.PatternDots, card.PatternLines, card.PatternGrid, card.PatternNone),
		quoted(card.OverlayGradient, card.OverlayVignette, card.OverlayNone),
		quoted(card.BorderSolid, card.BorderDouble, card.BorderDashed, card.BorderNone),
		quoted(card.AvailableFonts...),
		minX, maxX, minY, maxY, minSize, maxSize,
	)
}

func quoted[T ~string](vals ...T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%q", string(v))
	}
	return strings.Join(parts, ", ")
}
