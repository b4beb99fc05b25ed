package imagepkg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyPayload   = errors.New("qr payload is empty")
	ErrUnknownQRStyle = errors.New("unknown qr style")
)

type QRStyle string

const (
	QRDefault QRStyle = "default"
	QRModern1 QRStyle = "modern1"
	QRModern2 QRStyle = "modern2"
	QRModern3 QRStyle = "modern3"
)

// QRStyles lists every supported style.
var QRStyles = []QRStyle{QRDefault, QRModern1, QRModern2, QRModern3}

// ParseQRStyle maps a style name to a QRStyle. The empty string is the
// default style.
func ParseQRStyle(s string) (QRStyle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return QRDefault, nil
	}
	for _, st := range QRStyles {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQRStyle, s)
}

// qrMargin is the quiet zone, in modules, around the SVG symbol.
const qrMargin = 1

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyPayload
	}
	pngBytes, err := qrcode.Encode(text, qrcode.Highest, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return pngBytes, nil
}

// QRModules encodes text at the highest error correction level and returns
// the module matrix without a quiet zone, indexed [y][x].
func QRModules(text string) ([][]bool, error) {
	if text == "" {
		return nil, ErrEmptyPayload
	}
	q, err := qrcode.New(text, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}

// GenerateQRSVG renders text as an SVG document in one of the module styles.
// The viewBox is in module units, so the markup scales to any size.
func GenerateQRSVG(text string, style QRStyle) (string, error) {
	if _, err := ParseQRStyle(string(style)); err != nil {
		return "", err
	}
	modules, err := QRModules(text)
	if err != nil {
		return "", err
	}

	n := len(modules)
	dim := n + 2*qrMargin
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, dim, dim)
	sb.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)
	fmt.Fprintf(&sb, `<g transform="translate(%d,%d)">`, qrMargin, qrMargin)
	writeModules(&sb, modules, style)
	sb.WriteString(`</g></svg>`)
	return sb.String(), nil
}

func writeModules(sb *strings.Builder, modules [][]bool, style QRStyle) {
	var d strings.Builder
	each := func(fn func(x, y float64)) {
		for y, row := range modules {
			for x, on := range row {
				if on {
					fn(float64(x), float64(y))
				}
			}
		}
	}

	switch style {
	case QRModern1:
		each(func(x, y float64) {
			fmt.Fprintf(&d, "M%s,%sh0.8v0.8h-0.8z", num(x+0.1), num(y+0.1))
		})
		fmt.Fprintf(sb, `<path d="%s" fill="black" stroke="none">`, d.String())
		sb.WriteString(`<animate attributeName="fill" values="black;#3498db;black" dur="3s" repeatCount="indefinite"/></path>`)
	case QRModern2:
		each(func(x, y float64) {
			fmt.Fprintf(&d, "M%s,%sl0.4,0.4l-0.4,0.4l-0.4,-0.4z", num(x+0.5), num(y+0.1))
		})
		fmt.Fprintf(sb, `<path d="%s" fill="#e74c3c" stroke="none">`, d.String())
		sb.WriteString(`<animate attributeName="fill" values="#e74c3c;#f39c12;#e74c3c" dur="4s" repeatCount="indefinite"/></path>`)
	case QRModern3:
		sb.WriteString(`<g fill="#2ecc71">`)
		each(func(x, y float64) {
			fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="0.4">`, num(x+0.5), num(y+0.5))
			sb.WriteString(`<animate attributeName="r" values="0.4;0.2;0.4" dur="2s" repeatCount="indefinite"/></circle>`)
		})
		sb.WriteString(`</g>`)
	default:
		each(func(x, y float64) {
			fmt.Fprintf(&d, "M%s,%sh1v1h-1z", num(x), num(y))
		})
		fmt.Fprintf(sb, `<path d="%s" fill="black"/>`, d.String())
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
