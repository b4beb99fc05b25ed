package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/youruser/vcardapp/internal/api/middleware"
	"github.com/youruser/vcardapp/internal/card"
	imagepkg "github.com/youruser/vcardapp/internal/image"
	"github.com/youruser/vcardapp/internal/metrics"
	"github.com/youruser/vcardapp/internal/render"
)

const (
	exportFilename  = "business-card.png"
	maxDocumentSize = 1 << 20
	defaultQRSize   = 256
	maxQRSize       = 2048
)

// ObjectStore is the slice of storage.Client the handlers need.
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration, filename string) (string, error)
}

// CardHandler serves document defaults, rendering, export and QR codes.
type CardHandler struct {
	renderer   *render.Renderer
	fonts      *render.FontBook
	templates  []card.Template
	objects    ObjectStore
	presignTTL time.Duration
}

func NewCardHandler(renderer *render.Renderer, fonts *render.FontBook, templates []card.Template, objects ObjectStore, presignTTL time.Duration) *CardHandler {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &CardHandler{
		renderer:   renderer,
		fonts:      fonts,
		templates:  templates,
		objects:    objects,
		presignTTL: presignTTL,
	}
}

func (h *CardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Fonts lists the fonts the editor offers and which of them the server can
// actually draw.
func (h *CardHandler) Fonts(c *gin.Context) {
	installed := []string{}
	if h.fonts != nil {
		installed = h.fonts.Families()
	}
	c.JSON(http.StatusOK, gin.H{
		"available": card.AvailableFonts,
		"installed": installed,
		"default":   card.DefaultFont,
	})
}

func (h *CardHandler) Templates(c *gin.Context) {
	templates := h.templates
	if templates == nil {
		templates = []card.Template{}
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *CardHandler) DefaultDocument(c *gin.Context) {
	c.JSON(http.StatusOK, card.Default())
}

// Render returns the PNG for the posted document. ?download=1 asks the
// browser to save it.
func (h *CardHandler) Render(c *gin.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	png, err := renderPNG(c.Request.Context(), h.renderer, doc)
	if err != nil {
		writeRenderError(c, err)
		return
	}

	if download, _ := strconv.ParseBool(c.Query("download")); download {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Export renders the posted document, stores the PNG and returns a
// time limited download link.
func (h *CardHandler) Export(c *gin.Context) {
	if h.objects == nil {
		Unavailable(c, "object storage is not configured")
		return
	}
	doc, ok := bindDocument(c)
	if !ok {
		return
	}
	log := middleware.LoggerFromContext(c)

	png, err := renderPNG(c.Request.Context(), h.renderer, doc)
	if err != nil {
		writeRenderError(c, err)
		return
	}

	objectKey := "exports/" + uuid.NewString() + ".png"
	middleware.AddLogAttrs(c, slog.String("object_key", objectKey))
	if _, err := h.objects.UploadFile(c.Request.Context(), objectKey, bytes.NewReader(png), int64(len(png)), "image/png"); err != nil {
		log.Error("upload export", slog.String("error", err.Error()))
		Internal(c, "failed to store export")
		return
	}
	url, err := h.objects.GeneratePresignedURL(c.Request.Context(), objectKey, h.presignTTL, exportFilename)
	if err != nil {
		log.Error("presign export", slog.String("objectKey", objectKey), slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"objectKey": objectKey,
		"url":       url,
		"filename":  exportFilename,
		"expiresAt": time.Now().Add(h.presignTTL).UTC(),
	})
}

// QR encodes ?text= as SVG (styled) or PNG. Encoding failures are 422.
func (h *CardHandler) QR(c *gin.Context) {
	text := c.Query("text")
	style, err := imagepkg.ParseQRStyle(c.Query("style"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	switch c.DefaultQuery("format", "svg") {
	case "svg":
		svg, err := imagepkg.GenerateQRSVG(text, style)
		metrics.ObserveQR(string(style), err)
		if err != nil {
			UnprocessableEntity(c, err.Error())
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
	case "png":
		size := defaultQRSize
		if raw := c.Query("size"); raw != "" {
			size, err = strconv.Atoi(raw)
			if err != nil || size <= 0 || size > maxQRSize {
				BadRequest(c, fmt.Sprintf("size must be between 1 and %d", maxQRSize))
				return
			}
		}
		png, err := imagepkg.GenerateQRPNG(text, size)
		metrics.ObserveQR(string(imagepkg.QRDefault), err)
		if err != nil {
			UnprocessableEntity(c, err.Error())
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	default:
		BadRequest(c, "format must be svg or png")
	}
}

// bindDocument decodes the request body onto defaults. Syntax errors are 400,
// schema errors 422 with the field list.
func bindDocument(c *gin.Context) (card.Document, bool) {
	doc, err := card.DecodeDocument(http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize))
	if err != nil {
		writeDocumentError(c, err)
		return card.Document{}, false
	}
	return doc, true
}

func writeDocumentError(c *gin.Context, err error) {
	var verr *card.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid card document", "problems": verr.Problems})
		return
	}
	BadRequest(c, err.Error())
}

func renderPNG(ctx context.Context, r *render.Renderer, doc card.Document) ([]byte, error) {
	return observeRender(func() ([]byte, error) {
		var buf bytes.Buffer
		if err := r.RenderPNG(ctx, doc, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// writeRenderError answers a failed render: 408 when the request was
// canceled or timed out, 500 otherwise.
func writeRenderError(c *gin.Context, err error) {
	log := middleware.LoggerFromContext(c)
	if renderCanceled(err) {
		log.Warn("render aborted", slog.Any("error", err))
		Error(c, http.StatusRequestTimeout, "render canceled")
		return
	}
	log.Error("render failed", slog.Any("error", err))
	Internal(c, "render failed")
}

func renderCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// observeRender runs fn and records its duration and outcome.
func observeRender(fn func() ([]byte, error)) ([]byte, error) {
	start := time.Now()
	png, err := fn()
	outcome := metrics.OutcomeOK
	switch {
	case renderCanceled(err):
		outcome = metrics.OutcomeCanceled
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.ObserveRender(outcome, time.Since(start))
	return png, err
}
