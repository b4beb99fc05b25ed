package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youruser/vcardapp/internal/api/middleware"
	imagepkg "github.com/youruser/vcardapp/internal/image"
)

const assetPrefix = "assets/"

var ErrInfected = errors.New("malicious file detected")

// Scanner checks uploaded bytes before they are stored.
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) error
}

// ClamdScanner streams uploads to a clamd daemon.
type ClamdScanner struct {
	Addr string
}

func (s ClamdScanner) Scan(ctx context.Context, r io.Reader) error {
	abort := make(chan bool)
	results, err := clamd.NewClamd(s.Addr).ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	defer close(abort)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			switch res.Status {
			case clamd.RES_OK:
			case clamd.RES_FOUND:
				return fmt.Errorf("%w: %s", ErrInfected, res.Description)
			default:
				return fmt.Errorf("clamd %s: %s", res.Status, res.Description)
			}
		}
	}
}

// AssetHandler accepts profile and logo uploads. Stored assets are referred
// to from documents as asset:<objectKey>.
type AssetHandler struct {
	objects    ObjectStore
	scanner    Scanner
	maxBytes   int64
	presignTTL time.Duration
}

// NewAssetHandler returns an AssetHandler. scanner may be nil to skip
// scanning.
func NewAssetHandler(objects ObjectStore, scanner Scanner, maxBytes int64, presignTTL time.Duration) *AssetHandler {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &AssetHandler{objects: objects, scanner: scanner, maxBytes: maxBytes, presignTTL: presignTTL}
}

func (h *AssetHandler) Upload(c *gin.Context) {
	if h.objects == nil {
		Unavailable(c, "object storage is not configured")
		return
	}
	log := middleware.LoggerFromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	data, err := io.ReadAll(fileReader)
	fileReader.Close()
	if err != nil {
		Internal(c, "failed to read file")
		return
	}

	format, err := imagepkg.SniffFormat(data)
	if err != nil {
		UnprocessableEntity(c, "file is not a supported image")
		return
	}

	if h.scanner != nil {
		if err := h.scanner.Scan(c.Request.Context(), bytes.NewReader(data)); err != nil {
			if errors.Is(err, ErrInfected) {
				log.Warn("rejected infected upload", slog.String("error", err.Error()))
				BadRequest(c, ErrInfected.Error())
				return
			}
			log.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
	}

	objectKey := assetPrefix + uuid.NewString() + "." + format
	middleware.AddLogAttrs(c, slog.String("object_key", objectKey))
	if _, err := h.objects.UploadFile(c.Request.Context(), objectKey, bytes.NewReader(data), int64(len(data)), "image/"+format); err != nil {
		log.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"objectKey": objectKey,
		"ref":       imagepkg.AssetScheme + objectKey,
	})
}

// URL returns a presigned preview link for an uploaded asset.
func (h *AssetHandler) URL(c *gin.Context) {
	if h.objects == nil {
		Unavailable(c, "object storage is not configured")
		return
	}
	objectKey := strings.TrimPrefix(c.Query("key"), imagepkg.AssetScheme)
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}
	if !strings.HasPrefix(objectKey, assetPrefix) || strings.Contains(objectKey, "..") {
		BadRequest(c, "invalid asset key")
		return
	}

	url, err := h.objects.GeneratePresignedURL(c.Request.Context(), objectKey, h.presignTTL, "")
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate presigned url", slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
