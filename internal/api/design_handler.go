package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/youruser/vcardapp/internal/api/middleware"
	"github.com/youruser/vcardapp/internal/store"
)

// DesignHandler saves and loads the design kept under the fixed key.
type DesignHandler struct {
	store store.DesignStore
}

func NewDesignHandler(s store.DesignStore) *DesignHandler {
	return &DesignHandler{store: s}
}

func (h *DesignHandler) Get(c *gin.Context) {
	doc, err := h.store.Load(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "no saved design")
			return
		}
		middleware.LoggerFromContext(c).Error("load design", slog.String("error", err.Error()))
		Internal(c, "failed to load design")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DesignHandler) Put(c *gin.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}
	if err := h.store.Save(c.Request.Context(), doc); err != nil {
		middleware.LoggerFromContext(c).Error("save design", slog.String("error", err.Error()))
		Internal(c, "failed to save design")
		return
	}
	c.Status(http.StatusNoContent)
}
