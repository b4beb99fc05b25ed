package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/youruser/vcardapp/internal/api/middleware"
	"github.com/youruser/vcardapp/internal/card"
	"github.com/youruser/vcardapp/internal/suggest"
)

type Suggester interface {
	Suggest(ctx context.Context, description string) (suggest.Suggestion, error)
}

type SuggestHandler struct {
	suggester Suggester
}

func NewSuggestHandler(s Suggester) *SuggestHandler {
	return &SuggestHandler{suggester: s}
}

type suggestRequest struct {
	Prompt  string          `json:"prompt" binding:"required"`
	Current json.RawMessage `json:"current"`
}

// Suggest asks the model for a design. When the caller sends its current
// document the merged result is returned as well.
func (h *SuggestHandler) Suggest(c *gin.Context) {
	if h.suggester == nil {
		Unavailable(c, "ai suggestions are not configured")
		return
	}

	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "prompt is required")
		return
	}

	var current *card.Document
	if len(req.Current) > 0 && string(req.Current) != "null" {
		doc, err := card.DecodeDocumentBytes(req.Current)
		if err != nil {
			writeDocumentError(c, err)
			return
		}
		current = &doc
	}

	s, err := h.suggester.Suggest(c.Request.Context(), req.Prompt)
	if err != nil {
		var derr *suggest.DecodeError
		switch {
		case errors.Is(err, suggest.ErrEmptyPrompt):
			BadRequest(c, err.Error())
		case errors.As(err, &derr):
			UnprocessableEntity(c, "the suggestion could not be used: "+derr.Error())
		default:
			middleware.LoggerFromContext(c).Error("ai suggestion failed", slog.String("error", err.Error()))
			BadGateway(c, "ai suggestion failed")
		}
		return
	}

	keys := make([]string, 0, len(s.Keys))
	for k := range s.Keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	resp := gin.H{"suggestion": s.Document, "keys": keys}
	if current != nil {
		resp["document"] = suggest.Apply(*current, s)
	}
	c.JSON(http.StatusOK, resp)
}
