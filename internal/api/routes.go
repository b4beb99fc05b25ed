package api

import "github.com/gin-gonic/gin"

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Card    *CardHandler
	Design  *DesignHandler
	Suggest *SuggestHandler
	Asset   *AssetHandler
	Editor  *EditorHandler
}

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		api.GET("/health", h.Card.Health)
		api.GET("/fonts", h.Card.Fonts)
		api.GET("/templates", h.Card.Templates)
		api.GET("/document/default", h.Card.DefaultDocument)
		api.POST("/render", h.Card.Render)
		api.POST("/export", h.Card.Export)
		api.GET("/qr", h.Card.QR)

		api.POST("/suggest", h.Suggest.Suggest)

		api.GET("/design", h.Design.Get)
		api.PUT("/design", h.Design.Put)

		api.POST("/assets", h.Asset.Upload)
		api.GET("/assets/url", h.Asset.URL)

		api.GET("/editor/ws", h.Editor.HandleConnection)
	}
}
