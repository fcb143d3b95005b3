package http

import "github.com/gin-gonic/gin"

// Register attaches the listings routes to the given router group. Extra
// guards (rate limiting) apply to the submission route only.
func (h *Handler) Register(rg *gin.RouterGroup, submitGuards ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, submitGuards...), h.submit)
	rg.POST("/projects/submit", handlers...)
	rg.GET("/projects/next-code", h.nextCode)

	rg.PUT("/drafts/:draft_id/snapshot", h.saveSnapshot)
	rg.GET("/drafts/:draft_id/snapshot", h.loadSnapshot)
	rg.DELETE("/drafts/:draft_id/snapshot", h.discardSnapshot)
}
