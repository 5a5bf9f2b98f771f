package server

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the tool endpoints on r.
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	v1 := r.Group("/v1")
	{
		v1.POST("/tool", h.HandleTool)
		v1.GET("/schema", h.HandleSchema)
	}
	r.GET("/health", h.HandleHealth)
}
