package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shortlink-be/internal/service"
)

type HealthController struct {
	linkService service.LinkService
}

func NewHealthController(linkService service.LinkService) *HealthController {
	return &HealthController{linkService: linkService}
}

// Health handles GET /health
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hc.linkService.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
