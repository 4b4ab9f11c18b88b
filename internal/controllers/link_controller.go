package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-be/internal/models"
	"shortlink-be/internal/service"
	"shortlink-be/internal/shortid"
)

type LinkController struct {
	linkService service.LinkService
	logger      *zap.Logger
}

func NewLinkController(linkService service.LinkService) *LinkController {
	return &LinkController{
		linkService: linkService,
		logger:      zap.L().With(zap.String("component", "LinkController")),
	}
}

// CreateLink handles POST /shorten
func (lc *LinkController) CreateLink(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		lc.logger.Debug("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body.",
			Code:  CodeInvalidJSON,
		})
		return
	}

	response, err := lc.linkService.CreateLink(c.Request.Context(), &req)
	if err != nil {
		handleError(c, lc.logger, err, "Failed to shorten URL.")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Redirect handles GET /:shortId
func (lc *LinkController) Redirect(c *gin.Context) {
	shortID := c.Param("shortId")
	if !shortid.IsValid(shortID) {
		handleError(c, lc.logger, service.ErrNotFound, "")
		return
	}

	originalURL, err := lc.linkService.Resolve(c.Request.Context(), shortID)
	if err != nil {
		handleError(c, lc.logger, err, "Failed to redirect.")
		return
	}

	c.Redirect(http.StatusFound, originalURL)
}

// ListLinks handles GET / - every link, newest first
func (lc *LinkController) ListLinks(c *gin.Context) {
	links, err := lc.linkService.ListLinks(c.Request.Context())
	if err != nil {
		handleError(c, lc.logger, err, "Failed to fetch links.")
		return
	}

	c.JSON(http.StatusOK, links)
}

// GetAnalytics handles GET /analytics/:shortId
func (lc *LinkController) GetAnalytics(c *gin.Context) {
	shortID := c.Param("shortId")
	if !shortid.IsValid(shortID) {
		handleError(c, lc.logger, service.ErrNotFound, "")
		return
	}

	analytics, err := lc.linkService.GetAnalytics(c.Request.Context(), shortID)
	if err != nil {
		handleError(c, lc.logger, err, "Failed to fetch analytics.")
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// DeleteLink handles DELETE /delete/:shortId
func (lc *LinkController) DeleteLink(c *gin.Context) {
	shortID := c.Param("shortId")
	if !shortid.IsValid(shortID) {
		handleError(c, lc.logger, service.ErrNotFound, "")
		return
	}

	if err := lc.linkService.DeleteLink(c.Request.Context(), shortID); err != nil {
		handleError(c, lc.logger, err, "Failed to delete link.")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Link deleted successfully."})
}
