package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"shortlink-be/internal/models"
	"shortlink-be/internal/service"
	"shortlink-be/internal/shortid"
)

const qrCodeSize = 256

type QRCodeController struct {
	linkService service.LinkService
	logger      *zap.Logger
}

func NewQRCodeController(linkService service.LinkService) *QRCodeController {
	return &QRCodeController{
		linkService: linkService,
		logger:      zap.L().With(zap.String("component", "QRCodeController")),
	}
}

// GenerateQRCode handles GET /qrcode/:shortId - PNG QR code of the short URL
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	shortID := c.Param("shortId")
	if !shortid.IsValid(shortID) {
		handleError(c, qc.logger, service.ErrNotFound, "")
		return
	}

	shortURL, err := qc.linkService.LookupShortURL(c.Request.Context(), shortID)
	if err != nil {
		handleError(c, qc.logger, err, "Failed to generate QR code.")
		return
	}

	qrCode, err := qrcode.New(shortURL, qrcode.Medium)
	if err != nil {
		qc.logger.Error("failed to encode QR code", zap.String("short_id", shortID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to generate QR code.",
			Code:  CodeInternal,
		})
		return
	}

	pngData, err := qrCode.PNG(qrCodeSize)
	if err != nil {
		qc.logger.Error("failed to render QR code", zap.String("short_id", shortID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to generate QR code image.",
			Code:  CodeInternal,
		})
		return
	}

	c.Header("Content-Disposition", "inline; filename="+shortID+".png")
	c.Data(http.StatusOK, "image/png", pngData)
}
