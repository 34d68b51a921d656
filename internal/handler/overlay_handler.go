package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"PropertyMap-App/internal/application"
)

// OverlayHandler CADオーバーレイのHTTPハンドラー
type OverlayHandler struct {
	overlayService application.OverlayService
}

// NewOverlayHandler OverlayHandlerの新しいインスタンスを作成
func NewOverlayHandler(overlayService application.OverlayService) *OverlayHandler {
	return &OverlayHandler{
		overlayService: overlayService,
	}
}

// GetOverlay GET /api/overlay?calibration= - WGS84に変換したオーバーレイ
func (h *OverlayHandler) GetOverlay(c *gin.Context) {
	fc, err := h.overlayService.Transformed(c.Query("calibration"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

// GetBounds GET /api/overlay/bounds?calibration= - オーバーレイの表示範囲
func (h *OverlayHandler) GetBounds(c *gin.Context) {
	bounds, err := h.overlayService.Bounds(c.Query("calibration"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bounds)
}

// ListCalibrations GET /api/overlay/calibrations - 登録済みキャリブレーション
func (h *OverlayHandler) ListCalibrations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default":      h.overlayService.DefaultCalibration(),
		"calibrations": h.overlayService.Calibrations(),
	})
}

func (h *OverlayHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUnknownCalibration):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "unknown_calibration",
			"message": err.Error(),
		})
	case errors.Is(err, application.ErrNoOverlay), errors.Is(err, application.ErrEmptyOverlay):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "overlay_not_found",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
