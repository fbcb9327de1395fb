package accrual

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("accrual.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accrual.handler")
	}
	return &Handler{service: service, logger: l}
}

// Run is the manual trigger for the monthly job. Its response shape
// matches what the scheduled runner reports, so operators see the
// same contract either way.
func (h *Handler) Run(c *gin.Context) {
	report, err := h.service.Run(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("manual accrual run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf(
			"accrual for %04d-%02d: %d credited, %d skipped, %d failed",
			report.Year, report.Month, report.Processed, report.Skipped, len(report.Failed),
		),
		"report":    report,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
