package leavebalance

import (
	"net/http"
	"strconv"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/apperror"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leavebalance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetForPersonnel(c *gin.Context) {
	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))

	resp, err := h.service.GetForPersonnel(c.Request.Context(), c.Param("personnelId"), year)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("leave balance request failed",
			zap.String("personnel_id", c.Param("personnelId")),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
