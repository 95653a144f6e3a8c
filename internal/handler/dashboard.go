package handler

import (
	"net/http"

	"comedorpanel/internal/apierror"
	"comedorpanel/internal/dto"
	"comedorpanel/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Resumen computes the aggregated view for the requested window and optional
// delivery-mode filter. Stateless: every call re-derives from fresh data.
func (h *DashboardHandler) Resumen(c *gin.Context) {
	var filter dto.DashboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
