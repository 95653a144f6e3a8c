package handler

import (
	"net/http"

	"comedorpanel/internal/apierror"
	"comedorpanel/internal/dto"
	"comedorpanel/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Listar returns the filtered order listing plus the stat-card aggregates.
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener returns one order with its line items resolved to product names.
func (h *PedidosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear creates the encabezado and its detalles against the backend. A
// partial line-item failure still returns 201: the header exists and the
// response carries the warnings.
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.PedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar reconciles the persisted line-item set against the edited order.
func (h *PedidosHandler) Actualizar(c *gin.Context) {
	var req dto.PedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar cascades the delete and reports the orphan-check outcome.
func (h *PedidosHandler) Eliminar(c *gin.Context) {
	resp, err := h.svc.Eliminar(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
