package handler

import (
	"net/http"

	"comedorpanel/internal/dto"
	"comedorpanel/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("busqueda"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.ProductoRequest
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

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	var req dto.ProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Actualizar(c.Request.Context(), c.Param("id"), req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CambiarDisponibilidad applies the two-phase optimistic toggle. On backend
// failure the change is reverted and the error surfaced.
func (h *ProductosHandler) CambiarDisponibilidad(c *gin.Context) {
	var req dto.DisponibilidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarDisponibilidad(c.Request.Context(), c.Param("id"), *req.Disponible)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
