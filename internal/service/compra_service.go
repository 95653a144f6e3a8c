package service

import (
	"context"
	"strings"

	"comedorpanel/internal/dto"
	"comedorpanel/internal/model"
	"comedorpanel/internal/remote"

	"github.com/shopspring/decimal"
)

// CompraService manages expense records: list with window/search filters,
// create with pre-flight validation, delete.
type CompraService interface {
	Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
	Crear(ctx context.Context, req dto.CompraRequest) (*dto.CompraResponse, error)
	Eliminar(ctx context.Context, id string) error
}

type compraService struct {
	api   remote.API
	reloj Reloj
}

func NewCompraService(api remote.API, reloj Reloj) CompraService {
	if reloj == nil {
		reloj = RelojSistema{}
	}
	return &compraService{api: api, reloj: reloj}
}

func (s *compraService) Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	ventana, err := resolverVentana(filter.Periodo, filter.Desde, filter.Hasta, s.reloj.Ahora())
	if err != nil {
		return nil, nuevaValidacion("periodo", err.Error())
	}

	compras, err := s.api.ListarCompras(ctx)
	if err != nil {
		return nil, err
	}

	busqueda := strings.ToLower(strings.TrimSpace(filter.Busqueda))
	resp := &dto.CompraListResponse{Data: []dto.CompraResponse{}, TotalEgresos: decimal.Zero}
	for _, c := range compras {
		if !ventana.Contiene(c.Fecha) {
			continue
		}
		if busqueda != "" && !strings.Contains(strings.ToLower(c.Producto), busqueda) {
			continue
		}
		resp.Data = append(resp.Data, compraAResponse(c))
		resp.TotalEgresos = resp.TotalEgresos.Add(c.Total())
	}
	resp.Total = len(resp.Data)
	return resp, nil
}

func (s *compraService) Crear(ctx context.Context, req dto.CompraRequest) (*dto.CompraResponse, error) {
	campos := make(map[string]string)
	if strings.TrimSpace(req.Producto) == "" {
		campos["producto"] = "requerido"
	}
	if req.Cantidad <= 0 {
		campos["cantidad"] = "debe ser mayor a 0"
	}
	if !req.Precio.IsPositive() {
		campos["precio"] = "debe ser mayor a 0"
	}
	if len(campos) > 0 {
		return nil, &ValidationError{Campos: campos}
	}

	creada, err := s.api.CrearCompra(ctx, model.Compra{
		Producto: strings.TrimSpace(req.Producto),
		Cantidad: req.Cantidad,
		Precio:   req.Precio,
	})
	if err != nil {
		return nil, err
	}
	resp := compraAResponse(*creada)
	return &resp, nil
}

func (s *compraService) Eliminar(ctx context.Context, id string) error {
	return s.api.EliminarCompra(ctx, id)
}

func compraAResponse(c model.Compra) dto.CompraResponse {
	return dto.CompraResponse{
		ID:       c.ID,
		Producto: c.Producto,
		Cantidad: c.Cantidad,
		Precio:   c.Precio,
		Total:    c.Total(),
		Fecha:    formatearFecha(c.Fecha),
	}
}
