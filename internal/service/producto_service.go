package service

import (
	"context"
	"strings"
	"sync"

	"comedorpanel/internal/dto"
	"comedorpanel/internal/model"
	"comedorpanel/internal/remote"

	"github.com/rs/zerolog/log"
)

// Availability toggle lifecycle. The panel applies the new value locally
// first so listings reflect the operator's intent immediately, then confirms
// against the backend or reverts.
const (
	DisponibilidadPendiente  = "pendiente"
	DisponibilidadConfirmada = "confirmada"
	DisponibilidadRevertida  = "revertida"
)

// ProductoService proxies the menu catalog and owns the optimistic
// availability toggle.
type ProductoService interface {
	Listar(ctx context.Context, busqueda string) (*dto.ProductoListResponse, error)
	Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id string, req dto.ProductoRequest) error
	Eliminar(ctx context.Context, id string) error
	CambiarDisponibilidad(ctx context.Context, id string, disponible bool) (*dto.ProductoResponse, error)
}

type productoService struct {
	api remote.API

	mu      sync.Mutex
	toggles map[string]*toggle // by product id
}

// toggle is the two-phase state of one availability change.
type toggle struct {
	valor  bool
	estado string
}

func NewProductoService(api remote.API) ProductoService {
	return &productoService{api: api, toggles: make(map[string]*toggle)}
}

func (s *productoService) Listar(ctx context.Context, busqueda string) (*dto.ProductoListResponse, error) {
	productos, err := s.api.ListarProductos(ctx)
	if err != nil {
		return nil, err
	}

	busqueda = strings.ToLower(strings.TrimSpace(busqueda))
	resp := &dto.ProductoListResponse{Data: []dto.ProductoResponse{}}
	for _, p := range productos {
		if busqueda != "" &&
			!strings.Contains(strings.ToLower(p.Nombre), busqueda) &&
			!strings.Contains(strings.ToLower(p.Categoria), busqueda) {
			continue
		}
		resp.Data = append(resp.Data, s.productoAResponse(p))
	}
	resp.Total = len(resp.Data)
	return resp, nil
}

func (s *productoService) Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, nuevaValidacion("nombre", "requerido")
	}
	if req.Precio.IsNegative() {
		return nil, nuevaValidacion("precio", "no puede ser negativo")
	}
	creado, err := s.api.CrearProducto(ctx, model.Producto{
		Nombre:         strings.TrimSpace(req.Nombre),
		Precio:         req.Precio,
		Categoria:      req.Categoria,
		Disponibilidad: req.Disponibilidad,
	})
	if err != nil {
		return nil, err
	}
	resp := s.productoAResponse(*creado)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id string, req dto.ProductoRequest) error {
	if strings.TrimSpace(req.Nombre) == "" {
		return nuevaValidacion("nombre", "requerido")
	}
	if req.Precio.IsNegative() {
		return nuevaValidacion("precio", "no puede ser negativo")
	}
	return s.api.ActualizarProducto(ctx, id, map[string]interface{}{
		"nombre":         strings.TrimSpace(req.Nombre),
		"precio":         req.Precio,
		"categoria":      req.Categoria,
		"disponibilidad": req.Disponibilidad,
	})
}

func (s *productoService) Eliminar(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.toggles, id)
	s.mu.Unlock()
	return s.api.EliminarProducto(ctx, id)
}

// CambiarDisponibilidad is an explicit two-phase update: apply locally
// (pendiente), then confirm against the backend or revert. The reverted state
// stays queryable so the UI can explain why the switch snapped back.
func (s *productoService) CambiarDisponibilidad(ctx context.Context, id string, disponible bool) (*dto.ProductoResponse, error) {
	s.mu.Lock()
	s.toggles[id] = &toggle{valor: disponible, estado: DisponibilidadPendiente}
	s.mu.Unlock()

	err := s.api.ActualizarProducto(ctx, id, map[string]interface{}{"disponibilidad": disponible})

	s.mu.Lock()
	// The lock is released during the remote call, so the entry may have been
	// cleared by a concurrent Eliminar. The toggle is superseded then: the
	// product is gone and there is no state left to confirm or revert.
	if t := s.toggles[id]; t != nil {
		if err != nil {
			t.valor = !disponible
			t.estado = DisponibilidadRevertida
		} else {
			t.estado = DisponibilidadConfirmada
		}
	}
	s.mu.Unlock()

	if err != nil {
		log.Warn().Str("producto_id", id).Bool("disponible", disponible).Err(err).
			Msg("producto: cambio de disponibilidad revertido")
		return nil, err
	}
	return &dto.ProductoResponse{
		ID:                   id,
		Disponibilidad:       disponible,
		EstadoDisponibilidad: DisponibilidadConfirmada,
	}, nil
}

// productoAResponse overlays any in-flight or reverted toggle on the backend
// value. Confirmed toggles need no overlay because the backend already agrees.
func (s *productoService) productoAResponse(p model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:             p.ID,
		Nombre:         p.Nombre,
		Precio:         p.Precio,
		Categoria:      p.Categoria,
		Disponibilidad: p.Disponibilidad,
	}
	s.mu.Lock()
	if t, ok := s.toggles[p.ID]; ok {
		resp.EstadoDisponibilidad = t.estado
		if t.estado == DisponibilidadPendiente {
			resp.Disponibilidad = t.valor
		}
	}
	s.mu.Unlock()
	return resp
}
