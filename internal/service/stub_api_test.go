package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comedorpanel/internal/model"
	"comedorpanel/internal/remote"

	"github.com/shopspring/decimal"
)

var _ remote.API = (*stubAPI)(nil)

// ── In-memory backend stub ───────────────────────────────────────────────────
// stubAPI implements remote.API over in-memory slices and records every write
// in ops (one "METODO recurso id" entry per call) so tests can assert both
// how many calls ran and in what order. Failure injection is per method and,
// for deletes, per detalle id; failEliminarUnaVez fails only the first
// attempt so corrective passes can be observed succeeding.
type stubAPI struct {
	productos []model.Producto
	ventas    []model.VentaEncabezado
	detalles  []model.VentaDetalle
	compras   []model.Compra

	ops              []string
	nextID           int
	lecturasSinCache int

	failCrearVenta         bool
	failActualizarVenta    bool
	failEliminarVenta      bool
	failCrearDetalle       bool
	failActualizarProducto bool
	failListarDetalles     bool
	failEliminarMasivo     bool
	failEliminarUnaVez     map[string]bool // detalle id -> fail next delete
}

func newStubAPI() *stubAPI {
	return &stubAPI{failEliminarUnaVez: make(map[string]bool)}
}

func (s *stubAPI) registrar(formato string, args ...interface{}) {
	s.ops = append(s.ops, fmt.Sprintf(formato, args...))
}

func (s *stubAPI) asignarID() string {
	s.nextID++
	return fmt.Sprintf("id-%d", s.nextID)
}

// contarOps returns how many recorded operations start with prefijo.
func (s *stubAPI) contarOps(prefijo string) int {
	n := 0
	for _, op := range s.ops {
		if len(op) >= len(prefijo) && op[:len(prefijo)] == prefijo {
			n++
		}
	}
	return n
}

// ── Productos ────────────────────────────────────────────────────────────────

func (s *stubAPI) ListarProductos(context.Context) ([]model.Producto, error) {
	return s.productos, nil
}

func (s *stubAPI) CrearProducto(_ context.Context, p model.Producto) (*model.Producto, error) {
	p.ID = s.asignarID()
	s.productos = append(s.productos, p)
	s.registrar("POST productos %s", p.ID)
	return &p, nil
}

func (s *stubAPI) ActualizarProducto(_ context.Context, id string, campos map[string]interface{}) error {
	if s.failActualizarProducto {
		return errors.New("backend caído")
	}
	s.registrar("PUT productos %s", id)
	for i := range s.productos {
		if s.productos[i].ID == id {
			if v, ok := campos["disponibilidad"].(bool); ok {
				s.productos[i].Disponibilidad = v
			}
		}
	}
	return nil
}

func (s *stubAPI) EliminarProducto(_ context.Context, id string) error {
	s.registrar("DELETE productos %s", id)
	return nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func (s *stubAPI) ListarVentas(context.Context) ([]model.VentaEncabezado, error) {
	return s.ventas, nil
}

func (s *stubAPI) CrearVenta(_ context.Context, v model.VentaEncabezado) (*model.VentaEncabezado, error) {
	if s.failCrearVenta {
		return nil, errors.New("backend caído")
	}
	v.ID = s.asignarID()
	v.Fecha = time.Now()
	s.ventas = append(s.ventas, v)
	s.registrar("POST ventas %s", v.ID)
	return &v, nil
}

func (s *stubAPI) ActualizarVenta(_ context.Context, id string, v model.VentaEncabezado) error {
	if s.failActualizarVenta {
		return errors.New("backend caído")
	}
	s.registrar("PUT ventas %s", id)
	for i := range s.ventas {
		if s.ventas[i].ID == id {
			s.ventas[i].Cliente = v.Cliente
			s.ventas[i].Entrega = v.Entrega
			s.ventas[i].Total = v.Total
		}
	}
	return nil
}

func (s *stubAPI) EliminarVenta(_ context.Context, id string) error {
	if s.failEliminarVenta {
		return errors.New("backend caído")
	}
	s.registrar("DELETE ventas %s", id)
	for i := range s.ventas {
		if s.ventas[i].ID == id {
			s.ventas = append(s.ventas[:i], s.ventas[i+1:]...)
			break
		}
	}
	return nil
}

// ── Detalles ─────────────────────────────────────────────────────────────────

func (s *stubAPI) ListarDetalles(context.Context) ([]model.VentaDetalle, error) {
	if s.failListarDetalles {
		return nil, errors.New("backend caído")
	}
	return s.detalles, nil
}

func (s *stubAPI) ListarDetallesSinCache(ctx context.Context) ([]model.VentaDetalle, error) {
	s.lecturasSinCache++
	return s.ListarDetalles(ctx)
}

func (s *stubAPI) ListarDetallesPorVenta(_ context.Context, ventaID string) ([]model.VentaDetalle, error) {
	var filtrados []model.VentaDetalle
	for _, d := range s.detalles {
		if d.VentaEncID == ventaID {
			filtrados = append(filtrados, d)
		}
	}
	return filtrados, nil
}

func (s *stubAPI) CrearDetalle(_ context.Context, d model.VentaDetalle) (*model.VentaDetalle, error) {
	if s.failCrearDetalle {
		return nil, errors.New("backend caído")
	}
	d.ID = s.asignarID()
	s.detalles = append(s.detalles, d)
	s.registrar("POST detalles %s", d.ID)
	return &d, nil
}

func (s *stubAPI) ActualizarDetalle(_ context.Context, id string, cantidad int, precio decimal.Decimal) error {
	s.registrar("PUT detalles %s", id)
	for i := range s.detalles {
		if s.detalles[i].ID == id {
			s.detalles[i].Cantidad = cantidad
			s.detalles[i].Precio = precio
		}
	}
	return nil
}

func (s *stubAPI) EliminarDetalle(_ context.Context, id string) error {
	if s.failEliminarUnaVez[id] {
		delete(s.failEliminarUnaVez, id)
		return errors.New("backend caído")
	}
	s.registrar("DELETE detalles %s", id)
	for i := range s.detalles {
		if s.detalles[i].ID == id {
			s.detalles = append(s.detalles[:i], s.detalles[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubAPI) EliminarDetallesPorVenta(_ context.Context, ventaID string) error {
	if s.failEliminarMasivo {
		return errors.New("ruta no disponible")
	}
	s.registrar("DELETE detalles-masivo %s", ventaID)
	var restantes []model.VentaDetalle
	for _, d := range s.detalles {
		if d.VentaEncID != ventaID {
			restantes = append(restantes, d)
		}
	}
	s.detalles = restantes
	return nil
}

// ── Compras ──────────────────────────────────────────────────────────────────

func (s *stubAPI) ListarCompras(context.Context) ([]model.Compra, error) {
	return s.compras, nil
}

func (s *stubAPI) CrearCompra(_ context.Context, c model.Compra) (*model.Compra, error) {
	c.ID = s.asignarID()
	c.Fecha = time.Now()
	s.compras = append(s.compras, c)
	s.registrar("POST compras %s", c.ID)
	return &c, nil
}

func (s *stubAPI) EliminarCompra(_ context.Context, id string) error {
	s.registrar("DELETE compras %s", id)
	return nil
}

// ── Fixed clock ──────────────────────────────────────────────────────────────

type relojFijo struct{ t time.Time }

func (r relojFijo) Ahora() time.Time { return r.t }
