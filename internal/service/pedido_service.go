package service

import (
	"context"
	"fmt"
	"strings"

	"comedorpanel/internal/dto"
	"comedorpanel/internal/model"
	"comedorpanel/internal/remote"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PedidoService presents "save this order" / "delete this order" as single
// operations while driving two independent backend collections (encabezados
// and detalles) into a consistent end state. The backend offers no
// cross-resource transaction, so the flows here are best-effort and
// self-healing: header steps are fatal, per-item steps are logged and
// accumulated, and deletes finish with an orphan check.
type PedidoService interface {
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	Obtener(ctx context.Context, id string) (*dto.PedidoResponse, error)
	Crear(ctx context.Context, req dto.PedidoRequest) (*dto.PedidoResponse, error)
	Actualizar(ctx context.Context, id string, req dto.PedidoRequest) (*dto.PedidoResponse, error)
	Eliminar(ctx context.Context, id string) (*dto.EliminarPedidoResponse, error)
}

type pedidoService struct {
	api   remote.API
	reloj Reloj
}

func NewPedidoService(api remote.API, reloj Reloj) PedidoService {
	if reloj == nil {
		reloj = RelojSistema{}
	}
	return &pedidoService{api: api, reloj: reloj}
}

// validarPedido runs every pre-flight check. It never touches the network:
// an order that fails here has had zero effect on the backend.
func validarPedido(req dto.PedidoRequest) *ValidationError {
	campos := make(map[string]string)
	if strings.TrimSpace(req.Cliente) == "" {
		campos["cliente"] = "requerido"
	}
	if !model.EntregaValida(req.Entrega) {
		campos["entrega"] = "debe ser uno de: " + strings.Join(model.EntregasValidas, ", ")
	}
	if len(req.Detalles) == 0 {
		campos["detalles"] = "el pedido debe tener al menos un producto"
	}
	for i, d := range req.Detalles {
		if d.ProductoID == "" {
			campos[fmt.Sprintf("detalles[%d].producto_id", i)] = "requerido"
		}
		if d.Cantidad <= 0 {
			campos[fmt.Sprintf("detalles[%d].cantidad", i)] = "debe ser mayor a 0"
		}
		if !d.Precio.IsPositive() {
			campos[fmt.Sprintf("detalles[%d].precio", i)] = "debe ser mayor a 0"
		}
	}
	if len(campos) > 0 {
		return &ValidationError{Campos: campos}
	}
	return nil
}

// calcularTotal recomputes the header total from the line items. The
// synchronizer never trusts a client-supplied total.
func calcularTotal(detalles []dto.DetallePedidoRequest) decimal.Decimal {
	total := decimal.Zero
	for _, d := range detalles {
		total = total.Add(d.Precio.Mul(decimal.NewFromInt(int64(d.Cantidad))))
	}
	return total
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Header first (fatal on failure, to obtain the assigned id), then one create
// per line item. An individual item failure does not roll the header back
// (the backend has no cross-resource rollback); it is surfaced as a warning
// so the operator can repair the order with a subsequent edit.

func (s *pedidoService) Crear(ctx context.Context, req dto.PedidoRequest) (*dto.PedidoResponse, error) {
	if err := validarPedido(req); err != nil {
		return nil, err
	}

	total := calcularTotal(req.Detalles)
	venta, err := s.api.CrearVenta(ctx, model.VentaEncabezado{
		Cliente: strings.TrimSpace(req.Cliente),
		Entrega: req.Entrega,
		Total:   total,
	})
	if err != nil {
		return nil, fmt.Errorf("crear encabezado: %w", err)
	}

	nombres := s.nombresDeProductos(ctx)

	resp := &dto.PedidoResponse{
		ID:      venta.ID,
		Cliente: venta.Cliente,
		Entrega: venta.Entrega,
		Total:   total,
		Fecha:   formatearFecha(venta.Fecha),
	}

	fallidos := 0
	for _, d := range req.Detalles {
		creado, err := s.api.CrearDetalle(ctx, model.VentaDetalle{
			VentaEncID: venta.ID,
			ProductoID: d.ProductoID,
			Cantidad:   d.Cantidad,
			Precio:     d.Precio,
		})
		if err != nil {
			fallidos++
			log.Warn().Str("venta_id", venta.ID).Str("producto_id", d.ProductoID).Err(err).
				Msg("pedido: no se pudo crear un detalle")
			continue
		}
		resp.Detalles = append(resp.Detalles, detalleAResponse(*creado, nombres, d.Nota))
	}
	if fallidos > 0 {
		resp.Advertencias = append(resp.Advertencias,
			fmt.Sprintf("%d de %d productos no se pudieron guardar; edite el pedido para completarlo", fallidos, len(req.Detalles)))
	}
	return resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Diff-based reconciliation keyed by producto: persisted items missing from
// the new order are deleted, matching items are updated in place only when
// cantidad or precio changed, and new items are created. Steps run
// sequentially and per-item failures do not abort the remaining steps.

func (s *pedidoService) Actualizar(ctx context.Context, id string, req dto.PedidoRequest) (*dto.PedidoResponse, error) {
	if err := validarPedido(req); err != nil {
		return nil, err
	}

	total := calcularTotal(req.Detalles)
	encabezado := model.VentaEncabezado{
		Cliente: strings.TrimSpace(req.Cliente),
		Entrega: req.Entrega,
		Total:   total,
	}
	if err := s.api.ActualizarVenta(ctx, id, encabezado); err != nil {
		return nil, fmt.Errorf("actualizar encabezado: %w", err)
	}

	existentes, err := s.api.ListarDetallesPorVenta(ctx, id)
	if err != nil {
		// Without the persisted set there is nothing to diff against. The
		// header is already updated; the caller can retry the edit.
		return nil, fmt.Errorf("cargar detalles existentes de %s: %w", id, err)
	}

	porProducto := make(map[string]model.VentaDetalle, len(existentes))
	for _, d := range existentes {
		porProducto[d.ProductoID] = d
	}
	nuevos := make(map[string]dto.DetallePedidoRequest, len(req.Detalles))
	for _, d := range req.Detalles {
		nuevos[d.ProductoID] = d
	}

	fallidos := 0

	// 1. Delete persisted items no longer present. Delete runs before create
	// so the backend never sees two items for the same product transiently.
	for _, existente := range existentes {
		if _, ok := nuevos[existente.ProductoID]; ok {
			continue
		}
		if err := s.api.EliminarDetalle(ctx, existente.ID); err != nil {
			fallidos++
			log.Warn().Str("venta_id", id).Str("detalle_id", existente.ID).Err(err).
				Msg("pedido: no se pudo eliminar un detalle")
		}
	}

	// 2. Update changed items, create new ones.
	for _, d := range req.Detalles {
		existente, ok := porProducto[d.ProductoID]
		if ok {
			if existente.Cantidad == d.Cantidad && existente.Precio.Equal(d.Precio) {
				continue // untouched
			}
			if err := s.api.ActualizarDetalle(ctx, existente.ID, d.Cantidad, d.Precio); err != nil {
				fallidos++
				log.Warn().Str("venta_id", id).Str("detalle_id", existente.ID).Err(err).
					Msg("pedido: no se pudo actualizar un detalle")
			}
			continue
		}
		if _, err := s.api.CrearDetalle(ctx, model.VentaDetalle{
			VentaEncID: id,
			ProductoID: d.ProductoID,
			Cantidad:   d.Cantidad,
			Precio:     d.Precio,
		}); err != nil {
			fallidos++
			log.Warn().Str("venta_id", id).Str("producto_id", d.ProductoID).Err(err).
				Msg("pedido: no se pudo crear un detalle nuevo")
		}
	}

	nombres := s.nombresDeProductos(ctx)
	resp := &dto.PedidoResponse{
		ID:      id,
		Cliente: encabezado.Cliente,
		Entrega: encabezado.Entrega,
		Total:   total,
	}
	for _, d := range req.Detalles {
		existente, ok := porProducto[d.ProductoID]
		det := model.VentaDetalle{VentaEncID: id, ProductoID: d.ProductoID, Cantidad: d.Cantidad, Precio: d.Precio}
		if ok {
			det.ID = existente.ID
		}
		resp.Detalles = append(resp.Detalles, detalleAResponse(det, nombres, d.Nota))
	}
	if fallidos > 0 {
		resp.Advertencias = append(resp.Advertencias,
			fmt.Sprintf("%d operaciones sobre detalles fallaron; el pedido quedó parcialmente sincronizado", fallidos))
	}
	return resp, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Cascade: bulk route first (tolerated on failure), then per-item deletes,
// then the header (fatal on failure), and finally an orphan check over the
// full listing. The per-item pass can race with other panel instances on a
// shared, variable-latency backend, so the final check is what guarantees
// no detalle outlives its encabezado.

func (s *pedidoService) Eliminar(ctx context.Context, id string) (*dto.EliminarPedidoResponse, error) {
	resp := &dto.EliminarPedidoResponse{ID: id}

	if err := s.api.EliminarDetallesPorVenta(ctx, id); err != nil {
		log.Debug().Str("venta_id", id).Err(err).
			Msg("pedido: ruta de borrado masivo no disponible, se borrará por detalle")
	}

	detalles, err := s.api.ListarDetallesPorVenta(ctx, id)
	if err != nil {
		log.Warn().Str("venta_id", id).Err(err).
			Msg("pedido: no se pudieron listar los detalles antes de borrar")
	}
	fallidos := 0
	for _, d := range detalles {
		if err := s.api.EliminarDetalle(ctx, d.ID); err != nil {
			fallidos++
			log.Warn().Str("venta_id", id).Str("detalle_id", d.ID).Err(err).
				Msg("pedido: no se pudo eliminar un detalle")
			continue
		}
		resp.DetallesEliminados++
	}
	if fallidos > 0 {
		resp.Advertencias = append(resp.Advertencias,
			fmt.Sprintf("%d detalles no se pudieron eliminar en la primera pasada", fallidos))
	}

	if err := s.api.EliminarVenta(ctx, id); err != nil {
		return nil, fmt.Errorf("eliminar encabezado: %w", err)
	}

	// Orphan check: one corrective pass over the full listing.
	huerfanos, corregidos, pendientes := s.eliminarHuerfanos(ctx, id)
	resp.DetallesEliminados += corregidos
	if huerfanos > 0 && pendientes == 0 {
		resp.Advertencias = append(resp.Advertencias,
			fmt.Sprintf("se encontraron y eliminaron %d detalles huérfanos", huerfanos))
	}
	if pendientes > 0 {
		resp.Advertencias = append(resp.Advertencias,
			fmt.Sprintf("quedaron %d detalles huérfanos sin eliminar", pendientes))
	}
	return resp, nil
}

// eliminarHuerfanos deletes every line item still referencing ventaID after
// the header is gone. Returns how many orphans were found, corrected, and
// left behind. The listing read bypasses the cache: another panel instance
// may have written detalles inside the TTL and those must be seen here.
func (s *pedidoService) eliminarHuerfanos(ctx context.Context, ventaID string) (encontrados, corregidos, pendientes int) {
	todos, err := s.api.ListarDetallesSinCache(ctx)
	if err != nil {
		log.Warn().Str("venta_id", ventaID).Err(err).
			Msg("pedido: no se pudo verificar detalles huérfanos")
		return 0, 0, 0
	}
	for _, d := range todos {
		if d.VentaEncID != ventaID {
			continue
		}
		encontrados++
		if err := s.api.EliminarDetalle(ctx, d.ID); err != nil {
			pendientes++
			log.Warn().Str("venta_id", ventaID).Str("detalle_id", d.ID).Err(err).
				Msg("pedido: detalle huérfano no se pudo eliminar")
			continue
		}
		corregidos++
	}
	return encontrados, corregidos, pendientes
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	ventana, err := resolverVentana(filter.Periodo, filter.Desde, filter.Hasta, s.reloj.Ahora())
	if err != nil {
		return nil, nuevaValidacion("periodo", err.Error())
	}

	ventas, err := s.api.ListarVentas(ctx)
	if err != nil {
		return nil, err
	}

	busqueda := strings.ToLower(strings.TrimSpace(filter.Busqueda))
	resp := &dto.PedidoListResponse{Data: []dto.PedidoListItem{}, TotalIngresos: decimal.Zero}
	for _, v := range ventas {
		if !ventana.Contiene(v.Fecha) {
			continue
		}
		if filter.Entrega != "" && v.Entrega != filter.Entrega {
			continue
		}
		if busqueda != "" &&
			!strings.Contains(strings.ToLower(v.Cliente), busqueda) &&
			!strings.Contains(strings.ToLower(v.Entrega), busqueda) {
			continue
		}
		resp.Data = append(resp.Data, dto.PedidoListItem{
			ID:      v.ID,
			Cliente: v.Cliente,
			Entrega: v.Entrega,
			Total:   v.Total,
			Fecha:   formatearFecha(v.Fecha),
		})
		resp.TotalIngresos = resp.TotalIngresos.Add(v.Total)
	}
	resp.Total = len(resp.Data)
	return resp, nil
}

func (s *pedidoService) Obtener(ctx context.Context, id string) (*dto.PedidoResponse, error) {
	ventas, err := s.api.ListarVentas(ctx)
	if err != nil {
		return nil, err
	}
	var venta *model.VentaEncabezado
	for i := range ventas {
		if ventas[i].ID == id {
			venta = &ventas[i]
			break
		}
	}
	if venta == nil {
		return nil, &NotFoundError{Recurso: "pedido", ID: id}
	}

	detalles, err := s.api.ListarDetallesPorVenta(ctx, id)
	if err != nil {
		return nil, err
	}

	nombres := s.nombresDeProductos(ctx)
	resp := &dto.PedidoResponse{
		ID:      venta.ID,
		Cliente: venta.Cliente,
		Entrega: venta.Entrega,
		Total:   venta.Total,
		Fecha:   formatearFecha(venta.Fecha),
	}
	for _, d := range detalles {
		resp.Detalles = append(resp.Detalles, detalleAResponse(d, nombres, d.Nota))
	}
	return resp, nil
}

// nombresDeProductos resolves product display names, best-effort: a failed
// catalog read degrades to placeholder names, never to a failed order.
func (s *pedidoService) nombresDeProductos(ctx context.Context) map[string]string {
	productos, err := s.api.ListarProductos(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("pedido: no se pudo cargar el catálogo para nombres")
		return nil
	}
	nombres := make(map[string]string, len(productos))
	for _, p := range productos {
		nombres[p.ID] = p.Nombre
	}
	return nombres
}

func detalleAResponse(d model.VentaDetalle, nombres map[string]string, nota string) dto.DetallePedidoResponse {
	nombre, ok := nombres[d.ProductoID]
	if !ok {
		nombre = "Producto no encontrado"
	}
	return dto.DetallePedidoResponse{
		ID:         d.ID,
		ProductoID: d.ProductoID,
		Nombre:     nombre,
		Cantidad:   d.Cantidad,
		Precio:     d.Precio,
		Subtotal:   d.Subtotal(),
		Nota:       nota,
	}
}

