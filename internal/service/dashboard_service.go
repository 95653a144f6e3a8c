package service

import (
	"context"
	"sort"

	"comedorpanel/internal/dto"
	"comedorpanel/internal/model"
	"comedorpanel/internal/periodo"
	"comedorpanel/internal/remote"

	"github.com/shopspring/decimal"
)

const topRanking = 10

// DashboardService derives the business metrics view for a time window and
// optional delivery-mode filter. The aggregation itself is a pure transform
// of the fetched collections; no state is kept between calls.
type DashboardService interface {
	Resumen(ctx context.Context, filter dto.DashboardFilter) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	api   remote.API
	reloj Reloj
}

func NewDashboardService(api remote.API, reloj Reloj) DashboardService {
	if reloj == nil {
		reloj = RelojSistema{}
	}
	return &dashboardService{api: api, reloj: reloj}
}

func (s *dashboardService) Resumen(ctx context.Context, filter dto.DashboardFilter) (*dto.DashboardResponse, error) {
	ventana, err := resolverVentana(filter.Periodo, filter.Desde, filter.Hasta, s.reloj.Ahora())
	if err != nil {
		return nil, nuevaValidacion("periodo", err.Error())
	}
	if filter.Entrega != "" && !model.EntregaValida(filter.Entrega) {
		return nil, nuevaValidacion("entrega", "tipo de entrega desconocido")
	}

	// The four collections are fetched sequentially on purpose: remote calls
	// are cheap reads and ordering keeps the backend load predictable.
	ventas, err := s.api.ListarVentas(ctx)
	if err != nil {
		return nil, err
	}
	detalles, err := s.api.ListarDetalles(ctx)
	if err != nil {
		return nil, err
	}
	productos, err := s.api.ListarProductos(ctx)
	if err != nil {
		return nil, err
	}
	compras, err := s.api.ListarCompras(ctx)
	if err != nil {
		return nil, err
	}

	resp := agregarResumen(ventas, detalles, productos, compras, ventana, filter.Entrega)
	resp.Periodo = periodo.Etiqueta(filter.Periodo, ventana)
	resp.Entrega = filter.Entrega
	return resp, nil
}

// agregarResumen is the pure aggregation core: raw collections in, view
// model out. Records outside the window are dropped first (relative order
// preserved), then sales and purchases are reduced independently.
func agregarResumen(
	ventas []model.VentaEncabezado,
	detalles []model.VentaDetalle,
	productos []model.Producto,
	compras []model.Compra,
	ventana periodo.Ventana,
	entrega string,
) *dto.DashboardResponse {
	var ventasEnVentana []model.VentaEncabezado
	for _, v := range ventas {
		if ventana.Contiene(v.Fecha) {
			ventasEnVentana = append(ventasEnVentana, v)
		}
	}
	var comprasEnVentana []model.Compra
	for _, c := range compras {
		if ventana.Contiene(c.Fecha) {
			comprasEnVentana = append(comprasEnVentana, c)
		}
	}

	resp := &dto.DashboardResponse{
		TotalIngresos:      decimal.Zero,
		TotalEgresos:       decimal.Zero,
		TicketPromedio:     decimal.Zero,
		IngresosPorEntrega: map[string]decimal.Decimal{},
	}

	// Breakdown by delivery mode comes BEFORE the single-mode filter, so the
	// chart always shows every mode present in the window.
	for _, v := range ventasEnVentana {
		resp.IngresosPorEntrega[v.Entrega] = acumular(resp.IngresosPorEntrega, v.Entrega, v.Total)
	}

	var filtradas []model.VentaEncabezado
	for _, v := range ventasEnVentana {
		if entrega != "" && v.Entrega != entrega {
			continue
		}
		filtradas = append(filtradas, v)
	}

	for _, v := range filtradas {
		resp.TotalIngresos = resp.TotalIngresos.Add(v.Total)
	}
	resp.CantidadVentas = len(filtradas)
	if resp.CantidadVentas > 0 {
		resp.TicketPromedio = resp.TotalIngresos.DivRound(decimal.NewFromInt(int64(resp.CantidadVentas)), 2)
	}

	resp.TopProductosVendidos = rankearVentas(filtradas, detalles, productos)

	for _, c := range comprasEnVentana {
		resp.TotalEgresos = resp.TotalEgresos.Add(c.Total())
	}
	resp.CantidadCompras = len(comprasEnVentana)
	resp.TopInsumosComprados = rankearCompras(comprasEnVentana)

	resp.GananciaNeta = resp.TotalIngresos.Sub(resp.TotalEgresos)
	resp.EsGanancia = !resp.GananciaNeta.IsNegative()
	return resp
}

func acumular(m map[string]decimal.Decimal, clave string, monto decimal.Decimal) decimal.Decimal {
	actual, ok := m[clave]
	if !ok {
		actual = decimal.Zero
	}
	return actual.Add(monto)
}

// acumulado is one ranking bucket while reducing.
type acumulado struct {
	nombre   string
	cantidad int
	total    decimal.Decimal
	orden    int // first-seen position, the final deterministic tie-break
}

// rankearVentas joins each filtered header's line items with product names
// and ranks by quantity sold, ties broken by revenue and then by first-seen
// order so equal rows always sort the same way.
func rankearVentas(ventas []model.VentaEncabezado, detalles []model.VentaDetalle, productos []model.Producto) []dto.RankingItem {
	nombres := make(map[string]string, len(productos))
	for _, p := range productos {
		nombres[p.ID] = p.Nombre
	}

	porVenta := make(map[string][]model.VentaDetalle, len(ventas))
	for _, d := range detalles {
		porVenta[d.VentaEncID] = append(porVenta[d.VentaEncID], d)
	}

	buckets := make(map[string]*acumulado)
	orden := 0
	for _, v := range ventas {
		for _, d := range porVenta[v.ID] {
			b, ok := buckets[d.ProductoID]
			if !ok {
				nombre, conNombre := nombres[d.ProductoID]
				if !conNombre {
					nombre = "Producto no encontrado"
				}
				b = &acumulado{nombre: nombre, total: decimal.Zero, orden: orden}
				buckets[d.ProductoID] = b
				orden++
			}
			b.cantidad += d.Cantidad
			b.total = b.total.Add(d.Subtotal())
		}
	}
	return ordenarRanking(buckets)
}

// rankearCompras groups purchases by item name (expenses carry no catalog
// reference) with the same ordering rules as the sales ranking.
func rankearCompras(compras []model.Compra) []dto.RankingItem {
	buckets := make(map[string]*acumulado)
	orden := 0
	for _, c := range compras {
		b, ok := buckets[c.Producto]
		if !ok {
			b = &acumulado{nombre: c.Producto, total: decimal.Zero, orden: orden}
			buckets[c.Producto] = b
			orden++
		}
		b.cantidad += c.Cantidad
		b.total = b.total.Add(c.Total())
	}
	return ordenarRanking(buckets)
}

func ordenarRanking(buckets map[string]*acumulado) []dto.RankingItem {
	lista := make([]*acumulado, 0, len(buckets))
	for _, b := range buckets {
		lista = append(lista, b)
	}
	sort.Slice(lista, func(i, j int) bool {
		if lista[i].cantidad != lista[j].cantidad {
			return lista[i].cantidad > lista[j].cantidad
		}
		if !lista[i].total.Equal(lista[j].total) {
			return lista[i].total.GreaterThan(lista[j].total)
		}
		return lista[i].orden < lista[j].orden
	})
	if len(lista) > topRanking {
		lista = lista[:topRanking]
	}
	items := make([]dto.RankingItem, 0, len(lista))
	for _, b := range lista {
		items = append(items, dto.RankingItem{Nombre: b.nombre, Cantidad: b.cantidad, Total: b.total})
	}
	return items
}
