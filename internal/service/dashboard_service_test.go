package service

import (
	"context"
	"testing"
	"time"

	"comedorpanel/internal/dto"
	"comedorpanel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2025-03-10, 13:00 local.
var refDashboard = time.Date(2025, 3, 10, 13, 0, 0, 0, time.Local)

func venta(id, entrega, total string, fecha time.Time) model.VentaEncabezado {
	return model.VentaEncabezado{ID: id, Cliente: "cliente " + id, Entrega: entrega, Total: precio(total), Fecha: fecha}
}

func TestResumenSinDatos(t *testing.T) {
	svc := NewDashboardService(newStubAPI(), relojFijo{refDashboard})

	resp, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy"})
	require.NoError(t, err)

	assert.True(t, resp.TotalIngresos.IsZero())
	assert.True(t, resp.TotalEgresos.IsZero())
	assert.True(t, resp.GananciaNeta.IsZero())
	assert.True(t, resp.EsGanancia, "zero neto counts as gain")
	assert.True(t, resp.TicketPromedio.IsZero(), "no division by zero")
	assert.Zero(t, resp.CantidadVentas)
	assert.Empty(t, resp.TopProductosVendidos)
	assert.Empty(t, resp.TopInsumosComprados)
}

func TestResumenRespetaLaVentana(t *testing.T) {
	api := newStubAPI()
	api.ventas = []model.VentaEncabezado{
		venta("v1", model.EntregaComerAqui, "100", refDashboard),
		venta("v2", model.EntregaComerAqui, "999", refDashboard.AddDate(0, 0, -3)),
	}
	api.compras = []model.Compra{
		{ID: "c1", Producto: "Tomate", Cantidad: 2, Precio: precio("15"), Fecha: refDashboard},
		{ID: "c2", Producto: "Aceite", Cantidad: 1, Precio: precio("500"), Fecha: refDashboard.AddDate(0, -1, 0)},
	}
	svc := NewDashboardService(api, relojFijo{refDashboard})

	resp, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy"})
	require.NoError(t, err)

	assert.True(t, resp.TotalIngresos.Equal(precio("100")))
	assert.True(t, resp.TotalEgresos.Equal(precio("30")))
	assert.True(t, resp.GananciaNeta.Equal(precio("70")))
	assert.Equal(t, 1, resp.CantidadVentas)
	assert.Equal(t, 1, resp.CantidadCompras)
}

func TestResumenDesglosePorEntregaIgnoraElFiltro(t *testing.T) {
	api := newStubAPI()
	api.ventas = []model.VentaEncabezado{
		venta("v1", model.EntregaComerAqui, "100", refDashboard),
		venta("v2", model.EntregaDomicilio1, "50", refDashboard),
	}
	svc := NewDashboardService(api, relojFijo{refDashboard})

	resp, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy", Entrega: model.EntregaComerAqui})
	require.NoError(t, err)

	// Totals honor the single-mode filter...
	assert.True(t, resp.TotalIngresos.Equal(precio("100")))
	assert.Equal(t, 1, resp.CantidadVentas)

	// ...but the per-mode breakdown still shows every mode in the window.
	require.Len(t, resp.IngresosPorEntrega, 2)
	assert.True(t, resp.IngresosPorEntrega[model.EntregaComerAqui].Equal(precio("100")))
	assert.True(t, resp.IngresosPorEntrega[model.EntregaDomicilio1].Equal(precio("50")))
}

func TestResumenTicketPromedioRedondeado(t *testing.T) {
	api := newStubAPI()
	api.ventas = []model.VentaEncabezado{
		venta("v1", model.EntregaRecoger, "10", refDashboard),
		venta("v2", model.EntregaRecoger, "10", refDashboard),
		venta("v3", model.EntregaRecoger, "5", refDashboard),
	}
	svc := NewDashboardService(api, relojFijo{refDashboard})

	resp, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy"})
	require.NoError(t, err)
	// 25 / 3 = 8.333... rounded to two decimals.
	assert.True(t, resp.TicketPromedio.Equal(precio("8.33")), "promedio %s", resp.TicketPromedio)
}

func TestResumenEntregaDesconocidaRechazada(t *testing.T) {
	svc := NewDashboardService(newStubAPI(), relojFijo{refDashboard})
	_, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy", Entrega: "drone"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

// ── Rankings ─────────────────────────────────────────────────────────────────

func detalle(ventaID, productoID string, cantidad int, precioUnitario string) model.VentaDetalle {
	return model.VentaDetalle{ID: "d-" + ventaID + "-" + productoID, VentaEncID: ventaID, ProductoID: productoID, Cantidad: cantidad, Precio: precio(precioUnitario)}
}

func TestRankingOrdenaPorCantidadLuegoIngreso(t *testing.T) {
	api := newStubAPI()
	api.ventas = []model.VentaEncabezado{venta("v1", model.EntregaComerAqui, "0", refDashboard)}
	api.detalles = []model.VentaDetalle{
		detalle("v1", "p-agua", 2, "20"),   // qty 2, revenue 40
		detalle("v1", "p-tacos", 5, "45"),  // qty 5, revenue 225
		detalle("v1", "p-torta", 5, "60"),  // qty 5, revenue 300
		detalle("v1", "p-cafe", 2, "20"),   // ties with p-agua on qty AND revenue
	}
	api.productos = []model.Producto{
		{ID: "p-tacos", Nombre: "Tacos"},
		{ID: "p-torta", Nombre: "Torta"},
		{ID: "p-agua", Nombre: "Agua"},
		{ID: "p-cafe", Nombre: "Café"},
	}
	svc := NewDashboardService(api, relojFijo{refDashboard})

	resp, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy"})
	require.NoError(t, err)
	require.Len(t, resp.TopProductosVendidos, 4)

	// Quantity first, revenue breaks the 5-5 tie, first-seen breaks the
	// full 2/40 tie between agua and cafe.
	assert.Equal(t, "Torta", resp.TopProductosVendidos[0].Nombre)
	assert.Equal(t, "Tacos", resp.TopProductosVendidos[1].Nombre)
	assert.Equal(t, "Agua", resp.TopProductosVendidos[2].Nombre)
	assert.Equal(t, "Café", resp.TopProductosVendidos[3].Nombre)
}

func TestRankingCortaEnDiez(t *testing.T) {
	api := newStubAPI()
	api.ventas = []model.VentaEncabezado{venta("v1", model.EntregaComerAqui, "0", refDashboard)}
	for i := 0; i < 15; i++ {
		api.detalles = append(api.detalles, model.VentaDetalle{
			ID:         string(rune('a' + i)),
			VentaEncID: "v1",
			ProductoID: string(rune('a' + i)),
			Cantidad:   i + 1,
			Precio:     precio("10"),
		})
	}
	svc := NewDashboardService(api, relojFijo{refDashboard})

	resp, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy"})
	require.NoError(t, err)
	require.Len(t, resp.TopProductosVendidos, 10)
	assert.Equal(t, 15, resp.TopProductosVendidos[0].Cantidad)
}

func TestRankingDeComprasAgrupaPorNombre(t *testing.T) {
	api := newStubAPI()
	api.compras = []model.Compra{
		{ID: "c1", Producto: "Tomate", Cantidad: 2, Precio: precio("15"), Fecha: refDashboard},
		{ID: "c2", Producto: "Tomate", Cantidad: 3, Precio: precio("14"), Fecha: refDashboard},
		{ID: "c3", Producto: "Aceite", Cantidad: 1, Precio: precio("500"), Fecha: refDashboard},
	}
	svc := NewDashboardService(api, relojFijo{refDashboard})

	resp, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy"})
	require.NoError(t, err)
	require.Len(t, resp.TopInsumosComprados, 2)
	assert.Equal(t, "Tomate", resp.TopInsumosComprados[0].Nombre)
	assert.Equal(t, 5, resp.TopInsumosComprados[0].Cantidad)
	assert.True(t, resp.TopInsumosComprados[0].Total.Equal(precio("72")))
}

func TestResumenPerdida(t *testing.T) {
	api := newStubAPI()
	api.ventas = []model.VentaEncabezado{venta("v1", model.EntregaRecoger, "100", refDashboard)}
	api.compras = []model.Compra{{ID: "c1", Producto: "Horno", Cantidad: 1, Precio: precio("5000"), Fecha: refDashboard}}
	svc := NewDashboardService(api, relojFijo{refDashboard})

	resp, err := svc.Resumen(context.Background(), dto.DashboardFilter{Periodo: "hoy"})
	require.NoError(t, err)
	assert.True(t, resp.GananciaNeta.Equal(precio("-4900")))
	assert.False(t, resp.EsGanancia)
}
