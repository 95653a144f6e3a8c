package dto

import "github.com/shopspring/decimal"

// DashboardFilter is bound from the query string of GET /v1/dashboard.
type DashboardFilter struct {
	Periodo string `form:"periodo,default=hoy"`
	Desde   string `form:"desde"`
	Hasta   string `form:"hasta"`
	Entrega string `form:"entrega"` // exact delivery mode, empty = all
}

// RankingItem is one row of a top-10 table.
type RankingItem struct {
	Nombre   string          `json:"nombre"`
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardResponse is the derived view model for the selected window.
type DashboardResponse struct {
	Periodo string `json:"periodo"` // display label of the resolved window
	Entrega string `json:"entrega,omitempty"`

	TotalIngresos   decimal.Decimal `json:"total_ingresos"`
	TotalEgresos    decimal.Decimal `json:"total_egresos"`
	GananciaNeta    decimal.Decimal `json:"ganancia_neta"`
	EsGanancia      bool            `json:"es_ganancia"` // sign tag: neto >= 0
	CantidadVentas  int             `json:"cantidad_ventas"`
	CantidadCompras int             `json:"cantidad_compras"`
	TicketPromedio  decimal.Decimal `json:"ticket_promedio"`

	// IngresosPorEntrega always covers every mode present in the window,
	// independent of the single-mode Entrega filter.
	IngresosPorEntrega map[string]decimal.Decimal `json:"ingresos_por_entrega"`

	TopProductosVendidos []RankingItem `json:"top_productos_vendidos"`
	TopInsumosComprados  []RankingItem `json:"top_insumos_comprados"`
}
