package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	Periodo  string `form:"periodo,default=hoy"` // hoy | semana | mes | personalizado | todo
	Desde    string `form:"desde"`               // YYYY-MM-DD, only for personalizado
	Hasta    string `form:"hasta"`               // YYYY-MM-DD, only for personalizado
	Entrega  string `form:"entrega"`             // exact delivery mode, empty = all
	Busqueda string `form:"busqueda"`            // substring over cliente / entrega
}

// PedidoListItem is one order row in the listing (header only; line items are
// loaded per order via GET /v1/pedidos/:id).
type PedidoListItem struct {
	ID      string          `json:"id"`
	Cliente string          `json:"cliente"`
	Entrega string          `json:"entrega"`
	Total   decimal.Decimal `json:"total"`
	Fecha   string          `json:"fecha"`
}

// PedidoListResponse carries the rows plus the stat-card aggregates the
// orders screen shows (count and summed revenue of the filtered set).
type PedidoListResponse struct {
	Data          []PedidoListItem `json:"data"`
	Total         int              `json:"total"`
	TotalIngresos decimal.Decimal  `json:"total_ingresos"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetallePedidoRequest struct {
	ProductoID string          `json:"producto_id" validate:"required"`
	Cantidad   int             `json:"cantidad"    validate:"required,min=1"`
	Precio     decimal.Decimal `json:"precio"      validate:"required,gt=0"`
	// Nota stays in the panel; it is never sent to the backend.
	Nota string `json:"nota"`
}

type PedidoRequest struct {
	Cliente  string                 `json:"cliente"  validate:"required"`
	Entrega  string                 `json:"entrega"  validate:"required"`
	Detalles []DetallePedidoRequest `json:"detalles" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetallePedidoResponse struct {
	ID         string          `json:"id,omitempty"`
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Cantidad   int             `json:"cantidad"`
	Precio     decimal.Decimal `json:"precio"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Nota       string          `json:"nota,omitempty"`
}

// PedidoResponse is the synchronized order as the operation left it.
// Advertencias lists the non-fatal reconciliation problems, summarized with
// one entry per distinct cause. When present, the backend holds a recoverable
// partial state and a re-read is recommended before display.
type PedidoResponse struct {
	ID           string                  `json:"id"`
	Cliente      string                  `json:"cliente"`
	Entrega      string                  `json:"entrega"`
	Total        decimal.Decimal         `json:"total"`
	Fecha        string                  `json:"fecha,omitempty"`
	Detalles     []DetallePedidoResponse `json:"detalles"`
	Advertencias []string                `json:"advertencias,omitempty"`
}

// EliminarPedidoResponse reports the cascade delete outcome.
type EliminarPedidoResponse struct {
	ID                 string   `json:"id"`
	DetallesEliminados int      `json:"detalles_eliminados"`
	Advertencias       []string `json:"advertencias,omitempty"`
}
