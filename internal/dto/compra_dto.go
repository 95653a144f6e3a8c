package dto

import "github.com/shopspring/decimal"

// CompraFilter is bound from the query string of GET /v1/compras.
type CompraFilter struct {
	Periodo  string `form:"periodo,default=hoy"`
	Desde    string `form:"desde"`
	Hasta    string `form:"hasta"`
	Busqueda string `form:"busqueda"` // substring over the item name
}

type CompraRequest struct {
	Producto string          `json:"producto" validate:"required"`
	Cantidad int             `json:"cantidad" validate:"required,min=1"`
	Precio   decimal.Decimal `json:"precio"   validate:"required,gt=0"`
}

type CompraResponse struct {
	ID       string          `json:"id"`
	Producto string          `json:"producto"`
	Cantidad int             `json:"cantidad"`
	Precio   decimal.Decimal `json:"precio"`
	Total    decimal.Decimal `json:"total"`
	Fecha    string          `json:"fecha"`
}

type CompraListResponse struct {
	Data         []CompraResponse `json:"data"`
	Total        int              `json:"total"`
	TotalEgresos decimal.Decimal  `json:"total_egresos"`
}
