package dto

import "github.com/shopspring/decimal"

type ProductoRequest struct {
	Nombre         string          `json:"nombre"         validate:"required"`
	Precio         decimal.Decimal `json:"precio"         validate:"min=0"`
	Categoria      string          `json:"categoria"`
	Disponibilidad bool            `json:"disponibilidad"`
}

// DisponibilidadRequest toggles a product on or off the menu.
type DisponibilidadRequest struct {
	Disponible *bool `json:"disponible" validate:"required"`
}

type ProductoResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Precio         decimal.Decimal `json:"precio"`
	Categoria      string          `json:"categoria,omitempty"`
	Disponibilidad bool            `json:"disponibilidad"`
	// EstadoDisponibilidad reflects the optimistic toggle cycle:
	// "" (untouched) | "pendiente" | "confirmada" | "revertida".
	EstadoDisponibilidad string `json:"estado_disponibilidad,omitempty"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int                `json:"total"`
}
