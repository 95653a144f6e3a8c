package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Producto is a menu item as stored by the remote backend.
// The backend assigns the identifier; the panel never generates one.
type Producto struct {
	ID             string          `json:"-"`
	Nombre         string          `json:"nombre"`
	Precio         decimal.Decimal `json:"precio"`
	Categoria      string          `json:"categoria,omitempty"`
	Disponibilidad bool            `json:"disponibilidad"`
}

// UnmarshalJSON accepts both "_id" (Mongo deployments) and "id" for the
// identifier, whichever the backend emits.
func (p *Producto) UnmarshalJSON(b []byte) error {
	type alias Producto
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		PlainID string `json:"id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = primerNoVacio(aux.MongoID, aux.PlainID)
	return nil
}

func primerNoVacio(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
