package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Compra is an expense record. Producto is free text; purchases are not
// linked to the menu catalog.
type Compra struct {
	ID       string          `json:"-"`
	Producto string          `json:"producto"`
	Cantidad int             `json:"cantidad"`
	Precio   decimal.Decimal `json:"precio"`
	Fecha    time.Time       `json:"fecha"`
}

func (c *Compra) UnmarshalJSON(b []byte) error {
	type alias Compra
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		PlainID string `json:"id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID = primerNoVacio(aux.MongoID, aux.PlainID)
	return nil
}

// Total returns cantidad × precio.
func (c Compra) Total() decimal.Decimal {
	return c.Precio.Mul(decimal.NewFromInt(int64(c.Cantidad)))
}
