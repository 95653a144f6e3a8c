package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Delivery modes accepted by the backend. These are wire values: the
// backend stores and filters on the literal strings.
const (
	EntregaRecoger    = "recoger en comedor"
	EntregaComerAqui  = "comer en el lugar"
	EntregaDomicilio1 = "domicilio 1"
	EntregaDomicilio2 = "domicilio 2"
)

// EntregasValidas lists every accepted delivery mode.
var EntregasValidas = []string{
	EntregaDomicilio1,
	EntregaDomicilio2,
	EntregaRecoger,
	EntregaComerAqui,
}

// EntregaValida reports whether e is one of the fixed delivery modes.
func EntregaValida(e string) bool {
	for _, v := range EntregasValidas {
		if v == e {
			return true
		}
	}
	return false
}

// VentaEncabezado is the order-level record. Total must equal the sum of the
// line item subtotals at save time; the synchronizer recomputes it and never
// trusts a client-supplied value.
type VentaEncabezado struct {
	ID      string          `json:"-"`
	Cliente string          `json:"cliente"`
	Entrega string          `json:"entrega"`
	Total   decimal.Decimal `json:"total"`
	Fecha   time.Time       `json:"fecha"`
}

func (v *VentaEncabezado) UnmarshalJSON(b []byte) error {
	type alias VentaEncabezado
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		PlainID string `json:"id"`
	}{alias: (*alias)(v)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	v.ID = primerNoVacio(aux.MongoID, aux.PlainID)
	return nil
}

// VentaDetalle is one product-and-quantity entry belonging to exactly one
// encabezado. Precio is captured at order time and never re-derived from the
// current product price, so historical totals stay consistent.
type VentaDetalle struct {
	ID         string          `json:"-"`
	VentaEncID string          `json:"ventaEncId"`
	ProductoID string          `json:"productoId"`
	Cantidad   int             `json:"cantidad"`
	Precio     decimal.Decimal `json:"precio"`
	// Nota is kept in memory only; the backend contract has no field for it.
	Nota string `json:"-"`
}

func (d *VentaDetalle) UnmarshalJSON(b []byte) error {
	type alias VentaDetalle
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		PlainID string `json:"id"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.ID = primerNoVacio(aux.MongoID, aux.PlainID)
	return nil
}

// Subtotal returns cantidad × precio.
func (d VentaDetalle) Subtotal() decimal.Decimal {
	return d.Precio.Mul(decimal.NewFromInt(int64(d.Cantidad)))
}
