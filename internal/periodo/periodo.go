// Package periodo resolves the date-range filters shared by the orders and
// purchases listings and the dashboard.
package periodo

import (
	"fmt"
	"time"
)

// Supported filter names. They match the values the screens always used.
const (
	Hoy           = "hoy"
	Semana        = "semana"
	Mes           = "mes"
	Personalizado = "personalizado"
	Todo          = "todo"
)

// Ventana is a resolved inclusive time range. A nil bound means unrestricted
// on that side.
type Ventana struct {
	Desde *time.Time
	Hasta *time.Time
}

// Resolver translates a filter name into a concrete window around ref.
//   - hoy:    start of ref's day through end of ref's day
//   - semana: Sunday 00:00 of ref's week through end of ref's day
//   - mes:    first of ref's month through end of ref's day
//   - personalizado: the given bounds; a missing bound stays unrestricted,
//     and hasta is extended to the end of its day
//   - todo:   unrestricted
func Resolver(filtro string, desde, hasta *time.Time, ref time.Time) (Ventana, error) {
	switch filtro {
	case Hoy:
		d := inicioDelDia(ref)
		h := finDelDia(ref)
		return Ventana{Desde: &d, Hasta: &h}, nil
	case Semana:
		d := inicioDelDia(ref.AddDate(0, 0, -int(ref.Weekday())))
		h := finDelDia(ref)
		return Ventana{Desde: &d, Hasta: &h}, nil
	case Mes:
		d := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		h := finDelDia(ref)
		return Ventana{Desde: &d, Hasta: &h}, nil
	case Personalizado:
		v := Ventana{}
		if desde != nil {
			d := inicioDelDia(*desde)
			v.Desde = &d
		}
		if hasta != nil {
			h := finDelDia(*hasta)
			v.Hasta = &h
		}
		return v, nil
	case Todo:
		return Ventana{}, nil
	default:
		return Ventana{}, fmt.Errorf("periodo desconocido: %q", filtro)
	}
}

// Contiene reports whether t falls inside the window (bounds inclusive).
func (v Ventana) Contiene(t time.Time) bool {
	if v.Desde != nil && t.Before(*v.Desde) {
		return false
	}
	if v.Hasta != nil && t.After(*v.Hasta) {
		return false
	}
	return true
}

// Etiqueta returns a display label for the resolved window.
func Etiqueta(filtro string, v Ventana) string {
	switch filtro {
	case Hoy:
		return "Hoy"
	case Semana:
		return "Esta semana"
	case Mes:
		return "Este mes"
	case Personalizado:
		if v.Desde != nil && v.Hasta != nil {
			return v.Desde.Format("02/01/2006") + " - " + v.Hasta.Format("02/01/2006")
		}
		return "Período personalizado"
	case Todo:
		return "Todo el tiempo"
	}
	return filtro
}

func inicioDelDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func finDelDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
