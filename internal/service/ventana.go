package service

import (
	"fmt"
	"time"

	"comedorpanel/internal/periodo"
)

// Reloj abstracts "now" so window filters are deterministic under test.
type Reloj interface {
	Ahora() time.Time
}

// RelojSistema is the production clock.
type RelojSistema struct{}

func (RelojSistema) Ahora() time.Time { return time.Now() }

// resolverVentana parses the optional YYYY-MM-DD custom bounds and resolves
// the requested window around ref.
func resolverVentana(filtro, desde, hasta string, ref time.Time) (periodo.Ventana, error) {
	var d, h *time.Time
	if desde != "" {
		t, err := time.ParseInLocation("2006-01-02", desde, ref.Location())
		if err != nil {
			return periodo.Ventana{}, fmt.Errorf("desde inválido: %q", desde)
		}
		d = &t
	}
	if hasta != "" {
		t, err := time.ParseInLocation("2006-01-02", hasta, ref.Location())
		if err != nil {
			return periodo.Ventana{}, fmt.Errorf("hasta inválido: %q", hasta)
		}
		h = &t
	}
	return periodo.Resolver(filtro, d, h, ref)
}

func formatearFecha(f time.Time) string {
	if f.IsZero() {
		return ""
	}
	return f.Format(time.RFC3339)
}
