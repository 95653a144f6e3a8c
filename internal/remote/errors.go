package remote

import "fmt"

// WriteError reports a non-2xx status from a create/update/delete call
// against the remote backend. It carries which resource and which method
// failed so callers can decide whether the failure is fatal to their
// multi-step operation or merely a per-item warning.
type WriteError struct {
	Recurso string // "venta-encabezado", "venta-detalle", "productos", "compras"
	Metodo  string // HTTP method
	Status  int
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("remote: %s %s devolvió %d", e.Metodo, e.Recurso, e.Status)
}
