package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports input rejected before any remote call was issued.
// Operations that return it have had no effect on the backend.
type ValidationError struct {
	Campos map[string]string
}

func (e *ValidationError) Error() string {
	claves := make([]string, 0, len(e.Campos))
	for k := range e.Campos {
		claves = append(claves, k)
	}
	sort.Strings(claves)
	partes := make([]string, 0, len(claves))
	for _, k := range claves {
		partes = append(partes, fmt.Sprintf("%s: %s", k, e.Campos[k]))
	}
	return "validacion: " + strings.Join(partes, "; ")
}

func nuevaValidacion(campo, motivo string) *ValidationError {
	return &ValidationError{Campos: map[string]string{campo: motivo}}
}

// NotFoundError reports a lookup for an id the backend does not hold.
type NotFoundError struct {
	Recurso string
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Recurso, e.ID)
}
