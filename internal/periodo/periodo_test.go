package periodo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ref is a Wednesday at mid-afternoon.
var ref = time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

func TestResolverHoy(t *testing.T) {
	v, err := Resolver(Hoy, nil, nil, ref)
	require.NoError(t, err)

	ayer := time.Date(2025, 3, 11, 23, 59, 59, 0, time.UTC)
	madrugada := time.Date(2025, 3, 12, 0, 0, 1, 0, time.UTC)

	assert.False(t, v.Contiene(ayer), "yesterday 23:59:59 must be excluded")
	assert.True(t, v.Contiene(madrugada), "today 00:00:01 must be included")
	assert.True(t, v.Contiene(ref))
}

func TestResolverSemanaEmpiezaDomingo(t *testing.T) {
	v, err := Resolver(Semana, nil, nil, ref)
	require.NoError(t, err)

	domingo := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	sabadoAnterior := time.Date(2025, 3, 8, 23, 59, 59, 0, time.UTC)
	manana := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)

	assert.True(t, v.Contiene(domingo))
	assert.False(t, v.Contiene(sabadoAnterior))
	// The window closes at the end of the reference day, not the end of the week.
	assert.False(t, v.Contiene(manana))
}

func TestResolverMes(t *testing.T) {
	v, err := Resolver(Mes, nil, nil, ref)
	require.NoError(t, err)

	assert.True(t, v.Contiene(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, v.Contiene(time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC)))
	assert.False(t, v.Contiene(time.Date(2025, 3, 13, 0, 0, 1, 0, time.UTC)))
}

func TestResolverPersonalizadoUnSoloLimite(t *testing.T) {
	desde := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	v, err := Resolver(Personalizado, &desde, nil, ref)
	require.NoError(t, err)

	// Missing upper bound does not filter.
	assert.True(t, v.Contiene(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, v.Contiene(time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC)))
}

func TestResolverPersonalizadoHastaFinDelDia(t *testing.T) {
	desde := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	hasta := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	v, err := Resolver(Personalizado, &desde, &hasta, ref)
	require.NoError(t, err)

	// The end date is inclusive through 23:59:59.
	assert.True(t, v.Contiene(time.Date(2025, 3, 5, 22, 15, 0, 0, time.UTC)))
	assert.False(t, v.Contiene(time.Date(2025, 3, 6, 0, 0, 1, 0, time.UTC)))
}

func TestResolverTodo(t *testing.T) {
	v, err := Resolver(Todo, nil, nil, ref)
	require.NoError(t, err)
	assert.True(t, v.Contiene(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestResolverDesconocido(t *testing.T) {
	_, err := Resolver("quincena", nil, nil, ref)
	assert.Error(t, err)
}
