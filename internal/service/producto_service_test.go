package service

import (
	"context"
	"testing"

	"comedorpanel/internal/dto"
	"comedorpanel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCambiarDisponibilidadConfirmada(t *testing.T) {
	api := newStubAPI()
	api.productos = []model.Producto{{ID: "p1", Nombre: "Tacos", Disponibilidad: true}}
	svc := NewProductoService(api)

	resp, err := svc.CambiarDisponibilidad(context.Background(), "p1", false)
	require.NoError(t, err)
	assert.False(t, resp.Disponibilidad)
	assert.Equal(t, DisponibilidadConfirmada, resp.EstadoDisponibilidad)
	assert.False(t, api.productos[0].Disponibilidad, "backend received the change")
}

func TestCambiarDisponibilidadRevertida(t *testing.T) {
	api := newStubAPI()
	api.productos = []model.Producto{{ID: "p1", Nombre: "Tacos", Disponibilidad: true}}
	api.failActualizarProducto = true
	svc := NewProductoService(api)

	_, err := svc.CambiarDisponibilidad(context.Background(), "p1", false)
	require.Error(t, err)

	// The listing reports the original value plus the reverted marker so the
	// UI can explain why the switch snapped back.
	lista, err := svc.Listar(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, lista.Total)
	assert.True(t, lista.Data[0].Disponibilidad)
	assert.Equal(t, DisponibilidadRevertida, lista.Data[0].EstadoDisponibilidad)
}

// apiConGancho lets a test run arbitrary code while the availability update
// is in flight against the backend.
type apiConGancho struct {
	*stubAPI
	alActualizarProducto func()
}

func (a *apiConGancho) ActualizarProducto(ctx context.Context, id string, campos map[string]interface{}) error {
	if a.alActualizarProducto != nil {
		a.alActualizarProducto()
	}
	return a.stubAPI.ActualizarProducto(ctx, id, campos)
}

func TestCambiarDisponibilidadConEliminacionConcurrente(t *testing.T) {
	api := &apiConGancho{stubAPI: newStubAPI()}
	api.productos = []model.Producto{{ID: "p1", Nombre: "Tacos", Disponibilidad: true}}
	svc := NewProductoService(api)

	// A delete for the same product lands while the toggle's remote call is
	// still running; the toggle entry is cleared mid-flight.
	api.alActualizarProducto = func() {
		require.NoError(t, svc.Eliminar(context.Background(), "p1"))
	}

	require.NotPanics(t, func() {
		resp, err := svc.CambiarDisponibilidad(context.Background(), "p1", false)
		require.NoError(t, err)
		assert.Equal(t, DisponibilidadConfirmada, resp.EstadoDisponibilidad)
	})
}

func TestListarProductosPorBusqueda(t *testing.T) {
	api := newStubAPI()
	api.productos = []model.Producto{
		{ID: "p1", Nombre: "Tacos al pastor", Categoria: "platillos"},
		{ID: "p2", Nombre: "Agua de jamaica", Categoria: "bebidas"},
		{ID: "p3", Nombre: "Café de olla", Categoria: "bebidas"},
	}
	svc := NewProductoService(api)

	lista, err := svc.Listar(context.Background(), "BEBIDAS")
	require.NoError(t, err)
	assert.Equal(t, 2, lista.Total, "search matches categoria, case-insensitive")

	lista, err = svc.Listar(context.Background(), "pastor")
	require.NoError(t, err)
	require.Equal(t, 1, lista.Total)
	assert.Equal(t, "Tacos al pastor", lista.Data[0].Nombre)
}

func TestCrearProductoValidado(t *testing.T) {
	api := newStubAPI()
	svc := NewProductoService(api)

	_, err := svc.Crear(context.Background(), dto.ProductoRequest{Nombre: "   ", Precio: precio("10")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, api.ops)

	creado, err := svc.Crear(context.Background(), dto.ProductoRequest{Nombre: "Tacos", Precio: precio("45.50"), Disponibilidad: true})
	require.NoError(t, err)
	assert.NotEmpty(t, creado.ID, "backend assigns the id")
}

func TestEliminarProductoLimpiaElToggle(t *testing.T) {
	api := newStubAPI()
	api.productos = []model.Producto{{ID: "p1", Nombre: "Tacos", Disponibilidad: true}}
	api.failActualizarProducto = true
	svc := NewProductoService(api)

	_, err := svc.CambiarDisponibilidad(context.Background(), "p1", false)
	require.Error(t, err)

	api.failActualizarProducto = false
	require.NoError(t, svc.Eliminar(context.Background(), "p1"))

	// Re-created under the same id: no stale toggle state bleeds through.
	api.productos = []model.Producto{{ID: "p1", Nombre: "Tacos", Disponibilidad: true}}
	lista, err := svc.Listar(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, lista.Data[0].EstadoDisponibilidad)
}
