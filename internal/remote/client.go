// Package remote implements the typed client for the restaurant REST API.
// That backend is the panel's only datastore: it exposes independent CRUD
// collections (productos, venta-encabezado, venta-detalle, compras) with no
// cross-resource transactions, so the service layer is responsible for
// driving them into consistent states.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"comedorpanel/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Cache keys, one per list endpoint.
const (
	claveProductos = "productos"
	claveVentas    = "ventas"
	claveDetalles  = "detalles"
	claveCompras   = "compras"
)

// API is the remote backend contract the services depend on. Tests stub it.
type API interface {
	ListarProductos(ctx context.Context) ([]model.Producto, error)
	CrearProducto(ctx context.Context, p model.Producto) (*model.Producto, error)
	ActualizarProducto(ctx context.Context, id string, campos map[string]interface{}) error
	EliminarProducto(ctx context.Context, id string) error

	ListarVentas(ctx context.Context) ([]model.VentaEncabezado, error)
	CrearVenta(ctx context.Context, v model.VentaEncabezado) (*model.VentaEncabezado, error)
	ActualizarVenta(ctx context.Context, id string, v model.VentaEncabezado) error
	EliminarVenta(ctx context.Context, id string) error

	ListarDetalles(ctx context.Context) ([]model.VentaDetalle, error)
	ListarDetallesSinCache(ctx context.Context) ([]model.VentaDetalle, error)
	ListarDetallesPorVenta(ctx context.Context, ventaID string) ([]model.VentaDetalle, error)
	CrearDetalle(ctx context.Context, d model.VentaDetalle) (*model.VentaDetalle, error)
	ActualizarDetalle(ctx context.Context, id string, cantidad int, precio decimal.Decimal) error
	EliminarDetalle(ctx context.Context, id string) error
	EliminarDetallesPorVenta(ctx context.Context, ventaID string) error

	ListarCompras(ctx context.Context) ([]model.Compra, error)
	CrearCompra(ctx context.Context, c model.Compra) (*model.Compra, error)
	EliminarCompra(ctx context.Context, id string) error
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	Breaker  BreakerConfig
	Redis    *redis.Client // nil disables the listing cache
	CacheTTL time.Duration
}

// Client talks JSON over HTTP to the remote backend. All calls go through a
// circuit breaker; list reads go through an optional Redis cache.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *Breaker
	cache   *listCache

	mu sync.Mutex
	// Capability probe result for GET /api/venta-detalle/venta/:id. Some
	// backend deployments never shipped that route; once a probe sees 404 the
	// client permanently falls back to list-all-and-filter.
	detalleEndpointAusente bool
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: opts.BaseURL,
		http:    &http.Client{Timeout: opts.Timeout},
		breaker: NewBreaker(opts.Breaker),
		cache:   newListCache(opts.Redis, opts.CacheTTL),
	}
}

var _ API = (*Client)(nil)

// EstadoBreaker exposes the breaker state for the health endpoint.
func (c *Client) EstadoBreaker() string { return c.breaker.State().String() }

// CacheHabilitada reports whether the listing cache is active.
func (c *Client) CacheHabilitada() bool { return c.cache != nil }

// ── Transport ────────────────────────────────────────────────────────────────

// do issues one HTTP call through the breaker. Transport failures and 5xx
// responses count as breaker failures; 4xx responses do not, since a
// validation rejection from the backend says nothing about its availability.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("remote: marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("remote: crear request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var (
		status       int
		body         []byte
		transportErr error
	)
	execErr := c.breaker.Execute(func() error {
		resp, err := c.http.Do(req)
		if err != nil {
			transportErr = fmt.Errorf("remote: backend inaccesible: %w", err)
			return transportErr
		}
		defer resp.Body.Close()
		status = resp.StatusCode
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			transportErr = fmt.Errorf("remote: leer respuesta: %w", err)
			return transportErr
		}
		if status >= 500 {
			return fmt.Errorf("remote: %s %s devolvió %d", method, path, status)
		}
		return nil
	})
	if errors.Is(execErr, ErrCircuitOpen) {
		return 0, nil, execErr
	}
	if transportErr != nil {
		return 0, nil, transportErr
	}
	return status, body, nil
}

// listar fetches a list endpoint, consulting and refreshing the cache.
func (c *Client) listar(ctx context.Context, path, clave string) ([]byte, error) {
	if b := c.cache.get(ctx, clave); b != nil {
		return b, nil
	}
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("remote: GET %s devolvió %d", path, status)
	}
	c.cache.set(ctx, clave, body)
	return body, nil
}

// escribir issues a write call. Any non-2xx status becomes a *WriteError.
// On success the affected listing caches are invalidated and the response
// body (if out != nil) is decoded.
func (c *Client) escribir(ctx context.Context, method, path, recurso string, payload, out interface{}, invalida ...string) error {
	status, body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &WriteError{Recurso: recurso, Metodo: method, Status: status}
	}
	c.cache.invalidar(ctx, invalida...)
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("remote: decodificar respuesta de %s %s: %w", method, recurso, err)
		}
	}
	return nil
}

// ── Productos ────────────────────────────────────────────────────────────────

func (c *Client) ListarProductos(ctx context.Context) ([]model.Producto, error) {
	body, err := c.listar(ctx, "/api/productos", claveProductos)
	if err != nil {
		return nil, err
	}
	var productos []model.Producto
	if err := json.Unmarshal(body, &productos); err != nil {
		return nil, fmt.Errorf("remote: decodificar productos: %w", err)
	}
	return productos, nil
}

func (c *Client) CrearProducto(ctx context.Context, p model.Producto) (*model.Producto, error) {
	var creado model.Producto
	if err := c.escribir(ctx, http.MethodPost, "/api/productos", "productos", p, &creado, claveProductos); err != nil {
		return nil, err
	}
	return &creado, nil
}

func (c *Client) ActualizarProducto(ctx context.Context, id string, campos map[string]interface{}) error {
	return c.escribir(ctx, http.MethodPut, "/api/productos/"+id, "productos", campos, nil, claveProductos)
}

func (c *Client) EliminarProducto(ctx context.Context, id string) error {
	return c.escribir(ctx, http.MethodDelete, "/api/productos/"+id, "productos", nil, nil, claveProductos)
}

// ── Venta encabezados ────────────────────────────────────────────────────────

func (c *Client) ListarVentas(ctx context.Context) ([]model.VentaEncabezado, error) {
	body, err := c.listar(ctx, "/api/venta-encabezado", claveVentas)
	if err != nil {
		return nil, err
	}
	var ventas []model.VentaEncabezado
	if err := json.Unmarshal(body, &ventas); err != nil {
		return nil, fmt.Errorf("remote: decodificar ventas: %w", err)
	}
	return ventas, nil
}

// ventaPayload is the write shape for encabezados. Fecha is server-assigned.
type ventaPayload struct {
	Cliente string          `json:"cliente"`
	Entrega string          `json:"entrega"`
	Total   decimal.Decimal `json:"total"`
}

func (c *Client) CrearVenta(ctx context.Context, v model.VentaEncabezado) (*model.VentaEncabezado, error) {
	payload := ventaPayload{Cliente: v.Cliente, Entrega: v.Entrega, Total: v.Total}
	var creada model.VentaEncabezado
	if err := c.escribir(ctx, http.MethodPost, "/api/venta-encabezado", "venta-encabezado", payload, &creada, claveVentas); err != nil {
		return nil, err
	}
	return &creada, nil
}

func (c *Client) ActualizarVenta(ctx context.Context, id string, v model.VentaEncabezado) error {
	payload := ventaPayload{Cliente: v.Cliente, Entrega: v.Entrega, Total: v.Total}
	return c.escribir(ctx, http.MethodPut, "/api/venta-encabezado/"+id, "venta-encabezado", payload, nil, claveVentas)
}

func (c *Client) EliminarVenta(ctx context.Context, id string) error {
	return c.escribir(ctx, http.MethodDelete, "/api/venta-encabezado/"+id, "venta-encabezado", nil, nil, claveVentas)
}

// ── Venta detalles ───────────────────────────────────────────────────────────

func (c *Client) ListarDetalles(ctx context.Context) ([]model.VentaDetalle, error) {
	body, err := c.listar(ctx, "/api/venta-detalle", claveDetalles)
	if err != nil {
		return nil, err
	}
	var detalles []model.VentaDetalle
	if err := json.Unmarshal(body, &detalles); err != nil {
		return nil, fmt.Errorf("remote: decodificar detalles: %w", err)
	}
	return detalles, nil
}

// ListarDetallesSinCache reads the full listing straight from the backend,
// skipping the Redis cache. Consistency checks need to see writes made by
// other panel instances inside the cache TTL, so a cached response would
// defeat them.
func (c *Client) ListarDetallesSinCache(ctx context.Context) ([]model.VentaDetalle, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/venta-detalle", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("remote: GET /api/venta-detalle devolvió %d", status)
	}
	var detalles []model.VentaDetalle
	if err := json.Unmarshal(body, &detalles); err != nil {
		return nil, fmt.Errorf("remote: decodificar detalles: %w", err)
	}
	return detalles, nil
}

// ListarDetallesPorVenta returns the line items of one encabezado. It prefers
// the per-venta route and degrades to filtering the full listing client-side
// when that route is missing (capability probe, latched on 404/405).
func (c *Client) ListarDetallesPorVenta(ctx context.Context, ventaID string) ([]model.VentaDetalle, error) {
	if !c.endpointDetalleAusente() {
		status, body, err := c.do(ctx, http.MethodGet, "/api/venta-detalle/venta/"+ventaID, nil)
		if err != nil {
			return nil, err
		}
		switch {
		case status == http.StatusOK:
			var detalles []model.VentaDetalle
			if err := json.Unmarshal(body, &detalles); err != nil {
				return nil, fmt.Errorf("remote: decodificar detalles de venta %s: %w", ventaID, err)
			}
			return detalles, nil
		case status == http.StatusNotFound || status == http.StatusMethodNotAllowed:
			c.marcarEndpointDetalleAusente()
		default:
			// Transient failure on the preferred route. Fall back just for
			// this call without latching.
			log.Warn().Int("status", status).Str("venta_id", ventaID).
				Msg("remote: ruta por venta falló, usando listado completo")
		}
	}

	todos, err := c.ListarDetalles(ctx)
	if err != nil {
		return nil, err
	}
	var filtrados []model.VentaDetalle
	for _, d := range todos {
		if d.VentaEncID == ventaID {
			filtrados = append(filtrados, d)
		}
	}
	return filtrados, nil
}

func (c *Client) endpointDetalleAusente() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detalleEndpointAusente
}

func (c *Client) marcarEndpointDetalleAusente() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.detalleEndpointAusente {
		c.detalleEndpointAusente = true
		log.Info().Msg("remote: backend sin ruta /venta-detalle/venta/:id, se filtrará el listado completo")
	}
}

// detallePayload is the create shape for line items. The local Nota field is
// deliberately absent: the backend contract has no column for it.
type detallePayload struct {
	VentaEncID string          `json:"ventaEncId"`
	ProductoID string          `json:"productoId"`
	Cantidad   int             `json:"cantidad"`
	Precio     decimal.Decimal `json:"precio"`
}

func (c *Client) CrearDetalle(ctx context.Context, d model.VentaDetalle) (*model.VentaDetalle, error) {
	payload := detallePayload{VentaEncID: d.VentaEncID, ProductoID: d.ProductoID, Cantidad: d.Cantidad, Precio: d.Precio}
	var creado model.VentaDetalle
	if err := c.escribir(ctx, http.MethodPost, "/api/venta-detalle", "venta-detalle", payload, &creado, claveDetalles); err != nil {
		return nil, err
	}
	return &creado, nil
}

func (c *Client) ActualizarDetalle(ctx context.Context, id string, cantidad int, precio decimal.Decimal) error {
	payload := map[string]interface{}{"cantidad": cantidad, "precio": precio}
	return c.escribir(ctx, http.MethodPut, "/api/venta-detalle/"+id, "venta-detalle", payload, nil, claveDetalles)
}

func (c *Client) EliminarDetalle(ctx context.Context, id string) error {
	return c.escribir(ctx, http.MethodDelete, "/api/venta-detalle/"+id, "venta-detalle", nil, nil, claveDetalles)
}

// EliminarDetallesPorVenta is the bulk cascade route. Not every deployment
// has it; callers treat its failure as tolerable and follow up per item.
func (c *Client) EliminarDetallesPorVenta(ctx context.Context, ventaID string) error {
	return c.escribir(ctx, http.MethodDelete, "/api/venta-detalle/venta/"+ventaID, "venta-detalle", nil, nil, claveDetalles)
}

// ── Compras ──────────────────────────────────────────────────────────────────

func (c *Client) ListarCompras(ctx context.Context) ([]model.Compra, error) {
	body, err := c.listar(ctx, "/api/compras", claveCompras)
	if err != nil {
		return nil, err
	}
	var compras []model.Compra
	if err := json.Unmarshal(body, &compras); err != nil {
		return nil, fmt.Errorf("remote: decodificar compras: %w", err)
	}
	return compras, nil
}

// compraPayload is the create shape for purchases. Fecha is server-assigned.
type compraPayload struct {
	Producto string          `json:"producto"`
	Cantidad int             `json:"cantidad"`
	Precio   decimal.Decimal `json:"precio"`
}

func (c *Client) CrearCompra(ctx context.Context, compra model.Compra) (*model.Compra, error) {
	payload := compraPayload{Producto: compra.Producto, Cantidad: compra.Cantidad, Precio: compra.Precio}
	var creada model.Compra
	if err := c.escribir(ctx, http.MethodPost, "/api/compras", "compras", payload, &creada, claveCompras); err != nil {
		return nil, err
	}
	return &creada, nil
}

func (c *Client) EliminarCompra(ctx context.Context, id string) error {
	return c.escribir(ctx, http.MethodDelete, "/api/compras/"+id, "compras", nil, nil, claveCompras)
}
