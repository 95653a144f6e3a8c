package router

import (
	"time"

	"comedorpanel/internal/config"
	"comedorpanel/internal/handler"
	"comedorpanel/internal/middleware"
	"comedorpanel/internal/remote"
	"comedorpanel/internal/service"

	"github.com/gin-gonic/gin"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← remote.Client ← backend/Redis
func New(cfg *config.Config, client *remote.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Services ─────────────────────────────────────────────────────────────
	reloj := service.RelojSistema{}
	productoSvc := service.NewProductoService(client)
	pedidoSvc := service.NewPedidoService(client, reloj)
	compraSvc := service.NewCompraService(client, reloj)
	dashboardSvc := service.NewDashboardService(client, reloj)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(client))

	v1 := r.Group("/v1")
	{
		v1.GET("/dashboard", dashboardH.Resumen)

		productos := v1.Group("/productos")
		{
			productos.GET("", productosH.Listar)
			productos.POST("", productosH.Crear)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Eliminar)
			productos.PATCH("/:id/disponibilidad", productosH.CambiarDisponibilidad)
		}

		pedidos := v1.Group("/pedidos")
		{
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.Obtener)
			pedidos.POST("", pedidosH.Crear)
			pedidos.PUT("/:id", pedidosH.Actualizar)
			pedidos.DELETE("/:id", pedidosH.Eliminar)
		}

		compras := v1.Group("/compras")
		{
			compras.GET("", comprasH.Listar)
			compras.POST("", comprasH.Crear)
			compras.DELETE("/:id", comprasH.Eliminar)
		}
	}

	return r
}
