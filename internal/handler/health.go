package handler

import (
	"net/http"

	"comedorpanel/internal/remote"

	"github.com/gin-gonic/gin"
)

// Health reports panel liveness plus the state of the backend circuit
// breaker and whether the listing cache is active.
func Health(client *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		estado := client.EstadoBreaker()
		status := http.StatusOK
		salud := "ok"
		if estado == "open" {
			status = http.StatusServiceUnavailable
			salud = "degraded"
		}
		c.JSON(status, gin.H{
			"status":  salud,
			"backend": estado,
			"cache":   client.CacheHabilitada(),
		})
	}
}
