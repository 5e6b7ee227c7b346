package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/http/handlers"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/http/middleware"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/payments"
)

// NewRouter wires middleware and routes. Handler'lar service'leri alır, DB'ye
// doğrudan dokunmaz.
func NewRouter(logger *slog.Logger, paySvc *payments.Service, whSvc *payments.WebhookService) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.ErrorHandler(logger),
	)

	ph := handlers.NewPaymentsHandler(logger, paySvc)
	wh := handlers.NewWebhookHandler(logger, whSvc)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	{
		api.POST("/payments/redirect", ph.CreateRedirect)
		api.GET("/payments/:orderCode", ph.Get)
		api.POST("/payments/:orderCode/capture", ph.Capture)
		api.POST("/payments/:orderCode/cancel", ph.Cancel)
		api.POST("/payments/:orderCode/refund", ph.Refund)
	}

	r.POST("/webhooks/redsys", wh.Handle)

	return r
}
