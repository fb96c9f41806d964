package order

import (
	"syafa-store/internal/domain/order/gateway"
	"syafa-store/internal/domain/order/handler"
	"syafa-store/internal/domain/order/provisioner"
	"syafa-store/internal/domain/order/service"
	"syafa-store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// Module wires the order lifecycle: store, gateway client, panel client,
// service and routes.
type Module struct{}

func init() {
	registry.Register(&Module{})
}

func (m *Module) Name() string {
	return "order"
}

func (m *Module) Priority() int {
	return 20
}

func (m *Module) Init(ctx *registry.ModuleContext) error {
	atlantic := gateway.NewAtlanticClient(ctx.Config.Atlantic)
	panel := provisioner.NewPterodactylClient(ctx.Config.Pterodactyl)

	// Transaction-id dedup only runs when redis is configured.
	var dedup service.Deduper
	if ctx.Redis != nil {
		dedup = service.NewRedisDeduper(ctx.Redis)
	}

	svc := service.NewOrderService(ctx.Config, ctx.Store, atlantic, panel, dedup, ctx.Metrics)
	h := handler.NewOrderHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	api := r.Group("/api")
	{
		api.POST("/create-order", h.CreateOrder)
		api.GET("/order-status/:reffId", h.GetOrderStatus)
		// Called by the payment gateway; unauthenticated by the
		// gateway's contract (no signature scheme is published).
		api.POST("/webhook", h.Webhook)
		api.GET("/health", h.Health)
	}
}
