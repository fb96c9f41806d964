package catalog

import (
	"syafa-store/internal/domain/catalog/handler"
	"syafa-store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// Module exposes the package catalog and the storefront page.
type Module struct{}

func init() {
	registry.Register(&Module{})
}

func (m *Module) Name() string {
	return "catalog"
}

func (m *Module) Priority() int {
	// Leaf module; initializes before the order flow.
	return 10
}

func (m *Module) Init(ctx *registry.ModuleContext) error {
	h := handler.NewCatalogHandler(ctx.Config)
	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CatalogHandler) {
	r.GET("/", h.Storefront)
	r.GET("/api/packages", h.ListPackages)
}
