package handler

import (
	"net/http"

	"syafa-store/internal/pkg/config"
	"syafa-store/internal/web"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the static package catalog and the storefront
// page. The catalog is a leaf read model over the configuration.
type CatalogHandler struct {
	cfg *config.Config
}

func NewCatalogHandler(cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{cfg: cfg}
}

// ListPackages returns the configured package array as-is (bare array,
// storefront contract).
// @Summary List hosting packages
// @Tags Catalog
// @Produce json
// @Router /api/packages [get]
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg.Packages)
}

// Storefront serves the embedded single-page store UI.
func (h *CatalogHandler) Storefront(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.StorefrontHTML)
}
