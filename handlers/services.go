package handlers

import (
	"net/http"

	"timebank/services/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler exposes service listings.
type CatalogHandler struct {
	Service catalog.CatalogService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: svc}
}

// ListServicesHandler returns all listed service offers.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Service.ListServices()
	if err != nil {
		getLogger(c).Error("Failed to list services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// GetServiceHandler returns a single service offer by ID.
func (h *CatalogHandler) GetServiceHandler(c *gin.Context) {
	svc, err := h.Service.GetService(c.Param("id"))
	if err != nil {
		getLogger(c).Error("Failed to fetch service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch service"})
		return
	}
	if svc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}
