package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logistiq/vvp-backend/internal/admin"
	"github.com/logistiq/vvp-backend/internal/catalog"
	"github.com/logistiq/vvp-backend/internal/domain"
)

type CatalogHandler struct {
	store *catalog.Store
	admin *admin.Service
}

func NewCatalogHandler(store *catalog.Store, adminSvc *admin.Service) *CatalogHandler {
	return &CatalogHandler{store: store, admin: adminSvc}
}

// GetCatalog returns the whole catalog plus the last non-fatal load
// warning, so callers can tell they may be looking at stale data.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	cat, err := h.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"catalog":      cat,
		"last_warning": h.store.LastWarning(),
	})
}

func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	cat, err := h.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"warehouses": cat.Warehouses})
}

func (h *CatalogHandler) GetWarehouse(c *gin.Context) {
	cat, err := h.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	wh := catalog.FindWarehouse(cat, c.Param("id"))
	if wh == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown warehouse " + c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"warehouse":           wh,
		"title":               wh.Title(),
		"transfer_mode_label": domain.TransferModeLabel(wh.Features.Transfer.Mode),
	})
}

type warehouseRequest struct {
	ID        string           `json:"id"`
	Warehouse domain.Warehouse `json:"warehouse"`
}

func (h *CatalogHandler) CreateWarehouse(c *gin.Context) {
	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cat, err := h.admin.AddWarehouse(c.Request.Context(), req.ID, req.Warehouse)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"catalog": cat})
}

func (h *CatalogHandler) UpdateWarehouse(c *gin.Context) {
	var wh domain.Warehouse
	if err := c.ShouldBindJSON(&wh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cat, err := h.admin.UpdateWarehouse(c.Request.Context(), c.Param("id"), wh)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": cat})
}

func (h *CatalogHandler) DeleteWarehouse(c *gin.Context) {
	cat, err := h.admin.DeleteWarehouse(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": cat})
}

func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	cat, err := h.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": cat.Customers})
}

func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	cat, err := h.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	customer := catalog.FindCustomer(cat, c.Param("id"))
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown customer " + c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var customer domain.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cat, id, err := h.admin.AddCustomer(c.Request.Context(), customer)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "catalog": cat})
}

func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	var customer domain.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cat, err := h.admin.UpdateCustomer(c.Request.Context(), c.Param("id"), customer)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": cat})
}

func (h *CatalogHandler) DeleteCustomer(c *gin.Context) {
	cat, err := h.admin.DeleteCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": cat})
}

func writeAdminError(c *gin.Context, err error) {
	var verr *admin.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "problems": verr.Problems})
		return
	}
	if errors.Is(err, admin.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
