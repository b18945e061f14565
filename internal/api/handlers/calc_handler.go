package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/logistiq/vvp-backend/internal/catalog"
	"github.com/logistiq/vvp-backend/internal/domain"
	"github.com/logistiq/vvp-backend/internal/engine"
	"github.com/logistiq/vvp-backend/internal/ratetable"
)

type CalcHandler struct {
	store      *catalog.Store
	dataDir    string
	francePath string
}

func NewCalcHandler(store *catalog.Store, dataDir, francePath string) *CalcHandler {
	return &CalcHandler{store: store, dataDir: dataDir, francePath: francePath}
}

type vvpRequest struct {
	WarehouseID string       `json:"warehouse_id" binding:"required"`
	Input       engine.Input `json:"input"`
	// SecondLeg optionally routes the order through a second warehouse;
	// its total is folded into the first-leg result.
	SecondLeg *secondLegRequest `json:"second_leg,omitempty"`
}

type secondLegRequest struct {
	WarehouseID string                `json:"warehouse_id" binding:"required"`
	Input       engine.SecondLegInput `json:"input"`
}

// CalculateVVP computes the itemized first-leg cost for one order.
func (h *CalcHandler) CalculateVVP(c *gin.Context) {
	var req vvpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cat, err := h.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	wh := catalog.FindWarehouse(cat, req.WarehouseID)
	if wh == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown warehouse " + req.WarehouseID})
		return
	}

	var secondLeg *engine.SecondLegResult
	if req.SecondLeg != nil {
		target := catalog.FindWarehouse(cat, req.SecondLeg.WarehouseID)
		if target == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown second-leg warehouse " + req.SecondLeg.WarehouseID})
			return
		}
		res := engine.SecondLeg(*target, req.SecondLeg.Input)
		secondLeg = &res
		req.Input.SecondLegCost = res.Total
	}

	result := engine.NewCalculator(*wh, h.transferTable(*wh)).Calculate(req.Input)

	resp := gin.H{
		"warehouse": wh.Title(),
		"result":    result,
		"breakdown": result.Breakdown(),
	}
	if secondLeg != nil {
		resp["second_leg"] = secondLeg
	}
	c.JSON(http.StatusOK, resp)
}

// CalculateSecondLeg prices the onward transfer to a second warehouse on
// its own, without a first leg.
func (h *CalcHandler) CalculateSecondLeg(c *gin.Context) {
	var req secondLegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cat, err := h.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	wh := catalog.FindWarehouse(cat, req.WarehouseID)
	if wh == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown warehouse " + req.WarehouseID})
		return
	}

	result := engine.SecondLeg(*wh, req.Input)
	c.JSON(http.StatusOK, gin.H{
		"warehouse": wh.Title(),
		"result":    result,
		"breakdown": result.Breakdown(),
	})
}

// CalculateProfitLoss derives the P&L figures from a finished cost run.
func (h *CalcHandler) CalculateProfitLoss(c *gin.Context) {
	var in engine.PnLInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": engine.ProfitLoss(in)})
}

type franceDeliveryRequest struct {
	// Address is any free-text delivery address; the 5-digit French postal
	// code is pulled out of it. PostalCode may be given directly instead.
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	Pallets    int    `json:"pallets"`
}

// CalculateFranceDelivery quotes the delivery leg into a French department
// from the carrier's department-by-pallet rate table.
func (h *CalcHandler) CalculateFranceDelivery(c *gin.Context) {
	var req franceDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	code := req.PostalCode
	if code == "" {
		code = domain.FrenchPostalCode(req.Address)
	}
	dept := domain.FrenchDepartment(code)
	if dept == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no French postal code found in address"})
		return
	}

	table := ratetable.LoadFrance(h.francePath)
	c.JSON(http.StatusOK, gin.H{
		"dept":    dept,
		"pallets": req.Pallets,
		"total":   table.Lookup(dept, req.Pallets),
	})
}

// transferTable loads the warehouse's truck-rate table for excel-mode
// transfers. Tables are read per request so a converted file takes effect
// immediately; a missing file degrades to an empty table.
func (h *CalcHandler) transferTable(wh domain.Warehouse) ratetable.Table {
	if wh.Features.Transfer.Mode != domain.TransferExcel {
		return nil
	}
	path := wh.Features.Transfer.LookupPath
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.dataDir, path)
	}
	return ratetable.Load(path)
}
