package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/logistiq/vvp-backend/internal/convert"
)

type ConvertHandler struct {
	uploadDir string
}

func NewConvertHandler(uploadDir string) *ConvertHandler {
	return &ConvertHandler{uploadDir: uploadDir}
}

// ConvertRateTable accepts an uploaded rate sheet and returns the
// normalized rate-table JSON. The "kind" form field selects the layout:
// "truck" (default) for pallets/truck_cost sheets, "france" for the
// department-by-pallet matrix.
func (h *ConvertHandler) ConvertRateTable(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	kind := strings.ToLower(strings.TrimSpace(c.PostForm("kind")))
	if kind == "" {
		kind = "truck"
	}

	path := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded sheet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded file"})
		return
	}
	defer os.Remove(path)

	// JSON uploads are re-normalized rather than parsed as a sheet.
	if kind == "truck" && strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
			return
		}
		entries, err := convert.TruckRatesJSON(data)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"kind": kind, "entries": entries})
		return
	}

	rows, err := convert.ReadRows(path)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	switch kind {
	case "truck":
		entries, err := convert.TruckRates(rows)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"kind": kind, "entries": entries})

	case "france":
		entries, err := convert.FranceMatrix(rows)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"kind": kind, "entries": entries})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown kind " + kind + " (want truck or france)"})
	}
}
