package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/logistiq/vvp-backend/internal/admin"
	"github.com/logistiq/vvp-backend/internal/catalog"
	"github.com/logistiq/vvp-backend/internal/domain"
)

func newTestRouter(t *testing.T) (*gin.Engine, *catalog.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store := catalog.NewStore(filepath.Join(dir, "catalog.json"))
	services := &Services{
		Store:           store,
		Admin:           admin.NewService(store),
		DataDir:         dir,
		UploadDir:       dir,
		FranceRatesPath: filepath.Join(dir, "fr_delivery_rates.json"),
	}
	return NewRouter(services, nil), store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
}

func TestWarehouseCRUD(t *testing.T) {
	router, _ := newTestRouter(t)

	create := map[string]any{
		"id": "nl_svz",
		"warehouse": domain.Warehouse{
			Name:  "SVZ",
			Rates: domain.Rates{Inbound: 2.75, Outbound: 2.75, Storage: 1.36},
		},
	}
	if w := doJSON(t, router, http.MethodPost, "/api/v1/warehouses", create); w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	// Duplicate create is a validation failure.
	if w := doJSON(t, router, http.MethodPost, "/api/v1/warehouses", create); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate create status = %d, want 400", w.Code)
	}

	if w := doJSON(t, router, http.MethodGet, "/api/v1/warehouses/NL_SVZ", nil); w.Code != http.StatusOK {
		t.Errorf("get status = %d (lookup should be case-insensitive)", w.Code)
	}

	update := domain.Warehouse{Name: "SVZ Venlo", Rates: domain.Rates{Inbound: 3.0}}
	if w := doJSON(t, router, http.MethodPut, "/api/v1/warehouses/nl_svz", update); w.Code != http.StatusOK {
		t.Errorf("update status = %d, body %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, router, http.MethodPut, "/api/v1/warehouses/missing", update); w.Code != http.StatusNotFound {
		t.Errorf("update missing status = %d, want 404", w.Code)
	}

	if w := doJSON(t, router, http.MethodDelete, "/api/v1/warehouses/nl_svz", nil); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodGet, "/api/v1/warehouses/nl_svz", nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestCalculateVVPEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	cat, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	cat, _ = catalog.UpsertWarehouse(cat, "nl_svz", domain.Warehouse{
		Name:  "SVZ",
		Rates: domain.Rates{Inbound: 2.75, Outbound: 2.75, Storage: 1.36},
	})
	if err := store.Save(context.Background(), cat); err != nil {
		t.Fatal(err)
	}

	body := map[string]any{
		"warehouse_id": "nl_svz",
		"input":        map[string]any{"pieces": 1000, "pallets": 10, "weeks": 2},
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/calc/vvp", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result struct {
			TotalCost           float64 `json:"total_cost"`
			CostPerPieceRounded float64 `json:"cost_per_piece_rounded"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.TotalCost != 82.2 || resp.Result.CostPerPieceRounded != 0.09 {
		t.Errorf("result = %+v", resp.Result)
	}

	body["warehouse_id"] = "missing"
	if w := doJSON(t, router, http.MethodPost, "/api/v1/calc/vvp", body); w.Code != http.StatusNotFound {
		t.Errorf("unknown warehouse status = %d, want 404", w.Code)
	}
}

func TestCalculateProfitLossEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]any{
		"pieces":                   1000,
		"vvp_cost_per_piece":       0.09,
		"purchase_price_per_piece": 1.0,
		"sales_price_per_piece":    2.0,
		"delivery_transport_total": 150.0,
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/calc/pnl", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result struct {
			GrossProfit float64 `json:"gross_profit"`
			NetProfit   float64 `json:"net_profit"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if got := resp.Result.GrossProfit - resp.Result.NetProfit; got != 150.0 {
		t.Errorf("gross - net = %v, want the delivery total 150", got)
	}
}

func TestCalculateFranceDeliveryEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	rates := `[{"dept":"30","pallets":1,"total":98.0},{"dept":"30","pallets":5,"total":210.0}]`
	if err := os.WriteFile(filepath.Join(filepath.Dir(store.Path()), "fr_delivery_rates.json"), []byte(rates), 0o644); err != nil {
		t.Fatal(err)
	}

	body := map[string]any{"address": "12 Rue de la Gare, 30100 Alès", "pallets": 3}
	w := doJSON(t, router, http.MethodPost, "/api/v1/calc/france-delivery", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Dept  string  `json:"dept"`
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Dept != "30" || resp.Total != 98.0 {
		t.Errorf("resp = %+v, want dept 30 at the nearest lower pallet rate 98", resp)
	}

	// No postal code anywhere in the address.
	bad := map[string]any{"address": "Main Street, Somewhere", "pallets": 3}
	if w := doJSON(t, router, http.MethodPost, "/api/v1/calc/france-delivery", bad); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestConvertRateTableEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "rates.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("pallets,truck_cost\n1,120\n2,150\n")); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("kind", "truck"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ratetables/convert", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"pallets":1`) {
		t.Errorf("body missing converted entries: %s", w.Body.String())
	}
}

func TestCustomerEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	customer := domain.Customer{Name: "Acme BV", Addresses: []string{"Main St 10"}}
	w := doJSON(t, router, http.MethodPost, "/api/v1/customers", customer)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID != "acme_bv" {
		t.Errorf("generated id = %q, want acme_bv", created.ID)
	}

	if w := doJSON(t, router, http.MethodGet, "/api/v1/customers/acme_bv", nil); w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}

	// Missing address is rejected with the problem list.
	bad := domain.Customer{Name: "No Address"}
	w = doJSON(t, router, http.MethodPost, "/api/v1/customers", bad)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid create status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "problems") {
		t.Errorf("400 body missing problem list: %s", w.Body.String())
	}
}
