package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sangkips/procura-api/internal/application/service"
	"github.com/sangkips/procura-api/internal/config"
	"github.com/sangkips/procura-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/internal/presentation/http/handler"
	"github.com/sangkips/procura-api/internal/presentation/http/middleware"
	"github.com/sangkips/procura-api/pkg/logger"
	"github.com/sangkips/procura-api/pkg/metrics"
	"github.com/sangkips/procura-api/pkg/utils"
)

var allPermissions = []string{
	"manage-products", "manage-settings", "manage-suppliers",
	"manage-branches", "manage-purchases", "manage-stock",
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

type apiFixture struct {
	router *gin.Engine
	jwt    *utils.JWTManager
	token  string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.NewGormLogger(gormlogger.Silent, 0),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)

	productRepo := infraRepo.NewProductRepository(db)
	taxRepo := infraRepo.NewTaxRateRepository(db)
	bankRepo := infraRepo.NewBankAccountRepository(db)
	supplierRepo := infraRepo.NewSupplierRepository(db)
	branchRepo := infraRepo.NewBranchRepository(db)
	stockRepo := infraRepo.NewBranchStockRepository(db)
	orderRepo := infraRepo.NewPurchaseOrderRepository(db)

	stockService := service.NewStockService(stockRepo, productRepo, branchRepo, m)
	handlers := &Handlers{
		Product:       handler.NewProductHandler(service.NewProductService(productRepo, taxRepo), stockService),
		Settings:      handler.NewSettingsHandler(service.NewSettingsService(taxRepo, bankRepo)),
		Supplier:      handler.NewSupplierHandler(service.NewSupplierService(supplierRepo)),
		Branch:        handler.NewBranchHandler(service.NewBranchService(branchRepo)),
		PurchaseOrder: handler.NewPurchaseOrderHandler(service.NewPurchaseOrderService(orderRepo, productRepo, taxRepo, supplierRepo, bankRepo, branchRepo, stockRepo, m)),
		Stock:         handler.NewStockHandler(stockService),
	}

	cfg := &config.Config{
		App:         config.AppConfig{Name: "procura-test"},
		RateLimit:   config.RateLimitConfig{Requests: 1000, Duration: 1},
		Idempotency: config.IdempotencyConfig{TTL: time.Hour},
	}
	limiter := middleware.NewTenantRateLimiter(RateLimiterConfig(&cfg.RateLimit))
	t.Cleanup(limiter.Stop)

	jwtManager := utils.NewJWTManager("test-secret", "procura-test")
	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: infraRepo.NewIdempotencyRepository(db),
		Metrics:         m,
		Gatherer:        reg,
		RateLimiter:     limiter,
	})

	f := &apiFixture{router: router, jwt: jwtManager}
	f.token = f.issue(t, uuid.New(), allPermissions)
	return f
}

func (f *apiFixture) issue(t *testing.T, tenantID uuid.UUID, permissions []string) string {
	t.Helper()
	token, err := f.jwt.GenerateAccessToken(utils.JWTClaims{
		UserID:      uuid.New(),
		TenantID:    tenantID,
		Email:       "buyer@example.com",
		Permissions: permissions,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (f *apiFixture) create(t *testing.T, path string, body any) string {
	t.Helper()
	w, env := f.do(t, http.MethodPost, path, f.token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func assertAmount(t *testing.T, want string, got string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(got)), "want %s, got %s", want, got)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t)

	w, _ := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}

func TestAuthAndPermissions(t *testing.T) {
	f := newAPIFixture(t)

	w, env := f.do(t, http.MethodGet, "/api/v1/branches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = f.do(t, http.MethodGet, "/api/v1/branches", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	limited := f.issue(t, uuid.New(), []string{"manage-products"})
	w, _ = f.do(t, http.MethodGet, "/api/v1/branches", limited, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	noTenant := f.issue(t, uuid.Nil, allPermissions)
	w, _ = f.do(t, http.MethodGet, "/api/v1/branches", noTenant, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenantIsolation(t *testing.T) {
	f := newAPIFixture(t)
	f.create(t, "/api/v1/branches", map[string]any{"name": "Main"})

	other := f.issue(t, uuid.New(), allPermissions)
	w, env := f.do(t, http.MethodGet, "/api/v1/branches", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var branches []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &branches))
	assert.Empty(t, branches)
}

func TestStockFlow(t *testing.T) {
	f := newAPIFixture(t)

	main := f.create(t, "/api/v1/branches", map[string]any{"name": "Main"})
	store := f.create(t, "/api/v1/branches", map[string]any{"name": "Store", "branch_type": "store"})
	product := f.create(t, "/api/v1/products", map[string]any{"name": "Widget", "purchase_price": "100"})

	adjust := map[string]any{"product_id": product, "branch_id": main, "quantity": 10, "direction": "add"}
	w, env := f.do(t, http.MethodPost, "/api/v1/stock/adjustments", f.token, adjust, middleware.IdempotencyKeyHeader, "adj-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var movement struct {
		Type          string `json:"type"`
		QuantityAfter int64  `json:"quantity_after"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &movement))
	assert.Equal(t, "add", movement.Type)
	assert.Equal(t, int64(10), movement.QuantityAfter)

	// Retried with the same key: replayed, not applied twice
	w, _ = f.do(t, http.MethodPost, "/api/v1/stock/adjustments", f.token, adjust, middleware.IdempotencyKeyHeader, "adj-1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))

	// Same key with a different body is refused
	adjust["quantity"] = 3
	w, _ = f.do(t, http.MethodPost, "/api/v1/stock/adjustments", f.token, adjust, middleware.IdempotencyKeyHeader, "adj-1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	transfer := map[string]any{
		"product_id":            product,
		"source_branch_id":      main,
		"destination_branch_id": store,
		"quantity":              4,
	}
	w, env = f.do(t, http.MethodPost, "/api/v1/stock/transfers", f.token, transfer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result struct {
		Out struct {
			QuantityAfter int64  `json:"quantity_after"`
			Reference     string `json:"reference"`
		} `json:"out"`
		In struct {
			QuantityAfter int64  `json:"quantity_after"`
			Reference     string `json:"reference"`
		} `json:"in"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, int64(6), result.Out.QuantityAfter)
	assert.Equal(t, int64(4), result.In.QuantityAfter)
	assert.Equal(t, result.Out.Reference, result.In.Reference)

	transfer["quantity"] = 7
	w, env = f.do(t, http.MethodPost, "/api/v1/stock/transfers", f.token, transfer)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", env.Kind)

	transfer["destination_branch_id"] = main
	transfer["quantity"] = 1
	w, env = f.do(t, http.MethodPost, "/api/v1/stock/transfers", f.token, transfer)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "same_location", env.Kind)

	w, env = f.do(t, http.MethodGet, "/api/v1/products/"+product+"/stock", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var levels []struct {
		BranchID string `json:"branch_id"`
		Quantity int64  `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &levels))
	byBranch := map[string]int64{}
	for _, l := range levels {
		byBranch[l.BranchID] = l.Quantity
	}
	assert.Equal(t, map[string]int64{main: 6, store: 4}, byBranch)

	w, env = f.do(t, http.MethodGet, "/api/v1/stock/movements?type=transfer_in", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []struct {
			BranchID string `json:"branch_id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, store, page.Items[0].BranchID)
}

func TestPurchaseOrderPreviewAndDraftEdit(t *testing.T) {
	f := newAPIFixture(t)

	tax := f.create(t, "/api/v1/tax-rates", map[string]any{"name": "VAT", "rate": "16"})
	product := f.create(t, "/api/v1/products", map[string]any{
		"name":           "Widget",
		"purchase_price": "100",
		"discount_type":  "percentage",
		"discount_value": "10",
		"tax_rate_id":    tax,
	})

	w, env := f.do(t, http.MethodPost, "/api/v1/purchase-orders/preview", f.token, map[string]any{
		"items": []map[string]any{{"product_id": product, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	type draftView struct {
		Lines []struct {
			Quantity      string `json:"quantity"`
			TaxableAmount string `json:"taxable_amount"`
			TaxAmount     string `json:"tax_amount"`
			LineTotal     string `json:"line_total"`
		} `json:"lines"`
		Totals struct {
			Subtotal      string `json:"subtotal"`
			TotalDiscount string `json:"total_discount"`
			VAT           string `json:"vat"`
			Total         string `json:"total"`
		} `json:"totals"`
	}
	var draft draftView
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	require.Len(t, draft.Lines, 1)
	assertAmount(t, "180", draft.Lines[0].TaxableAmount)
	assertAmount(t, "28.8", draft.Lines[0].TaxAmount)
	assertAmount(t, "200", draft.Totals.Subtotal)
	assertAmount(t, "20", draft.Totals.TotalDiscount)
	assertAmount(t, "28.8", draft.Totals.VAT)
	assertAmount(t, "208.8", draft.Totals.Total)

	w, env = f.do(t, http.MethodPost, "/api/v1/purchase-orders/draft/edit", f.token, map[string]any{
		"draft":    env.Data,
		"index":    0,
		"quantity": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var edited draftView
	require.NoError(t, json.Unmarshal(env.Data, &edited))
	assertAmount(t, "3", edited.Lines[0].Quantity)
	assertAmount(t, "313.2", edited.Totals.Total)

	w, env = f.do(t, http.MethodPost, "/api/v1/purchase-orders/draft/edit", f.token, map[string]any{
		"draft":    env.Data,
		"index":    5,
		"quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "line_not_found", env.Kind)

	w, env = f.do(t, http.MethodPost, "/api/v1/purchase-orders/preview", f.token, map[string]any{
		"items": []map[string]any{{"product_id": product, "quantity": 0}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_quantity", env.Kind)
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	branch := f.create(t, "/api/v1/branches", map[string]any{"name": "Main"})
	supplier := f.create(t, "/api/v1/suppliers", map[string]any{"name": "Acme Supplies"})
	product := f.create(t, "/api/v1/products", map[string]any{"name": "Widget", "purchase_price": "50"})

	body := map[string]any{
		"supplier_id": supplier,
		"branch_id":   branch,
		"order_date":  "2026-03-01",
		"items":       []map[string]any{{"product_id": product, "quantity": 4}},
	}
	w, env := f.do(t, http.MethodPost, "/api/v1/purchase-orders", f.token, body, middleware.IdempotencyKeyHeader, "po-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order struct {
		ID      string `json:"id"`
		OrderNo string `json:"order_no"`
		Status  string `json:"status"`
		Total   string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Regexp(t, `^PO-[0-9A-Z]{8}$`, order.OrderNo)
	assert.Equal(t, "Pending", order.Status)
	assertAmount(t, "200", order.Total)

	body["order_date"] = "March first"
	w, _ = f.do(t, http.MethodPost, "/api/v1/purchase-orders", f.token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/v1/purchase-orders/"+order.ID+"/receive", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = f.do(t, http.MethodPost, "/api/v1/purchase-orders/"+order.ID+"/receive", f.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = f.do(t, http.MethodGet, "/api/v1/products/"+product+"/stock", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var levels []struct {
		Quantity int64 `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &levels))
	require.Len(t, levels, 1)
	assert.Equal(t, int64(4), levels[0].Quantity)

	w, _ = f.do(t, http.MethodGet, "/api/v1/purchase-orders?status=received", f.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/v1/purchase-orders/not-a-uuid", f.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
