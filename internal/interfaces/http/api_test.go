package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/account"
	"github.com/jhoicas/retail-ledger/internal/application/document"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/reconcile"
	"github.com/jhoicas/retail-ledger/internal/application/transfer"
	"github.com/jhoicas/retail-ledger/internal/application/usecase"
	"github.com/jhoicas/retail-ledger/internal/application/voucher"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/idempotency"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/retail-ledger/internal/interfaces/http"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeIdempotency guarda respuestas en memoria; locked simula una petición en curso.
type fakeIdempotency struct {
	mu        sync.Mutex
	responses map[string]idempotency.Response
	locked    map[string]bool
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{responses: map[string]idempotency.Response{}, locked: map[string]bool{}}
}

func (f *fakeIdempotency) Get(_ context.Context, key string) (*idempotency.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.responses[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeIdempotency) Lock(_ context.Context, key string) (func(context.Context), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locked[key] {
		return nil, idempotency.ErrInFlight
	}
	f.locked[key] = true
	return func(context.Context) {
		f.mu.Lock()
		delete(f.locked, key)
		f.mu.Unlock()
	}, nil
}

func (f *fakeIdempotency) Save(_ context.Context, key string, resp idempotency.Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = resp
	return nil
}

func (f *fakeIdempotency) lockAll(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked[key] = true
}

func newAPI(t *testing.T, store idempotency.Store) *fiber.App {
	t.Helper()
	mem := memory.NewStore()
	log := logger.Nop()
	processor := inventory.NewStockProcessor(false)
	ledger := account.NewBalanceLedger()

	deps := apphttp.RouterDeps{
		BranchUC:        usecase.NewBranchUseCase(mem),
		ProductUC:       usecase.NewProductUseCase(mem),
		MovementUC:      inventory.NewMovementUseCase(mem, processor, nil, log),
		ReplenishmentUC: inventory.NewReplenishmentUseCase(mem),
		TransferUC:      transfer.NewUseCase(mem, processor, nil, log),
		AccountUC:       account.NewUseCase(mem, ledger, log),
		DocumentUC:      document.NewUseCase(mem, processor, ledger, nil, log),
		VoucherUC:       voucher.NewUseCase(mem, ledger, log),
		ReconcileUC:     reconcile.NewUseCase(mem),
		JWTSecret:       testJWTSecret,
		JWTIssuer:       testIssuer,
		Log:             log,
	}
	if store != nil {
		deps.Idempotency = store
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app
}

type call struct {
	method, path, role string
	body               any
	headers            map[string]string
}

func do(t *testing.T, app *fiber.App, c call) (int, []byte, http.Header) {
	t.Helper()
	var r io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, r)
	req.Header.Set("Content-Type", "application/json")
	role := c.role
	if role == "" {
		role = "admin"
	}
	req.Header.Set("Authorization", tokenForRole(t, role))
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body, resp.Header
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// seed crea una sucursal y un producto con stock inicial; devuelve sus IDs.
func seed(t *testing.T, app *fiber.App, qty int) (branchID, productID float64) {
	t.Helper()
	status, body, _ := do(t, app, call{method: "POST", path: "/api/branches", body: map[string]any{"name": "Centro"}})
	require.Equal(t, http.StatusCreated, status, string(body))
	branchID = decode(t, body)["id"].(float64)

	status, body, _ = do(t, app, call{method: "POST", path: "/api/products", body: map[string]any{
		"branch_id": branchID, "sku": "P1", "name": "Producto 1", "initial_quantity": qty, "sale_price": "1000",
	}})
	require.Equal(t, http.StatusCreated, status, string(body))
	productID = decode(t, body)["id"].(float64)
	return branchID, productID
}

func productQty(t *testing.T, app *fiber.App, id float64) float64 {
	t.Helper()
	status, body, _ := do(t, app, call{method: "GET", path: "/api/products/" + itoa(id)})
	require.Equal(t, http.StatusOK, status, string(body))
	return decode(t, body)["quantity"].(float64)
}

func itoa(f float64) string {
	raw, _ := json.Marshal(int64(f))
	return string(raw)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_VentaYDeleteRestauranStock(t *testing.T) {
	app := newAPI(t, nil)
	branchID, productID := seed(t, app, 10)

	status, body, _ := do(t, app, call{method: "POST", path: "/api/documents", role: "vendedor", body: map[string]any{
		"kind": "sale", "branch_id": branchID,
		"lines": []map[string]any{{"product_id": productID, "quantity": 3, "unit_price": "1000"}},
	}})
	require.Equal(t, http.StatusCreated, status, string(body))
	doc := decode(t, body)
	assert.Equal(t, "FV-000001", doc["number"])
	assert.Equal(t, float64(7), productQty(t, app, productID))

	status, _, _ = do(t, app, call{method: "DELETE", path: "/api/documents/" + itoa(doc["id"].(float64)), role: "vendedor"})
	assert.Equal(t, http.StatusForbidden, status, "solo admin borra documentos")

	status, _, _ = do(t, app, call{method: "DELETE", path: "/api/documents/" + itoa(doc["id"].(float64))})
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, float64(10), productQty(t, app, productID))

	status, body, _ = do(t, app, call{method: "GET", path: "/api/reconciliation/products"})
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode(t, body)["drifts"])
}

func TestAPI_TrasladoEntreSucursales(t *testing.T) {
	app := newAPI(t, nil)
	from, productID := seed(t, app, 100)
	status, body, _ := do(t, app, call{method: "POST", path: "/api/branches", body: map[string]any{"name": "Norte"}})
	require.Equal(t, http.StatusCreated, status)
	to := decode(t, body)["id"].(float64)

	status, body, _ = do(t, app, call{method: "POST", path: "/api/transfers", role: "bodeguero", body: map[string]any{
		"from_branch_id": from, "to_branch_id": to,
		"items": []map[string]any{{"product_id": productID, "quantity": 30}},
	}})
	require.Equal(t, http.StatusCreated, status, string(body))
	tr := decode(t, body)
	assert.Equal(t, "sent", tr["status"])
	assert.Equal(t, float64(70), productQty(t, app, productID))

	status, body, _ = do(t, app, call{method: "GET", path: "/api/transfers/in-transit?branch_id=" + itoa(to)})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"quantity":30`)

	path := "/api/transfers/" + itoa(tr["id"].(float64)) + "/receive"
	status, _, _ = do(t, app, call{method: "POST", path: path, role: "bodeguero"})
	assert.Equal(t, http.StatusOK, status)

	status, body, _ = do(t, app, call{method: "POST", path: path, role: "bodeguero"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", decode(t, body)["code"])
}

func TestAPI_MapeoDeErrores(t *testing.T) {
	app := newAPI(t, nil)
	_, productID := seed(t, app, 5)

	cases := []struct {
		name   string
		call   call
		status int
		code   string
	}{
		{"cantidad cero", call{method: "POST", path: "/api/inventory/movements",
			body: map[string]any{"product_id": productID, "quantity": 0, "type": "in"}}, 400, "INVALID_QUANTITY"},
		{"tipo inválido", call{method: "POST", path: "/api/inventory/movements",
			body: map[string]any{"product_id": productID, "quantity": 1, "type": "x"}}, 400, "VALIDATION"},
		{"producto inexistente", call{method: "GET", path: "/api/products/999"}, 404, "NOT_FOUND"},
		{"id no numérico", call{method: "GET", path: "/api/products/abc"}, 400, "VALIDATION"},
		{"sku duplicado", call{method: "POST", path: "/api/products",
			body: map[string]any{"sku": "P1", "name": "otra", "branch_id": 1}}, 409, "DUPLICATE"},
		{"traslado inexistente", call{method: "POST", path: "/api/transfers/42/cancel"}, 404, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body, _ := do(t, app, tc.call)
			assert.Equal(t, tc.status, status, string(body))
			assert.Equal(t, tc.code, decode(t, body)["code"])
		})
	}
}

func TestAPI_CuerpoInvalido(t *testing.T) {
	app := newAPI(t, nil)
	req := httptest.NewRequest("POST", "/api/branches", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_BODY")
}

func TestAPI_IdempotencyKeyReproduceRespuesta(t *testing.T) {
	store := newFakeIdempotency()
	app := newAPI(t, store)
	headers := map[string]string{apphttp.HeaderIdempotencyKey: "k-1"}

	status1, body1, _ := do(t, app, call{method: "POST", path: "/api/branches", body: map[string]any{"name": "Centro"}, headers: headers})
	require.Equal(t, http.StatusCreated, status1)

	status2, body2, h := do(t, app, call{method: "POST", path: "/api/branches", body: map[string]any{"name": "Centro"}, headers: headers})
	assert.Equal(t, http.StatusCreated, status2)
	assert.Equal(t, "true", h.Get("Idempotent-Replayed"))
	assert.JSONEq(t, string(body1), string(body2))

	status, body, _ := do(t, app, call{method: "GET", path: "/api/branches"})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode(t, body)["items"], 1, "el reintento no crea otra sucursal")
}

func TestAPI_IdempotencyKeyEnCursoDevuelve409(t *testing.T) {
	store := newFakeIdempotency()
	store.lockAll(testUserID + ":/api/branches:k-2")
	app := newAPI(t, store)

	status, body, _ := do(t, app, call{method: "POST", path: "/api/branches", body: map[string]any{"name": "Centro"},
		headers: map[string]string{apphttp.HeaderIdempotencyKey: "k-2"}})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "IDEMPOTENCY_IN_FLIGHT", decode(t, body)["code"])
}

func TestAPI_Health(t *testing.T) {
	app := newAPI(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
