package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ordering"
	"github.com/jhoicas/Farmacia-api/internal/application/payments"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
	pkgjwt "github.com/jhoicas/Farmacia-api/pkg/jwt"
)

type stubReceiptPDF struct{}

func (stubReceiptPDF) GenerateReceiptPDF(context.Context, payments.ReceiptDocument) ([]byte, error) {
	return []byte("%PDF-1.4 recibo"), nil
}

type testAPI struct {
	app      *fiber.App
	store    *memstore.Store
	cashier  string
	customer string
	batchA   string
	batchB   string
}

// newAPI router completo sobre el store en memoria, con un cajero, un cliente y dos lotes.
func newAPI(t *testing.T) testAPI {
	t.Helper()
	s := memstore.New()
	tx := s.TxRunner()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:            auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:            usecase.NewUserUseCase(s.Users()),
		CatalogUC:         usecase.NewCatalogUseCase(s.Categories(), s.Companies()),
		MedicineUC:        usecase.NewMedicineUseCase(s.Medicines()),
		BatchUC:           inventory.NewBatchUseCase(tx, s.Batches(), s.Medicines(), s.Movements()),
		CreateOrder:       ordering.NewCreateOrderUseCase(tx, s.Users()),
		OrderUC:           ordering.NewOrderUseCase(s.Orders()),
		ProcessPayment:    payments.NewProcessPaymentUseCase(tx),
		PaymentUC:         payments.NewPaymentUseCase(s.Payments(), s.Orders(), stubReceiptPDF{}, "Farmacia Test"),
		NotificationUC:    usecase.NewNotificationUseCase(s.Notifications(), s.Users()),
		DeliveryUC:        usecase.NewDeliveryUseCase(tx, s.Deliveries(), s.Orders(), s.Users()),
		ChatUC:            usecase.NewChatUseCase(s.Messages(), s.Users()),
		JWTSecret:         testJWTSecret,
		LowStockThreshold: 10,
	})
	expiry := time.Now().AddDate(1, 0, 0)
	return testAPI{
		app:      app,
		store:    s,
		cashier:  s.SeedUser(entity.RoleCashier, "Cajero"),
		customer: s.SeedUser(entity.RoleCustomer, "Cliente"),
		batchA:   s.SeedBatch(s.SeedMedicine("Amoxicilina"), "A-1", 10, expiry, decimal.NewFromInt(10)),
		batchB:   s.SeedBatch(s.SeedMedicine("Ibuprofeno"), "B-1", 10, expiry, decimal.NewFromInt(5)),
	}
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (a testAPI) call(t *testing.T, method, path, authHeader string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a testAPI) orderBody(lines ...map[string]any) map[string]any {
	return map[string]any{"customer_id": a.customer, "items": lines}
}

func item(batchID string, qty int, price int) map[string]any {
	return map[string]any{"batch_id": batchID, "quantity": qty, "unit_price": price}
}

func TestHealth_Publico(t *testing.T) {
	a := newAPI(t)
	resp := a.call(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "OK", body.Status)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestRutaDesconocida_Retorna404(t *testing.T) {
	a := newAPI(t)
	resp := a.call(t, http.MethodGet, "/api/no-existe", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestPostOrders_Crea201(t *testing.T) {
	a := newAPI(t)
	resp := a.call(t, http.MethodPost, "/api/orders", bearer(t, a.cashier, entity.RoleCashier),
		a.orderBody(item(a.batchA, 3, 10), item(a.batchB, 2, 5)))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[dto.OrderResponse](t, resp)
	assert.True(t, decimal.NewFromInt(40).Equal(out.TotalAmount), "total: %s", out.TotalAmount)
	assert.Equal(t, a.cashier, out.OrderedBy)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 7, a.store.BatchQuantity(a.batchA))
	assert.Equal(t, 8, a.store.BatchQuantity(a.batchB))
}

func TestPostOrders_Errores(t *testing.T) {
	a := newAPI(t)
	cashier := bearer(t, a.cashier, entity.RoleCashier)

	tests := []struct {
		name   string
		auth   string
		body   map[string]any
		status int
		code   string
	}{
		{"sin líneas", cashier, a.orderBody(), http.StatusBadRequest, "VALIDATION"},
		{"stock insuficiente", cashier, a.orderBody(item(a.batchA, 11, 10)), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"lote inexistente", cashier, a.orderBody(item("00000000-0000-0000-0000-00000000abcd", 1, 10)), http.StatusNotFound, "BATCH_NOT_FOUND"},
		{"cliente no puede crear", bearer(t, a.customer, entity.RoleCustomer), a.orderBody(item(a.batchA, 1, 10)), http.StatusForbidden, "FORBIDDEN"},
		{"sin token", "", a.orderBody(item(a.batchA, 1, 10)), http.StatusUnauthorized, "MISSING_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.call(t, http.MethodPost, "/api/orders", tt.auth, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
	assert.Equal(t, 0, a.store.Counts().Orders)
	assert.Equal(t, 10, a.store.BatchQuantity(a.batchA))
}

func TestPostOrders_ValidacionReportaCampo(t *testing.T) {
	a := newAPI(t)
	resp := a.call(t, http.MethodPost, "/api/orders", bearer(t, a.cashier, entity.RoleCashier),
		a.orderBody(item(a.batchA, 0, 10)))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, body.Fields, "items[0].quantity")
}

// TestGetOrder_ClienteSoloVeLosSuyos: un Customer recibe 403 sobre pedidos ajenos y el listado se restringe.
func TestGetOrder_ClienteSoloVeLosSuyos(t *testing.T) {
	a := newAPI(t)
	own := a.store.SeedOrder(a.customer, a.cashier, decimal.NewFromInt(10))
	other := a.store.SeedOrder(a.store.SeedUser(entity.RoleCustomer, "Otro"), a.cashier, decimal.NewFromInt(20))
	customer := bearer(t, a.customer, entity.RoleCustomer)

	resp := a.call(t, http.MethodGet, "/api/orders/"+own, customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = a.call(t, http.MethodGet, "/api/orders/"+other, customer, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.call(t, http.MethodGet, "/api/orders", customer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.OrderListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, own, list.Items[0].ID)

	resp = a.call(t, http.MethodGet, "/api/orders/00000000-0000-0000-0000-00000000abcd", bearer(t, a.cashier, entity.RoleCashier), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostPayments_IdempotenciaPorHeader(t *testing.T) {
	a := newAPI(t)
	order := a.store.SeedOrder(a.customer, a.cashier, decimal.NewFromInt(100))
	cashier := bearer(t, a.cashier, entity.RoleCashier)
	body := map[string]any{"order_id": order, "amount": 40, "payment_method": "Cash"}

	resp := a.call(t, http.MethodPost, "/api/payments", cashier, body, apphttp.HeaderIdempotencyKey, "pos-7-0001")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[dto.PaymentResponse](t, resp)
	assert.Equal(t, entity.PaymentStatusPartial, first.OrderPaymentStatus)

	resp = a.call(t, http.MethodPost, "/api/payments", cashier, body, apphttp.HeaderIdempotencyKey, "pos-7-0001")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	again := decode[dto.PaymentResponse](t, resp)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, a.store.Counts().Payments)

	resp = a.call(t, http.MethodPost, "/api/payments", cashier, map[string]any{"order_id": order, "amount": 60, "payment_method": "Cash"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, entity.PaymentStatusPaid, decode[dto.PaymentResponse](t, resp).OrderPaymentStatus)
}

func TestPostPayments_Errores(t *testing.T) {
	a := newAPI(t)
	order := a.store.SeedOrder(a.customer, a.cashier, decimal.NewFromInt(100))
	cashier := bearer(t, a.cashier, entity.RoleCashier)

	resp := a.call(t, http.MethodPost, "/api/payments", cashier, map[string]any{"order_id": order, "amount": 10, "payment_method": "Bitcoin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.call(t, http.MethodPost, "/api/payments", cashier, map[string]any{"order_id": order, "amount": 0, "payment_method": "Cash"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.call(t, http.MethodPost, "/api/payments", cashier,
		map[string]any{"order_id": "00000000-0000-0000-0000-00000000abcd", "amount": 10, "payment_method": "Cash"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ORDER_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = a.call(t, http.MethodPost, "/api/payments", bearer(t, a.customer, entity.RoleCustomer),
		map[string]any{"order_id": order, "amount": 10, "payment_method": "Cash"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReceiptPDF(t *testing.T) {
	a := newAPI(t)
	order := a.store.SeedOrder(a.customer, a.cashier, decimal.NewFromInt(100))
	cashier := bearer(t, a.cashier, entity.RoleCashier)
	resp := a.call(t, http.MethodPost, "/api/payments", cashier, map[string]any{"order_id": order, "amount": 100, "payment_method": "Cash"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paid := decode[dto.PaymentResponse](t, resp)

	resp = a.call(t, http.MethodGet, "/api/payments/receipts/"+paid.ReceiptID+"/pdf", bearer(t, a.customer, entity.RoleCustomer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "recibo-"+paid.ReceiptID+".pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestAuth_RegistroYLogin(t *testing.T) {
	a := newAPI(t)
	resp := a.call(t, http.MethodPost, "/api/auth/register", "",
		map[string]any{"full_name": "Nuevo Cliente", "email": "nuevo@correo.test", "password": "clave-segura"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reg := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, entity.RoleCustomer, reg.User.Role)

	resp = a.call(t, http.MethodPost, "/api/auth/login", "",
		map[string]any{"email": "nuevo@correo.test", "password": "clave-segura"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)

	resp = a.call(t, http.MethodGet, "/api/notifications", "Bearer "+login.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReceiptPDF_ClienteAjenoRecibe403(t *testing.T) {
	a := newAPI(t)
	order := a.store.SeedOrder(a.customer, a.cashier, decimal.NewFromInt(50))
	resp := a.call(t, http.MethodPost, "/api/payments", bearer(t, a.cashier, entity.RoleCashier),
		map[string]any{"order_id": order, "amount": 50, "payment_method": "Cash"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paid := decode[dto.PaymentResponse](t, resp)

	intruder := bearer(t, a.store.SeedUser(entity.RoleCustomer, "Intruso"), entity.RoleCustomer)
	resp = a.call(t, http.MethodGet, "/api/orders/"+order, intruder, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.call(t, http.MethodGet, "/api/payments/receipts/"+paid.ReceiptID+"/pdf", intruder, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = a.call(t, http.MethodGet, "/api/payments/receipts/"+paid.ReceiptID+"/pdf", bearer(t, a.cashier, entity.RoleCashier), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIDNoUUID_Retorna400(t *testing.T) {
	a := newAPI(t)
	cashier := bearer(t, a.cashier, entity.RoleCashier)
	paths := []string{
		"/api/orders/abc",
		"/api/medicines/abc",
		"/api/medicines/batches/abc/movements",
		"/api/payments/receipts/abc/pdf",
		"/api/users/abc",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			resp := a.call(t, http.MethodGet, p, cashier, nil)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, "VALIDATION", body.Code)
			assert.Contains(t, body.Fields, "id")
		})
	}
}

func TestPostPayments_HeaderIdempotenciaDemasiadoLargo(t *testing.T) {
	a := newAPI(t)
	order := a.store.SeedOrder(a.customer, a.cashier, decimal.NewFromInt(100))
	body := map[string]any{"order_id": order, "amount": 10, "payment_method": "Cash"}

	resp := a.call(t, http.MethodPost, "/api/payments", bearer(t, a.cashier, entity.RoleCashier), body,
		apphttp.HeaderIdempotencyKey, strings.Repeat("x", payments.MaxIdempotencyKeyLen+1))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, apphttp.HeaderIdempotencyKey)
	assert.Equal(t, 0, a.store.Counts().Payments)
}

func TestPostOrders_DescuentoMayorAlSubtotalConIVA(t *testing.T) {
	a := newAPI(t)
	body := a.orderBody(map[string]any{"batch_id": a.batchA, "quantity": 1, "unit_price": 10, "vat_percent": 19})
	body["discount"] = 11

	resp := a.call(t, http.MethodPost, "/api/orders", bearer(t, a.cashier, entity.RoleCashier), body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 0, a.store.Counts().Orders)
	assert.Equal(t, 10, a.store.BatchQuantity(a.batchA))
}
