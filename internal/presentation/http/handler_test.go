package httppresentation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appShop "github.com/Zhima-Mochi/jewelshop/internal/application/shop"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/cart"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/customer"
	domainOrder "github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/payment"
	domainProduct "github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/jewelshop/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/observability/zaplogger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubPayments struct{ status payment.Status }

func (s stubPayments) ProcessPayment(context.Context, decimal.Decimal) (payment.Status, error) {
	return s.status, nil
}

type recordingShipping struct{ orders []*domainOrder.Order }

func (r *recordingShipping) ShipOrder(_ context.Context, o *domainOrder.Order, _ *customer.Customer) error {
	r.orders = append(r.orders, o)
	return nil
}

type server struct {
	handler  http.Handler
	catalog  *memory.ProductRepository
	orders   *memory.OrderRepository
	shipping *recordingShipping
	spans    *tracetest.SpanRecorder
	logs     *observer.ObservedLogs
}

func newServer(t *testing.T, status payment.Status) *server {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	tel := infraobs.New(nil, zaplogger.New(zap.New(core)), nil, nil)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	s := &server{
		catalog:  memory.NewProductRepository(),
		orders:   memory.NewOrderRepository(),
		shipping: &recordingShipping{},
		spans:    recorder,
		logs:     logs,
	}
	facade := appShop.New(s.catalog, cart.Calculator{}, stubPayments{status: status}, s.shipping,
		appShop.WithOrderRepository(s.orders),
		appShop.WithObservability(tel),
	)
	s.handler = NewHandler(facade, s.catalog, s.orders, tel, WithTracerProvider(tp)).Router()
	return s
}

func (s *server) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

const ringBody = `{"name":"Diamond Ring","description":"Exquisite diamond ring","price":"2500.00","stock_quantity":10}`

func TestAddAndListProducts(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)

	rec := s.do(t, http.MethodPost, "/products", ringBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/products", ringBody)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []domainProduct.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Diamond Ring", products[0].Name)
	assert.True(t, decimal.RequireFromString("2500").Equal(products[0].Price))
	assert.Equal(t, 10, products[0].StockQuantity)
}

func TestAddProductConstructionPaths(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)

	rec := s.do(t, http.MethodPost, "/products", `{"discount":0.2,"gemstone":"Ruby"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	p, err := s.catalog.Get(context.Background(), "Discounted Jewelry Item with Ruby")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80).Equal(p.Price))

	rec = s.do(t, http.MethodPost, "/products", `{"legacy":{"description":"Gold Chain","cost":"300"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	p, err = s.catalog.Get(context.Background(), "Gold Chain")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(p.Price))

	rec = s.do(t, http.MethodPost, "/products", `{"description":"nameless"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/products", `{"unknown":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddProductRejectsEmptyName(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)

	for _, body := range []string{
		`{"name":"","price":"10","stock_quantity":1}`,
		`{"legacy":{"description":"","cost":"1"}}`,
	} {
		rec := s.do(t, http.MethodPost, "/products", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "name is required")
	}
	assert.Zero(t, s.logs.FilterMessage("http_internal_error").Len())

	products, err := s.catalog.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCollectionSumsCatalog(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)
	s.do(t, http.MethodPost, "/products", ringBody)
	s.do(t, http.MethodPost, "/products", `{"name":"Pearl Necklace","price":"800","stock_quantity":5}`)

	rec := s.do(t, http.MethodGet, "/products/collection?name=Bridal", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body collectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bridal", body.Name)
	assert.Equal(t, "3300", body.TotalPrice)
	assert.Len(t, body.Items, 2)
}

func TestRemoveProduct(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)
	s.do(t, http.MethodPost, "/products", ringBody)

	rec := s.do(t, http.MethodDelete, "/products/Diamond%20Ring", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/products/Diamond%20Ring", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterCustomer(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)

	rec := s.do(t, http.MethodPost, "/customers", `{"name":"carol","role":"viewing"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"name":"carol","role":"view"}`, rec.Body.String())
	assert.Equal(t, 1, s.logs.FilterMessage("register_customer_forwarded").Len())

	rec = s.do(t, http.MethodPost, "/customers", `{"name":"dave","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessOrderShipsAndStores(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)
	s.do(t, http.MethodPost, "/products", ringBody)

	rec := s.do(t, http.MethodPost, "/orders",
		`{"customer":{"name":"alice","role":"purchasing"},"items":[{"product_name":"Diamond Ring","quantity":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body processOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, appShop.OutcomeShipRequested, body.Outcome)
	assert.Equal(t, "5000", body.Total)
	require.NotNil(t, body.Order)
	require.Len(t, s.shipping.orders, 1)

	rec = s.do(t, http.MethodGet, "/orders/"+body.Order.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stored domainOrder.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "alice", stored.CustomerName)
	assert.Equal(t, domainOrder.StatusPaid, stored.Status)
}

func TestProcessOrderDeclined(t *testing.T) {
	s := newServer(t, payment.StatusFailed)
	s.do(t, http.MethodPost, "/products", ringBody)

	rec := s.do(t, http.MethodPost, "/orders",
		`{"customer":{"name":"bob"},"items":[{"product_name":"Diamond Ring","quantity":1}]}`)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Empty(t, s.shipping.orders)

	orders, err := s.orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestProcessOrderValidatesLines(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)

	rec := s.do(t, http.MethodPost, "/orders", `{"customer":{"name":"bob"},"items":[{"product_name":"Ghost","quantity":1}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/orders", `{"customer":{"name":"bob"},"items":[{"product_name":"Ghost","quantity":0}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownOrder(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)

	rec := s.do(t, http.MethodGet, "/orders/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnimplementedManagerMapsTo501(t *testing.T) {
	facade := appShop.New(domainProduct.UnimplementedManager{}, cart.Calculator{}, stubPayments{}, &recordingShipping{})
	h := NewHandler(facade, memory.NewProductRepository(), memory.NewOrderRepository(), nil).Router()

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(ringBody))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestMiddlewareTracesAndLogs(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	req.Header.Set(headerRequestID, "req-42")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(headerRequestID))

	spans := s.spans.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /orders/{id}", spans[0].Name())

	access := s.logs.FilterMessage("http_access").All()
	require.Len(t, access, 1)
	fields := access[0].ContextMap()
	assert.Equal(t, "/orders/{id}", fields["route"])
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Contains(t, fields, "trace_id")
}

func TestHealth(t *testing.T) {
	s := newServer(t, payment.StatusSuccess)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
