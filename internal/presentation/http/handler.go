package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	appPayment "github.com/Zhima-Mochi/jewelshop/internal/application/payment"
	appShop "github.com/Zhima-Mochi/jewelshop/internal/application/shop"
	"github.com/Zhima-Mochi/jewelshop/internal/domain"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/cart"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/customer"
	domainOrder "github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	domainProduct "github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/Zhima-Mochi/jewelshop/internal/observability/logctx"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	componentHTTPHandler  = "http_server"
	defaultCollectionName = "Jewelry Collection"
)

var (
	errUnknownRole     = errors.New("unknown customer role")
	errInvalidQuantity = errors.New("quantity must be positive")
)

// Shop is the facade the HTTP surface drives.
type Shop interface {
	AddProduct(ctx context.Context, p *domainProduct.Product) error
	RemoveProduct(ctx context.Context, name string) error
	RegisterCustomer(ctx context.Context, c *customer.Customer) error
	ProcessOrder(ctx context.Context, c *customer.Customer, ct *cart.Cart) (*appShop.ProcessOrderResult, error)
}

type OrderReader interface {
	Get(ctx context.Context, id string) (*domainOrder.Order, error)
}

type Handler struct {
	shop    Shop
	catalog domainProduct.Lister
	orders  OrderReader
	log     observability.Logger
	tel     observability.Observability
	tracer  trace.Tracer
}

type Option func(*Handler)

// WithTracerProvider replaces the global provider used for server spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Handler) { h.tracer = tp.Tracer(tracerName) }
}

func NewHandler(
	shop Shop,
	catalog domainProduct.Lister,
	orders OrderReader,
	tel observability.Observability,
	opts ...Option,
) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	h := &Handler{
		shop:    shop,
		catalog: catalog,
		orders:  orders,
		log:     tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:     tel,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()

	// Trace → ObservabilityMiddleware (request logger + metrics) → Access log → Handler
	r.Use(
		h.withTrace,
		ObservabilityMiddleware(
			h.log,
			func(r *http.Request) string { return r.Header.Get(headerRequestID) },
			func(r *http.Request) string { return r.Header.Get(headerTenantID) },
			h.tel,
		),
		h.withAccessLog,
	)

	r.HandleFunc("/products", h.handleAddProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", h.handleListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/collection", h.handleCollection).Methods(http.MethodGet)
	r.HandleFunc("/products/{name}", h.handleRemoveProduct).Methods(http.MethodDelete)
	r.HandleFunc("/customers", h.handleRegisterCustomer).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.handleProcessOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", h.handleGetOrder).Methods(http.MethodGet)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	return r
}

type legacyItemRequest struct {
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

type addProductRequest struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Price         decimal.Decimal    `json:"price"`
	StockQuantity int                `json:"stock_quantity"`
	Gemstone      string             `json:"gemstone,omitempty"`
	Discount      *decimal.Decimal   `json:"discount,omitempty"`
	Legacy        *legacyItemRequest `json:"legacy,omitempty"`
}

// toProduct picks the construction path: legacy adapter, discount factory or plain factory.
func (req addProductRequest) toProduct() *domainProduct.Product {
	var p *domainProduct.Product
	switch {
	case req.Legacy != nil:
		p = domainProduct.FromLegacy(domainProduct.LegacyItem{
			Description: req.Legacy.Description,
			Cost:        req.Legacy.Cost,
		})
		p.StockQuantity = req.StockQuantity
	case req.Discount != nil:
		f := domainProduct.NewPercentageDiscountFactory(*req.Discount)
		if !req.Price.IsZero() {
			f.BasePrice = req.Price
		}
		discounted := f.Create()
		b := domainProduct.NewBuilder().
			Name(discounted.Name).
			Description(req.Description).
			Price(discounted.Price).
			Stock(req.StockQuantity)
		if req.Name != "" {
			b.Name(req.Name)
		}
		p = b.Build()
	default:
		p = domainProduct.Factory{}.Create(req.Name, req.Description, req.Price, req.StockQuantity)
	}
	return domainProduct.WithGemstone(p, req.Gemstone)
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p := req.toProduct()
	if err := h.shop.AddProduct(r.Context(), p); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	if products == nil {
		products = []*domainProduct.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

type collectionResponse struct {
	Name       string                   `json:"name"`
	TotalPrice string                   `json:"total_price"`
	Items      []*domainProduct.Product `json:"items"`
}

func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = defaultCollectionName
	}
	c := domainProduct.NewCollection(name)
	c.Add(products...)

	items := c.Items()
	if items == nil {
		items = []*domainProduct.Product{}
	}
	writeJSON(w, http.StatusOK, collectionResponse{
		Name:       c.Name,
		TotalPrice: c.Price().String(),
		Items:      items,
	})
}

func (h *Handler) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.shop.RemoveProduct(r.Context(), name); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type customerRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func (req customerRequest) toCustomer() (*customer.Customer, error) {
	switch req.Role {
	case "browsing":
		return customer.NewBrowsing(req.Name), nil
	case "viewing":
		return customer.NewViewing(req.Name), nil
	case "purchasing", "":
		return customer.NewPurchasing(req.Name), nil
	}
	return nil, errUnknownRole
}

func (h *Handler) handleRegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := req.toCustomer()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.shop.RegisterCustomer(r.Context(), c); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"name": c.Name,
		"role": c.Capabilities().String(),
	})
}

type orderLineRequest struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type processOrderRequest struct {
	Customer customerRequest    `json:"customer"`
	Items    []orderLineRequest `json:"items"`
}

type processOrderResponse struct {
	Outcome appShop.Outcome    `json:"outcome"`
	Total   string             `json:"total"`
	Order   *domainOrder.Order `json:"order,omitempty"`
}

func (h *Handler) handleProcessOrder(w http.ResponseWriter, r *http.Request) {
	var req processOrderRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := req.Customer.toCustomer()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ct := cart.For(c)
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, errInvalidQuantity)
			return
		}
		p, err := h.catalog.Get(r.Context(), line.ProductName)
		if err != nil {
			writeDomainError(r.Context(), w, err)
			return
		}
		ct.Add(cart.ItemFor(p, line.Quantity))
	}

	res, err := h.shop.ProcessOrder(r.Context(), c, ct)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	status := http.StatusCreated
	if res.Outcome == appShop.OutcomePaymentDeclined {
		status = http.StatusPaymentRequired
	}
	writeJSON(w, status, processOrderResponse{
		Outcome: res.Outcome,
		Total:   res.Total.String(),
		Order:   res.Order,
	})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	_ = ctx
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainProduct.ErrNotFound),
		errors.Is(err, domainOrder.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainProduct.ErrConflict),
		errors.Is(err, domainOrder.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, appShop.ErrNilProduct),
		errors.Is(err, domainProduct.ErrNameRequired),
		errors.Is(err, appPayment.ErrNegativeAmount),
		errors.Is(err, customer.ErrCapabilityMissing):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotImplemented):
		status = http.StatusNotImplemented
	}
	if status == http.StatusInternalServerError {
		if logger := logctx.From(ctx); logger != nil {
			logger.Error("http_internal_error", observability.Err(err))
		}
	}
	writeError(w, status, err)
}
