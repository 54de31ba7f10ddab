// Package httppresentation exposes the storefront over HTTP: the CRUD
// surface, the rate-limit gate and the observability middleware stack.
package httppresentation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	appcatalog "github.com/Zhima-Mochi/storefront/app/internal/application/catalog"
	appclient "github.com/Zhima-Mochi/storefront/app/internal/application/client"
	apporder "github.com/Zhima-Mochi/storefront/app/internal/application/order"
	apporderline "github.com/Zhima-Mochi/storefront/app/internal/application/orderline"
	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	dominv "github.com/Zhima-Mochi/storefront/app/internal/domain/inventory"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/storage"
)

const defaultPageSize = 100

type Handler struct {
	catalog *appcatalog.Service
	clients *appclient.Service
	orders  *apporder.Service
	lines   *apporderline.Service
}

func NewHandler(
	catalog *appcatalog.Service,
	clients *appclient.Service,
	orders *apporder.Service,
	lines *apporderline.Service,
) *Handler {
	return &Handler{catalog: catalog, clients: clients, orders: orders, lines: lines}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("POST /categories", h.handleCreateCategory)
	mux.HandleFunc("GET /categories", h.handleListCategories)
	mux.HandleFunc("GET /categories/{id}", h.handleGetCategory)
	mux.HandleFunc("PUT /categories/{id}", h.handleUpdateCategory)
	mux.HandleFunc("DELETE /categories/{id}", h.handleDeleteCategory)

	mux.HandleFunc("POST /products", h.handleCreateProduct)
	mux.HandleFunc("GET /products", h.handleListProducts)
	mux.HandleFunc("GET /products/{id}", h.handleGetProduct)
	mux.HandleFunc("PUT /products/{id}", h.handleUpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", h.handleDeleteProduct)

	mux.HandleFunc("POST /clients", h.handleCreateClient)
	mux.HandleFunc("GET /clients", h.handleListClients)
	mux.HandleFunc("GET /clients/{id}", h.handleGetClient)
	mux.HandleFunc("PUT /clients/{id}", h.handleUpdateClient)
	mux.HandleFunc("DELETE /clients/{id}", h.handleDeleteClient)

	mux.HandleFunc("POST /orders", h.handleCreateOrder)
	mux.HandleFunc("GET /orders", h.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("PUT /orders/{id}", h.handleUpdateOrder)
	mux.HandleFunc("DELETE /orders/{id}", h.handleDeleteOrder)
	mux.HandleFunc("GET /orders/{id}/order_lines", h.handleListOrderLines)

	mux.HandleFunc("POST /order_lines", h.handleCreateLine)
	mux.HandleFunc("GET /order_lines", h.handleListLines)
	mux.HandleFunc("GET /order_lines/{id}", h.handleGetLine)
	mux.HandleFunc("PUT /order_lines/{id}", h.handleUpdateLine)
	mux.HandleFunc("DELETE /order_lines/{id}", h.handleDeleteLine)

	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- categories

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryResponse(c *domcat.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	categories, err := h.catalog.ListCategories(r.Context(), skip, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- products

type productRequest struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	Image      string  `json:"image"`
	CategoryID uint64  `json:"category_id"`
}

type productResponse struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Stock      int       `json:"stock"`
	Image      string    `json:"image"`
	CategoryID uint64    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toProductResponse(p *domcat.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		Image:      p.Image,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), appcatalog.ProductInput(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	products, err := h.catalog.ListProducts(r.Context(), skip, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), id, appcatalog.ProductInput(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- clients

type clientRequest struct {
	Name      string `json:"name"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

type clientResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Telephone string    `json:"telephone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClientResponse(c *domclient.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Lastname:  c.Lastname,
		Email:     c.Email,
		Telephone: c.Telephone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := h.clients.Create(r.Context(), appclient.Input(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientResponse(entity))
}

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	clients, err := h.clients.List(r.Context(), skip, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entity, err := h.clients.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(entity))
}

func (h *Handler) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := h.clients.Update(r.Context(), id, appclient.Input(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(entity))
}

func (h *Handler) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.clients.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- orders

type orderRequest struct {
	Date           time.Time `json:"date"`
	Total          float64   `json:"total"`
	DeliveryMethod string    `json:"delivery_method"`
	Status         string    `json:"status"`
	ClientID       uint64    `json:"client_id"`
}

type orderResponse struct {
	ID             uint64    `json:"id"`
	Date           time.Time `json:"date"`
	Total          float64   `json:"total"`
	DeliveryMethod string    `json:"delivery_method"`
	Status         string    `json:"status"`
	ClientID       uint64    `json:"client_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toOrderResponse(o *domorder.Order) orderResponse {
	return orderResponse{
		ID:             o.ID,
		Date:           o.Date,
		Total:          o.Total,
		DeliveryMethod: string(o.DeliveryMethod),
		Status:         string(o.Status),
		ClientID:       o.ClientID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (r orderRequest) toInput() apporder.Input {
	return apporder.Input{
		Date:           r.Date,
		Total:          r.Total,
		DeliveryMethod: domorder.DeliveryMethod(r.DeliveryMethod),
		Status:         domorder.Status(r.Status),
		ClientID:       r.ClientID,
	}
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := h.orders.Create(r.Context(), req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(entity))
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	orders, err := h.orders.List(r.Context(), skip, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entity, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(entity))
}

func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := h.orders.Update(r.Context(), id, req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(entity))
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListOrderLines(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.orders.Get(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	lines, err := h.lines.ListByOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toLineResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- order lines

type createLineRequest struct {
	OrderID   uint64   `json:"order_id"`
	ProductID uint64   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price"`
}

type updateLineRequest struct {
	Quantity int      `json:"quantity"`
	Price    *float64 `json:"price"`
}

type lineResponse struct {
	ID        uint64    `json:"id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	OrderID   uint64    `json:"order_id"`
	ProductID uint64    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLineResponse(l *domorder.Line) lineResponse {
	return lineResponse{
		ID:        l.ID,
		Quantity:  l.Quantity,
		Price:     l.Price,
		OrderID:   l.OrderID,
		ProductID: l.ProductID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (h *Handler) handleCreateLine(w http.ResponseWriter, r *http.Request) {
	var req createLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	line, err := h.lines.Create(r.Context(), apporderline.CreateInput(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLineResponse(line))
}

func (h *Handler) handleListLines(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	lines, err := h.lines.List(r.Context(), skip, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toLineResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	line, err := h.lines.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLineResponse(line))
}

func (h *Handler) handleUpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	line, err := h.lines.Update(r.Context(), id, apporderline.UpdateInput(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLineResponse(line))
}

func (h *Handler) handleDeleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.lines.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid id"))
		return 0, false
	}
	return id, true
}

func pagination(r *http.Request) (skip, limit int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			skip = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	return skip, limit
}

func decodeJSON(r *http.Request, dst any) error {
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

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domcat.ErrNotFound),
		errors.Is(err, domclient.ErrNotFound),
		errors.Is(err, domorder.ErrNotFound),
		errors.Is(err, domorder.ErrLineNotFound),
		errors.Is(err, dominv.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, dominv.ErrInsufficientStock),
		errors.Is(err, dominv.ErrPriceMismatch),
		errors.Is(err, dominv.ErrInvalidQuantity),
		errors.Is(err, dominv.ErrQuantityOverflow),
		errors.Is(err, domcat.ErrNameRequired),
		errors.Is(err, domcat.ErrInvalidPrice),
		errors.Is(err, domcat.ErrInvalidStock),
		errors.Is(err, domcat.ErrCategoryRequired),
		errors.Is(err, domclient.ErrNameRequired),
		errors.Is(err, domclient.ErrInvalidEmail),
		errors.Is(err, domorder.ErrClientRequired),
		errors.Is(err, domorder.ErrInvalidDelivery),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domorder.ErrInvalidTotal),
		errors.Is(err, domorder.ErrInvalidLineQuantity):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, dominv.ErrLockTimeout):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
