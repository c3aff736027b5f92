package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vitrine-be/internal/logger"
	"vitrine-be/internal/middleware"
	"vitrine-be/internal/order"
	"vitrine-be/internal/payment"
	"vitrine-be/internal/product"
	"vitrine-be/internal/stock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	orderSvc    order.Service
	paymentSvc  payment.Service
	paymentRepo payment.Repository
	productRepo product.Repository
	stockRepo   stock.Repository
}

func NewHandler(
	orderSvc order.Service,
	paymentSvc payment.Service,
	paymentRepo payment.Repository,
	productRepo product.Repository,
	stockRepo stock.Repository,
) *Handler {
	return &Handler{
		orderSvc:    orderSvc,
		paymentSvc:  paymentSvc,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout", h.Checkout)
	mux.HandleFunc("POST /payments/preference", h.CreatePreference)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
	mux.HandleFunc("GET /products/{id}", h.GetProduct)
	mux.HandleFunc("GET /products/{id}/movements", h.ListMovements)
}

type checkoutRequest struct {
	AddressID     int64  `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := middleware.BuyerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.AddressID == 0 || req.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "addressId and paymentMethod are required")
		return
	}

	o, err := h.orderSvc.Checkout(r.Context(), buyerID, req.AddressID, req.PaymentMethod)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"orderId": o.ID})
}

type preferenceRequest struct {
	Items         []payment.RawItem `json:"items"`
	DeclaredTotal *float64          `json:"declaredTotal"`
}

func (h *Handler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	pref, err := h.paymentSvc.CreatePreference(
		r.Context(), uuid.NewString(), req.Items, req.DeclaredTotal)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, pref)
}

type orderResponse struct {
	Order   *order.Order     `json:"order"`
	Payment *payment.Payment `json:"payment,omitempty"`
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := middleware.BuyerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orderSvc.GetOrder(r.Context(), orderID, buyerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := orderResponse{Order: o}
	switch p, err := h.paymentRepo.GetPaymentByOrder(r.Context(), orderID); {
	case err == nil:
		resp.Payment = p
	case !errors.Is(err, payment.ErrPaymentNotFound):
		// The order itself is fine, so respond without the payment, but a
		// read failure here is not the same as "no payment row".
		logger.FromCtx(r.Context()).Error("failed to load payment for order",
			zap.Int64("order_id", orderID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.productRepo.GetProduct(r.Context(), productID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	movements, err := h.stockRepo.MovementsByProduct(r.Context(), productID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"movements": movements})
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed", zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFromError maps the closed error taxonomy to transport codes. The
// domain packages stay transport-agnostic; this is the only place status
// codes appear.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, order.ErrInvalidAddress),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidVerdict),
		errors.Is(err, payment.ErrInvalidCart),
		errors.Is(err, payment.ErrInvalidTotal),
		errors.Is(err, payment.ErrTotalMismatch):
		return http.StatusBadRequest
	case errors.Is(err, stock.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, stock.ErrProductNotFound),
		errors.Is(err, payment.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
