package webhook

import (
	"encoding/json"
	"errors"
	"net/http"

	"vitrine-be/internal/logger"
	"vitrine-be/internal/order"

	"go.uber.org/zap"
)

// Payload is the JSON the provider posts back after deciding a payment.
type Payload struct {
	CompraID int64  `json:"compraId"`
	Status   string `json:"status"`
}

type Handler struct {
	orderSvc order.Service
	// sharedToken authenticates callbacks when configured. The provider
	// offers no signature scheme for this flow, so an empty token means the
	// endpoint accepts unauthenticated posts.
	sharedToken string
}

func NewHandler(orderSvc order.Service, sharedToken string) *Handler {
	if sharedToken == "" {
		logger.L().Warn("payment webhook shared token not configured, callbacks are unauthenticated")
	}
	return &Handler{
		orderSvc:    orderSvc,
		sharedToken: sharedToken,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if h.sharedToken != "" && r.Header.Get("X-Webhook-Token") != h.sharedToken {
		http.Error(w, "invalid webhook token", http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.CompraID == 0 {
		http.Error(w, "missing compraId", http.StatusBadRequest)
		return
	}

	var verdict order.Verdict
	switch payload.Status {
	case "APROVADO":
		verdict = order.VerdictApproved
	case "RECUSADO":
		verdict = order.VerdictDeclined
	default:
		http.Error(w, "unknown payment status", http.StatusBadRequest)
		return
	}

	log.Info("payment webhook received",
		zap.Int64("order_id", payload.CompraID),
		zap.String("status", payload.Status),
	)

	if err := h.orderSvc.Reconcile(r.Context(), payload.CompraID, verdict); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		log.Error("failed to reconcile order", zap.Error(err))
		// 500 makes the provider redeliver; the terminal-state no-op keeps
		// that safe.
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
