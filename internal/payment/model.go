package payment

import "time"

type PaymentStatus string

// Provider vocabulary is kept as-is: the webhook reports APROVADO/RECUSADO.
const (
	StatusPending  PaymentStatus = "PENDING"
	StatusAprovado PaymentStatus = "APROVADO"
	StatusRecusado PaymentStatus = "RECUSADO"
)

type Payment struct {
	ID          int64         `json:"id"`
	OrderID     int64         `json:"order_id"`
	AmountCents int64         `json:"amount_cents"`
	Status      PaymentStatus `json:"status"`
	Method      string        `json:"method"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// RawItem is the untrusted item shape received from the client when creating
// a payment preference.
type RawItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// PreferenceItem is a normalized line priced from server-computed cents only.
type PreferenceItem struct {
	Title          string
	Quantity       int
	UnitPriceCents int64
}

// Preference is the provider's answer: a preference id plus the redirect
// target the client is sent to.
type Preference struct {
	ID          string `json:"preferenceId"`
	RedirectURL string `json:"redirectUrl"`
}
