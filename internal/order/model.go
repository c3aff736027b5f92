package order

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// Verdict is the two-valued outcome the payment provider reports for a
// pending order.
type Verdict string

const (
	VerdictApproved Verdict = "APPROVED"
	VerdictDeclined Verdict = "DECLINED"
)

type Order struct {
	ID         int64     `json:"id"`
	BuyerID    int64     `json:"buyer_id"`
	TotalCents int64     `json:"total_cents"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	Items      []Item    `json:"items,omitempty"`

	Address *AddressSnapshot `json:"address,omitempty"`
}

// Item is an immutable snapshot of a purchased cart line: quantity, the unit
// price captured in the cart, and the product's seller at purchase time.
type Item struct {
	ID             int64 `json:"id"`
	OrderID        int64 `json:"order_id"`
	ProductID      int64 `json:"product_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	SellerID       int64 `json:"seller_id"`
}

// AddressSnapshot copies the shipping address fields at checkout time, so the
// order keeps them even if the buyer later edits or deletes the address.
type AddressSnapshot struct {
	OrderID    int64   `json:"order_id"`
	Street     string  `json:"street"`
	Number     string  `json:"number"`
	Complement *string `json:"complement,omitempty"`
	District   string  `json:"district"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	ZipCode    string  `json:"zip_code"`
}
