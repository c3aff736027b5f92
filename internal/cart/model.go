package cart

type Cart struct {
	ID         int64  `json:"id"`
	BuyerID    int64  `json:"buyer_id"`
	TotalCents int64  `json:"total_cents"`
	Items      []Item `json:"items"`
}

// Item is one cart line joined with its live product row. UnitPriceCents is
// the price captured when the item was added; ProductQuantity and SellerID
// reflect the catalog at read time.
type Item struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
	UnitPriceCents  int64  `json:"unit_price_cents"`
	SellerID        int64  `json:"seller_id"`
	ProductQuantity int    `json:"product_quantity"`
}
