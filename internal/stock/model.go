package stock

import "time"

type MovementType string

const (
	TypeEntrada MovementType = "ENTRADA"
	TypeSaida   MovementType = "SAIDA"
)

// Movement is an append-only ledger entry; rows are never updated or deleted.
type Movement struct {
	ID        int64        `json:"id"`
	ProductID int64        `json:"product_id"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	CreatedAt time.Time    `json:"created_at"`
}
