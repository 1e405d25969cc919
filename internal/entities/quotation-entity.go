package entities

import (
	"time"

	"procurement-system/pkg/types"
)

type Quotation struct {
	ID           int64      `json:"id"`
	Number       string     `json:"number"`
	Description  string     `json:"description"`
	SupplierName *string    `json:"supplier_name"`
	ValidUntil   *time.Time `json:"valid_until"`
	Amount       float64    `json:"amount"`
	Status       string     `json:"status"`
	CreatorID    int64      `json:"creator_id"`

	SignatureSlots

	types.BaseEntity
	types.SoftDelete
}
