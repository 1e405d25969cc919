package entities

import (
	"time"

	"procurement-system/pkg/types"
)

type PurchaseOrder struct {
	ID           int64      `json:"id"`
	Number       string     `json:"number"`
	Description  string     `json:"description"`
	SupplierName *string    `json:"supplier_name"`
	Currency     string     `json:"currency"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Amount       float64    `json:"amount"`
	Status       string     `json:"status"`
	CreatorID    int64      `json:"creator_id"`

	SignatureSlots

	types.BaseEntity
	types.SoftDelete
}
