package entities

import (
	"time"

	"procurement-system/pkg/types"
)

type Requirement struct {
	ID          int64      `json:"id"`
	Number      string     `json:"number"`
	Description string     `json:"description"`
	Department  *string    `json:"department"`
	NeededBy    *time.Time `json:"needed_by"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	CreatorID   int64      `json:"creator_id"`

	SignatureSlots

	types.BaseEntity
	types.SoftDelete
}
