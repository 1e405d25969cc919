package entities

import (
	"time"

	"procurement-system/pkg/types"
)

type FuelControl struct {
	ID           int64      `json:"id"`
	Number       string     `json:"number"`
	Description  string     `json:"description"`
	VehiclePlate *string    `json:"vehicle_plate"`
	Liters       *float64   `json:"liters"`
	ControlDate  *time.Time `json:"control_date"`
	Amount       float64    `json:"amount"`
	Status       string     `json:"status"`
	CreatorID    int64      `json:"creator_id"`

	SignatureSlots

	types.BaseEntity
	types.SoftDelete
}
