package dto

import "time"

type CreateRequirementDTO struct {
	Description string     `json:"description" validate:"required,min=3,max=2000"`
	Department  *string    `json:"department" validate:"omitempty,max=255"`
	NeededBy    *time.Time `json:"needed_by"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
}

type UpdateRequirementDTO struct {
	Description *string    `json:"description" validate:"omitempty,min=3,max=2000"`
	Department  *string    `json:"department" validate:"omitempty,max=255"`
	NeededBy    *time.Time `json:"needed_by"`
	Amount      *float64   `json:"amount" validate:"omitempty,gt=0"`
}

type CreateQuotationDTO struct {
	Description  string     `json:"description" validate:"required,min=3,max=2000"`
	SupplierName *string    `json:"supplier_name" validate:"omitempty,max=255"`
	ValidUntil   *time.Time `json:"valid_until"`
	Amount       float64    `json:"amount" validate:"required,gt=0"`
}

type UpdateQuotationDTO struct {
	Description  *string    `json:"description" validate:"omitempty,min=3,max=2000"`
	SupplierName *string    `json:"supplier_name" validate:"omitempty,max=255"`
	ValidUntil   *time.Time `json:"valid_until"`
	Amount       *float64   `json:"amount" validate:"omitempty,gt=0"`
}

type CreateFuelControlDTO struct {
	Description  string     `json:"description" validate:"required,min=3,max=2000"`
	VehiclePlate *string    `json:"vehicle_plate" validate:"omitempty,max=32"`
	Liters       *float64   `json:"liters" validate:"omitempty,gt=0"`
	ControlDate  *time.Time `json:"control_date"`
	Amount       float64    `json:"amount" validate:"required,gt=0"`
}

type UpdateFuelControlDTO struct {
	Description  *string    `json:"description" validate:"omitempty,min=3,max=2000"`
	VehiclePlate *string    `json:"vehicle_plate" validate:"omitempty,max=32"`
	Liters       *float64   `json:"liters" validate:"omitempty,gt=0"`
	ControlDate  *time.Time `json:"control_date"`
	Amount       *float64   `json:"amount" validate:"omitempty,gt=0"`
}

type CreatePurchaseOrderDTO struct {
	Description  string     `json:"description" validate:"required,min=3,max=2000"`
	SupplierName *string    `json:"supplier_name" validate:"omitempty,max=255"`
	Currency     string     `json:"currency" validate:"omitempty,len=3,uppercase"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Amount       float64    `json:"amount" validate:"required,gt=0"`
}

type UpdatePurchaseOrderDTO struct {
	Description  *string    `json:"description" validate:"omitempty,min=3,max=2000"`
	SupplierName *string    `json:"supplier_name" validate:"omitempty,max=255"`
	Currency     *string    `json:"currency" validate:"omitempty,len=3,uppercase"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Amount       *float64   `json:"amount" validate:"omitempty,gt=0"`
}
