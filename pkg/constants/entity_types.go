package constants

// Signable document types. Every approval configuration row and every
// synthesized sign permission is keyed by one of these.
const (
	EntityRequirement   = "requirement"
	EntityQuotation     = "quotation"
	EntityFuelControl   = "fuel_control"
	EntityPurchaseOrder = "purchase_order"
)

var EntityTypes = []string{
	EntityRequirement,
	EntityQuotation,
	EntityFuelControl,
	EntityPurchaseOrder,
}

func IsValidEntityType(entityType string) bool {
	for _, t := range EntityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}
