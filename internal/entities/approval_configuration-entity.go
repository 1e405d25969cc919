package entities

import "procurement-system/pkg/types"

// ApprovalConfiguration is one required signature on a specific document.
// Superseded rows are deactivated, never deleted, so documents that already
// carry signatures keep their history.
type ApprovalConfiguration struct {
	ID             int64  `json:"id"`
	EntityType     string `json:"entity_type"`
	EntityID       int64  `json:"entity_id"`
	SignatureLevel int    `json:"signature_level"`
	RoleName       string `json:"role_name"`
	IsRequired     bool   `json:"is_required"`
	IsActive       bool   `json:"is_active"`

	types.BaseEntity
}

// ApprovalTemplate has the same shape as ApprovalConfiguration but is keyed
// by (template_name, entity_type); it seeds configuration rows for new
// documents.
type ApprovalTemplate struct {
	ID             int64  `json:"id"`
	TemplateName   string `json:"template_name"`
	EntityType     string `json:"entity_type"`
	SignatureLevel int    `json:"signature_level"`
	RoleName       string `json:"role_name"`
	IsRequired     bool   `json:"is_required"`
	IsActive       bool   `json:"is_active"`

	types.BaseEntity
}
