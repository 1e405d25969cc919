package dto

// SignDTO carries the signature image as an opaque base64 blob; the server
// stores it as-is.
type SignDTO struct {
	Signature string `json:"signature" validate:"required,signature_blob"`
}

type RejectDTO struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

type ApplyTemplateDTO struct {
	TemplateName string `json:"template_name" validate:"required,max=64"`
}

type ConfigurationRowDTO struct {
	Level    int    `json:"level" validate:"required,min=1,max=4"`
	Role     string `json:"role" validate:"required,approval_role"`
	Required *bool  `json:"required"`
}

type ApplyCustomConfigurationDTO struct {
	Rows []ConfigurationRowDTO `json:"rows" validate:"required,min=1,max=4,dive"`
}

type CreateTemplateDTO struct {
	TemplateName string                `json:"template_name" validate:"required,max=64"`
	EntityType   string                `json:"entity_type" validate:"required,entity_type"`
	Rows         []ConfigurationRowDTO `json:"rows" validate:"required,min=1,max=4,dive"`
}

type SetThresholdDTO struct {
	Value float64 `json:"value" validate:"required,gte=0"`
}
