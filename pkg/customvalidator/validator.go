package customvalidator

import (
	"encoding/base64"

	"procurement-system/pkg/constants"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations registers the domain validation rules used by
// the DTO layer.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("entity_type", isEntityType); err != nil {
		return err
	}
	if err := v.RegisterValidation("approval_role", isApprovalRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("signature_blob", isSignatureBlob); err != nil {
		return err
	}
	return nil
}

func isEntityType(fl validator.FieldLevel) bool {
	return constants.IsValidEntityType(fl.Field().String())
}

func isApprovalRole(fl validator.FieldLevel) bool {
	return constants.IsValidApprovalRole(fl.Field().String())
}

// The signature blob is an opaque base64 payload (in practice an image);
// only the encoding is checked, never the content.
func isSignatureBlob(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
