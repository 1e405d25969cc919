package constants

// Approval chain roles. The set is closed: configuration rows and templates
// may only reference these names.
const (
	RoleSolicitante    = "SOLICITANTE"
	RoleOficinaTecnica = "OFICINA_TECNICA"
	RoleAdministracion = "ADMINISTRACION"
	RoleGerencia       = "GERENCIA"
)

var ApprovalRoles = []string{
	RoleSolicitante,
	RoleOficinaTecnica,
	RoleAdministracion,
	RoleGerencia,
}

func IsValidApprovalRole(role string) bool {
	for _, r := range ApprovalRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Signature levels are 1..4, matching the four slots on every document.
const (
	MinSignatureLevel = 1
	MaxSignatureLevel = 4
)
