package constants

// --- DOCUMENT STATUSES (match the codes stored in the DB) ---
const (
	StatusPending   = "PENDING"
	StatusSigned1   = "SIGNED_1"
	StatusSigned2   = "SIGNED_2"
	StatusSigned3   = "SIGNED_3"
	StatusSigned4   = "SIGNED_4"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// Terminal statuses: no further signing is possible.
var TerminalStatuses = []string{
	StatusApproved,
	StatusRejected,
	StatusCancelled,
}

func IsTerminalStatus(code string) bool {
	for _, s := range TerminalStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- TEMPLATE NAMES materialized at document creation per amount tier ---
const (
	TemplateLow  = "LOW"
	TemplateFull = "FULL"
)
