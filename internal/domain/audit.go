package domain

// AuditLog is an append-only record of a mutating action. It is a
// write-only sink; nothing in the services reads it back.
type AuditLog struct {
	ID           string `json:"id"`
	Action       string `json:"action"`
	Resource     string `json:"resource"`
	ResourceID   string `json:"resource_id"`
	UserID       string `json:"user_id"`
	OrgID        string `json:"org_id"`
	MembershipID string `json:"membership_id"`
	Details      string `json:"details"` // JSON payload
	CreatedAt    string `json:"created_at"`
}
