package domain

type MembershipRole string

const (
	RoleAdmin            MembershipRole = "ADMIN"
	RoleFinancialManager MembershipRole = "FINANCIAL_MANAGER"
	RoleMember           MembershipRole = "MEMBER"
)

type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "ACTIVE"
	MembershipStatusInactive  MembershipStatus = "INACTIVE"
	MembershipStatusSuspended MembershipStatus = "SUSPENDED"
)

// Membership links a user to an organization. A user holds at most one
// membership per organization; only ACTIVE memberships count against the
// subscription quota.
type Membership struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	OrgID        string           `json:"org_id"`
	Role         MembershipRole   `json:"role"`
	Status       MembershipStatus `json:"status"`
	MemberNumber string           `json:"member_number"`
	JoinedOn     string           `json:"joined_on"`
	User         *User            `json:"user,omitempty"`
}

// HasRole reports whether the membership role is in the given set.
// An empty set means any role qualifies.
func (m *Membership) HasRole(roles ...MembershipRole) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if m.Role == r {
			return true
		}
	}
	return false
}

type MembershipFilter struct {
	Status   MembershipStatus
	Role     MembershipRole
	Search   string
	Page     int32
	PageSize int32
}
