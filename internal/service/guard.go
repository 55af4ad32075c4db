package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
)

// managerRoles are the roles allowed to manage money and members.
var managerRoles = []domain.MembershipRole{domain.RoleAdmin, domain.RoleFinancialManager}

// guard is the single authorization choke point. Every organization-scoped
// operation resolves the caller's ACTIVE membership here before touching
// data; role checks and the audit trail hang off the resolved membership.
type Guard struct {
	membershipRepo repository.MembershipRepository
	auditRepo      repository.AuditLogRepository
}

func NewGuard(membershipRepo repository.MembershipRepository, auditRepo repository.AuditLogRepository) *Guard {
	return &Guard{membershipRepo: membershipRepo, auditRepo: auditRepo}
}

// authorize resolves the caller's ACTIVE membership in orgID and checks it
// against the allowed roles. An empty role set admits any active member.
func (g *Guard) authorize(ctx context.Context, userID, orgID string, roles ...domain.MembershipRole) (*domain.Membership, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	m, err := g.membershipRepo.GetActive(ctx, userID, orgID)
	if err != nil {
		// No active membership in the org means the caller has no standing
		// at all; role mismatch below is the only Forbidden case.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !m.HasRole(roles...) {
		return nil, domain.ErrForbidden
	}
	return m, nil
}

// audit records a mutating action after it committed. Failures are logged
// and swallowed; the business result already stands.
func (g *Guard) audit(ctx context.Context, actor *domain.Membership, action, resource, resourceID string, details any) {
	payload := ""
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			payload = string(b)
		}
	}
	entry := &domain.AuditLog{
		Action:       action,
		Resource:     resource,
		ResourceID:   resourceID,
		UserID:       actor.UserID,
		OrgID:        actor.OrgID,
		MembershipID: actor.ID,
		Details:      payload,
	}
	if err := g.auditRepo.Record(ctx, entry); err != nil {
		logger.SinkFailure("audit", err, "action", action, "resource", resource, "resource_id", resourceID)
	}
}
