package service

import (
	"context"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
)

// notifier fans a domain event out to the in-app notification feed and,
// when the organization allows it, to email. All writes are best effort:
// failures are logged and never surface to the caller.
type Notifier struct {
	noteRepo repository.NotificationRepository
	orgRepo  repository.OrganizationRepository
	email    EmailSender
}

func NewNotifier(noteRepo repository.NotificationRepository, orgRepo repository.OrganizationRepository, email EmailSender) *Notifier {
	return &Notifier{noteRepo: noteRepo, orgRepo: orgRepo, email: email}
}

func (n *Notifier) notify(ctx context.Context, member *domain.Membership, ntype domain.NotificationType, title, message, priority string) {
	note := &domain.Notification{
		OrgID:        member.OrgID,
		MembershipID: member.ID,
		Type:         ntype,
		Title:        title,
		Message:      message,
		Priority:     priority,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.SinkFailure("notification", err, "type", ntype, "membership_id", member.ID)
	}

	if member.User == nil || member.User.Email == "" {
		return
	}
	org, err := n.orgRepo.GetByID(ctx, member.OrgID)
	if err != nil {
		logger.SinkFailure("email", err, "org_id", member.OrgID)
		return
	}
	if org.Settings == nil || !org.Settings.EmailNotifications {
		return
	}
	if err := n.email.SendEmail(member.User.Email, member.User.FullName(), title, message, ""); err != nil {
		logger.SinkFailure("email", err, "to", member.User.Email, "type", ntype)
	}
}
