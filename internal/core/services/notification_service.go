package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/core/domain"

	"go.uber.org/zap"
)

// NotificationService composes and sends transactional email.
// Send* methods return the delivery error; Notify* methods are
// fire-and-forget and only log failures.
type NotificationService struct {
	mailer  Mailer
	orgName string
	logger  *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(mailer Mailer, orgName string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		mailer:  mailer,
		orgName: orgName,
		logger:  logger,
	}
}

// SendResetCode emails a password reset code to an admin
func (s *NotificationService) SendResetCode(ctx context.Context, admin *models.Admin, code string, ttl time.Duration) error {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Your password reset code is:</p>
<h2>%s</h2>
<p>The code expires in %d minutes. If you did not request a reset, ignore this email.</p>`,
		html.EscapeString(admin.Username),
		code,
		int(ttl.Minutes()),
	)

	return s.mailer.Send(ctx, domain.Email{
		To:      []string{admin.Email},
		Subject: s.orgName + " password reset code",
		HTML:    body,
	})
}

// SendBroadcastApproval emails a broadcast approval code to the super admin
func (s *NotificationService) SendBroadcastApproval(ctx context.Context, superAdmin *models.Admin, requester, subject, code string) error {
	body := fmt.Sprintf(`<p>%s wants to send a newsletter.</p>
<p><strong>Subject:</strong> %s</p>
<p>Share this approval code with them to authorize the broadcast:</p>
<h2>%s</h2>`,
		html.EscapeString(requester),
		html.EscapeString(subject),
		code,
	)

	return s.mailer.Send(ctx, domain.Email{
		To:      []string{superAdmin.Email},
		Subject: "Broadcast approval requested by " + requester,
		HTML:    body,
	})
}

// SendNewsletter sends one email with every recipient in BCC
func (s *NotificationService) SendNewsletter(ctx context.Context, recipients []string, subject, message string) error {
	return s.mailer.Send(ctx, domain.Email{
		Bcc:     recipients,
		Subject: subject,
		HTML:    message,
	})
}

// NotifyEventTicket sends a registration ticket
func (s *NotificationService) NotifyEventTicket(ctx context.Context, event *models.Event, registrant *models.EventRegistrant) {
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>You are registered for <strong>%s</strong>.</p>
<p>When: %s<br>Where: %s</p>
<p>Ticket #%d-%d</p>`,
		html.EscapeString(registrant.Name),
		html.EscapeString(event.Title),
		event.StartsAt.Format("Monday, January 2, 2006 at 3:04 PM"),
		html.EscapeString(event.Location),
		event.ID,
		registrant.ID,
	)

	s.notify(ctx, "event_ticket", domain.Email{
		To:      []string{registrant.Email},
		Subject: "Your ticket: " + event.Title,
		HTML:    body,
	})
}

// NotifyDonationReceipt sends a donation receipt
func (s *NotificationService) NotifyDonationReceipt(ctx context.Context, donation *models.Donation) {
	if donation.Email == "" {
		return
	}

	body := fmt.Sprintf(`<p>Thank you%s!</p>
<p>We received your donation of %.2f %s.</p>
<p>Reference: %s</p>`,
		nameSuffix(donation.Name),
		donation.Amount,
		donation.Currency,
		html.EscapeString(donation.SessionID),
	)

	s.notify(ctx, "donation_receipt", domain.Email{
		To:      []string{donation.Email},
		Subject: s.orgName + " donation receipt",
		HTML:    body,
	})
}

// NotifySubscribed welcomes a new subscriber
func (s *NotificationService) NotifySubscribed(ctx context.Context, email string) {
	s.notify(ctx, "subscribed", domain.Email{
		To:      []string{email},
		Subject: "Welcome to the " + s.orgName + " newsletter",
		HTML:    "<p>Thanks for subscribing. You will hear from us soon.</p>",
	})
}

// NotifyVolunteerReceived acknowledges a volunteer application
func (s *NotificationService) NotifyVolunteerReceived(ctx context.Context, volunteer *models.Volunteer) {
	s.notify(ctx, "volunteer_received", domain.Email{
		To:      []string{volunteer.Email},
		Subject: "Thanks for volunteering with " + s.orgName,
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>We received your application and will be in touch.</p>",
			html.EscapeString(volunteer.Name)),
	})
}

// NotifyContactReceived acknowledges a contact message
func (s *NotificationService) NotifyContactReceived(ctx context.Context, message *models.ContactMessage) {
	s.notify(ctx, "contact_received", domain.Email{
		To:      []string{message.Email},
		Subject: "We received your message",
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Thanks for reaching out. We will reply shortly.</p>",
			html.EscapeString(message.Name)),
	})
}

func (s *NotificationService) notify(ctx context.Context, kind string, email domain.Email) {
	if err := s.mailer.Send(ctx, email); err != nil {
		s.logger.Warn("notification not delivered",
			zap.String("kind", kind),
			zap.Strings("to", email.To),
			zap.Error(err),
		)
	}
}

func nameSuffix(name string) string {
	if name == "" {
		return ""
	}
	return ", " + html.EscapeString(name)
}
