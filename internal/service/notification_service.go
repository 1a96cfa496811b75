package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/pkg/jobs"
	"github.com/noah-isme/chess-academy-site/pkg/mailer"
	"github.com/noah-isme/chess-academy-site/pkg/whatsapp"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// JobTypeEmail tags queued email deliveries.
const JobTypeEmail = "email"

const (
	mailRegistrationUser  = "registration_user"
	mailRegistrationAdmin = "registration_admin"
	mailWaitlistPromoted  = "waitlist_promoted"
	mailNewsletterWelcome = "newsletter_welcome"
)

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// NotificationConfig carries the admin contacts and public URL used in messages.
type NotificationConfig struct {
	AdminEmail    string
	AdminWhatsApp string
	PublicBaseURL string
}

type emailJob struct {
	Template string
	Message  mailer.Message
}

type registrationView struct {
	Tournament    *models.Tournament
	Registration  *models.TournamentRegistration
	SpotsLeft     *int
	Confirmed     bool
	DateLabel     string
	SpotsLabel    string
	TournamentURL string
}

// NotificationService renders registration emails and WhatsApp deep links and
// delivers emails best-effort, through the job queue when one is attached.
type NotificationService struct {
	sender  mailer.Sender
	queue   jobEnqueuer
	metrics *MetricsService
	config  NotificationConfig
	logger  *zap.Logger
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

// NewNotificationService parses the embedded templates.
func NewNotificationService(sender mailer.Sender, metrics *MetricsService, cfg NotificationConfig, logger *zap.Logger) (*NotificationService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &NotificationService{sender: sender, metrics: metrics, config: cfg, logger: logger, html: html, text: text}, nil
}

// UseQueue routes email delivery through q. Without a queue emails are sent
// inline.
func (s *NotificationService) UseQueue(q jobEnqueuer) {
	s.queue = q
}

// RegistrationReceived emails the registrant and the admin address.
func (s *NotificationService) RegistrationReceived(ctx context.Context, t *models.Tournament, reg *models.TournamentRegistration, spotsLeft *int) {
	view := s.view(t, reg, spotsLeft)

	subject := fmt.Sprintf("Registration confirmed: %s", t.Title)
	if reg.Status == models.RegistrationWaitlisted {
		subject = fmt.Sprintf("You're on the waitlist: %s", t.Title)
	}
	s.deliver(ctx, mailRegistrationUser, reg.Email, subject, "", view)

	if s.config.AdminEmail != "" {
		adminSubject := fmt.Sprintf("New %s registration: %s", strings.ToLower(string(reg.Status)), t.Title)
		s.deliver(ctx, mailRegistrationAdmin, s.config.AdminEmail, adminSubject, reg.Email, view)
	}
}

// WaitlistPromoted tells each promoted registrant their spot is confirmed.
func (s *NotificationService) WaitlistPromoted(ctx context.Context, t *models.Tournament, promoted []models.TournamentRegistration) {
	for i := range promoted {
		reg := &promoted[i]
		view := s.view(t, reg, nil)
		s.deliver(ctx, mailWaitlistPromoted, reg.Email, fmt.Sprintf("A spot opened up: %s", t.Title), "", view)
	}
}

// NewsletterWelcome greets a new subscriber with their unsubscribe link.
func (s *NotificationService) NewsletterWelcome(ctx context.Context, email, unsubscribeURL string) {
	view := struct {
		Email          string
		UnsubscribeURL string
		SiteURL        string
	}{Email: email, UnsubscribeURL: unsubscribeURL, SiteURL: s.config.PublicBaseURL}
	s.deliver(ctx, mailNewsletterWelcome, email, "Welcome to our newsletter", "", view)
}

// PublicURL joins path onto the public site address.
func (s *NotificationService) PublicURL(path string) string {
	return s.config.PublicBaseURL + path
}

// WhatsAppLinks builds the registrant and admin wa.me links. The registrant
// link targets their WhatsApp number, falling back to phone.
func (s *NotificationService) WhatsAppLinks(t *models.Tournament, reg *models.TournamentRegistration, spotsLeft *int) dto.WhatsAppLinks {
	view := s.view(t, reg, spotsLeft)

	number := reg.WhatsApp
	if whatsapp.Digits(number) == "" {
		number = reg.Phone
	}

	return dto.WhatsAppLinks{
		UserLink:  whatsapp.Link(number, s.renderLine("whatsapp_user.txt.tmpl", view)),
		AdminLink: whatsapp.Link(s.config.AdminWhatsApp, s.renderLine("whatsapp_admin.txt.tmpl", view)),
	}
}

// ContactLink is the generic "message us" link shown on the contact page.
func (s *NotificationService) ContactLink(message string) string {
	return whatsapp.Link(s.config.AdminWhatsApp, message)
}

// AdminEmail returns the configured admin inbox.
func (s *NotificationService) AdminEmail() string {
	return s.config.AdminEmail
}

// HandleJob is the queue handler for JobTypeEmail jobs.
func (s *NotificationService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(emailJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.Type)
	}
	return s.send(ctx, payload)
}

func (s *NotificationService) deliver(ctx context.Context, name, to, subject, replyTo string, view interface{}) {
	if s.sender == nil || strings.TrimSpace(to) == "" {
		return
	}

	msg, err := s.render(name, view)
	if err != nil {
		s.logger.Warn("failed to render email", zap.String("template", name), zap.Error(err))
		s.metrics.RecordEmail(name, "render_failed")
		return
	}
	msg.To = []string{to}
	msg.Subject = subject
	msg.ReplyTo = replyTo

	job := emailJob{Template: name, Message: msg}
	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: JobTypeEmail, Payload: job, Enqueued: time.Now().UTC()})
		if err == nil {
			return
		}
		s.logger.Warn("email queue unavailable, sending inline", zap.String("template", name), zap.Error(err))
	}
	if err := s.send(ctx, job); err != nil {
		s.logger.Warn("failed to send email", zap.String("template", name), zap.Error(err))
	}
}

func (s *NotificationService) send(ctx context.Context, job emailJob) error {
	err := s.sender.Send(ctx, job.Message)
	switch {
	case err == nil:
		s.metrics.RecordEmail(job.Template, "sent")
		return nil
	case errors.Is(err, mailer.ErrDisabled):
		s.metrics.RecordEmail(job.Template, "skipped")
		s.logger.Debug("email skipped, mailer disabled", zap.String("template", job.Template))
		return nil
	default:
		s.metrics.RecordEmail(job.Template, "failed")
		return err
	}
}

func (s *NotificationService) render(name string, view interface{}) (mailer.Message, error) {
	var html, text bytes.Buffer
	if err := s.html.ExecuteTemplate(&html, name+".html.tmpl", view); err != nil {
		return mailer.Message{}, err
	}
	if err := s.text.ExecuteTemplate(&text, name+".txt.tmpl", view); err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{HTML: html.String(), Text: text.String()}, nil
}

func (s *NotificationService) renderLine(name string, view registrationView) string {
	var buf bytes.Buffer
	if err := s.text.ExecuteTemplate(&buf, name, view); err != nil {
		s.logger.Warn("failed to render whatsapp message", zap.String("template", name), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func (s *NotificationService) view(t *models.Tournament, reg *models.TournamentRegistration, spotsLeft *int) registrationView {
	spots := "unlimited"
	if spotsLeft != nil {
		spots = strconv.Itoa(*spotsLeft)
	}
	return registrationView{
		Tournament:    t,
		Registration:  reg,
		SpotsLeft:     spotsLeft,
		Confirmed:     reg.Status == models.RegistrationConfirmed,
		DateLabel:     dateLabel(t),
		SpotsLabel:    spots,
		TournamentURL: fmt.Sprintf("%s/tournaments/%d", s.config.PublicBaseURL, t.ID),
	}
}

func dateLabel(t *models.Tournament) string {
	label := t.Date.Format("2 Jan 2006")
	if t.EndDate != nil && !t.EndDate.Equal(t.Date) {
		label += " - " + t.EndDate.Format("2 Jan 2006")
	}
	return label
}
