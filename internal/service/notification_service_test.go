package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/pkg/jobs"
	"github.com/noah-isme/chess-academy-site/pkg/mailer"
)

type captureSender struct {
	sent []mailer.Message
	err  error
}

func (c *captureSender) Send(_ context.Context, msg mailer.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

type captureQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *captureQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newNotificationForTest(t *testing.T, sender mailer.Sender) *NotificationService {
	t.Helper()
	svc, err := NewNotificationService(sender, nil, NotificationConfig{
		AdminEmail:    "desk@academy.test",
		AdminWhatsApp: "+91 90000 11111",
		PublicBaseURL: "https://academy.test/",
	}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func sampleRegistration(status models.RegistrationStatus) (*models.Tournament, *models.TournamentRegistration) {
	t := &models.Tournament{ID: 3, Title: "Rapid Open", Location: "Pune", Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)}
	reg := &models.TournamentRegistration{ID: 12, TournamentID: 3, FullName: "Asha Rao", Email: "asha@example.com", Phone: "+91 98765 43210", Status: status}
	return t, reg
}

func TestNotificationRegistrationReceivedSendsUserAndAdmin(t *testing.T) {
	sender := &captureSender{}
	svc := newNotificationForTest(t, sender)
	tour, reg := sampleRegistration(models.RegistrationConfirmed)

	svc.RegistrationReceived(context.Background(), tour, reg, intPtr(4))
	require.Len(t, sender.sent, 2)

	user := sender.sent[0]
	assert.Equal(t, []string{"asha@example.com"}, user.To)
	assert.Equal(t, "Registration confirmed: Rapid Open", user.Subject)
	assert.Contains(t, user.Text, "CONFIRMED")
	assert.Contains(t, user.Text, "https://academy.test/tournaments/3")

	admin := sender.sent[1]
	assert.Equal(t, []string{"desk@academy.test"}, admin.To)
	assert.Equal(t, "asha@example.com", admin.ReplyTo)
	assert.True(t, strings.HasPrefix(admin.Subject, "New confirmed registration"))
}

func TestNotificationWaitlistSubject(t *testing.T) {
	sender := &captureSender{}
	svc := newNotificationForTest(t, sender)
	tour, reg := sampleRegistration(models.RegistrationWaitlisted)

	svc.RegistrationReceived(context.Background(), tour, reg, intPtr(0))
	require.NotEmpty(t, sender.sent)
	assert.Equal(t, "You're on the waitlist: Rapid Open", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Text, "WAITLIST")
}

func TestNotificationQueuesWhenAttached(t *testing.T) {
	sender := &captureSender{}
	queue := &captureQueue{}
	svc := newNotificationForTest(t, sender)
	svc.UseQueue(queue)
	tour, reg := sampleRegistration(models.RegistrationConfirmed)

	svc.WaitlistPromoted(context.Background(), tour, []models.TournamentRegistration{*reg})
	require.Len(t, queue.jobs, 1)
	assert.Empty(t, sender.sent)
	assert.Equal(t, JobTypeEmail, queue.jobs[0].Type)

	require.NoError(t, svc.HandleJob(context.Background(), queue.jobs[0]))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "A spot opened up")

	assert.Error(t, svc.HandleJob(context.Background(), jobs.Job{Type: JobTypeEmail, Payload: "junk"}))
}

func TestNotificationFallsBackInlineWhenQueueFull(t *testing.T) {
	sender := &captureSender{}
	svc := newNotificationForTest(t, sender)
	svc.UseQueue(&captureQueue{err: jobs.ErrQueueClosed})

	svc.NewsletterWelcome(context.Background(), "reader@example.com", "https://academy.test/newsletter/unsubscribe?token=x")
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "Unsubscribe: https://academy.test/newsletter/unsubscribe?token=x")
}

func TestNotificationDisabledMailerIsSkipped(t *testing.T) {
	svc := newNotificationForTest(t, &captureSender{err: mailer.ErrDisabled})
	assert.NoError(t, svc.send(context.Background(), emailJob{Template: mailNewsletterWelcome}))

	failing := newNotificationForTest(t, &captureSender{err: errors.New("api 500")})
	assert.Error(t, failing.send(context.Background(), emailJob{Template: mailNewsletterWelcome}))
}

func TestNotificationWhatsAppLinks(t *testing.T) {
	svc := newNotificationForTest(t, nil)
	tour, reg := sampleRegistration(models.RegistrationConfirmed)

	links := svc.WhatsAppLinks(tour, reg, nil)
	assert.True(t, strings.HasPrefix(links.UserLink, "https://wa.me/919876543210?text="))
	assert.Contains(t, links.UserLink, "Asha+Rao")
	assert.True(t, strings.HasPrefix(links.AdminLink, "https://wa.me/919000011111?text="))

	reg.WhatsApp = "+44 7700 900123"
	links = svc.WhatsAppLinks(tour, reg, nil)
	assert.True(t, strings.HasPrefix(links.UserLink, "https://wa.me/447700900123"))

	assert.Equal(t, "https://wa.me/919000011111?text=hi", svc.ContactLink("hi"))
	assert.Equal(t, "https://academy.test/news", svc.PublicURL("/news"))
}

func TestDateLabel(t *testing.T) {
	tour, _ := sampleRegistration(models.RegistrationConfirmed)
	assert.Equal(t, "2 Nov 2026", dateLabel(tour))

	end := tour.Date.AddDate(0, 0, 1)
	tour.EndDate = &end
	assert.Equal(t, "2 Nov 2026 - 3 Nov 2026", dateLabel(tour))
}
