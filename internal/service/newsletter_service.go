package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

// UnsubscribePurpose scopes newsletter unsubscribe tokens.
const UnsubscribePurpose = "unsubscribe"

type subscriberStore interface {
	Subscribe(ctx context.Context, email, source string) (*models.Subscriber, bool, error)
	Unsubscribe(ctx context.Context, email string) error
}

type tokenSigner interface {
	Generate(purpose, value string) (string, time.Time, error)
	Parse(token, purpose string, allowExpired bool) (string, time.Time, error)
}

type welcomeSender interface {
	NewsletterWelcome(ctx context.Context, email, unsubscribeURL string)
	PublicURL(path string) string
}

// NewsletterService handles newsletter signups and signed unsubscribe links.
type NewsletterService struct {
	repo      subscriberStore
	signer    tokenSigner
	welcome   welcomeSender
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsletterService constructs a NewsletterService.
func NewNewsletterService(repo subscriberStore, signer tokenSigner, welcome welcomeSender, validate *validator.Validate, logger *zap.Logger) *NewsletterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NewsletterService{repo: repo, signer: signer, welcome: welcome, validator: validate, logger: logger}
}

// Subscribe adds or reactivates an address. created is false when the address
// was already an active subscriber.
func (s *NewsletterService) Subscribe(ctx context.Context, req dto.NewsletterRequest) (*dto.NewsletterResult, bool, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Source = strings.TrimSpace(req.Source)
	if err := s.validator.Struct(req); err != nil {
		return nil, false, validationError(err, "A valid email is required")
	}

	sub, created, err := s.repo.Subscribe(ctx, req.Email, req.Source)
	if err != nil {
		return nil, false, appErrors.Internal(err, "Failed to subscribe")
	}
	if !created {
		return &dto.NewsletterResult{Success: true, AlreadyExisted: true, Message: "You're already subscribed."}, false, nil
	}

	s.logger.Info("newsletter subscription", zap.Int64("subscriber_id", sub.ID), zap.String("source", sub.Source))
	if s.welcome != nil {
		if link, err := s.UnsubscribeURL(sub.Email); err != nil {
			s.logger.Warn("failed to sign unsubscribe link", zap.Error(err))
		} else {
			s.welcome.NewsletterWelcome(context.WithoutCancel(ctx), sub.Email, link)
		}
	}
	return &dto.NewsletterResult{Success: true, Message: "Thanks for subscribing!"}, true, nil
}

// UnsubscribeURL returns the public one-click unsubscribe link for email.
func (s *NewsletterService) UnsubscribeURL(email string) (string, error) {
	token, _, err := s.signer.Generate(UnsubscribePurpose, strings.ToLower(email))
	if err != nil {
		return "", err
	}
	path := "/newsletter/unsubscribe?token=" + url.QueryEscape(token)
	if s.welcome == nil {
		return path, nil
	}
	return s.welcome.PublicURL(path), nil
}

// Unsubscribe deactivates the address embedded in a signed token. Links keep
// working after the token's expiry; unknown addresses succeed silently.
func (s *NewsletterService) Unsubscribe(ctx context.Context, token string) (string, error) {
	email, _, err := s.signer.Parse(strings.TrimSpace(token), UnsubscribePurpose, true)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "Invalid unsubscribe link")
	}
	if err := s.repo.Unsubscribe(ctx, email); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Internal(err, "Failed to unsubscribe")
	}
	s.logger.Info("newsletter unsubscribe", zap.String("email", email))
	return email, nil
}
