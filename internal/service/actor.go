package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

// Actor identifies the authenticated back-office user behind a mutation.
type Actor struct {
	UserID    string
	Email     string
	Role      models.UserRole
	IP        string
	UserAgent string
}

// ActorFromClaims builds an Actor from validated token claims. Nil claims
// yield a nil actor.
func ActorFromClaims(claims *models.JWTClaims, ip, userAgent string) *Actor {
	if claims == nil {
		return nil
	}
	return &Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role, IP: ip, UserAgent: userAgent}
}

// requireAdmin gates every admin mutation regardless of route middleware.
func requireAdmin(actor *Actor) error {
	if actor == nil || actor.UserID == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if !actor.Role.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}
	return nil
}

// requireStaff allows any signed-in back-office role; used for reads.
func requireStaff(actor *Actor) error {
	if actor == nil || actor.UserID == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if !actor.Role.Valid() {
		return appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}
	return nil
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// pageInvalidator drops cached public page data.
type pageInvalidator interface {
	InvalidatePaths(ctx context.Context, paths ...string)
}

type auditEntry struct {
	action     string
	resource   string
	resourceID string
	before     interface{}
	after      interface{}
}

// recordAudit writes an audit row; failures are logged and swallowed.
func recordAudit(ctx context.Context, writer auditWriter, logger *zap.Logger, actor *Actor, entry auditEntry) {
	if writer == nil || actor == nil {
		return
	}

	log := &models.AuditLog{
		Action:    entry.action,
		Resource:  entry.resource,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	userID := actor.UserID
	log.UserID = &userID
	if entry.resourceID != "" {
		id := entry.resourceID
		log.ResourceID = &id
	}
	log.OldValues = marshalAudit(entry.before)
	log.NewValues = marshalAudit(entry.after)

	if err := writer.CreateAuditLog(ctx, log); err != nil {
		logger.Warn("failed to record audit log",
			zap.String("action", entry.action),
			zap.String("resource", entry.resource),
			zap.Error(err))
	}
}

func marshalAudit(v interface{}) []byte {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// validationError turns validator failures into a 400 naming the offending
// fields by their JSON names.
func validationError(err error, message string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}

	fields := make([]string, 0, len(fieldErrs))
	seen := make(map[string]struct{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := lowerFirst(fe.Field())
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
		message+": "+strings.Join(fields, ", "))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if len(s) > 1 && strings.ToUpper(s) == s {
		return strings.ToLower(s)
	}
	return strings.ToLower(s[:1]) + s[1:]
}
