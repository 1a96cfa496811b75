package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type contentStore[T any] interface {
	List(ctx context.Context, filter repository.ListFilter) ([]T, int, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, id int64, entity *T) error
	UpdateStatus(ctx context.Context, id int64, status string) (*T, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, ids []int64) error
	Exists(ctx context.Context, column string, value interface{}, excludeID int64) (bool, error)
}

// ContentOptions describe how one entity behaves in the admin.
type ContentOptions[T any] struct {
	// Resource names the entity in audit rows and messages.
	Resource string
	// Label is the singular display name used in error messages.
	Label string
	// Paths returns the public page paths that render item.
	Paths func(item *T) []string
	// Prepare normalises item before validation. id is zero on create.
	Prepare func(ctx context.Context, store contentStore[T], item *T, id int64) error
	// Statuses enables UpdateStatus for the listed values.
	Statuses []string
	// Ordered enables Reorder.
	Ordered bool
}

// ContentService is the admin create/read/update/delete surface shared by the
// content entities. Every write requires an admin actor, validates the
// entity, invalidates affected pages and leaves an audit row.
type ContentService[T any] struct {
	store     contentStore[T]
	opts      ContentOptions[T]
	validator *validator.Validate
	pages     pageInvalidator
	audit     auditWriter
	logger    *zap.Logger
}

// NewContentService builds the admin service for one entity.
func NewContentService[T any](store contentStore[T], opts ContentOptions[T], validate *validator.Validate, pages pageInvalidator, audit auditWriter, logger *zap.Logger) *ContentService[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if opts.Label == "" {
		opts.Label = opts.Resource
	}
	return &ContentService[T]{store: store, opts: opts, validator: validate, pages: pages, audit: audit, logger: logger}
}

// Resource returns the entity's resource name.
func (s *ContentService[T]) Resource() string {
	return s.opts.Resource
}

// List returns one page of entities.
func (s *ContentService[T]) List(ctx context.Context, actor *Actor, filter repository.ListFilter) ([]T, *models.Pagination, error) {
	if err := requireStaff(actor); err != nil {
		return nil, nil, err
	}
	items, total, err := s.store.List(ctx, filter)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownFilter) {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter")
		}
		return nil, nil, appErrors.Internal(err, "failed to list "+s.opts.Resource)
	}
	page, size := filter.Normalize()
	return items, models.NewPagination(page, size, total), nil
}

// Get returns one entity.
func (s *ContentService[T]) Get(ctx context.Context, actor *Actor, id int64) (*T, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Create validates and stores item.
func (s *ContentService[T]) Create(ctx context.Context, actor *Actor, item *T) (*T, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, item, 0); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to create "+s.opts.Label)
	}

	s.afterWrite(ctx, actor, models.AuditActionCreate, entityID(item), nil, item, item)
	return item, nil
}

// Update replaces the writable fields of entity id with item.
func (s *ContentService[T]) Update(ctx context.Context, actor *Actor, id int64, item *T) (*T, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	before, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, item, id); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, id, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.notFound()
		}
		return nil, appErrors.Internal(err, "failed to update "+s.opts.Label)
	}

	s.afterWrite(ctx, actor, models.AuditActionUpdate, id, before, item, before, item)
	return item, nil
}

// UpdateStatus moves entity id to status, which must be one of the entity's
// lifecycle values.
func (s *ContentService[T]) UpdateStatus(ctx context.Context, actor *Actor, id int64, status string) (*T, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if len(s.opts.Statuses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, s.opts.Label+" has no status")
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	if !contains(s.opts.Statuses, status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be one of "+strings.Join(s.opts.Statuses, ", "))
	}

	before, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.notFound()
		}
		return nil, appErrors.Internal(err, "failed to update "+s.opts.Label+" status")
	}

	s.afterWrite(ctx, actor, models.AuditActionStatus, id, before, updated, before, updated)
	return updated, nil
}

// Delete removes entity id.
func (s *ContentService[T]) Delete(ctx context.Context, actor *Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	before, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.notFound()
		}
		return appErrors.Internal(err, "failed to delete "+s.opts.Label)
	}

	s.afterWrite(ctx, actor, models.AuditActionDelete, id, before, nil, before)
	return nil
}

// Reorder assigns display positions following ids.
func (s *ContentService[T]) Reorder(ctx context.Context, actor *Actor, ids []int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !s.opts.Ordered {
		return appErrors.Clone(appErrors.ErrValidation, s.opts.Label+" cannot be reordered")
	}
	if len(ids) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "ids are required")
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id <= 0 {
			return appErrors.Clone(appErrors.ErrValidation, "ids must be unique positive values")
		}
		seen[id] = struct{}{}
	}

	if err := s.store.Reorder(ctx, ids); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.notFound()
		}
		return appErrors.Internal(err, "failed to reorder "+s.opts.Resource)
	}

	var first *T
	if item, err := s.store.FindByID(ctx, ids[0]); err == nil {
		first = item
	}
	s.invalidate(ctx, first)
	recordAudit(ctx, s.audit, s.logger, actor, auditEntry{action: models.AuditActionReorder, resource: s.opts.Resource, after: ids})
	return nil
}

func (s *ContentService[T]) find(ctx context.Context, id int64) (*T, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.notFound()
		}
		return nil, appErrors.Internal(err, "failed to load "+s.opts.Label)
	}
	return item, nil
}

func (s *ContentService[T]) prepare(ctx context.Context, item *T, id int64) error {
	if item == nil {
		return appErrors.Clone(appErrors.ErrValidation, s.opts.Label+" payload is required")
	}
	if s.opts.Prepare != nil {
		if err := s.opts.Prepare(ctx, s.store, item, id); err != nil {
			var appErr *appErrors.Error
			if errors.As(err, &appErr) {
				return appErr
			}
			return appErrors.Internal(err, "failed to prepare "+s.opts.Label)
		}
	}
	if err := s.validator.Struct(item); err != nil {
		return validationError(err, "invalid "+s.opts.Label)
	}
	return nil
}

// afterWrite invalidates the pages of every version of the entity and audits
// the change.
func (s *ContentService[T]) afterWrite(ctx context.Context, actor *Actor, action string, id int64, before, after *T, affected ...*T) {
	for _, item := range affected {
		s.invalidate(ctx, item)
	}
	entry := auditEntry{action: action, resource: s.opts.Resource, resourceID: idString(id)}
	if before != nil {
		entry.before = before
	}
	if after != nil {
		entry.after = after
	}
	recordAudit(ctx, s.audit, s.logger, actor, entry)
}

func (s *ContentService[T]) invalidate(ctx context.Context, item *T) {
	if s.pages == nil || s.opts.Paths == nil {
		return
	}
	s.pages.InvalidatePaths(ctx, s.opts.Paths(item)...)
}

func (s *ContentService[T]) notFound() error {
	return appErrors.Clone(appErrors.ErrNotFound, s.opts.Label+" not found")
}

// entityID reads the ID field every content model carries.
func entityID(item interface{}) int64 {
	if v, ok := item.(interface{ GetID() int64 }); ok {
		return v.GetID()
	}
	return 0
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
