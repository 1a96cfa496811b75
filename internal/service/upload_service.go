package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/dto"
	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/storage"
)

// DefaultMaxUploadBytes is the exclusive upper bound on upload size.
const DefaultMaxUploadBytes int64 = 5 * 1024 * 1024

var extByMIME = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
	"image/avif":    "avif",
}

// UploadInput is one received file.
type UploadInput struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// UploadService validates admin image uploads and writes them to the
// configured object store.
type UploadService struct {
	store    storage.ObjectStore
	maxBytes int64
	allowed  map[string]struct{}
	metrics  *MetricsService
	audit    auditWriter
	logger   *zap.Logger
	now      func() time.Time
}

// NewUploadService constructs an UploadService. Files of maxBytes or more are
// rejected.
func NewUploadService(store storage.ObjectStore, maxBytes int64, allowedMIMEs []string, metrics *MetricsService, audit auditWriter, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	allowed := make(map[string]struct{}, len(allowedMIMEs))
	for _, m := range allowedMIMEs {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			allowed[m] = struct{}{}
		}
	}
	return &UploadService{store: store, maxBytes: maxBytes, allowed: allowed, metrics: metrics, audit: audit, logger: logger, now: time.Now}
}

// Upload stores in and returns its public URL. Nothing is written when the
// file is rejected.
func (s *UploadService) Upload(ctx context.Context, actor *Actor, in *UploadInput) (*dto.UploadResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in == nil || in.Body == nil {
		s.metrics.RecordUpload("rejected")
		return nil, appErrors.Clone(appErrors.ErrValidation, "No file uploaded")
	}

	contentType := normalizeMIME(in.ContentType)
	if _, ok := s.allowed[contentType]; !ok {
		s.metrics.RecordUpload("rejected")
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF, SVG, AVIF")
	}
	if in.Size >= s.maxBytes {
		s.metrics.RecordUpload("rejected")
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("File too large. Maximum size is %dMB", s.maxBytes/(1024*1024)))
	}

	name := s.filename(in.Filename, contentType)
	body := io.LimitReader(in.Body, s.maxBytes)
	url, err := s.store.Put(ctx, name, body, in.Size, contentType)
	if err != nil {
		s.metrics.RecordUpload("failed")
		s.logger.Error("upload failed", zap.String("filename", name), zap.Error(err))
		return nil, appErrors.Internal(err, "Upload failed")
	}

	s.metrics.RecordUpload("stored")
	recordAudit(ctx, s.audit, s.logger, actor, auditEntry{
		action: models.AuditActionUpload, resource: "uploads", resourceID: name,
		after: map[string]interface{}{"url": url, "size": in.Size, "contentType": contentType},
	})
	return &dto.UploadResult{URL: url, Filename: name}, nil
}

// filename builds "<unix-millis>-<slug>.<ext>" from the client's name.
func (s *UploadService) filename(original, contentType string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "upload"
	}
	if ext == "" || slug.Make(ext) != ext {
		ext = extByMIME[contentType]
	}
	return fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), stem, ext)
}

func normalizeMIME(raw string) string {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strings.ToLower(mediaType)
}
