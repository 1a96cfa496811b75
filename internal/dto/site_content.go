package dto

import (
	"time"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

// SiteContentView is an editable section as the admin sees it: the stored
// override when present, otherwise the built-in default.
type SiteContentView struct {
	Key       string             `json:"key"`
	Kind      models.SectionKind `json:"kind"`
	Value     models.Section     `json:"value"`
	IsDefault bool               `json:"isDefault"`
	UpdatedBy *string            `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
}
