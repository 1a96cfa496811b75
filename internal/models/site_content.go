package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// SectionKind discriminates the typed shapes a site content blob can take.
type SectionKind string

const (
	SectionHero    SectionKind = "hero"
	SectionStats   SectionKind = "stats"
	SectionStory   SectionKind = "story"
	SectionLessons SectionKind = "lessons"
)

// Section is implemented by every editable page section shape.
type Section interface {
	SectionKind() SectionKind
}

// HeroSection is the banner at the top of a page.
type HeroSection struct {
	Title    string `json:"title" validate:"required,max=160"`
	Subtitle string `json:"subtitle" validate:"max=400"`
	CTALabel string `json:"ctaLabel,omitempty" validate:"max=60"`
	CTAHref  string `json:"ctaHref,omitempty" validate:"required_with=CTALabel,max=300"`
	ImageURL string `json:"imageUrl,omitempty" validate:"max=500"`
}

// StatItem is a single figure in a stats strip.
type StatItem struct {
	Label string `json:"label" validate:"required,max=80"`
	Value string `json:"value" validate:"required,max=40"`
}

// StatsSection is a row of headline numbers.
type StatsSection struct {
	Items []StatItem `json:"items" validate:"required,min=1,max=8,dive"`
}

// StorySection is a titled block of prose with an optional image.
type StorySection struct {
	Title    string `json:"title" validate:"required,max=160"`
	Body     string `json:"body" validate:"required,max=8000"`
	ImageURL string `json:"imageUrl,omitempty" validate:"max=500"`
}

// LessonCard describes one academy program.
type LessonCard struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=600"`
	Level       string `json:"level,omitempty" validate:"max=40"`
	Price       string `json:"price,omitempty" validate:"max=40"`
}

// LessonsSection lists the academy programs.
type LessonsSection struct {
	Title string       `json:"title,omitempty" validate:"max=160"`
	Cards []LessonCard `json:"cards" validate:"required,min=1,max=12,dive"`
}

func (HeroSection) SectionKind() SectionKind    { return SectionHero }
func (StatsSection) SectionKind() SectionKind   { return SectionStats }
func (StorySection) SectionKind() SectionKind   { return SectionStory }
func (LessonsSection) SectionKind() SectionKind { return SectionLessons }

// SiteContent is the stored row behind an editable section.
type SiteContent struct {
	Key       string      `db:"key" json:"key"`
	Kind      SectionKind `db:"kind" json:"kind"`
	Value     string      `db:"value" json:"-"`
	UpdatedBy *string     `db:"updated_by" json:"updatedBy,omitempty"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}

// DecodeSection parses raw into the shape for kind. Unknown fields are rejected.
func DecodeSection(kind SectionKind, raw []byte) (Section, error) {
	var target Section
	switch kind {
	case SectionHero:
		target = &HeroSection{}
	case SectionStats:
		target = &StatsSection{}
	case SectionStory:
		target = &StorySection{}
	case SectionLessons:
		target = &LessonsSection{}
	default:
		return nil, fmt.Errorf("unknown section kind %q", kind)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("decode %s section: %w", kind, err)
	}
	return derefSection(target), nil
}

func derefSection(s Section) Section {
	switch v := s.(type) {
	case *HeroSection:
		return *v
	case *StatsSection:
		return *v
	case *StorySection:
		return *v
	case *LessonsSection:
		return *v
	}
	return s
}
