package models

import (
	"time"

	"github.com/lib/pq"
)

// TournamentStatus is the lifecycle stage of a tournament.
type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "UPCOMING"
	TournamentOngoing   TournamentStatus = "ONGOING"
	TournamentCompleted TournamentStatus = "COMPLETED"
)

// Valid reports whether s is a known tournament status.
func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentUpcoming, TournamentOngoing, TournamentCompleted:
		return true
	}
	return false
}

// RegistrationStatus classifies a tournament registration against capacity.
type RegistrationStatus string

const (
	RegistrationConfirmed  RegistrationStatus = "CONFIRMED"
	RegistrationWaitlisted RegistrationStatus = "WAITLISTED"
)

// Valid reports whether s is a known registration status.
func (s RegistrationStatus) Valid() bool {
	return s == RegistrationConfirmed || s == RegistrationWaitlisted
}

// Tournament is an event players can register for.
type Tournament struct {
	ID               int64             `db:"id" json:"id"`
	Title            string            `db:"title" json:"title" form:"title" validate:"required,max=200"`
	Description      string            `db:"description" json:"description" form:"description"`
	Date             time.Time         `db:"date" json:"date" form:"date" time_format:"2006-01-02" validate:"required"`
	EndDate          *time.Time        `db:"end_date" json:"endDate,omitempty" form:"endDate" time_format:"2006-01-02"`
	Location         string            `db:"location" json:"location" form:"location" validate:"required"`
	Venue            string            `db:"venue" json:"venue" form:"venue"`
	RegistrationLink string            `db:"registration_link" json:"registrationLink,omitempty" form:"registrationLink" validate:"omitempty,url"`
	ImageURL         string            `db:"image_url" json:"imageUrl,omitempty" form:"imageUrl"`
	Tags             pq.StringArray    `db:"tags" json:"tags" form:"tags"`
	Status           TournamentStatus  `db:"status" json:"status" form:"status" validate:"required,oneof=UPCOMING ONGOING COMPLETED"`
	Featured         bool              `db:"featured" json:"featured" form:"featured"`
	MaxSpots         *int              `db:"max_spots" json:"maxSpots,omitempty" form:"maxSpots" validate:"omitempty,min=1"`
	CreatedAt        time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updatedAt"`
	Photos           []TournamentPhoto `db:"-" json:"photos,omitempty" form:"-"`
}

// TournamentPhoto is a gallery image attached to a tournament.
type TournamentPhoto struct {
	ID           int64     `db:"id" json:"id"`
	TournamentID int64     `db:"tournament_id" json:"tournamentId" form:"tournamentId" validate:"required"`
	URL          string    `db:"url" json:"url" form:"url" validate:"required"`
	Caption      string    `db:"caption" json:"caption" form:"caption"`
	SortOrder    int       `db:"sort_order" json:"sortOrder" form:"sortOrder"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// TournamentRegistration is one registrant's entry in a tournament.
type TournamentRegistration struct {
	ID           int64              `db:"id" json:"id"`
	TournamentID int64              `db:"tournament_id" json:"tournamentId"`
	FullName     string             `db:"full_name" json:"fullName"`
	Email        string             `db:"email" json:"email"`
	Phone        string             `db:"phone" json:"phone"`
	WhatsApp     string             `db:"whatsapp" json:"whatsApp,omitempty"`
	Age          *int               `db:"age" json:"age,omitempty"`
	Rating       *int               `db:"rating" json:"rating,omitempty"`
	Notes        string             `db:"notes" json:"notes,omitempty"`
	Status       RegistrationStatus `db:"status" json:"status"`
	CreatedAt    time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updatedAt"`
}

// SpotsLeft returns the remaining confirmed capacity, nil when uncapped.
func SpotsLeft(maxSpots *int, confirmed int) *int {
	if maxSpots == nil {
		return nil
	}
	left := *maxSpots - confirmed
	if left < 0 {
		left = 0
	}
	return &left
}
