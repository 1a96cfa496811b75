package dto

import "github.com/noah-isme/chess-academy-site/internal/models"

// RegisterTournamentRequest is the public registration payload.
type RegisterTournamentRequest struct {
	TournamentID int64  `json:"tournamentId" form:"tournamentId" validate:"required,gt=0"`
	FullName     string `json:"fullName" form:"fullName" validate:"required,max=120"`
	Email        string `json:"email" form:"email" validate:"required,email,max=254"`
	Phone        string `json:"phone" form:"phone" validate:"required,max=40"`
	WhatsApp     string `json:"whatsApp" form:"whatsApp" validate:"max=40"`
	Age          *int   `json:"age" form:"age" validate:"omitempty,min=3,max=120"`
	Rating       *int   `json:"rating" form:"rating" validate:"omitempty,min=0,max=3500"`
	Notes        string `json:"notes" form:"notes" validate:"max=2000"`
}

// RegistrationSummary is the slice of the stored registration returned to the registrant.
type RegistrationSummary struct {
	ID        int64                     `json:"id"`
	Status    models.RegistrationStatus `json:"status"`
	SpotsLeft *int                      `json:"spotsLeft"`
}

// WhatsAppLinks are the two prebuilt wa.me deep links.
type WhatsAppLinks struct {
	UserLink  string `json:"userLink"`
	AdminLink string `json:"adminLink"`
}

// RegistrationResult is the public registration response body.
type RegistrationResult struct {
	Success      bool                `json:"success"`
	Registration RegistrationSummary `json:"registration"`
	WhatsApp     WhatsAppLinks       `json:"whatsApp"`
}

// UpdateRegistrationStatusRequest moves a registration between CONFIRMED and WAITLISTED.
type UpdateRegistrationStatusRequest struct {
	Status models.RegistrationStatus `json:"status" form:"status" validate:"required,oneof=CONFIRMED WAITLISTED"`
}

// RegistrationList is an admin listing of a tournament's registrations.
type RegistrationList struct {
	Tournament    models.Tournament               `json:"tournament"`
	Registrations []models.TournamentRegistration `json:"registrations"`
	Confirmed     int                             `json:"confirmed"`
	Waitlisted    int                             `json:"waitlisted"`
	SpotsLeft     *int                            `json:"spotsLeft"`
}
