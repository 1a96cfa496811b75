package models

import "time"

// LeadStatus tracks an academy enquiry.
type LeadStatus string

const (
	LeadNew       LeadStatus = "NEW"
	LeadContacted LeadStatus = "CONTACTED"
	LeadEnrolled  LeadStatus = "ENROLLED"
	LeadClosed    LeadStatus = "CLOSED"
)

// ReviewStatus is shared by NGO applications and volunteer sign-ups.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// DonationStatus tracks a donation pledge.
type DonationStatus string

const (
	DonationPending   DonationStatus = "PENDING"
	DonationCompleted DonationStatus = "COMPLETED"
	DonationFailed    DonationStatus = "FAILED"
)

// Lead sources.
const (
	LeadSourceAcademy = "academy"
	LeadSourceContact = "contact"
)

// AcademyLead is a prospective student's enquiry.
type AcademyLead struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name" form:"name" validate:"required,max=120"`
	Email     string     `db:"email" json:"email" form:"email" validate:"required,email"`
	Phone     string     `db:"phone" json:"phone" form:"phone" validate:"required,max=40"`
	ChildName string     `db:"child_name" json:"childName,omitempty" form:"childName"`
	Age       *int       `db:"age" json:"age,omitempty" form:"age" validate:"omitempty,min=3,max=120"`
	Program   string     `db:"program" json:"program,omitempty" form:"program"`
	Message   string     `db:"message" json:"message,omitempty" form:"message" validate:"max=4000"`
	Source    string     `db:"source" json:"source" form:"source"`
	Status    LeadStatus `db:"status" json:"status" form:"status" validate:"omitempty,oneof=NEW CONTACTED ENROLLED CLOSED"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// NGOApplication is a school or community asking the foundation for a program.
type NGOApplication struct {
	ID           int64        `db:"id" json:"id"`
	Name         string       `db:"name" json:"name" form:"name" validate:"required,max=120"`
	Email        string       `db:"email" json:"email" form:"email" validate:"required,email"`
	Phone        string       `db:"phone" json:"phone" form:"phone" validate:"required,max=40"`
	Organization string       `db:"organization" json:"organization" form:"organization" validate:"required,max=200"`
	Program      string       `db:"program" json:"program,omitempty" form:"program"`
	Message      string       `db:"message" json:"message,omitempty" form:"message" validate:"max=4000"`
	Status       ReviewStatus `db:"status" json:"status" form:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// NGOVolunteer is a volunteer sign-up.
type NGOVolunteer struct {
	ID           int64        `db:"id" json:"id"`
	Name         string       `db:"name" json:"name" form:"name" validate:"required,max=120"`
	Email        string       `db:"email" json:"email" form:"email" validate:"required,email"`
	Phone        string       `db:"phone" json:"phone" form:"phone" validate:"required,max=40"`
	Skills       string       `db:"skills" json:"skills,omitempty" form:"skills"`
	Availability string       `db:"availability" json:"availability,omitempty" form:"availability"`
	Message      string       `db:"message" json:"message,omitempty" form:"message" validate:"max=4000"`
	Status       ReviewStatus `db:"status" json:"status" form:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// NGODonation is a donation pledge; payment happens off-site.
type NGODonation struct {
	ID        int64          `db:"id" json:"id"`
	DonorName string         `db:"donor_name" json:"donorName" form:"donorName" validate:"required,max=120"`
	Email     string         `db:"email" json:"email" form:"email" validate:"required,email"`
	Phone     string         `db:"phone" json:"phone,omitempty" form:"phone" validate:"max=40"`
	Amount    float64        `db:"amount" json:"amount" form:"amount" validate:"gt=0"`
	Currency  string         `db:"currency" json:"currency" form:"currency" validate:"omitempty,len=3"`
	Message   string         `db:"message" json:"message,omitempty" form:"message" validate:"max=4000"`
	Status    DonationStatus `db:"status" json:"status" form:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}
