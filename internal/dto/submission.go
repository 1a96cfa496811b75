package dto

// LeadRequest is the academy enquiry form.
type LeadRequest struct {
	Name      string `json:"name" form:"name" validate:"required,max=120"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone" form:"phone" validate:"required,max=40"`
	ChildName string `json:"childName" form:"childName" validate:"max=120"`
	Age       *int   `json:"age" form:"age" validate:"omitempty,min=3,max=120"`
	Program   string `json:"program" form:"program" validate:"max=120"`
	Message   string `json:"message" form:"message" validate:"max=4000"`
}

// ContactRequest is the general contact form.
type ContactRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=120"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Phone   string `json:"phone" form:"phone" validate:"required,max=40"`
	Message string `json:"message" form:"message" validate:"required,max=4000"`
}

// ApplicationRequest is a school or community asking for a foundation program.
type ApplicationRequest struct {
	Name         string `json:"name" form:"name" validate:"required,max=120"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	Phone        string `json:"phone" form:"phone" validate:"required,max=40"`
	Organization string `json:"organization" form:"organization" validate:"required,max=200"`
	Program      string `json:"program" form:"program" validate:"max=120"`
	Message      string `json:"message" form:"message" validate:"max=4000"`
}

// VolunteerRequest is the volunteer sign-up form.
type VolunteerRequest struct {
	Name         string `json:"name" form:"name" validate:"required,max=120"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	Phone        string `json:"phone" form:"phone" validate:"required,max=40"`
	Skills       string `json:"skills" form:"skills" validate:"max=500"`
	Availability string `json:"availability" form:"availability" validate:"max=200"`
	Message      string `json:"message" form:"message" validate:"max=4000"`
}

// DonationRequest is a donation pledge.
type DonationRequest struct {
	DonorName string  `json:"donorName" form:"donorName" validate:"required,max=120"`
	Email     string  `json:"email" form:"email" validate:"required,email"`
	Phone     string  `json:"phone" form:"phone" validate:"max=40"`
	Amount    float64 `json:"amount" form:"amount" validate:"gt=0"`
	Currency  string  `json:"currency" form:"currency" validate:"omitempty,len=3"`
	Message   string  `json:"message" form:"message" validate:"max=4000"`
}
