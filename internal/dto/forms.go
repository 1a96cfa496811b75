package dto

// StatusUpdateRequest carries a lifecycle status change for an admin entity.
type StatusUpdateRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

// ReorderRequest lists entity ids in their new display order.
type ReorderRequest struct {
	IDs []int64 `json:"ids" form:"ids" validate:"required,min=1,dive,gt=0"`
}

// NewsletterRequest is the public newsletter signup payload.
type NewsletterRequest struct {
	Email  string `json:"email" form:"email" validate:"required,email,max=254"`
	Source string `json:"source" form:"source" validate:"max=40"`
}

// NewsletterResult reports the signup outcome.
type NewsletterResult struct {
	Success        bool   `json:"success"`
	AlreadyExisted bool   `json:"alreadySubscribed"`
	Message        string `json:"message"`
}

// SubmissionResult acknowledges a public form submission.
type SubmissionResult struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// UploadResult is the upload endpoint response body.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
