package models

import "time"

// TeamMember is a coach or staff profile on the academy page.
type TeamMember struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" form:"name" validate:"required,max=120"`
	Role      string    `db:"role" json:"role" form:"role" validate:"required,max=120"`
	Title     string    `db:"title" json:"title,omitempty" form:"title" validate:"max=10"`
	Rating    *int      `db:"rating" json:"rating,omitempty" form:"rating" validate:"omitempty,min=0,max=3500"`
	Bio       string    `db:"bio" json:"bio,omitempty" form:"bio"`
	PhotoURL  string    `db:"photo_url" json:"photoUrl,omitempty" form:"photoUrl"`
	SortOrder int       `db:"sort_order" json:"sortOrder" form:"sortOrder"`
	Published bool      `db:"published" json:"published" form:"published"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Testimonial is a quote from a parent or student.
type Testimonial struct {
	ID        int64     `db:"id" json:"id"`
	Author    string    `db:"author" json:"author" form:"author" validate:"required,max=120"`
	Role      string    `db:"role" json:"role,omitempty" form:"role"`
	Quote     string    `db:"quote" json:"quote" form:"quote" validate:"required,max=2000"`
	PhotoURL  string    `db:"photo_url" json:"photoUrl,omitempty" form:"photoUrl"`
	Stars     int       `db:"stars" json:"stars" form:"stars" validate:"omitempty,min=1,max=5"`
	SortOrder int       `db:"sort_order" json:"sortOrder" form:"sortOrder"`
	Published bool      `db:"published" json:"published" form:"published"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Partner is a sponsor or partner organisation logo.
type Partner struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" form:"name" validate:"required,max=120"`
	LogoURL   string    `db:"logo_url" json:"logoUrl" form:"logoUrl" validate:"required"`
	Website   string    `db:"website" json:"website,omitempty" form:"website" validate:"omitempty,url"`
	SortOrder int       `db:"sort_order" json:"sortOrder" form:"sortOrder"`
	Published bool      `db:"published" json:"published" form:"published"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DailyPuzzle is a chess puzzle featured on a given day.
type DailyPuzzle struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title" form:"title" validate:"required,max=200"`
	FEN        string    `db:"fen" json:"fen" form:"fen" validate:"required,max=100"`
	Solution   string    `db:"solution" json:"solution" form:"solution" validate:"required"`
	Hint       string    `db:"hint" json:"hint,omitempty" form:"hint"`
	Difficulty string    `db:"difficulty" json:"difficulty" form:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
	PuzzleDate time.Time `db:"puzzle_date" json:"puzzleDate" form:"puzzleDate" time_format:"2006-01-02" validate:"required"`
	Published  bool      `db:"published" json:"published" form:"published"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// NGOStory is an impact story shown on the foundation page.
type NGOStory struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title" form:"title" validate:"required,max=200"`
	Body      string    `db:"body" json:"body" form:"body" validate:"required"`
	ImageURL  string    `db:"image_url" json:"imageUrl,omitempty" form:"imageUrl"`
	Location  string    `db:"location" json:"location,omitempty" form:"location"`
	SortOrder int       `db:"sort_order" json:"sortOrder" form:"sortOrder"`
	Published bool      `db:"published" json:"published" form:"published"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Subscriber is a newsletter recipient.
type Subscriber struct {
	ID             int64      `db:"id" json:"id"`
	Email          string     `db:"email" json:"email" form:"email" validate:"required,email"`
	Active         bool       `db:"active" json:"active" form:"active"`
	Source         string     `db:"source" json:"source,omitempty" form:"source"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at" json:"unsubscribedAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}
