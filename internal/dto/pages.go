package dto

import "github.com/noah-isme/chess-academy-site/internal/models"

// HomePage is the data behind "/".
type HomePage struct {
	Hero         models.HeroSection   `json:"hero"`
	Stats        models.StatsSection  `json:"stats"`
	Featured     []models.Tournament  `json:"featured"`
	Upcoming     []models.Tournament  `json:"upcoming"`
	Posts        []models.Post        `json:"posts"`
	Testimonials []models.Testimonial `json:"testimonials"`
	Partners     []models.Partner     `json:"partners"`
	Puzzle       *models.DailyPuzzle  `json:"puzzle,omitempty"`
}

// AcademyPage is the data behind "/academy".
type AcademyPage struct {
	Hero         models.HeroSection    `json:"hero"`
	Lessons      models.LessonsSection `json:"lessons"`
	Team         []models.TeamMember   `json:"team"`
	Testimonials []models.Testimonial  `json:"testimonials"`
	Puzzle       *models.DailyPuzzle   `json:"puzzle,omitempty"`
}

// NGOPage is the data behind "/ngo".
type NGOPage struct {
	Hero          models.HeroSection  `json:"hero"`
	Story         models.StorySection `json:"story"`
	Stats         models.StatsSection `json:"stats"`
	Stories       []models.NGOStory   `json:"stories"`
	Partners      []models.Partner    `json:"partners"`
	DonationTotal float64             `json:"donationTotal"`
}

// ProductShelf groups storefront products under their category.
type ProductShelf struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

// ShopPage is the data behind "/shop".
type ShopPage struct {
	Hero    models.HeroSection `json:"hero"`
	Shelves []ProductShelf     `json:"shelves"`
}

// TournamentsPage is the data behind "/tournaments".
type TournamentsPage struct {
	Upcoming  []models.Tournament `json:"upcoming"`
	Completed []models.Tournament `json:"completed"`
}

// TournamentPage is the data behind "/tournaments/:id".
type TournamentPage struct {
	Tournament *models.Tournament `json:"tournament,omitempty"`
	Confirmed  int                `json:"confirmed"`
	SpotsLeft  *int               `json:"spotsLeft,omitempty"`
	Open       bool               `json:"open"`
}

// NewsPage is the data behind "/news".
type NewsPage struct {
	Tag   string        `json:"tag,omitempty"`
	Posts []models.Post `json:"posts"`
}

// PostPage is the data behind "/news/:slug".
type PostPage struct {
	Post    *models.Post  `json:"post,omitempty"`
	Related []models.Post `json:"related"`
}

// ContactPage is the data behind "/contact".
type ContactPage struct {
	AdminEmail   string `json:"adminEmail"`
	WhatsAppLink string `json:"whatsAppLink"`
}
