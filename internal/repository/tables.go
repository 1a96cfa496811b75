package repository

// Table definitions for the content entities managed through CRUDRepository.
var (
	TournamentsTable = Table{
		Name:    "tournaments",
		Columns: []string{"title", "description", "date", "end_date", "location", "venue", "registration_link", "image_url", "tags", "status", "featured", "max_spots"},
		Search:  []string{"title", "location", "venue"},
		Filters: []string{"status", "featured"},
		Orders:  []string{"date DESC", "date ASC", "created_at DESC", "title ASC"},
	}
	TournamentPhotosTable = Table{
		Name:        "tournament_photos",
		Columns:     []string{"tournament_id", "url", "caption", "sort_order"},
		Filters:     []string{"tournament_id"},
		Orders:      []string{"sort_order ASC, id ASC"},
		Ordered:     true,
		NoUpdatedAt: true,
	}
	CategoriesTable = Table{
		Name:    "categories",
		Columns: []string{"name", "slug", "description", "sort_order"},
		Search:  []string{"name"},
		Filters: []string{"slug"},
		Orders:  []string{"sort_order ASC, id ASC", "name ASC"},
		Ordered: true,
	}
	ProductsTable = Table{
		Name:    "products",
		Columns: []string{"category_id", "name", "description", "price", "image_url", "buy_url", "in_stock", "featured"},
		Search:  []string{"name", "description"},
		Filters: []string{"category_id", "featured", "in_stock"},
		Orders:  []string{"created_at DESC", "name ASC", "price ASC", "price DESC"},
	}
	PostsTable = Table{
		Name:    "posts",
		Columns: []string{"title", "slug", "excerpt", "body", "cover_image", "author", "tags", "published", "published_at"},
		Search:  []string{"title", "excerpt"},
		Filters: []string{"published", "slug"},
		Orders:  []string{"created_at DESC", "published_at DESC NULLS LAST", "title ASC"},
	}
	AcademyLeadsTable = Table{
		Name:    "academy_leads",
		Columns: []string{"name", "email", "phone", "child_name", "age", "program", "message", "source", "status"},
		Search:  []string{"name", "email", "phone", "child_name"},
		Filters: []string{"status", "source", "program"},
		Orders:  []string{"created_at DESC", "created_at ASC", "name ASC"},
	}
	NGOApplicationsTable = Table{
		Name:    "ngo_applications",
		Columns: []string{"name", "email", "phone", "organization", "program", "message", "status"},
		Search:  []string{"name", "email", "organization"},
		Filters: []string{"status"},
		Orders:  []string{"created_at DESC", "created_at ASC"},
	}
	NGOVolunteersTable = Table{
		Name:    "ngo_volunteers",
		Columns: []string{"name", "email", "phone", "skills", "availability", "message", "status"},
		Search:  []string{"name", "email", "skills"},
		Filters: []string{"status"},
		Orders:  []string{"created_at DESC", "created_at ASC"},
	}
	NGODonationsTable = Table{
		Name:    "ngo_donations",
		Columns: []string{"donor_name", "email", "phone", "amount", "currency", "message", "status"},
		Search:  []string{"donor_name", "email"},
		Filters: []string{"status", "currency"},
		Orders:  []string{"created_at DESC", "amount DESC"},
	}
	TeamMembersTable = Table{
		Name:    "team_members",
		Columns: []string{"name", "role", "title", "rating", "bio", "photo_url", "sort_order", "published"},
		Search:  []string{"name", "role"},
		Filters: []string{"published"},
		Orders:  []string{"sort_order ASC, id ASC"},
		Ordered: true,
	}
	TestimonialsTable = Table{
		Name:    "testimonials",
		Columns: []string{"author", "role", "quote", "photo_url", "stars", "sort_order", "published"},
		Search:  []string{"author", "quote"},
		Filters: []string{"published"},
		Orders:  []string{"sort_order ASC, id ASC"},
		Ordered: true,
	}
	PartnersTable = Table{
		Name:    "partners",
		Columns: []string{"name", "logo_url", "website", "sort_order", "published"},
		Search:  []string{"name"},
		Filters: []string{"published"},
		Orders:  []string{"sort_order ASC, id ASC"},
		Ordered: true,
	}
	DailyPuzzlesTable = Table{
		Name:    "daily_puzzles",
		Columns: []string{"title", "fen", "solution", "hint", "difficulty", "puzzle_date", "published"},
		Search:  []string{"title"},
		Filters: []string{"published", "difficulty"},
		Orders:  []string{"puzzle_date DESC, id DESC"},
	}
	NGOStoriesTable = Table{
		Name:    "ngo_stories",
		Columns: []string{"title", "body", "image_url", "location", "sort_order", "published"},
		Search:  []string{"title", "location"},
		Filters: []string{"published"},
		Orders:  []string{"sort_order ASC, id ASC"},
		Ordered: true,
	}
	SubscribersTable = Table{
		Name:    "subscribers",
		Columns: []string{"email", "active", "source", "unsubscribed_at"},
		Search:  []string{"email"},
		Filters: []string{"active", "source"},
		Orders:  []string{"created_at DESC", "email ASC"},
	}
)
