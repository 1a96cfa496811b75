package main

import (
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/chess-academy-site/internal/handler"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/router"
	"github.com/noah-isme/chess-academy-site/internal/service"
)

type contentRepos struct {
	Categories   *repository.CRUDRepository[models.Category]
	Leads        *repository.CRUDRepository[models.AcademyLead]
	Applications *repository.CRUDRepository[models.NGOApplication]
	Volunteers   *repository.CRUDRepository[models.NGOVolunteer]
	Team         *repository.CRUDRepository[models.TeamMember]
	Testimonials *repository.CRUDRepository[models.Testimonial]
	Partners     *repository.CRUDRepository[models.Partner]
	Stories      *repository.CRUDRepository[models.NGOStory]
}

func newContentRepos(db *sqlx.DB) contentRepos {
	return contentRepos{
		Categories:   repository.NewCRUDRepository[models.Category](db, repository.CategoriesTable),
		Leads:        repository.NewCRUDRepository[models.AcademyLead](db, repository.AcademyLeadsTable),
		Applications: repository.NewCRUDRepository[models.NGOApplication](db, repository.NGOApplicationsTable),
		Volunteers:   repository.NewCRUDRepository[models.NGOVolunteer](db, repository.NGOVolunteersTable),
		Team:         repository.NewCRUDRepository[models.TeamMember](db, repository.TeamMembersTable),
		Testimonials: repository.NewCRUDRepository[models.Testimonial](db, repository.TestimonialsTable),
		Partners:     repository.NewCRUDRepository[models.Partner](db, repository.PartnersTable),
		Stories:      repository.NewCRUDRepository[models.NGOStory](db, repository.NGOStoriesTable),
	}
}

func adminOptions(path string, filters ...string) handler.ContentOptions {
	return handler.ContentOptions{AdminPath: "/admin" + path, Filters: filters}
}

func withStatus(opts handler.ContentOptions) handler.ContentOptions {
	opts.Status = true
	return opts
}

func withReorder(opts handler.ContentOptions) handler.ContentOptions {
	opts.Reorder = true
	return opts
}

// contentRoutes lists the admin collections served by the generic handler.
func contentRoutes(c *service.ContentServices, tournaments *service.TournamentService) []router.ContentRoute {
	return []router.ContentRoute{
		{Path: "/tournaments", Handler: handler.NewContentHandler[models.Tournament](tournaments,
			withStatus(adminOptions("/tournaments", "status", "featured")))},
		{Path: "/tournament-photos", Handler: handler.NewContentHandler[models.TournamentPhoto](tournaments.Photos,
			withReorder(adminOptions("/tournament-photos", "tournament_id")))},
		{Path: "/categories", Handler: handler.NewContentHandler[models.Category](c.Categories,
			withReorder(adminOptions("/categories")))},
		{Path: "/products", Handler: handler.NewContentHandler[models.Product](c.Products,
			adminOptions("/products", "category_id", "featured", "in_stock"))},
		{Path: "/posts", Handler: handler.NewContentHandler[models.Post](c.Posts,
			adminOptions("/posts", "published"))},
		{Path: "/academy-leads", Handler: handler.NewContentHandler[models.AcademyLead](c.Leads,
			withStatus(adminOptions("/academy-leads", "status", "source", "program")))},
		{Path: "/ngo-applications", Handler: handler.NewContentHandler[models.NGOApplication](c.Applications,
			withStatus(adminOptions("/ngo-applications", "status")))},
		{Path: "/ngo-volunteers", Handler: handler.NewContentHandler[models.NGOVolunteer](c.Volunteers,
			withStatus(adminOptions("/ngo-volunteers", "status")))},
		{Path: "/ngo-donations", Handler: handler.NewContentHandler[models.NGODonation](c.Donations,
			withStatus(adminOptions("/ngo-donations", "status", "currency")))},
		{Path: "/team", Handler: handler.NewContentHandler[models.TeamMember](c.Team,
			withReorder(adminOptions("/team", "published")))},
		{Path: "/testimonials", Handler: handler.NewContentHandler[models.Testimonial](c.Testimonials,
			withReorder(adminOptions("/testimonials", "published")))},
		{Path: "/partners", Handler: handler.NewContentHandler[models.Partner](c.Partners,
			withReorder(adminOptions("/partners", "published")))},
		{Path: "/puzzles", Handler: handler.NewContentHandler[models.DailyPuzzle](c.Puzzles,
			adminOptions("/puzzles", "published", "difficulty"))},
		{Path: "/ngo-stories", Handler: handler.NewContentHandler[models.NGOStory](c.Stories,
			withReorder(adminOptions("/ngo-stories", "published")))},
		{Path: "/subscribers", Handler: handler.NewContentHandler[models.Subscriber](c.Subscribers,
			adminOptions("/subscribers", "active", "source"))},
	}
}
