package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

// PostRepository adds slug lookups and published listings to post CRUD.
type PostRepository struct {
	*CRUDRepository[models.Post]
	db *sqlx.DB
}

// NewPostRepository creates a post repository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{CRUDRepository: NewCRUDRepository[models.Post](db, PostsTable), db: db}
}

// FindPublishedBySlug returns a published post. sql.ErrNoRows is returned unwrapped.
func (r *PostRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE slug = $1 AND published = TRUE`, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return &post, nil
}

// ListPublished returns published posts newest first, optionally by tag.
func (r *PostRepository) ListPublished(ctx context.Context, tag string, limit int) ([]models.Post, error) {
	query := `SELECT * FROM posts WHERE published = TRUE`
	args := []interface{}{}
	if tag != "" {
		args = append(args, tag)
		query += ` AND $1 = ANY(tags)`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY COALESCE(published_at, created_at) DESC LIMIT $%d`, len(args))

	items := make([]models.Post, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return items, nil
}

// PuzzleRepository adds the puzzle-of-the-day lookup to puzzle CRUD.
type PuzzleRepository struct {
	*CRUDRepository[models.DailyPuzzle]
	db *sqlx.DB
}

// NewPuzzleRepository creates a puzzle repository.
func NewPuzzleRepository(db *sqlx.DB) *PuzzleRepository {
	return &PuzzleRepository{CRUDRepository: NewCRUDRepository[models.DailyPuzzle](db, DailyPuzzlesTable), db: db}
}

// ForDate returns the latest published puzzle dated on or before day.
func (r *PuzzleRepository) ForDate(ctx context.Context, day time.Time) (*models.DailyPuzzle, error) {
	var puzzle models.DailyPuzzle
	const query = `SELECT * FROM daily_puzzles WHERE published = TRUE AND puzzle_date <= $1 ORDER BY puzzle_date DESC, id DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &puzzle, query, day.Format("2006-01-02")); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find daily puzzle: %w", err)
	}
	return &puzzle, nil
}

// ProductRepository adds storefront listings to product CRUD.
type ProductRepository struct {
	*CRUDRepository[models.Product]
	db *sqlx.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{CRUDRepository: NewCRUDRepository[models.Product](db, ProductsTable), db: db}
}

// ListStorefront returns products with featured items first.
func (r *ProductRepository) ListStorefront(ctx context.Context, limit int) ([]models.Product, error) {
	const query = `SELECT * FROM products ORDER BY featured DESC, created_at DESC LIMIT $1`
	items := make([]models.Product, 0)
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list storefront products: %w", err)
	}
	return items, nil
}

// DonationRepository adds aggregate totals to donation CRUD.
type DonationRepository struct {
	*CRUDRepository[models.NGODonation]
	db *sqlx.DB
}

// NewDonationRepository creates a donation repository.
func NewDonationRepository(db *sqlx.DB) *DonationRepository {
	return &DonationRepository{CRUDRepository: NewCRUDRepository[models.NGODonation](db, NGODonationsTable), db: db}
}

// CompletedTotal sums completed donations.
func (r *DonationRepository) CompletedTotal(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(amount), 0) FROM ngo_donations WHERE status = 'COMPLETED'`); err != nil {
		return 0, fmt.Errorf("sum donations: %w", err)
	}
	return total, nil
}
