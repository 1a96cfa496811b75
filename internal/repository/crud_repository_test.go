package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

var partnerColumns = []string{"id", "name", "logo_url", "website", "sort_order", "published", "created_at", "updated_at"}

func TestCRUDListAppliesFiltersSearchAndPaging(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCRUDRepository[models.AcademyLead](db, AcademyLeadsTable)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM academy_leads WHERE status = $1 AND (LOWER(name) LIKE $2 OR LOWER(email) LIKE $2 OR LOWER(phone) LIKE $2 OR LOWER(child_name) LIKE $2) ORDER BY created_at DESC LIMIT 10 OFFSET 10")).
		WithArgs("NEW", "%riya%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "child_name", "age", "program", "message", "source", "status", "created_at", "updated_at"}).
			AddRow(7, "Riya", "riya@example.com", "9999", "Aarav", 8, "beginner", "", "academy", "NEW", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM academy_leads WHERE status = $1")).
		WithArgs("NEW", "%riya%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	items, total, err := repo.List(context.Background(), ListFilter{
		Search:   "Riya",
		Equals:   map[string]interface{}{"status": "NEW"},
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Aarav", items[0].ChildName)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRUDListRejectsUnknownFilter(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewCRUDRepository[models.Partner](db, PartnersTable)

	_, _, err := repo.List(context.Background(), ListFilter{Equals: map[string]interface{}{"password": "x"}})
	require.Error(t, err)
}

func TestCRUDCreateReturnsStoredRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCRUDRepository[models.Partner](db, PartnersTable)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO partners (name, logo_url, website, sort_order, published) VALUES ($1, $2, $3, $4, $5) RETURNING *")).
		WithArgs("FIDE", "/uploads/fide.png", "https://fide.com", 0, true).
		WillReturnRows(sqlmock.NewRows(partnerColumns).AddRow(3, "FIDE", "/uploads/fide.png", "https://fide.com", 0, true, now, now))

	partner := &models.Partner{Name: "FIDE", LogoURL: "/uploads/fide.png", Website: "https://fide.com", Published: true}
	require.NoError(t, repo.Create(context.Background(), partner))
	assert.Equal(t, int64(3), partner.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRUDUpdateAppendsIDAndTimestamp(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCRUDRepository[models.Partner](db, PartnersTable)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE partners SET name = $1, logo_url = $2, website = $3, sort_order = $4, published = $5, updated_at = NOW() WHERE id = $6 RETURNING *")).
		WithArgs("FIDE", "/uploads/fide.png", "", 2, false, int64(3)).
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), 3, &models.Partner{Name: "FIDE", LogoURL: "/uploads/fide.png", SortOrder: 2})
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRUDDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCRUDRepository[models.Testimonial](db, TestimonialsTable)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM testimonials WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 9), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRUDReorderRunsInTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCRUDRepository[models.TeamMember](db, TeamMembersTable)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE team_members SET sort_order = $2 WHERE id = $1")).WithArgs(int64(5), 0).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE team_members SET sort_order = $2 WHERE id = $1")).WithArgs(int64(2), 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Reorder(context.Background(), []int64{5, 2}))
	assert.NoError(t, mock.ExpectationsWereMet())

	unordered := NewCRUDRepository[models.Post](db, PostsTable)
	require.Error(t, unordered.Reorder(context.Background(), []int64{1}))
}

func TestListFilterNormalize(t *testing.T) {
	page, size := ListFilter{}.Normalize()
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, size)

	_, size = ListFilter{PageSize: 1000}.Normalize()
	assert.Equal(t, maxPageSize, size)
}
