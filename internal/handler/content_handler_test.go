package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/service"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
)

type fakePostService struct {
	filter  repository.ListFilter
	created *models.Post
	updated int64
	status  string
	deleted int64
	order   []int64
	err     error
}

func (f *fakePostService) List(_ context.Context, _ *service.Actor, filter repository.ListFilter) ([]models.Post, *models.Pagination, error) {
	f.filter = filter
	return []models.Post{{ID: 1, Title: "Round one"}}, models.NewPagination(1, 20, 1), f.err
}

func (f *fakePostService) Get(_ context.Context, _ *service.Actor, id int64) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{ID: id, Title: "Round one"}, nil
}

func (f *fakePostService) Create(_ context.Context, actor *service.Actor, item *models.Post) (*models.Post, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	f.created = item
	item.ID = 7
	return item, f.err
}

func (f *fakePostService) Update(_ context.Context, _ *service.Actor, id int64, item *models.Post) (*models.Post, error) {
	f.updated = id
	item.ID = id
	return item, f.err
}

func (f *fakePostService) UpdateStatus(_ context.Context, _ *service.Actor, id int64, status string) (*models.Post, error) {
	f.status = status
	return &models.Post{ID: id}, f.err
}

func (f *fakePostService) Delete(_ context.Context, _ *service.Actor, id int64) error {
	f.deleted = id
	return f.err
}

func (f *fakePostService) Reorder(_ context.Context, _ *service.Actor, ids []int64) error {
	f.order = ids
	return f.err
}

func newPostHandler(svc *fakePostService) *ContentHandler[models.Post] {
	return NewContentHandler[models.Post](svc, ContentOptions{
		AdminPath: "/admin/posts",
		Filters:   []string{"published"},
		Status:    true,
		Reorder:   true,
	})
}

func TestContentHandlerListAppliesFilters(t *testing.T) {
	svc := &fakePostService{}
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/api/admin/posts?published=true&search=%20open%20&page=2&limit=5&author=x", nil), models.RoleEditor)

	newPostHandler(svc).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "open", svc.filter.Search)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 5, svc.filter.PageSize)
	assert.Equal(t, map[string]interface{}{"published": "true"}, svc.filter.Equals)
	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, 1, envelope.Pagination["totalCount"])
}

func TestContentHandlerCreateJSON(t *testing.T) {
	svc := &fakePostService{}
	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/admin/posts", `{"title":"Nationals recap","body":"...","tags":["Juniors"]}`), models.RoleAdmin)

	newPostHandler(svc).Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Nationals recap", svc.created.Title)
	assert.Equal(t, []string{"Juniors"}, []string(svc.created.Tags))
	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, 7, envelope.Data["id"])
}

func TestContentHandlerFormPostRedirects(t *testing.T) {
	svc := &fakePostService{}
	c, rec := newTestContext(formRequest(http.MethodPost, "/api/admin/posts", url.Values{
		"title": {"From the form"}, "body": {"text"}, "published": {"true"},
	}), models.RoleAdmin)

	newPostHandler(svc).Create(c)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/posts", rec.Header().Get("Location"))
	require.NotNil(t, svc.created)
	assert.True(t, svc.created.Published)
}

func TestContentHandlerCreateWithoutActor(t *testing.T) {
	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/admin/posts", `{"title":"x","body":"y"}`), "")

	newPostHandler(&fakePostService{}).Create(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContentHandlerUpdateAndDelete(t *testing.T) {
	svc := &fakePostService{}
	handler := newPostHandler(svc)

	c, rec := newTestContext(jsonRequest(http.MethodPut, "/api/admin/posts/3", `{"title":"t","body":"b"}`), models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	handler.Update(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.updated)

	c, _ = newTestContext(httptest.NewRequest(http.MethodDelete, "/api/admin/posts/3", nil), models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, int64(3), svc.deleted)
}

func TestContentHandlerRejectsBadID(t *testing.T) {
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/api/admin/posts/abc", nil), models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	newPostHandler(&fakePostService{}).Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentHandlerStatusAndReorder(t *testing.T) {
	svc := &fakePostService{}
	handler := newPostHandler(svc)

	c, rec := newTestContext(jsonRequest(http.MethodPatch, "/api/admin/posts/4/status", `{"status":"CONTACTED"}`), models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.UpdateStatus(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONTACTED", svc.status)

	c, _ = newTestContext(jsonRequest(http.MethodPut, "/api/admin/posts/reorder", `{"ids":[3,1,2]}`), models.RoleAdmin)
	handler.Reorder(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, []int64{3, 1, 2}, svc.order)
}

func TestContentHandlerRegisterMountsOptionalRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewContentHandler[models.Post](&fakePostService{}, ContentOptions{}).Register(engine.Group("/posts"))

	paths := map[string]bool{}
	for _, route := range engine.Routes() {
		paths[route.Method+" "+route.Path] = true
	}
	assert.True(t, paths["PUT /posts/:id"])
	assert.False(t, paths["PUT /posts/reorder"])
	assert.False(t, paths["PATCH /posts/:id/status"])
}
