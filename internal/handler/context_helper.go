package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/chess-academy-site/internal/middleware"
	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/service"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.ClaimsFromContext(c)
}

// actorFromContext returns the acting back-office user, or nil when the
// request carried no valid token.
func actorFromContext(c *gin.Context) *service.Actor {
	return service.ActorFromClaims(claimsFromContext(c), c.ClientIP(), c.GetHeader("User-Agent"))
}

// isFormPost reports whether the request came from an HTML form rather than
// a JSON client.
func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return !strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
	}
	return false
}

// respondMutation answers an admin mutation: HTML forms are redirected back
// to the admin page, API clients receive the envelope.
func respondMutation(c *gin.Context, status int, redirect string, data interface{}) {
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, redirect)
		return
	}
	switch status {
	case http.StatusNoContent:
		response.NoContent(c)
	case http.StatusCreated:
		response.Created(c, data)
	default:
		response.JSON(c, status, data, nil)
	}
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// bindPayload binds JSON or form bodies depending on the content type.
func bindPayload(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBind(dst); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}
	return nil
}

// listFilter reads paging, search, sort and the whitelisted equality filters
// from the query string.
func listFilter(c *gin.Context, filterable ...string) repository.ListFilter {
	filter := repository.ListFilter{
		Search:  strings.TrimSpace(c.Query("search")),
		OrderBy: c.Query("sort"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	for _, column := range filterable {
		value := strings.TrimSpace(c.Query(column))
		if value == "" {
			continue
		}
		if filter.Equals == nil {
			filter.Equals = make(map[string]interface{}, len(filterable))
		}
		filter.Equals[column] = value
	}
	return filter
}
