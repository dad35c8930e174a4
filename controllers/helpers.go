package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkwell/middleware"
)

// pageSize is the fixed number of posts per listing page.
const pageSize = 10

// pagination carries page math for listing templates.
type pagination struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

func (p pagination) HasPrev() bool { return p.Page > 1 }
func (p pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p pagination) PrevPage() int { return p.Page - 1 }
func (p pagination) NextPage() int { return p.Page + 1 }

func paginate(page int, total int64) pagination {
	totalPages := int((total + pageSize - 1) / pageSize)
	return pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// parsePage reads the ?page query parameter, defaulting to the first page.
func parsePage(ctx *gin.Context) int {
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		return p
	}
	return 1
}

// parseID converts a numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// view merges request identity and the CSRF token into template data.
func view(ctx *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if username, ok := middleware.Username(ctx); ok {
		data["CurrentUsername"] = username
		data["IsAuthenticated"] = true
	} else {
		data["IsAuthenticated"] = false
	}
	// Prefer the context value: on a first visit the token was minted during
	// this request and only exists in the response cookie.
	if value, ok := ctx.Get(middleware.ContextCSRFTokenKey); ok {
		if token, ok := value.(string); ok && token != "" {
			data["CSRFToken"] = token
			return data
		}
	}
	if token, err := ctx.Cookie(middleware.CSRFCookieName); err == nil {
		data["CSRFToken"] = token
	}
	return data
}

// renderNotFound renders the dedicated 404 page. Absent and hidden resources
// are deliberately indistinguishable.
func renderNotFound(ctx *gin.Context) {
	ctx.HTML(http.StatusNotFound, "404.html", view(ctx, nil))
	ctx.Abort()
}

// renderServerError renders the dedicated 500 page.
func renderServerError(ctx *gin.Context) {
	ctx.HTML(http.StatusInternalServerError, "500.html", view(ctx, nil))
	ctx.Abort()
}

// redirectToPost sends the client to a post's canonical detail page.
func redirectToPost(ctx *gin.Context, postID uint) {
	ctx.Redirect(http.StatusFound, "/posts/"+strconv.FormatUint(uint64(postID), 10)+"/")
}

// redirectToProfile sends the client to a user's profile listing.
func redirectToProfile(ctx *gin.Context, username string) {
	ctx.Redirect(http.StatusFound, "/profile/"+username+"/")
}
