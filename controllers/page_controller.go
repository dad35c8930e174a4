package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageController serves the static informational pages.
type PageController struct{}

// NewPageController creates a PageController instance.
func NewPageController() *PageController {
	return &PageController{}
}

// About renders the about page.
func (p *PageController) About(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "about.html", view(ctx, nil))
}

// Rules renders the rules page.
func (p *PageController) Rules(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "rules.html", view(ctx, nil))
}

// NotFound renders the 404 page for unmatched routes.
func (p *PageController) NotFound(ctx *gin.Context) {
	renderNotFound(ctx)
}
