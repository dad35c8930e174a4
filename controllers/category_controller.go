package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/repository"
	"inkwell/utils"
)

// CategoryController serves category listing pages.
type CategoryController struct {
	repos *repository.Repositories
}

// NewCategoryController creates a CategoryController instance.
func NewCategoryController(repos *repository.Repositories) *CategoryController {
	return &CategoryController{repos: repos}
}

// Listing shows the visible posts of one published category. A hidden category
// 404s regardless of its posts.
func (c *CategoryController) Listing(ctx *gin.Context) {
	slug := ctx.Param("slug")

	category, err := c.repos.Categories.BySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(ctx)
			return
		}
		utils.Sugar.Errorf("load category %q failed: %v", slug, err)
		renderServerError(ctx)
		return
	}
	if !category.IsPublished {
		renderNotFound(ctx)
		return
	}

	page := parsePage(ctx)
	posts, total, err := c.repos.Posts.VisibleByCategory(category.ID, time.Now(), page, pageSize)
	if err != nil {
		utils.Sugar.Errorf("category %q listing failed: %v", slug, err)
		renderServerError(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "category.html", view(ctx, gin.H{
		"Category":   category,
		"Posts":      posts,
		"Pagination": paginate(page, total),
	}))
}
