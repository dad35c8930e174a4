package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/middleware"
	"inkwell/repository"
	"inkwell/utils"
)

// ProfileController serves profile listings and profile editing.
type ProfileController struct {
	repos *repository.Repositories
}

// NewProfileController creates a ProfileController instance.
func NewProfileController(repos *repository.Repositories) *ProfileController {
	return &ProfileController{repos: repos}
}

// Show lists every post of the named user, visible or not, newest first.
// Profile pages expose the full list to any viewer.
func (p *ProfileController) Show(ctx *gin.Context) {
	username := ctx.Param("username")

	profile, err := p.repos.Users.ByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(ctx)
			return
		}
		utils.Sugar.Errorf("load user %q failed: %v", username, err)
		renderServerError(ctx)
		return
	}

	page := parsePage(ctx)
	posts, total, err := p.repos.Posts.ByAuthor(profile.ID, page, pageSize)
	if err != nil {
		utils.Sugar.Errorf("profile %q listing failed: %v", username, err)
		renderServerError(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "profile.html", view(ctx, gin.H{
		"Profile":    profile,
		"Posts":      posts,
		"Pagination": paginate(page, total),
	}))
}

type profileForm struct {
	FirstName string
	LastName  string
	Email     string
}

// EditForm renders the profile edit page. The path username is routing only;
// the form always works on the requester's own record.
func (p *ProfileController) EditForm(ctx *gin.Context) {
	requesterID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	user, err := p.repos.Users.ByID(requesterID)
	if err != nil {
		utils.Sugar.Errorf("load user %d failed: %v", requesterID, err)
		renderServerError(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "profile_edit.html", view(ctx, gin.H{
		"Username": user.Username,
		"Form": profileForm{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	}))
}

// Edit updates first name, last name and email of the requester's own record,
// then redirects to their profile.
func (p *ProfileController) Edit(ctx *gin.Context) {
	requesterID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	user, err := p.repos.Users.ByID(requesterID)
	if err != nil {
		utils.Sugar.Errorf("load user %d failed: %v", requesterID, err)
		renderServerError(ctx)
		return
	}

	user.FirstName = utils.SanitizePlain(strings.TrimSpace(ctx.PostForm("first_name")))
	user.LastName = utils.SanitizePlain(strings.TrimSpace(ctx.PostForm("last_name")))
	user.Email = strings.TrimSpace(ctx.PostForm("email"))

	if err := p.repos.Users.Update(user); err != nil {
		utils.Sugar.Errorf("update user %d failed: %v", user.ID, err)
		renderServerError(ctx)
		return
	}

	redirectToProfile(ctx, user.Username)
}
