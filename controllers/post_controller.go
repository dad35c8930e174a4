package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell/config"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/repository"
	"inkwell/utils"
)

// PostController serves the index, post detail and post CRUD pages.
type PostController struct {
	repos *repository.Repositories
}

// NewPostController creates a PostController instance.
func NewPostController(repos *repository.Repositories) *PostController {
	return &PostController{repos: repos}
}

// Index lists publicly visible posts, newest first, ten per page.
func (p *PostController) Index(ctx *gin.Context) {
	page := parsePage(ctx)
	posts, total, err := p.repos.Posts.VisiblePage(time.Now(), page, pageSize)
	if err != nil {
		utils.Sugar.Errorf("index listing failed: %v", err)
		renderServerError(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "index.html", view(ctx, gin.H{
		"Posts":      posts,
		"Pagination": paginate(page, total),
	}))
}

// Detail shows one post with its comments and a blank comment form. The author
// sees their post in any state; everyone else gets 404 unless the post passes
// every visibility check.
func (p *PostController) Detail(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		renderNotFound(ctx)
		return
	}

	post, err := p.repos.Posts.Get(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(ctx)
			return
		}
		utils.Sugar.Errorf("load post %d failed: %v", postID, err)
		renderServerError(ctx)
		return
	}

	requesterID, _ := middleware.UserID(ctx)
	if post.AuthorID != requesterID && !models.PostVisible(post, time.Now()) {
		renderNotFound(ctx)
		return
	}

	comments, err := p.repos.Comments.ForPost(post.ID)
	if err != nil {
		utils.Sugar.Errorf("load comments for post %d failed: %v", post.ID, err)
		renderServerError(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "detail.html", view(ctx, gin.H{
		"Post":     post,
		"Comments": comments,
		"Form":     commentForm{},
	}))
}

// postForm carries the submitted field values so validation failures can
// re-render the form with what the user typed.
type postForm struct {
	Title      string
	Text       string
	PubDate    string
	CategoryID string
	LocationID string
}

func readPostForm(ctx *gin.Context) postForm {
	return postForm{
		Title:      strings.TrimSpace(ctx.PostForm("title")),
		Text:       ctx.PostForm("text"),
		PubDate:    strings.TrimSpace(ctx.PostForm("pub_date")),
		CategoryID: strings.TrimSpace(ctx.PostForm("category_id")),
		LocationID: strings.TrimSpace(ctx.PostForm("location_id")),
	}
}

// validate checks the form and, when clean, copies the values onto the post.
func (f postForm) validate(post *models.Post) map[string]string {
	errs := map[string]string{}

	title := utils.SanitizePlain(f.Title)
	if title == "" {
		errs["Title"] = "Title is required."
	}
	text := utils.Sanitize(f.Text)
	if strings.TrimSpace(text) == "" {
		errs["Text"] = "Text is required."
	}

	var pubDate time.Time
	if f.PubDate == "" {
		errs["PubDate"] = "Publication date is required."
	} else {
		var err error
		pubDate, err = parsePubDate(f.PubDate)
		if err != nil {
			errs["PubDate"] = "Enter a valid date."
		}
	}

	var categoryID *uint
	if f.CategoryID != "" {
		id, err := strconv.ParseUint(f.CategoryID, 10, 32)
		if err != nil {
			errs["CategoryID"] = "Choose a valid category."
		} else {
			v := uint(id)
			categoryID = &v
		}
	}
	var locationID *uint
	if f.LocationID != "" {
		id, err := strconv.ParseUint(f.LocationID, 10, 32)
		if err != nil {
			errs["LocationID"] = "Choose a valid location."
		} else {
			v := uint(id)
			locationID = &v
		}
	}

	if len(errs) > 0 {
		return errs
	}

	post.Title = title
	post.Text = text
	post.PubDate = pubDate
	post.CategoryID = categoryID
	post.LocationID = locationID
	return nil
}

func parsePubDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", raw)
}

// renderPostForm renders the shared create/edit template.
func (p *PostController) renderPostForm(ctx *gin.Context, status int, form postForm, errs map[string]string, editing bool) {
	categories, err := p.repos.Categories.Published()
	if err != nil {
		utils.Sugar.Errorf("load categories failed: %v", err)
		renderServerError(ctx)
		return
	}
	locations, err := p.repos.Locations.Published()
	if err != nil {
		utils.Sugar.Errorf("load locations failed: %v", err)
		renderServerError(ctx)
		return
	}

	ctx.HTML(status, "create.html", view(ctx, gin.H{
		"Form":       form,
		"Errors":     errs,
		"Categories": categories,
		"Locations":  locations,
		"Editing":    editing,
	}))
}

// CreateForm renders the blank post form.
func (p *PostController) CreateForm(ctx *gin.Context) {
	p.renderPostForm(ctx, http.StatusOK, postForm{}, nil, false)
}

// Create builds a post from the submitted fields, forces the author to the
// requester, and redirects to the requester's profile.
func (p *PostController) Create(ctx *gin.Context) {
	requesterID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	form := readPostForm(ctx)
	var post models.Post
	if errs := form.validate(&post); errs != nil {
		p.renderPostForm(ctx, http.StatusOK, form, errs, false)
		return
	}

	post.AuthorID = requesterID
	post.IsPublished = true

	if url, err := p.saveImage(ctx); err != nil {
		p.renderPostForm(ctx, http.StatusOK, form, map[string]string{"Image": "Could not store the image."}, false)
		return
	} else if url != "" {
		post.Image = url
	}

	if err := p.repos.Posts.Create(&post); err != nil {
		utils.Sugar.Errorf("create post failed: %v", err)
		renderServerError(ctx)
		return
	}

	username, _ := middleware.Username(ctx)
	redirectToProfile(ctx, username)
}

// EditForm renders the form prefilled with the existing post. A non-author is
// redirected to the post detail page, never shown an error.
func (p *PostController) EditForm(ctx *gin.Context) {
	post, ok := p.loadOwnPost(ctx)
	if !ok {
		return
	}

	form := postForm{
		Title:   post.Title,
		Text:    post.Text,
		PubDate: post.PubDate.Format("2006-01-02T15:04"),
	}
	if post.CategoryID != nil {
		form.CategoryID = strconv.FormatUint(uint64(*post.CategoryID), 10)
	}
	if post.LocationID != nil {
		form.LocationID = strconv.FormatUint(uint64(*post.LocationID), 10)
	}
	p.renderPostForm(ctx, http.StatusOK, form, nil, true)
}

// Edit updates an existing post and redirects to its detail page.
func (p *PostController) Edit(ctx *gin.Context) {
	post, ok := p.loadOwnPost(ctx)
	if !ok {
		return
	}

	form := readPostForm(ctx)
	if errs := form.validate(post); errs != nil {
		p.renderPostForm(ctx, http.StatusOK, form, errs, true)
		return
	}

	if url, err := p.saveImage(ctx); err != nil {
		p.renderPostForm(ctx, http.StatusOK, form, map[string]string{"Image": "Could not store the image."}, true)
		return
	} else if url != "" {
		post.Image = url
	}

	if err := p.repos.Posts.Update(post); err != nil {
		utils.Sugar.Errorf("update post %d failed: %v", post.ID, err)
		renderServerError(ctx)
		return
	}

	redirectToPost(ctx, post.ID)
}

// Delete removes a post and its comments, then redirects to the index.
func (p *PostController) Delete(ctx *gin.Context) {
	post, ok := p.loadOwnPost(ctx)
	if !ok {
		return
	}

	if err := p.repos.Posts.Delete(post); err != nil {
		utils.Sugar.Errorf("delete post %d failed: %v", post.ID, err)
		renderServerError(ctx)
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}

// loadOwnPost resolves the path post for a mutating request. Missing posts get
// 404; an author mismatch silently redirects to the detail page and reports
// not-ok so the caller stops.
func (p *PostController) loadOwnPost(ctx *gin.Context) (*models.Post, bool) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		renderNotFound(ctx)
		return nil, false
	}

	post, err := p.repos.Posts.Get(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(ctx)
			return nil, false
		}
		utils.Sugar.Errorf("load post %d failed: %v", postID, err)
		renderServerError(ctx)
		return nil, false
	}

	requesterID, _ := middleware.UserID(ctx)
	if post.AuthorID != requesterID {
		redirectToPost(ctx, post.ID)
		return nil, false
	}
	return post, true
}

// saveImage stores the optional uploaded image under the media directory and
// returns its public URL, or "" when no file was submitted.
func (p *PostController) saveImage(ctx *gin.Context) (string, error) {
	file, err := ctx.FormFile("image")
	if err != nil {
		return "", nil // no file field or empty upload
	}
	return storePostImage(ctx, file)
}

func storePostImage(ctx *gin.Context, file *multipart.FileHeader) (string, error) {
	cfg := config.Get()
	dir := filepath.Join(cfg.MediaDir, "posts_images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext
	if err := ctx.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "/media/posts_images/" + name, nil
}
