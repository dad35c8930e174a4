package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/middleware"
	"inkwell/models"
	"inkwell/repository"
	"inkwell/utils"
)

// CommentController serves comment creation, editing and deletion.
type CommentController struct {
	repos *repository.Repositories
}

// NewCommentController creates a CommentController instance.
func NewCommentController(repos *repository.Repositories) *CommentController {
	return &CommentController{repos: repos}
}

type commentForm struct {
	Text string
}

// Add creates a comment on the path post. Validation failure and success both
// redirect to the post detail page.
func (c *CommentController) Add(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		renderNotFound(ctx)
		return
	}

	post, err := c.repos.Posts.Get(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(ctx)
			return
		}
		utils.Sugar.Errorf("load post %d failed: %v", postID, err)
		renderServerError(ctx)
		return
	}

	requesterID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	text := utils.Sanitize(ctx.PostForm("text"))
	if strings.TrimSpace(text) != "" {
		comment := models.Comment{
			PostID:   post.ID,
			AuthorID: requesterID,
			Text:     text,
		}
		if err := c.repos.Comments.Create(&comment); err != nil {
			utils.Sugar.Errorf("create comment on post %d failed: %v", post.ID, err)
			renderServerError(ctx)
			return
		}
	}

	redirectToPost(ctx, post.ID)
}

// EditForm renders the comment edit page for its author.
func (c *CommentController) EditForm(ctx *gin.Context) {
	comment, postID, ok := c.loadOwnComment(ctx)
	if !ok {
		return
	}

	ctx.HTML(http.StatusOK, "comment.html", view(ctx, gin.H{
		"Comment": comment,
		"PostID":  postID,
		"Form":    commentForm{Text: comment.Text},
	}))
}

// Edit updates the comment text only and redirects to the post detail page.
func (c *CommentController) Edit(ctx *gin.Context) {
	comment, postID, ok := c.loadOwnComment(ctx)
	if !ok {
		return
	}

	text := utils.Sanitize(ctx.PostForm("text"))
	if strings.TrimSpace(text) == "" {
		ctx.HTML(http.StatusOK, "comment.html", view(ctx, gin.H{
			"Comment": comment,
			"PostID":  postID,
			"Form":    commentForm{Text: ctx.PostForm("text")},
			"Errors":  map[string]string{"Text": "Text is required."},
		}))
		return
	}

	comment.Text = text
	if err := c.repos.Comments.Update(comment); err != nil {
		utils.Sugar.Errorf("update comment %d failed: %v", comment.ID, err)
		renderServerError(ctx)
		return
	}

	redirectToPost(ctx, postID)
}

// Delete removes the comment and redirects to the post detail page.
func (c *CommentController) Delete(ctx *gin.Context) {
	comment, postID, ok := c.loadOwnComment(ctx)
	if !ok {
		return
	}

	if err := c.repos.Comments.Delete(comment); err != nil {
		utils.Sugar.Errorf("delete comment %d failed: %v", comment.ID, err)
		renderServerError(ctx)
		return
	}

	redirectToPost(ctx, postID)
}

// loadOwnComment resolves the path comment for a mutating request. Missing
// comments get 404; an author mismatch silently redirects to the post detail
// page and reports not-ok so the caller stops.
func (c *CommentController) loadOwnComment(ctx *gin.Context) (*models.Comment, uint, bool) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		renderNotFound(ctx)
		return nil, 0, false
	}
	commentID, ok := parseID(ctx, "cid")
	if !ok {
		renderNotFound(ctx)
		return nil, 0, false
	}

	comment, err := c.repos.Comments.Get(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(ctx)
			return nil, 0, false
		}
		utils.Sugar.Errorf("load comment %d failed: %v", commentID, err)
		renderServerError(ctx)
		return nil, 0, false
	}
	if comment.PostID != postID {
		renderNotFound(ctx)
		return nil, 0, false
	}

	requesterID, _ := middleware.UserID(ctx)
	if comment.AuthorID != requesterID {
		redirectToPost(ctx, postID)
		return nil, 0, false
	}
	return comment, postID, true
}
