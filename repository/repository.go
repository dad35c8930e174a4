// Package repository provides per-entity data access over GORM. Controllers
// receive these interfaces instead of touching the database handle directly.
package repository

import (
	"time"

	"gorm.io/gorm"

	"inkwell/models"
)

// PostRepository covers reads and writes for posts, including the visibility
// scoped listings that back the public pages.
type PostRepository interface {
	// Get loads a post with its author, category and location resolved.
	Get(id uint) (*models.Post, error)
	// VisiblePage returns the page of publicly visible posts at the given
	// instant, newest first, each annotated with its comment count.
	VisiblePage(now time.Time, page, pageSize int) ([]models.Post, int64, error)
	// VisibleByCategory is VisiblePage restricted to one category.
	VisibleByCategory(categoryID uint, now time.Time, page, pageSize int) ([]models.Post, int64, error)
	// ByAuthor returns all posts of one author regardless of visibility,
	// newest first, annotated with comment counts.
	ByAuthor(authorID uint, page, pageSize int) ([]models.Post, int64, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	// Delete removes the post and its comments in one transaction.
	Delete(post *models.Post) error
}

// CommentRepository covers comment reads and writes.
type CommentRepository interface {
	Get(id uint) (*models.Comment, error)
	// ForPost returns a post's comments oldest first with authors resolved.
	ForPost(postID uint) ([]models.Comment, error)
	Create(comment *models.Comment) error
	Update(comment *models.Comment) error
	Delete(comment *models.Comment) error
}

// CategoryRepository resolves categories for listings and post forms.
type CategoryRepository interface {
	BySlug(slug string) (*models.Category, error)
	Published() ([]models.Category, error)
	Create(category *models.Category) error
}

// LocationRepository resolves locations for post forms.
type LocationRepository interface {
	Published() ([]models.Location, error)
	Create(location *models.Location) error
}

// UserRepository covers account lookups and profile updates.
type UserRepository interface {
	ByID(id uint) (*models.User, error)
	ByUsername(username string) (*models.User, error)
	ByProvider(provider, providerID string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	// Delete removes the user together with their posts and comments.
	Delete(user *models.User) error
}

// Repositories bundles the per-entity repositories for injection.
type Repositories struct {
	Posts      PostRepository
	Comments   CommentRepository
	Categories CategoryRepository
	Locations  LocationRepository
	Users      UserRepository
}

// New builds GORM-backed repositories on the given connection.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Posts:      &postRepository{db: db},
		Comments:   &commentRepository{db: db},
		Categories: &categoryRepository{db: db},
		Locations:  &locationRepository{db: db},
		Users:      &userRepository{db: db},
	}
}
