package repository

import (
	"time"

	"gorm.io/gorm"

	"inkwell/models"
)

const commentCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

type postRepository struct {
	db *gorm.DB
}

func (r *postRepository) Get(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// visibleScope applies the three visibility conjuncts in SQL. A post without a
// category passes the category check.
func visibleScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("LEFT JOIN categories ON categories.id = posts.category_id").
			Where("posts.pub_date <= ?", now).
			Where("posts.is_published = ?", true).
			Where("posts.category_id IS NULL OR categories.is_published = ?", true)
	}
}

func (r *postRepository) VisiblePage(now time.Time, page, pageSize int) ([]models.Post, int64, error) {
	q := r.db.Model(&models.Post{}).Scopes(visibleScope(now))
	return r.page(q, page, pageSize)
}

func (r *postRepository) VisibleByCategory(categoryID uint, now time.Time, page, pageSize int) ([]models.Post, int64, error) {
	q := r.db.Model(&models.Post{}).Scopes(visibleScope(now)).Where("posts.category_id = ?", categoryID)
	return r.page(q, page, pageSize)
}

func (r *postRepository) ByAuthor(authorID uint, page, pageSize int) ([]models.Post, int64, error) {
	q := r.db.Model(&models.Post{}).Where("posts.author_id = ?", authorID)
	return r.page(q, page, pageSize)
}

// page counts the scoped query, then fetches one page ordered newest first with
// relations and the comment count annotation.
func (r *postRepository) page(q *gorm.DB, page, pageSize int) ([]models.Post, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := q.
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *postRepository) Delete(post *models.Post) error {
	// Comments go with their post; the store has no FK enforcement here.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}
