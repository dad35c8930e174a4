package models

import "time"

// Post is a publication written by a user. PubDate may be in the future for
// scheduled publication; such posts stay invisible to non-authors until the
// date elapses. Category and Location references are nulled when the target
// row is deleted, the author reference cascades.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:256;not null" json:"title"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time  `gorm:"index;not null" json:"pub_date"`
	IsPublished bool       `gorm:"not null" json:"is_published"`
	Image       string     `gorm:"size:512" json:"image"`
	AuthorID    uint       `gorm:"index;not null" json:"author_id"`
	CategoryID  *uint      `gorm:"index" json:"category_id"`
	LocationID  *uint      `json:"location_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Author      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Category    *Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Location    *Location  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"location,omitempty"`
	Comments    []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`

	// CommentCount is annotated by list queries, never stored.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`
}
