package models

import (
	"sort"
	"time"
)

// PostVisible reports whether a post may be shown to a viewer who is not its
// author. Three conjunctive checks: the publication date has passed, the post
// is published, and its category (when it has one) is published. A post
// without a category is visible.
func PostVisible(p *Post, now time.Time) bool {
	if p.PubDate.After(now) {
		return false
	}
	if !p.IsPublished {
		return false
	}
	if p.Category != nil && !p.Category.IsPublished {
		return false
	}
	return true
}

// FilterVisible returns the subset of posts visible at the given instant,
// ordered newest first by PubDate. The input slice is not mutated.
func FilterVisible(posts []Post, now time.Time) []Post {
	visible := make([]Post, 0, len(posts))
	for i := range posts {
		if PostVisible(&posts[i], now) {
			visible = append(visible, posts[i])
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].PubDate.After(visible[j].PubDate)
	})
	return visible
}
