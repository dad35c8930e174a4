package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inkwell/models"
)

func newTestRepos(t *testing.T) (*Repositories, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db), db
}

func seedUser(t *testing.T, repos *Repositories, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	if err := repos.Users.Create(user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedCategory(t *testing.T, repos *Repositories, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{Title: slug, Slug: slug, IsPublished: published}
	if err := repos.Categories.Create(category); err != nil {
		t.Fatalf("seed category %s: %v", slug, err)
	}
	return category
}

func seedPost(t *testing.T, repos *Repositories, authorID uint, title string, pubDate time.Time, published bool, categoryID *uint) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       title,
		Text:        "text of " + title,
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    authorID,
		CategoryID:  categoryID,
	}
	if err := repos.Posts.Create(post); err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}
	return post
}

func titles(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestVisiblePageFiltersHiddenPosts(t *testing.T) {
	repos, _ := newTestRepos(t)
	now := time.Now()

	author := seedUser(t, repos, "writer")
	visible := seedCategory(t, repos, "visible", true)
	hidden := seedCategory(t, repos, "hidden", false)

	seedPost(t, repos, author.ID, "plain", now.Add(-4*time.Hour), true, &visible.ID)
	seedPost(t, repos, author.ID, "no category", now.Add(-3*time.Hour), true, nil)
	seedPost(t, repos, author.ID, "scheduled", now.Add(time.Hour), true, &visible.ID)
	seedPost(t, repos, author.ID, "withdrawn", now.Add(-2*time.Hour), false, &visible.ID)
	seedPost(t, repos, author.ID, "hidden category", now.Add(-time.Hour), true, &hidden.ID)

	posts, total, err := repos.Posts.VisiblePage(now, 1, 10)
	if err != nil {
		t.Fatalf("VisiblePage: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	got := titles(posts)
	want := []string{"no category", "plain"}
	if len(got) != len(want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestVisiblePageBoundaryPubDate(t *testing.T) {
	repos, _ := newTestRepos(t)
	now := time.Now()

	author := seedUser(t, repos, "writer")
	seedPost(t, repos, author.ID, "right now", now, true, nil)

	_, total, err := repos.Posts.VisiblePage(now, 1, 10)
	if err != nil {
		t.Fatalf("VisiblePage: %v", err)
	}
	if total != 1 {
		t.Fatalf("post dated exactly now should be visible, total = %d", total)
	}
}

func TestVisiblePageAnnotatesCommentCounts(t *testing.T) {
	repos, _ := newTestRepos(t)
	now := time.Now()

	author := seedUser(t, repos, "writer")
	reader := seedUser(t, repos, "reader")
	post := seedPost(t, repos, author.ID, "commented", now.Add(-time.Hour), true, nil)

	for i := 0; i < 3; i++ {
		if err := repos.Comments.Create(&models.Comment{Text: "hi", PostID: post.ID, AuthorID: reader.ID}); err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}

	posts, _, err := repos.Posts.VisiblePage(now, 1, 10)
	if err != nil {
		t.Fatalf("VisiblePage: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	if posts[0].CommentCount != 3 {
		t.Errorf("CommentCount = %d, want 3", posts[0].CommentCount)
	}
}

func TestVisiblePagePagination(t *testing.T) {
	repos, _ := newTestRepos(t)
	now := time.Now()
	author := seedUser(t, repos, "writer")

	for i := 0; i < 12; i++ {
		seedPost(t, repos, author.ID, "post", now.Add(-time.Duration(i+1)*time.Minute), true, nil)
	}

	first, total, err := repos.Posts.VisiblePage(now, 1, 10)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if total != 12 || len(first) != 10 {
		t.Fatalf("page 1: total = %d len = %d, want 12 and 10", total, len(first))
	}

	second, _, err := repos.Posts.VisiblePage(now, 2, 10)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("page 2: len = %d, want 2", len(second))
	}
}

func TestVisibleByCategoryExcludesOtherCategories(t *testing.T) {
	repos, _ := newTestRepos(t)
	now := time.Now()

	author := seedUser(t, repos, "writer")
	travel := seedCategory(t, repos, "travel", true)
	food := seedCategory(t, repos, "food", true)

	seedPost(t, repos, author.ID, "trip", now.Add(-2*time.Hour), true, &travel.ID)
	seedPost(t, repos, author.ID, "dinner", now.Add(-time.Hour), true, &food.ID)
	seedPost(t, repos, author.ID, "draft trip", now.Add(-time.Hour), false, &travel.ID)

	posts, total, err := repos.Posts.VisibleByCategory(travel.ID, now, 1, 10)
	if err != nil {
		t.Fatalf("VisibleByCategory: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Title != "trip" {
		t.Fatalf("got %v (total %d), want only %q", titles(posts), total, "trip")
	}
}

func TestByAuthorIncludesHiddenAndScheduledPosts(t *testing.T) {
	repos, _ := newTestRepos(t)
	now := time.Now()

	author := seedUser(t, repos, "writer")
	other := seedUser(t, repos, "other")
	hidden := seedCategory(t, repos, "hidden", false)

	seedPost(t, repos, author.ID, "scheduled", now.Add(48*time.Hour), true, nil)
	seedPost(t, repos, author.ID, "withdrawn", now.Add(-time.Hour), false, nil)
	seedPost(t, repos, author.ID, "hidden category", now.Add(-2*time.Hour), true, &hidden.ID)
	seedPost(t, repos, other.ID, "someone else", now.Add(-time.Hour), true, nil)

	posts, total, err := repos.Posts.ByAuthor(author.ID, 1, 10)
	if err != nil {
		t.Fatalf("ByAuthor: %v", err)
	}
	if total != 3 || len(posts) != 3 {
		t.Fatalf("total = %d len = %d, want 3 and 3", total, len(posts))
	}
	if posts[0].Title != "scheduled" {
		t.Errorf("first title = %q, want the newest post first", posts[0].Title)
	}
}

func TestPostDeleteRemovesItsComments(t *testing.T) {
	repos, db := newTestRepos(t)
	now := time.Now()

	author := seedUser(t, repos, "writer")
	reader := seedUser(t, repos, "reader")
	doomed := seedPost(t, repos, author.ID, "doomed", now.Add(-time.Hour), true, nil)
	kept := seedPost(t, repos, author.ID, "kept", now.Add(-2*time.Hour), true, nil)

	if err := repos.Comments.Create(&models.Comment{Text: "on doomed", PostID: doomed.ID, AuthorID: reader.ID}); err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	if err := repos.Comments.Create(&models.Comment{Text: "on kept", PostID: kept.ID, AuthorID: reader.ID}); err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	if err := repos.Posts.Delete(doomed); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repos.Posts.Get(doomed.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("deleted post still loads, err = %v", err)
	}

	var count int64
	if err := db.Model(&models.Comment{}).Count(&count).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if count != 1 {
		t.Errorf("comment count after delete = %d, want 1", count)
	}
}

func TestUserDeleteCascadesToPostsAndComments(t *testing.T) {
	repos, db := newTestRepos(t)
	now := time.Now()

	leaving := seedUser(t, repos, "leaving")
	staying := seedUser(t, repos, "staying")

	ownPost := seedPost(t, repos, leaving.ID, "own", now.Add(-time.Hour), true, nil)
	otherPost := seedPost(t, repos, staying.ID, "other", now.Add(-time.Hour), true, nil)

	// leaving commented elsewhere, staying commented under leaving's post
	if err := repos.Comments.Create(&models.Comment{Text: "bye", PostID: otherPost.ID, AuthorID: leaving.ID}); err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	if err := repos.Comments.Create(&models.Comment{Text: "nice", PostID: ownPost.ID, AuthorID: staying.ID}); err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	if err := repos.Users.Delete(leaving); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repos.Users.ByUsername("leaving"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("deleted user still loads, err = %v", err)
	}
	var postCount, commentCount int64
	if err := db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if err := db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if postCount != 1 {
		t.Errorf("post count = %d, want only the other user's post", postCount)
	}
	if commentCount != 0 {
		t.Errorf("comment count = %d, want 0", commentCount)
	}
}

func TestCommentsForPostOrderedOldestFirst(t *testing.T) {
	repos, db := newTestRepos(t)
	now := time.Now()

	author := seedUser(t, repos, "writer")
	post := seedPost(t, repos, author.ID, "discussed", now.Add(-time.Hour), true, nil)

	older := models.Comment{Text: "first", PostID: post.ID, AuthorID: author.ID, CreatedAt: now.Add(-30 * time.Minute)}
	newer := models.Comment{Text: "second", PostID: post.ID, AuthorID: author.ID, CreatedAt: now.Add(-10 * time.Minute)}
	// insert newest first to prove ordering comes from the query
	if err := db.Create(&newer).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	if err := db.Create(&older).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	comments, err := repos.Comments.ForPost(post.ID)
	if err != nil {
		t.Fatalf("ForPost: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len = %d, want 2", len(comments))
	}
	if comments[0].Text != "first" || comments[1].Text != "second" {
		t.Errorf("order = [%q, %q], want oldest first", comments[0].Text, comments[1].Text)
	}
	if comments[0].Author.Username != "writer" {
		t.Errorf("comment author not resolved, got %q", comments[0].Author.Username)
	}
}

func TestCategoryBySlugAndPublishedListing(t *testing.T) {
	repos, _ := newTestRepos(t)

	seedCategory(t, repos, "travel", true)
	seedCategory(t, repos, "secret", false)

	category, err := repos.Categories.BySlug("travel")
	if err != nil {
		t.Fatalf("BySlug: %v", err)
	}
	if category.Slug != "travel" {
		t.Errorf("slug = %q, want travel", category.Slug)
	}

	if _, err := repos.Categories.BySlug("missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("missing slug err = %v, want record not found", err)
	}

	published, err := repos.Categories.Published()
	if err != nil {
		t.Fatalf("Published: %v", err)
	}
	if len(published) != 1 || published[0].Slug != "travel" {
		t.Errorf("published = %v, want only travel", published)
	}
}

func TestUserByProvider(t *testing.T) {
	repos, _ := newTestRepos(t)

	user := &models.User{Username: "octocat", Provider: "github", ProviderID: "42"}
	if err := repos.Users.Create(user); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := repos.Users.ByProvider("github", "42")
	if err != nil {
		t.Fatalf("ByProvider: %v", err)
	}
	if found.Username != "octocat" {
		t.Errorf("username = %q, want octocat", found.Username)
	}

	if _, err := repos.Users.ByProvider("google", "42"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("wrong provider err = %v, want record not found", err)
	}
}
