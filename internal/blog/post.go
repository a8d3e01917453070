package blog

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Post publication states.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post represents a blog entry persisted in the database. Posts are authored
// externally; this application only ever reads them.
type Post struct {
	gorm.Model
	Title       string    `gorm:"size:250;not null"`
	Slug        string    `gorm:"size:250;not null;uniqueIndex:idx_posts_slug_published"`
	Body        string    `gorm:"type:text;not null"`
	Status      string    `gorm:"size:10;not null;default:draft;index"`
	PublishedAt time.Time `gorm:"not null;index;uniqueIndex:idx_posts_slug_published"`
	Tags        []Tag     `gorm:"many2many:post_tags"`
	Comments    []Comment
}

// TableName defines the table name for the Post model.
func (Post) TableName() string {
	return "posts"
}

// URLPath returns the canonical detail path for the post.
func (p Post) URLPath() string {
	published := p.PublishedAt.UTC()
	return fmt.Sprintf("/blog/%d/%d/%d/%s", published.Year(), int(published.Month()), published.Day(), p.Slug)
}

// Tag labels a post. Tags are managed by the authoring side and read-only here.
type Tag struct {
	gorm.Model
	Slug string `gorm:"size:100;not null;uniqueIndex:idx_tags_slug"`
	Name string `gorm:"size:100;not null"`
}

// TableName defines the table name for the Tag model.
func (Tag) TableName() string {
	return "tags"
}

// Comment is a reader comment attached to exactly one post at creation time.
// Moderation flips Active externally; only active comments are displayed.
type Comment struct {
	gorm.Model
	PostID uint   `gorm:"not null;index"`
	Name   string `gorm:"size:80;not null"`
	Email  string `gorm:"size:250;not null"`
	Body   string `gorm:"type:text;not null"`
	Active bool   `gorm:"not null;index"`
}

// TableName defines the table name for the Comment model.
func (Comment) TableName() string {
	return "comments"
}
