package blog

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository defines persistence operations for posts, tags and comments.
// Lookups return nil without an error when the row does not exist.
type Repository interface {
	Published(ctx context.Context) ([]Post, error)
	PublishedByTag(ctx context.Context, tagID uint) ([]Post, error)
	PublishedByDateSlug(ctx context.Context, year, month, day int, slug string) (*Post, error)
	PublishedByID(ctx context.Context, id uint) (*Post, error)
	PublishedSharingTags(ctx context.Context, tagIDs []uint, excludeID uint) ([]Post, error)
	TagBySlug(ctx context.Context, slug string) (*Tag, error)
	ActiveComments(ctx context.Context, postID uint) ([]Comment, error)
	CreateComment(ctx context.Context, comment *Comment) error
}

// GormRepository persists blog entities using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

func (r *GormRepository) publishedScope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&Post{}).
		Preload("Tags").
		Where("status = ?", StatusPublished)
}

// Published returns every published post, newest first, with tags preloaded.
func (r *GormRepository) Published(ctx context.Context) ([]Post, error) {
	var posts []Post

	err := r.publishedScope(ctx).
		Order("published_at DESC").
		Find(&posts).Error
	if err != nil {
		r.logError(nil, err, "listing published posts")
		return nil, eris.Wrap(err, "listing published posts")
	}

	return posts, nil
}

// PublishedByTag returns published posts carrying the given tag, newest first.
func (r *GormRepository) PublishedByTag(ctx context.Context, tagID uint) ([]Post, error) {
	var posts []Post

	err := r.publishedScope(ctx).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ?", tagID).
		Order("published_at DESC").
		Find(&posts).Error
	if err != nil {
		r.logError(logrus.Fields{"tag_id": tagID}, err, "listing posts by tag")
		return nil, eris.Wrapf(err, "listing posts for tag %d", tagID)
	}

	return posts, nil
}

// PublishedByDateSlug returns the published post matching the publish date and
// slug, or nil when no such post exists.
func (r *GormRepository) PublishedByDateSlug(ctx context.Context, year, month, day int, slug string) (*Post, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, eris.New("slug is required")
	}

	dayStart := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var post Post
	err := r.publishedScope(ctx).
		Where("slug = ?", trimmed).
		Where("published_at >= ? AND published_at < ?", dayStart, dayEnd).
		First(&post).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"slug": trimmed}, err, "fetching post by date and slug")
		return nil, eris.Wrapf(err, "fetching post by date and slug: %s", trimmed)
	}

	return &post, nil
}

// PublishedByID returns the published post with the given id, or nil when it
// does not exist or is not published.
func (r *GormRepository) PublishedByID(ctx context.Context, id uint) (*Post, error) {
	var post Post

	err := r.publishedScope(ctx).First(&post, "posts.id = ?", id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"post_id": id}, err, "fetching post by id")
		return nil, eris.Wrapf(err, "fetching post by id: %d", id)
	}

	return &post, nil
}

// PublishedSharingTags returns published posts carrying at least one of the
// given tags, excluding the post identified by excludeID.
func (r *GormRepository) PublishedSharingTags(ctx context.Context, tagIDs []uint, excludeID uint) ([]Post, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	var posts []Post
	err := r.publishedScope(ctx).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id IN ?", tagIDs).
		Where("posts.id <> ?", excludeID).
		Distinct("posts.*").
		Find(&posts).Error
	if err != nil {
		r.logError(logrus.Fields{"exclude_id": excludeID}, err, "listing posts sharing tags")
		return nil, eris.Wrap(err, "listing posts sharing tags")
	}

	return posts, nil
}

// TagBySlug returns the tag for the provided slug or nil when not found.
func (r *GormRepository) TagBySlug(ctx context.Context, slug string) (*Tag, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, eris.New("tag slug is required")
	}

	var tag Tag
	err := r.db.WithContext(ctx).First(&tag, "slug = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"slug": trimmed}, err, "fetching tag by slug")
		return nil, eris.Wrapf(err, "fetching tag by slug: %s", trimmed)
	}

	return &tag, nil
}

// ActiveComments returns the active comments for a post in creation order.
func (r *GormRepository) ActiveComments(ctx context.Context, postID uint) ([]Comment, error) {
	var comments []Comment

	err := r.db.WithContext(ctx).
		Where("post_id = ? AND active = ?", postID, true).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		r.logError(logrus.Fields{"post_id": postID}, err, "listing active comments")
		return nil, eris.Wrapf(err, "listing active comments for post %d", postID)
	}

	return comments, nil
}

// CreateComment inserts the comment row. The caller is responsible for having
// set PostID from a trusted source.
func (r *GormRepository) CreateComment(ctx context.Context, comment *Comment) error {
	if comment == nil {
		return eris.New("comment is nil")
	}

	if comment.PostID == 0 {
		return eris.New("comment post id is required")
	}

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.logError(logrus.Fields{"post_id": comment.PostID}, err, "creating comment")
		return eris.Wrapf(err, "creating comment for post %d", comment.PostID)
	}

	return nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
