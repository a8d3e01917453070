package blog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"pressroom/app/internal/mail"
)

// Service defines the higher-level blog operations built on top of the
// repository and the mail sender.
type Service interface {
	ListPosts(ctx context.Context, tagSlug, pageToken string) (*PostList, error)
	GetPost(ctx context.Context, year, month, day int, slug string) (*PostDetail, error)
	PostByID(ctx context.Context, id uint) (*Post, error)
	SubmitComment(ctx context.Context, year, month, day int, slug string, form CommentForm) (*PostDetail, error)
	SharePost(ctx context.Context, postID uint, form ShareForm) (*ShareResult, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	SendContact(ctx context.Context, form ContactForm) (FieldErrors, error)
}

// ErrNotFound indicates the requested post or tag does not exist.
var ErrNotFound = eris.New("resource not found")

const maxSimilarPosts = 4

// PostList is the context for a paginated post listing, optionally restricted
// to a tag.
type PostList struct {
	Page Page[Post]
	Tag  *Tag
}

// PostDetail is the context for a single post view: the post, its active
// comments, similar posts, and the state of the comment form.
type PostDetail struct {
	Post       Post
	Comments   []Comment
	Similar    []Post
	NewComment *Comment
	Form       CommentForm
	FormErrors FieldErrors
}

// ShareResult is the context for the share-by-email view.
type ShareResult struct {
	Post       Post
	Sent       bool
	Form       ShareForm
	FormErrors FieldErrors
}

// SearchResult pairs a post with its trigram similarity to the query.
type SearchResult struct {
	Post       Post
	Similarity float64
}

type service struct {
	repo      Repository
	mailer    mail.Sender
	baseURL   string
	contactTo string
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// ServiceOptions wires the blog service dependencies.
type ServiceOptions struct {
	Repository Repository
	Mailer     mail.Sender
	BaseURL    string
	ContactTo  string
	Logger     *logrus.Logger
	SentryHub  *sentry.Hub
}

// NewService wires the blog service with its dependencies.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Repository == nil {
		return nil, eris.New("blog repository is required")
	}
	if opts.Mailer == nil {
		return nil, eris.New("mail sender is required")
	}
	if opts.BaseURL == "" {
		return nil, eris.New("base url is required")
	}

	return &service{
		repo:      opts.Repository,
		mailer:    opts.Mailer,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		contactTo: opts.ContactTo,
		logger:    opts.Logger,
		sentryHub: opts.SentryHub,
	}, nil
}

// ListPosts returns the requested window of published posts, filtered by tag
// when a slug is supplied. Malformed or out-of-range page tokens never fail;
// they resolve to the nearest valid page.
func (s *service) ListPosts(ctx context.Context, tagSlug, pageToken string) (*PostList, error) {
	var (
		tag   *Tag
		posts []Post
		err   error
	)

	trimmedSlug := strings.TrimSpace(tagSlug)
	if trimmedSlug != "" {
		tag, err = s.repo.TagBySlug(ctx, trimmedSlug)
		if err != nil {
			s.recordError(logrus.Fields{"tag_slug": trimmedSlug}, err, "looking up tag")
			return nil, eris.Wrapf(err, "looking up tag: %s", trimmedSlug)
		}
		if tag == nil {
			return nil, eris.Wrapf(ErrNotFound, "tag: %s", trimmedSlug)
		}

		posts, err = s.repo.PublishedByTag(ctx, tag.ID)
		if err != nil {
			s.recordError(logrus.Fields{"tag_slug": trimmedSlug}, err, "listing posts by tag")
			return nil, eris.Wrapf(err, "listing posts for tag: %s", trimmedSlug)
		}
	} else {
		posts, err = s.repo.Published(ctx)
		if err != nil {
			s.recordError(nil, err, "listing published posts")
			return nil, eris.Wrap(err, "listing published posts")
		}
	}

	return &PostList{
		Page: Paginate(posts, PostsPerPage, pageToken),
		Tag:  tag,
	}, nil
}

// GetPost loads a published post by publish date and slug along with its
// active comments, similar posts and a fresh comment form.
func (s *service) GetPost(ctx context.Context, year, month, day int, slug string) (*PostDetail, error) {
	post, err := s.lookupPost(ctx, year, month, day, slug)
	if err != nil {
		return nil, err
	}

	detail, err := s.buildDetail(ctx, post)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// PostByID returns the published post with the given id, or ErrNotFound.
func (s *service) PostByID(ctx context.Context, id uint) (*Post, error) {
	post, err := s.repo.PublishedByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"post_id": id}, err, "fetching post by id")
		return nil, eris.Wrapf(err, "fetching post %d", id)
	}
	if post == nil {
		return nil, eris.Wrapf(ErrNotFound, "post: %d", id)
	}

	return post, nil
}

// SubmitComment validates the comment form against the post identified by the
// request path. On validation failure the detail context is returned with the
// submitted values and per-field messages and nothing is persisted. On success
// the comment is attached to the resolved post and stored; the post reference
// always comes from the path, never from the submitted payload.
func (s *service) SubmitComment(ctx context.Context, year, month, day int, slug string, form CommentForm) (*PostDetail, error) {
	post, err := s.lookupPost(ctx, year, month, day, slug)
	if err != nil {
		return nil, err
	}

	errs := form.Validate()
	if !errs.Valid() {
		detail, buildErr := s.buildDetail(ctx, post)
		if buildErr != nil {
			return nil, buildErr
		}
		detail.Form = form
		detail.FormErrors = errs
		return detail, nil
	}

	comment := &Comment{
		PostID: post.ID,
		Name:   strings.TrimSpace(form.Name),
		Email:  strings.TrimSpace(form.Email),
		Body:   strings.TrimSpace(form.Body),
		Active: true,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		s.recordError(logrus.Fields{"post_id": post.ID}, err, "persisting comment")
		return nil, eris.Wrapf(err, "persisting comment for post %d", post.ID)
	}

	detail, err := s.buildDetail(ctx, post)
	if err != nil {
		return nil, err
	}
	detail.NewComment = comment

	return detail, nil
}

// SharePost validates the share form and dispatches the recommendation email.
// Transport failures are swallowed: they are logged and reported, but the
// result still says sent. Only validation failures keep Sent false.
func (s *service) SharePost(ctx context.Context, postID uint, form ShareForm) (*ShareResult, error) {
	post, err := s.repo.PublishedByID(ctx, postID)
	if err != nil {
		s.recordError(logrus.Fields{"post_id": postID}, err, "fetching post for share")
		return nil, eris.Wrapf(err, "fetching post %d for share", postID)
	}
	if post == nil {
		return nil, eris.Wrapf(ErrNotFound, "post: %d", postID)
	}

	errs := form.Validate()
	if !errs.Valid() {
		return &ShareResult{Post: *post, Sent: false, Form: form, FormErrors: errs}, nil
	}

	name := strings.TrimSpace(form.Name)
	from := strings.TrimSpace(form.Email)
	postURL := s.baseURL + post.URLPath()

	msg := mail.Message{
		To:      strings.TrimSpace(form.To),
		Subject: fmt.Sprintf("%s (%s) recommends you reading %q", name, from, post.Title),
		Body:    fmt.Sprintf("Read %q at %s\n\n%s's comments: %s", post.Title, postURL, name, form.Comments),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		// Dispatch failure is non-fatal; the share flow reports success
		// regardless of transport outcome.
		s.recordError(logrus.Fields{"post_id": postID}, err, "share mail dispatch failed")
	}

	return &ShareResult{Post: *post, Sent: true, Form: form}, nil
}

// Search ranks published posts by trigram similarity between the query and the
// post title. Titles scoring at or below the threshold are dropped; results
// order by descending similarity with ascending id breaking ties. An empty
// query returns no results without touching the store. Bodies are never scored.
func (s *service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}

	posts, err := s.repo.Published(ctx)
	if err != nil {
		s.recordError(logrus.Fields{"query": trimmed}, err, "listing posts for search")
		return nil, eris.Wrap(err, "listing posts for search")
	}

	results := make([]SearchResult, 0, len(posts))
	for _, post := range posts {
		similarity := TrigramSimilarity(trimmed, post.Title)
		if similarity > SimilarityThreshold {
			results = append(results, SearchResult{Post: post, Similarity: similarity})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Post.ID < results[j].Post.ID
	})

	return results, nil
}

// SendContact validates the contact form and dispatches it to the configured
// recipient. Unlike the share flow, a transport failure here is fatal for the
// request.
func (s *service) SendContact(ctx context.Context, form ContactForm) (FieldErrors, error) {
	errs := form.Validate()
	if !errs.Valid() {
		return errs, nil
	}

	if s.contactTo == "" {
		err := eris.New("contact recipient is not configured")
		s.recordError(nil, err, "sending contact message")
		return nil, err
	}

	name := strings.TrimSpace(form.Name)
	from := strings.TrimSpace(form.Email)

	msg := mail.Message{
		To:      s.contactTo,
		Subject: fmt.Sprintf("New contact message from %s", name),
		Body:    fmt.Sprintf("From: %s (%s)\n\n%s", name, from, strings.TrimSpace(form.Message)),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.recordError(logrus.Fields{"from": from}, err, "contact mail dispatch failed")
		return nil, eris.Wrap(err, "dispatching contact mail")
	}

	return nil, nil
}

func (s *service) lookupPost(ctx context.Context, year, month, day int, slug string) (*Post, error) {
	trimmedSlug := strings.TrimSpace(slug)
	if trimmedSlug == "" {
		return nil, eris.New("slug is required")
	}

	post, err := s.repo.PublishedByDateSlug(ctx, year, month, day, trimmedSlug)
	if err != nil {
		s.recordError(logrus.Fields{"slug": trimmedSlug}, err, "fetching post")
		return nil, eris.Wrapf(err, "fetching post: %s", trimmedSlug)
	}
	if post == nil {
		return nil, eris.Wrapf(ErrNotFound, "post: %s", trimmedSlug)
	}

	return post, nil
}

func (s *service) buildDetail(ctx context.Context, post *Post) (*PostDetail, error) {
	comments, err := s.repo.ActiveComments(ctx, post.ID)
	if err != nil {
		s.recordError(logrus.Fields{"post_id": post.ID}, err, "listing comments")
		return nil, eris.Wrapf(err, "listing comments for post %d", post.ID)
	}

	similar, err := s.similarPosts(ctx, post)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:     *post,
		Comments: comments,
		Similar:  similar,
	}, nil
}

// similarPosts ranks published posts sharing at least one tag with the subject
// by shared-tag count, most recent publish first within equal counts, capped
// at maxSimilarPosts. The subject itself is always excluded.
func (s *service) similarPosts(ctx context.Context, post *Post) ([]Post, error) {
	if len(post.Tags) == 0 {
		return nil, nil
	}

	tagIDs := make([]uint, 0, len(post.Tags))
	postTagSet := make(map[uint]struct{}, len(post.Tags))
	for _, tag := range post.Tags {
		tagIDs = append(tagIDs, tag.ID)
		postTagSet[tag.ID] = struct{}{}
	}

	candidates, err := s.repo.PublishedSharingTags(ctx, tagIDs, post.ID)
	if err != nil {
		s.recordError(logrus.Fields{"post_id": post.ID}, err, "listing similar posts")
		return nil, eris.Wrapf(err, "listing similar posts for post %d", post.ID)
	}

	sharedCount := func(candidate Post) int {
		count := 0
		for _, tag := range candidate.Tags {
			if _, ok := postTagSet[tag.ID]; ok {
				count++
			}
		}
		return count
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := sharedCount(candidates[i]), sharedCount(candidates[j])
		if ci != cj {
			return ci > cj
		}
		if !candidates[i].PublishedAt.Equal(candidates[j].PublishedAt) {
			return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
		}
		return candidates[i].ID > candidates[j].ID
	})

	if len(candidates) > maxSimilarPosts {
		candidates = candidates[:maxSimilarPosts]
	}

	return candidates, nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
