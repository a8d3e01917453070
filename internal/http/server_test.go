package http

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pressroom/app/internal/blog"
	"pressroom/app/internal/db"
	"pressroom/app/internal/mail"
)

func TestListRouteRendersPosts(t *testing.T) {
	t.Parallel()

	post := samplePost(1, "Hello Go", "hello-go")
	service := &stubBlogService{
		list: &blog.PostList{Page: blog.Paginate([]blog.Post{post}, blog.PostsPerPage, "")},
	}
	srv := newTestServer(t, service)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/blog", nil))

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != htmlContentType {
		t.Fatalf("expected content type %q, got %q", htmlContentType, ct)
	}
	if !strings.Contains(rec.Body.String(), "Hello Go") {
		t.Fatalf("expected post title in body, got %q", rec.Body.String())
	}
}

func TestListRoutePassesPageToken(t *testing.T) {
	t.Parallel()

	service := &stubBlogService{
		list: &blog.PostList{Page: blog.Paginate([]blog.Post{}, blog.PostsPerPage, "")},
	}
	srv := newTestServer(t, service)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/blog?page=abc", nil))

	if rec.Code != 200 {
		t.Fatalf("expected status 200 for junk page token, got %d", rec.Code)
	}
	if service.listPageToken != "abc" {
		t.Fatalf("expected page token forwarded, got %q", service.listPageToken)
	}
}

func TestTagRouteReturns404ForUnknownTag(t *testing.T) {
	t.Parallel()

	service := &stubBlogService{listErr: eris.Wrap(blog.ErrNotFound, "tag: nope")}
	srv := newTestServer(t, service)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/blog/tag/nope", nil))

	if rec.Code != 404 {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if service.listTagSlug != "nope" {
		t.Fatalf("expected tag slug forwarded, got %q", service.listTagSlug)
	}
}

func TestDetailRouteRendersCommentsAndForm(t *testing.T) {
	t.Parallel()

	post := samplePost(7, "Deep Dive", "deep-dive")
	service := &stubBlogService{
		detail: &blog.PostDetail{
			Post:     post,
			Comments: []blog.Comment{{PostID: post.ID, Name: "Ada", Email: "ada@example.com", Body: "Nice one", Active: true}},
			Similar:  []blog.Post{samplePost(8, "Related", "related")},
		},
	}
	srv := newTestServer(t, service)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/blog/2024/6/1/deep-dive", nil))

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, fragment := range []string{"Deep Dive", "Nice one", "Related", "Add a comment"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body, got %q", fragment, body)
		}
	}
}

func TestDetailRouteReturns404ForMissingPost(t *testing.T) {
	t.Parallel()

	service := &stubBlogService{detailErr: eris.Wrap(blog.ErrNotFound, "post: gone")}
	srv := newTestServer(t, service)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/blog/2024/6/1/gone", nil))

	if rec.Code != 404 {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestSubmitCommentRouteParsesFormBody(t *testing.T) {
	t.Parallel()

	post := samplePost(7, "Deep Dive", "deep-dive")
	newComment := blog.Comment{PostID: post.ID, Name: "Ada"}
	service := &stubBlogService{
		detail: &blog.PostDetail{Post: post, NewComment: &newComment},
	}
	srv := newTestServer(t, service)

	form := strings.NewReader("name=Ada&email=ada%40example.com&body=Well+said")
	req := httptest.NewRequest("POST", "/blog/2024/6/1/deep-dive", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if service.submittedForm.Name != "Ada" || service.submittedForm.Email != "ada@example.com" || service.submittedForm.Body != "Well said" {
		t.Fatalf("expected parsed form values, got %#v", service.submittedForm)
	}

	if !strings.Contains(rec.Body.String(), "Your comment has been added.") {
		t.Fatalf("expected confirmation in body, got %q", rec.Body.String())
	}
}

func TestSubmitCommentRouteRerendersValidationErrors(t *testing.T) {
	t.Parallel()

	post := samplePost(7, "Deep Dive", "deep-dive")
	service := &stubBlogService{
		detail: &blog.PostDetail{
			Post:       post,
			Form:       blog.CommentForm{Name: "Ada", Email: "bad"},
			FormErrors: blog.FieldErrors{"email": "Please enter a valid email address."},
		},
	}
	srv := newTestServer(t, service)

	form := strings.NewReader("name=Ada&email=bad")
	req := httptest.NewRequest("POST", "/blog/2024/6/1/deep-dive", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Please enter a valid email address.") {
		t.Fatalf("expected field error in body, got %q", body)
	}
	if !strings.Contains(body, "value=\"Ada\"") {
		t.Fatalf("expected prefilled form value, got %q", body)
	}
}

func TestShareFormRouteRendersForm(t *testing.T) {
	t.Parallel()

	post := samplePost(3, "Worth Sharing", "worth-sharing")
	service := &stubBlogService{post: &post}
	srv := newTestServer(t, service)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/blog/share/3", nil))

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Worth Sharing") {
		t.Fatalf("expected post title in body, got %q", rec.Body.String())
	}
	if service.postByIDArg != 3 {
		t.Fatalf("expected post id 3 forwarded, got %d", service.postByIDArg)
	}
}

func TestShareRouteRendersConfirmationWhenSent(t *testing.T) {
	t.Parallel()

	post := samplePost(3, "Worth Sharing", "worth-sharing")
	service := &stubBlogService{
		share: &blog.ShareResult{
			Post: post,
			Sent: true,
			Form: blog.ShareForm{Name: "Ada", Email: "ada@example.com", To: "friend@example.com"},
		},
	}
	srv := newTestServer(t, service)

	form := strings.NewReader("name=Ada&email=ada%40example.com&to=friend%40example.com")
	req := httptest.NewRequest("POST", "/blog/share/3", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "successfully sent") {
		t.Fatalf("expected confirmation in body, got %q", rec.Body.String())
	}
	if service.sharedForm.To != "friend@example.com" {
		t.Fatalf("expected parsed recipient, got %q", service.sharedForm.To)
	}
}

func TestShareRouteRerendersInvalidSubmission(t *testing.T) {
	t.Parallel()

	post := samplePost(3, "Worth Sharing", "worth-sharing")
	service := &stubBlogService{
		share: &blog.ShareResult{
			Post:       post,
			Sent:       false,
			Form:       blog.ShareForm{Name: "Ada", To: "junk"},
			FormErrors: blog.FieldErrors{"to": "Please enter a valid email address."},
		},
	}
	srv := newTestServer(t, service)

	form := strings.NewReader("name=Ada&to=junk")
	req := httptest.NewRequest("POST", "/blog/share/3", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if strings.Contains(body, "successfully sent") {
		t.Fatalf("unexpected confirmation for invalid submission")
	}
	if !strings.Contains(body, "Please enter a valid email address.") {
		t.Fatalf("expected field error in body, got %q", body)
	}
}

func TestSearchRouteRendersRankedResults(t *testing.T) {
	t.Parallel()

	service := &stubBlogService{
		results: []blog.SearchResult{
			{Post: samplePost(1, "Go Concurrency", "go-concurrency"), Similarity: 1.0},
		},
	}
	srv := newTestServer(t, service)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/search?find_posts=go+concurrency", nil))

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Go Concurrency") {
		t.Fatalf("expected result title in body, got %q", rec.Body.String())
	}
	if service.searchQuery != "go concurrency" {
		t.Fatalf("expected query forwarded, got %q", service.searchQuery)
	}
}

func TestSearchRouteWithoutQuerySkipsService(t *testing.T) {
	t.Parallel()

	service := &stubBlogService{searchErr: eris.New("should not be called")}
	srv := newTestServer(t, service)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/search", nil))

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if service.searchCalls != 0 {
		t.Fatalf("expected no service call for empty query, got %d", service.searchCalls)
	}
}

func TestContactRouteRedirectsOnSuccess(t *testing.T) {
	t.Parallel()

	service := &stubBlogService{}
	srv := newTestServer(t, service)

	form := strings.NewReader("name=Ada&email=ada%40example.com&message=Hello")
	req := httptest.NewRequest("POST", "/contact", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 302 {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/thanks" {
		t.Fatalf("expected redirect to /thanks, got %q", location)
	}
	if service.contactForm.Message != "Hello" {
		t.Fatalf("expected parsed message, got %#v", service.contactForm)
	}
}

func TestContactRouteRerendersValidationErrors(t *testing.T) {
	t.Parallel()

	service := &stubBlogService{contactErrs: blog.FieldErrors{"message": "Please enter a message."}}
	srv := newTestServer(t, service)

	form := strings.NewReader("name=Ada&email=ada%40example.com")
	req := httptest.NewRequest("POST", "/contact", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please enter a message.") {
		t.Fatalf("expected field error in body, got %q", rec.Body.String())
	}
}

func TestStaticRoutesRender(t *testing.T) {
	t.Parallel()

	service := &stubBlogService{}
	srv := newTestServer(t, service)

	for path, fragment := range map[string]string{
		"/about":     "About",
		"/projects":  "Projects",
		"/gallery":   "Gallery",
		"/downloads": "Downloads",
		"/contact":   "Contact",
		"/thanks":    "Thank you",
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		if rec.Code != 200 {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), fragment) {
			t.Fatalf("%s: expected %q in body", path, fragment)
		}
	}
}

func TestHealthRouteReportsOK(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubBlogService{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "\"status\":\"ok\"") {
		t.Fatalf("expected ok status in body, got %q", rec.Body.String())
	}
}

// stubBlogService implements blog.Service for transport tests.
type stubBlogService struct {
	list          *blog.PostList
	listErr       error
	listTagSlug   string
	listPageToken string

	detail    *blog.PostDetail
	detailErr error

	post        *blog.Post
	postErr     error
	postByIDArg uint

	share    *blog.ShareResult
	shareErr error

	results     []blog.SearchResult
	searchErr   error
	searchCalls int
	searchQuery string

	contactErrs blog.FieldErrors
	contactErr  error

	submittedForm blog.CommentForm
	sharedForm    blog.ShareForm
	contactForm   blog.ContactForm
}

var _ blog.Service = (*stubBlogService)(nil)

func (s *stubBlogService) ListPosts(ctx context.Context, tagSlug, pageToken string) (*blog.PostList, error) {
	s.listTagSlug = tagSlug
	s.listPageToken = pageToken
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.list, nil
}

func (s *stubBlogService) GetPost(ctx context.Context, year, month, day int, slug string) (*blog.PostDetail, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.detail, nil
}

func (s *stubBlogService) PostByID(ctx context.Context, id uint) (*blog.Post, error) {
	s.postByIDArg = id
	if s.postErr != nil {
		return nil, s.postErr
	}
	return s.post, nil
}

func (s *stubBlogService) SubmitComment(ctx context.Context, year, month, day int, slug string, form blog.CommentForm) (*blog.PostDetail, error) {
	s.submittedForm = form
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.detail, nil
}

func (s *stubBlogService) SharePost(ctx context.Context, postID uint, form blog.ShareForm) (*blog.ShareResult, error) {
	s.sharedForm = form
	if s.shareErr != nil {
		return nil, s.shareErr
	}
	return s.share, nil
}

func (s *stubBlogService) Search(ctx context.Context, query string) ([]blog.SearchResult, error) {
	s.searchCalls++
	s.searchQuery = query
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func (s *stubBlogService) SendContact(ctx context.Context, form blog.ContactForm) (blog.FieldErrors, error) {
	s.contactForm = form
	if s.contactErr != nil {
		return nil, s.contactErr
	}
	return s.contactErrs, nil
}

type stubSender struct{}

var _ mail.Sender = (*stubSender)(nil)

func (stubSender) Send(ctx context.Context, msg mail.Message) error {
	return nil
}

func newTestServer(t *testing.T, service blog.Service) *Server {
	t.Helper()

	conn := openTestDatabase(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv, err := NewServer(Options{
		BlogService: service,
		Mailer:      stubSender{},
		Database:    conn,
		Logger:      logger,
	})
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}

	return srv
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "server.db")
	conn, err := db.Open(db.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := db.Close(conn); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	return conn
}

func samplePost(id uint, title, slug string) blog.Post {
	post := blog.Post{
		Title:       title,
		Slug:        slug,
		Body:        "<p>" + title + "</p>",
		Status:      blog.StatusPublished,
		PublishedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	post.ID = id
	return post
}
