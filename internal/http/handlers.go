package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"pressroom/app/internal/blog"
	"pressroom/app/internal/db"
	"pressroom/app/internal/http/templates"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	errorFallbackMessage = "We couldn't process your request right now."
	publishedDateFormat  = "January 2, 2006"
	commentDateFormat    = "January 2, 2006 15:04"
)

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Location    string `header:"Location"`
	Body        []byte
}

type listInput struct {
	Page string `query:"page"`
}

type tagListInput struct {
	Slug string `path:"slug"`
	Page string `query:"page"`
}

type detailInput struct {
	Year  int    `path:"year"`
	Month int    `path:"month"`
	Day   int    `path:"day"`
	Slug  string `path:"slug"`
}

type detailFormInput struct {
	Year    int    `path:"year"`
	Month   int    `path:"month"`
	Day     int    `path:"day"`
	Slug    string `path:"slug"`
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

type shareInput struct {
	ID uint64 `path:"id"`
}

type shareFormInput struct {
	ID      uint64 `path:"id"`
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

type searchInput struct {
	Query string `query:"find_posts"`
}

type contactFormInput struct {
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Mailer   string `json:"mailer"`
	}
}

func (s *Server) registerListRoutes() {
	huma.Get(s.api, "/blog", s.listHandler, htmlOperation(
		"List published posts",
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, "/blog/tag/{slug}", s.listByTagHandler, htmlOperation(
		"List published posts by tag",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerDetailRoutes() {
	huma.Get(s.api, "/blog/{year}/{month}/{day}/{slug}", s.detailHandler, htmlOperation(
		"Fetch post detail",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Post(s.api, "/blog/{year}/{month}/{day}/{slug}", s.submitCommentHandler, htmlOperation(
		"Submit a comment",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerShareRoutes() {
	huma.Get(s.api, "/blog/share/{id}", s.shareFormHandler, htmlOperation(
		"Render the share form",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Post(s.api, "/blog/share/{id}", s.sharePostHandler, htmlOperation(
		"Share a post by email",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerSearchRoute() {
	huma.Get(s.api, "/search", s.searchHandler, htmlOperation(
		"Search posts by title",
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerStaticRoutes() {
	huma.Get(s.api, "/about", s.staticPageHandler("About", aboutPage), htmlOperation("About page"))
	huma.Get(s.api, "/projects", s.staticPageHandler("Projects", projectsPage), htmlOperation("Projects page"))
	huma.Get(s.api, "/gallery", s.staticPageHandler("Gallery", galleryPage), htmlOperation("Gallery page"))
	huma.Get(s.api, "/downloads", s.staticPageHandler("Downloads", downloadsPage), htmlOperation("Downloads page"))
	huma.Get(s.api, "/contact", s.contactFormHandler, htmlOperation("Contact form"))
	huma.Post(s.api, "/contact", s.contactSubmitHandler, htmlOperation(
		"Submit the contact form",
		stdhttp.StatusFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, "/thanks", s.thanksHandler, htmlOperation("Contact confirmation"))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) listHandler(ctx context.Context, input *listInput) (*htmlResponse, error) {
	return s.renderList(ctx, "", input.Page)
}

func (s *Server) listByTagHandler(ctx context.Context, input *tagListInput) (*htmlResponse, error) {
	return s.renderList(ctx, input.Slug, input.Page)
}

func (s *Server) renderList(ctx context.Context, tagSlug, pageToken string) (*htmlResponse, error) {
	list, err := s.blog.ListPosts(ctx, tagSlug, pageToken)
	if err != nil {
		status, message := classifyError(err)
		s.recordError(ctx, err, "listing posts", logrus.Fields{"tag_slug": tagSlug})
		return s.renderErrorResponse(ctx, status, message)
	}

	basePath := "/blog"
	tagName := ""
	if list.Tag != nil {
		basePath = "/blog/tag/" + list.Tag.Slug
		tagName = list.Tag.Name
	}

	data := templates.ListPageData{
		TagName: tagName,
		Posts:   postViews(list.Page.Items),
		Page:    pageView(list.Page, basePath),
	}

	body, err := renderComponent(ctx, templates.ListPage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering post list", logrus.Fields{"tag_slug": tagSlug})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render the post list.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) detailHandler(ctx context.Context, input *detailInput) (*htmlResponse, error) {
	detail, err := s.blog.GetPost(ctx, input.Year, input.Month, input.Day, input.Slug)
	if err != nil {
		status, message := classifyError(err)
		s.recordError(ctx, err, "loading post detail", logrus.Fields{"slug": input.Slug})
		return s.renderErrorResponse(ctx, status, message)
	}

	return s.renderDetail(ctx, detail)
}

func (s *Server) submitCommentHandler(ctx context.Context, input *detailFormInput) (*htmlResponse, error) {
	values := parseFormBody(input.RawBody)
	form := blog.CommentForm{
		Name:  values.Get("name"),
		Email: values.Get("email"),
		Body:  values.Get("body"),
	}

	detail, err := s.blog.SubmitComment(ctx, input.Year, input.Month, input.Day, input.Slug, form)
	if err != nil {
		status, message := classifyError(err)
		s.recordError(ctx, err, "submitting comment", logrus.Fields{"slug": input.Slug})
		return s.renderErrorResponse(ctx, status, message)
	}

	return s.renderDetail(ctx, detail)
}

func (s *Server) renderDetail(ctx context.Context, detail *blog.PostDetail) (*htmlResponse, error) {
	data := templates.DetailPageData{
		Post:            postView(detail.Post),
		Comments:        commentViews(detail.Comments),
		Similar:         postViews(detail.Similar),
		NewCommentAdded: detail.NewComment != nil,
		CommentForm: templates.FormView{
			Values: map[string]string{
				"name":  detail.Form.Name,
				"email": detail.Form.Email,
				"body":  detail.Form.Body,
			},
			Errors: detail.FormErrors,
		},
	}

	body, err := renderComponent(ctx, templates.DetailPage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering post detail", logrus.Fields{"slug": detail.Post.Slug})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render this post.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) shareFormHandler(ctx context.Context, input *shareInput) (*htmlResponse, error) {
	post, err := s.blog.PostByID(ctx, uint(input.ID))
	if err != nil {
		status, message := classifyError(err)
		s.recordError(ctx, err, "loading post for share form", logrus.Fields{"post_id": input.ID})
		return s.renderErrorResponse(ctx, status, message)
	}

	data := templates.SharePageData{Post: postView(*post)}

	body, err := renderComponent(ctx, templates.SharePage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering share form", logrus.Fields{"post_id": input.ID})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render the share form.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) sharePostHandler(ctx context.Context, input *shareFormInput) (*htmlResponse, error) {
	values := parseFormBody(input.RawBody)
	form := blog.ShareForm{
		Name:     values.Get("name"),
		Email:    values.Get("email"),
		To:       values.Get("to"),
		Comments: values.Get("comments"),
	}

	result, err := s.blog.SharePost(ctx, uint(input.ID), form)
	if err != nil {
		status, message := classifyError(err)
		s.recordError(ctx, err, "sharing post", logrus.Fields{"post_id": input.ID})
		return s.renderErrorResponse(ctx, status, message)
	}

	data := templates.SharePageData{
		Post: postView(result.Post),
		Sent: result.Sent,
		To:   result.Form.To,
		Form: templates.FormView{
			Values: map[string]string{
				"name":     result.Form.Name,
				"email":    result.Form.Email,
				"to":       result.Form.To,
				"comments": result.Form.Comments,
			},
			Errors: result.FormErrors,
		},
	}

	body, err := renderComponent(ctx, templates.SharePage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering share result", logrus.Fields{"post_id": input.ID})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render the share form.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) searchHandler(ctx context.Context, input *searchInput) (*htmlResponse, error) {
	query := strings.TrimSpace(input.Query)
	data := templates.SearchPageData{Query: query}

	if query != "" {
		results, err := s.blog.Search(ctx, query)
		if err != nil {
			status, message := classifyError(err)
			s.recordError(ctx, err, "search request failed", logrus.Fields{"query": query})
			return s.renderErrorResponse(ctx, status, message)
		}

		data.Results = make([]templates.SearchResultView, 0, len(results))
		for _, result := range results {
			data.Results = append(data.Results, templates.SearchResultView{
				Title:   result.Post.Title,
				URL:     result.Post.URLPath(),
				Excerpt: blog.Excerpt(result.Post.Body, blog.ExcerptWords),
			})
		}
	}

	body, err := renderComponent(ctx, templates.SearchPage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering search page", logrus.Fields{"query": query})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render search results right now.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) staticPageHandler(title string, data templates.StaticPageData) func(context.Context, *struct{}) (*htmlResponse, error) {
	return func(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
		body, err := renderComponent(ctx, templates.StaticPage(data))
		if err != nil {
			s.recordError(ctx, err, "rendering static page", logrus.Fields{"page": title})
			return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
		}
		return newHTMLResponse(stdhttp.StatusOK, body), nil
	}
}

func (s *Server) contactFormHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	body, err := renderComponent(ctx, templates.ContactPage(templates.ContactPageData{}))
	if err != nil {
		s.recordError(ctx, err, "rendering contact form", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) contactSubmitHandler(ctx context.Context, input *contactFormInput) (*htmlResponse, error) {
	values := parseFormBody(input.RawBody)
	form := blog.ContactForm{
		Name:    values.Get("name"),
		Email:   values.Get("email"),
		Message: values.Get("message"),
	}

	fieldErrs, err := s.blog.SendContact(ctx, form)
	if err != nil {
		s.recordError(ctx, err, "sending contact message", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't send your message right now.")
	}

	if len(fieldErrs) > 0 {
		data := templates.ContactPageData{
			Form: templates.FormView{
				Values: map[string]string{
					"name":    form.Name,
					"email":   form.Email,
					"message": form.Message,
				},
				Errors: fieldErrs,
			},
		}

		body, renderErr := s.renderContact(ctx, data)
		if renderErr != nil {
			return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
		}
		return newHTMLResponse(stdhttp.StatusOK, body), nil
	}

	response := newHTMLResponse(stdhttp.StatusFound, nil)
	response.Location = "/thanks"

	return response, nil
}

func (s *Server) renderContact(ctx context.Context, data templates.ContactPageData) ([]byte, error) {
	body, err := renderComponent(ctx, templates.ContactPage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering contact form", nil)
		return nil, err
	}
	return body, nil
}

func (s *Server) thanksHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	body, err := renderComponent(ctx, templates.ThanksPage())
	if err != nil {
		s.recordError(ctx, err, "rendering thanks page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"
	resp.Body.Mailer = "ready"

	sqlDB, err := db.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if s.mailer == nil {
		resp.Body.Status = "degraded"
		resp.Body.Mailer = "unconfigured"
		if resp.Status == 0 {
			resp.Status = stdhttp.StatusServiceUnavailable
		}
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func parseFormBody(raw []byte) url.Values {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return url.Values{}
	}
	return values
}

func postView(post blog.Post) templates.PostView {
	return templates.PostView{
		Title:     post.Title,
		URL:       post.URLPath(),
		ShareURL:  fmt.Sprintf("/blog/share/%d", post.ID),
		Published: post.PublishedAt.UTC().Format(publishedDateFormat),
		Excerpt:   blog.Excerpt(post.Body, blog.ExcerptWords),
		Body:      post.Body,
		Tags:      tagViews(post.Tags),
	}
}

func postViews(posts []blog.Post) []templates.PostView {
	views := make([]templates.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, postView(post))
	}
	return views
}

func tagViews(tags []blog.Tag) []templates.TagView {
	views := make([]templates.TagView, 0, len(tags))
	for _, tag := range tags {
		views = append(views, templates.TagView{
			Name: tag.Name,
			URL:  "/blog/tag/" + tag.Slug,
		})
	}
	return views
}

func commentViews(comments []blog.Comment) []templates.CommentView {
	views := make([]templates.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, templates.CommentView{
			Name:    comment.Name,
			Created: comment.CreatedAt.UTC().Format(commentDateFormat),
			Body:    comment.Body,
		})
	}
	return views
}

func pageView(page blog.Page[blog.Post], basePath string) templates.PageView {
	view := templates.PageView{
		Number:      page.Number,
		TotalPages:  page.TotalPages,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
	}
	if page.HasNext {
		view.NextURL = fmt.Sprintf("%s?page=%d", basePath, page.Number+1)
	}
	if page.HasPrevious {
		view.PreviousURL = fmt.Sprintf("%s?page=%d", basePath, page.Number-1)
	}
	return view
}

func classifyError(err error) (int, string) {
	if err == nil {
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}

	if eris.Is(err, blog.ErrNotFound) {
		return stdhttp.StatusNotFound, "We couldn't find what you were looking for."
	}

	cause := strings.ToLower(eris.Cause(err).Error())
	if strings.Contains(cause, "required") {
		return stdhttp.StatusBadRequest, "The request was missing required information."
	}

	return stdhttp.StatusInternalServerError, errorFallbackMessage
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) (*htmlResponse, error) {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	component := templates.ErrorPage(templates.ErrorPageData{
		StatusLabel: label,
		Message:     message,
	})

	body, err := renderComponent(ctx, component)
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := []byte(fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", label, message))
		return newHTMLResponse(status, fallback), nil
	}

	return newHTMLResponse(status, body), nil
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
