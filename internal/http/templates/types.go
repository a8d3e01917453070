package templates

// SiteName is rendered in the shared layout header and page titles.
const SiteName = "Pressroom"

// TagView is a tag link rendered on list and detail pages.
type TagView struct {
	Name string
	URL  string
}

// PostView carries the fields rendered for a post across the list, detail,
// share and search pages.
type PostView struct {
	Title     string
	URL       string
	ShareURL  string
	Published string
	Excerpt   string
	Body      string
	Tags      []TagView
}

// PageView carries pagination navigation metadata.
type PageView struct {
	Number      int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
	NextURL     string
	PreviousURL string
}

// FormView bundles submitted values and per-field validation messages so a
// failed submission re-renders prefilled.
type FormView struct {
	Values map[string]string
	Errors map[string]string
}

// Value returns the submitted value for a field, or empty.
func (f FormView) Value(field string) string {
	if f.Values == nil {
		return ""
	}
	return f.Values[field]
}

// Error returns the validation message for a field, or empty.
func (f FormView) Error(field string) string {
	if f.Errors == nil {
		return ""
	}
	return f.Errors[field]
}

// CommentView is a single displayed comment.
type CommentView struct {
	Name    string
	Created string
	Body    string
}

// ListPageData bundles template data for the post list page.
type ListPageData struct {
	TagName string
	Posts   []PostView
	Page    PageView
}

// DetailPageData bundles template data for the post detail page.
type DetailPageData struct {
	Post            PostView
	Comments        []CommentView
	Similar         []PostView
	CommentForm     FormView
	NewCommentAdded bool
}

// SharePageData bundles template data for the share-by-email page.
type SharePageData struct {
	Post PostView
	Sent bool
	To   string
	Form FormView
}

// SearchResultView represents an individual search result entry.
type SearchResultView struct {
	Title   string
	URL     string
	Excerpt string
}

// SearchPageData bundles template data for the search results page.
type SearchPageData struct {
	Query   string
	Results []SearchResultView
}

// StaticPageData holds the copy for the fixed informational pages.
type StaticPageData struct {
	Title      string
	Heading    string
	Paragraphs []string
}

// ContactPageData bundles template data for the contact form page.
type ContactPageData struct {
	Form FormView
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	StatusLabel string
	Message     string
}
