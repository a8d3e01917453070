package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// The components below are assembled by hand on top of templ's runtime rather
// than generated from .templ sources. Dynamic values pass through
// templ.EscapeString; post bodies are trusted authored HTML and render raw.

func layout(title string, body func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		fmt.Fprintf(&b, "<title>%s</title></head><body>", templ.EscapeString(title))
		b.WriteString("<header><nav>")
		fmt.Fprintf(&b, "<a href=\"/blog\">%s</a>", templ.EscapeString(SiteName))
		b.WriteString("<a href=\"/about\">About</a><a href=\"/projects\">Projects</a>")
		b.WriteString("<a href=\"/gallery\">Gallery</a><a href=\"/downloads\">Downloads</a>")
		b.WriteString("<a href=\"/contact\">Contact</a>")
		b.WriteString("<form action=\"/search\" method=\"get\"><input type=\"text\" name=\"find_posts\" placeholder=\"Search posts\"><button type=\"submit\">Search</button></form>")
		b.WriteString("</nav></header><main>")
		body(&b)
		b.WriteString("</main><footer><p>")
		fmt.Fprintf(&b, "%s, a small personal blog.", templ.EscapeString(SiteName))
		b.WriteString("</p></footer></body></html>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writePostSummary(b *strings.Builder, post PostView) {
	b.WriteString("<article class=\"post-summary\">")
	fmt.Fprintf(b, "<h2><a href=\"%s\">%s</a></h2>", post.URL, templ.EscapeString(post.Title))
	fmt.Fprintf(b, "<p class=\"published\">%s</p>", templ.EscapeString(post.Published))
	writeTagLinks(b, post.Tags)
	fmt.Fprintf(b, "<p>%s</p>", templ.EscapeString(post.Excerpt))
	b.WriteString("</article>")
}

func writeTagLinks(b *strings.Builder, tags []TagView) {
	if len(tags) == 0 {
		return
	}

	b.WriteString("<p class=\"tags\">Tagged: ")
	for i, tag := range tags {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "<a href=\"%s\">%s</a>", tag.URL, templ.EscapeString(tag.Name))
	}
	b.WriteString("</p>")
}

func writeFieldError(b *strings.Builder, form FormView, field string) {
	if msg := form.Error(field); msg != "" {
		fmt.Fprintf(b, "<p class=\"field-error\">%s</p>", templ.EscapeString(msg))
	}
}

func writePagination(b *strings.Builder, page PageView) {
	b.WriteString("<nav class=\"pagination\">")
	if page.HasPrevious {
		fmt.Fprintf(b, "<a href=\"%s\">Previous</a> ", page.PreviousURL)
	}
	fmt.Fprintf(b, "<span>Page %d of %d</span>", page.Number, page.TotalPages)
	if page.HasNext {
		fmt.Fprintf(b, " <a href=\"%s\">Next</a>", page.NextURL)
	}
	b.WriteString("</nav>")
}

// ListPage renders the paginated post listing, optionally scoped to a tag.
func ListPage(data ListPageData) templ.Component {
	title := SiteName
	if data.TagName != "" {
		title = fmt.Sprintf("Posts tagged %q • %s", data.TagName, SiteName)
	}

	return layout(title, func(b *strings.Builder) {
		if data.TagName != "" {
			fmt.Fprintf(b, "<h1>Posts tagged %s</h1>", templ.EscapeString(data.TagName))
		} else {
			b.WriteString("<h1>Latest posts</h1>")
		}

		if len(data.Posts) == 0 {
			b.WriteString("<p>No posts yet.</p>")
		}
		for _, post := range data.Posts {
			writePostSummary(b, post)
		}

		writePagination(b, data.Page)
	})
}

// DetailPage renders a single post with its comments, comment form and
// similar posts.
func DetailPage(data DetailPageData) templ.Component {
	title := fmt.Sprintf("%s • %s", data.Post.Title, SiteName)

	return layout(title, func(b *strings.Builder) {
		b.WriteString("<article class=\"post\">")
		fmt.Fprintf(b, "<h1>%s</h1>", templ.EscapeString(data.Post.Title))
		fmt.Fprintf(b, "<p class=\"published\">%s</p>", templ.EscapeString(data.Post.Published))
		writeTagLinks(b, data.Post.Tags)
		fmt.Fprintf(b, "<div class=\"body\">%s</div>", data.Post.Body)
		fmt.Fprintf(b, "<p><a href=\"%s\">Share this post</a></p>", data.Post.ShareURL)
		b.WriteString("</article>")

		if len(data.Similar) > 0 {
			b.WriteString("<section class=\"similar\"><h2>Similar posts</h2><ul>")
			for _, post := range data.Similar {
				fmt.Fprintf(b, "<li><a href=\"%s\">%s</a></li>", post.URL, templ.EscapeString(post.Title))
			}
			b.WriteString("</ul></section>")
		}

		b.WriteString("<section class=\"comments\">")
		fmt.Fprintf(b, "<h2>%d comment(s)</h2>", len(data.Comments))
		for _, comment := range data.Comments {
			b.WriteString("<div class=\"comment\">")
			fmt.Fprintf(b, "<p class=\"meta\">%s on %s</p>", templ.EscapeString(comment.Name), templ.EscapeString(comment.Created))
			fmt.Fprintf(b, "<p>%s</p>", templ.EscapeString(comment.Body))
			b.WriteString("</div>")
		}

		if data.NewCommentAdded {
			b.WriteString("<p class=\"confirmation\">Your comment has been added.</p>")
		}

		b.WriteString("<h3>Add a comment</h3>")
		fmt.Fprintf(b, "<form method=\"post\" action=\"%s\">", data.Post.URL)
		writeFieldError(b, data.CommentForm, "name")
		fmt.Fprintf(b, "<label>Name <input type=\"text\" name=\"name\" value=\"%s\"></label>", templ.EscapeString(data.CommentForm.Value("name")))
		writeFieldError(b, data.CommentForm, "email")
		fmt.Fprintf(b, "<label>Email <input type=\"text\" name=\"email\" value=\"%s\"></label>", templ.EscapeString(data.CommentForm.Value("email")))
		writeFieldError(b, data.CommentForm, "body")
		fmt.Fprintf(b, "<label>Comment <textarea name=\"body\">%s</textarea></label>", templ.EscapeString(data.CommentForm.Value("body")))
		b.WriteString("<button type=\"submit\">Add comment</button></form>")
		b.WriteString("</section>")
	})
}

// SharePage renders the share-by-email form or its confirmation.
func SharePage(data SharePageData) templ.Component {
	title := fmt.Sprintf("Share %q • %s", data.Post.Title, SiteName)

	return layout(title, func(b *strings.Builder) {
		if data.Sent {
			b.WriteString("<h1>E-mail successfully sent</h1>")
			fmt.Fprintf(b, "<p>%q was successfully sent to %s.</p>",
				data.Post.Title, templ.EscapeString(data.To))
			return
		}

		fmt.Fprintf(b, "<h1>Share %s by e-mail</h1>", templ.EscapeString(data.Post.Title))
		b.WriteString("<form method=\"post\">")
		writeFieldError(b, data.Form, "name")
		fmt.Fprintf(b, "<label>Your name <input type=\"text\" name=\"name\" value=\"%s\"></label>", templ.EscapeString(data.Form.Value("name")))
		writeFieldError(b, data.Form, "email")
		fmt.Fprintf(b, "<label>Your email <input type=\"text\" name=\"email\" value=\"%s\"></label>", templ.EscapeString(data.Form.Value("email")))
		writeFieldError(b, data.Form, "to")
		fmt.Fprintf(b, "<label>Recipient <input type=\"text\" name=\"to\" value=\"%s\"></label>", templ.EscapeString(data.Form.Value("to")))
		fmt.Fprintf(b, "<label>Comments <textarea name=\"comments\">%s</textarea></label>", templ.EscapeString(data.Form.Value("comments")))
		b.WriteString("<button type=\"submit\">Send e-mail</button></form>")
	})
}

// SearchPage renders the ranked search results.
func SearchPage(data SearchPageData) templ.Component {
	return layout(fmt.Sprintf("Search • %s", SiteName), func(b *strings.Builder) {
		b.WriteString("<h1>Search posts</h1>")
		fmt.Fprintf(b, "<form method=\"get\" action=\"/search\"><input type=\"text\" name=\"find_posts\" value=\"%s\"><button type=\"submit\">Search</button></form>", templ.EscapeString(data.Query))

		if data.Query == "" {
			return
		}

		fmt.Fprintf(b, "<h2>Posts containing %s</h2>", templ.EscapeString(data.Query))
		if len(data.Results) == 0 {
			b.WriteString("<p>There are no results for your query.</p>")
			return
		}

		b.WriteString("<ul class=\"results\">")
		for _, result := range data.Results {
			fmt.Fprintf(b, "<li><a href=\"%s\">%s</a><p>%s</p></li>",
				result.URL, templ.EscapeString(result.Title), templ.EscapeString(result.Excerpt))
		}
		b.WriteString("</ul>")
	})
}

// StaticPage renders one of the fixed informational pages.
func StaticPage(data StaticPageData) templ.Component {
	return layout(fmt.Sprintf("%s • %s", data.Title, SiteName), func(b *strings.Builder) {
		fmt.Fprintf(b, "<h1>%s</h1>", templ.EscapeString(data.Heading))
		for _, paragraph := range data.Paragraphs {
			fmt.Fprintf(b, "<p>%s</p>", templ.EscapeString(paragraph))
		}
	})
}

// ContactPage renders the contact form.
func ContactPage(data ContactPageData) templ.Component {
	return layout(fmt.Sprintf("Contact • %s", SiteName), func(b *strings.Builder) {
		b.WriteString("<h1>Contact us</h1>")
		b.WriteString("<form method=\"post\" action=\"/contact\">")
		writeFieldError(b, data.Form, "name")
		fmt.Fprintf(b, "<label>Name <input type=\"text\" name=\"name\" value=\"%s\"></label>", templ.EscapeString(data.Form.Value("name")))
		writeFieldError(b, data.Form, "email")
		fmt.Fprintf(b, "<label>Email <input type=\"text\" name=\"email\" value=\"%s\"></label>", templ.EscapeString(data.Form.Value("email")))
		writeFieldError(b, data.Form, "message")
		fmt.Fprintf(b, "<label>Message <textarea name=\"message\">%s</textarea></label>", templ.EscapeString(data.Form.Value("message")))
		b.WriteString("<button type=\"submit\">Send message</button></form>")
	})
}

// ThanksPage renders the contact confirmation.
func ThanksPage() templ.Component {
	return layout(fmt.Sprintf("Thanks • %s", SiteName), func(b *strings.Builder) {
		b.WriteString("<h1>Thank you</h1><p>Your message has been sent. We'll get back to you soon.</p>")
	})
}

// ErrorPage renders a user-facing error view.
func ErrorPage(data ErrorPageData) templ.Component {
	return layout(fmt.Sprintf("%s • %s", data.StatusLabel, SiteName), func(b *strings.Builder) {
		fmt.Fprintf(b, "<h1>%s</h1>", templ.EscapeString(data.StatusLabel))
		fmt.Fprintf(b, "<p>%s</p>", templ.EscapeString(data.Message))
	})
}
