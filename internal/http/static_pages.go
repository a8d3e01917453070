package http

import "pressroom/app/internal/http/templates"

// Fixed copy for the informational pages. Edits here do not require a
// template change.
var (
	aboutPage = templates.StaticPageData{
		Title:   "About",
		Heading: "About",
		Paragraphs: []string{
			"Pressroom is a small publishing site for essays and technical notes.",
			"New posts appear on the blog as soon as they are published. Use the tag pages to browse by topic or the search box to find a post by title.",
		},
	}

	projectsPage = templates.StaticPageData{
		Title:   "Projects",
		Heading: "Projects",
		Paragraphs: []string{
			"A selection of side projects, most of them open source.",
			"Write-ups about individual projects are published on the blog under the projects tag.",
		},
	}

	galleryPage = templates.StaticPageData{
		Title:   "Gallery",
		Heading: "Gallery",
		Paragraphs: []string{
			"Photos and screenshots that accompany the posts.",
			"The gallery is updated irregularly.",
		},
	}

	downloadsPage = templates.StaticPageData{
		Title:   "Downloads",
		Heading: "Downloads",
		Paragraphs: []string{
			"Slides, papers and other material referenced from the blog.",
			"Everything here may be redistributed unless a post states otherwise.",
		},
	}
)
