package blog

import (
	"strings"

	"golang.org/x/net/html"
)

// ExcerptWords is the default word budget for list and search previews.
const ExcerptWords = 30

// Excerpt reduces a post body to a plain-text preview. Markup is stripped with
// an HTML tokenizer (script and style contents are dropped entirely), runs of
// whitespace collapse to single spaces, and the text is truncated on a word
// boundary with an ellipsis when it exceeds maxWords.
func Excerpt(body string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = ExcerptWords
	}

	text := stripMarkup(body)

	words := strings.Fields(text)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}

	return strings.Join(words[:maxWords], " ") + "…"
}

func stripMarkup(body string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(body))

	var builder strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return builder.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				builder.Write(tokenizer.Text())
				builder.WriteByte(' ')
			}
		}
	}
}

func isSkippedTag(name string) bool {
	return name == "script" || name == "style"
}
