// Package sanitize rewrites externally generated answers into plain
// WhatsApp text. Generative backends occasionally emit HTML anchors or
// Markdown links despite the system instruction; those must never
// reach the user verbatim.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/catalog"
)

var (
	// <a href="...">...</a>, attributes and inner text ignored.
	anchorRe = regexp.MustCompile(`(?is)<a [^>]*href="([^"]+)"[^>]*>.*?</a>`)
	// [texto del formulario](https://...), only when the label
	// mentions the enrollment form.
	mdFormRe = regexp.MustCompile(`(?i)\[[^\]]*formulario[^\]]*\]\((https?://[^)\s]+)\)`)
	// Any remaining tag, well formed or not.
	tagRe = regexp.MustCompile(`</?[^>]+>`)
	urlRe = regexp.MustCompile(`https?://\S+`)
)

// Result is a cleaned answer plus the conversation context extracted
// from it.
type Result struct {
	// Text is the user-facing reply, free of HTML and Markdown links.
	Text string
	// Link is the first URL present in the cleaned text, if any.
	Link string
	// CourseTitle is the catalog course the answer talks about, if
	// the text names exactly one by title.
	CourseTitle string
}

// Clean rewrites link constructs, strips leftover tags, and extracts
// the session context. HTML anchors and Markdown form links both
// become "Formulario de inscripción: <url>".
func Clean(text string, cat *catalog.Catalog) Result {
	cleaned := anchorRe.ReplaceAllString(text, "Formulario de inscripción: $1")
	cleaned = mdFormRe.ReplaceAllString(cleaned, "Formulario de inscripción: $1")
	cleaned = tagRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	res := Result{Text: cleaned}

	if m := urlRe.FindString(cleaned); m != "" {
		res.Link = strings.TrimRight(m, ".,;)")
	}

	if course, ok := cat.FindTitleAsWord(cleaned); ok {
		res.CourseTitle = course.Title
	}

	return res
}
