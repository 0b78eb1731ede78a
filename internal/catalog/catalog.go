package catalog

import (
	"sort"
	"strings"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/textnorm"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator orders course titles the way a Spanish speaker expects
// (accent- and case-aware, "Ñ" after "N").
var collator = collate.New(language.Spanish, collate.IgnoreCase)

// Catalog is an immutable snapshot of the course list plus derived
// lookup indices computed once at construction.
type Catalog struct {
	courses    []Course
	raw        []byte
	localities []string
}

// New builds a catalog from the decoded course list and the raw JSON
// bytes it was decoded from. The raw bytes are kept verbatim for the
// generative backend's context.
func New(courses []Course, raw []byte) *Catalog {
	c := &Catalog{
		courses: courses,
		raw:     raw,
	}
	c.localities = deriveLocalities(courses)
	return c
}

// Empty returns a catalog with no courses. The classifier rules that
// depend on the catalog simply never match against it.
func Empty() *Catalog {
	return New(nil, []byte("[]"))
}

// deriveLocalities collects the ordered set of every locality name
// appearing in any course, preserving first-seen order.
func deriveLocalities(courses []Course) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, course := range courses {
		for _, loc := range course.Localities {
			if _, ok := seen[loc]; ok {
				continue
			}
			seen[loc] = struct{}{}
			out = append(out, loc)
		}
	}
	return out
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	return len(c.courses)
}

// Courses returns the full ordered course list.
func (c *Catalog) Courses() []Course {
	return c.courses
}

// Raw returns the catalog's original JSON serialization.
func (c *Catalog) Raw() []byte {
	return c.raw
}

// Localities returns every locality name appearing in any course.
func (c *Catalog) Localities() []string {
	return c.localities
}

// InLocality returns the courses offered in the named locality,
// sorted alphabetically by title.
func (c *Catalog) InLocality(name string) []Course {
	var out []Course
	for _, course := range c.courses {
		for _, loc := range course.Localities {
			if loc == name {
				out = append(out, course)
				break
			}
		}
	}
	SortByTitle(out)
	return out
}

// FindByTitle returns the course with the exact title, if any.
// Titles are unique across the catalog.
func (c *Catalog) FindByTitle(title string) (*Course, bool) {
	for i := range c.courses {
		if c.courses[i].Title == title {
			return &c.courses[i], true
		}
	}
	return nil, false
}

// FindTitleInText returns the first course whose exact title appears as
// a substring of the normalized text.
func (c *Catalog) FindTitleInText(text string) (*Course, bool) {
	normalized := textnorm.Normalize(text)
	for i := range c.courses {
		title := textnorm.Normalize(c.courses[i].Title)
		if title != "" && strings.Contains(normalized, title) {
			return &c.courses[i], true
		}
	}
	return nil, false
}

// FindTitleAsWord returns the first course whose title appears as a
// whole word (or word sequence) in the text. Used by the sanitizer to
// detect which course an externally generated answer talks about.
func (c *Catalog) FindTitleAsWord(text string) (*Course, bool) {
	for i := range c.courses {
		if textnorm.ContainsWord(text, c.courses[i].Title) {
			return &c.courses[i], true
		}
	}
	return nil, false
}

// MentionedLocalities returns the catalog localities that appear as
// whole words in the text, preserving catalog order.
func (c *Catalog) MentionedLocalities(text string) []string {
	var out []string
	for _, loc := range c.localities {
		if textnorm.ContainsWord(text, loc) {
			out = append(out, loc)
		}
	}
	return out
}

// SortByTitle sorts courses alphabetically by title using Spanish
// collation.
func SortByTitle(courses []Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		return collator.CompareString(courses[i].Title, courses[j].Title) < 0
	})
}
