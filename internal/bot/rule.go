// Package bot resolves incoming messages into replies. A short cascade
// of deterministic rules answers the common question shapes directly
// from the catalog; anything the rules don't recognize goes to the
// generative backend.
package bot

import (
	"context"
	"strings"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/catalog"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/session"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/textnorm"
)

// Query is one incoming message plus everything a rule may consult.
type Query struct {
	ConversationID string
	// Text is the trimmed original message.
	Text string
	// Norm is the normalized (lowercase, diacritic-free) message.
	Norm string
	// Catalog is the catalog snapshot for this message.
	Catalog *catalog.Catalog
	// Sessions is the conversation state store.
	Sessions session.Store
}

// Rule is one step of the resolution cascade. Apply returns the reply
// and true when the rule recognizes and fully answers the query;
// otherwise the query falls through to the next rule.
type Rule interface {
	Name() string
	Apply(ctx context.Context, q *Query) (string, bool, error)
}

// tradeRoots are the 4-letter keyword roots that identify a trade in
// the user's wording: albañilería, carpintería, mecánica,
// indumentaria, soldadura, electricidad, plomería, panadería,
// reparación, construcción.
var tradeRoots = []string{
	"alba", "carp", "meca", "indu", "sold", "elec", "plom", "pana", "repa", "cons",
}

// shortcutTriggers are the one-word messages that ask for the last
// enrollment link again.
var shortcutTriggers = map[string]struct{}{
	"link":        {},
	"formulario":  {},
	"inscribirme": {},
}

// whereWords signal a venue question about a specific course.
var whereWords = []string{"donde", "localidad", "localidades", "sede"}

// DefaultRules returns the cascade in evaluation order. Order matters:
// earlier rules are more specific.
func DefaultRules() []Rule {
	return []Rule{
		shortcutRule{},
		singleLocalityRule{},
		keywordSearchRule{},
		courseDetailRule{},
	}
}

// shortcutRule answers bare "link", "formulario", or "inscribirme"
// with the conversation's last enrollment link.
type shortcutRule struct{}

func (shortcutRule) Name() string { return "shortcut_link" }

func (shortcutRule) Apply(ctx context.Context, q *Query) (string, bool, error) {
	if _, ok := shortcutTriggers[q.Norm]; !ok {
		return "", false, nil
	}

	sess, err := q.Sessions.Get(ctx, q.ConversationID)
	if err != nil {
		return "", true, err
	}

	if sess.LastLink != "" {
		return FormLinkReply(sess.LastLink), true, nil
	}

	// No link yet, but the conversation settled on a course: resolve
	// its form now and remember it.
	if sess.LastCourse != "" {
		if course, ok := q.Catalog.FindByTitle(sess.LastCourse); ok && course.FormLink != "" {
			if err := q.Sessions.SetLastLink(ctx, q.ConversationID, course.FormLink); err != nil {
				return "", true, err
			}
			return FormLinkReply(course.FormLink), true, nil
		}
	}

	return NoSavedLink, true, nil
}

// mentionsTradeRoot reports whether any word of the normalized text
// starts with a trade root.
func mentionsTradeRoot(norm string) bool {
	for _, root := range tradeRoots {
		if textnorm.HasWordWithPrefix(norm, root) {
			return true
		}
	}
	return false
}

// singleLocalityRule lists everything taught in a locality when the
// user names exactly one locality, says "curso", and gives no trade
// keyword to narrow by.
type singleLocalityRule struct{}

func (singleLocalityRule) Name() string { return "single_locality" }

func (singleLocalityRule) Apply(_ context.Context, q *Query) (string, bool, error) {
	mentioned := q.Catalog.MentionedLocalities(q.Text)
	if len(mentioned) != 1 {
		return "", false, nil
	}
	if !strings.Contains(q.Norm, "curso") {
		return "", false, nil
	}
	if mentionsTradeRoot(q.Norm) {
		return "", false, nil
	}

	locality := mentioned[0]
	courses := q.Catalog.InLocality(locality)
	if len(courses) == 0 {
		// Nothing taught there; let the backend phrase the answer.
		return "", false, nil
	}

	return localityListing(locality, courses), true, nil
}

// keywordSearchRule answers "¿hay albañilería en Palpalá y El Carmen?"
// style questions: one or more localities plus at least one trade
// keyword. Courses without a confirmed venue are included everywhere,
// so users don't miss a course whose venue is still being decided.
type keywordSearchRule struct{}

func (keywordSearchRule) Name() string { return "keyword_search" }

func (keywordSearchRule) Apply(_ context.Context, q *Query) (string, bool, error) {
	mentioned := q.Catalog.MentionedLocalities(q.Text)
	if len(mentioned) == 0 {
		return "", false, nil
	}

	var keys []string
	for _, root := range tradeRoots {
		if strings.Contains(q.Norm, root) {
			keys = append(keys, root)
		}
	}
	if len(keys) == 0 {
		return "", false, nil
	}

	parts := make([]string, 0, len(mentioned))
	anyHits := false
	for _, locality := range mentioned {
		hits := matchingCourses(q.Catalog, locality, keys)
		if len(hits) > 0 {
			anyHits = true
		}
		parts = append(parts, localityMatches(locality, hits))
	}

	// A reply with only "no hay" lines helps nobody; the backend may
	// know a better answer.
	if !anyHits {
		return "", false, nil
	}

	return keywordSearchReply(parts), true, nil
}

// matchingCourses returns the courses that serve the locality (or have
// no venue yet) and whose title has a word starting with one of the
// keyword roots, sorted by title.
func matchingCourses(cat *catalog.Catalog, locality string, keys []string) []catalog.Course {
	var hits []catalog.Course
	for _, course := range cat.Courses() {
		if !servesLocality(&course, locality) {
			continue
		}
		if titleMatchesAny(course.Title, keys) {
			hits = append(hits, course)
		}
	}
	catalog.SortByTitle(hits)
	return hits
}

func servesLocality(c *catalog.Course, locality string) bool {
	if !c.HasConfirmedVenue() {
		return true
	}
	for _, loc := range c.Localities {
		if loc == locality {
			return true
		}
	}
	return false
}

func titleMatchesAny(title string, keys []string) bool {
	for _, key := range keys {
		if textnorm.HasWordWithPrefix(title, key) {
			return true
		}
	}
	return false
}

// courseDetailRule describes a single course when the user names its
// exact title and asks where it is taught.
type courseDetailRule struct{}

func (courseDetailRule) Name() string { return "course_detail" }

func (courseDetailRule) Apply(ctx context.Context, q *Query) (string, bool, error) {
	if !asksWhere(q.Norm) {
		return "", false, nil
	}

	course, ok := q.Catalog.FindTitleInText(q.Text)
	if !ok {
		return "", false, nil
	}

	if err := q.Sessions.SetLastLink(ctx, q.ConversationID, course.FormLink); err != nil {
		return "", true, err
	}
	if err := q.Sessions.SetLastCourse(ctx, q.ConversationID, course.Title); err != nil {
		return "", true, err
	}

	return courseDetail(course), true, nil
}

func asksWhere(norm string) bool {
	for _, w := range whereWords {
		if textnorm.ContainsWord(norm, w) {
			return true
		}
	}
	return false
}
