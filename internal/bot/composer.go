package bot

import (
	"fmt"
	"strings"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/catalog"
)

// Reply literals. These are user-facing contract text; change them
// only together with the deployed conversation scripts.
const (
	// NoSavedLink is sent when a shortcut arrives with no stored link.
	NoSavedLink = "No tengo un enlace guardado en este momento."
	// Apology is sent when the generative backend fails.
	Apology = "Lo siento, ocurrió un error."
	// followUpQuestion closes every course listing.
	followUpQuestion = "¿Sobre cuál querés más información o inscribirte?"
	// noVenueNote marks listed courses without a confirmed venue.
	noVenueNote = "(sin sede confirmada)"
)

// FormLinkReply renders the enrollment link reply used by the shortcut
// rule and the disclosure lines in course detail replies.
func FormLinkReply(url string) string {
	return fmt.Sprintf("Formulario de inscripción: %s", url)
}

// courseListItem renders one course for a listing: "Título (10 de
// julio)" or "Título (sin sede confirmada)".
func courseListItem(c *catalog.Course) string {
	if !c.HasConfirmedVenue() {
		return fmt.Sprintf("%s %s", c.Title, noVenueNote)
	}
	return fmt.Sprintf("%s (%s)", c.Title, c.LongStartDate())
}

// localityListing renders the full "what is taught here" reply for a
// single locality, courses already sorted.
func localityListing(locality string, courses []catalog.Course) string {
	items := make([]string, len(courses))
	for i := range courses {
		items[i] = fmt.Sprintf("%s (%s)", courses[i].Title, courses[i].LongStartDate())
	}
	return fmt.Sprintf("En %s hay: %s. %s", locality, strings.Join(items, ", "), followUpQuestion)
}

// localityMatches renders the per-locality line of a keyword search:
// either the matching titles or the no-matches sentence.
func localityMatches(locality string, hits []catalog.Course) string {
	if len(hits) == 0 {
		return fmt.Sprintf("En %s no hay cursos que coincidan con tu búsqueda.", locality)
	}
	items := make([]string, len(hits))
	for i := range hits {
		items[i] = courseListItem(&hits[i])
	}
	return fmt.Sprintf("En %s hay: %s.", locality, strings.Join(items, ", "))
}

// keywordSearchReply joins the per-locality lines and appends the
// follow-up question.
func keywordSearchReply(parts []string) string {
	return strings.Join(parts, " ") + " " + followUpQuestion
}

// courseDetail renders the full description of a single course,
// always disclosing modality, cost, start date, status, and the
// enrollment link. Titles use WhatsApp emphasis.
func courseDetail(c *catalog.Course) string {
	if !c.HasConfirmedVenue() {
		return fmt.Sprintf(
			"Este curso todavía no tiene sede confirmada, es presencial y gratuito, inicia el %s y se encuentra en estado de %s. %s",
			c.LongStartDate(), c.StatusText(), FormLinkReply(c.FormLinkText()),
		)
	}
	return fmt.Sprintf(
		"El curso *%s* se dicta en: %s. Es presencial y gratuito, inicia el %s y está en estado de %s. %s",
		c.Title, strings.Join(c.Localities, ", "),
		c.LongStartDate(), c.StatusText(), FormLinkReply(c.FormLinkText()),
	)
}
