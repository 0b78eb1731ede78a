package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Course{
		{ID: "1", Title: "Albañilería Básica", FormLink: "https://forms.example/a"},
		{ID: "2", Title: "Soldadura", FormLink: "https://forms.example/b"},
	}, []byte(`[]`))
}

func TestCleanAnchor(t *testing.T) {
	got := Clean(`Podés inscribirte acá: <a href="https://forms.example/a">Formulario</a>`, testCatalog())

	assert.Equal(t, "Podés inscribirte acá: Formulario de inscripción: https://forms.example/a", got.Text)
	assert.Equal(t, "https://forms.example/a", got.Link)
}

func TestCleanMarkdownFormLink(t *testing.T) {
	got := Clean("Completá el [formulario de inscripción](https://forms.example/b) cuando quieras.", testCatalog())

	assert.Equal(t, "Completá el Formulario de inscripción: https://forms.example/b cuando quieras.", got.Text)
	assert.Equal(t, "https://forms.example/b", got.Link)
}

func TestCleanStripsTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bold tags",
			in:   "El curso de <strong>Soldadura</strong> es gratuito.",
			want: "El curso de Soldadura es gratuito.",
		},
		{
			name: "unclosed tag",
			in:   "Hola <br> mundo",
			want: "Hola  mundo",
		},
		{
			name: "anchor without quotes is still stripped",
			in:   "Mirá <a href=https://x.example>acá</a>",
			want: "Mirá acá",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.in, testCatalog())
			assert.Equal(t, tt.want, got.Text)
			assert.NotContains(t, got.Text, "<")
			assert.NotContains(t, got.Text, ">")
		})
	}
}

func TestCleanExtractsCourseTitle(t *testing.T) {
	got := Clean("Te recomiendo el curso de Soldadura en Palpalá.", testCatalog())
	assert.Equal(t, "Soldadura", got.CourseTitle)

	// Accent differences still match.
	got = Clean("El curso de albanileria basica arranca en julio.", testCatalog())
	assert.Equal(t, "Albañilería Básica", got.CourseTitle)

	got = Clean("No tenemos cursos de cocina por ahora.", testCatalog())
	assert.Empty(t, got.CourseTitle)
}

func TestCleanLinkFromPlainText(t *testing.T) {
	got := Clean("Inscribite en https://forms.example/b.", testCatalog())
	assert.Equal(t, "https://forms.example/b", got.Link)
}

func TestCleanPlainTextUntouched(t *testing.T) {
	in := "Hay cursos en Palpalá y El Carmen. ¿Cuál te interesa?"
	got := Clean(in, testCatalog())

	assert.Equal(t, in, got.Text)
	assert.Empty(t, got.Link)
}
