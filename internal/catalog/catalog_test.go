package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureCourses() []Course {
	return []Course{
		{
			ID:         "1",
			Title:      "Albañilería Básica",
			Localities: []string{"Palpalá", "San Salvador de Jujuy"},
			FormLink:   "https://forms.example/alba-basica",
			StartDate:  "2025-07-10",
			Status:     "inscripcion_abierta",
		},
		{
			ID:         "2",
			Title:      "Albañilería Avanzada",
			Localities: []string{"Palpalá"},
			FormLink:   "https://forms.example/alba-avanzada",
		},
		{
			ID:       "3",
			Title:    "Soldadura",
			FormLink: "https://forms.example/soldadura",
		},
		{
			ID:         "4",
			Title:      "Carpintería",
			Localities: []string{"El Carmen"},
		},
	}
}

func fixtureCatalog() *Catalog {
	return New(fixtureCourses(), []byte(`[]`))
}

func TestDeriveLocalities(t *testing.T) {
	cat := fixtureCatalog()

	// First-seen order, no duplicates, unsited courses contribute nothing.
	assert.Equal(t, []string{"Palpalá", "San Salvador de Jujuy", "El Carmen"}, cat.Localities())
}

func TestEmpty(t *testing.T) {
	cat := Empty()

	assert.Zero(t, cat.Len())
	assert.Empty(t, cat.Localities())
	assert.Equal(t, "[]", string(cat.Raw()))

	_, ok := cat.FindTitleInText("quiero el curso de Soldadura")
	assert.False(t, ok)
}

func TestInLocality(t *testing.T) {
	cat := fixtureCatalog()

	courses := cat.InLocality("Palpalá")
	require.Len(t, courses, 2)
	// Sorted by title: Avanzada before Básica.
	assert.Equal(t, "Albañilería Avanzada", courses[0].Title)
	assert.Equal(t, "Albañilería Básica", courses[1].Title)

	assert.Empty(t, cat.InLocality("Tilcara"))
}

func TestFindByTitle(t *testing.T) {
	cat := fixtureCatalog()

	course, ok := cat.FindByTitle("Soldadura")
	require.True(t, ok)
	assert.Equal(t, "3", course.ID)

	_, ok = cat.FindByTitle("soldadura")
	assert.False(t, ok, "exact title lookup is case sensitive")
}

func TestFindTitleInText(t *testing.T) {
	cat := fixtureCatalog()

	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "accent insensitive substring",
			text:  "donde se dicta albanileria basica?",
			want:  "Albañilería Básica",
			found: true,
		},
		{
			name:  "case insensitive",
			text:  "info de SOLDADURA por favor",
			want:  "Soldadura",
			found: true,
		},
		{
			name:  "no title mentioned",
			text:  "hola, que cursos hay?",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course, ok := cat.FindTitleInText(tt.text)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, course.Title)
			}
		})
	}
}

func TestFindTitleAsWord(t *testing.T) {
	cat := fixtureCatalog()

	course, ok := cat.FindTitleAsWord("Te recomiendo el curso de Soldadura en Palpalá.")
	require.True(t, ok)
	assert.Equal(t, "Soldadura", course.Title)

	// Title embedded in a longer word does not count.
	_, ok = cat.FindTitleAsWord("soldaduras industriales")
	assert.False(t, ok)
}

func TestMentionedLocalities(t *testing.T) {
	cat := fixtureCatalog()

	got := cat.MentionedLocalities("hay cursos en palpala o en el carmen?")
	assert.Equal(t, []string{"Palpalá", "El Carmen"}, got)

	assert.Empty(t, cat.MentionedLocalities("hay cursos en Palpalazo?"))
}

func TestCourseStatusText(t *testing.T) {
	open := Course{Status: "inscripcion_abierta"}
	assert.Equal(t, "inscripcion abierta", open.StatusText())

	missing := Course{}
	assert.Equal(t, NotAvailable, missing.StatusText())
	assert.Equal(t, NotAvailable, missing.FormLinkText())
}

func TestLongDate(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{"2025-07-10", "10 de julio"},
		{"2025-01-01", "1 de enero"},
		{"2025-12-31T00:00:00Z", "31 de diciembre"},
		{"", NotAvailable},
		{"proximamente", NotAvailable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LongDate(tt.iso), "LongDate(%q)", tt.iso)
	}
}
