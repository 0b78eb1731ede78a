package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/PabloBorneman/whatsapp-bot-railway/internal/errors"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

const fixtureJSON = `[
	{"id":"1","titulo":"Albañilería Básica","localidades":["Palpalá"],"formulario":"https://forms.example/a"},
	{"id":"2","titulo":"Soldadura","localidades":["El Carmen"],"formulario":"https://forms.example/b"}
]`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cursos_personalizados.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse(t *testing.T) {
	courses, err := Parse([]byte(fixtureJSON))
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Albañilería Básica", courses[0].Title)
}

func TestParseDropsDuplicateTitles(t *testing.T) {
	courses, err := Parse([]byte(`[
		{"id":"1","titulo":"Soldadura"},
		{"id":"2","titulo":"Soldadura"},
		{"id":"3","titulo":"Carpintería"}
	]`))
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "1", courses[0].ID, "first record wins on duplicate title")
	assert.Equal(t, "Carpintería", courses[1].Title)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	path := writeFixture(t, fixtureJSON)
	src := FileSource{Path: path}

	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, fixtureJSON, string(data))
	assert.Equal(t, "file:"+path, src.Describe())
}

func TestNewStoreLoadsCatalog(t *testing.T) {
	src := FileSource{Path: writeFixture(t, fixtureJSON)}
	store := NewStore(context.Background(), src, testLogger())

	cat := store.Current()
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, []string{"Palpalá", "El Carmen"}, cat.Localities())
}

func TestNewStoreStartsEmptyOnFailure(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}
	store := NewStore(context.Background(), src, testLogger())

	// The bot must keep running with an empty catalog.
	assert.Zero(t, store.Current().Len())
}

type flakySource struct {
	payloads []string
	errs     []error
	calls    int
}

func (s *flakySource) Fetch(context.Context) ([]byte, error) {
	i := s.calls
	s.calls++
	if s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return []byte(s.payloads[i]), nil
}

func (s *flakySource) Describe() string { return "flaky" }

func TestReloadKeepsPreviousSnapshotOnFailure(t *testing.T) {
	src := &flakySource{
		payloads: []string{fixtureJSON, ""},
		errs:     []error{nil, errors.New("fetch failed")},
	}
	store := NewStore(context.Background(), src, testLogger())
	require.Equal(t, 2, store.Current().Len())

	err := store.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCatalogUnavailable)

	// Failed reload must not clobber the working snapshot.
	assert.Equal(t, 2, store.Current().Len())
}

func TestReloadSwapsSnapshot(t *testing.T) {
	src := &flakySource{
		payloads: []string{fixtureJSON, `[{"id":"9","titulo":"Panadería"}]`},
		errs:     []error{nil, nil},
	}
	store := NewStore(context.Background(), src, testLogger())

	require.NoError(t, store.Reload(context.Background()))
	cat := store.Current()
	require.Equal(t, 1, cat.Len())
	assert.Equal(t, "Panadería", cat.Courses()[0].Title)
}
