package appcore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"technotes/framework"
	"technotes/framework/container"
	"technotes/framework/mediator"
	"technotes/internal/application"
	"technotes/internal/notes"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)

func newTestContext(t *testing.T) *Context {
	t.Helper()

	services := application.AddApplication(container.NewCollection())
	container.AddSingleton(services, func(*container.Provider) (notes.Service, error) {
		return notes.NewInMemoryService(notes.WithClock(func() time.Time { return fixedNow })), nil
	})
	provider, err := services.Build()
	require.NoError(t, err)

	return NewContext(container.MustResolve[*mediator.Mediator](provider), "https://technotes.example")
}

func TestParseNoteFilter(t *testing.T) {
	cases := map[string]NoteFilter{
		"":           NoteFilterAll,
		"all":        NoteFilterAll,
		"Published":  NoteFilterPublished,
		" drafts ":   NoteFilterDrafts,
		"everything": NoteFilterAll,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseNoteFilter(input), "input %q", input)
	}
}

func TestLoadNotesPageAppliesFilter(t *testing.T) {
	appCtx := newTestContext(t)
	req := httptest.NewRequest(http.MethodGet, "/notes?filter=drafts", nil)

	view, err := LoadNotesPage(context.Background(), appCtx, req, framework.EmptyParams{})
	require.NoError(t, err)

	assert.Equal(t, NoteFilterDrafts, view.Filter)
	assert.Equal(t, 2, view.TotalCount)
	assert.Equal(t, 1, view.PublishedCount)
	require.Len(t, view.Notes, 1)
	assert.Equal(t, "second note", view.Notes[0].Title)
	assert.Equal(t, "/notes/2", view.Notes[0].URL)
	assert.Empty(t, view.Notes[0].PublishedAt)
}

func TestLoadNotesLivePageUsesSignalState(t *testing.T) {
	appCtx := newTestContext(t)
	req := httptest.NewRequest(http.MethodGet, "/notes/live", nil)

	view, err := LoadNotesLivePage(context.Background(), appCtx, req, framework.EmptyParams{}, NotesSignalState{Filter: "published"})
	require.NoError(t, err)

	require.Len(t, view.Notes, 1)
	assert.Equal(t, "first note", view.Notes[0].Title)
	assert.Equal(t, "2026-03-04 05:06 UTC", view.Notes[0].PublishedAt)
	assert.Equal(t, `{"filter":"published"}`, NotesSignalsJSON(view))
}

func TestLoadNotePage(t *testing.T) {
	appCtx := newTestContext(t)
	req := httptest.NewRequest(http.MethodGet, "/notes/1", nil)

	view, err := LoadNotePage(context.Background(), appCtx, req, framework.IDParams{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "first note", view.PageTitle)
	assert.Contains(t, string(view.Note.BodyHTML), "Content of our first note")

	_, err = LoadNotePage(context.Background(), appCtx, req, framework.IDParams{ID: 3})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestNoteCardViewMarksOnlyForeignLinks(t *testing.T) {
	note := notes.Note{
		ID:      5,
		Title:   "links",
		Content: "[home](https://technotes.example/notes/2) and [go](https://go.dev/doc)",
	}

	body := string(newNoteCardView(note, "https://technotes.example").BodyHTML)
	assert.Contains(t, body, `href="https://technotes.example/notes/2"`)
	assert.Contains(t, body, `href="https://go.dev/doc"`)
	assert.Equal(t, 1, strings.Count(body, `target="_blank"`))

	body = string(newNoteCardView(note, "").BodyHTML)
	assert.Equal(t, 2, strings.Count(body, `target="_blank"`))
}

func TestLoadersRequireMediator(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)

	_, err := LoadNotesPage(context.Background(), NewContext(nil, ""), req, framework.EmptyParams{})
	require.ErrorIs(t, err, errMediatorUnavailable)
	assert.False(t, IsNotFoundError(err))
}

func TestParseNotesLiveState(t *testing.T) {
	t.Run("query fallback without signals", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notes/live?filter=drafts", nil)
		state, err := ParseNotesLiveState(req)
		require.NoError(t, err)
		assert.Equal(t, "drafts", state.Filter)
	})

	t.Run("signals override query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notes/live?filter=drafts&datastar=%7B%22filter%22%3A%22published%22%7D", nil)
		state, err := ParseNotesLiveState(req)
		require.NoError(t, err)
		assert.Equal(t, "published", state.Filter)
	})

	t.Run("malformed signals", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notes/live?datastar=%7Bbad", nil)
		_, err := ParseNotesLiveState(req)
		require.Error(t, err)
	})
}
