package appcore

import (
	"context"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
	"technotes/framework"
	"technotes/internal/application"
)

func LoadNotesPage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	_ framework.EmptyParams,
) (NotesPageView, error) {
	return loadNotes(ctx, appCtx, ParseNoteFilter(r.URL.Query().Get("filter")))
}

func LoadNotesLivePage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	_ framework.EmptyParams,
	state NotesSignalState,
) (NotesPageView, error) {
	return loadNotes(ctx, appCtx, ParseNoteFilter(state.Filter))
}

func LoadNotePage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params framework.IDParams,
) (NotePageView, error) {
	if appCtx == nil || appCtx.mediator == nil {
		return NotePageView{}, errMediatorUnavailable
	}

	note, err := application.GetNote(ctx, appCtx.mediator, params.ID)
	if err != nil {
		return NotePageView{}, err
	}

	card := newNoteCardView(note, appCtx.hostURL)
	return NotePageView{PageTitle: card.Title, Note: card}, nil
}

func ParseNotesLiveState(r *http.Request) (NotesSignalState, error) {
	fallback := NotesSignalState{Filter: r.URL.Query().Get("filter")}
	if r.Method == http.MethodGet && strings.TrimSpace(r.URL.Query().Get(datastar.DatastarKey)) == "" {
		return fallback, nil
	}

	state := fallback
	if err := datastar.ReadSignals(r, &state); err != nil {
		return NotesSignalState{}, err
	}
	return state, nil
}

func loadNotes(ctx context.Context, appCtx *Context, filter NoteFilter) (NotesPageView, error) {
	if appCtx == nil || appCtx.mediator == nil {
		return NotesPageView{}, errMediatorUnavailable
	}

	list, err := application.GetAllNotes(ctx, appCtx.mediator)
	if err != nil {
		return NotesPageView{}, err
	}

	return newNotesPageView(list, filter, appCtx.hostURL), nil
}
