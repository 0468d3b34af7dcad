package web

import (
	"technotes/framework"
	"technotes/framework/router"
	"technotes/internal/web/appcore"
	"technotes/internal/web/components"
)

const (
	rootPattern      = "/"
	notesPattern     = "/notes"
	notesLivePattern = "/notes/live"
	notePattern      = "/notes/[id]"
)

type (
	notesRouteHandler = framework.PageLiveRouteHandler[*appcore.Context, framework.EmptyParams, appcore.NotesSignalState, appcore.NotesPageView]
	notesPageModule   = framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.NotesPageView]
	noteRouteHandler  = framework.PageOnlyRouteHandler[*appcore.Context, framework.IDParams, appcore.NotePageView]
)

// Routes lists every component route. Live routes are matched before pages, so
// /notes/live never reaches the /notes/[id] page.
func Routes() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.PageOnlyRouteHandler[*appcore.Context, framework.EmptyParams, appcore.NotesPageView]{
			Page: notesPage(rootPattern),
		},
		notesRouteHandler{
			Page: notesPage(notesPattern),
			Live: framework.LiveModule[*appcore.Context, framework.EmptyParams, appcore.NotesSignalState, appcore.NotesPageView]{
				Pattern:     notesLivePattern,
				SelectorID:  components.NotesContentID,
				ParseParams: router.Exact(notesLivePattern),
				ParseState:  appcore.ParseNotesLiveState,
				Load:        appcore.LoadNotesLivePage,
				Render:      components.NotesContent,
			},
		},
		noteRouteHandler{
			Page: framework.PageModule[*appcore.Context, framework.IDParams, appcore.NotePageView]{
				Pattern:     notePattern,
				ParseParams: router.ID(notePattern),
				Load:        appcore.LoadNotePage,
				Render:      components.NotePage,
				Layouts: []framework.LayoutRenderer[appcore.NotePageView]{
					layout[appcore.NotePageView],
				},
			},
		},
	}
}

func notesPage(pattern string) notesPageModule {
	return notesPageModule{
		Pattern:     pattern,
		ParseParams: router.Exact(pattern),
		Load:        appcore.LoadNotesPage,
		Render:      components.NotesPage,
		Layouts: []framework.LayoutRenderer[appcore.NotesPageView]{
			layout[appcore.NotesPageView],
		},
	}
}
