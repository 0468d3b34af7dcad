package appcore

import (
	"html/template"
	"strconv"
	"time"

	"technotes/internal/markdown"
	"technotes/internal/notes"
)

const (
	excerptLength = 140
	dateLayout    = "2006-01-02 15:04 MST"
)

type RootLayoutView interface {
	LayoutPageTitle() string
}

type NoteCardView struct {
	ID          int
	URL         string
	Title       string
	Excerpt     string
	BodyHTML    template.HTML
	IsPublished bool
	PublishedAt string
	CreatedAt   string
}

type NotesPageView struct {
	PageTitle      string
	Filter         NoteFilter
	Notes          []NoteCardView
	TotalCount     int
	PublishedCount int
}

type NotePageView struct {
	PageTitle string
	Note      NoteCardView
}

type ErrorPageView struct {
	PageTitle   string
	RequestID   string
	RequestPath string
}

type NotFoundPageView struct {
	PageTitle   string
	RequestPath string
}

func (v NotesPageView) LayoutPageTitle() string    { return v.PageTitle }
func (v NotePageView) LayoutPageTitle() string     { return v.PageTitle }
func (v ErrorPageView) LayoutPageTitle() string    { return v.PageTitle }
func (v NotFoundPageView) LayoutPageTitle() string { return v.PageTitle }

func newNotesPageView(list []notes.Note, filter NoteFilter, hostURL string) NotesPageView {
	view := NotesPageView{
		PageTitle:  "Notes",
		Filter:     filter,
		Notes:      make([]NoteCardView, 0, len(list)),
		TotalCount: len(list),
	}

	for _, note := range list {
		if note.IsPublished {
			view.PublishedCount++
		}
		if !filter.Includes(note) {
			continue
		}
		view.Notes = append(view.Notes, newNoteCardView(note, hostURL))
	}

	return view
}

func newNoteCardView(note notes.Note, hostURL string) NoteCardView {
	card := NoteCardView{
		ID:          note.ID,
		URL:         BuildNoteURL(note.ID),
		Title:       note.Title,
		Excerpt:     markdown.Excerpt(note.Content, excerptLength),
		BodyHTML:    markdown.ToHTML(note.Content, hostURL),
		IsPublished: note.IsPublished,
		CreatedAt:   formatTime(note.CreatedAt),
	}
	if publishedAt, ok := note.Published(); ok {
		card.PublishedAt = formatTime(publishedAt)
	}
	return card
}

func NewErrorPageView(requestID string, requestPath string) ErrorPageView {
	return ErrorPageView{
		PageTitle:   "Error",
		RequestID:   requestID,
		RequestPath: requestPath,
	}
}

func NewNotFoundPageView(requestPath string) NotFoundPageView {
	if requestPath == "" {
		requestPath = "/"
	}
	return NotFoundPageView{
		PageTitle:   "404 Not Found",
		RequestPath: requestPath,
	}
}

func BuildNoteURL(id int) string {
	return "/notes/" + strconv.Itoa(id)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(dateLayout)
}
