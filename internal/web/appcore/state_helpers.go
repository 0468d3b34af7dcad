package appcore

import (
	"encoding/json"
	"strconv"
	"strings"

	"technotes/internal/notes"
)

type NoteFilter string

const (
	NoteFilterAll       NoteFilter = "all"
	NoteFilterPublished NoteFilter = "published"
	NoteFilterDrafts    NoteFilter = "drafts"
)

var NoteFilters = []NoteFilter{NoteFilterAll, NoteFilterPublished, NoteFilterDrafts}

func ParseNoteFilter(value string) NoteFilter {
	switch NoteFilter(strings.ToLower(strings.TrimSpace(value))) {
	case NoteFilterPublished:
		return NoteFilterPublished
	case NoteFilterDrafts:
		return NoteFilterDrafts
	default:
		return NoteFilterAll
	}
}

func (f NoteFilter) Includes(note notes.Note) bool {
	switch f {
	case NoteFilterPublished:
		return note.IsPublished
	case NoteFilterDrafts:
		return !note.IsPublished
	default:
		return true
	}
}

func (f NoteFilter) Label() string {
	switch f {
	case NoteFilterPublished:
		return "Published"
	case NoteFilterDrafts:
		return "Drafts"
	default:
		return "All"
	}
}

type NotesSignalState struct {
	Filter string `json:"filter"`
}

func NotesSignalsJSON(view NotesPageView) string {
	payload, err := json.Marshal(NotesSignalState{Filter: string(view.Filter)})
	if err != nil {
		return "{}"
	}
	return string(payload)
}

func FilterAction(filter NoteFilter) string {
	return "$filter=" + strconv.Quote(string(filter)) + "; @get('/notes/live')"
}

func FilterClass(active bool) string {
	if active {
		return "filter active"
	}
	return "filter"
}

func StatusLabel(card NoteCardView) string {
	if card.IsPublished {
		return "published"
	}
	return "draft"
}

func CountsText(view NotesPageView) string {
	return strconv.Itoa(view.TotalCount) + " notes, " + strconv.Itoa(view.PublishedCount) + " published"
}
