package notes

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type Note struct {
	ID          int        `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Content     string     `json:"content" yaml:"content"`
	IsPublished bool       `json:"is_published" yaml:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}

// Published returns the publication time when the note is published and
// carries one. A published note without a timestamp reports false.
func (n Note) Published() (time.Time, bool) {
	if !n.IsPublished || n.PublishedAt == nil {
		return time.Time{}, false
	}
	return *n.PublishedAt, true
}

func FindNote(list []Note, id int) (Note, error) {
	for _, note := range list {
		if note.ID == id {
			return note, nil
		}
	}
	return Note{}, ErrNotFound
}
