package notes

import (
	"errors"
	"testing"
	"time"
)

func TestNotePublishedRequiresFlagAndTimestamp(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	published := Note{IsPublished: true, PublishedAt: &at}
	if got, ok := published.Published(); !ok || !got.Equal(at) {
		t.Fatalf("expected published at %v, got %v (%v)", at, got, ok)
	}

	if _, ok := (Note{IsPublished: true}).Published(); ok {
		t.Fatal("published note without timestamp should report false")
	}
	if _, ok := (Note{IsPublished: false, PublishedAt: &at}).Published(); ok {
		t.Fatal("draft note with timestamp should report false")
	}
}

func TestFindNote(t *testing.T) {
	list := []Note{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}

	note, err := FindNote(list, 2)
	if err != nil {
		t.Fatalf("find note: %v", err)
	}
	if note.Title != "b" {
		t.Fatalf("expected title %q, got %q", "b", note.Title)
	}

	if _, err := FindNote(list, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
