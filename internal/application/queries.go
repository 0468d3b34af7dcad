package application

import (
	"context"
	"fmt"

	"technotes/framework/container"
	"technotes/framework/mediator"
	"technotes/internal/notes"
)

type GetAllNotesQuery struct{}

type GetNoteQuery struct {
	ID int
}

type getAllNotesHandler struct {
	service notes.Service
}

func newGetAllNotesHandler(p *container.Provider) (mediator.Handler[GetAllNotesQuery, []notes.Note], error) {
	service, err := container.Resolve[notes.Service](p)
	if err != nil {
		return nil, err
	}
	return getAllNotesHandler{service: service}, nil
}

func (h getAllNotesHandler) Handle(_ context.Context, _ GetAllNotesQuery) ([]notes.Note, error) {
	return h.service.GetAllNotes(), nil
}

type getNoteHandler struct {
	service notes.Service
}

func newGetNoteHandler(p *container.Provider) (mediator.Handler[GetNoteQuery, notes.Note], error) {
	service, err := container.Resolve[notes.Service](p)
	if err != nil {
		return nil, err
	}
	return getNoteHandler{service: service}, nil
}

func (h getNoteHandler) Handle(_ context.Context, query GetNoteQuery) (notes.Note, error) {
	note, err := notes.FindNote(h.service.GetAllNotes(), query.ID)
	if err != nil {
		return notes.Note{}, fmt.Errorf("get note %d: %w", query.ID, err)
	}
	return note, nil
}

func GetAllNotes(ctx context.Context, m *mediator.Mediator) ([]notes.Note, error) {
	return mediator.Send[GetAllNotesQuery, []notes.Note](ctx, m, GetAllNotesQuery{})
}

func GetNote(ctx context.Context, m *mediator.Mediator, id int) (notes.Note, error) {
	return mediator.Send[GetNoteQuery, notes.Note](ctx, m, GetNoteQuery{ID: id})
}
