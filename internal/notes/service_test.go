package notes

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestGetAllNotesReturnsTwoNotesInOrder(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	svc := NewInMemoryService(WithClock(fixedClock(at)))

	list := svc.GetAllNotes()
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "first note", first.Title)
	assert.Equal(t, "Content of our first note", first.Content)
	assert.True(t, first.IsPublished)
	require.NotNil(t, first.PublishedAt)
	assert.True(t, first.PublishedAt.Equal(at))
	assert.True(t, first.CreatedAt.Equal(at))

	second := list[1]
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "second note", second.Title)
	assert.False(t, second.IsPublished)
	assert.Nil(t, second.PublishedAt)
	assert.False(t, second.CreatedAt.IsZero())
}

func TestGetAllNotesReturnsIndependentValues(t *testing.T) {
	t.Parallel()

	svc := NewInMemoryService()

	first := svc.GetAllNotes()
	first[0].Title = "mutated"
	*first[0].PublishedAt = time.Time{}
	first = append(first[:1], Note{ID: 99})

	second := svc.GetAllNotes()
	require.Len(t, second, 2)
	assert.Equal(t, "first note", second[0].Title)
	assert.False(t, second[0].PublishedAt.IsZero())
	assert.Equal(t, 2, second[1].ID)
	assert.Len(t, first, 2)
}

func TestGetAllNotesDefaultClockIsUTC(t *testing.T) {
	t.Parallel()

	list := NewInMemoryService().GetAllNotes()
	assert.Equal(t, time.UTC, list[0].CreatedAt.Location())
}

func TestGetAllNotesConcurrentCalls(t *testing.T) {
	t.Parallel()

	svc := NewInMemoryService()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list := svc.GetAllNotes()
			list[0].Title = "changed"
		}()
	}
	wg.Wait()

	assert.Equal(t, "first note", svc.GetAllNotes()[0].Title)
}
