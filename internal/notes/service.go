package notes

import "time"

// Service provides the current set of notes.
type Service interface {
	GetAllNotes() []Note
}

type Option func(*InMemoryService)

func WithClock(now func() time.Time) Option {
	return func(s *InMemoryService) {
		if now != nil {
			s.now = now
		}
	}
}

// InMemoryService serves a fixed pair of notes. It holds no state besides the
// clock, so it is safe for concurrent use.
type InMemoryService struct {
	now func() time.Time
}

var _ Service = (*InMemoryService)(nil)

func NewInMemoryService(opts ...Option) *InMemoryService {
	s := &InMemoryService{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryService) GetAllNotes() []Note {
	now := s.now()
	publishedAt := now

	return []Note{
		{
			ID:          1,
			Title:       "first note",
			Content:     "Content of our first note",
			IsPublished: true,
			PublishedAt: &publishedAt,
			CreatedAt:   now,
		},
		{
			ID:          2,
			Title:       "second note",
			Content:     "Content of our second note",
			IsPublished: false,
			PublishedAt: nil,
			CreatedAt:   now,
		},
	}
}
