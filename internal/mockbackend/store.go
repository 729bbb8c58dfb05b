package mockbackend

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type document struct {
	ID         string
	Filename   string
	Content    string
	Size       int64
	UploadedAt time.Time
}

// store keeps uploaded documents in memory, like the real backend does
// between restarts.
type store struct {
	mu   sync.RWMutex
	docs map[string]document
	now  func() time.Time
}

func newStore() *store {
	return &store{docs: make(map[string]document), now: time.Now}
}

func (s *store) add(filename, content string, size int64) document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := document{
		ID:         uuid.NewString(),
		Filename:   filename,
		Content:    content,
		Size:       size,
		UploadedAt: s.now(),
	}
	s.docs[doc.ID] = doc
	return doc
}

func (s *store) get(id string) (document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

func (s *store) list() []document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out
}

func (s *store) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	return true
}
