package cart

import (
	"errors"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/google/uuid"
)

var (
	ErrLineNotFound = errors.New("cart line not found")
)

// Store is the ordered collection of cart lines for one session.
// Insertion order is display order. Every add creates a new line,
// identical items are never merged.
type Store struct {
	mu    sync.RWMutex
	lines []models.CartLine
	newID func() string
}

// NewStore creates an empty cart
func NewStore() *Store {
	return &Store{
		newID: uuid.NewString,
	}
}

// Add appends a new line with quantity 1 holding a copy of item
func (s *Store) Add(item models.MenuItem) models.CartLine {
	line := models.CartLine{
		ID:          s.newID(),
		Name:        item.Name,
		Price:       item.Price,
		Quantity:    1,
		Category:    item.Category,
		Description: item.Description,
	}

	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()

	return line
}

// Increment adds one to the line's quantity
func (s *Store) Increment(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	s.lines[i].Quantity++
	return nil
}

// Decrement subtracts one from the line's quantity and drops the line at zero
func (s *Store) Decrement(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	s.lines[i].Quantity--
	if s.lines[i].Quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	return nil
}

// Remove deletes the line regardless of its quantity
func (s *Store) Remove(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return nil
}

// Clear empties the cart
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// Len returns the number of lines, not items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// TotalItems is the sum of quantities across all lines
func (s *Store) TotalItems() int {
	return Count(s.Lines(), models.CategoryAll)
}

// Lines returns a copy of every line in insertion order
func (s *Store) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// RemoveLines drops the lines whose ids are listed and returns what is
// left. Lines added after the ids were collected are kept.
func (s *Store) RemoveLines(ids []string) []models.CartLine {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.CartLine, 0, len(s.lines))
	for _, l := range s.lines {
		if _, ok := drop[l.ID]; !ok {
			kept = append(kept, l)
		}
	}
	s.lines = kept

	out := make([]models.CartLine, len(kept))
	copy(out, kept)
	return out
}

// Restore replaces the contents with a persisted snapshot.
// Lines without a positive quantity are dropped; missing ids are
// regenerated and missing categories are assigned round-robin.
func (s *Store) Restore(lines []models.CartLine) {
	restored := make([]models.CartLine, 0, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if l.ID == "" {
			l.ID = s.newID()
		}
		if c, err := models.ParseCategory(string(l.Category)); err == nil {
			l.Category = c
		} else {
			l.Category = models.Categories[i%len(models.Categories)]
		}
		restored = append(restored, l)
	}

	s.mu.Lock()
	s.lines = restored
	s.mu.Unlock()
}

// indexOf must be called with the lock held
func (s *Store) indexOf(lineID string) int {
	for i, l := range s.lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}
