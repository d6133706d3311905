package villains

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxVillains bounds the gallery. Saving an eleventh villain evicts the
// oldest one.
const maxVillains = 10

type Villain struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl,omitempty"`
	SavedAt  time.Time `json:"savedAt"`
}

// Store holds the saved villain gallery, newest first.
type Store struct {
	mu       sync.Mutex
	villains []*Villain
}

func NewStore() *Store {
	return &Store{}
}

// Save upserts a villain by name. A new name evicts the oldest entry once
// the gallery is full.
func (s *Store) Save(name, imageURL string) *Villain {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.villains {
		if v.Name == name {
			v.ImageURL = imageURL
			v.SavedAt = time.Now()
			// resaving moves the villain back to the front
			s.villains = append(s.villains[:i], s.villains[i+1:]...)
			s.villains = append([]*Villain{v}, s.villains...)
			return v
		}
	}

	v := &Villain{
		ID:       uuid.New().String(),
		Name:     name,
		ImageURL: imageURL,
		SavedAt:  time.Now(),
	}
	s.villains = append([]*Villain{v}, s.villains...)
	if len(s.villains) > maxVillains {
		s.villains = s.villains[:maxVillains]
	}
	return v
}

// Get returns the villain with the given name, or nil.
func (s *Store) Get(name string) *Villain {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.villains {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Remove deletes a villain by name, reporting whether it existed.
func (s *Store) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.villains {
		if v.Name == name {
			s.villains = append(s.villains[:i], s.villains[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the gallery, most recently saved first.
func (s *Store) List() []*Villain {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Villain, len(s.villains))
	copy(out, s.villains)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.villains)
}
