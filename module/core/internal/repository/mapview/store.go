package mapview

import (
	"errors"
	"sync"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

var ErrAnnotationNotFound = errors.New("annotation not found")

// Snapshot is the full render state of the map.
type Snapshot struct {
	ShowsUserLocation bool                `json:"shows_user_location"`
	Viewport          domain.Viewport     `json:"viewport"`
	Overlays          []domain.Circle     `json:"overlays"`
	Annotations       []domain.Annotation `json:"annotations"`
}

// Store is an in-memory map surface. Overlays and annotations live for the
// lifetime of the process.
type Store struct {
	mu                sync.RWMutex
	showsUserLocation bool
	viewport          domain.Viewport
	overlays          []domain.Circle
	annotations       []domain.Annotation
	nextID            int
}

func NewStore() *Store {
	return &Store{
		viewport: domain.Viewport{Span: domain.DefaultSpan},
		nextID:   1,
	}
}

func (s *Store) SetShowsUserLocation(show bool) {
	s.mu.Lock()
	s.showsUserLocation = show
	s.mu.Unlock()
}

func (s *Store) AddOverlay(c domain.Circle) {
	s.mu.Lock()
	s.overlays = append(s.overlays, c)
	s.mu.Unlock()
}

// AddAnnotation assigns an ID and returns it.
func (s *Store) AddAnnotation(a domain.Annotation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID
	s.nextID++
	s.annotations = append(s.annotations, a)
	return a.ID
}

func (s *Store) SetAnnotationSubtitle(id int, subtitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.annotations {
		if s.annotations[i].ID == id {
			s.annotations[i].Subtitle = subtitle
			return nil
		}
	}
	return ErrAnnotationNotFound
}

func (s *Store) Viewport() domain.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

func (s *Store) SetViewport(v domain.Viewport) {
	s.mu.Lock()
	s.viewport = v
	s.mu.Unlock()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		ShowsUserLocation: s.showsUserLocation,
		Viewport:          s.viewport,
		Overlays:          make([]domain.Circle, len(s.overlays)),
		Annotations:       make([]domain.Annotation, len(s.annotations)),
	}
	copy(snap.Overlays, s.overlays)
	copy(snap.Annotations, s.annotations)
	return snap
}
