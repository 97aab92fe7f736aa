package mapview

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

func TestStore_Annotations(t *testing.T) {
	s := NewStore()
	c := domain.Coordinate{Lat: 43.861433, Lon: -78.836460}

	id1 := s.AddAnnotation(domain.Annotation{Coordinate: c, Title: "School"})
	id2 := s.AddAnnotation(domain.Annotation{Coordinate: c, Title: "Park"})
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d and %d", id1, id2)
	}

	if err := s.SetAnnotationSubtitle(id2, "Rotary Park, Oshawa"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetAnnotationSubtitle(99, "x"); !errors.Is(err, ErrAnnotationNotFound) {
		t.Errorf("expected ErrAnnotationNotFound, got %v", err)
	}

	want := []domain.Annotation{
		{ID: id1, Coordinate: c, Title: "School"},
		{ID: id2, Coordinate: c, Title: "Park", Subtitle: "Rotary Park, Oshawa"},
	}
	if diff := cmp.Diff(want, s.Snapshot().Annotations); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.AddOverlay(domain.Circle{Radius: 100})

	snap := s.Snapshot()
	snap.Overlays[0].Radius = 1

	if s.Snapshot().Overlays[0].Radius != 100 {
		t.Error("snapshot must not alias store state")
	}
}

func TestStore_Viewport(t *testing.T) {
	s := NewStore()
	if s.Viewport().Span != domain.DefaultSpan {
		t.Errorf("expected default span, got %+v", s.Viewport().Span)
	}

	v := domain.Viewport{Center: domain.Coordinate{Lat: 1, Lon: 2}, Span: domain.Span{LatitudeDelta: 0.2, LongitudeDelta: 0.3}}
	s.SetViewport(v)
	s.SetShowsUserLocation(true)

	snap := s.Snapshot()
	if snap.Viewport != v || !snap.ShowsUserLocation {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}
