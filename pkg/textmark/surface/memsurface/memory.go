package memsurface

import (
	"github.com/cognicore/textmark/pkg/textmark/surface"
)

// Surface is an in-memory implementation of surface.Surface. Marker classes
// are kept per unit in the order they were applied, like a DOM class list.
type Surface struct {
	layout  surface.Layout
	known   map[surface.UnitID]struct{}
	byCanon map[string][]surface.UnitID
	markers map[surface.UnitID][]string
}

// New creates a surface over layout.
func New(layout surface.Layout) *Surface {
	s := &Surface{
		layout:  layout,
		known:   make(map[surface.UnitID]struct{}),
		byCanon: make(map[string][]surface.UnitID),
		markers: make(map[surface.UnitID][]string),
	}
	for _, seg := range layout.Segments {
		if seg.Kind == surface.Addressable {
			s.known[seg.Unit] = struct{}{}
			s.byCanon[seg.Canonical] = append(s.byCanon[seg.Canonical], seg.Unit)
		}
	}
	return s
}

// Factory adapts New to surface.Factory.
func Factory(layout surface.Layout) (surface.Surface, error) {
	return New(layout), nil
}

// AddMarker implements surface.Surface.
func (s *Surface) AddMarker(unit surface.UnitID, marker string) {
	if _, ok := s.known[unit]; !ok || s.HasMarker(unit, marker) {
		return
	}
	s.markers[unit] = append(s.markers[unit], marker)
}

// RemoveMarker implements surface.Surface.
func (s *Surface) RemoveMarker(unit surface.UnitID, marker string) {
	list := s.markers[unit]
	for i, m := range list {
		if m == marker {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.markers, unit)
		return
	}
	s.markers[unit] = list
}

// HasMarker implements surface.Surface.
func (s *Surface) HasMarker(unit surface.UnitID, marker string) bool {
	for _, m := range s.markers[unit] {
		if m == marker {
			return true
		}
	}
	return false
}

// ToggleMarker implements surface.Surface.
func (s *Surface) ToggleMarker(unit surface.UnitID, marker string) bool {
	if s.HasMarker(unit, marker) {
		s.RemoveMarker(unit, marker)
		return false
	}
	s.AddMarker(unit, marker)
	return s.HasMarker(unit, marker)
}

// UnitsWithSecondarySelector implements surface.Surface.
func (s *Surface) UnitsWithSecondarySelector(canonical string) []surface.UnitID {
	units := s.byCanon[canonical]
	out := make([]surface.UnitID, len(units))
	copy(out, units)
	return out
}

// Reset implements surface.Surface.
func (s *Surface) Reset() {
	s.markers = make(map[surface.UnitID][]string)
}

// Markup implements surface.Surface.
func (s *Surface) Markup() string {
	return surface.Render(s.layout, func(u surface.UnitID) []string {
		return s.markers[u]
	})
}
