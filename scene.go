package optics

import (
	"fmt"
	"iter"
)

// ElementID is a stable handle to an element in a Scene.
type ElementID handle

// LightID is a stable handle to a light source in a Scene.
type LightID handle

// Element is an optical body: a shape placed in the world with an optional
// material. Elements without a material must be mirrors to take part in
// the simulation.
type Element struct {
	Name      string
	Shape     Shape
	Placement Placement
	Material  string // catalog tag; empty for none
	Mirror    bool

	// Display only.
	Fill    Color
	Outline Color

	ring []Vec2
	tris []int
}

// Ring returns the last valid object-space boundary.
func (e *Element) Ring() []Vec2 { return e.ring }

// Triangles returns the fill triangulation of Ring.
func (e *Element) Triangles() []int { return e.tris }

// WorldRing returns the boundary transformed by the element placement.
func (e *Element) WorldRing() []Vec2 {
	return e.Placement.Transform().ApplyAll(e.ring)
}

// rebuild recomputes the ring. On failure the previous ring is kept.
func (e *Element) rebuild() error {
	ring, err := e.Shape.Ring()
	if err != nil {
		return err
	}
	e.ring = ring
	e.tris = nil
	if e.Shape.Closed() && len(ring) >= 3 {
		tris, err := Triangulate(ring)
		if err != nil {
			Logger().Debug("element fill not triangulated", "element", e.Name, "err", err)
		} else {
			e.tris = tris
		}
	}
	return nil
}

// Scene owns elements and light sources.
type Scene struct {
	elements arena[Element]
	lights   arena[Light]
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add inserts an element and builds its ring. A shape that cannot be built
// leaves the element with an empty ring; the error is logged.
func (s *Scene) Add(e Element) ElementID {
	if err := e.rebuild(); err != nil {
		Logger().Warn("element geometry rejected", "element", e.Name, "kind", e.Shape.Kind, "err", err)
	}
	return ElementID(s.elements.insert(e))
}

// Element returns a copy of the element.
func (s *Scene) Element(id ElementID) (Element, error) {
	e, err := s.elements.get(handle(id))
	if err != nil {
		return Element{}, err
	}
	return *e, nil
}

// Update applies fn to the element and rebuilds its geometry. If the new
// shape cannot be built the previous shape and ring are restored and the
// error returned; other field changes made by fn are kept.
func (s *Scene) Update(id ElementID, fn func(*Element)) error {
	e, err := s.elements.get(handle(id))
	if err != nil {
		return err
	}
	prev := e.Shape.clone()
	fn(e)
	if err := e.rebuild(); err != nil {
		e.Shape = prev
		Logger().Debug("element geometry unchanged", "element", e.Name, "err", err)
		return fmt.Errorf("update %q: %w", e.Name, err)
	}
	return nil
}

// Remove deletes an element. Its handle becomes stale.
func (s *Scene) Remove(id ElementID) error {
	return s.elements.remove(handle(id))
}

// Len returns the number of elements.
func (s *Scene) Len() int { return s.elements.live }

// Elements yields live elements in insertion-slot order.
func (s *Scene) Elements() iter.Seq2[ElementID, *Element] {
	return func(yield func(ElementID, *Element) bool) {
		for h, e := range s.elements.all() {
			if !yield(ElementID(h), e) {
				return
			}
		}
	}
}

// AddLight inserts a light source.
func (s *Scene) AddLight(l Light) LightID {
	return LightID(s.lights.insert(l))
}

// Light returns a copy of the light source.
func (s *Scene) Light(id LightID) (Light, error) {
	l, err := s.lights.get(handle(id))
	if err != nil {
		return Light{}, err
	}
	return *l, nil
}

// UpdateLight applies fn to a light source.
func (s *Scene) UpdateLight(id LightID, fn func(*Light)) error {
	l, err := s.lights.get(handle(id))
	if err != nil {
		return err
	}
	fn(l)
	return nil
}

// RemoveLight deletes a light source.
func (s *Scene) RemoveLight(id LightID) error {
	return s.lights.remove(handle(id))
}

// Lights yields live light sources.
func (s *Scene) Lights() iter.Seq2[LightID, *Light] {
	return func(yield func(LightID, *Light) bool) {
		for h, l := range s.lights.all() {
			if !yield(LightID(h), l) {
				return
			}
		}
	}
}
