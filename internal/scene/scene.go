/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the live, mutable set of visual objects owned by
// one active canvas instance.
package scene

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"resumestudio/internal/domain"
	"resumestudio/internal/geometry"
	applog "resumestudio/internal/log"
	"resumestudio/internal/template"
)

// Surface is the rendering surface a graph draws onto. Restore refuses
// to touch a surface whose drawing context has been lost; applying a
// snapshot to a dead surface corrupts subsequent renders.
type Surface interface {
	Alive() bool
	Size() geometry.Size
}

// ErrSurfaceLost is returned when the drawing surface is detached or its
// context has been invalidated.
var ErrSurfaceLost = errors.New("drawing surface lost")

// SceneObject is one live object. The generated id is issued at
// creation/conversion time and is the handle for lookup across updates,
// deletion and duplication. Overlay objects are transient visual aids
// and never part of serialized history.
type SceneObject struct {
	ID      string
	Spec    domain.SceneObjectSpec
	Overlay bool

	// SupportsInlineEdit marks objects that can enter inline text
	// editing directly. Plain text objects lack it and are upgraded in
	// place when editing starts.
	SupportsInlineEdit bool
}

// Bounds returns the object's axis-aligned bounding box. Text without a
// stored width gets an estimated box from its font metrics.
func (o *SceneObject) Bounds() geometry.Rect {
	s := o.Spec
	switch s.Kind {
	case domain.KindCircle:
		return geometry.R(s.Left, s.Top, s.Radius*2, s.Radius*2)
	case domain.KindLine, domain.KindPolygon:
		if len(s.Points) == 0 {
			return geometry.R(s.Left, s.Top, s.Width, s.Height)
		}
		r := geometry.R(s.Left+s.Points[0].X, s.Top+s.Points[0].Y, 0, 0)
		for _, p := range s.Points[1:] {
			r = r.Union(geometry.R(s.Left+p.X, s.Top+p.Y, 0, 0))
		}
		return r
	case domain.KindText:
		w, h := s.Width, s.Height
		size := s.FontSize
		if size == 0 {
			size = 16
		}
		if w == 0 {
			w = 0.6 * size * float64(len([]rune(s.Text)))
		}
		if h == 0 {
			lh := s.LineHeight
			if lh == 0 {
				lh = 1.16
			}
			h = size * lh
		}
		return geometry.R(s.Left, s.Top, w, h)
	default:
		return geometry.R(s.Left, s.Top, s.Width, s.Height)
	}
}

// Graph is the scene graph: exactly one per active canvas instance.
// All mutation happens on the event loop; the graph itself carries no
// locking.
type Graph struct {
	surface    Surface
	objects    []*SceneObject
	background string
	log        *slog.Logger
}

// New creates an empty graph bound to the given surface.
func New(surface Surface) *Graph {
	return &Graph{
		surface:    surface,
		background: domain.DefaultBackground,
		log:        applog.WithComponent("scene"),
	}
}

// Background returns the canvas background color.
func (g *Graph) Background() string { return g.background }

// SetBackground sets the canvas background color.
func (g *Graph) SetBackground(c string) {
	if c == "" {
		c = domain.DefaultBackground
	}
	g.background = c
}

// Surface returns the rendering surface the graph is bound to.
func (g *Graph) Surface() Surface { return g.surface }

// Len reports the number of persisted (non-overlay) objects.
func (g *Graph) Len() int {
	n := 0
	for _, o := range g.objects {
		if !o.Overlay {
			n++
		}
	}
	return n
}

// Objects returns the persisted objects in z-order.
func (g *Graph) Objects() []*SceneObject {
	out := make([]*SceneObject, 0, len(g.objects))
	for _, o := range g.objects {
		if !o.Overlay {
			out = append(out, o)
		}
	}
	return out
}

// Add creates a live object from spec with a fresh generated id and
// appends it to the scene. The fixed control policy applies: rotation
// stays disabled and geometry is anchored top-left, so the sanitized
// spec always describes the object's actual box.
func (g *Graph) Add(spec domain.SceneObjectSpec) *SceneObject {
	template.SanitizeSpec(&spec)
	spec.Angle = 0
	o := &SceneObject{ID: uuid.NewString(), Spec: spec}
	g.objects = append(g.objects, o)
	return o
}

// AddOverlay adds a transient overlay object (hover outline). Overlays
// are excluded from serialization and from Len/Objects.
func (g *Graph) AddOverlay(spec domain.SceneObjectSpec) *SceneObject {
	o := &SceneObject{ID: uuid.NewString(), Spec: spec, Overlay: true}
	g.objects = append(g.objects, o)
	return o
}

// Get returns the object with the given id, or nil.
func (g *Graph) Get(id string) *SceneObject {
	for _, o := range g.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Remove deletes the object with the given id. It reports whether an
// object was removed.
func (g *Graph) Remove(id string) bool {
	for i, o := range g.objects {
		if o.ID == id {
			g.objects = append(g.objects[:i], g.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Update applies a partial style patch to the object with the given id.
func (g *Graph) Update(id string, patch StylePatch) bool {
	o := g.Get(id)
	if o == nil || o.Overlay {
		return false
	}
	patch.applyTo(&o.Spec)
	template.SanitizeSpec(&o.Spec)
	return true
}

// Replace swaps the object with the given id for a new object carrying
// the provided spec and a fresh generated id, preserving z-order. Used
// by the transparent edit-capability upgrade. Returns the new object.
func (g *Graph) Replace(id string, spec domain.SceneObjectSpec, supportsInlineEdit bool) *SceneObject {
	for i, o := range g.objects {
		if o.ID == id {
			template.SanitizeSpec(&spec)
			n := &SceneObject{ID: uuid.NewString(), Spec: spec, SupportsInlineEdit: supportsInlineEdit}
			g.objects[i] = n
			return n
		}
	}
	return nil
}

// ObjectsAt returns the persisted objects whose bounds contain p, front
// to back. Overlays never hit.
func (g *Graph) ObjectsAt(p geometry.Pt) []*SceneObject {
	var out []*SceneObject
	for i := len(g.objects) - 1; i >= 0; i-- {
		o := g.objects[i]
		if o.Overlay {
			continue
		}
		if o.Bounds().Contains(p) {
			out = append(out, o)
		}
	}
	return out
}

// BringToFront moves the object to the top of the z-order.
func (g *Graph) BringToFront(id string) bool {
	for i, o := range g.objects {
		if o.ID == id {
			g.objects = append(g.objects[:i], g.objects[i+1:]...)
			g.objects = append(g.objects, o)
			return true
		}
	}
	return false
}

// SendToBack moves the object to the bottom of the z-order.
func (g *Graph) SendToBack(id string) bool {
	for i, o := range g.objects {
		if o.ID == id {
			g.objects = append(g.objects[:i], g.objects[i+1:]...)
			g.objects = append([]*SceneObject{o}, g.objects...)
			return true
		}
	}
	return false
}

// Serialize captures the persisted scene as a snapshot. Overlay objects
// are excluded from every serialize operation.
func (g *Graph) Serialize() domain.Snapshot {
	snap := domain.Snapshot{
		Version:    domain.SnapshotVersion,
		Background: g.background,
		Objects:    make([]domain.SceneObjectSpec, 0, len(g.objects)),
	}
	for _, o := range g.objects {
		if o.Overlay {
			continue
		}
		snap.Objects = append(snap.Objects, o.Spec)
	}
	return snap
}

// Restore fully replaces the live list from the snapshot. The snapshot
// is sanitized before it is applied; restored data may originate from an
// older or externally edited snapshot. Restore is a no-op returning
// ErrSurfaceLost when the surface's context is gone.
func (g *Graph) Restore(snap domain.Snapshot) error {
	if g.surface != nil && !g.surface.Alive() {
		g.log.Warn("restore refused, surface lost")
		return ErrSurfaceLost
	}
	template.SanitizeSnapshot(&snap)
	objs := make([]*SceneObject, 0, len(snap.Objects))
	for _, spec := range snap.Objects {
		objs = append(objs, &SceneObject{ID: uuid.NewString(), Spec: spec})
	}
	g.objects = objs
	g.SetBackground(snap.Background)
	return nil
}

// Clear removes every object, overlays included.
func (g *Graph) Clear() {
	g.objects = nil
	g.background = domain.DefaultBackground
}
