/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"resumestudio/internal/domain"
	"resumestudio/internal/geometry"
	"resumestudio/internal/scene"
)

// State is the interaction state of the session. Hovering and Selected
// are mutually exclusive: selection suppresses hover feedback entirely.
type State int

const (
	StateIdle State = iota
	StateHovering
	StateSelected
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateHovering:
		return "hovering"
	case StateSelected:
		return "selected"
	case StateEditing:
		return "editing"
	default:
		return "idle"
	}
}

// SubState is the orthogonal gesture state, entered only from Selected.
type SubState int

const (
	SubNone SubState = iota
	SubDragging
	SubResizing
)

// Key identifies the keyboard inputs the session handles. Input is
// routed through the owning session only; there is no global listener.
type Key int

const (
	KeyEnter Key = iota
	KeyEscape
	KeyF2
	KeyDelete
)

// Hover outline styling.
const (
	hoverStroke = "#10b981"
	hoverPad    = 5
)

// minObjectSize keeps resized objects grabbable.
const minObjectSize = 4

// State returns the current interaction state.
func (s *Session) State() State { return s.state }

// SubState returns the current gesture sub-state.
func (s *Session) SubState() SubState { return s.sub }

// HoveredID returns the id of the hovered object, empty outside
// Hovering.
func (s *Session) HoveredID() string { return s.hoveredID }

// SelectedID returns the id of the selected object, empty outside
// Selected/Editing.
func (s *Session) SelectedID() string { return s.selectedID }

// Selected returns the selected live object, nil when none.
func (s *Session) Selected() *scene.SceneObject {
	if s.selectedID == "" {
		return nil
	}
	return s.graph.Get(s.selectedID)
}

// ToolbarAnchor computes the floating-toolbar position for the current
// selection, clamped near the object's top-right corner.
func (s *Session) ToolbarAnchor() (geometry.Pt, bool) {
	o := s.Selected()
	if o == nil {
		return geometry.Pt{}, false
	}
	return geometry.ToolbarAnchor(o.Bounds(), s.graph.Surface().Size()), true
}

// PointerMove drives hover feedback and the drag/resize gestures.
func (s *Session) PointerMove(p geometry.Pt) {
	switch s.sub {
	case SubDragging:
		s.dragTo(p)
		return
	case SubResizing:
		s.resizeTo(p)
		return
	}
	if s.state == StateSelected || s.state == StateEditing {
		// Selection suppresses hover feedback.
		return
	}
	var top *scene.SceneObject
	if hits := s.graph.ObjectsAt(p); len(hits) > 0 {
		top = hits[0]
	}
	if top == nil {
		s.clearHover()
		if s.state == StateHovering {
			s.state = StateIdle
		}
		return
	}
	if top.ID == s.hoveredID {
		return
	}
	// Remove the previous overlay before creating the next one, or
	// overlays accumulate.
	s.clearHover()
	b := top.Bounds().Pad(hoverPad)
	ov := s.graph.AddOverlay(domain.SceneObjectSpec{
		Kind:        domain.KindRect,
		Left:        b.X,
		Top:         b.Y,
		Width:       b.W,
		Height:      b.H,
		Stroke:      hoverStroke,
		StrokeWidth: 2,
	})
	s.hoveredID = top.ID
	s.overlayID = ov.ID
	s.state = StateHovering
}

// PointerLeave clears hover feedback when the pointer exits the canvas.
func (s *Session) PointerLeave() {
	s.clearHover()
	if s.state == StateHovering {
		s.state = StateIdle
	}
}

// PointerDown selects, deselects, or begins a drag/resize gesture.
func (s *Session) PointerDown(p geometry.Pt) {
	if s.state == StateEditing {
		if o := s.Selected(); o != nil && o.Bounds().Contains(p) {
			return // click inside the edited object keeps editing
		}
		s.ExitEditing()
	}
	if s.state == StateSelected {
		if o := s.Selected(); o != nil {
			b := o.Bounds()
			if h := geometry.HandleAt(b, p); h != geometry.HandleNone {
				s.sub = SubResizing
				s.resizeHandle = h
				s.lastPointer = p
				s.gestureMoved = false
				return
			}
			if b.Contains(p) {
				s.sub = SubDragging
				s.lastPointer = p
				s.gestureMoved = false
				return
			}
		}
	}
	var top *scene.SceneObject
	if hits := s.graph.ObjectsAt(p); len(hits) > 0 {
		top = hits[0]
	}
	if top == nil {
		s.Deselect()
		return
	}
	s.selectObject(top)
}

// PointerUp ends a drag/resize gesture; exactly one history snapshot is
// pushed for the whole gesture, and only if it moved anything.
func (s *Session) PointerUp(geometry.Pt) {
	if s.sub == SubNone {
		return
	}
	moved := s.gestureMoved
	s.sub = SubNone
	s.gestureMoved = false
	if moved {
		s.pushHistory()
	}
}

// DoubleClick enters inline editing on a text object.
func (s *Session) DoubleClick(p geometry.Pt) {
	s.PointerDown(p)
	s.sub = SubNone
	s.gestureMoved = false
	if s.state == StateSelected {
		s.EnterEditing()
	}
}

// HandleKey routes a keyboard event. Exactly one live session receives
// keyboard input at a time.
func (s *Session) HandleKey(k Key) {
	switch k {
	case KeyF2:
		if s.state == StateSelected {
			s.EnterEditing()
		}
	case KeyEnter, KeyEscape:
		if s.state == StateEditing {
			s.ExitEditing()
		}
	case KeyDelete:
		if s.state == StateSelected {
			s.DeleteSelected()
		}
	}
}

// FocusLost exits inline editing the same way Enter does.
func (s *Session) FocusLost() {
	if s.state == StateEditing {
		s.ExitEditing()
	}
}

func (s *Session) selectObject(o *scene.SceneObject) {
	// Hover and selection visuals are mutually exclusive.
	s.clearHover()
	s.selectedID = o.ID
	s.state = StateSelected
}

// Deselect returns to Idle from Selected/Editing.
func (s *Session) Deselect() {
	if s.state == StateEditing {
		s.ExitEditing()
	}
	s.selectedID = ""
	if s.state != StateIdle && s.state != StateHovering {
		s.state = StateIdle
	}
}

// EnterEditing moves Selected(text) to Editing. An object without
// inline-edit capability is replaced in place by an edit-capable
// equivalent with the same geometry, style and content; the swap is
// invisible to the user and produces no history entry of its own.
func (s *Session) EnterEditing() {
	o := s.Selected()
	if o == nil || o.Spec.Kind != domain.KindText || s.state != StateSelected {
		return
	}
	if !o.SupportsInlineEdit {
		n := s.graph.Replace(o.ID, o.Spec, true)
		if n == nil {
			return
		}
		s.selectedID = n.ID
	}
	s.editDirty = false
	s.state = StateEditing
}

// SetEditingText mutates the edited object's text. Keystrokes never
// push history; the single push happens when editing exits.
func (s *Session) SetEditingText(text string) {
	if s.state != StateEditing {
		return
	}
	o := s.Selected()
	if o == nil {
		return
	}
	if o.Spec.Text != text {
		o.Spec.Text = text
		s.editDirty = true
	}
}

// ExitEditing returns to Selected, pushing exactly one history entry
// when the text changed.
func (s *Session) ExitEditing() {
	if s.state != StateEditing {
		return
	}
	s.state = StateSelected
	if s.editDirty {
		s.editDirty = false
		s.pushHistory()
	}
}

// DeleteSelected removes the selected object and returns to Idle.
func (s *Session) DeleteSelected() {
	if s.selectedID == "" {
		return
	}
	if s.state == StateEditing {
		s.state = StateSelected
		s.editDirty = false
	}
	if s.graph.Remove(s.selectedID) {
		s.pushHistory()
	}
	s.selectedID = ""
	s.state = StateIdle
}

// DuplicateSelected clones the selected object at a small offset, moves
// selection to the clone and pushes one history entry.
func (s *Session) DuplicateSelected() {
	if s.state != StateSelected {
		return
	}
	d := s.graph.Duplicate(s.selectedID)
	if d == nil {
		return
	}
	s.selectedID = d.ID
	s.pushHistory()
}

// AddObject inserts a new object, selects it and pushes one history
// entry.
func (s *Session) AddObject(spec domain.SceneObjectSpec) *scene.SceneObject {
	o := s.graph.Add(spec)
	s.selectObject(o)
	s.pushHistory()
	return o
}

// UpdateSelected applies a style patch to the selection and pushes one
// history entry.
func (s *Session) UpdateSelected(patch scene.StylePatch) bool {
	if s.selectedID == "" {
		return false
	}
	if !s.graph.Update(s.selectedID, patch) {
		return false
	}
	s.pushHistory()
	return true
}

func (s *Session) dragTo(p geometry.Pt) {
	o := s.Selected()
	if o == nil {
		return
	}
	dx, dy := p.X-s.lastPointer.X, p.Y-s.lastPointer.Y
	if dx == 0 && dy == 0 {
		return
	}
	o.Spec.Left += dx
	o.Spec.Top += dy
	s.lastPointer = p
	s.gestureMoved = true
}

func (s *Session) resizeTo(p geometry.Pt) {
	o := s.Selected()
	if o == nil {
		return
	}
	dx, dy := p.X-s.lastPointer.X, p.Y-s.lastPointer.Y
	if dx == 0 && dy == 0 {
		return
	}
	b := geometry.Resize(o.Bounds(), s.resizeHandle, dx, dy, minObjectSize)
	// Scale is folded straight into the box; the object is anchored
	// top-left so resizing never silently repositions it.
	o.Spec.Left = b.X
	o.Spec.Top = b.Y
	o.Spec.Width = b.W
	o.Spec.Height = b.H
	if o.Spec.Kind == domain.KindCircle {
		o.Spec.Radius = b.W / 2
	}
	s.lastPointer = p
	s.gestureMoved = true
}

func (s *Session) clearHover() {
	if s.overlayID != "" {
		s.graph.Remove(s.overlayID)
		s.overlayID = ""
	}
	s.hoveredID = ""
}
