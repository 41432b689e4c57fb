/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history implements the bounded undo/redo stack for one
// editor session.
package history

import "resumestudio/internal/domain"

// DefaultCapacity bounds the stack; the oldest state is evicted when a
// push would exceed it.
const DefaultCapacity = 20

// Stack is a linear list of scene snapshots with a cursor at the
// current state. Pushing while the cursor sits behind the top discards
// the redo branch; there is no branching history.
type Stack struct {
	states []domain.Snapshot
	cursor int // index of the current state, -1 when empty
	cap    int
}

// New returns an empty stack with the given capacity. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{cursor: -1, cap: capacity}
}

// Len reports the number of stored states.
func (s *Stack) Len() int { return len(s.states) }

// ApproxBytes estimates the memory held by stored states, counting
// structural overhead plus string payloads. Useful for surfacing
// history pressure in diagnostics; eviction itself is count-based.
func (s *Stack) ApproxBytes() int {
	total := 0
	for _, st := range s.states {
		total += snapshotBytes(st)
	}
	return total
}

func snapshotBytes(snap domain.Snapshot) int {
	const perObject = 160 // struct fields, slice headers
	n := len(snap.Version) + len(snap.Background)
	for _, o := range snap.Objects {
		n += perObject + len(o.Text) + len(o.Fill) + len(o.Stroke) +
			len(o.FontFamily) + len(o.Src) + 16*len(o.Points)
	}
	return n
}

// Cursor reports the index of the current state, -1 when empty.
func (s *Stack) Cursor() int { return s.cursor }

// Push records a new current state. Any states ahead of the cursor are
// discarded first; when the stack is full the oldest state is evicted
// and the cursor shifts down with it.
func (s *Stack) Push(snap domain.Snapshot) {
	s.states = append(s.states[:s.cursor+1], snap)
	if len(s.states) > s.cap {
		s.states = s.states[1:]
	}
	s.cursor = len(s.states) - 1
}

// CanUndo reports whether a state exists behind the cursor.
func (s *Stack) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether a state exists ahead of the cursor.
func (s *Stack) CanRedo() bool { return s.cursor >= 0 && s.cursor < len(s.states)-1 }

// Undo steps the cursor back and returns that state. The second result
// is false at the beginning of history; the cursor does not move then.
func (s *Stack) Undo() (domain.Snapshot, bool) {
	if !s.CanUndo() {
		return domain.Snapshot{}, false
	}
	s.cursor--
	return s.states[s.cursor], true
}

// Redo steps the cursor forward and returns that state. The second
// result is false at the end of history.
func (s *Stack) Redo() (domain.Snapshot, bool) {
	if !s.CanRedo() {
		return domain.Snapshot{}, false
	}
	s.cursor++
	return s.states[s.cursor], true
}

// Current returns the state under the cursor.
func (s *Stack) Current() (domain.Snapshot, bool) {
	if s.cursor < 0 {
		return domain.Snapshot{}, false
	}
	return s.states[s.cursor], true
}

// Reset drops every state, typically on whole-template replacement.
func (s *Stack) Reset() {
	s.states = nil
	s.cursor = -1
}
