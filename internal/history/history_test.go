/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

import (
	"fmt"
	"testing"

	"resumestudio/internal/domain"
)

func snapNamed(name string) domain.Snapshot {
	return domain.Snapshot{
		Version:    domain.SnapshotVersion,
		Background: domain.DefaultBackground,
		Objects:    []domain.SceneObjectSpec{{Kind: domain.KindText, Text: name}},
	}
}

func snapName(s domain.Snapshot) string {
	if len(s.Objects) == 0 {
		return ""
	}
	return s.Objects[0].Text
}

func TestPushUndoRedo(t *testing.T) {
	h := New(0)
	h.Push(snapNamed("a"))
	h.Push(snapNamed("b"))
	h.Push(snapNamed("c"))

	if !h.CanUndo() {
		t.Fatal("expected undo available")
	}
	s, ok := h.Undo()
	if !ok || snapName(s) != "b" {
		t.Fatalf("undo got %q", snapName(s))
	}
	s, ok = h.Undo()
	if !ok || snapName(s) != "a" {
		t.Fatalf("undo got %q", snapName(s))
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo past the beginning must fail")
	}
	s, ok = h.Redo()
	if !ok || snapName(s) != "b" {
		t.Fatalf("redo got %q", snapName(s))
	}
	s, ok = h.Redo()
	if !ok || snapName(s) != "c" {
		t.Fatalf("redo got %q", snapName(s))
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo past the end must fail")
	}
}

func TestPushAfterUndoTruncatesRedoBranch(t *testing.T) {
	h := New(0)
	h.Push(snapNamed("a"))
	h.Push(snapNamed("b"))
	h.Push(snapNamed("c"))
	if _, ok := h.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if _, ok := h.Undo(); !ok {
		t.Fatal("undo failed")
	}

	h.Push(snapNamed("d"))
	if h.CanRedo() {
		t.Fatal("redo branch must be gone after push")
	}
	if h.Len() != 2 {
		t.Fatalf("expected 2 states, got %d", h.Len())
	}
	s, _ := h.Current()
	if snapName(s) != "d" {
		t.Fatalf("current is %q, want d", snapName(s))
	}
	s, _ = h.Undo()
	if snapName(s) != "a" {
		t.Fatalf("undo after truncation got %q, want a", snapName(s))
	}
}

func TestCapacityEvictsOldestAndKeepsCursorValid(t *testing.T) {
	h := New(20)
	for i := 0; i < 25; i++ {
		h.Push(snapNamed(fmt.Sprintf("s%d", i)))
	}
	if h.Len() != 20 {
		t.Fatalf("len=%d, want 20", h.Len())
	}
	if h.Cursor() != 19 {
		t.Fatalf("cursor=%d, want 19", h.Cursor())
	}
	s, _ := h.Current()
	if snapName(s) != "s24" {
		t.Fatalf("current=%q, want s24", snapName(s))
	}
	// Walk all the way back; the earliest reachable state is s5.
	var last domain.Snapshot
	for h.CanUndo() {
		last, _ = h.Undo()
	}
	if snapName(last) != "s5" {
		t.Fatalf("oldest=%q, want s5", snapName(last))
	}
}

func TestApproxBytesGrowsAndShrinks(t *testing.T) {
	h := New(0)
	if h.ApproxBytes() != 0 {
		t.Fatalf("empty stack should report 0 bytes, got %d", h.ApproxBytes())
	}
	h.Push(snapNamed("a"))
	one := h.ApproxBytes()
	if one <= 0 {
		t.Fatalf("one snapshot should report positive bytes, got %d", one)
	}
	h.Push(snapNamed("b"))
	if h.ApproxBytes() <= one {
		t.Fatalf("second push should grow the estimate: %d then %d", one, h.ApproxBytes())
	}
	h.Reset()
	if h.ApproxBytes() != 0 {
		t.Fatalf("reset should drop the estimate to 0, got %d", h.ApproxBytes())
	}
}

func TestReset(t *testing.T) {
	h := New(0)
	h.Push(snapNamed("a"))
	h.Reset()
	if h.Len() != 0 || h.CanUndo() || h.CanRedo() {
		t.Fatal("reset must leave an empty stack")
	}
	if _, ok := h.Current(); ok {
		t.Fatal("current on empty stack must fail")
	}
}
