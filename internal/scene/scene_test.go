/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"errors"
	"testing"

	"resumestudio/internal/domain"
	"resumestudio/internal/geometry"
)

type fakeSurface struct {
	alive bool
	size  geometry.Size
}

func (f *fakeSurface) Alive() bool         { return f.alive }
func (f *fakeSurface) Size() geometry.Size { return f.size }

func newTestGraph() (*Graph, *fakeSurface) {
	s := &fakeSurface{alive: true, size: geometry.Size{W: 800, H: 1000}}
	return New(s), s
}

func TestAddIssuesUniqueIDsAndSanitizes(t *testing.T) {
	g, _ := newTestGraph()
	a := g.Add(domain.SceneObjectSpec{Kind: "textbox", Text: "hi", TextBaseline: domain.BaselineLegacy, Angle: 45})
	b := g.Add(domain.SceneObjectSpec{Kind: domain.KindRect, Width: 10, Height: 10})
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Spec.Kind != domain.KindText {
		t.Fatalf("kind alias not normalized: %q", a.Spec.Kind)
	}
	if a.Spec.TextBaseline != domain.BaselineAlphabetic {
		t.Fatalf("baseline not sanitized: %q", a.Spec.TextBaseline)
	}
	if a.Spec.Angle != 0 {
		t.Fatalf("rotation must stay disabled, got angle %v", a.Spec.Angle)
	}
}

func TestRemoveAndUpdate(t *testing.T) {
	g, _ := newTestGraph()
	o := g.Add(domain.SceneObjectSpec{Kind: domain.KindRect, Width: 20, Height: 20})
	if !g.Update(o.ID, StylePatch{Left: F64(50), Fill: Str("#ff0000")}) {
		t.Fatal("update reported failure")
	}
	if o.Spec.Left != 50 || o.Spec.Fill != "#ff0000" || o.Spec.Width != 20 {
		t.Fatalf("patch misapplied: %+v", o.Spec)
	}
	if g.Update("missing", StylePatch{}) {
		t.Fatal("update of unknown id must fail")
	}
	if !g.Remove(o.ID) || g.Len() != 0 {
		t.Fatalf("remove failed, len=%d", g.Len())
	}
	if g.Remove(o.ID) {
		t.Fatal("second remove must report false")
	}
}

func TestObjectsAtSkipsOverlaysAndOrdersFrontFirst(t *testing.T) {
	g, _ := newTestGraph()
	back := g.Add(domain.SceneObjectSpec{Kind: domain.KindRect, Left: 0, Top: 0, Width: 100, Height: 100})
	front := g.Add(domain.SceneObjectSpec{Kind: domain.KindRect, Left: 10, Top: 10, Width: 50, Height: 50})
	g.AddOverlay(domain.SceneObjectSpec{Kind: domain.KindRect, Left: 0, Top: 0, Width: 200, Height: 200})

	hits := g.ObjectsAt(geometry.Pt{X: 20, Y: 20})
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != front.ID || hits[1].ID != back.ID {
		t.Fatal("hit order must be front to back")
	}
}

func TestSerializeExcludesOverlays(t *testing.T) {
	g, _ := newTestGraph()
	g.Add(domain.SceneObjectSpec{Kind: domain.KindText, Text: "keep"})
	g.AddOverlay(domain.SceneObjectSpec{Kind: domain.KindRect, Width: 30, Height: 30})
	g.SetBackground("#fafafa")

	snap := g.Serialize()
	if len(snap.Objects) != 1 || snap.Objects[0].Text != "keep" {
		t.Fatalf("overlay leaked into snapshot: %+v", snap.Objects)
	}
	if snap.Version != domain.SnapshotVersion || snap.Background != "#fafafa" {
		t.Fatalf("snapshot header wrong: %+v", snap)
	}
}

func TestRestoreReplacesAndSanitizes(t *testing.T) {
	g, _ := newTestGraph()
	g.Add(domain.SceneObjectSpec{Kind: domain.KindRect, Width: 5, Height: 5})

	snap := domain.Snapshot{
		Version: domain.SnapshotVersion,
		Objects: []domain.SceneObjectSpec{
			{Kind: domain.KindText, Text: "restored", TextBaseline: domain.BaselineLegacy},
		},
	}
	if err := g.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	objs := g.Objects()
	if len(objs) != 1 || objs[0].Spec.Text != "restored" {
		t.Fatalf("restore did not replace scene: %+v", objs)
	}
	if objs[0].Spec.TextBaseline != domain.BaselineAlphabetic {
		t.Fatalf("restored baseline not sanitized: %q", objs[0].Spec.TextBaseline)
	}
	if g.Background() != domain.DefaultBackground {
		t.Fatalf("missing background must default, got %q", g.Background())
	}
}

func TestRestoreRefusedWhenSurfaceLost(t *testing.T) {
	g, surf := newTestGraph()
	g.Add(domain.SceneObjectSpec{Kind: domain.KindRect, Width: 5, Height: 5})
	surf.alive = false

	err := g.Restore(domain.EmptySnapshot())
	if !errors.Is(err, ErrSurfaceLost) {
		t.Fatalf("expected ErrSurfaceLost, got %v", err)
	}
	if g.Len() != 1 {
		t.Fatal("scene must be untouched after refused restore")
	}
}

func TestDuplicateOffsetsAndKeepsIdentityDistinct(t *testing.T) {
	g, _ := newTestGraph()
	src := g.Add(domain.SceneObjectSpec{Kind: domain.KindText, Left: 100, Top: 200, Text: "hi"})
	src.SupportsInlineEdit = true

	dup := g.Duplicate(src.ID)
	if dup == nil || dup.ID == src.ID {
		t.Fatal("duplicate must yield a new object with its own id")
	}
	if dup.Spec.Left != 110 || dup.Spec.Top != 210 {
		t.Fatalf("duplicate offset wrong: %v,%v", dup.Spec.Left, dup.Spec.Top)
	}
	if !dup.SupportsInlineEdit {
		t.Fatal("duplicate must keep edit capability")
	}
	if g.Duplicate("missing") != nil {
		t.Fatal("duplicating unknown id must return nil")
	}
}

func TestReplacePreservesZOrder(t *testing.T) {
	g, _ := newTestGraph()
	bottom := g.Add(domain.SceneObjectSpec{Kind: domain.KindRect, Width: 1, Height: 1})
	mid := g.Add(domain.SceneObjectSpec{Kind: domain.KindText, Text: "plain"})
	top := g.Add(domain.SceneObjectSpec{Kind: domain.KindRect, Width: 1, Height: 1})

	spec := mid.Spec
	n := g.Replace(mid.ID, spec, true)
	if n == nil || n.ID == mid.ID || !n.SupportsInlineEdit {
		t.Fatalf("replace result wrong: %+v", n)
	}
	objs := g.Objects()
	if objs[0].ID != bottom.ID || objs[1].ID != n.ID || objs[2].ID != top.ID {
		t.Fatal("replace must preserve z-order position")
	}
}

func TestTextBoundsEstimated(t *testing.T) {
	g, _ := newTestGraph()
	o := g.Add(domain.SceneObjectSpec{Kind: domain.KindText, Left: 10, Top: 20, Text: "abcd", FontSize: 20})
	b := o.Bounds()
	if b.X != 10 || b.Y != 20 {
		t.Fatalf("bounds origin wrong: %+v", b)
	}
	if b.W <= 0 || b.H <= 0 {
		t.Fatalf("estimated text box must be positive: %+v", b)
	}
}
