//go:build fyne

/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
//
// Ensure you have the Fyne dependencies installed and a working OS driver.
package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"

	"resumestudio/internal/geometry"
	"resumestudio/internal/render"
)

func almostEqual(a, b, eps float32) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func TestEditorCanvas_Defaults(t *testing.T) {
	ec := NewEditorCanvas()
	if ec.zoom != 0.7 {
		t.Fatalf("expected default zoom 0.7, got %v", ec.zoom)
	}
	sz := ec.PreferredSize()
	if sz.Width != 800 || sz.Height != 600 {
		t.Fatalf("unexpected PreferredSize: %v", sz)
	}
	surf := &canvasSurface{ec: ec}
	if !surf.Alive() {
		t.Fatal("fresh canvas should be alive")
	}
	if got := surf.Size(); got.W != render.PageWidth || got.H != render.PageHeight {
		t.Fatalf("surface size should stay in logical page units, got %v", got)
	}
}

func TestEditorCanvas_LayoutGeometry(t *testing.T) {
	ec := NewEditorCanvas()
	r, ok := ec.CreateRenderer().(*editorCanvasRenderer)
	if !ok {
		t.Fatalf("expected editorCanvasRenderer, got %T", ec.CreateRenderer())
	}

	containerSize := fyne.NewSize(1000, 800)
	ec.Resize(containerSize)
	r.Layout(containerSize)

	expectedW := float32(render.PageWidth) * 0.7
	expectedH := float32(render.PageHeight) * 0.7
	page := r.page
	if !almostEqual(page.Size().Width, expectedW, 0.2) || !almostEqual(page.Size().Height, expectedH, 0.2) {
		t.Fatalf("unexpected page size: got %v, want approx (%v x %v)", page.Size(), expectedW, expectedH)
	}

	// Pan offset must move the page by the same amount.
	oldX := page.Position().X
	oldY := page.Position().Y
	ec.offsetX += 100
	ec.offsetY += 50
	r.Layout(containerSize)
	if !almostEqual(page.Position().X, oldX+100, 0.2) || !almostEqual(page.Position().Y, oldY+50, 0.2) {
		t.Fatalf("expected page to move with offsets; before (%v,%v), after %v", oldX, oldY, page.Position())
	}
}

func TestEditorCanvas_CoordinateRoundTrip(t *testing.T) {
	ec := NewEditorCanvas()
	ec.Resize(fyne.NewSize(1000, 800))

	pt := geometry.Pt{X: 120, Y: 340}
	back := ec.toPage(ec.toScreen(pt))
	if !almostEqual(float32(back.X), float32(pt.X), 0.01) || !almostEqual(float32(back.Y), float32(pt.Y), 0.01) {
		t.Fatalf("round trip drifted: %v -> %v", pt, back)
	}
}

func TestHexToColor(t *testing.T) {
	def := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	if c := hexToColor("#ff0000", def); c != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("unexpected color for #ff0000: %v", c)
	}
	if c := hexToColor("#fff", def); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("unexpected color for #fff: %v", c)
	}
	if c := hexToColor("", def); c != def {
		t.Fatalf("empty string should fall back to default, got %v", c)
	}
	if c := hexToColor("red", def); c != def {
		t.Fatalf("non-hex should fall back to default, got %v", c)
	}
}
