/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"resumestudio/internal/domain"
	"resumestudio/internal/geometry"
	"resumestudio/internal/render"
)

func sampleTree() render.DisplayTree {
	return render.DisplayTree{
		Width:      100,
		Height:     120,
		Background: "#ffffff",
		Nodes: []render.DisplayNode{
			{
				Spec:   domain.SceneObjectSpec{Kind: domain.KindRect, Left: 10, Top: 10, Width: 30, Height: 20, Fill: "#ff0000"},
				Bounds: geometry.R(10, 10, 30, 20),
			},
			{
				Spec:   domain.SceneObjectSpec{Kind: domain.KindText, Left: 10, Top: 50, Width: 80, Height: 16, Text: "Hello", Fill: "#000000"},
				Bounds: geometry.R(10, 50, 80, 16),
			},
		},
	}
}

func TestRasterizeAppliesMultiplier(t *testing.T) {
	img := Rasterize(sampleTree(), 2)
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 240 {
		t.Fatalf("raster size %dx%d, want 200x240", b.Dx(), b.Dy())
	}
	// Background pixel
	if got := img.RGBAAt(2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("background pixel = %v", got)
	}
	// Inside the filled rect (10..40 x 10..30 canvas units, doubled)
	if got := img.RGBAAt(40, 30); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("rect pixel = %v", got)
	}
}

func TestWritePNGAndJPEG(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "out.png")
	jpgPath := filepath.Join(dir, "out.jpg")

	if err := WritePNG(pngPath, sampleTree(), Options{Multiplier: 1}); err != nil {
		t.Fatalf("png: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 120 {
		t.Fatalf("png size %v", img.Bounds())
	}

	if err := WriteJPEG(jpgPath, sampleTree(), Options{Multiplier: 1, JPEGQuality: 80}); err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	jf, err := os.Open(jpgPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer jf.Close()
	if _, err := jpeg.Decode(jf); err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
}

func TestWritePDFSinglePage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	got, err := WritePDF(path, sampleTree(), Options{Multiplier: 2})
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if got != path {
		t.Fatalf("written path %q, want %q", got, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) < 8 || string(data[:5]) != "%PDF-" {
		t.Fatal("output is not a pdf")
	}
}

func TestPDFFallbackFilename(t *testing.T) {
	if got := pngFallbackPath("a/b/resume.pdf"); got != "a/b/resume.png" {
		t.Fatalf("fallback path %q", got)
	}
	if got := pngFallbackPath("resume"); got != "resume.png" {
		t.Fatalf("fallback path %q", got)
	}
}

func TestParseHexColor(t *testing.T) {
	def := color.RGBA{1, 2, 3, 255}
	if got := parseHexColor("#10b981", def); got != (color.RGBA{0x10, 0xb9, 0x81, 255}) {
		t.Fatalf("got %v", got)
	}
	if got := parseHexColor("#fff", def); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("short form got %v", got)
	}
	if got := parseHexColor("tomato", def); got != def {
		t.Fatalf("invalid must fall back, got %v", got)
	}
}
