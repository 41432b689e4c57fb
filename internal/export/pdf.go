/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	applog "resumestudio/internal/log"
	"resumestudio/internal/render"
)

// A4 page size in points.
const (
	a4WidthPt  = 595.28
	a4HeightPt = 841.89
	pdfMargin  = 24.0
)

// WritePDF rasterizes the tree and wraps it into a single-page A4 PDF
// at path, scaled to fit while preserving the canvas aspect ratio. When
// PDF generation fails the raster is written as a PNG next to the
// requested path instead; the returned path names whichever file was
// actually written.
func WritePDF(path string, tree render.DisplayTree, opt Options) (string, error) {
	log := applog.WithComponent("export")

	img := Rasterize(tree, opt.multiplier())
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode raster: %w", err)
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Resume", false)
	pdf.AddPage()

	// Fit the canvas into the content box, preserving aspect.
	availW := a4WidthPt - 2*pdfMargin
	availH := a4HeightPt - 2*pdfMargin
	w, h := tree.Width, tree.Height
	if w <= 0 || h <= 0 {
		w, h = render.PageWidth, render.PageHeight
	}
	scale := availW / w
	if h*scale > availH {
		scale = availH / h
	}
	drawW, drawH := w*scale, h*scale
	x := pdfMargin + (availW-drawW)/2
	y := pdfMargin + (availH-drawH)/2

	pdf.RegisterImageOptionsReader("canvas", gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	pdf.ImageOptions("canvas", x, y, drawW, drawH, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if err := writePDFFile(pdf, path); err != nil {
		fallback := pngFallbackPath(path)
		log.Warn("pdf generation failed, writing png instead", "error", err, "path", fallback)
		if perr := WritePNG(fallback, tree, opt); perr != nil {
			return "", fmt.Errorf("pdf failed (%v) and png fallback failed: %w", err, perr)
		}
		return fallback, nil
	}
	return path, nil
}

func writePDFFile(pdf *gofpdf.Fpdf, path string) error {
	if pdf.Err() {
		return fmt.Errorf("pdf build: %s", pdf.Error())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := pdf.Output(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close pdf: %w", err)
	}
	return nil
}

func pngFallbackPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return path[:len(path)-4] + ".png"
	}
	return path + ".png"
}
