/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export rasterizes a rendered display tree to PNG/JPEG and
// wraps it into a single-page PDF. Export never touches the live scene;
// a failure mid-export leaves the canvas state untouched and editable.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"resumestudio/internal/domain"
	"resumestudio/internal/render"
)

// Options controls export output.
// Multiplier scales the raster resolution; JPEGQuality is 1..100.
type Options struct {
	Multiplier  float64
	JPEGQuality int
}

func (o Options) multiplier() float64 {
	if o.Multiplier <= 0 {
		return 2
	}
	return o.Multiplier
}

func (o Options) quality() int {
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		return 90
	}
	return o.JPEGQuality
}

// Rasterize draws the display tree into an RGBA image at the given
// multiplier. Text uses a bitmap face; positions and boxes scale
// exactly, glyphs do not.
func Rasterize(tree render.DisplayTree, mult float64) *image.RGBA {
	if mult <= 0 {
		mult = 1
	}
	pixW := int(math.Round(tree.Width * mult))
	pixH := int(math.Round(tree.Height * mult))
	if pixW <= 0 || pixH <= 0 {
		pixW, pixH = int(render.PageWidth*mult), int(render.PageHeight*mult)
	}
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: parseHexColor(tree.Background, color.RGBA{255, 255, 255, 255})}, image.Point{}, draw.Src)

	for _, n := range tree.Nodes {
		drawNode(img, n, mult)
	}
	return img
}

func drawNode(img *image.RGBA, n render.DisplayNode, mult float64) {
	s := n.Spec
	x0 := int(math.Round(n.Bounds.X * mult))
	y0 := int(math.Round(n.Bounds.Y * mult))
	x1 := int(math.Round((n.Bounds.X + n.Bounds.W) * mult))
	y1 := int(math.Round((n.Bounds.Y + n.Bounds.H) * mult))

	switch s.Kind {
	case domain.KindText:
		drawText(img, s, x0, y0, y1)
	case domain.KindCircle:
		fillEllipse(img, x0, y0, x1, y1, parseHexColor(s.Fill, color.RGBA{0, 0, 0, 255}))
		if s.Stroke != "" {
			strokeEllipse(img, x0, y0, x1, y1, parseHexColor(s.Stroke, color.RGBA{0, 0, 0, 255}))
		}
	case domain.KindLine:
		drawLinePoints(img, s, mult)
	default:
		if s.Fill != "" {
			fillRect(img, x0, y0, x1-1, y1-1, parseHexColor(s.Fill, color.RGBA{0, 0, 0, 255}))
		}
		if s.Stroke != "" {
			strokeRect(img, x0, y0, x1-1, y1-1, parseHexColor(s.Stroke, color.RGBA{0, 0, 0, 255}))
		}
	}
}

func drawText(img *image.RGBA, s domain.SceneObjectSpec, x0, y0, y1 int) {
	col := parseHexColor(s.Fill, color.RGBA{0, 0, 0, 255})
	face := basicfont.Face7x13
	baseline := y0 + face.Ascent
	if y1 > y0 {
		mid := (y0 + y1) / 2
		baseline = mid + face.Ascent/2
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x0, baseline),
	}
	d.DrawString(s.Text)
}

func drawLinePoints(img *image.RGBA, s domain.SceneObjectSpec, mult float64) {
	if len(s.Points) < 2 {
		return
	}
	col := parseHexColor(s.Stroke, color.RGBA{0, 0, 0, 255})
	for i := 1; i < len(s.Points); i++ {
		a, b := s.Points[i-1], s.Points[i]
		drawLine(img,
			int(math.Round((s.Left+a.X)*mult)), int(math.Round((s.Top+a.Y)*mult)),
			int(math.Round((s.Left+b.X)*mult)), int(math.Round((s.Top+b.Y)*mult)), col)
	}
}

// WritePNG rasterizes the tree and writes a PNG file at path.
func WritePNG(path string, tree render.DisplayTree, opt Options) error {
	img := Rasterize(tree, opt.multiplier())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// WriteJPEG rasterizes the tree and writes a JPEG file at path.
func WriteJPEG(path string, tree render.DisplayTree, opt Options) error {
	img := Rasterize(tree, opt.multiplier())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create jpeg: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: opt.quality()}); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close jpeg: %w", err)
	}
	return nil
}

// parseHexColor parses #rgb or #rrggbb; anything else yields def.
func parseHexColor(s string, def color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return def
	}
	hex := s[1:]
	var r, g, b uint8
	switch len(hex) {
	case 3:
		v, err := parseHexByte(string([]byte{hex[0], hex[0]}))
		if err != nil {
			return def
		}
		r = v
		if v, err = parseHexByte(string([]byte{hex[1], hex[1]})); err != nil {
			return def
		}
		g = v
		if v, err = parseHexByte(string([]byte{hex[2], hex[2]})); err != nil {
			return def
		}
		b = v
	case 6:
		var err error
		if r, err = parseHexByte(hex[0:2]); err != nil {
			return def
		}
		if g, err = parseHexByte(hex[2:4]); err != nil {
			return def
		}
		if b, err = parseHexByte(hex[4:6]); err != nil {
			return def
		}
	default:
		return def
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func parseHexByte(s string) (uint8, error) {
	var v uint8
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d uint8
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, fmt.Errorf("bad hex digit %q", c)
		}
		v = v<<4 | d
	}
	return v, nil
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func fillEllipse(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	cx, cy := float64(x0+x1)/2, float64(y0+y1)/2
	rx, ry := float64(x1-x0)/2, float64(y1-y0)/2
	if rx <= 0 || ry <= 0 {
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := (float64(x)-cx)/rx, (float64(y)-cy)/ry
			if dx*dx+dy*dy <= 1 {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func strokeEllipse(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	cx, cy := float64(x0+x1)/2, float64(y0+y1)/2
	rx, ry := float64(x1-x0)/2, float64(y1-y0)/2
	if rx <= 0 || ry <= 0 {
		return
	}
	steps := 4 * (x1 - x0 + y1 - y0)
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		img.SetRGBA(int(math.Round(cx+rx*math.Cos(t))), int(math.Round(cy+ry*math.Sin(t))), col)
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
