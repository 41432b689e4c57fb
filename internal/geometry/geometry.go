/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Basic 2D geometry for canvas hit testing and toolbar anchoring.
// Canvas coordinates use float64 to match the stored snapshot format.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Pad returns a rectangle grown by p on all sides.
func (r Rect) Pad(p float64) Rect { return r.Inset(-p, -p) }

// Handle identifies one of the eight resize handles on a selection box.
// The rotation handle does not exist; rotation is locked for all objects.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleMidLeft
	HandleMidRight
)

// HandleSize is the hit radius of a resize handle in canvas units.
const HandleSize = 6

// HandleAt reports which resize handle of the selection box around r the
// point p falls on. Top and bottom middle handles are intentionally
// absent; text resizes horizontally and via corners only.
func HandleAt(r Rect, p Pt) Handle {
	hit := func(c Pt) bool {
		return math.Abs(p.X-c.X) <= HandleSize && math.Abs(p.Y-c.Y) <= HandleSize
	}
	switch {
	case hit(Pt{r.X, r.Y}):
		return HandleTopLeft
	case hit(Pt{r.X + r.W, r.Y}):
		return HandleTopRight
	case hit(Pt{r.X, r.Y + r.H}):
		return HandleBottomLeft
	case hit(Pt{r.X + r.W, r.Y + r.H}):
		return HandleBottomRight
	case hit(Pt{r.X, r.Y + r.H/2}):
		return HandleMidLeft
	case hit(Pt{r.X + r.W, r.Y + r.H/2}):
		return HandleMidRight
	}
	return HandleNone
}

// Resize returns r resized by dragging handle h by (dx, dy). The anchor
// stays at the opposite edge so resizing never silently repositions the
// object beyond the dragged side. Width and height never drop below min.
func Resize(r Rect, h Handle, dx, dy, min float64) Rect {
	out := r
	switch h {
	case HandleTopLeft:
		out.X += dx
		out.Y += dy
		out.W -= dx
		out.H -= dy
	case HandleTopRight:
		out.Y += dy
		out.W += dx
		out.H -= dy
	case HandleBottomLeft:
		out.X += dx
		out.W -= dx
		out.H += dy
	case HandleBottomRight:
		out.W += dx
		out.H += dy
	case HandleMidLeft:
		out.X += dx
		out.W -= dx
	case HandleMidRight:
		out.W += dx
	default:
		return r
	}
	if out.W < min {
		if h == HandleTopLeft || h == HandleBottomLeft || h == HandleMidLeft {
			out.X = r.X + r.W - min
		}
		out.W = min
	}
	if out.H < min {
		if h == HandleTopLeft || h == HandleTopRight {
			out.Y = r.Y + r.H - min
		}
		out.H = min
	}
	return out
}

// ToolbarAnchor computes the floating-toolbar anchor for the object
// bounds b: the top-right corner nudged upward, clamped to the canvas so
// the toolbar never leaves the visible area.
func ToolbarAnchor(b Rect, canvas Size) Pt {
	const lift = 5
	p := Pt{X: b.X + b.W*0.95, Y: b.Y - lift}
	if p.X < 0 {
		p.X = 0
	}
	if p.X > canvas.W {
		p.X = canvas.W
	}
	if p.Y < 0 {
		// Not enough room above: drop below the object instead.
		p.Y = b.Y + b.H + lift
	}
	if p.Y > canvas.H {
		p.Y = canvas.H
	}
	return p
}
