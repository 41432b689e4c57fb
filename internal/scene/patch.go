/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "resumestudio/internal/domain"

// duplicateOffset keeps a duplicated object visually distinct from its
// source.
const duplicateOffset = 10

// StylePatch is a partial update to a live object. Nil fields leave the
// current value untouched.
type StylePatch struct {
	Left        *float64
	Top         *float64
	Width       *float64
	Height      *float64
	Radius      *float64
	Fill        *string
	Stroke      *string
	StrokeWidth *float64
	Opacity     *float64
	Text        *string
	FontFamily  *string
	FontSize    *float64
	FontWeight  *string
	FontStyle   *string
	TextAlign   *string
	LineHeight  *float64
	CharSpacing *float64
	Underline   *bool
}

func (p StylePatch) applyTo(s *domain.SceneObjectSpec) {
	if p.Left != nil {
		s.Left = *p.Left
	}
	if p.Top != nil {
		s.Top = *p.Top
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.Radius != nil {
		s.Radius = *p.Radius
	}
	if p.Fill != nil {
		s.Fill = *p.Fill
	}
	if p.Stroke != nil {
		s.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = *p.StrokeWidth
	}
	if p.Opacity != nil {
		s.Opacity = *p.Opacity
	}
	if p.Text != nil {
		s.Text = *p.Text
	}
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		s.FontWeight = *p.FontWeight
	}
	if p.FontStyle != nil {
		s.FontStyle = *p.FontStyle
	}
	if p.TextAlign != nil {
		s.TextAlign = *p.TextAlign
	}
	if p.LineHeight != nil {
		s.LineHeight = *p.LineHeight
	}
	if p.CharSpacing != nil {
		s.CharSpacing = *p.CharSpacing
	}
	if p.Underline != nil {
		s.Underline = *p.Underline
	}
}

// F64 returns a pointer to v, for building patches inline.
func F64(v float64) *float64 { return &v }

// Str returns a pointer to v, for building patches inline.
func Str(v string) *string { return &v }

// Bool returns a pointer to v, for building patches inline.
func Bool(v bool) *bool { return &v }

// Duplicate clones the object with the given id at a small offset and
// appends the clone on top. The clone gets its own generated id.
func (g *Graph) Duplicate(id string) *SceneObject {
	src := g.Get(id)
	if src == nil || src.Overlay {
		return nil
	}
	spec := src.Spec
	spec.Left += duplicateOffset
	spec.Top += duplicateOffset
	d := g.Add(spec)
	d.SupportsInlineEdit = src.SupportsInlineEdit
	return d
}
