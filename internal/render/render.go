/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render is the read-only preview path. One adapter per
// template variant turns a document plus a data context into an inert
// display tree. Adapters consume the normalizer and the substitution
// engine only; they never construct a scene graph or touch interaction
// state, so a preview cannot mutate a live document.
package render

import (
	"fmt"

	"resumestudio/internal/domain"
	"resumestudio/internal/geometry"
	"resumestudio/internal/subst"
	"resumestudio/internal/template"
)

// Default page size in canvas units, matching the editor canvas.
const (
	PageWidth  = 800
	PageHeight = 1000
)

// DisplayNode is one positioned element of a rendered preview.
type DisplayNode struct {
	Spec   domain.SceneObjectSpec
	Bounds geometry.Rect
}

// DisplayTree is the inert output of rendering one document. Canvas and
// component-tree documents produce Nodes; HTML documents carry the
// substituted markup instead.
type DisplayTree struct {
	Width      float64
	Height     float64
	Background string
	Nodes      []DisplayNode
	HTML       string
}

// Adapter renders one template variant.
type Adapter interface {
	Render(doc domain.TemplateDocument, ctx domain.VariableContext) (DisplayTree, error)
}

// ForVariant returns the adapter for the document variant.
func ForVariant(v domain.TemplateVariant) (Adapter, error) {
	switch v {
	case domain.VariantHTML:
		return htmlAdapter{}, nil
	case domain.VariantCanvas:
		return canvasAdapter{}, nil
	case domain.VariantComponentTree:
		return builderAdapter{}, nil
	default:
		return nil, fmt.Errorf("render: unsupported template variant %q", v)
	}
}

// Render dispatches to the adapter matching the document's variant.
func Render(doc domain.TemplateDocument, ctx domain.VariableContext) (DisplayTree, error) {
	a, err := ForVariant(doc.Variant)
	if err != nil {
		return DisplayTree{}, err
	}
	return a.Render(doc, ctx)
}

type htmlAdapter struct{}

func (htmlAdapter) Render(doc domain.TemplateDocument, ctx domain.VariableContext) (DisplayTree, error) {
	return DisplayTree{
		Width:      PageWidth,
		Height:     PageHeight,
		Background: domain.DefaultBackground,
		HTML:       subst.Substitute(doc.HTML, ctx),
	}, nil
}

type canvasAdapter struct{}

func (canvasAdapter) Render(doc domain.TemplateDocument, ctx domain.VariableContext) (DisplayTree, error) {
	specs, err := template.Normalize(doc, ctx)
	if err != nil {
		return DisplayTree{}, err
	}
	bg := domain.DefaultBackground
	if doc.Canvas != nil && doc.Canvas.Background != "" {
		bg = doc.Canvas.Background
	}
	return treeFrom(specs, bg), nil
}

type builderAdapter struct{}

func (builderAdapter) Render(doc domain.TemplateDocument, ctx domain.VariableContext) (DisplayTree, error) {
	specs, err := template.Normalize(doc, ctx)
	if err != nil {
		return DisplayTree{}, err
	}
	return treeFrom(specs, domain.DefaultBackground), nil
}

func treeFrom(specs []domain.SceneObjectSpec, bg string) DisplayTree {
	tree := DisplayTree{Width: PageWidth, Height: PageHeight, Background: bg}
	for _, spec := range specs {
		tree.Nodes = append(tree.Nodes, DisplayNode{Spec: spec, Bounds: boundsOf(spec)})
	}
	return tree
}

// boundsOf mirrors the live object bounds estimate for static specs.
func boundsOf(s domain.SceneObjectSpec) geometry.Rect {
	switch s.Kind {
	case domain.KindCircle:
		return geometry.R(s.Left, s.Top, s.Radius*2, s.Radius*2)
	case domain.KindText:
		w, h := s.Width, s.Height
		size := s.FontSize
		if size == 0 {
			size = 16
		}
		if w == 0 {
			w = 0.6 * size * float64(len([]rune(s.Text)))
		}
		if h == 0 {
			lh := s.LineHeight
			if lh == 0 {
				lh = 1.16
			}
			h = size * lh
		}
		return geometry.R(s.Left, s.Top, w, h)
	default:
		return geometry.R(s.Left, s.Top, s.Width, s.Height)
	}
}
