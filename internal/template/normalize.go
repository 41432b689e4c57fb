/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package template converts any stored template representation into the
// canonical ordered list of placeable scene objects, sanitizing legacy
// values on the way.
package template

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"resumestudio/internal/domain"
	applog "resumestudio/internal/log"
	"resumestudio/internal/subst"
)

// ErrNoRenderableContent is returned when a template yields no placeable
// objects. Callers must treat it as a displayable empty state, not a
// fatal error.
var ErrNoRenderableContent = errors.New("template has no renderable content")

// Normalize converts doc into the canonical object list. The canvas
// variant is scanned directly; the componentTree variant is walked
// depth-first, expanding {{#each}} bindings against ctx. The html
// variant carries no object structure and always yields the empty
// state; it is only usable by the read-only renderers.
//
// When ctx is non-nil, substitution tokens in text content are resolved;
// a nil ctx leaves tokens in place for the editable path.
func Normalize(doc domain.TemplateDocument, ctx domain.VariableContext) ([]domain.SceneObjectSpec, error) {
	log := applog.WithComponent("template")
	switch doc.Variant {
	case domain.VariantCanvas:
		if doc.Canvas == nil || len(doc.Canvas.Objects) == 0 {
			return nil, ErrNoRenderableContent
		}
		out := make([]domain.SceneObjectSpec, 0, len(doc.Canvas.Objects))
		for _, spec := range doc.Canvas.Objects {
			SanitizeSpec(&spec)
			if ctx != nil && spec.Kind == domain.KindText {
				spec.Text = subst.Substitute(spec.Text, ctx)
			}
			out = append(out, spec)
		}
		return out, nil

	case domain.VariantComponentTree:
		if len(doc.Components) == 0 {
			return nil, ErrNoRenderableContent
		}
		w := &treeWalker{ctx: ctx, log: log}
		for _, c := range doc.Components {
			w.walk(c, ctx)
		}
		if len(w.out) == 0 {
			return nil, ErrNoRenderableContent
		}
		return w.out, nil

	case domain.VariantHTML:
		return nil, ErrNoRenderableContent

	default:
		log.Warn("unrecognized template payload", slog.String("variant", string(doc.Variant)))
		return nil, ErrNoRenderableContent
	}
}

// treeWalker collects positioned leaf content from a component tree.
type treeWalker struct {
	ctx domain.VariableContext
	log *slog.Logger
	out []domain.SceneObjectSpec
}

// eachAdvance is the vertical distance between expanded list entries
// when a node declares no height of its own.
const eachAdvance = 24.0

func (w *treeWalker) walk(c domain.ComponentSpec, ctx domain.VariableContext) {
	if name, body, ok := subst.EachBinding(c.Content); ok {
		items := subst.Items(ctx, name)
		if items == nil {
			w.log.Debug("each list absent, dropping block", slog.String("list", name))
			return
		}
		base := c
		advance := cssPx(c.Style, "height")
		if advance == 0 {
			advance = eachAdvance
		}
		for i, item := range items {
			itemCtx := subst.WithItem(ctx, item)
			offset := float64(i) * advance
			if strings.TrimSpace(body) != "" {
				entry := base
				entry.Content = body
				w.emit(entry, itemCtx, offset)
			}
			for _, child := range c.Children {
				w.walkOffset(child, itemCtx, offset)
			}
		}
		return
	}

	if w.isPositionedLeaf(c) {
		w.emit(c, ctx, 0)
	}
	// Structural wrappers contribute nothing themselves.
	for _, child := range c.Children {
		w.walk(child, ctx)
	}
}

// walkOffset is walk with a vertical displacement applied to every
// object the subtree emits. Used for expanded list entries.
func (w *treeWalker) walkOffset(c domain.ComponentSpec, ctx domain.VariableContext, dy float64) {
	if w.isPositionedLeaf(c) {
		w.emit(c, ctx, dy)
	}
	for _, child := range c.Children {
		w.walkOffset(child, ctx, dy)
	}
}

// isPositionedLeaf reports whether the node carries its own placeable
// content: non-empty text plus positioning style.
func (w *treeWalker) isPositionedLeaf(c domain.ComponentSpec) bool {
	if strings.TrimSpace(c.Content) == "" {
		return false
	}
	if c.Style == nil {
		return false
	}
	if _, ok := c.Style["position"]; ok {
		return true
	}
	_, hasLeft := c.Style["left"]
	_, hasTop := c.Style["top"]
	return hasLeft || hasTop
}

func (w *treeWalker) emit(c domain.ComponentSpec, ctx domain.VariableContext, dy float64) {
	text := c.Content
	if ctx != nil {
		text = subst.Substitute(text, ctx)
	}
	spec := domain.SceneObjectSpec{
		Kind:         domain.KindText,
		Left:         cssPx(c.Style, "left"),
		Top:          cssPx(c.Style, "top") + dy,
		Width:        cssPx(c.Style, "width"),
		Text:         text,
		Fill:         styleOr(c.Style, "color", "#000000"),
		FontFamily:   styleOr(c.Style, "font-family", "Arial"),
		FontSize:     cssPxOr(c.Style, "font-size", 16),
		FontWeight:   styleOr(c.Style, "font-weight", "normal"),
		FontStyle:    styleOr(c.Style, "font-style", "normal"),
		TextAlign:    styleOr(c.Style, "text-align", "left"),
		TextBaseline: domain.BaselineAlphabetic,
	}
	SanitizeSpec(&spec)
	w.out = append(w.out, spec)
}

// cssPx parses a numeric CSS length ("12", "12px", "12.5px") from the
// style map; absent or unparseable values yield 0.
func cssPx(style map[string]string, key string) float64 {
	if style == nil {
		return 0
	}
	v := strings.TrimSpace(style[key])
	v = strings.TrimSuffix(v, "px")
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func cssPxOr(style map[string]string, key string, def float64) float64 {
	if v := cssPx(style, key); v != 0 {
		return v
	}
	return def
}

func styleOr(style map[string]string, key, def string) string {
	if style != nil {
		if v := strings.TrimSpace(style[key]); v != "" {
			return v
		}
	}
	return def
}
