/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model structures for Resume Studio:
// the template document union, canonical scene object specs, snapshots,
// and the resume data that feeds variable substitution.

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TemplateVariant discriminates the three stored template representations.
type TemplateVariant string

const (
	VariantHTML          TemplateVariant = "html"
	VariantCanvas        TemplateVariant = "canvas"
	VariantComponentTree TemplateVariant = "componentTree"
)

// Wire values for the renderEngine field as served by the template API.
const (
	EngineHTML    = "html"
	EngineCanvas  = "canvas"
	EngineBuilder = "builder"
)

// ParseRenderEngine maps a renderEngine wire value to a TemplateVariant.
func ParseRenderEngine(s string) (TemplateVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case EngineHTML:
		return VariantHTML, nil
	case EngineCanvas:
		return VariantCanvas, nil
	case EngineBuilder:
		return VariantComponentTree, nil
	}
	return "", fmt.Errorf("unknown render engine %q", s)
}

// TemplateDocument is the tagged union describing one stored template.
// Exactly one variant payload is populated; consumers dispatch on Variant
// and never inspect more than one payload.
type TemplateDocument struct {
	ID      string
	Name    string
	Variant TemplateVariant

	HTML       string          // VariantHTML
	Canvas     *Snapshot       // VariantCanvas
	Components []ComponentSpec // VariantComponentTree
	Style      string          // VariantComponentTree, optional global CSS
}

// templateWire mirrors the JSON served by the template API.
type templateWire struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	RenderEngine string          `json:"renderEngine"`
	HTML         string          `json:"html,omitempty"`
	CanvasData   json.RawMessage `json:"canvasData,omitempty"`
	BuilderData  json.RawMessage `json:"builderData,omitempty"`
}

// UnmarshalJSON decodes the API shape. The canvasData payload may arrive
// either as a JSON object or as a string containing serialized JSON; both
// forms exist in stored templates.
func (t *TemplateDocument) UnmarshalJSON(b []byte) error {
	var w templateWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	variant, err := ParseRenderEngine(w.RenderEngine)
	if err != nil {
		return err
	}
	out := TemplateDocument{ID: w.ID, Name: w.Name, Variant: variant}
	switch variant {
	case VariantHTML:
		out.HTML = w.HTML
	case VariantCanvas:
		if len(w.CanvasData) > 0 {
			raw := w.CanvasData
			// Double-encoded payload: a JSON string wrapping the snapshot.
			if raw[0] == '"' {
				var s string
				if err := json.Unmarshal(raw, &s); err != nil {
					return fmt.Errorf("canvasData string: %w", err)
				}
				raw = []byte(s)
			}
			var snap Snapshot
			if err := json.Unmarshal(raw, &snap); err != nil {
				return fmt.Errorf("canvasData: %w", err)
			}
			out.Canvas = &snap
		}
	case VariantComponentTree:
		if len(w.BuilderData) > 0 {
			// Preferred shape is {components: [...], style: "..."}; a bare
			// component array also exists in older stored templates.
			var wrapped struct {
				Components []ComponentSpec `json:"components"`
				Style      string          `json:"style"`
			}
			if err := json.Unmarshal(w.BuilderData, &wrapped); err == nil && len(wrapped.Components) > 0 {
				out.Components = wrapped.Components
				out.Style = wrapped.Style
			} else {
				var comps []ComponentSpec
				if err := json.Unmarshal(w.BuilderData, &comps); err != nil {
					return fmt.Errorf("builderData: %w", err)
				}
				out.Components = comps
			}
		}
	}
	*t = out
	return nil
}

// MarshalJSON encodes back to the API shape.
func (t TemplateDocument) MarshalJSON() ([]byte, error) {
	w := templateWire{ID: t.ID, Name: t.Name}
	switch t.Variant {
	case VariantHTML:
		w.RenderEngine = EngineHTML
		w.HTML = t.HTML
	case VariantCanvas:
		w.RenderEngine = EngineCanvas
		if t.Canvas != nil {
			raw, err := json.Marshal(t.Canvas)
			if err != nil {
				return nil, err
			}
			w.CanvasData = raw
		}
	case VariantComponentTree:
		w.RenderEngine = EngineBuilder
		if len(t.Components) > 0 {
			wrapped := struct {
				Components []ComponentSpec `json:"components"`
				Style      string          `json:"style,omitempty"`
			}{Components: t.Components, Style: t.Style}
			raw, err := json.Marshal(wrapped)
			if err != nil {
				return nil, err
			}
			w.BuilderData = raw
		}
	default:
		return nil, fmt.Errorf("unknown template variant %q", t.Variant)
	}
	return json.Marshal(w)
}

// ObjectKind is the canonical scene object kind.
type ObjectKind string

const (
	KindText    ObjectKind = "text"
	KindRect    ObjectKind = "rect"
	KindCircle  ObjectKind = "circle"
	KindLine    ObjectKind = "line"
	KindPolygon ObjectKind = "polygon"
	KindImage   ObjectKind = "image"
)

// Text baseline values. The legacy value appears in older stored templates
// and snapshots and must be rewritten before objects reach a surface.
const (
	BaselineAlphabetic = "alphabetic"
	BaselineLegacy     = "alphabetical"
)

// Point is a 2D coordinate used by line and polygon specs.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SceneObjectSpec is the canonical, serializable description of one
// placeable object. Field names follow the stored snapshot format.
type SceneObjectSpec struct {
	Kind   ObjectKind `json:"type"`
	Left   float64    `json:"left"`
	Top    float64    `json:"top"`
	Width  float64    `json:"width,omitempty"`
	Height float64    `json:"height,omitempty"`
	Radius float64    `json:"radius,omitempty"`
	Points []Point    `json:"points,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Angle       float64 `json:"angle,omitempty"`

	Text         string  `json:"text,omitempty"`
	FontFamily   string  `json:"fontFamily,omitempty"`
	FontSize     float64 `json:"fontSize,omitempty"`
	FontWeight   string  `json:"fontWeight,omitempty"`
	FontStyle    string  `json:"fontStyle,omitempty"`
	TextAlign    string  `json:"textAlign,omitempty"`
	LineHeight   float64 `json:"lineHeight,omitempty"`
	CharSpacing  float64 `json:"charSpacing,omitempty"`
	Underline    bool    `json:"underline,omitempty"`
	TextBaseline string  `json:"textBaseline,omitempty"`

	Src string `json:"src,omitempty"` // image source, KindImage only
}

// Snapshot is the serialized form of a scene at one point in time.
// Top-level shape is stable across versions; the sanitation step keeps
// snapshots produced under other versions loadable.
type Snapshot struct {
	Version    string            `json:"version"`
	Objects    []SceneObjectSpec `json:"objects"`
	Background string            `json:"background"`
}

// SnapshotVersion is written into snapshots produced by this build.
const SnapshotVersion = "5.3.0"

// DefaultBackground is the canvas background used when a snapshot omits one.
const DefaultBackground = "#ffffff"

// EmptySnapshot returns a blank scene snapshot.
func EmptySnapshot() Snapshot {
	return Snapshot{Version: SnapshotVersion, Objects: []SceneObjectSpec{}, Background: DefaultBackground}
}

// ComponentSpec is one node of a componentTree template: a tag with
// content, style, attributes, and nested children. Content may contain
// substitution tokens including {{#each}} blocks bound to list fields.
type ComponentSpec struct {
	Tag        string            `json:"tag"`
	Content    string            `json:"content,omitempty"`
	Style      map[string]string `json:"style,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []ComponentSpec   `json:"children,omitempty"`
}

// UnmarshalJSON accepts both the canonical keys and the legacy stored
// keys (tagName, components); style and attribute values are coerced to
// strings since stored templates mix numbers and strings freely.
func (c *ComponentSpec) UnmarshalJSON(b []byte) error {
	var w struct {
		Tag        string          `json:"tag"`
		TagName    string          `json:"tagName"`
		Content    string          `json:"content"`
		Style      map[string]any  `json:"style"`
		Attributes map[string]any  `json:"attributes"`
		Children   []ComponentSpec `json:"children"`
		Components []ComponentSpec `json:"components"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := ComponentSpec{Tag: w.Tag, Content: w.Content, Children: w.Children}
	if out.Tag == "" {
		out.Tag = w.TagName
	}
	if out.Tag == "" {
		out.Tag = "div"
	}
	if len(out.Children) == 0 {
		out.Children = w.Components
	}
	out.Style = coerceStringMap(w.Style)
	out.Attributes = coerceStringMap(w.Attributes)
	*c = out
	return nil
}

func coerceStringMap(m map[string]any) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			// nested values are not meaningful as CSS; skip
		}
	}
	return out
}

// ResumeData is the nested input data applied to templates.
type ResumeData struct {
	Profile    Profile           `json:"profile"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
	Skills     []SkillEntry      `json:"skills,omitempty"`
}

type Profile struct {
	Name    string `json:"name,omitempty"`
	Title   string `json:"title,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type ExperienceEntry struct {
	Position    string `json:"position,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	School      string `json:"school,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

type SkillEntry struct {
	Name  string `json:"name,omitempty"`
	Level string `json:"level,omitempty"`
}

// VariableContext is the flattened key->value mapping that substitution
// tokens resolve against. Scalar profile fields are merged to the top
// level; list fields hold []map[string]string for {{#each}} expansion.
type VariableContext map[string]any

// BuildContext flattens resume data into a VariableContext. Empty fields
// are omitted so substitution defaults can apply.
func BuildContext(d ResumeData) VariableContext {
	ctx := VariableContext{}
	put := func(k, v string) {
		if strings.TrimSpace(v) != "" {
			ctx[k] = v
		}
	}
	put("name", d.Profile.Name)
	// Older templates address the split name fields.
	if first, last, ok := strings.Cut(strings.TrimSpace(d.Profile.Name), " "); ok {
		put("firstName", first)
		put("lastName", last)
	} else {
		put("firstName", d.Profile.Name)
	}
	put("title", d.Profile.Title)
	put("email", d.Profile.Email)
	put("phone", d.Profile.Phone)
	put("address", d.Profile.Address)
	put("website", d.Profile.Website)
	put("summary", d.Profile.Summary)

	// profile is also addressable as a two-segment prefix
	profile := map[string]string{}
	for _, kv := range [][2]string{
		{"name", d.Profile.Name}, {"title", d.Profile.Title},
		{"email", d.Profile.Email}, {"phone", d.Profile.Phone},
		{"address", d.Profile.Address}, {"website", d.Profile.Website},
		{"summary", d.Profile.Summary},
	} {
		if strings.TrimSpace(kv[1]) != "" {
			profile[kv[0]] = kv[1]
		}
	}
	if len(profile) > 0 {
		ctx["profile"] = profile
	}

	if len(d.Experience) > 0 {
		items := make([]map[string]string, 0, len(d.Experience))
		for _, e := range d.Experience {
			items = append(items, map[string]string{
				"position":    e.Position,
				"company":     e.Company,
				"startDate":   e.StartDate,
				"endDate":     e.EndDate,
				"description": e.Description,
			})
		}
		ctx["experience"] = items
	}
	if len(d.Education) > 0 {
		items := make([]map[string]string, 0, len(d.Education))
		for _, e := range d.Education {
			items = append(items, map[string]string{
				"degree":      e.Degree,
				"school":      e.School,
				"startDate":   e.StartDate,
				"endDate":     e.EndDate,
				"description": e.Description,
			})
		}
		ctx["education"] = items
	}
	if len(d.Skills) > 0 {
		items := make([]map[string]string, 0, len(d.Skills))
		for _, s := range d.Skills {
			items = append(items, map[string]string{
				"name":  s.Name,
				"level": s.Level,
			})
		}
		ctx["skills"] = items
	}
	return ctx
}

// Document is the workspace manifest: the resume being authored, the
// template it is based on, and the latest serialized scene.
type Document struct {
	Name       string          `json:"name"`
	TemplateID string          `json:"templateId,omitempty"`
	Variant    TemplateVariant `json:"variant,omitempty"`
	Data       ResumeData      `json:"data"`
	Scene      *Snapshot       `json:"scene,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt,omitempty"`
}
