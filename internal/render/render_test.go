/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"testing"

	"resumestudio/internal/domain"
)

func TestHTMLAdapterSubstitutes(t *testing.T) {
	doc := domain.TemplateDocument{
		ID:      "t",
		Variant: domain.VariantHTML,
		HTML:    "<h1>{{name}}</h1><p>{{email}}</p>",
	}
	tree, err := Render(doc, domain.VariableContext{"name": "Ada Lovelace"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<h1>Ada Lovelace</h1><p>john.doe@email.com</p>"
	if tree.HTML != want {
		t.Fatalf("html = %q, want %q", tree.HTML, want)
	}
	if len(tree.Nodes) != 0 {
		t.Fatal("html variant must not emit positioned nodes")
	}
}

func TestCanvasAdapterProducesNodes(t *testing.T) {
	snap := domain.EmptySnapshot()
	snap.Background = "#f0f0f0"
	snap.Objects = []domain.SceneObjectSpec{
		{Kind: domain.KindText, Left: 10, Top: 20, Width: 100, Height: 24, Text: "{{firstName}}", TextBaseline: domain.BaselineLegacy},
		{Kind: domain.KindRect, Left: 0, Top: 0, Width: 800, Height: 4, Fill: "#222222"},
	}
	doc := domain.TemplateDocument{ID: "c", Variant: domain.VariantCanvas, Canvas: &snap}

	tree, err := Render(doc, domain.VariableContext{"firstName": "Grace"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if tree.Background != "#f0f0f0" {
		t.Fatalf("background = %q", tree.Background)
	}
	if len(tree.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(tree.Nodes))
	}
	txt := tree.Nodes[0].Spec
	if txt.Text != "Grace" {
		t.Fatalf("text = %q, want substituted value", txt.Text)
	}
	if txt.TextBaseline != domain.BaselineAlphabetic {
		t.Fatalf("baseline = %q", txt.TextBaseline)
	}
	if tree.Nodes[1].Bounds.W != 800 {
		t.Fatalf("rect bounds = %+v", tree.Nodes[1].Bounds)
	}
}

func TestBuilderAdapterRendersEachEntries(t *testing.T) {
	doc := domain.TemplateDocument{
		ID:      "b",
		Variant: domain.VariantComponentTree,
		Components: []domain.ComponentSpec{
			{
				Tag:     "div",
				Content: "{{#each experience}}{{position}} at {{company}}{{/each}}",
				Style:   map[string]string{"position": "absolute", "left": "20px", "top": "40px", "height": "30px"},
			},
		},
	}
	ctx := domain.VariableContext{
		"experience": []map[string]string{
			{"position": "Engineer", "company": "Acme"},
			{"position": "Lead", "company": "Beta"},
		},
	}
	tree, err := Render(doc, ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(tree.Nodes) != 2 {
		t.Fatalf("nodes = %d, want one per list entry", len(tree.Nodes))
	}
	if tree.Nodes[0].Spec.Text != "Engineer at Acme" || tree.Nodes[1].Spec.Text != "Lead at Beta" {
		t.Fatalf("entries wrong: %q, %q", tree.Nodes[0].Spec.Text, tree.Nodes[1].Spec.Text)
	}
	if tree.Nodes[1].Spec.Top <= tree.Nodes[0].Spec.Top {
		t.Fatal("entries must stack downward in order")
	}
}

func TestUnknownVariantRejected(t *testing.T) {
	if _, err := Render(domain.TemplateDocument{Variant: "weird"}, nil); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}
