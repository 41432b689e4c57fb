/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalCanvasTemplate(t *testing.T) {
	raw := `{"_id":"t1","name":"Modern","renderEngine":"canvas","canvasData":{"version":"5.3.0","objects":[{"type":"text","left":10,"top":20,"text":"{{name}}","textBaseline":"alphabetical"}],"background":"#ffffff"}}`
	var doc TemplateDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Variant != VariantCanvas {
		t.Fatalf("variant = %q, want canvas", doc.Variant)
	}
	if doc.Canvas == nil || len(doc.Canvas.Objects) != 1 {
		t.Fatalf("canvas payload missing: %+v", doc.Canvas)
	}
	if got := doc.Canvas.Objects[0].TextBaseline; got != BaselineLegacy {
		t.Fatalf("baseline preserved at decode time, got %q", got)
	}
}

func TestUnmarshalCanvasTemplateStringPayload(t *testing.T) {
	raw := `{"_id":"t2","name":"Classic","renderEngine":"canvas","canvasData":"{\"version\":\"5.3.0\",\"objects\":[],\"background\":\"#fafafa\"}"}`
	var doc TemplateDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Canvas == nil || doc.Canvas.Background != "#fafafa" {
		t.Fatalf("double-encoded canvasData not decoded: %+v", doc.Canvas)
	}
}

func TestUnmarshalBuilderTemplate(t *testing.T) {
	raw := `{"_id":"t3","name":"Builder","renderEngine":"builder","builderData":[{"tag":"div","children":[{"tag":"p","content":"{{#each experience}}{{position}} at {{company}}{{/each}}","style":{"position":"absolute","left":"10px","top":"40px"}}]}]}`
	var doc TemplateDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Variant != VariantComponentTree {
		t.Fatalf("variant = %q, want componentTree", doc.Variant)
	}
	if len(doc.Components) != 1 || len(doc.Components[0].Children) != 1 {
		t.Fatalf("component tree shape wrong: %+v", doc.Components)
	}
}

func TestUnmarshalRejectsUnknownEngine(t *testing.T) {
	raw := `{"_id":"t4","name":"X","renderEngine":"flash"}`
	var doc TemplateDocument
	if err := json.Unmarshal([]byte(raw), &doc); err == nil {
		t.Fatalf("expected error for unknown render engine")
	}
}

func TestMarshalRoundTripHTML(t *testing.T) {
	doc := TemplateDocument{ID: "t5", Name: "Plain", Variant: VariantHTML, HTML: "<h1>{{name}}</h1>"}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back TemplateDocument
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Variant != VariantHTML || back.HTML != doc.HTML || back.ID != "t5" {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestBuildContextFlattensProfile(t *testing.T) {
	d := ResumeData{
		Profile: Profile{Name: "Ada Lovelace", Email: "ada@example.com"},
		Experience: []ExperienceEntry{
			{Position: "Engineer", Company: "Acme"},
		},
	}
	ctx := BuildContext(d)
	if ctx["name"] != "Ada Lovelace" {
		t.Fatalf("name not flattened: %v", ctx["name"])
	}
	prof, ok := ctx["profile"].(map[string]string)
	if !ok || prof["email"] != "ada@example.com" {
		t.Fatalf("profile prefix missing: %v", ctx["profile"])
	}
	exp, ok := ctx["experience"].([]map[string]string)
	if !ok || len(exp) != 1 || exp[0]["company"] != "Acme" {
		t.Fatalf("experience list missing: %v", ctx["experience"])
	}
	if _, present := ctx["phone"]; present {
		t.Fatalf("empty fields must be omitted")
	}
}

func TestEmptySnapshotShape(t *testing.T) {
	s := EmptySnapshot()
	if s.Version != SnapshotVersion || s.Background != DefaultBackground || len(s.Objects) != 0 {
		t.Fatalf("unexpected empty snapshot: %+v", s)
	}
}
