/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumestudio/internal/domain"
)

func newTemplateServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/templates", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"templates":[
			{"_id":"t1","name":"Plain","renderEngine":"html","html":"<p>{{name}}</p>"},
			{"_id":"t2","name":"Canvas","renderEngine":"canvas","canvasData":{"version":"5.3.0","objects":[],"background":"#ffffff"}}
		]}`))
	})
	mux.HandleFunc("/templates/t2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// canvasData arrives double-encoded in some stored templates
		_, _ = w.Write([]byte(`{"_id":"t2","name":"Canvas","renderEngine":"canvas","canvasData":"{\"version\":\"5.3.0\",\"objects\":[{\"type\":\"textbox\",\"text\":\"Hi\",\"textBaseline\":\"alphabetical\"}],\"background\":\"#ffffff\"}"}`))
	})
	mux.HandleFunc("/templates/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return httptest.NewServer(mux)
}

func TestListTemplates(t *testing.T) {
	srv := newTemplateServer(t)
	defer srv.Close()
	c := NewClient(srv.URL+"/", "tok-123", ClientOptions{Timeout: 2 * time.Second})

	docs, err := c.ListTemplates(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d templates", len(docs))
	}
	if docs[0].Variant != domain.VariantHTML || docs[1].Variant != domain.VariantCanvas {
		t.Fatalf("variants wrong: %v %v", docs[0].Variant, docs[1].Variant)
	}
}

func TestTemplateDecodesDoubleEncodedCanvas(t *testing.T) {
	srv := newTemplateServer(t)
	defer srv.Close()
	c := NewClient(srv.URL, "", ClientOptions{})

	doc, err := c.Template(context.Background(), "t2")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if doc.Canvas == nil || len(doc.Canvas.Objects) != 1 {
		t.Fatalf("canvas payload missing: %+v", doc)
	}
	if doc.Canvas.Objects[0].Text != "Hi" {
		t.Fatalf("object text = %q", doc.Canvas.Objects[0].Text)
	}
}

func TestTemplateNotFound(t *testing.T) {
	srv := newTemplateServer(t)
	defer srv.Close()
	c := NewClient(srv.URL, "", ClientOptions{})

	if _, err := c.Template(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestMissingTokenRejected(t *testing.T) {
	srv := newTemplateServer(t)
	defer srv.Close()
	c := NewClient(srv.URL, "", ClientOptions{})

	if _, err := c.ListTemplates(context.Background()); err == nil {
		t.Fatal("expected unauthorized error")
	}
}

func TestTokenSignAndVerify(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	tok, err := signToken("s3cret", "alice", exp)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, err := verifyToken("s3cret", tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("subject = %q", sub)
	}
	if _, err := verifyToken("wrong", tok); err == nil {
		t.Fatal("wrong secret must fail verification")
	}
	expired, _ := signToken("s3cret", "alice", time.Now().Add(-time.Minute))
	if _, err := verifyToken("s3cret", expired); err == nil {
		t.Fatal("expired token must fail verification")
	}
}
