/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session implements the editor session: one session per live
// canvas, owning the scene graph, the interaction state, the history
// stack and the restore guard. All mutation enters through the session
// on the event loop goroutine; there is no concurrent access to the
// graph.
package session

import (
	"context"
	"log/slog"
	"time"

	"resumestudio/internal/domain"
	"resumestudio/internal/geometry"
	"resumestudio/internal/history"
	applog "resumestudio/internal/log"
	"resumestudio/internal/scene"
	"resumestudio/internal/telemetry"
	"resumestudio/internal/template"
)

// TemplateFetcher resolves a template document by id. The backend
// client implements it; tests use an in-memory stub.
type TemplateFetcher interface {
	Template(ctx context.Context, id string) (domain.TemplateDocument, error)
}

// Dispatcher hands fn to the event loop goroutine. The UI supplies one
// bound to its main loop; the zero value runs fn inline, which is what
// tests want.
type Dispatcher func(fn func())

// Config carries the tunables a session needs from app configuration.
type Config struct {
	HistoryCapacity int
	RestoreCooldown time.Duration
}

// Session is the exclusive owner of one scene graph. It is constructed
// once per canvas lifetime and torn down wholesale on template swap.
type Session struct {
	graph *scene.Graph
	hist  *history.Stack
	guard restoreGuard

	state      State
	sub        SubState
	hoveredID  string
	selectedID string
	overlayID  string

	// gesture bookkeeping
	gestureMoved   bool
	lastPointer    geometry.Pt
	resizeHandle   geometry.Handle
	editDirty      bool
	zoom           float64
	wantTemplateID string
	templateID     string
	loadErr        error

	dispatch Dispatcher
	log      *slog.Logger
}

// New creates a session around an empty graph on the given surface.
func New(surface scene.Surface, cfg Config, dispatch Dispatcher) *Session {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	cooldown := cfg.RestoreCooldown
	if cooldown <= 0 {
		cooldown = time.Second
	}
	return &Session{
		graph:    scene.New(surface),
		hist:     history.New(cfg.HistoryCapacity),
		guard:    restoreGuard{cooldown: cooldown, now: time.Now},
		zoom:     1,
		dispatch: dispatch,
		log:      applog.WithComponent("session"),
	}
}

// Graph exposes the owned scene graph. Read-only use outside the
// session, such as export and preview rendering.
func (s *Session) Graph() *scene.Graph { return s.graph }

// TemplateID returns the id of the currently applied template.
func (s *Session) TemplateID() string { return s.templateID }

// LastLoadError returns the most recent template load failure, nil
// when the last load applied cleanly. The caller retries by issuing
// LoadTemplate again.
func (s *Session) LastLoadError() error { return s.loadErr }

// LoadTemplate fetches the template asynchronously and applies it on
// the event loop. A completion whose id no longer matches the most
// recently requested one is discarded; the identity check substitutes
// for cancellation.
func (s *Session) LoadTemplate(ctx context.Context, f TemplateFetcher, id string, data *domain.ResumeData) {
	s.wantTemplateID = id
	s.log.Info("template load requested", "template_id", id)
	go func() {
		doc, err := f.Template(ctx, id)
		s.dispatch(func() { s.completeLoad(id, doc, data, err) })
	}()
}

func (s *Session) completeLoad(id string, doc domain.TemplateDocument, data *domain.ResumeData, err error) {
	if id != s.wantTemplateID {
		s.log.Info("stale template load discarded", "template_id", id, "want", s.wantTemplateID)
		return
	}
	if err != nil {
		s.loadErr = err
		s.log.Error("template load failed", "template_id", id, "error", err)
		return
	}
	if applyErr := s.ApplyTemplate(doc, data); applyErr != nil {
		s.loadErr = applyErr
		return
	}
}

// ApplyTemplate swaps the whole scene to the given document. The old
// graph content, interaction state and history are discarded rather
// than diffed; the session re-renders the scene from scratch.
func (s *Session) ApplyTemplate(doc domain.TemplateDocument, data *domain.ResumeData) error {
	var ctx domain.VariableContext
	if data != nil {
		ctx = domain.BuildContext(*data)
	}
	specs, err := template.Normalize(doc, ctx)
	if err != nil {
		s.log.Error("template not renderable in editor", "template_id", doc.ID, "variant", doc.Variant, "error", err)
		return err
	}
	s.teardown()
	if doc.Variant == domain.VariantCanvas && doc.Canvas != nil {
		s.graph.SetBackground(doc.Canvas.Background)
	}
	for _, spec := range specs {
		s.graph.Add(spec)
	}
	s.templateID = doc.ID
	s.wantTemplateID = doc.ID
	s.loadErr = nil
	s.hist.Push(s.graph.Serialize())
	telemetry.Event("template_loaded", map[string]any{"template_id": doc.ID, "variant": string(doc.Variant)})
	s.log.Info("template applied", "template_id", doc.ID, "objects", s.graph.Len())
	return nil
}

// teardown clears the graph, every transient decoration and the
// history stack.
func (s *Session) teardown() {
	s.graph.Clear()
	s.hist.Reset()
	s.state = StateIdle
	s.sub = SubNone
	s.hoveredID = ""
	s.selectedID = ""
	s.overlayID = ""
	s.editDirty = false
}

// Undo steps history back and restores that state through the guard's
// surface validation (but not its cooldown; an explicit user action is
// never rate-limited).
func (s *Session) Undo() bool {
	snap, ok := s.hist.Undo()
	if !ok {
		return false
	}
	if err := s.applySnapshot(snap); err != nil {
		s.hist.Redo() // surface refused, put the cursor back
		return false
	}
	return true
}

// Redo steps history forward.
func (s *Session) Redo() bool {
	snap, ok := s.hist.Redo()
	if !ok {
		return false
	}
	if err := s.applySnapshot(snap); err != nil {
		s.hist.Undo()
		return false
	}
	return true
}

// applySnapshot restores the graph and re-seats interaction state;
// restored objects carry fresh ids so any selection is dropped.
func (s *Session) applySnapshot(snap domain.Snapshot) error {
	if err := s.graph.Restore(snap); err != nil {
		return err
	}
	s.state = StateIdle
	s.sub = SubNone
	s.hoveredID = ""
	s.selectedID = ""
	s.overlayID = ""
	return nil
}

// pushHistory serializes the current scene and records it. Exactly one
// call per structural mutation; transient visuals never reach here.
func (s *Session) pushHistory() {
	s.hist.Push(s.graph.Serialize())
}

// History exposes the stack for inspection.
func (s *Session) History() *history.Stack { return s.hist }

// SetZoom records the zoom factor and cycles the scene through a
// guarded save/restore so object coordinates re-render cleanly. Rapid
// zoom events collapse into one applied restore via the guard cooldown.
func (s *Session) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	s.zoom = z
	snap, ok := s.TrySave()
	if !ok {
		return
	}
	s.TryRestore(snap)
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 { return s.zoom }
