//go:build fyne && cgo

/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"resumestudio/internal/backend"
	"resumestudio/internal/config"
	"resumestudio/internal/crash"
	"resumestudio/internal/domain"
	"resumestudio/internal/export"
	"resumestudio/internal/geometry"
	applog "resumestudio/internal/log"
	"resumestudio/internal/render"
	"resumestudio/internal/scene"
	"resumestudio/internal/session"
	"resumestudio/internal/storage"
	"resumestudio/internal/telemetry"
)

// Run starts the Fyne-based desktop editor.
func Run(workspaceDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var ws *storage.WorkspaceHandle
	defer func() { crash.Recover(ws) }()

	cfg, token, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.String("error", err.Error()))
		cfg = config.Defaults()
	}

	fyneApp := app.NewWithID("resumestudio")
	w := fyneApp.NewWindow("Resume Studio")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	ec := NewEditorCanvas()

	sess := session.New(&canvasSurface{ec: ec}, session.Config{
		HistoryCapacity: cfg.Editor.HistoryCapacity,
		RestoreCooldown: cfg.Editor.RestoreCooldown(),
	}, func(fn func()) { fyne.Do(fn) })
	ec.sess = sess

	client := backend.NewClient(cfg.Backend.BaseURL, token, backend.ClientOptions{
		Timeout:     cfg.Backend.Timeout(),
		TLSInsecure: cfg.Backend.TLSInsecure,
	})

	// Template browser (left)
	var templates []domain.TemplateDocument
	templatesList := widget.NewList(
		func() int { return len(templates) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(templates) {
				t := templates[i]
				o.(*widget.Label).SetText(fmt.Sprintf("%s (%s)", t.Name, t.Variant))
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)
	refreshTemplates := func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
			defer cancel()
			list, err := client.ListTemplates(ctx)
			fyne.Do(func() {
				if err != nil {
					status.SetText("Template list failed: " + err.Error())
					l.Warn("template list failed", slog.String("error", err.Error()))
					return
				}
				templates = list
				templatesList.Refresh()
				status.SetText(fmt.Sprintf("Loaded %d templates", len(list)))
			})
		}()
	}

	loadSelected := func(id int) {
		if id < 0 || id >= len(templates) {
			return
		}
		t := templates[id]
		var data *domain.ResumeData
		if ws != nil {
			data = &ws.Document.Data
		}
		apply := func() {
			sess.LoadTemplate(context.Background(), client, t.ID, data)
			status.SetText("Loading template " + t.Name)
			telemetry.Event("template_selected", map[string]any{"variant": string(t.Variant)})
		}
		if sess.Graph() != nil && sess.Graph().Len() > 0 {
			dialog.ShowConfirm("Switch template",
				"Switching replaces the current scene and clears undo history. Continue?",
				func(ok bool) {
					if ok {
						apply()
					} else {
						templatesList.UnselectAll()
					}
				}, w)
			return
		}
		apply()
	}
	templatesList.OnSelected = func(id widget.ListItemID) { loadSelected(int(id)) }

	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Templates"), widget.NewSeparator()),
		widget.NewButton("Refresh", refreshTemplates),
		nil, nil, templatesList)

	// Inspector (right)
	textEntry := widget.NewMultiLineEntry()
	textEntry.SetPlaceHolder("Select a text object")
	textEntry.OnChanged = func(v string) {
		if sess.State() == session.StateEditing {
			sess.SetEditingText(v)
			ec.Refresh()
		}
	}
	fillEntry := widget.NewEntry()
	fillEntry.SetPlaceHolder("#rrggbb")
	fontSizeEntry := widget.NewEntry()
	fontSizeEntry.SetPlaceHolder("16")
	applyStyle := widget.NewButton("Apply Style", func() {
		patch := scene.StylePatch{}
		if fillEntry.Text != "" {
			patch.Fill = scene.Str(fillEntry.Text)
		}
		if fontSizeEntry.Text != "" {
			if fs, err := strconv.ParseFloat(fontSizeEntry.Text, 64); err == nil && fs > 0 {
				patch.FontSize = scene.F64(fs)
			}
		}
		if sess.UpdateSelected(patch) {
			ec.Refresh()
			status.SetText("Style updated")
		}
	})
	syncInspector := func() {
		o := sess.Selected()
		if o == nil {
			textEntry.SetText("")
			return
		}
		if o.Spec.Kind == domain.KindText && textEntry.Text != o.Spec.Text {
			textEntry.SetText(o.Spec.Text)
		}
		if o.Spec.Fill != "" {
			fillEntry.SetText(o.Spec.Fill)
		}
		if o.Spec.FontSize > 0 {
			fontSizeEntry.SetText(strconv.FormatFloat(o.Spec.FontSize, 'f', -1, 64))
		}
	}
	ec.onChange = func() {
		syncInspector()
		switch sess.State() {
		case session.StateEditing:
			status.SetText("Editing text")
		case session.StateSelected:
			if o := sess.Selected(); o != nil {
				status.SetText("Selected: " + string(o.Spec.Kind))
			}
		default:
			status.SetText("Ready")
		}
	}
	right := container.NewVBox(
		widget.NewLabel("Inspector"), widget.NewSeparator(),
		widget.NewLabel("Text"), textEntry,
		widget.NewLabel("Fill"), fillEntry,
		widget.NewLabel("Font size"), fontSizeEntry,
		applyStyle,
	)

	saveWorkspace := func() {
		if ws == nil {
			status.SetText("No workspace open")
			return
		}
		if snap, ok := sess.TrySave(); ok {
			ws.Document.Scene = &snap
			ws.Document.TemplateID = sess.TemplateID()
		}
		if err := storage.Save(ws); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + ws.DocumentPath)
		l.Info("workspace saved", slog.String("path", ws.DocumentPath))
	}

	openWorkspace := func(root string) {
		h, err := storage.Open(root)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		ws = h
		w.SetTitle("Resume Studio - " + h.Document.Name)
		if h.Document.Scene != nil {
			if res := sess.TryRestore(*h.Document.Scene); res != session.RestoreSuccess {
				l.Warn("scene restore on open", slog.String("result", res.String()))
			}
		}
		ec.Refresh()
		status.SetText("Opened " + root)
		telemetry.Event("workspace_opened", nil)
	}

	exportTree := func() (render.DisplayTree, bool) {
		snap, ok := sess.TrySave()
		if !ok {
			status.SetText("Nothing to export")
			return render.DisplayTree{}, false
		}
		nodes := make([]render.DisplayNode, 0, len(snap.Objects))
		for _, o := range sess.Graph().Objects() {
			nodes = append(nodes, render.DisplayNode{Spec: o.Spec, Bounds: o.Bounds()})
		}
		return render.DisplayTree{
			Width:      render.PageWidth,
			Height:     render.PageHeight,
			Background: snap.Background,
			Nodes:      nodes,
		}, true
	}
	exportOpts := export.Options{Multiplier: cfg.Export.Multiplier, JPEGQuality: cfg.Export.JPEGQuality}
	doExport := func(ext string) {
		tree, ok := exportTree()
		if !ok {
			return
		}
		name := "resume." + ext
		if ws != nil {
			name = filepath.Join(ws.Root, "exports", name)
		}
		var err error
		written := name
		switch ext {
		case "png":
			err = export.WritePNG(name, tree, exportOpts)
		case "jpg":
			err = export.WriteJPEG(name, tree, exportOpts)
		case "pdf":
			written, err = export.WritePDF(name, tree, exportOpts)
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + written)
		telemetry.Event("export", map[string]any{"format": ext})
	}

	// Menus
	openItem := fyne.NewMenuItem("Open Workspace...", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			openWorkspace(uri.Path())
		}, w)
	})
	saveItem := fyne.NewMenuItem("Save", saveWorkspace)
	fileMenu := fyne.NewMenu("File",
		openItem, saveItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG", func() { doExport("png") }),
		fyne.NewMenuItem("Export JPEG", func() { doExport("jpg") }),
		fyne.NewMenuItem("Export PDF", func() { doExport("pdf") }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			if sess.Undo() {
				ec.Refresh()
				status.SetText("Undo")
			}
		}),
		fyne.NewMenuItem("Redo", func() {
			if sess.Redo() {
				ec.Refresh()
				status.SetText("Redo")
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Duplicate", func() {
			sess.DuplicateSelected()
			ec.Refresh()
		}),
		fyne.NewMenuItem("Delete", func() {
			sess.DeleteSelected()
			ec.Refresh()
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu))

	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if sess.Undo() {
			ec.Refresh()
		}
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if sess.Redo() {
			ec.Refresh()
		}
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyD, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		sess.DuplicateSelected()
		ec.Refresh()
	})
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyF2:
			sess.HandleKey(session.KeyF2)
		case fyne.KeyReturn, fyne.KeyEnter:
			sess.HandleKey(session.KeyEnter)
		case fyne.KeyEscape:
			sess.HandleKey(session.KeyEscape)
		case fyne.KeyDelete, fyne.KeyBackspace:
			sess.HandleKey(session.KeyDelete)
		default:
			return
		}
		ec.Refresh()
	})

	// Periodic autosave of the live scene into the workspace index.
	if cfg.Editor.AutosaveSec > 0 {
		ticker := time.NewTicker(time.Duration(cfg.Editor.AutosaveSec) * time.Second)
		go func() {
			for range ticker.C {
				fyne.Do(func() {
					if ws == nil {
						return
					}
					snap, ok := sess.TrySave()
					if !ok {
						return
					}
					root := ws.Root
					tid := sess.TemplateID()
					keep := cfg.Editor.AutosaveKeep
					go func() {
						ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
						defer cancel()
						h := &storage.WorkspaceHandle{Root: root}
						if err := storage.SaveSnapshot(ctx, h, tid, snap, time.Now()); err != nil {
							l.Warn("autosave snapshot failed", slog.String("error", err.Error()))
							return
						}
						if keep > 0 {
							_, _ = storage.PruneOldSnapshots(ctx, h, tid, keep)
						}
					}()
				})
			}
		}()
	}

	content := container.NewBorder(nil, status, left, right, ec)
	w.SetContent(content)
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	if workspaceDir != "" {
		openWorkspace(workspaceDir)
	}
	refreshTemplates()

	w.ShowAndRun()
	return nil
}

// EditorCanvas renders the live scene graph and forwards pointer
// gestures to the session. It is the session's drawing surface; logical
// page coordinates map to screen through zoom and pan offsets.
type EditorCanvas struct {
	widget.BaseWidget

	sess     *session.Session
	onChange func()

	zoom    float32
	offsetX float32
	offsetY float32

	dragging bool
	panning  bool
	detached bool
}

func NewEditorCanvas() *EditorCanvas {
	ec := &EditorCanvas{zoom: 0.7}
	ec.ExtendBaseWidget(ec)
	return ec
}

// canvasSurface adapts the widget to the session's surface contract.
// Logical page size is fixed in scene units; zoom and pan only affect
// the screen mapping.
type canvasSurface struct{ ec *EditorCanvas }

func (s *canvasSurface) Alive() bool { return !s.ec.detached }

func (s *canvasSurface) Size() geometry.Size {
	return geometry.Size{W: render.PageWidth, H: render.PageHeight}
}

func (e *EditorCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (e *EditorCanvas) pageOriginAndScale() (cx, cy, scale float32) {
	size := e.Size()
	scaledW := float32(render.PageWidth) * e.zoom
	scaledH := float32(render.PageHeight) * e.zoom
	cx = size.Width/2 - scaledW/2 + e.offsetX
	cy = size.Height/2 - scaledH/2 + e.offsetY
	return cx, cy, e.zoom
}

func (e *EditorCanvas) toScreen(pt geometry.Pt) fyne.Position {
	cx, cy, s := e.pageOriginAndScale()
	return fyne.NewPos(cx+float32(pt.X)*s, cy+float32(pt.Y)*s)
}

func (e *EditorCanvas) toPage(pos fyne.Position) geometry.Pt {
	cx, cy, s := e.pageOriginAndScale()
	return geometry.Pt{X: float64((pos.X - cx) / s), Y: float64((pos.Y - cy) / s)}
}

func (e *EditorCanvas) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Tapped maps a click to a press/release pair at the page point.
func (e *EditorCanvas) Tapped(ev *fyne.PointEvent) {
	if e.sess == nil {
		return
	}
	p := e.toPage(ev.Position)
	e.sess.PointerDown(p)
	e.sess.PointerUp(p)
	e.notify()
	e.Refresh()
}

func (e *EditorCanvas) DoubleTapped(ev *fyne.PointEvent) {
	if e.sess == nil {
		return
	}
	e.sess.DoubleClick(e.toPage(ev.Position))
	e.notify()
	e.Refresh()
}

// Hover handling; suppressed while a drag gesture is active.

func (e *EditorCanvas) MouseIn(ev *desktop.MouseEvent) { e.MouseMoved(ev) }

func (e *EditorCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if e.sess == nil || e.dragging || e.panning {
		return
	}
	e.sess.PointerMove(e.toPage(ev.Position))
	e.Refresh()
}

func (e *EditorCanvas) MouseOut() {
	if e.sess == nil {
		return
	}
	e.sess.PointerLeave()
	e.Refresh()
}

// Dragged starts a gesture on its first event. A drag that begins on
// empty page pans the view instead of touching the scene.
func (e *EditorCanvas) Dragged(ev *fyne.DragEvent) {
	if e.sess == nil {
		return
	}
	if e.panning {
		e.offsetX += ev.Dragged.DX
		e.offsetY += ev.Dragged.DY
		e.Refresh()
		return
	}
	if !e.dragging {
		start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		p := e.toPage(start)
		if len(e.sess.Graph().ObjectsAt(p)) == 0 && e.sess.Selected() == nil {
			e.panning = true
			e.offsetX += ev.Dragged.DX
			e.offsetY += ev.Dragged.DY
			e.Refresh()
			return
		}
		e.sess.PointerDown(p)
		e.dragging = true
	}
	e.sess.PointerMove(e.toPage(ev.Position))
	e.Refresh()
}

func (e *EditorCanvas) DragEnd() {
	if e.panning {
		e.panning = false
		return
	}
	if e.sess != nil && e.dragging {
		e.sess.PointerUp(geometry.Pt{})
		e.notify()
	}
	e.dragging = false
	e.Refresh()
}

// Scrolled zooms around the view center.
func (e *EditorCanvas) Scrolled(ev *fyne.ScrollEvent) {
	e.zoom += ev.Scrolled.DY * 0.05
	if e.zoom < 0.1 {
		e.zoom = 0.1
	}
	if e.zoom > 4.0 {
		e.zoom = 4.0
	}
	if e.sess != nil {
		e.sess.SetZoom(float64(e.zoom))
	}
	e.Refresh()
}

func (e *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	page := canvas.NewRectangle(color.White)
	page.StrokeColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	page.StrokeWidth = 2
	return &editorCanvasRenderer{ec: e, bg: bg, page: page}
}

// editorCanvasRenderer rebuilds the scene visuals on every layout. The
// object count is small (a resume page), so rebuilding beats diffing.
type editorCanvasRenderer struct {
	ec       *EditorCanvas
	bg, page *canvas.Rectangle
	visuals  []fyne.CanvasObject
}

func (r *editorCanvasRenderer) Destroy() { r.ec.detached = true }

func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg, r.page}
	return append(objs, r.visuals...)
}

func (r *editorCanvasRenderer) MinSize() fyne.Size { return r.ec.PreferredSize() }

func (r *editorCanvasRenderer) Refresh() {
	r.Layout(r.ec.Size())
	canvas.Refresh(r.ec)
}

func (r *editorCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	cx, cy, s := r.ec.pageOriginAndScale()
	r.page.Resize(fyne.NewSize(float32(render.PageWidth)*s, float32(render.PageHeight)*s))
	r.page.Move(fyne.NewPos(cx, cy))
	if r.ec.sess != nil {
		r.page.FillColor = hexToColor(r.ec.sess.Graph().Background(), color.White)
	}

	r.visuals = r.visuals[:0]
	if r.ec.sess == nil {
		return
	}
	for _, o := range r.ec.sess.Graph().Objects() {
		r.visuals = append(r.visuals, r.objectVisual(o))
	}
	r.appendHover()
	r.appendSelection()
}

func (r *editorCanvasRenderer) objectVisual(o *scene.SceneObject) fyne.CanvasObject {
	b := o.Bounds()
	p0 := r.ec.toScreen(geometry.Pt{X: b.X, Y: b.Y})
	sz := fyne.NewSize(float32(b.W)*r.ec.zoom, float32(b.H)*r.ec.zoom)

	switch o.Spec.Kind {
	case domain.KindText:
		t := canvas.NewText(o.Spec.Text, hexToColor(o.Spec.Fill, color.Black))
		fs := o.Spec.FontSize
		if fs <= 0 {
			fs = 16
		}
		t.TextSize = float32(fs) * r.ec.zoom
		t.Move(p0)
		return t
	case domain.KindCircle:
		c := canvas.NewCircle(hexToColor(o.Spec.Fill, color.Transparent))
		c.StrokeColor = hexToColor(o.Spec.Stroke, color.Black)
		c.StrokeWidth = float32(o.Spec.StrokeWidth)
		c.Resize(sz)
		c.Move(p0)
		return c
	case domain.KindLine:
		ln := canvas.NewLine(hexToColor(o.Spec.Stroke, color.Black))
		ln.StrokeWidth = float32(o.Spec.StrokeWidth)
		if ln.StrokeWidth <= 0 {
			ln.StrokeWidth = 1
		}
		ln.Resize(sz)
		ln.Move(p0)
		return ln
	default:
		rect := canvas.NewRectangle(hexToColor(o.Spec.Fill, color.Transparent))
		rect.StrokeColor = hexToColor(o.Spec.Stroke, color.Transparent)
		rect.StrokeWidth = float32(o.Spec.StrokeWidth)
		rect.Resize(sz)
		rect.Move(p0)
		return rect
	}
}

func (r *editorCanvasRenderer) appendHover() {
	id := r.ec.sess.HoveredID()
	if id == "" {
		return
	}
	o := r.ec.sess.Graph().Get(id)
	if o == nil {
		return
	}
	b := o.Bounds().Pad(5)
	out := canvas.NewRectangle(color.Transparent)
	out.StrokeColor = color.RGBA{R: 0x10, G: 0xb9, B: 0x81, A: 255}
	out.StrokeWidth = 1
	out.Resize(fyne.NewSize(float32(b.W)*r.ec.zoom, float32(b.H)*r.ec.zoom))
	out.Move(r.ec.toScreen(geometry.Pt{X: b.X, Y: b.Y}))
	r.visuals = append(r.visuals, out)
}

func (r *editorCanvasRenderer) appendSelection() {
	o := r.ec.sess.Selected()
	if o == nil {
		return
	}
	b := o.Bounds()
	p0 := r.ec.toScreen(geometry.Pt{X: b.X, Y: b.Y})
	w := float32(b.W) * r.ec.zoom
	h := float32(b.H) * r.ec.zoom

	bbox := canvas.NewRectangle(color.Transparent)
	bbox.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	bbox.StrokeWidth = 1
	bbox.Resize(fyne.NewSize(w, h))
	bbox.Move(p0)
	r.visuals = append(r.visuals, bbox)

	// Corner and mid-edge handles, no rotation handle.
	hs := float32(geometry.HandleSize)
	anchors := []fyne.Position{
		{X: p0.X, Y: p0.Y},
		{X: p0.X + w, Y: p0.Y},
		{X: p0.X, Y: p0.Y + h},
		{X: p0.X + w, Y: p0.Y + h},
		{X: p0.X, Y: p0.Y + h/2},
		{X: p0.X + w, Y: p0.Y + h/2},
	}
	for _, a := range anchors {
		hrec := canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255})
		hrec.Resize(fyne.NewSize(hs, hs))
		hrec.Move(fyne.NewPos(a.X-hs/2, a.Y-hs/2))
		r.visuals = append(r.visuals, hrec)
	}
}

func hexToColor(s string, def color.Color) color.Color {
	if s == "" || s[0] != '#' {
		return def
	}
	var rr, gg, bb uint8
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &rr, &gg, &bb)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &rr, &gg, &bb)
		rr, gg, bb = rr*17, gg*17, bb*17
	default:
		return def
	}
	if err != nil {
		return def
	}
	return color.RGBA{R: rr, G: gg, B: bb, A: 255}
}
