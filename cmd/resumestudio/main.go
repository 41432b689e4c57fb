/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"resumestudio/internal/backend"
	"resumestudio/internal/config"
	"resumestudio/internal/crash"
	"resumestudio/internal/domain"
	"resumestudio/internal/export"
	applog "resumestudio/internal/log"
	"resumestudio/internal/render"
	"resumestudio/internal/storage"
	"resumestudio/internal/ui"
	"resumestudio/internal/version"
)

func usage() {
	fmt.Println("Resume Studio — canvas resume editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  resumestudio version|-v|--version          Show version")
	fmt.Println("  resumestudio init <dir> <name>             Create a new workspace at <dir> with resume name <name>")
	fmt.Println("  resumestudio open <dir>                     Open workspace at <dir> and print summary")
	fmt.Println("  resumestudio save <dir>                     Save workspace at <dir> (creates backup)")
	fmt.Println("  resumestudio login <token>                  Store the backend API token in the OS keychain")
	fmt.Println("  resumestudio templates                      List templates from the backend")
	fmt.Println("  resumestudio preview <templateId> [out.png]  Fetch a template and render a preview image")
	fmt.Println("  resumestudio export <dir> <png|jpg|pdf> [out]  Export the workspace scene")
	fmt.Println("  resumestudio snapshots <dir> [n]            List recent autosave snapshots")
	fmt.Println("  resumestudio ui [<dir>]                     Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ws *storage.WorkspaceHandle
	defer func() { crash.Recover(ws) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Resume Studio — canvas resume editor")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init workspace", slog.String("root", abs), slog.String("name", name))
			doc := domain.Document{Name: name}
			h, err := storage.InitWorkspace(abs, doc)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			fmt.Println("Created workspace at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open workspace", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			fmt.Printf("Opened resume: %s\n", h.Document.Name)
			fmt.Println("Template:", orNone(h.Document.TemplateID))
			if h.Document.Scene != nil {
				fmt.Printf("Scene objects: %d\n", len(h.Document.Scene.Objects))
			} else {
				fmt.Println("Scene objects: 0")
			}
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save workspace", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved workspace and created a backup of the previous document (if any).")
			return
		case "login":
			if len(args) < 3 {
				fmt.Println("login requires <token>")
				usage()
				os.Exit(2)
			}
			cfg, _, err := config.Load()
			if err != nil {
				cfg = config.Defaults()
			}
			if err := config.Save(cfg, args[2]); err != nil {
				l.Error("token store failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Token stored.")
			return
		case "templates":
			cfg, token, err := config.Load()
			if err != nil {
				cfg = config.Defaults()
			}
			client := backend.NewClient(cfg.Backend.BaseURL, token, backend.ClientOptions{
				Timeout:     cfg.Backend.Timeout(),
				TLSInsecure: cfg.Backend.TLSInsecure,
			})
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
			defer cancel()
			list, err := client.ListTemplates(ctx)
			if err != nil {
				l.Error("template list failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, t := range list {
				fmt.Printf("%s\t%s\t%s\n", t.ID, t.Variant, t.Name)
			}
			return
		case "preview":
			if len(args) < 3 {
				fmt.Println("preview requires <templateId>")
				usage()
				os.Exit(2)
			}
			out := args[2] + ".png"
			if len(args) >= 4 {
				out = args[3]
			}
			runPreview(l, args[2], out)
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and <png|jpg|pdf>")
				usage()
				os.Exit(2)
			}
			runExport(l, args[2], args[3], args[4:])
			return
		case "snapshots":
			if len(args) < 3 {
				fmt.Println("snapshots requires <dir>")
				usage()
				os.Exit(2)
			}
			limit := 10
			if len(args) >= 4 {
				if n, err := strconv.Atoi(args[3]); err == nil && n > 0 {
					limit = n
				}
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			recs, err := storage.ListSnapshots(context.Background(), h, h.Document.TemplateID, limit)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range recs {
				fmt.Printf("%s\t%d objects\n", r.TS.Local().Format("2006-01-02 15:04:05"), len(r.Snapshot.Objects))
			}
			if len(recs) == 0 {
				fmt.Println("No snapshots recorded.")
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

// runPreview fetches a template and renders it against an empty data
// context, so identity defaults fill the substitution tokens.
func runPreview(l *slog.Logger, templateID, out string) {
	cfg, token, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	client := backend.NewClient(cfg.Backend.BaseURL, token, backend.ClientOptions{
		Timeout:     cfg.Backend.Timeout(),
		TLSInsecure: cfg.Backend.TLSInsecure,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
	defer cancel()
	doc, err := client.Template(ctx, templateID)
	if err != nil {
		l.Error("template fetch failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	tree, err := render.Render(doc, domain.BuildContext(domain.ResumeData{}))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if doc.Variant == domain.VariantHTML {
		fmt.Println("HTML templates have no raster preview; markup follows.")
		fmt.Println(tree.HTML)
		return
	}
	opt := export.Options{Multiplier: cfg.Export.Multiplier, JPEGQuality: cfg.Export.JPEGQuality}
	if err := export.WritePNG(out, tree, opt); err != nil {
		l.Error("preview write failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Println("Preview written to", out)
}

// runExport renders the workspace document and writes it in the chosen
// format. A stored scene wins over the referenced template; without
// either there is nothing to render.
func runExport(l *slog.Logger, dir, format string, rest []string) {
	abs, _ := filepath.Abs(dir)
	h, err := storage.Open(abs)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	doc, err := exportableTemplate(h)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	tree, err := render.Render(doc, domain.BuildContext(h.Document.Data))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	out := filepath.Join(abs, "exports", "resume."+format)
	if len(rest) > 0 {
		out = rest[0]
	}
	cfg, _, cerr := config.Load()
	if cerr != nil {
		cfg = config.Defaults()
	}
	opt := export.Options{Multiplier: cfg.Export.Multiplier, JPEGQuality: cfg.Export.JPEGQuality}

	written := out
	switch format {
	case "png":
		err = export.WritePNG(out, tree, opt)
	case "jpg", "jpeg":
		err = export.WriteJPEG(out, tree, opt)
	case "pdf":
		written, err = export.WritePDF(out, tree, opt)
	default:
		fmt.Println("Unknown format:", format)
		os.Exit(2)
	}
	if err != nil {
		l.Error("export failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Println("Exported", written)
}

// exportableTemplate wraps the stored scene as a canvas template, or
// fetches the referenced template when no scene has been saved yet.
func exportableTemplate(h *storage.WorkspaceHandle) (domain.TemplateDocument, error) {
	if h.Document.Scene != nil && len(h.Document.Scene.Objects) > 0 {
		return domain.TemplateDocument{
			ID:      h.Document.TemplateID,
			Name:    h.Document.Name,
			Variant: domain.VariantCanvas,
			Canvas:  h.Document.Scene,
		}, nil
	}
	if h.Document.TemplateID == "" {
		return domain.TemplateDocument{}, fmt.Errorf("workspace has no saved scene and no template reference")
	}
	cfg, token, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	client := backend.NewClient(cfg.Backend.BaseURL, token, backend.ClientOptions{
		Timeout:     cfg.Backend.Timeout(),
		TLSInsecure: cfg.Backend.TLSInsecure,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
	defer cancel()
	return client.Template(ctx, h.Document.TemplateID)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
