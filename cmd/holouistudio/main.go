/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/image/font/basicfont"

	"holouistudio/internal/assets"
	"holouistudio/internal/backend"
	"holouistudio/internal/canvas"
	"holouistudio/internal/catalog"
	"holouistudio/internal/config"
	"holouistudio/internal/crash"
	"holouistudio/internal/domain"
	"holouistudio/internal/export"
	applog "holouistudio/internal/log"
	"holouistudio/internal/schema"
	"holouistudio/internal/storage"
	"holouistudio/internal/ui"
	"holouistudio/internal/version"
)

func usage() {
	fmt.Println("HoloUI Studio — holographic panel editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  holouistudio version|-v|--version           Show version")
	fmt.Println("  holouistudio init <dir>                      Create a workspace at <dir> with a default panel")
	fmt.Println("  holouistudio info <dir>                      Open the workspace at <dir> and print a summary")
	fmt.Println("  holouistudio validate <file>                 Validate a panel document against the schema")
	fmt.Println("  holouistudio import <dir> <file>             Import a panel document into the workspace")
	fmt.Println("  holouistudio export <dir> <file>             Export the workspace panel to a JSON document")
	fmt.Println("  holouistudio convert <in> <out>              Convert a legacy mapped document to the editor format")
	fmt.Println("  holouistudio export-png <dir> <file.png>     Render the workspace panel to a PNG")
	fmt.Println("  holouistudio export-pdf <dir> <file.pdf>     Render a panel summary sheet to a PDF")
	fmt.Println("  holouistudio serve                           Run the preset library server (Postgres)")
	fmt.Println("  holouistudio presets list                    List shared presets (backend must be enabled)")
	fmt.Println("  holouistudio presets get <id> <file>         Download a preset document")
	fmt.Println("  holouistudio presets publish <name> <dir>    Publish the workspace panel as a preset")
	fmt.Println("  holouistudio ui [<dir>]                      Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ws *storage.Workspace
	defer func() { crash.Recover(ws, nil) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("HoloUI Studio — holographic panel editor")
		fmt.Println(version.String())

	case "init":
		dir := requireArg(args, 2, "init requires <dir>")
		abs, _ := filepath.Abs(dir)
		l.Info("init workspace", slog.String("root", abs))
		w, err := storage.Open(abs)
		if err != nil {
			fail(l, "init failed", err)
		}
		ws = w
		if err := ws.SavePanel(domain.DefaultPanel()); err != nil {
			fail(l, "init failed", err)
		}
		fmt.Println("Created workspace at", abs)

	case "info":
		dir := requireArg(args, 2, "info requires <dir>")
		abs, _ := filepath.Abs(dir)
		w, err := storage.Open(abs)
		if err != nil {
			fail(l, "open failed", err)
		}
		ws = w
		p := ws.LoadPanel()
		settings := ws.LoadSettings()
		fmt.Println("Workspace:", abs)
		fmt.Printf("Components: %d\n", len(p.Components))
		fmt.Printf("Panel offset: [%g %g %g], locked: %v\n", p.Offset.X(), p.Offset.Y(), p.Offset.Z(), p.LockPosition)
		fmt.Printf("Game version: %s\n", settings.GameVersion)
		fmt.Printf("Images: %d\n", len(ws.LoadImages()))

	case "validate":
		file := requireArg(args, 2, "validate requires <file>")
		raw, err := os.ReadFile(file)
		if err != nil {
			fail(l, "read failed", err)
		}
		v := fetchValidator(l)
		if err := v.Validate(raw); err != nil {
			fmt.Println("Invalid:", err)
			os.Exit(1)
		}
		fmt.Println("Document is valid.")

	case "import":
		dir := requireArg(args, 2, "import requires <dir> and <file>")
		file := requireArg(args, 3, "import requires <dir> and <file>")
		w, err := storage.Open(dir)
		if err != nil {
			fail(l, "open failed", err)
		}
		ws = w
		p, err := storage.ImportDocument(file, fetchValidator(l))
		if err != nil {
			fail(l, "import failed", err)
		}
		if err := ws.SavePanel(p); err != nil {
			fail(l, "import failed", err)
		}
		fmt.Printf("Imported %s (%d components)\n", file, len(p.Components))

	case "export":
		dir := requireArg(args, 2, "export requires <dir> and <file>")
		file := requireArg(args, 3, "export requires <dir> and <file>")
		w, err := storage.Open(dir)
		if err != nil {
			fail(l, "open failed", err)
		}
		ws = w
		if err := storage.ExportDocument(file, ws.LoadPanel()); err != nil {
			fail(l, "export failed", err)
		}
		fmt.Println("Exported to", file)

	case "convert":
		in := requireArg(args, 2, "convert requires <in> and <out>")
		out := requireArg(args, 3, "convert requires <in> and <out>")
		p, err := export.ImportLegacy(in)
		if err != nil {
			fail(l, "convert failed", err)
		}
		if err := storage.ExportDocument(out, p); err != nil {
			fail(l, "convert failed", err)
		}
		fmt.Printf("Converted %s -> %s\n", in, out)

	case "export-png":
		dir := requireArg(args, 2, "export-png requires <dir> and <file.png>")
		file := requireArg(args, 3, "export-png requires <dir> and <file.png>")
		w, err := storage.Open(dir)
		if err != nil {
			fail(l, "open failed", err)
		}
		ws = w
		r, images, items := rendererFor(l, ws)
		err = export.ExportPNG(r, ws.LoadPanel(), images, items, file, export.PNGOptions{Width: 1280, Height: 720})
		if err != nil {
			fail(l, "export-png failed", err)
		}
		fmt.Println("Rendered to", file)

	case "export-pdf":
		dir := requireArg(args, 2, "export-pdf requires <dir> and <file.pdf>")
		file := requireArg(args, 3, "export-pdf requires <dir> and <file.pdf>")
		w, err := storage.Open(dir)
		if err != nil {
			fail(l, "open failed", err)
		}
		ws = w
		r, images, items := rendererFor(l, ws)
		err = export.ExportPDF(r, ws.LoadPanel(), images, items, file, export.PDFOptions{
			Title: "HoloUI Panel", IncludePreview: true,
		})
		if err != nil {
			fail(l, "export-pdf failed", err)
		}
		fmt.Println("Rendered to", file)

	case "serve":
		cfg := backend.LoadServerConfig()
		if err := backend.Serve(cfg); err != nil {
			fail(l, "serve failed", err)
		}

	case "presets":
		sub := requireArg(args, 2, "presets requires a subcommand: list, get, publish")
		c := presetClient(l)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		switch sub {
		case "list":
			list, err := c.ListPresets(ctx)
			if err != nil {
				fail(l, "presets list failed", err)
			}
			for _, p := range list {
				fmt.Printf("%d\t%s\t%s\n", p.ID, p.UpdatedAt.Format(time.RFC3339), p.Name)
			}
		case "get":
			idStr := requireArg(args, 3, "presets get requires <id> and <file>")
			file := requireArg(args, 4, "presets get requires <id> and <file>")
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				fail(l, "bad preset id", err)
			}
			p, err := c.GetPreset(ctx, id)
			if err != nil {
				fail(l, "presets get failed", err)
			}
			panel, err := p.Panel()
			if err != nil {
				fail(l, "preset document invalid", err)
			}
			if err := storage.ExportDocument(file, panel); err != nil {
				fail(l, "presets get failed", err)
			}
			fmt.Printf("Saved preset %q to %s\n", p.Name, file)
		case "publish":
			name := requireArg(args, 3, "presets publish requires <name> and <dir>")
			dir := requireArg(args, 4, "presets publish requires <name> and <dir>")
			w, err := storage.Open(dir)
			if err != nil {
				fail(l, "open failed", err)
			}
			ws = w
			p, err := c.PublishPreset(ctx, name, ws.LoadPanel())
			if err != nil {
				fail(l, "presets publish failed", err)
			}
			fmt.Printf("Published preset %q as id %d\n", p.Name, p.ID)
		default:
			usage()
			os.Exit(2)
		}

	case "ui":
		dir := ""
		if len(args) >= 3 {
			dir = args[2]
		}
		if err := ui.Run(dir); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}

	default:
		usage()
		os.Exit(2)
	}
}

func requireArg(args []string, i int, msg string) string {
	if len(args) <= i {
		fmt.Println(msg)
		usage()
		os.Exit(2)
	}
	return args[i]
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

// presetClient builds the preset library client from the user config. The
// backend is opt-in; the bearer token comes from the OS keyring.
func presetClient(l *slog.Logger) *backend.Client {
	cfg, token, err := config.Load()
	if err != nil {
		fail(l, "config load failed", err)
	}
	if !cfg.Backend.Enable {
		fmt.Println("The preset library is disabled. Set backend.enable: true in the config.")
		os.Exit(2)
	}
	return backend.NewClient(cfg.Backend.BaseURL, token, time.Duration(cfg.Backend.TimeoutMs)*time.Millisecond)
}

// fetchValidator compiles the remote schema; when it cannot be fetched the
// returned validator is degraded and only JSON well-formedness gates.
func fetchValidator(l *slog.Logger) *schema.Validator {
	cfg, _, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	v, err := schema.Fetch(ctx, cfg.Game.SchemaURL, 8*time.Second)
	if err != nil {
		l.Warn("schema unavailable, validating JSON shape only", slog.Any("err", err))
	}
	return v
}

// rendererFor builds the raster renderer plus the workspace image collection
// and the item catalog. A missing catalog degrades to unresolvable item icons.
func rendererFor(l *slog.Logger, ws *storage.Workspace) (*canvas.Renderer, *assets.Collection, map[string]catalog.Item) {
	cfg, _, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	images := assets.NewCollection(ws.LoadImages())
	r := canvas.NewRenderer(canvas.NewCalculator(basicfont.Face7x13, assets.NewDecodeCache()))

	items := map[string]catalog.Item{}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cacheDir := filepath.Join(ws.Root(), storage.WorkspaceDirName, "catalog")
	list, err := catalog.New(cfg.Game.CatalogURL, cacheDir, 8*time.Second).Items(ctx, ws.LoadSettings().GameVersion)
	if err != nil {
		l.Warn("item catalog unavailable, item icons unresolvable", slog.Any("err", err))
	} else {
		items = catalog.Index(list)
	}
	return r, images, items
}
