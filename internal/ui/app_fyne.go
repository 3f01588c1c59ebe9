//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"golang.org/x/image/font/basicfont"

	"holouistudio/internal/assets"
	ecanvas "holouistudio/internal/canvas"
	"holouistudio/internal/catalog"
	"holouistudio/internal/config"
	"holouistudio/internal/crash"
	"holouistudio/internal/domain"
	"holouistudio/internal/export"
	"holouistudio/internal/history"
	applog "holouistudio/internal/log"
	"holouistudio/internal/plane"
	"holouistudio/internal/schema"
	"holouistudio/internal/storage"
	"holouistudio/internal/store"
	"holouistudio/internal/telemetry"
)

// Run starts the Fyne-based panel editor on the given workspace directory.
func Run(workspaceDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting editor", slog.String("workspace", workspaceDir))

	cfg, _, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	telemetry.InitDefault()

	if workspaceDir == "" {
		workspaceDir = "."
	}
	ws, err := storage.Open(workspaceDir)
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	defer ws.Close()

	st := store.New(ws.LoadPanel())
	images := assets.NewCollection(ws.LoadImages())
	settings := ws.LoadSettings()

	defer crash.Recover(ws, func() domain.Panel { return st.Panel() })

	calc := ecanvas.NewCalculator(basicfont.Face7x13, assets.NewDecodeCache())
	renderer := ecanvas.NewRenderer(calc)
	drag := ecanvas.NewDrag(st, calc)
	hist := history.NewManager(history.Config{})

	fyneApp := app.NewWithID("holouistudio")
	w := fyneApp.NewWindow("HoloUI Studio")
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
	setStatus := func(format string, args ...any) { status.SetText(fmt.Sprintf(format, args...)) }

	surface := newPanelSurface(st, renderer, calc, drag, hist, images)
	surface.debugFrames = cfg.General.DebugFrames || settings.DebugFrames

	// Component list (right pane)
	componentIDs := []string{}
	componentList := widget.NewList(
		func() int { return len(componentIDs) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(componentIDs) {
				o.(*widget.Label).SetText(componentIDs[i])
			}
		},
	)
	componentList.OnSelected = func(i widget.ListItemID) {
		if i >= 0 && int(i) < len(componentIDs) {
			st.Select(componentIDs[i])
		}
	}

	refreshComponentList := func() {
		p := st.Panel()
		componentIDs = componentIDs[:0]
		for _, c := range p.Components {
			componentIDs = append(componentIDs, c.ID)
		}
		componentList.Refresh()
		if sel, ok := st.Selected(); ok {
			for i, id := range componentIDs {
				if id == sel {
					componentList.Select(i)
					return
				}
			}
		}
		componentList.UnselectAll()
	}

	// Every successful mutation persists the document and redraws.
	st.Subscribe(func() {
		if err := ws.SavePanel(st.Panel()); err != nil {
			l.Error("autosave failed", slog.Any("err", err))
		}
		refreshComponentList()
		surface.Refresh()
	})

	// Schema and item catalog load in the background; editing starts degraded
	// and upgrades once they arrive.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		v, err := schema.Fetch(ctx, cfg.Game.SchemaURL, 10*time.Second)
		if err != nil {
			l.Warn("schema unavailable, editing without validation", slog.Any("err", err))
		}
		surface.validator = v

		cacheDir := filepath.Join(ws.Root(), storage.WorkspaceDirName, "catalog")
		items, err := catalog.New(cfg.Game.CatalogURL, cacheDir, 10*time.Second).Items(ctx, cfg.Game.Version)
		if err != nil {
			l.Warn("item catalog unavailable, item icons unresolvable", slog.Any("err", err))
			return
		}
		surface.items = catalog.Index(items)
		fyne.Do(surface.Refresh)
	}()

	addComponent := func(build func(id, text string) domain.Component) func() {
		return func() {
			idEntry := widget.NewEntry()
			textEntry := widget.NewEntry()
			items := []*widget.FormItem{
				widget.NewFormItem("ID", idEntry),
				widget.NewFormItem("Text", textEntry),
			}
			dialog.ShowForm("Add component", "Add", "Cancel", items, func(ok bool) {
				if !ok || idEntry.Text == "" {
					return
				}
				hist.Record(st.Panel())
				if err := st.Create(build(idEntry.Text, textEntry.Text)); err != nil {
					setStatus("add failed: %v", err)
					return
				}
				telemetry.Event("component_added", nil)
				setStatus("added %q", idEntry.Text)
			}, w)
		}
	}

	deleteSelected := func() {
		id, ok := st.Selected()
		if !ok {
			setStatus("nothing selected")
			return
		}
		hist.Record(st.Panel())
		st.Remove(id)
		setStatus("removed %q", id)
	}

	undo := func() {
		if p, ok := hist.Undo(st.Panel()); ok {
			st.ReplaceAll(p)
			setStatus("undo")
		}
	}
	redo := func() {
		if p, ok := hist.Redo(st.Panel()); ok {
			st.ReplaceAll(p)
			setStatus("redo")
		}
	}

	exportJSON := func() {
		dialog.ShowFileSave(func(wr fyne.URIWriteCloser, err error) {
			if err != nil || wr == nil {
				return
			}
			path := wr.URI().Path()
			_ = wr.Close()
			if err := storage.ExportDocument(path, st.Panel()); err != nil {
				dialog.ShowError(err, w)
				return
			}
			telemetry.Event("panel_exported", map[string]any{"components": len(st.Panel().Components)})
			setStatus("exported %s", path)
		}, w)
	}

	importJSON := func() {
		dialog.ShowFileOpen(func(rd fyne.URIReadCloser, err error) {
			if err != nil || rd == nil {
				return
			}
			path := rd.URI().Path()
			_ = rd.Close()
			v := surface.validator
			if v == nil {
				v = schema.Unavailable()
			}
			p, err := storage.ImportDocument(path, v)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			hist.Record(st.Panel())
			st.ReplaceAll(p)
			setStatus("imported %s", path)
		}, w)
	}

	importImage := func() {
		dialog.ShowFileOpen(func(rd fyne.URIReadCloser, err error) {
			if err != nil || rd == nil {
				return
			}
			defer rd.Close()
			data, err := io.ReadAll(rd)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			name := filepath.Base(rd.URI().Path())
			images.Add(name, base64.StdEncoding.EncodeToString(data))
			if err := ws.SaveImages(images.List()); err != nil {
				l.Error("save images failed", slog.Any("err", err))
			}
			surface.Refresh()
			setStatus("image %q added", name)
		}, w)
	}

	exportPNG := func() {
		dialog.ShowFileSave(func(wr fyne.URIWriteCloser, err error) {
			if err != nil || wr == nil {
				return
			}
			path := wr.URI().Path()
			_ = wr.Close()
			sel, _ := st.Selected()
			err = export.ExportPNG(renderer, st.Panel(), images, surface.items, path, export.PNGOptions{
				Width: 1280, Height: 720, SelectedID: sel, DebugFrames: surface.debugFrames,
			})
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			setStatus("exported %s", path)
		}, w)
	}

	exportPDF := func() {
		dialog.ShowFileSave(func(wr fyne.URIWriteCloser, err error) {
			if err != nil || wr == nil {
				return
			}
			path := wr.URI().Path()
			_ = wr.Close()
			err = export.ExportPDF(renderer, st.Panel(), images, surface.items, path, export.PDFOptions{
				Title: "HoloUI Panel", IncludePreview: true,
			})
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			setStatus("exported %s", path)
		}, w)
	}

	toolbar := container.NewHBox(
		widget.NewButton("Decoration", addComponent(func(id, text string) domain.Component {
			return domain.Component{ID: id, Data: domain.DecorationData{Icon: domain.TextIcon{Text: text}}}
		})),
		widget.NewButton("Button", addComponent(func(id, text string) domain.Component {
			return domain.Component{ID: id, Data: domain.ButtonData{Icon: domain.TextIcon{Text: text}}}
		})),
		widget.NewButton("Delete", deleteSelected),
		widget.NewSeparator(),
		widget.NewButton("Undo", undo),
		widget.NewButton("Redo", redo),
		widget.NewSeparator(),
		widget.NewButton("Import", importJSON),
		widget.NewButton("Export", exportJSON),
		widget.NewButton("PNG", exportPNG),
		widget.NewButton("PDF", exportPDF),
		widget.NewButton("Add Image", importImage),
	)

	right := container.NewBorder(widget.NewLabel("Components"), nil, nil, nil, componentList)
	content := container.NewBorder(toolbar, status, nil, right, surface)
	w.SetContent(content)

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			deleteSelected()
		}
	})

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		if err := ws.SaveSettings(settings); err != nil {
			l.Error("save settings failed", slog.Any("err", err))
		}
	})

	refreshComponentList()
	w.ShowAndRun()
	return nil
}

// panelSurface renders the virtual plane through the raster renderer and
// feeds pointer events into the drag state machine.
type panelSurface struct {
	widget.BaseWidget

	store    *store.Store
	renderer *ecanvas.Renderer
	calc     *ecanvas.Calculator
	drag     *ecanvas.Drag
	hist     *history.Manager
	images   *assets.Collection

	items       map[string]catalog.Item
	validator   *schema.Validator
	debugFrames bool

	raster *fcanvas.Raster
}

func newPanelSurface(st *store.Store, r *ecanvas.Renderer, calc *ecanvas.Calculator, d *ecanvas.Drag, h *history.Manager, images *assets.Collection) *panelSurface {
	s := &panelSurface{
		store:    st,
		renderer: r,
		calc:     calc,
		drag:     d,
		hist:     h,
		images:   images,
		items:    map[string]catalog.Item{},
	}
	s.raster = fcanvas.NewRaster(s.draw)
	s.ExtendBaseWidget(s)
	return s
}

func (s *panelSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.raster)
}

func (s *panelSurface) MinSize() fyne.Size { return fyne.NewSize(640, 360) }

func (s *panelSurface) draw(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	sel, _ := s.store.Selected()
	s.renderer.Render(img, s.store.Panel(), s.images, s.items, sel, ecanvas.Options{DebugFrames: s.debugFrames})
	return img
}

// surfaceSize reports the logical widget size. The raster draws at device
// resolution but hit testing happens in logical units, which share the same
// aspect; the mapper only needs a consistent pair.
func (s *panelSurface) surfaceSize() (float64, float64) {
	sz := s.Size()
	return float64(sz.Width), float64(sz.Height)
}

func (s *panelSurface) Tapped(e *fyne.PointEvent) {
	w, h := s.surfaceSize()
	pos := planePos(e.Position)
	s.hist.Record(s.store.Panel())
	s.drag.PointerDown(pos, s.store.Panel().Components, s.images, s.items, w, h)
	s.drag.PointerUp()
	s.Refresh()
}

func (s *panelSurface) Dragged(e *fyne.DragEvent) {
	w, h := s.surfaceSize()
	pos := planePos(e.Position)
	if _, active := s.drag.Dragging(); !active {
		start := planePos(fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY))
		s.hist.Record(s.store.Panel())
		s.drag.PointerDown(start, s.store.Panel().Components, s.images, s.items, w, h)
	}
	s.drag.PointerMove(pos, w, h)
	s.Refresh()
}

func (s *panelSurface) DragEnd() {
	s.drag.PointerUp()
	s.Refresh()
}

func (s *panelSurface) MouseIn(_ *desktop.MouseEvent) {}

func (s *panelSurface) MouseMoved(_ *desktop.MouseEvent) {}

// MouseOut ends an active drag, same as a pointer-leave on the surface.
func (s *panelSurface) MouseOut() {
	s.drag.PointerLeave()
}

func planePos(p fyne.Position) plane.Vec2 {
	return plane.Vec2{X: float64(p.X), Y: float64(p.Y)}
}
