/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/basicfont"

	"holouistudio/internal/assets"
	"holouistudio/internal/canvas"
	"holouistudio/internal/catalog"
	"holouistudio/internal/domain"
)

func testRenderer() *canvas.Renderer {
	return canvas.NewRenderer(canvas.NewCalculator(basicfont.Face7x13, assets.NewDecodeCache()))
}

func testPanel() domain.Panel {
	p := domain.DefaultPanel()
	p.Components = []domain.Component{
		{ID: "title", Offset: domain.Vector3{0, 2, 0}, Data: domain.DecorationData{Icon: domain.TextIcon{Text: "Hub"}}},
		{ID: "spawn", Offset: domain.Vector3{-3, 0, 1}, Data: domain.ButtonData{
			Icon:    domain.TextIcon{Text: "Spawn"},
			Actions: []domain.Action{domain.CommandAction{Command: "spawn", Source: "player"}},
		}},
	}
	return p
}

func noItems() map[string]catalog.Item { return map[string]catalog.Item{} }

func TestExportPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "panel.png")
	err := ExportPNG(testRenderer(), testPanel(), assets.NewCollection(nil), noItems(), out, PNGOptions{Width: 280, Height: 200})
	if err != nil {
		t.Fatalf("export png: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 280 || b.Dy() != 200 {
		t.Fatalf("unexpected png size: %v", b)
	}
}

func TestRenderPreviewRejectsZeroSize(t *testing.T) {
	if _, err := RenderPreview(testRenderer(), testPanel(), assets.NewCollection(nil), noItems(), PNGOptions{Width: 0, Height: 100}); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestExportPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sheet.pdf")
	err := ExportPDF(testRenderer(), testPanel(), assets.NewCollection(nil), noItems(), out, PDFOptions{
		Title:          "Test Sheet",
		IncludePreview: true,
		PreviewWidth:   140,
	})
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	p := testPanel()

	if err := ExportLegacy(path, p); err != nil {
		t.Fatalf("export legacy: %v", err)
	}
	got, err := ImportLegacy(path)
	if err != nil {
		t.Fatalf("import legacy: %v", err)
	}

	for i := range p.Components {
		for ax := 0; ax < 3; ax++ {
			if math.Abs(got.Components[i].Offset[ax]-p.Components[i].Offset[ax]) > 1e-9 {
				t.Fatalf("component %d axis %d: got %v, expected %v",
					i, ax, got.Components[i].Offset[ax], p.Components[i].Offset[ax])
			}
		}
	}

	// the file on disk is in the mapped convention, not virtual coordinates
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read legacy: %v", err)
	}
	onDisk, err := domain.ParsePanel(raw)
	if err != nil {
		t.Fatalf("parse legacy: %v", err)
	}
	if onDisk.Components[1].Offset.X() == p.Components[1].Offset.X() {
		t.Fatalf("legacy file kept virtual coordinates")
	}
}
