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
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"holouistudio/internal/assets"
	"holouistudio/internal/canvas"
	"holouistudio/internal/catalog"
	"holouistudio/internal/domain"
)

// PDFOptions controls the reference sheet export.
// Built-in Helvetica keeps the output portable; no font embedding.
type PDFOptions struct {
	Title          string
	IncludePreview bool
	PreviewWidth   int // preview raster width in px; height follows the 14:10 plane ratio
}

// ExportPDF writes a component reference sheet: one table row per component
// (id, kind, offset, icon summary, action count), optionally preceded by an
// embedded preview raster of the panel.
func ExportPDF(r *canvas.Renderer, p domain.Panel, col *assets.Collection, items map[string]catalog.Item, outPath string, opt PDFOptions) error {
	title := opt.Title
	if title == "" {
		title = "HoloUI Panel"
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(usable, 24, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(usable, 14, fmt.Sprintf("%d components, panel offset [%.2f, %.2f, %.2f]",
		len(p.Components), p.Offset.X(), p.Offset.Y(), p.Offset.Z()), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	if opt.IncludePreview {
		if err := embedPreview(pdf, r, p, col, items, usable, opt.PreviewWidth); err != nil {
			return err
		}
		pdf.Ln(10)
	}

	// table header
	colWidths := []float64{usable * 0.22, usable * 0.14, usable * 0.22, usable * 0.28, usable * 0.14}
	headers := []string{"ID", "Kind", "Offset", "Icon", "Actions"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 235)
	for i, hcell := range headers {
		pdf.CellFormat(colWidths[i], 16, hcell, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, c := range p.Components {
		kind, icon, actionCount := summarize(c.Data)
		cells := []string{
			c.ID,
			kind,
			fmt.Sprintf("[%.2f, %.2f, %.2f]", c.Offset.X(), c.Offset.Y(), c.Offset.Z()),
			icon,
			fmt.Sprintf("%d", actionCount),
		}
		for i, cell := range cells {
			pdf.CellFormat(colWidths[i], 14, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func embedPreview(pdf *gofpdf.Fpdf, r *canvas.Renderer, p domain.Panel, col *assets.Collection, items map[string]catalog.Item, usable float64, previewWidth int) error {
	if previewWidth <= 0 {
		previewWidth = 700
	}
	previewHeight := previewWidth * 10 / 14 // match the plane aspect ratio
	img, err := RenderPreview(r, p, col, items, PNGOptions{Width: previewWidth, Height: previewHeight})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("panel-preview", opts, &buf)
	h := usable * float64(previewHeight) / float64(previewWidth)
	pdf.ImageOptions("panel-preview", pdf.GetX(), pdf.GetY(), usable, h, true, opts, 0, "")
	return nil
}

func summarize(d domain.ComponentData) (kind, icon string, actionCount int) {
	switch v := d.(type) {
	case domain.DecorationData:
		return "decoration", iconSummary(v.Icon), 0
	case domain.ButtonData:
		return "button", iconSummary(v.Icon), len(v.Actions)
	case domain.ToggleData:
		return "toggle", iconSummary(v.TrueIcon), len(v.TrueActions) + len(v.FalseActions)
	default:
		return "unknown", "", 0
	}
}

func iconSummary(i domain.Icon) string {
	switch v := i.(type) {
	case domain.TextIcon:
		return fmt.Sprintf("text %q", v.Text)
	case domain.ItemIcon:
		return "item " + v.Item
	case domain.TextImageIcon:
		return "image " + v.Path
	case domain.AnimatedTextImageIcon:
		return fmt.Sprintf("animated (%d frames)", len(v.Paths))
	default:
		return ""
	}
}
