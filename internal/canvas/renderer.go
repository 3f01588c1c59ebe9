/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"holouistudio/internal/assets"
	"holouistudio/internal/catalog"
	"holouistudio/internal/domain"
	"holouistudio/internal/plane"
)

// LabelMargin is the slack added to a component's box width when truncating
// its id label.
const LabelMargin = 40.0

// Options controls optional renderer behavior.
type Options struct {
	// DebugFrames draws a full-size crosshair through the surface center
	// before any component, so it never occludes them.
	DebugFrames bool
}

var (
	colorBackground = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	colorCrosshair  = color.RGBA{R: 70, G: 70, B: 80, A: 255}
	colorOutline    = color.RGBA{R: 130, G: 130, B: 140, A: 255}
	colorSelected   = color.RGBA{R: 66, G: 153, B: 225, A: 255}
	colorText       = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	colorLabel      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

// Renderer draws a panel preview onto an RGBA surface. It is stateless with
// respect to the document: a pure function of data, assets and options. The
// same renderer backs the interactive preview and PNG export.
type Renderer struct {
	calc *Calculator
}

func NewRenderer(calc *Calculator) *Renderer {
	return &Renderer{calc: calc}
}

// Render draws every component of the panel: icon content, an outline around
// its bounding box (selection changes the stroke color) and a truncated id
// label. A nil or zero-size surface is a silent no-op.
func (r *Renderer) Render(dst *image.RGBA, panel domain.Panel, col *assets.Collection, items map[string]catalog.Item, selectedID string, opts Options) {
	if dst == nil {
		return
	}
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}

	fillRect(dst, b, colorBackground)

	if opts.DebugFrames {
		drawHLine(dst, b.Min.X, b.Max.X, b.Min.Y+b.Dy()/2, colorCrosshair)
		drawVLine(dst, b.Min.X+b.Dx()/2, b.Min.Y, b.Max.Y, colorCrosshair)
	}

	for _, comp := range panel.Components {
		box, ok := r.calc.BoundingBoxOf(comp, col, items, w, h)
		if !ok {
			continue
		}

		r.drawIcon(dst, comp, box, col, items)

		stroke := colorOutline
		if comp.ID == selectedID {
			stroke = colorSelected
		}
		strokeRect(dst, box, stroke)

		r.drawLabel(dst, comp.ID, box)
	}
}

func (r *Renderer) drawIcon(dst *image.RGBA, comp domain.Component, box plane.Box, col *assets.Collection, items map[string]catalog.Item) {
	switch v := displayIcon(comp.Data).(type) {
	case domain.TextIcon:
		// the box anchor is the text's baseline-left origin
		r.drawString(dst, v.Text, box.Min.X, box.Max.Y, colorText)

	case domain.ItemIcon:
		it, ok := items[v.Item]
		if !ok || it.Texture == nil {
			return
		}
		img, err := r.calc.images.Decode(*it.Texture)
		if err != nil {
			return
		}
		blitScaled(dst, img, box)

	case domain.TextImageIcon:
		a, ok := col.Get(v.Path)
		if !ok {
			return
		}
		img, err := r.calc.images.Decode(a.Base64)
		if err != nil {
			return
		}
		drawCellGrid(dst, img, box)
	}
}

// drawLabel writes the component id under its box, dropping trailing
// characters one at a time until the label fits the box width plus a fixed
// margin.
func (r *Renderer) drawLabel(dst *image.RGBA, id string, box plane.Box) {
	maxWidth := box.Width() + LabelMargin
	label := id
	for label != "" && r.calc.advance(label) > maxWidth {
		label = label[:len(label)-1]
	}
	if label == "" {
		return
	}
	r.drawString(dst, label, box.Min.X, box.Max.Y+r.calc.lineHeight(), colorLabel)
}

func (r *Renderer) drawString(dst *image.RGBA, s string, x, baselineY float64, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: r.calc.face,
		Dot:  fixed.Point26_6{X: fixed.I(int(x)), Y: fixed.I(int(baselineY))},
	}
	d.DrawString(s)
}

// blitScaled copies src into the box with nearest-neighbor scaling, good
// enough for the chunky item sprites of the preview.
func blitScaled(dst *image.RGBA, src image.Image, box plane.Box) {
	sb := src.Bounds()
	bw, bh := box.Width(), box.Height()
	if sb.Dx() == 0 || sb.Dy() == 0 || bw <= 0 || bh <= 0 {
		return
	}
	x0, y0 := int(box.Min.X), int(box.Min.Y)
	for dy := 0; dy < int(bh); dy++ {
		for dx := 0; dx < int(bw); dx++ {
			sx := sb.Min.X + dx*sb.Dx()/int(bw)
			sy := sb.Min.Y + dy*sb.Dy()/int(bh)
			_, _, _, a := src.At(sx, sy).RGBA()
			if a == 0 {
				continue
			}
			setInBounds(dst, x0+dx, y0+dy, src.At(sx, sy))
		}
	}
}

// drawCellGrid renders each source pixel as a filled cell with a gap between
// cells, emulating the game's coarse glyph rendering.
func drawCellGrid(dst *image.RGBA, src image.Image, box plane.Box) {
	sb := src.Bounds()
	for py := 0; py < sb.Dy(); py++ {
		for px := 0; px < sb.Dx(); px++ {
			c := src.At(sb.Min.X+px, sb.Min.Y+py)
			_, _, _, a := c.RGBA()
			if a == 0 {
				continue
			}
			cx := int(box.Min.X + float64(px)*(ImageCellSize+ImageCellGap))
			cy := int(box.Min.Y + float64(py)*(ImageCellSize+ImageCellGap))
			fillRect(dst, image.Rect(cx, cy, cx+int(ImageCellSize), cy+int(ImageCellSize)), c)
		}
	}
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Set(x, y, c)
		}
	}
}

func strokeRect(dst *image.RGBA, box plane.Box, c color.Color) {
	x0, y0 := int(box.Min.X), int(box.Min.Y)
	x1, y1 := int(box.Max.X), int(box.Max.Y)
	drawHLine(dst, x0, x1, y0, c)
	drawHLine(dst, x0, x1, y1, c)
	drawVLine(dst, x0, y0, y1, c)
	drawVLine(dst, x1, y0, y1, c)
}

func drawHLine(dst *image.RGBA, x0, x1, y int, c color.Color) {
	for x := x0; x <= x1; x++ {
		setInBounds(dst, x, y, c)
	}
}

func drawVLine(dst *image.RGBA, x, y0, y1 int, c color.Color) {
	for y := y0; y <= y1; y++ {
		setInBounds(dst, x, y, c)
	}
}

func setInBounds(dst *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.Set(x, y, c)
	}
}
