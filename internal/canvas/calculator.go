/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package canvas implements the editing-preview engine: per-icon bounding
// boxes, pointer hit-testing, rendering onto an RGBA surface and the
// drag-to-reposition state machine.
package canvas

import (
	"golang.org/x/image/font"

	"holouistudio/internal/assets"
	"holouistudio/internal/catalog"
	"holouistudio/internal/domain"
	"holouistudio/internal/plane"
)

// Pixel constants of the preview. Item sprites render at a fixed size; image
// icons render as a coarse cell grid emulating the game's low-resolution
// glyph output.
const (
	ItemBoxSize   = 24.0 // item sprite box edge length
	ImageCellSize = 4.0  // edge length of one image cell
	ImageCellGap  = 1.0  // gap between adjacent cells
)

// Calculator computes pixel-space bounding boxes for components. It is
// constructed with the font face used by the preview and the shared image
// decode cache; both are explicit collaborators, not globals.
type Calculator struct {
	face   font.Face
	images *assets.DecodeCache
}

func NewCalculator(face font.Face, images *assets.DecodeCache) *Calculator {
	return &Calculator{face: face, images: images}
}

// displayIcon picks the icon a component shows in the preview. Toggles
// always preview their true branch.
func displayIcon(d domain.ComponentData) domain.Icon {
	switch v := d.(type) {
	case domain.DecorationData:
		return v.Icon
	case domain.ButtonData:
		return v.Icon
	case domain.ToggleData:
		return v.TrueIcon
	default:
		return nil
	}
}

// BoundingBoxOf returns the pixel-space box of a component on a w by h
// surface. The second return is false when the displayable icon cannot be
// resolved: empty text, a catalog item without a texture, an image id that
// is not in the collection, or an animated icon. Unresolvable is a normal
// interactive condition (mid-upload references), never an error.
func (c *Calculator) BoundingBoxOf(comp domain.Component, col *assets.Collection, items map[string]catalog.Item, w, h float64) (plane.Box, bool) {
	icon := displayIcon(comp.Data)
	if icon == nil {
		return plane.Box{}, false
	}
	anchor := plane.ToPixel(plane.Vec2{X: comp.Offset.X(), Y: comp.Offset.Y()}, w, h)

	switch v := icon.(type) {
	case domain.TextIcon:
		if v.Text == "" {
			return plane.Box{}, false
		}
		width := float64(c.advance(v.Text))
		height := c.lineHeight()
		// baseline-left anchored, deliberately not centered like the others
		return plane.Box{
			Min: plane.Vec2{X: anchor.X, Y: anchor.Y - height},
			Max: plane.Vec2{X: anchor.X + width, Y: anchor.Y},
		}, true

	case domain.ItemIcon:
		it, ok := items[v.Item]
		if !ok || it.Texture == nil {
			return plane.Box{}, false
		}
		return centeredBox(anchor, ItemBoxSize, ItemBoxSize), true

	case domain.TextImageIcon:
		a, ok := col.Get(v.Path)
		if !ok {
			return plane.Box{}, false
		}
		img, err := c.images.Decode(a.Base64)
		if err != nil {
			return plane.Box{}, false
		}
		b := img.Bounds()
		return centeredBox(anchor, gridExtent(b.Dx()), gridExtent(b.Dy())), true

	case domain.AnimatedTextImageIcon:
		// not rendered by the preview, carried for round-trip fidelity only
		return plane.Box{}, false

	default:
		return plane.Box{}, false
	}
}

// gridExtent is the pixel span of n image cells including the gaps between
// them.
func gridExtent(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*ImageCellSize + float64(n-1)*ImageCellGap
}

func centeredBox(center plane.Vec2, w, h float64) plane.Box {
	return plane.Box{
		Min: plane.Vec2{X: center.X - w/2, Y: center.Y - h/2},
		Max: plane.Vec2{X: center.X + w/2, Y: center.Y + h/2},
	}
}

func (c *Calculator) advance(s string) float64 {
	d := &font.Drawer{Face: c.face}
	return float64(d.MeasureString(s) >> 6) // fixed.Int26_6 to px
}

func (c *Calculator) lineHeight() float64 {
	m := c.face.Metrics()
	return float64(m.Ascent.Round() + m.Descent.Round())
}
