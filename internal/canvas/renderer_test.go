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
	"testing"

	"holouistudio/internal/assets"
	"holouistudio/internal/domain"
	"holouistudio/internal/plane"
)

func renderFixture(t *testing.T, w, h int, panel domain.Panel, selected string, opts Options) *image.RGBA {
	t.Helper()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	r := NewRenderer(newCalc())
	r.Render(dst, panel, assets.NewCollection(nil), noCatalog(), selected, opts)
	return dst
}

func TestRenderZeroSizeSurfaceIsNoOp(t *testing.T) {
	r := NewRenderer(newCalc())
	panel := domain.DefaultPanel()
	panel.Components = []domain.Component{textComp("a", "hello", 0, 0)}

	// must not panic
	r.Render(nil, panel, assets.NewCollection(nil), noCatalog(), "", Options{})
	r.Render(image.NewRGBA(image.Rect(0, 0, 0, 0)), panel, assets.NewCollection(nil), noCatalog(), "", Options{})
}

func TestDebugFramesDrawsCrosshair(t *testing.T) {
	dst := renderFixture(t, 200, 100, domain.DefaultPanel(), "", Options{DebugFrames: true})

	if dst.RGBAAt(100, 30) != colorCrosshair {
		t.Fatalf("vertical crosshair missing at center column")
	}
	if dst.RGBAAt(30, 50) != colorCrosshair {
		t.Fatalf("horizontal crosshair missing at center row")
	}

	plain := renderFixture(t, 200, 100, domain.DefaultPanel(), "", Options{})
	if plain.RGBAAt(100, 30) == colorCrosshair {
		t.Fatalf("crosshair drawn without debug frames")
	}
}

func TestCrosshairDoesNotOccludeComponents(t *testing.T) {
	panel := domain.DefaultPanel()
	panel.Components = []domain.Component{textComp("center", "xx", 0, 0)}
	dst := renderFixture(t, 200, 100, panel, "", Options{DebugFrames: true})

	// the component's outline crosses the vertical center line; the outline
	// color must win because the crosshair is drawn first
	box, _ := newCalc().BoundingBoxOf(panel.Components[0], assets.NewCollection(nil), noCatalog(), 200, 100)
	y := int(box.Max.Y)
	found := false
	for x := int(box.Min.X); x <= int(box.Max.X); x++ {
		if dst.RGBAAt(x, y) == colorOutline {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("component outline not drawn over the crosshair")
	}
}

func TestSelectionChangesOutlineColor(t *testing.T) {
	panel := domain.DefaultPanel()
	panel.Components = []domain.Component{textComp("a", "abc", 0, 0)}

	calc := newCalc()
	box, _ := calc.BoundingBoxOf(panel.Components[0], assets.NewCollection(nil), noCatalog(), surfaceW, surfaceH)
	probe := image.Pt(int(box.Min.X), int(box.Min.Y))

	selected := renderFixture(t, int(surfaceW), int(surfaceH), panel, "a", Options{})
	if selected.RGBAAt(probe.X, probe.Y) != colorSelected {
		t.Fatalf("selected outline color missing at %v", probe)
	}

	unselected := renderFixture(t, int(surfaceW), int(surfaceH), panel, "other", Options{})
	if unselected.RGBAAt(probe.X, probe.Y) != colorOutline {
		t.Fatalf("default outline color missing at %v", probe)
	}
}

func TestUnresolvableComponentsAreSkipped(t *testing.T) {
	panel := domain.DefaultPanel()
	panel.Components = []domain.Component{
		{ID: "ghost", Data: domain.DecorationData{Icon: domain.TextImageIcon{Path: "missing"}}},
	}
	dst := renderFixture(t, 100, 100, panel, "ghost", Options{})

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if c := dst.RGBAAt(x, y); c == colorSelected || c == colorOutline {
				t.Fatalf("unresolvable component drew an outline at %d,%d", x, y)
			}
		}
	}
}

func TestLabelTruncation(t *testing.T) {
	r := NewRenderer(newCalc())
	dst := image.NewRGBA(image.Rect(0, 0, 400, 200))

	// a long id next to a tiny box: the label must be truncated to fit the
	// box width plus the margin, never drawn at full length
	panel := domain.DefaultPanel()
	long := textComp("an-extremely-long-component-identifier-that-cannot-fit", "ab", 0, 0)
	panel.Components = []domain.Component{long}

	r.Render(dst, panel, assets.NewCollection(nil), noCatalog(), "", Options{})

	calc := newCalc()
	box, _ := calc.BoundingBoxOf(long, assets.NewCollection(nil), noCatalog(), 400, 200)
	maxWidth := box.Width() + LabelMargin

	// reproduce the truncation loop and confirm it terminates within budget
	label := long.ID
	for label != "" && calc.advance(label) > maxWidth {
		label = label[:len(label)-1]
	}
	if label == "" || calc.advance(label) > maxWidth {
		t.Fatalf("truncated label %q exceeds budget %v", label, maxWidth)
	}
	if len(label) >= len(long.ID) {
		t.Fatalf("label was not truncated")
	}
}

func TestRenderDrawsImageCells(t *testing.T) {
	col := assets.NewCollection(nil)
	col.Add("dot.png", encodePNG(t, 1, 1))

	panel := domain.DefaultPanel()
	panel.Components = []domain.Component{
		{ID: "img", Data: domain.DecorationData{Icon: domain.TextImageIcon{Path: "dot"}}},
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(surfaceW), int(surfaceH)))
	calc := newCalc()
	NewRenderer(calc).Render(dst, panel, col, noCatalog(), "", Options{})

	box, ok := calc.BoundingBoxOf(panel.Components[0], col, noCatalog(), surfaceW, surfaceH)
	if !ok {
		t.Fatalf("image box must resolve")
	}
	cx := int(box.Min.X + ImageCellSize/2)
	cy := int(box.Min.Y + ImageCellSize/2)
	got := dst.RGBAAt(cx, cy)
	if got.R != 200 || got.G != 50 || got.B != 50 {
		t.Fatalf("cell fill missing at %d,%d: %+v", cx, cy, got)
	}

	// sanity: the anchor maps to the surface center
	center := plane.ToPixel(plane.Vec2{}, surfaceW, surfaceH)
	if center.X != surfaceW/2 || center.Y != surfaceH/2 {
		t.Fatalf("unexpected anchor mapping: %v", center)
	}
}
