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
	"holouistudio/internal/assets"
	"holouistudio/internal/catalog"
	"holouistudio/internal/domain"
	"holouistudio/internal/plane"
	"holouistudio/internal/store"
)

// Drag coordinates pointer events with the hit tester and the store to
// implement drag-to-reposition. Two states: idle and dragging. The only
// state carried across event turns is the dragged component's id plus the
// grab offset; the component itself is re-fetched by id on every move so a
// concurrent import or commit cannot resurrect stale data.
//
// The grab offset is always zero: the component's anchor snaps to the
// pointer on pick-up. This matches the historical behavior of exported
// documents and is kept as the documented contract; the field stays in place
// so the behavior is revisable.
type Drag struct {
	store *store.Store
	calc  *Calculator

	dragging bool
	activeID string
	grab     plane.Vec2
}

func NewDrag(s *store.Store, calc *Calculator) *Drag {
	return &Drag{store: s, calc: calc}
}

// Dragging reports the id currently being dragged.
func (d *Drag) Dragging() (string, bool) { return d.activeID, d.dragging }

// PointerDown hit-tests the press position. A hit starts a drag and selects
// the component; a miss clears the selection. Components with unresolvable
// icons cannot be hit, so they are undraggable.
func (d *Drag) PointerDown(pos plane.Vec2, components []domain.Component, col *assets.Collection, items map[string]catalog.Item, w, h float64) {
	id, ok := d.calc.HitTest(pos, components, col, items, w, h)
	if !ok {
		d.reset()
		d.store.ClearSelection()
		return
	}
	d.dragging = true
	d.activeID = id
	d.grab = plane.Vec2{} // anchor snaps to the pointer
	d.store.Select(id)
}

// PointerMove repositions the dragged component to the pointer. The drag
// aborts silently when the id has vanished from the store since the last
// event turn.
func (d *Drag) PointerMove(pos plane.Vec2, w, h float64) {
	if !d.dragging {
		return
	}
	comp, ok := d.store.Component(d.activeID)
	if !ok {
		d.reset()
		return
	}
	v := plane.ToVirtual(pos.Sub(d.grab), w, h)
	// lookup and reposition are separate store calls, so a NotFoundError here
	// would mean a mutation inside this event turn; treat it as an abort too
	if err := d.store.Reposition(d.activeID, domain.Vector3{v.X, v.Y, comp.Offset.Z()}); err != nil {
		d.reset()
	}
}

// PointerUp ends the drag. The selection stays on the dragged component.
func (d *Drag) PointerUp() { d.reset() }

// PointerLeave ends the drag when the pointer leaves the surface, same as a
// release.
func (d *Drag) PointerLeave() { d.reset() }

func (d *Drag) reset() {
	d.dragging = false
	d.activeID = ""
	d.grab = plane.Vec2{}
}
