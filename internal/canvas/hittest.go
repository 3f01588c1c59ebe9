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
)

// HitTest returns the id of the first component in list order whose bounding
// box contains the pointer. No z-sorting happens; later-inserted overlapping
// components are not preferred. Components with unresolvable icons are
// skipped, so they are effectively unselectable.
func (c *Calculator) HitTest(pt plane.Vec2, components []domain.Component, col *assets.Collection, items map[string]catalog.Item, w, h float64) (string, bool) {
	for _, comp := range components {
		box, ok := c.BoundingBoxOf(comp, col, items, w, h)
		if !ok {
			continue
		}
		if box.Contains(pt) {
			return comp.ID, true
		}
	}
	return "", false
}
