/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package plane

import "holouistudio/internal/domain"

// Whole-document conversions for the legacy data-migration format. Only the
// X and Y axes are remapped; Z passes through untouched.

// PanelToMapped converts all offsets of a panel into the mapped-Minecraft
// convention. The input is not modified.
func PanelToMapped(p domain.Panel) domain.Panel {
	out := p.Clone()
	out.Offset = offsetToMapped(out.Offset)
	for i := range out.Components {
		out.Components[i].Offset = offsetToMapped(out.Components[i].Offset)
	}
	return out
}

// PanelFromMapped converts a legacy mapped-Minecraft document back into
// virtual-plane offsets. The input is not modified.
func PanelFromMapped(p domain.Panel) domain.Panel {
	out := p.Clone()
	out.Offset = offsetFromMapped(out.Offset)
	for i := range out.Components {
		out.Components[i].Offset = offsetFromMapped(out.Components[i].Offset)
	}
	return out
}

func offsetToMapped(v domain.Vector3) domain.Vector3 {
	x, _ := ToMappedMinecraft(v[0], 0)
	_, y := ToMappedMinecraft(0, v[1])
	return domain.Vector3{x, y, v[2]}
}

func offsetFromMapped(v domain.Vector3) domain.Vector3 {
	x, _ := FromMappedMinecraft(v[0], 0)
	_, y := FromMappedMinecraft(0, v[1])
	return domain.Vector3{x, y, v[2]}
}
