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
	"holouistudio/internal/domain"
	"holouistudio/internal/plane"
	"holouistudio/internal/schema"
	"holouistudio/internal/storage"
)

// Legacy mapped-Minecraft document conversion. Older tooling stores offsets
// in the 1280x720 screen convention; these helpers convert whole documents
// on their way in and out.

// ExportLegacy writes a panel document with all offsets converted to the
// mapped-Minecraft convention.
func ExportLegacy(path string, p domain.Panel) error {
	return storage.ExportDocument(path, plane.PanelToMapped(p))
}

// ImportLegacy reads a mapped-Minecraft document and converts its offsets
// back to virtual-plane coordinates. Schema validation is skipped: legacy
// offsets sit outside the virtual ranges, so only JSON parsing gates the
// import.
func ImportLegacy(path string) (domain.Panel, error) {
	p, err := storage.ImportDocument(path, schema.Unavailable())
	if err != nil {
		return domain.Panel{}, err
	}
	return plane.PanelFromMapped(p), nil
}
