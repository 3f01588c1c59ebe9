/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package assets manages the user-uploaded image collection and the shared
// image decode cache. Image icons and catalog item sprites both resolve
// through here.
package assets

import (
	"strings"

	"holouistudio/internal/domain"
)

// Collection is the ordered set of uploaded images. Order is preserved for
// stable persistence. Ids are derived from the original filename, so
// uploading the same filename again overwrites the earlier asset.
type Collection struct {
	assets []domain.ImageAsset
}

// NewCollection wraps an existing asset list, e.g. one loaded from the
// workspace store. The slice is copied.
func NewCollection(assets []domain.ImageAsset) *Collection {
	c := &Collection{}
	c.ReplaceAll(assets)
	return c
}

// IDForFilename derives an asset id from an uploaded filename. The extension
// is dropped; dotfiles and extension-less names pass through unchanged.
func IDForFilename(filename string) string {
	dot := strings.LastIndex(filename, ".")
	if dot <= 0 {
		return filename
	}
	return filename[:dot]
}

// Add stores an image under the id derived from filename and returns the
// resulting asset. An existing asset with the same id is overwritten in
// place, keeping its position in the list.
func (c *Collection) Add(filename, base64Content string) domain.ImageAsset {
	a := domain.ImageAsset{ID: IDForFilename(filename), Base64: base64Content}
	for i := range c.assets {
		if c.assets[i].ID == a.ID {
			c.assets[i] = a
			return a
		}
	}
	c.assets = append(c.assets, a)
	return a
}

// Remove deletes the asset with the given id. Removing an unknown id is a
// no-op.
func (c *Collection) Remove(id string) {
	for i := range c.assets {
		if c.assets[i].ID == id {
			c.assets = append(c.assets[:i], c.assets[i+1:]...)
			return
		}
	}
}

// Get returns the asset with the given id.
func (c *Collection) Get(id string) (domain.ImageAsset, bool) {
	for _, a := range c.assets {
		if a.ID == id {
			return a, true
		}
	}
	return domain.ImageAsset{}, false
}

// List returns a copy of all assets in insertion order.
func (c *Collection) List() []domain.ImageAsset {
	out := make([]domain.ImageAsset, len(c.assets))
	copy(out, c.assets)
	return out
}

// ReplaceAll swaps the whole collection, used by workspace load and import.
func (c *Collection) ReplaceAll(assets []domain.ImageAsset) {
	c.assets = make([]domain.ImageAsset, len(assets))
	copy(c.assets, assets)
}

// Len returns the number of stored assets.
func (c *Collection) Len() int { return len(c.assets) }
