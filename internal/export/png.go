/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export writes panel previews and documents to external formats:
// PNG raster previews, PDF reference sheets and the legacy mapped-Minecraft
// JSON convention.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"holouistudio/internal/assets"
	"holouistudio/internal/canvas"
	"holouistudio/internal/catalog"
	"holouistudio/internal/domain"
)

// PNGOptions controls PNG export behavior.
type PNGOptions struct {
	Width, Height int
	SelectedID    string
	DebugFrames   bool
}

// RenderPreview rasterizes the panel at the requested resolution using the
// same renderer that backs the interactive preview.
func RenderPreview(r *canvas.Renderer, p domain.Panel, col *assets.Collection, items map[string]catalog.Item, opt PNGOptions) (*image.RGBA, error) {
	if opt.Width <= 0 || opt.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", opt.Width, opt.Height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	r.Render(dst, p, col, items, opt.SelectedID, canvas.Options{DebugFrames: opt.DebugFrames})
	return dst, nil
}

// ExportPNG renders the panel and writes it to outPath.
func ExportPNG(r *canvas.Renderer, p domain.Panel, col *assets.Collection, items map[string]catalog.Item, outPath string, opt PNGOptions) error {
	img, err := RenderPreview(r, p, col, items, opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
