/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package catalog fetches the per-game-version item list used to resolve
// item icons to sprite textures.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	applog "holouistudio/internal/log"
)

// Item is one catalog entry. Texture is a data-URI PNG payload; a nil
// Texture means the item has no renderable sprite and is excluded from
// rendering and hit-testing.
type Item struct {
	Name    string  `json:"name"`
	Texture *string `json:"texture"`
}

// FreshnessWindow is how long a cached catalog stays authoritative before a
// refetch is attempted.
const FreshnessWindow = 7 * 24 * time.Hour

// Client fetches and caches item catalogs per game version.
type Client struct {
	httpc       *http.Client
	urlTemplate string // %s replaced by the game version
	cacheDir    string
	maxAge      time.Duration
}

// New builds a catalog client. urlTemplate must contain a %s placeholder for
// the game version; cacheDir may be empty to disable the on-disk cache.
func New(urlTemplate, cacheDir string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpc:       &http.Client{Timeout: timeout},
		urlTemplate: urlTemplate,
		cacheDir:    cacheDir,
		maxAge:      FreshnessWindow,
	}
}

// Items returns the catalog for a game version. A fresh on-disk cache is
// served without a network round trip; on fetch failure a stale cache is
// better than nothing and is returned with a warning logged.
func (c *Client) Items(ctx context.Context, version string) ([]Item, error) {
	log := applog.WithComponent("catalog")

	if items, fresh, ok := c.readCache(version); ok && fresh {
		return items, nil
	}

	items, err := c.fetch(ctx, version)
	if err != nil {
		if stale, _, ok := c.readCache(version); ok {
			log.Warn("catalog fetch failed, serving stale cache", "version", version, "err", err)
			return stale, nil
		}
		return nil, err
	}
	c.writeCache(version, items)
	return items, nil
}

func (c *Client) fetch(ctx context.Context, version string) ([]Item, error) {
	url := fmt.Sprintf(c.urlTemplate, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return items, nil
}

func (c *Client) cachePath(version string) string {
	if c.cacheDir == "" {
		return ""
	}
	return filepath.Join(c.cacheDir, "items_"+version+".json")
}

func (c *Client) readCache(version string) (items []Item, fresh bool, ok bool) {
	path := c.cachePath(version)
	if path == "" {
		return nil, false, false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, false, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, false
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, false
	}
	return items, time.Since(fi.ModTime()) < c.maxAge, true
}

func (c *Client) writeCache(version string, items []Item) {
	path := c.cachePath(version)
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	// cache write failures are not worth failing the caller over
	if err := os.WriteFile(path, data, 0o644); err != nil {
		applog.WithComponent("catalog").Warn("cannot write catalog cache", "path", path, "err", err)
	}
}

// Index builds a name lookup over a catalog slice.
func Index(items []Item) map[string]Item {
	m := make(map[string]Item, len(items))
	for _, it := range items {
		m[it.Name] = it
	}
	return m
}
