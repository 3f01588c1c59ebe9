/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package assets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"
	"sync"

	// register the formats uploads and catalog textures arrive in
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// DecodeCache turns base64 or data-URI payloads into decoded images and
// memoizes the result. It is an explicitly constructed service handed to the
// components that need it, not a package global. Safe for concurrent use.
type DecodeCache struct {
	mu      sync.Mutex
	entries map[string]image.Image
}

func NewDecodeCache() *DecodeCache {
	return &DecodeCache{entries: make(map[string]image.Image)}
}

// Decode returns the image for a base64 payload. The payload may carry a
// data-URI prefix ("data:image/png;base64,..."), which is stripped. Failures
// are not cached, so a payload that becomes valid later decodes normally.
func (c *DecodeCache) Decode(payload string) (image.Image, error) {
	c.mu.Lock()
	img, ok := c.entries[payload]
	c.mu.Unlock()
	if ok {
		return img, nil
	}

	raw := payload
	if strings.HasPrefix(raw, "data:") {
		comma := strings.Index(raw, ",")
		if comma < 0 {
			return nil, fmt.Errorf("malformed data URI")
		}
		raw = raw[comma+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	c.mu.Lock()
	c.entries[payload] = img
	c.mu.Unlock()
	return img, nil
}

// Len reports the number of memoized payloads.
func (c *DecodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
