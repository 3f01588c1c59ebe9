/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package backend implements the optional preset library: a thin read-mostly
// HTTP client used by the editor under a feature flag, and a self-hostable
// server half storing shared panel presets in Postgres.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"holouistudio/internal/domain"
)

// Client is a minimal HTTP client for the preset library API.
type Client struct {
	BaseURL string
	Token   string // bearer token, kept in the OS keyring by the config layer
	client  *http.Client
}

// NewClient creates a preset library client. baseURL may include a trailing
// slash; it is normalized.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Preset is a shared panel document with library metadata.
type Preset struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Panel decodes the preset's document.
func (p Preset) Panel() (domain.Panel, error) {
	return domain.ParsePanel(p.Document)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var reader *strings.Reader
	if body != nil {
		reader = strings.NewReader(string(body))
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// ListPresets returns the available presets without their documents.
func (c *Client) ListPresets(ctx context.Context) ([]Preset, error) {
	var list []Preset
	if err := c.doJSON(ctx, http.MethodGet, "/api/presets", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetPreset fetches one preset including its document.
func (c *Client) GetPreset(ctx context.Context, id int64) (Preset, error) {
	var p Preset
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/presets/%d", id), nil, &p); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// PublishPreset uploads a panel as a named preset. Requires a token.
func (c *Client) PublishPreset(ctx context.Context, name string, panel domain.Panel) (Preset, error) {
	doc, err := domain.EncodePanel(panel)
	if err != nil {
		return Preset{}, err
	}
	body, err := json.Marshal(struct {
		Name     string          `json:"name"`
		Document json.RawMessage `json:"document"`
	}{name, doc})
	if err != nil {
		return Preset{}, err
	}
	var p Preset
	if err := c.doJSON(ctx, http.MethodPost, "/api/presets", body, &p); err != nil {
		return Preset{}, err
	}
	return p, nil
}
