/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package schema validates panel documents against the published HoloUI
// JSON schema. Validation gates code-editor commits and file imports; it is
// advisory while typing and never blocks editing when the schema could not
// be fetched.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	applog "holouistudio/internal/log"
)

// Sentinel categories surfaced to the user. Messages stay generic on
// purpose; per-field violation details go to the diagnostic log only.
var (
	ErrInvalidJSON       = errors.New("invalid JSON")
	ErrSchemaUnavailable = errors.New("schema unavailable")
	ErrInvalidData       = errors.New("invalid data")
)

// Validator wraps a compiled schema. A Validator without a compiled schema
// (schema fetch failed) reports ErrSchemaUnavailable for every document.
type Validator struct {
	schema *gojsonschema.Schema
}

// Compile builds a validator from raw schema bytes.
func Compile(schemaBytes []byte) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Unavailable returns a validator representing the degraded no-schema state.
func Unavailable() *Validator { return &Validator{} }

// Available reports whether a compiled schema is loaded.
func (v *Validator) Available() bool { return v != nil && v.schema != nil }

// Validate checks a raw document. Returns nil when the document is valid,
// otherwise one of the sentinel categories (possibly wrapped).
func (v *Validator) Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJSON, shortParseError(err))
	}
	if !v.Available() {
		return ErrSchemaUnavailable
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		applog.WithComponent("schema").Warn("validation run failed", "err", err)
		return ErrInvalidData
	}
	if !result.Valid() {
		log := applog.WithComponent("schema")
		for _, e := range result.Errors() {
			log.Debug("schema violation", "field", e.Field(), "detail", e.Description())
		}
		return ErrInvalidData
	}
	return nil
}

func shortParseError(err error) string {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Sprintf("syntax error at offset %d", syn.Offset)
	}
	return "parse error"
}

// Fetch downloads the published schema and compiles it. Any failure returns
// the degraded Unavailable validator together with the error, so the editor
// keeps working without live validation.
func Fetch(ctx context.Context, url string, timeout time.Duration) (*Validator, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Unavailable(), err
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return Unavailable(), fmt.Errorf("fetch schema: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Unavailable(), fmt.Errorf("fetch schema: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Unavailable(), fmt.Errorf("read schema: %w", err)
	}
	v, err := Compile(body)
	if err != nil {
		return Unavailable(), err
	}
	return v, nil
}
