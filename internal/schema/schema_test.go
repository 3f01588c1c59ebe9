/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package schema

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"holouistudio/internal/domain"
)

func referenceValidator(t *testing.T) *Validator {
	t.Helper()
	schemaPath := filepath.Join("..", "..", "docs", "holoui.schema.json")
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	v, err := Compile(schemaBytes)
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	return v
}

func TestDefaultPanelConformsToSchema(t *testing.T) {
	v := referenceValidator(t)
	raw, err := domain.EncodePanel(domain.DefaultPanel())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := v.Validate(raw); err != nil {
		t.Fatalf("default panel does not conform to schema: %v", err)
	}
}

func TestFullPanelConformsToSchema(t *testing.T) {
	v := referenceValidator(t)
	p := domain.Panel{
		Offset: domain.Vector3{0, 1, 0},
		Components: []domain.Component{
			{ID: "title", Offset: domain.Vector3{0, 4, 0}, Data: domain.DecorationData{Icon: domain.TextIcon{Text: "Hub"}}},
			{ID: "spawn", Offset: domain.Vector3{-2, 0, 0}, Data: domain.ButtonData{
				Icon:    domain.ItemIcon{Item: "ender_pearl", Count: 1},
				Actions: []domain.Action{domain.CommandAction{Command: "spawn", Source: "player"}},
			}},
			{ID: "pvp", Offset: domain.Vector3{2, 0, 0}, Data: domain.ToggleData{
				Condition:     "%pvp%",
				ExpectedValue: "true",
				TrueIcon:      domain.TextIcon{Text: "on"},
				FalseIcon:     domain.TextIcon{Text: "off"},
				TrueActions:   []domain.Action{domain.SoundAction{Sound: "click", Source: "master", Volume: 1, Pitch: 1}},
				FalseActions:  []domain.Action{},
			}},
		},
	}
	raw, err := domain.EncodePanel(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := v.Validate(raw); err != nil {
		t.Fatalf("panel does not conform to schema: %v", err)
	}
}

func TestValidateInvalidJSON(t *testing.T) {
	v := referenceValidator(t)
	err := v.Validate([]byte(`{"offset": [0,0,0`))
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestValidateSchemaUnavailable(t *testing.T) {
	v := Unavailable()
	if v.Available() {
		t.Fatalf("unavailable validator reports available")
	}
	err := v.Validate([]byte(`{"anything": true}`))
	if !errors.Is(err, ErrSchemaUnavailable) {
		t.Fatalf("expected ErrSchemaUnavailable, got %v", err)
	}
	// malformed JSON is still reported as such, even without a schema
	if err := v.Validate([]byte(`{`)); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestValidateInvalidData(t *testing.T) {
	v := referenceValidator(t)
	cases := []struct {
		name string
		doc  string
	}{
		{"missing fields", `{"components": []}`},
		{"bad component type", `{"offset":[0,0,0],"lockPosition":false,"components":[{"id":"x","offset":[0,0,0],"data":{"type":"slider"}}]}`},
		{"empty id", `{"offset":[0,0,0],"lockPosition":false,"components":[{"id":"","offset":[0,0,0],"data":{"type":"decoration","icon":{"type":"text","text":"a"}}}]}`},
		{"bad sound source", `{"offset":[0,0,0],"lockPosition":false,"components":[{"id":"x","offset":[0,0,0],"data":{"type":"button","icon":{"type":"text","text":"a"},"actions":[{"type":"sound","sound":"s","source":"loudspeaker","volume":1,"pitch":1}],"highlightModifier":0}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := v.Validate([]byte(tc.doc)); !errors.Is(err, ErrInvalidData) {
				t.Fatalf("expected ErrInvalidData, got %v", err)
			}
		})
	}
}

func TestFetchCompilesRemoteSchema(t *testing.T) {
	schemaBytes, err := os.ReadFile(filepath.Join("..", "..", "docs", "holoui.schema.json"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(schemaBytes)
	}))
	t.Cleanup(srv.Close)

	v, err := Fetch(context.Background(), srv.URL, time.Second)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !v.Available() {
		t.Fatalf("fetched validator must be available")
	}
}

func TestFetchFailureDegradesToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	v, err := Fetch(context.Background(), srv.URL, time.Second)
	if err == nil {
		t.Fatalf("expected fetch error")
	}
	if v == nil || v.Available() {
		t.Fatalf("failed fetch must yield the unavailable validator")
	}
	// the degraded validator still classifies documents
	if verr := v.Validate([]byte(`{}`)); !errors.Is(verr, ErrSchemaUnavailable) {
		t.Fatalf("expected ErrSchemaUnavailable, got %v", verr)
	}
}
