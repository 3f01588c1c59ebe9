/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

import (
	"reflect"
	"strings"
	"testing"
)

func samplePanel() Panel {
	return Panel{
		Offset:       Vector3{1, 2, 3},
		LockPosition: true,
		Components: []Component{
			{
				ID:     "title",
				Offset: Vector3{0, 4, 0},
				Data:   DecorationData{Icon: TextIcon{Text: "Welcome"}},
			},
			{
				ID:     "spawn",
				Offset: Vector3{-2, 0, 0},
				Data: ButtonData{
					Icon:              ItemIcon{Item: "ender_pearl", Count: 1, CustomModelData: 7},
					HighlightModifier: 1.25,
					Actions: []Action{
						CommandAction{Command: "spawn", Source: "player"},
						SoundAction{Sound: "ui.button.click", Source: "master", Volume: 1, Pitch: 1},
					},
				},
			},
			{
				ID:     "pvp",
				Offset: Vector3{2, 0, 0},
				Data: ToggleData{
					HighlightModifier: 0.5,
					Condition:         "%pvp_enabled%",
					ExpectedValue:     "true",
					TrueIcon:          TextImageIcon{Path: "sword.png"},
					FalseIcon:         TextIcon{Text: "PvP off"},
					TrueActions:       []Action{CommandAction{Command: "pvp off", Source: "server"}},
					FalseActions:      []Action{CommandAction{Command: "pvp on", Source: "server"}},
				},
			},
		},
	}
}

// TestPanelRoundTrip covers the document contract: parse, serialize, reparse
// yields a structurally identical document with component order preserved.
func TestPanelRoundTrip(t *testing.T) {
	p := samplePanel()

	b, err := EncodePanel(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := ParsePanel(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(p, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", p, got)
	}

	b2, err := EncodePanel(got)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	got2, err := ParsePanel(b2)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if !reflect.DeepEqual(got, got2) {
		t.Fatalf("second round trip mismatch")
	}

	for i, id := range []string{"title", "spawn", "pvp"} {
		if got.Components[i].ID != id {
			t.Fatalf("component order not preserved: index %d is %q", i, got.Components[i].ID)
		}
	}
}

func TestParsePanelFromWireFormat(t *testing.T) {
	raw := `{
	  "offset": [0, 0, 0],
	  "lockPosition": false,
	  "components": [
	    {
	      "id": "hello",
	      "offset": [1.5, -2, 0],
	      "data": {
	        "type": "button",
	        "icon": {"type": "text", "text": "Hi"},
	        "actions": [{"type": "sound", "sound": "note.pling", "source": "music", "volume": 0.8, "pitch": 1.2}],
	        "highlightModifier": 2
	      }
	    }
	  ]
	}`

	p, err := ParsePanel([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(p.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(p.Components))
	}
	c := p.Components[0]
	btn, ok := c.Data.(ButtonData)
	if !ok {
		t.Fatalf("expected ButtonData, got %T", c.Data)
	}
	if icon, ok := btn.Icon.(TextIcon); !ok || icon.Text != "Hi" {
		t.Fatalf("unexpected icon: %+v", btn.Icon)
	}
	if len(btn.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(btn.Actions))
	}
	snd, ok := btn.Actions[0].(SoundAction)
	if !ok || snd.Sound != "note.pling" || snd.Volume != 0.8 {
		t.Fatalf("unexpected action: %+v", btn.Actions[0])
	}
	if c.Offset != (Vector3{1.5, -2, 0}) {
		t.Fatalf("unexpected offset: %v", c.Offset)
	}
}

func TestUnknownDiscriminantsRejected(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"component data", `{"id":"x","offset":[0,0,0],"data":{"type":"slider"}}`},
		{"icon", `{"id":"x","offset":[0,0,0],"data":{"type":"decoration","icon":{"type":"video"}}}`},
		{"action", `{"id":"x","offset":[0,0,0],"data":{"type":"button","icon":{"type":"text","text":"a"},"actions":[{"type":"teleport"}],"highlightModifier":0}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Component
			err := c.UnmarshalJSON([]byte(tc.raw))
			if err == nil {
				t.Fatalf("expected error for unknown %s discriminant", tc.name)
			}
			if !strings.Contains(err.Error(), "unknown") {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAnimatedTextImageIconRoundTrip(t *testing.T) {
	p := Panel{Components: []Component{{
		ID:   "anim",
		Data: DecorationData{Icon: AnimatedTextImageIcon{Paths: []string{"a.png", "b.png"}}},
	}}}
	b, err := EncodePanel(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := ParsePanel(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	icon := got.Components[0].Data.(DecorationData).Icon
	anim, ok := icon.(AnimatedTextImageIcon)
	if !ok || len(anim.Paths) != 2 || anim.Paths[1] != "b.png" {
		t.Fatalf("unexpected icon: %+v", icon)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := samplePanel()
	cp := p.Clone()

	// mutate the clone's nested slices and verify the original is untouched
	btn := cp.Components[1].Data.(ButtonData)
	btn.Actions[0] = CommandAction{Command: "changed", Source: "server"}
	cp.Components[1].Data = btn
	cp.Components[0].ID = "renamed"

	orig := p.Components[1].Data.(ButtonData)
	if orig.Actions[0].(CommandAction).Command != "spawn" {
		t.Fatalf("clone shares action slice with original")
	}
	if p.Components[0].ID != "title" {
		t.Fatalf("clone shares component slice with original")
	}
}

func TestActionValidity(t *testing.T) {
	if (CommandAction{Command: "", Source: "player"}).Valid() {
		t.Fatalf("empty command must be invalid")
	}
	if !(CommandAction{Command: "say hi", Source: "player"}).Valid() {
		t.Fatalf("non-empty command must be valid")
	}
	if (SoundAction{Sound: ""}).Valid() {
		t.Fatalf("empty sound must be invalid")
	}
	if len(SoundSources) != 10 {
		t.Fatalf("expected 10 sound channels, got %d", len(SoundSources))
	}
}
