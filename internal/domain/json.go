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
	"encoding/json"
	"fmt"
)

// Wire codecs for the tagged unions. Every union value carries a "type"
// discriminant on the wire; unknown discriminants are decode errors so a
// malformed document never half-loads.

type typeProbe struct {
	Type string `json:"type"`
}

// MarshalJSON encodes the component with its data union inline.
func (c Component) MarshalJSON() ([]byte, error) {
	data, err := marshalComponentData(c.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID     string          `json:"id"`
		Offset Vector3         `json:"offset"`
		Data   json.RawMessage `json:"data"`
	}{c.ID, c.Offset, data})
}

func (c *Component) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID     string          `json:"id"`
		Offset Vector3         `json:"offset"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := UnmarshalComponentData(raw.Data)
	if err != nil {
		return fmt.Errorf("component %q: %w", raw.ID, err)
	}
	c.ID = raw.ID
	c.Offset = raw.Offset
	c.Data = data
	return nil
}

func marshalComponentData(d ComponentData) ([]byte, error) {
	switch v := d.(type) {
	case DecorationData:
		icon, err := MarshalIcon(v.Icon)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type string          `json:"type"`
			Icon json.RawMessage `json:"icon"`
		}{"decoration", icon})
	case ButtonData:
		icon, err := MarshalIcon(v.Icon)
		if err != nil {
			return nil, err
		}
		actions, err := marshalActions(v.Actions)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type              string            `json:"type"`
			Icon              json.RawMessage   `json:"icon"`
			Actions           []json.RawMessage `json:"actions"`
			HighlightModifier float64           `json:"highlightModifier"`
		}{"button", icon, actions, v.HighlightModifier})
	case ToggleData:
		trueIcon, err := MarshalIcon(v.TrueIcon)
		if err != nil {
			return nil, err
		}
		falseIcon, err := MarshalIcon(v.FalseIcon)
		if err != nil {
			return nil, err
		}
		trueActions, err := marshalActions(v.TrueActions)
		if err != nil {
			return nil, err
		}
		falseActions, err := marshalActions(v.FalseActions)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type              string            `json:"type"`
			HighlightModifier float64           `json:"highlightModifier"`
			Condition         string            `json:"condition"`
			ExpectedValue     string            `json:"expectedValue"`
			TrueIcon          json.RawMessage   `json:"trueIcon"`
			FalseIcon         json.RawMessage   `json:"falseIcon"`
			TrueActions       []json.RawMessage `json:"trueActions"`
			FalseActions      []json.RawMessage `json:"falseActions"`
		}{"toggle", v.HighlightModifier, v.Condition, v.ExpectedValue, trueIcon, falseIcon, trueActions, falseActions})
	case nil:
		return nil, fmt.Errorf("component data is nil")
	default:
		return nil, fmt.Errorf("unknown component data type %q", d.ComponentType())
	}
}

// UnmarshalComponentData decodes a data union value by its type discriminant.
func UnmarshalComponentData(raw json.RawMessage) (ComponentData, error) {
	var probe typeProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "decoration":
		var v struct {
			Icon json.RawMessage `json:"icon"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		icon, err := UnmarshalIcon(v.Icon)
		if err != nil {
			return nil, err
		}
		return DecorationData{Icon: icon}, nil
	case "button":
		var v struct {
			Icon              json.RawMessage   `json:"icon"`
			Actions           []json.RawMessage `json:"actions"`
			HighlightModifier float64           `json:"highlightModifier"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		icon, err := UnmarshalIcon(v.Icon)
		if err != nil {
			return nil, err
		}
		actions, err := unmarshalActions(v.Actions)
		if err != nil {
			return nil, err
		}
		return ButtonData{Icon: icon, Actions: actions, HighlightModifier: v.HighlightModifier}, nil
	case "toggle":
		var v struct {
			HighlightModifier float64           `json:"highlightModifier"`
			Condition         string            `json:"condition"`
			ExpectedValue     string            `json:"expectedValue"`
			TrueIcon          json.RawMessage   `json:"trueIcon"`
			FalseIcon         json.RawMessage   `json:"falseIcon"`
			TrueActions       []json.RawMessage `json:"trueActions"`
			FalseActions      []json.RawMessage `json:"falseActions"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		trueIcon, err := UnmarshalIcon(v.TrueIcon)
		if err != nil {
			return nil, err
		}
		falseIcon, err := UnmarshalIcon(v.FalseIcon)
		if err != nil {
			return nil, err
		}
		trueActions, err := unmarshalActions(v.TrueActions)
		if err != nil {
			return nil, err
		}
		falseActions, err := unmarshalActions(v.FalseActions)
		if err != nil {
			return nil, err
		}
		return ToggleData{
			HighlightModifier: v.HighlightModifier,
			Condition:         v.Condition,
			ExpectedValue:     v.ExpectedValue,
			TrueIcon:          trueIcon,
			FalseIcon:         falseIcon,
			TrueActions:       trueActions,
			FalseActions:      falseActions,
		}, nil
	default:
		return nil, fmt.Errorf("unknown component data type %q", probe.Type)
	}
}

// MarshalIcon encodes an icon union value with its type discriminant.
func MarshalIcon(i Icon) (json.RawMessage, error) {
	switch v := i.(type) {
	case TextIcon:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{"text", v.Text})
	case ItemIcon:
		return json.Marshal(struct {
			Type            string `json:"type"`
			Item            string `json:"item"`
			Count           int    `json:"count"`
			CustomModelData int    `json:"customModelData"`
		}{"item", v.Item, v.Count, v.CustomModelData})
	case TextImageIcon:
		return json.Marshal(struct {
			Type string `json:"type"`
			Path string `json:"path"`
		}{"textImage", v.Path})
	case AnimatedTextImageIcon:
		return json.Marshal(struct {
			Type  string   `json:"type"`
			Paths []string `json:"paths"`
		}{"animatedTextImage", v.Paths})
	case nil:
		return nil, fmt.Errorf("icon is nil")
	default:
		return nil, fmt.Errorf("unknown icon type %q", i.IconType())
	}
}

// UnmarshalIcon decodes an icon union value by its type discriminant.
func UnmarshalIcon(raw json.RawMessage) (Icon, error) {
	var probe typeProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "text":
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TextIcon{Text: v.Text}, nil
	case "item":
		var v struct {
			Item            string `json:"item"`
			Count           int    `json:"count"`
			CustomModelData int    `json:"customModelData"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return ItemIcon{Item: v.Item, Count: v.Count, CustomModelData: v.CustomModelData}, nil
	case "textImage":
		var v struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TextImageIcon{Path: v.Path}, nil
	case "animatedTextImage":
		var v struct {
			Paths []string `json:"paths"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return AnimatedTextImageIcon{Paths: v.Paths}, nil
	default:
		return nil, fmt.Errorf("unknown icon type %q", probe.Type)
	}
}

// MarshalAction encodes an action union value with its type discriminant.
func MarshalAction(a Action) (json.RawMessage, error) {
	switch v := a.(type) {
	case CommandAction:
		return json.Marshal(struct {
			Type    string `json:"type"`
			Command string `json:"command"`
			Source  string `json:"source"`
		}{"command", v.Command, v.Source})
	case SoundAction:
		return json.Marshal(struct {
			Type   string  `json:"type"`
			Sound  string  `json:"sound"`
			Source string  `json:"source"`
			Volume float64 `json:"volume"`
			Pitch  float64 `json:"pitch"`
		}{"sound", v.Sound, v.Source, v.Volume, v.Pitch})
	case nil:
		return nil, fmt.Errorf("action is nil")
	default:
		return nil, fmt.Errorf("unknown action type %q", a.ActionType())
	}
}

// UnmarshalAction decodes an action union value by its type discriminant.
func UnmarshalAction(raw json.RawMessage) (Action, error) {
	var probe typeProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "command":
		var v struct {
			Command string `json:"command"`
			Source  string `json:"source"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return CommandAction{Command: v.Command, Source: v.Source}, nil
	case "sound":
		var v struct {
			Sound  string  `json:"sound"`
			Source string  `json:"source"`
			Volume float64 `json:"volume"`
			Pitch  float64 `json:"pitch"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return SoundAction{Sound: v.Sound, Source: v.Source, Volume: v.Volume, Pitch: v.Pitch}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", probe.Type)
	}
}

func marshalActions(as []Action) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(as))
	for i, a := range as {
		raw, err := MarshalAction(a)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func unmarshalActions(raws []json.RawMessage) ([]Action, error) {
	out := make([]Action, len(raws))
	for i, raw := range raws {
		a, err := UnmarshalAction(raw)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// ParsePanel decodes a panel document.
func ParsePanel(b []byte) (Panel, error) {
	var p Panel
	if err := json.Unmarshal(b, &p); err != nil {
		return Panel{}, err
	}
	if p.Components == nil {
		p.Components = []Component{}
	}
	return p, nil
}

// EncodePanel serializes a panel document with indentation for readable
// exports and diffs.
func EncodePanel(p Panel) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
