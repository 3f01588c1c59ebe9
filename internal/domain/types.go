/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package domain defines the HoloUI panel document model.
//
// A Panel is the root document describing one holographic UI surface. It holds
// an ordered list of components; the order is semantically insignificant but
// preserved for stable JSON diffing. Component payloads (data, icon, action)
// are tagged unions discriminated by a "type" field on the wire.
package domain

// Vector2 is an x,y pair in either virtual or pixel space.
type Vector2 [2]float64

// Vector3 is an x,y,z triple. Only X and Y are used geometrically by the
// editor; Z is a depth hint passed through untouched.
type Vector3 [3]float64

func (v Vector2) X() float64 { return v[0] }
func (v Vector2) Y() float64 { return v[1] }

func (v Vector3) X() float64 { return v[0] }
func (v Vector3) Y() float64 { return v[1] }
func (v Vector3) Z() float64 { return v[2] }

// XY returns the 2D projection of the vector.
func (v Vector3) XY() Vector2 { return Vector2{v[0], v[1]} }

// Panel is the root configuration document.
type Panel struct {
	Offset       Vector3     `json:"offset"`
	LockPosition bool        `json:"lockPosition"`
	Components   []Component `json:"components"`
}

// Component is one placeable element within a Panel. The ID is user-assigned
// and unique within the Panel; it is the join key for selection, edit and
// delete, not a generated surrogate.
type Component struct {
	ID     string
	Offset Vector3
	Data   ComponentData
}

// ComponentData is the per-kind payload of a component.
// Variants: DecorationData, ButtonData, ToggleData.
type ComponentData interface {
	ComponentType() string
	// Clone returns a deep copy; mutation paths hand out copies so renderer
	// snapshots stay consistent.
	Clone() ComponentData
}

// DecorationData is a static, non-interactive visual.
type DecorationData struct {
	Icon Icon
}

// ButtonData fires its actions when the in-game player interacts with it.
type ButtonData struct {
	Icon              Icon
	Actions           []Action
	HighlightModifier float64
}

// ToggleData is a two-state component. The game server evaluates Condition
// against ExpectedValue; the editor treats both strings as opaque and always
// previews the true branch.
type ToggleData struct {
	HighlightModifier float64
	Condition         string
	ExpectedValue     string
	TrueIcon          Icon
	FalseIcon         Icon
	TrueActions       []Action
	FalseActions      []Action
}

func (DecorationData) ComponentType() string { return "decoration" }
func (ButtonData) ComponentType() string     { return "button" }
func (ToggleData) ComponentType() string     { return "toggle" }

func (d DecorationData) Clone() ComponentData {
	return DecorationData{Icon: cloneIcon(d.Icon)}
}

func (d ButtonData) Clone() ComponentData {
	return ButtonData{
		Icon:              cloneIcon(d.Icon),
		Actions:           cloneActions(d.Actions),
		HighlightModifier: d.HighlightModifier,
	}
}

func (d ToggleData) Clone() ComponentData {
	return ToggleData{
		HighlightModifier: d.HighlightModifier,
		Condition:         d.Condition,
		ExpectedValue:     d.ExpectedValue,
		TrueIcon:          cloneIcon(d.TrueIcon),
		FalseIcon:         cloneIcon(d.FalseIcon),
		TrueActions:       cloneActions(d.TrueActions),
		FalseActions:      cloneActions(d.FalseActions),
	}
}

// Icon is the visual payload of a component or toggle branch.
// Variants: TextIcon, ItemIcon, TextImageIcon, AnimatedTextImageIcon.
type Icon interface {
	IconType() string
}

// TextIcon renders a string in the game's monospace font.
type TextIcon struct {
	Text string
}

// ItemIcon references an item from the per-version catalog; the item name
// resolves to a sprite texture. Count and CustomModelData are game metadata
// not used by rendering.
type ItemIcon struct {
	Item            string
	Count           int
	CustomModelData int
}

// TextImageIcon references an uploaded image by asset id, rendered as a
// coarse pixel grid emulating the game's low-resolution glyph output.
type TextImageIcon struct {
	Path string
}

// AnimatedTextImageIcon cycles through several uploaded images. Rendering is
// not supported by the editor preview; the variant is carried through for
// round-trip fidelity only.
type AnimatedTextImageIcon struct {
	Paths []string
}

func (TextIcon) IconType() string              { return "text" }
func (ItemIcon) IconType() string              { return "item" }
func (TextImageIcon) IconType() string         { return "textImage" }
func (AnimatedTextImageIcon) IconType() string { return "animatedTextImage" }

func cloneIcon(i Icon) Icon {
	switch v := i.(type) {
	case AnimatedTextImageIcon:
		return AnimatedTextImageIcon{Paths: append([]string(nil), v.Paths...)}
	default:
		// remaining variants are plain values
		return i
	}
}

// Action is a game-side effect triggered by a button or toggle.
// Variants: CommandAction, SoundAction.
type Action interface {
	ActionType() string
	// Valid reports whether the primary field is non-empty. Payloads are
	// otherwise passed through untouched.
	Valid() bool
}

// CommandAction runs a command as the player or the server.
type CommandAction struct {
	Command string
	Source  string // "player" or "server"
}

// SoundAction plays a sound on one of the game's sound channels.
type SoundAction struct {
	Sound  string
	Source string // one of SoundSources
	Volume float64
	Pitch  float64
}

func (CommandAction) ActionType() string { return "command" }
func (SoundAction) ActionType() string   { return "sound" }

func (a CommandAction) Valid() bool { return a.Command != "" }
func (a SoundAction) Valid() bool   { return a.Sound != "" }

// CommandSources are the legal values for CommandAction.Source.
var CommandSources = []string{"player", "server"}

// SoundSources are the game's sound channels.
var SoundSources = []string{
	"master", "music", "record", "weather", "block",
	"hostile", "neutral", "player", "ambient", "voice",
}

func cloneActions(as []Action) []Action {
	if as == nil {
		return nil
	}
	out := make([]Action, len(as))
	copy(out, as) // action variants are plain values
	return out
}

// ImageAsset is a user-uploaded image keyed by its original filename.
// Uploading a file with the same name overwrites the existing asset.
type ImageAsset struct {
	ID     string `json:"id"`
	Base64 string `json:"base64"`
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	out := c
	if c.Data != nil {
		out.Data = c.Data.Clone()
	}
	return out
}

// Clone returns a deep copy of the panel.
func (p Panel) Clone() Panel {
	out := p
	if p.Components != nil {
		out.Components = make([]Component, len(p.Components))
		for i, c := range p.Components {
			out.Components[i] = c.Clone()
		}
	}
	return out
}

// DefaultPanel is the document used when nothing is persisted yet: zero
// offset, unlocked, no components.
func DefaultPanel() Panel {
	return Panel{Offset: Vector3{0, 0, 0}, LockPosition: false, Components: []Component{}}
}
