/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package plane converts between the game's fixed virtual coordinate plane
// and pixel space.
//
// The holographic display plane spans X in [-7, 7] and Y in [-5, 5]. These
// bounds are game constants, not derived from data. Two independent mappings
// live here: the canvas mapper (virtual plane to an arbitrary pixel surface)
// and the legacy mapped-Minecraft transform (fixed 1280x720 screen range with
// inverted axis signs). They serve different external contracts and are kept
// as separate named functions.
package plane

// Virtual plane half-extents.
const (
	HalfWidth  = 7.0
	HalfHeight = 5.0
)

// Legacy screen range for the mapped-Minecraft transform.
const (
	MappedScreenWidth  = 1280.0
	MappedScreenHeight = 720.0
)

// Vec2 is a point in either virtual or pixel space.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Box is an axis-aligned rectangle with inclusive edges.
type Box struct {
	Min, Max Vec2
}

// Contains reports whether p lies inside the box. All four edges count as
// inside, so a pointer exactly on a border still hits.
func (b Box) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func (b Box) Width() float64  { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// ToPixel maps a virtual-plane point onto a w by h pixel surface.
// Zero-size surfaces are a caller precondition; the function returns the
// zero vector instead of dividing by zero.
func ToPixel(v Vec2, w, h float64) Vec2 {
	if w == 0 || h == 0 {
		return Vec2{}
	}
	return Vec2{
		X: (v.X + HalfWidth) / (2 * HalfWidth) * w,
		Y: (v.Y + HalfHeight) / (2 * HalfHeight) * h,
	}
}

// ToVirtual maps a pixel point on a w by h surface back to the virtual
// plane. Exact inverse of ToPixel for w, h > 0.
func ToVirtual(p Vec2, w, h float64) Vec2 {
	if w == 0 || h == 0 {
		return Vec2{}
	}
	return Vec2{
		X: p.X/w*(2*HalfWidth) - HalfWidth,
		Y: p.Y/h*(2*HalfHeight) - HalfHeight,
	}
}

// convertRange remaps value from [oldMin, oldMax] to [newMin, newMax].
// The ranges may run in either direction.
func convertRange(value, oldMin, oldMax, newMin, newMax float64) float64 {
	return (value-oldMin)/(oldMax-oldMin)*(newMax-newMin) + newMin
}

// ToMappedMinecraft converts legacy 1280x720 screen coordinates to the
// sign-inverted virtual range used by the old data format: 0..1280 maps to
// 7..-7 and 0..720 maps to 5..-5.
func ToMappedMinecraft(x, y float64) (float64, float64) {
	return convertRange(x, 0, MappedScreenWidth, HalfWidth, -HalfWidth),
		convertRange(y, 0, MappedScreenHeight, HalfHeight, -HalfHeight)
}

// FromMappedMinecraft is the inverse of ToMappedMinecraft.
func FromMappedMinecraft(x, y float64) (float64, float64) {
	return convertRange(x, HalfWidth, -HalfWidth, 0, MappedScreenWidth),
		convertRange(y, HalfHeight, -HalfHeight, 0, MappedScreenHeight)
}
