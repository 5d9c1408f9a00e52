/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures the chips of the compact order strip.
// Measurement sits behind an interface so the desktop UI can plug in its own
// font metrics while the CLI and tests use the deterministic 7x13 bitmap face.
package textlayout

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer returns the advance width of s in pixels.
type Measurer interface {
	Width(s string) float64
}

// BasicMeasurer uses x/image/basicfont Face7x13 for deterministic widths.
type BasicMeasurer struct{}

func (BasicMeasurer) Width(s string) float64 {
	return float64(font.MeasureString(basicfont.Face7x13, s).Round())
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(string) float64

func (f MeasureFunc) Width(s string) float64 { return f(s) }

// Extent is the span of one chip along the strip axis.
type Extent struct {
	Start float64
	Size  float64
}

func (e Extent) End() float64 { return e.Start + e.Size }

// StripOptions configures chip geometry.
type StripOptions struct {
	Padding  float64 // inner padding on each side of the label
	Gap      float64 // space between chips
	MaxRunes int     // labels longer than this are truncated; 0 disables
	Measurer Measurer
}

// DefaultStripOptions matches the chip style of the desktop strip.
func DefaultStripOptions() StripOptions {
	return StripOptions{Padding: 8, Gap: 4, MaxRunes: 24, Measurer: BasicMeasurer{}}
}

// ChipLabel truncates label to max runes, marking the cut with "...".
func ChipLabel(label string, max int) string {
	label = strings.TrimSpace(strings.ReplaceAll(label, "\n", " "))
	if max <= 0 || utf8.RuneCountInString(label) <= max {
		return label
	}
	if max <= 3 {
		return string([]rune(label)[:max])
	}
	return string([]rune(label)[:max-3]) + "..."
}

// StripExtents lays labels out left to right and returns one extent per label.
func StripExtents(labels []string, opt StripOptions) []Extent {
	m := opt.Measurer
	if m == nil {
		m = BasicMeasurer{}
	}
	out := make([]Extent, len(labels))
	x := 0.0
	for i, l := range labels {
		w := m.Width(ChipLabel(l, opt.MaxRunes)) + 2*opt.Padding
		out[i] = Extent{Start: x, Size: w}
		x += w + opt.Gap
	}
	return out
}

// Hit locates pointer among extents. When it falls inside a chip it returns the
// chip index and the fractional offset inside it; ok is false over a gap or
// outside the strip.
func Hit(extents []Extent, pointer float64) (index int, offset float64, ok bool) {
	for i, e := range extents {
		if pointer >= e.Start && pointer < e.End() {
			if e.Size <= 0 {
				return i, 0, true
			}
			return i, (pointer - e.Start) / e.Size, true
		}
	}
	return -1, 0, false
}
