/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBasicMeasurerUsesFixedAdvance(t *testing.T) {
	m := BasicMeasurer{}
	if got := m.Width("abc"); got != 21 {
		t.Fatalf("Width(abc) = %v, want 21 (7px per glyph)", got)
	}
	if got := m.Width(""); got != 0 {
		t.Fatalf("Width(\"\") = %v", got)
	}
}

func TestChipLabel(t *testing.T) {
	if got := ChipLabel("  intro.txt ", 24); got != "intro.txt" {
		t.Fatalf("ChipLabel trim = %q", got)
	}
	if got := ChipLabel("a-very-long-file-name.txt", 10); got != "a-very-..." {
		t.Fatalf("ChipLabel truncate = %q", got)
	}
	if got := ChipLabel("äöüß", 2); got != "äö" {
		t.Fatalf("ChipLabel runes = %q", got)
	}
	if got := ChipLabel("x", 0); got != "x" {
		t.Fatalf("ChipLabel unlimited = %q", got)
	}
}

func TestStripExtents(t *testing.T) {
	opt := StripOptions{Padding: 8, Gap: 4, Measurer: BasicMeasurer{}}
	ext := StripExtents([]string{"abc", "de"}, opt)
	if len(ext) != 2 {
		t.Fatalf("expected 2 extents, got %d", len(ext))
	}
	// 21 + 16 = 37; second starts at 37 + 4
	if !almostEqual(ext[0].Start, 0) || !almostEqual(ext[0].Size, 37) {
		t.Fatalf("first extent = %+v", ext[0])
	}
	if !almostEqual(ext[1].Start, 41) || !almostEqual(ext[1].Size, 30) {
		t.Fatalf("second extent = %+v", ext[1])
	}
}

func TestStripExtentsCustomMeasurer(t *testing.T) {
	opt := StripOptions{Gap: 1, Measurer: MeasureFunc(func(s string) float64 { return 10 })}
	ext := StripExtents([]string{"a", "b", "c"}, opt)
	if !almostEqual(ext[2].Start, 22) {
		t.Fatalf("third start = %v, want 22", ext[2].Start)
	}
}

func TestHit(t *testing.T) {
	ext := []Extent{{Start: 0, Size: 10}, {Start: 12, Size: 10}}
	i, off, ok := Hit(ext, 5)
	if !ok || i != 0 || !almostEqual(off, 0.5) {
		t.Fatalf("Hit(5) = %d %v %v", i, off, ok)
	}
	i, off, ok = Hit(ext, 19.5)
	if !ok || i != 1 || !almostEqual(off, 0.75) {
		t.Fatalf("Hit(19.5) = %d %v %v", i, off, ok)
	}
	if _, _, ok := Hit(ext, 11); ok {
		t.Fatalf("gap should not hit")
	}
	if _, _, ok := Hit(ext, 40); ok {
		t.Fatalf("beyond strip should not hit")
	}
}
