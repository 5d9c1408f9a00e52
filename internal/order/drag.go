/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package order

import (
	"slices"

	"docgen/internal/domain"
)

// Bounds is the extent of one strip element along the strip's primary axis.
type Bounds struct {
	ID     domain.BlockID
	Start  float64
	Extent float64
}

// Mid returns the midpoint of the element.
func (b Bounds) Mid() float64 { return b.Start + b.Extent/2 }

// BeginDrag starts dragging id. It is a no-op returning false when a drag is
// already active or id is not part of the order.
func (m *Model) BeginDrag(id domain.BlockID) bool {
	if m.drag.phase == phaseDragging {
		return false
	}
	i := m.IndexOf(id)
	if i < 0 {
		return false
	}
	m.drag = dragState{phase: phaseDragging, source: id, start: i, strip: clone(m.ids)}
	return true
}

// Dragging returns the id being dragged.
func (m *Model) Dragging() (domain.BlockID, bool) {
	if m.drag.phase != phaseDragging {
		return 0, false
	}
	return m.drag.source, true
}

// SourceIndex returns the strip index the dragged block had when the drag began.
func (m *Model) SourceIndex() int {
	if m.drag.phase != phaseDragging {
		return -1
	}
	return m.drag.start
}

// DragOver previews dropping the dragged block next to target. offset is the
// pointer's fractional position inside target (0 = leading edge, 1 = trailing
// edge); offset >= 0.5 inserts after target, so the exact midpoint counts as
// "after". The position is computed against the strip without the dragged
// block, which keeps repeated calls with the same arguments stable.
// It reports whether the preview changed.
func (m *Model) DragOver(target domain.BlockID, offset float64) bool {
	if m.drag.phase != phaseDragging || target == m.drag.source {
		return false
	}
	rest := without(m.drag.strip, m.drag.source)
	t := indexIn(rest, target)
	if t < 0 {
		return false
	}
	if offset >= 0.5 {
		t++
	}
	return m.placeDragged(rest, t)
}

// DragOverGap previews a drop while the pointer is over empty strip space.
// bounds lists strip elements along the primary axis; the dragged block's own
// entry is skipped. The block goes before the first element whose midpoint
// lies beyond pointer, or to the end when there is none.
func (m *Model) DragOverGap(pointer float64, bounds []Bounds) bool {
	if m.drag.phase != phaseDragging {
		return false
	}
	rest := without(m.drag.strip, m.drag.source)
	pos := len(rest)
	for _, b := range bounds {
		if b.ID == m.drag.source {
			continue
		}
		if pointer < b.Mid() {
			if i := indexIn(rest, b.ID); i >= 0 {
				pos = i
			}
			break
		}
	}
	return m.placeDragged(rest, pos)
}

// EndDrag commits the previewed strip order as canonical and returns to idle.
// Without an active drag it does nothing. It reports whether the canonical
// order changed.
func (m *Model) EndDrag() bool {
	if m.drag.phase != phaseDragging {
		return false
	}
	changed := !slices.Equal(m.ids, m.drag.strip)
	m.ids = m.drag.strip
	m.drag = dragState{}
	return changed
}

// CancelDrag discards the preview and returns to idle.
func (m *Model) CancelDrag() {
	m.drag = dragState{}
}

func (m *Model) placeDragged(rest []domain.BlockID, pos int) bool {
	if pos < 0 {
		pos = 0
	}
	if pos > len(rest) {
		pos = len(rest)
	}
	next := make([]domain.BlockID, 0, len(rest)+1)
	next = append(next, rest[:pos]...)
	next = append(next, m.drag.source)
	next = append(next, rest[pos:]...)
	if slices.Equal(next, m.drag.strip) {
		return false
	}
	m.drag.strip = next
	return true
}

func without(ids []domain.BlockID, id domain.BlockID) []domain.BlockID {
	out := make([]domain.BlockID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

