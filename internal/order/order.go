/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package order keeps the canonical block order and the drag-and-drop state machine.
//
// There is one authoritative slice of ids. While a drag is active a preview copy
// (the strip order) is rearranged on every pointer move; EndDrag commits it and
// CancelDrag throws it away. Both views are projections of this model, so the
// compact strip and the detailed list cannot drift apart.
package order

import "docgen/internal/domain"

type dragPhase int

const (
	phaseIdle dragPhase = iota
	phaseDragging
)

type dragState struct {
	phase  dragPhase
	source domain.BlockID
	start  int // strip index of source when the drag began
	strip  []domain.BlockID
}

// Model is the canonical order plus drag state. The zero value is ready to use.
// Model is not safe for concurrent use.
type Model struct {
	ids  []domain.BlockID
	drag dragState
}

// Append adds id at the end of the canonical order. Known ids are ignored.
func (m *Model) Append(id domain.BlockID) {
	if m.IndexOf(id) >= 0 {
		return
	}
	m.CancelDrag()
	m.ids = append(m.ids, id)
}

// Remove drops id from the order and reports whether it was present.
func (m *Model) Remove(id domain.BlockID) bool {
	i := m.IndexOf(id)
	if i < 0 {
		return false
	}
	m.CancelDrag()
	m.ids = append(m.ids[:i], m.ids[i+1:]...)
	return true
}

// Clear empties the order and resets any drag.
func (m *Model) Clear() {
	m.CancelDrag()
	m.ids = nil
}

func (m *Model) Len() int { return len(m.ids) }

// IndexOf returns the canonical index of id, or -1.
func (m *Model) IndexOf(id domain.BlockID) int {
	return indexIn(m.ids, id)
}

// Current returns a copy of the canonical order.
func (m *Model) Current() []domain.BlockID {
	return clone(m.ids)
}

// Reorder replaces the canonical order. ids must be a permutation of the
// current order; anything else is rejected and leaves the model unchanged.
func (m *Model) Reorder(ids []domain.BlockID) bool {
	if len(ids) != len(m.ids) {
		return false
	}
	seen := make(map[domain.BlockID]bool, len(ids))
	for _, id := range ids {
		if seen[id] || m.IndexOf(id) < 0 {
			return false
		}
		seen[id] = true
	}
	m.CancelDrag()
	m.ids = clone(ids)
	return true
}

// StripOrder is the compact strip projection: the live preview while a drag is
// active, otherwise the canonical order.
func (m *Model) StripOrder() []domain.BlockID {
	if m.drag.phase == phaseDragging {
		return clone(m.drag.strip)
	}
	return clone(m.ids)
}

// ListOrder is the detailed list projection. It only follows committed changes.
func (m *Model) ListOrder() []domain.BlockID {
	return clone(m.ids)
}

func indexIn(ids []domain.BlockID, id domain.BlockID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func clone(ids []domain.BlockID) []domain.BlockID {
	if ids == nil {
		return []domain.BlockID{}
	}
	out := make([]domain.BlockID, len(ids))
	copy(out, ids)
	return out
}
