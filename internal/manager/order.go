/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manager

import (
	"slices"

	"docgen/internal/domain"
	"docgen/internal/order"
	"docgen/internal/textlayout"
)

// Reorder replaces the canonical order with ids, which must be a permutation
// of the current blocks.
func (m *Manager) Reorder(ids []domain.BlockID) bool {
	before := m.order.Current()
	if !m.order.Reorder(ids) {
		return false
	}
	if !slices.Equal(before, ids) {
		m.changed("reorder", 0)
	}
	return true
}

// IndexOf returns the canonical index of id, or -1.
func (m *Manager) IndexOf(id domain.BlockID) int { return m.order.IndexOf(id) }

// BeginDrag starts a strip drag of id. See order.Model.BeginDrag.
func (m *Manager) BeginDrag(id domain.BlockID) bool { return m.order.BeginDrag(id) }

// DragOver previews a drop relative to target. Previews do not notify.
func (m *Manager) DragOver(target domain.BlockID, offset float64) bool {
	return m.order.DragOver(target, offset)
}

// DragOverGap previews a drop at pointer over empty strip space.
func (m *Manager) DragOverGap(pointer float64, bounds []order.Bounds) bool {
	return m.order.DragOverGap(pointer, bounds)
}

// DragOverStrip routes a pointer position along the strip to DragOver when it
// hits a chip and to DragOverGap otherwise, using the manager's strip geometry.
func (m *Manager) DragOverStrip(pointer float64) bool {
	if _, ok := m.order.Dragging(); !ok {
		return false
	}
	ids := m.order.StripOrder()
	ext := m.stripExtents(ids)
	if i, off, ok := textlayout.Hit(ext, pointer); ok {
		return m.order.DragOver(ids[i], off)
	}
	return m.order.DragOverGap(pointer, toBounds(ids, ext))
}

// EndDrag commits the strip preview. Observers hear about it only when the
// canonical order actually changed.
func (m *Manager) EndDrag() bool {
	id, _ := m.order.Dragging()
	if !m.order.EndDrag() {
		return false
	}
	m.changed("move", id)
	return true
}

func (m *Manager) CancelDrag() { m.order.CancelDrag() }

func (m *Manager) Dragging() (domain.BlockID, bool) { return m.order.Dragging() }

// StripBounds returns chip bounds for the current strip order.
func (m *Manager) StripBounds() []order.Bounds {
	ids := m.order.StripOrder()
	return toBounds(ids, m.stripExtents(ids))
}

func (m *Manager) stripExtents(ids []domain.BlockID) []textlayout.Extent {
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = m.stripItem(id, i).Chip()
	}
	return textlayout.StripExtents(labels, m.stripOpts)
}

func toBounds(ids []domain.BlockID, ext []textlayout.Extent) []order.Bounds {
	out := make([]order.Bounds, len(ids))
	for i, id := range ids {
		out[i] = order.Bounds{ID: id, Start: ext[i].Start, Extent: ext[i].Size}
	}
	return out
}

