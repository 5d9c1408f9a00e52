/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manager

import (
	"strings"

	"docgen/internal/domain"
	"docgen/internal/textlayout"
)

// StripItem is one chip of the compact order strip.
type StripItem struct {
	ID       domain.BlockID
	Position int
	Label    string
	Level    string // I, II or III
	Kind     string // indicator symbol
}

// Chip is the text drawn on the chip.
func (s StripItem) Chip() string {
	return strings.Join([]string{s.Level, s.Kind, s.Label}, " ")
}

func (m *Manager) stripItem(id domain.BlockID, pos int) StripItem {
	b := m.blocks[id]
	if b == nil {
		return StripItem{ID: id, Position: pos}
	}
	label := b.Header
	if strings.TrimSpace(label) == "" {
		label = b.Section().Heading()
	}
	return StripItem{
		ID:       id,
		Position: pos,
		Label:    textlayout.ChipLabel(label, m.stripOpts.MaxRunes),
		Level:    b.HeadingLevel.Roman(),
		Kind:     b.Kind.Symbol(),
	}
}

// StripView projects the strip order, including an active drag preview.
func (m *Manager) StripView() []StripItem {
	ids := m.order.StripOrder()
	out := make([]StripItem, len(ids))
	for i, id := range ids {
		out[i] = m.stripItem(id, i)
	}
	return out
}

// ListView projects the canonical order as block copies with positions.
func (m *Manager) ListView() []domain.Block {
	ids := m.order.ListOrder()
	out := make([]domain.Block, 0, len(ids))
	for i, id := range ids {
		b := *m.blocks[id]
		b.Position = i
		out = append(out, b)
	}
	return out
}

// SectionCount is the number of ordered blocks; the preamble is not counted.
func (m *Manager) SectionCount() int { return m.order.Len() }

// HasContent reports whether there is anything to show or export.
func (m *Manager) HasContent() bool { return m.order.Len() > 0 || m.main.visible }

// SectionAt returns the block at canonical index i.
func (m *Manager) SectionAt(i int) (domain.Block, bool) {
	ids := m.order.ListOrder()
	if i < 0 || i >= len(ids) {
		return domain.Block{}, false
	}
	return m.Block(ids[i])
}

// SectionsInOrder returns the export records in canonical order.
func (m *Manager) SectionsInOrder() []domain.Section {
	ids := m.order.ListOrder()
	out := make([]domain.Section, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.blocks[id].Section())
	}
	return out
}
