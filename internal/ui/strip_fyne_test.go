//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests exercise the Fyne order strip with the headless test driver.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"docgen/internal/domain"
	"docgen/internal/manager"
	"docgen/internal/textlayout"
)

func fixedStrip(t *testing.T) (*manager.Manager, *OrderStrip, []domain.BlockID) {
	t.Helper()
	test.NewTempApp(t)
	opts := textlayout.StripOptions{Gap: 10, Measurer: textlayout.MeasureFunc(func(string) float64 { return 100 })}
	m := manager.New(manager.WithStripOptions(opts))
	ids := []domain.BlockID{m.AddBlock("A", ""), m.AddBlock("B", ""), m.AddBlock("C", "")}
	return m, NewOrderStrip(m), ids
}

func drag(s *OrderStrip, from, to float32) {
	s.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(to, 10)},
		Dragged:    fyne.NewDelta(to-from, 0),
	})
}

func TestOrderStripDragCommits(t *testing.T) {
	m, s, ids := fixedStrip(t)
	drag(s, 50, 300)
	if got, ok := m.Dragging(); !ok || got != ids[0] {
		t.Fatalf("expected drag of A, got %v %v", got, ok)
	}
	s.DragEnd()
	var order []string
	for _, sec := range m.SectionsInOrder() {
		order = append(order, sec.Header)
	}
	if len(order) != 3 || order[0] != "B" || order[1] != "C" || order[2] != "A" {
		t.Fatalf("unexpected order after drop: %v", order)
	}
	if _, ok := m.Dragging(); ok {
		t.Fatal("drag still active after DragEnd")
	}
}

func TestOrderStripIgnoresGapPress(t *testing.T) {
	m, s, _ := fixedStrip(t)
	drag(s, 105, 300) // press between A and B
	if _, ok := m.Dragging(); ok {
		t.Fatal("drag started from a gap")
	}
	s.DragEnd()
	if m.IndexOf(1) != 0 {
		t.Fatal("order changed without a drag")
	}
}

func TestOrderStripMinSize(t *testing.T) {
	_, s, _ := fixedStrip(t)
	r := test.WidgetRenderer(s)
	if got := r.MinSize(); got.Width != 320 || got.Height != stripHeight {
		t.Fatalf("unexpected min size %v", got)
	}
	if len(r.Objects()) != 6 {
		t.Fatalf("expected a rect and a label per chip, got %d objects", len(r.Objects()))
	}
}
