/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginDragIgnoresSecondBegin(t *testing.T) {
	m := newModel(3)
	require.True(t, m.BeginDrag(1))
	assert.False(t, m.BeginDrag(2))
	src, ok := m.Dragging()
	assert.True(t, ok)
	assert.EqualValues(t, 1, src)
	assert.Equal(t, 0, m.SourceIndex())
}

func TestBeginDragUnknownID(t *testing.T) {
	m := newModel(2)
	assert.False(t, m.BeginDrag(7))
	_, ok := m.Dragging()
	assert.False(t, ok)
}

func TestDragOverBeforeAndAfter(t *testing.T) {
	m := newModel(3) // 1 2 3
	require.True(t, m.BeginDrag(1))

	assert.True(t, m.DragOver(3, 0.75))
	assert.Equal(t, ids{2, 3, 1}, m.StripOrder())
	assert.Equal(t, ids{1, 2, 3}, m.ListOrder(), "list follows commits only")

	assert.True(t, m.DragOver(3, 0.25))
	assert.Equal(t, ids{2, 1, 3}, m.StripOrder())

	assert.True(t, m.EndDrag())
	assert.Equal(t, ids{2, 1, 3}, m.Current())
	assert.Equal(t, m.ListOrder(), m.StripOrder())
}

func TestDragOverMidpointInsertsAfter(t *testing.T) {
	m := newModel(3)
	require.True(t, m.BeginDrag(3))
	m.DragOver(1, 0.5)
	assert.Equal(t, ids{1, 3, 2}, m.StripOrder())

	m.CancelDrag()
	require.True(t, m.BeginDrag(3))
	m.DragOver(1, 0.4999)
	assert.Equal(t, ids{3, 1, 2}, m.StripOrder())
}

func TestDragOverIsIdempotent(t *testing.T) {
	m := newModel(5)
	require.True(t, m.BeginDrag(2))
	assert.True(t, m.DragOver(4, 0.9))
	want := m.StripOrder()
	for i := 0; i < 10; i++ {
		assert.False(t, m.DragOver(4, 0.9))
		assert.Equal(t, want, m.StripOrder())
	}
	assert.Equal(t, ids{1, 3, 4, 2, 5}, want)
}

func TestDragOverSelfAndIdleAreNoops(t *testing.T) {
	m := newModel(3)
	assert.False(t, m.DragOver(2, 0.9), "idle")
	require.True(t, m.BeginDrag(2))
	assert.False(t, m.DragOver(2, 0.9), "self")
	assert.False(t, m.DragOver(99, 0.9), "unknown target")
	assert.Equal(t, ids{1, 2, 3}, m.StripOrder())
}

func TestDragOverGap(t *testing.T) {
	// elements 10 wide with a gap of 2: mids at 5, 17, 29
	bounds := []Bounds{{ID: 1, Start: 0, Extent: 10}, {ID: 2, Start: 12, Extent: 10}, {ID: 3, Start: 24, Extent: 10}}

	m := newModel(3)
	require.True(t, m.BeginDrag(3))
	assert.True(t, m.DragOverGap(3, bounds))
	assert.Equal(t, ids{3, 1, 2}, m.StripOrder())

	assert.True(t, m.DragOverGap(11, bounds))
	assert.Equal(t, ids{1, 3, 2}, m.StripOrder())

	// exactly on a midpoint goes after that element
	assert.True(t, m.DragOverGap(17, bounds))
	assert.Equal(t, ids{1, 2, 3}, m.StripOrder())

	// beyond everything: end of the strip
	assert.False(t, m.DragOverGap(100, bounds))
	assert.Equal(t, ids{1, 2, 3}, m.StripOrder())
}

func TestDragOverGapSkipsDraggedElement(t *testing.T) {
	bounds := []Bounds{{ID: 1, Start: 0, Extent: 10}, {ID: 2, Start: 12, Extent: 10}, {ID: 3, Start: 24, Extent: 10}}
	m := newModel(3)
	require.True(t, m.BeginDrag(1))
	// pointer left of 1's midpoint, but 1 is the dragged element: first other mid is 17
	m.DragOverGap(2, bounds)
	assert.Equal(t, ids{1, 2, 3}, m.StripOrder())
	m.DragOverGap(20, bounds)
	assert.Equal(t, ids{2, 1, 3}, m.StripOrder())
}

func TestEndDragWithoutBeginIsNoop(t *testing.T) {
	m := newModel(3)
	m.Reorder(ids{2, 3, 1})
	assert.False(t, m.EndDrag())
	assert.False(t, m.EndDrag())
	assert.Equal(t, ids{2, 3, 1}, m.Current())
}

func TestEndDragWithoutMoveReportsUnchanged(t *testing.T) {
	m := newModel(3)
	require.True(t, m.BeginDrag(2))
	assert.False(t, m.EndDrag())
	_, ok := m.Dragging()
	assert.False(t, ok)
	assert.True(t, m.BeginDrag(3), "state machine back to idle")
}

func TestCancelDragRestoresCanonical(t *testing.T) {
	m := newModel(3)
	require.True(t, m.BeginDrag(1))
	m.DragOver(3, 1)
	m.CancelDrag()
	assert.Equal(t, ids{1, 2, 3}, m.StripOrder())
	assert.False(t, m.EndDrag())
}

func TestMutationsCancelActiveDrag(t *testing.T) {
	m := newModel(3)
	require.True(t, m.BeginDrag(1))
	m.DragOver(3, 1)
	m.Append(4)
	_, ok := m.Dragging()
	assert.False(t, ok)
	assert.Equal(t, ids{1, 2, 3, 4}, m.StripOrder())
}
