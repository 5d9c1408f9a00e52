//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"docgen/internal/manager"
	"docgen/internal/textlayout"
)

const stripHeight = 30

var (
	chipColors = map[string]color.Color{
		"I":   color.RGBA{R: 70, G: 110, B: 190, A: 255},
		"II":  color.RGBA{R: 90, G: 140, B: 120, A: 255},
		"III": color.RGBA{R: 140, G: 140, B: 150, A: 255},
	}
	chipDragColor = color.RGBA{R: 230, G: 150, B: 40, A: 255}
)

// stripOptions measures chips with the theme font so hit testing matches
// what is drawn.
func stripOptions() textlayout.StripOptions {
	opt := textlayout.DefaultStripOptions()
	opt.Measurer = textlayout.MeasureFunc(func(s string) float64 {
		return float64(fyne.MeasureText(s, theme.TextSize(), fyne.TextStyle{}).Width)
	})
	return opt
}

// OrderStrip is the compact, horizontally laid out order view. Dragging a
// chip runs the manager's drag state machine.
type OrderStrip struct {
	widget.BaseWidget
	mgr      *manager.Manager
	dragging bool
}

func NewOrderStrip(m *manager.Manager) *OrderStrip {
	s := &OrderStrip{mgr: m}
	s.ExtendBaseWidget(s)
	return s
}

// Dragged starts a drag on the chip under the press position and previews
// the drop on every move.
func (s *OrderStrip) Dragged(e *fyne.DragEvent) {
	x := float64(e.Position.X)
	if !s.dragging {
		start := x - float64(e.Dragged.DX)
		for _, b := range s.mgr.StripBounds() {
			if start >= b.Start && start < b.Start+b.Extent {
				s.dragging = s.mgr.BeginDrag(b.ID)
				break
			}
		}
		if !s.dragging {
			return
		}
		s.Refresh()
	}
	if s.mgr.DragOverStrip(x) {
		s.Refresh()
	}
}

// DragEnd commits the previewed order.
func (s *OrderStrip) DragEnd() {
	if !s.dragging {
		return
	}
	s.dragging = false
	s.mgr.EndDrag()
	s.Refresh()
}

func (s *OrderStrip) CreateRenderer() fyne.WidgetRenderer {
	r := &stripRenderer{strip: s}
	r.rebuild()
	return r
}

type stripRenderer struct {
	strip   *OrderStrip
	chips   []*canvas.Rectangle
	labels  []*canvas.Text
	objects []fyne.CanvasObject
}

func (r *stripRenderer) rebuild() {
	items := r.strip.mgr.StripView()
	dragged, _ := r.strip.mgr.Dragging()
	r.chips = r.chips[:0]
	r.labels = r.labels[:0]
	r.objects = r.objects[:0]
	for _, it := range items {
		fill := chipColors[it.Level]
		if fill == nil {
			fill = chipColors["II"]
		}
		if it.ID == dragged && r.strip.dragging {
			fill = chipDragColor
		}
		rect := canvas.NewRectangle(fill)
		rect.CornerRadius = 6
		txt := canvas.NewText(it.Chip(), color.White)
		txt.TextSize = theme.TextSize()
		r.chips = append(r.chips, rect)
		r.labels = append(r.labels, txt)
		r.objects = append(r.objects, rect, txt)
	}
}

func (r *stripRenderer) Layout(_ fyne.Size) {
	bounds := r.strip.mgr.StripBounds()
	pad := float32(stripOptions().Padding)
	for i, b := range bounds {
		if i >= len(r.chips) {
			break
		}
		r.chips[i].Move(fyne.NewPos(float32(b.Start), 0))
		r.chips[i].Resize(fyne.NewSize(float32(b.Extent), stripHeight))
		th := r.labels[i].MinSize().Height
		r.labels[i].Move(fyne.NewPos(float32(b.Start)+pad, (stripHeight-th)/2))
	}
}

func (r *stripRenderer) MinSize() fyne.Size {
	bounds := r.strip.mgr.StripBounds()
	if len(bounds) == 0 {
		return fyne.NewSize(0, stripHeight)
	}
	last := bounds[len(bounds)-1]
	return fyne.NewSize(float32(last.Start+last.Extent), stripHeight)
}

func (r *stripRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.strip.Size())
	canvas.Refresh(r.strip)
}

func (r *stripRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *stripRenderer) Destroy()                     {}

var _ fyne.Draggable = (*OrderStrip)(nil)

