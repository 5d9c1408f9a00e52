/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package manager is the single mutation entry point for a document: it owns
// the blocks, their canonical order, the preamble block and the title, and
// tells observers after every change.
//
// A Manager is not safe for concurrent use. Observers run synchronously on
// the calling goroutine and must not call back into mutating methods.
package manager

import (
	"log/slog"

	"docgen/internal/domain"
	"docgen/internal/export"
	applog "docgen/internal/log"
	"docgen/internal/order"
	"docgen/internal/source"
	"docgen/internal/storage"
	"docgen/internal/textlayout"
)

// EventContentChanged is emitted after every mutating call.
const EventContentChanged = "content:changed"

// Emitter receives change notifications.
type Emitter interface {
	Emit(event string, payload any)
}

// Change is the payload of EventContentChanged.
type Change struct {
	Op string
	ID domain.BlockID // zero for document-wide changes
}

// Option configures a Manager.
type Option func(*Manager)

func WithEmitter(e Emitter) Option { return func(m *Manager) { m.emitter = e } }

// WithDefaultLevel sets the heading level of new blocks. Invalid levels are ignored.
func WithDefaultLevel(l domain.Level) Option {
	return func(m *Manager) {
		if l.Valid() {
			m.defaultLevel = l
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.log = l } }

// WithWriteOptions controls backups when saving.
func WithWriteOptions(o storage.WriteOptions) Option { return func(m *Manager) { m.writeOpts = o } }

// WithExportOptions controls the text exporters.
func WithExportOptions(o export.Options) Option { return func(m *Manager) { m.exportOpts = o } }

// WithStripOptions sets the chip geometry used for strip hit testing.
func WithStripOptions(o textlayout.StripOptions) Option { return func(m *Manager) { m.stripOpts = o } }

// WithSearchIndex re-indexes the set after every successful save.
func WithSearchIndex(enabled bool) Option { return func(m *Manager) { m.index = enabled } }

type mainBlock struct {
	content string
	visible bool
}

// Manager owns one document.
type Manager struct {
	blocks       map[domain.BlockID]*domain.Block
	order        order.Model
	nextID       domain.BlockID
	main         mainBlock
	title        string
	loadedTitle  string
	path         string
	modified     bool
	defaultLevel domain.Level

	emitter   Emitter
	observers []func()
	log       *slog.Logger

	writeOpts  storage.WriteOptions
	exportOpts export.Options
	stripOpts  textlayout.StripOptions
	index      bool
}

// New returns an empty manager with a hidden, blank preamble block.
func New(opts ...Option) *Manager {
	m := &Manager{
		blocks:       make(map[domain.BlockID]*domain.Block),
		nextID:       1,
		title:        domain.DefaultTitle,
		defaultLevel: domain.DefaultLevel,
		stripOpts:    textlayout.DefaultStripOptions(),
	}
	for _, o := range opts {
		o(m)
	}
	if m.log == nil {
		m.log = applog.WithComponent("manager")
	}
	return m
}

// OnContentChanged registers fn to run after every mutating call.
func (m *Manager) OnContentChanged(fn func()) {
	if fn != nil {
		m.observers = append(m.observers, fn)
	}
}

func (m *Manager) notify(op string, id domain.BlockID) {
	if m.emitter != nil {
		m.emitter.Emit(EventContentChanged, Change{Op: op, ID: id})
	}
	for _, fn := range m.observers {
		fn()
	}
}

// changed marks the document modified and notifies observers.
func (m *Manager) changed(op string, id domain.BlockID) {
	m.modified = true
	m.notify(op, id)
}

// AddBlock appends a new block and returns its id.
func (m *Manager) AddBlock(header, body string) domain.BlockID {
	m.order.CancelDrag()
	id := m.nextID
	m.nextID++
	b := domain.NewBlock(id, header, body)
	b.HeadingLevel = m.defaultLevel
	m.blocks[id] = &b
	m.order.Append(id)
	m.changed("add", id)
	return id
}

// AddFile imports path as a new block (header = base name). On error nothing
// is added; source.ErrNotFound and source.ErrIO are passed through.
func (m *Manager) AddFile(path string) (domain.BlockID, error) {
	header, body, err := source.Import(path)
	if err != nil {
		m.log.Warn("add file failed", slog.String("path", path), slog.Any("err", err))
		return 0, err
	}
	return m.AddBlock(header, body), nil
}

// DeleteBlock removes id. Unknown ids are a no-op returning false.
func (m *Manager) DeleteBlock(id domain.BlockID) bool {
	if _, ok := m.blocks[id]; !ok {
		return false
	}
	m.order.CancelDrag()
	delete(m.blocks, id)
	m.order.Remove(id)
	m.changed("delete", id)
	return true
}

// ClearAll removes every block, hides and blanks the preamble and resets the
// id counter, so ids handed out afterwards repeat earlier ones. The title goes
// back to the default, the set path is forgotten and the document counts as
// unmodified.
func (m *Manager) ClearAll() {
	m.reset()
	m.path = ""
	m.notify("clear", 0)
}

func (m *Manager) reset() {
	m.order.Clear()
	m.blocks = make(map[domain.BlockID]*domain.Block)
	m.nextID = 1
	m.main = mainBlock{}
	m.title = domain.DefaultTitle
	m.loadedTitle = ""
	m.modified = false
}

// Block returns a copy of block id with its canonical position.
func (m *Manager) Block(id domain.BlockID) (domain.Block, bool) {
	b, ok := m.blocks[id]
	if !ok {
		return domain.Block{}, false
	}
	out := *b
	out.Position = m.order.IndexOf(id)
	return out, true
}

// update applies fn to block id. fn reports whether it changed anything.
func (m *Manager) update(id domain.BlockID, op string, fn func(b *domain.Block) bool) bool {
	b, ok := m.blocks[id]
	if !ok {
		return false
	}
	m.order.CancelDrag()
	if fn(b) {
		m.changed(op, id)
	}
	return true
}

func (m *Manager) SetHeader(id domain.BlockID, header string) bool {
	return m.update(id, "header", func(b *domain.Block) bool {
		if b.Header == header {
			return false
		}
		b.Header = header
		return true
	})
}

func (m *Manager) SetBody(id domain.BlockID, body string) bool {
	return m.update(id, "body", func(b *domain.Block) bool {
		if b.Body == body {
			return false
		}
		b.Body = body
		return true
	})
}

func (m *Manager) SetHeadingText(id domain.BlockID, text string) bool {
	return m.update(id, "headline", func(b *domain.Block) bool {
		if b.HeadingText == text {
			return false
		}
		b.HeadingText = text
		return true
	})
}

// SetHeadingLevel sets the export level of id. Levels outside 1..3 are
// rejected and the previous level is kept.
func (m *Manager) SetHeadingLevel(id domain.BlockID, l domain.Level) bool {
	if !l.Valid() {
		m.log.Debug("ignore invalid heading level", slog.Int("id", int(id)), slog.Int("level", int(l)))
		return false
	}
	return m.update(id, "level", func(b *domain.Block) bool {
		if b.HeadingLevel == l {
			return false
		}
		b.HeadingLevel = l
		return true
	})
}

func (m *Manager) SetKind(id domain.BlockID, k domain.Kind) bool {
	if k < domain.KindPlain || k > domain.KindBox {
		return false
	}
	return m.update(id, "kind", func(b *domain.Block) bool {
		if b.Kind == k {
			return false
		}
		b.Kind = k
		return true
	})
}

// SetMainContent sets the preamble text and shows it.
func (m *Manager) SetMainContent(text string) {
	m.order.CancelDrag()
	m.main = mainBlock{content: text, visible: true}
	m.changed("main", 0)
}

func (m *Manager) ShowMain() { m.setMainVisible(true) }

func (m *Manager) HideMain() { m.setMainVisible(false) }

func (m *Manager) setMainVisible(v bool) {
	m.order.CancelDrag()
	if m.main.visible == v {
		return
	}
	m.main.visible = v
	m.changed("main", 0)
}

// Main returns the preamble text and whether it is shown.
func (m *Manager) Main() (content string, visible bool) {
	return m.main.content, m.main.visible
}

func (m *Manager) Title() string { return m.title }

// SetTitle sets the document title; an empty title falls back to the default.
func (m *Manager) SetTitle(title string) {
	if title == "" {
		title = domain.DefaultTitle
	}
	m.order.CancelDrag()
	if m.title == title {
		return
	}
	m.title = title
	m.changed("title", 0)
}

// LoadedTitle is the title read from the last loaded set file, "" if it had none.
func (m *Manager) LoadedTitle() string { return m.loadedTitle }

// Modified reports unsaved changes since the last load, save or clear.
func (m *Manager) Modified() bool { return m.modified }

// Path is the set file last loaded or saved, "" for a new document.
func (m *Manager) Path() string { return m.path }
