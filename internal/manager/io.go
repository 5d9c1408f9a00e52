/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manager

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"docgen/internal/docset"
	"docgen/internal/domain"
	"docgen/internal/export"
	applog "docgen/internal/log"
	"docgen/internal/storage"
)

// Document returns the title and sections in canonical order.
func (m *Manager) Document() domain.Document {
	return domain.Document{Title: m.title, Sections: m.SectionsInOrder()}
}

// GenerateAsciiDoc renders the sections in canonical order under title.
func (m *Manager) GenerateAsciiDoc(title string) string {
	return export.AsciiDoc(title, m.SectionsInOrder(), m.exportOpts)
}

// GenerateMarkdown renders the sections in canonical order under title.
func (m *Manager) GenerateMarkdown(title string) string {
	return export.Markdown(title, m.SectionsInOrder(), m.exportOpts)
}

// Export writes the document in format f to outPath.
func (m *Manager) Export(outPath string, f export.Format, opt export.PDFOptions) error {
	opt.Options = m.exportOpts
	return export.WriteFile(outPath, f, m.Document(), opt)
}

// SaveToFile writes the set file. The previous file is backed up when the
// manager was built with backups enabled. Success clears the modified flag.
func (m *Manager) SaveToFile(path string) error {
	l := applog.WithOperation(m.log, "save").With(slog.String("path", path))
	m.order.CancelDrag()
	doc := m.Document()
	if err := storage.WriteSet(path, docset.Marshal(doc), m.writeOpts); err != nil {
		l.Error("save failed", slog.Any("err", err))
		return err
	}
	m.path = path
	m.modified = false
	l.Info("saved", slog.Int("sections", len(doc.Sections)))
	if m.index {
		ctx := applog.ContextWithSet(context.Background(), path)
		if _, err := storage.IndexSet(ctx, path, doc); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
	}
	return nil
}

// LoadFromFile replaces the document with the content of a set file. When
// the file cannot be read the current state is left untouched. Malformed
// content never fails; parser warnings are logged.
func (m *Manager) LoadFromFile(path string) error {
	l := applog.WithOperation(m.log, "load").With(slog.String("path", path))
	data, err := storage.ReadSet(path)
	if err != nil {
		l.Warn("load failed", slog.Any("err", err))
		return err
	}
	doc, warns, err := docset.Decode(bytes.NewReader(data))
	if err != nil {
		l.Error("decode failed", slog.Any("err", err))
		return err
	}
	for _, w := range warns {
		l.Warn("set file", slog.Int("line", w.Line), slog.String("warning", w.Message))
	}
	m.replace(doc)
	m.path = path
	l.Info("loaded", slog.Int("sections", len(doc.Sections)))
	m.notify("load", 0)
	return nil
}

// replace swaps in doc as a freshly loaded document.
func (m *Manager) replace(doc domain.Document) {
	m.reset()
	for _, s := range doc.Sections {
		id := m.nextID
		m.nextID++
		b := domain.NewBlock(id, s.Header, s.Body)
		b.HeadingText = s.HeadingText
		if s.Level.Valid() {
			b.HeadingLevel = s.Level
		}
		b.Kind = s.Kind
		m.blocks[id] = &b
		m.order.Append(id)
	}
	m.loadedTitle = doc.Title
	if doc.Title != "" {
		m.title = doc.Title
	}
}

// Snapshot captures the full state, including kinds and the preamble, for
// crash recovery.
func (m *Manager) Snapshot() storage.Snapshot {
	return storage.Snapshot{
		Version:   storage.SnapshotVersion,
		CreatedAt: time.Now().UTC(),
		SetPath:   m.path,
		Title:     m.title,
		Main:      &storage.MainSnapshot{Content: m.main.content, Visible: m.main.visible},
		Sections:  m.SectionsInOrder(),
	}
}

// Restore replaces the document with a crash snapshot. The result counts as
// modified until it is saved.
func (m *Manager) Restore(snap storage.Snapshot) {
	m.replace(snap.Document())
	if snap.Main != nil {
		m.main = mainBlock{content: snap.Main.Content, visible: snap.Main.Visible}
	}
	m.path = snap.SetPath
	m.changed("restore", 0)
}
