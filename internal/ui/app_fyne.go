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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"docgen/internal/config"
	"docgen/internal/crash"
	"docgen/internal/domain"
	"docgen/internal/export"
	applog "docgen/internal/log"
	"docgen/internal/manager"
	"docgen/internal/version"
)

var levelOptions = []string{"1", "2", "3"}

var kindOptions = []string{domain.KindPlain.String(), domain.KindQuote.String(), domain.KindBox.String()}

// editor wires the manager to the window. All callbacks run on the Fyne
// main goroutine, which keeps the manager single-threaded.
type editor struct {
	cfg   config.AppConfig
	mgr   *manager.Manager
	log   *slog.Logger
	win   fyne.Window
	prefs fyne.Preferences

	strip      *OrderStrip
	cards      *fyne.Container
	preview    *widget.RichText
	titleEntry *widget.Entry
	mainEntry  *widget.Entry
	mainCheck  *widget.Check
	format     *widget.Select
	status     *widget.Label
	syncing    bool
}

// Emit receives manager change events.
func (e *editor) Emit(event string, payload any) {
	if event != manager.EventContentChanged {
		return
	}
	ch, _ := payload.(manager.Change)
	switch ch.Op {
	case "add", "delete", "move", "reorder", "header":
		e.rebuildCards()
	case "main":
		e.syncMainCheck()
	case "load", "clear", "restore":
		e.rebuildCards()
		e.syncDocumentFields()
	}
	e.refreshViews()
}

// Run opens the desktop editor, loading setPath when given.
func Run(setPath string) error {
	cfg, cfgPath, cfgErr := config.Load()
	applog.Init(cfg.Logging.LogOptions())
	l := applog.WithComponent("ui")
	if cfgErr != nil {
		l.Warn("config load failed; using defaults", slog.String("path", cfgPath), slog.Any("err", cfgErr))
	}
	l.Info("starting UI", slog.String("version", version.String()))

	e := &editor{cfg: cfg, log: l}
	opts := append(manager.OptionsFromConfig(cfg), manager.WithEmitter(e), manager.WithStripOptions(stripOptions()))
	e.mgr = manager.New(opts...)
	defer crash.Recover(e.mgr)

	fyneApp := app.NewWithID("docgen")
	e.prefs = fyneApp.Preferences()
	e.win = fyneApp.NewWindow("docgen")
	winW := max(e.prefs.IntWithFallback("window.width", 1200), 800)
	winH := max(e.prefs.IntWithFallback("window.height", 800), 600)
	e.win.Resize(fyne.NewSize(float32(winW), float32(winH)))

	e.win.SetContent(e.build())
	e.win.SetCloseIntercept(func() {
		sz := e.win.Canvas().Size()
		e.prefs.SetInt("window.width", int(sz.Width))
		e.prefs.SetInt("window.height", int(sz.Height))
		e.confirmDiscard("Quit", func() { e.win.Close() })
	})

	if strings.TrimSpace(setPath) != "" {
		e.open(setPath)
	}
	e.refreshViews()
	e.win.ShowAndRun()
	l.Info("UI closed")
	return nil
}

func (e *editor) build() fyne.CanvasObject {
	e.status = widget.NewLabel("Ready")
	e.strip = NewOrderStrip(e.mgr)
	e.cards = container.NewVBox()
	e.preview = widget.NewRichTextFromMarkdown("")
	e.preview.Wrapping = fyne.TextWrapWord

	e.titleEntry = widget.NewEntry()
	e.titleEntry.SetPlaceHolder(domain.DefaultTitle)
	e.titleEntry.OnChanged = func(s string) {
		if !e.syncing {
			e.mgr.SetTitle(s)
		}
	}

	e.mainEntry = widget.NewMultiLineEntry()
	e.mainEntry.SetPlaceHolder(domain.MainHeader)
	e.mainEntry.SetMinRowsVisible(3)
	e.mainEntry.OnChanged = func(s string) {
		if !e.syncing {
			e.mgr.SetMainContent(s)
		}
	}
	e.mainCheck = widget.NewCheck("Show "+strings.ToLower(domain.MainHeader), func(v bool) {
		if e.syncing {
			return
		}
		if v {
			e.mgr.ShowMain()
		} else {
			e.mgr.HideMain()
		}
	})

	names := make([]string, 0, 3)
	for _, fi := range export.Formats() {
		names = append(names, string(fi.Name))
	}
	e.format = widget.NewSelect(names, nil)
	if f, err := export.ParseFormat(e.cfg.Export.DefaultFormat); err == nil {
		e.format.SetSelected(string(f))
	} else {
		e.format.SetSelected(string(export.FormatAsciiDoc))
	}

	recent := widget.NewSelect(loadRecentSets(e.prefs), nil)
	recent.PlaceHolder = "Recent..."
	recent.OnChanged = func(p string) {
		if p == "" {
			return
		}
		recent.ClearSelected()
		e.confirmDiscard("Open", func() { e.open(p) })
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			e.confirmDiscard("New document", func() { e.mgr.ClearAll() })
		}),
		widget.NewToolbarAction(theme.FolderOpenIcon(), e.showOpen),
		widget.NewToolbarAction(theme.ContentAddIcon(), e.showAddFile),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), e.save),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.UploadIcon(), e.export),
	)
	top := container.NewVBox(
		container.NewBorder(nil, nil, toolbar, container.NewHBox(e.format, recent), e.titleEntry),
		container.NewHScroll(e.strip),
		widget.NewSeparator(),
	)
	editorPane := container.NewVScroll(container.NewVBox(
		widget.NewCard(domain.MainHeader, "", container.NewVBox(e.mainCheck, e.mainEntry)),
		e.cards,
	))
	previewPane := container.NewVScroll(e.preview)
	split := container.NewHSplit(editorPane, previewPane)
	split.Offset = 0.55
	return container.NewBorder(top, e.status, nil, nil, split)
}

// rebuildCards recreates the detailed list from the canonical order.
func (e *editor) rebuildCards() {
	if e.cards == nil {
		return
	}
	e.cards.RemoveAll()
	blocks := e.mgr.ListView()
	for _, b := range blocks {
		e.cards.Add(e.card(b, len(blocks)))
	}
	e.cards.Refresh()
}

func (e *editor) card(b domain.Block, n int) fyne.CanvasObject {
	id := b.ID

	headline := widget.NewEntry()
	headline.SetPlaceHolder(domain.HeadlinePlaceholder)
	headline.SetText(b.HeadingText)
	headline.OnChanged = func(s string) { e.mgr.SetHeadingText(id, s) }

	level := widget.NewRadioGroup(levelOptions, nil)
	level.Horizontal = true
	level.SetSelected(strconv.Itoa(int(b.HeadingLevel)))
	level.OnChanged = func(s string) {
		if n, err := strconv.Atoi(s); err == nil {
			e.mgr.SetHeadingLevel(id, domain.Level(n))
		}
	}

	kind := widget.NewSelect(kindOptions, nil)
	kind.SetSelected(b.Kind.String())
	kind.OnChanged = func(s string) {
		if k, err := domain.ParseKind(s); err == nil {
			e.mgr.SetKind(id, k)
		}
	}

	body := widget.NewMultiLineEntry()
	body.Wrapping = fyne.TextWrapWord
	body.SetText(b.Body)
	body.SetMinRowsVisible(4)
	body.OnChanged = func(s string) { e.mgr.SetBody(id, s) }

	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { e.move(id, -1) })
	down := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { e.move(id, 1) })
	if b.Position == 0 {
		up.Disable()
	}
	if b.Position == n-1 {
		down.Disable()
	}
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() { e.mgr.DeleteBlock(id) })

	controls := container.NewHBox(widget.NewLabel("Level"), level, kind, up, down, del)
	title := fmt.Sprintf("%d. %s", b.Position+1, b.Header)
	return widget.NewCard(title, "", container.NewVBox(headline, controls, body))
}

// move shifts id by delta positions through an explicit reorder.
func (e *editor) move(id domain.BlockID, delta int) {
	ids := make([]domain.BlockID, 0, e.mgr.SectionCount())
	for _, b := range e.mgr.ListView() {
		ids = append(ids, b.ID)
	}
	i := e.mgr.IndexOf(id)
	j := i + delta
	if i < 0 || j < 0 || j >= len(ids) {
		return
	}
	ids[i], ids[j] = ids[j], ids[i]
	e.mgr.Reorder(ids)
}

func (e *editor) syncDocumentFields() {
	if e.titleEntry == nil {
		return
	}
	e.syncing = true
	defer func() { e.syncing = false }()
	title := e.mgr.Title()
	if title == domain.DefaultTitle {
		title = ""
	}
	e.titleEntry.SetText(title)
	content, visible := e.mgr.Main()
	e.mainEntry.SetText(content)
	e.mainCheck.SetChecked(visible)
}

func (e *editor) syncMainCheck() {
	if e.mainCheck == nil {
		return
	}
	e.syncing = true
	defer func() { e.syncing = false }()
	_, visible := e.mgr.Main()
	e.mainCheck.SetChecked(visible)
}

func (e *editor) refreshViews() {
	if e.strip != nil {
		e.strip.Refresh()
	}
	if e.preview != nil {
		e.preview.ParseMarkdown(e.mgr.GenerateMarkdown(e.mgr.Title()))
	}
	name := "Untitled"
	if p := e.mgr.Path(); p != "" {
		name = filepath.Base(p)
	}
	if e.mgr.Modified() {
		name += " *"
	}
	if e.win != nil {
		e.win.SetTitle("docgen - " + name)
	}
}

func (e *editor) confirmDiscard(action string, fn func()) {
	if !e.mgr.Modified() {
		fn()
		return
	}
	dialog.ShowConfirm(action, "Discard unsaved changes?", func(ok bool) {
		if ok {
			fn()
		}
	}, e.win)
}

func (e *editor) showOpen() {
	e.confirmDiscard("Open", func() {
		d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, e.win)
				return
			}
			if rc == nil {
				return
			}
			p := rc.URI().Path()
			_ = rc.Close()
			e.open(p)
		}, e.win)
		d.SetFilter(fstorage.NewExtensionFileFilter([]string{domain.SetExtension}))
		d.Show()
	})
}

func (e *editor) open(p string) {
	if err := e.mgr.LoadFromFile(p); err != nil {
		e.status.SetText("Open failed: " + err.Error())
		dialog.ShowError(err, e.win)
		return
	}
	addRecentSet(e.prefs, p)
	e.status.SetText(fmt.Sprintf("Opened %s (%d sections)", filepath.Base(p), e.mgr.SectionCount()))
}

func (e *editor) showAddFile() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.win)
			return
		}
		if rc == nil {
			return
		}
		p := rc.URI().Path()
		_ = rc.Close()
		if _, err := e.mgr.AddFile(p); err != nil {
			dialog.ShowError(err, e.win)
			return
		}
		e.status.SetText("Added " + filepath.Base(p))
	}, e.win)
	d.Show()
}

func (e *editor) save() {
	if p := e.mgr.Path(); p != "" {
		e.saveTo(p)
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.win)
			return
		}
		if wc == nil {
			return
		}
		p := wc.URI().Path()
		_ = wc.Close()
		if !strings.HasSuffix(p, domain.SetExtension) {
			_ = os.Remove(p)
			p += domain.SetExtension
		}
		e.saveTo(p)
	}, e.win)
	d.SetFileName("document" + domain.SetExtension)
	d.Show()
}

func (e *editor) saveTo(p string) {
	if err := e.mgr.SaveToFile(p); err != nil {
		e.status.SetText("Save failed: " + err.Error())
		dialog.ShowError(err, e.win)
		return
	}
	addRecentSet(e.prefs, p)
	e.status.SetText("Saved " + filepath.Base(p))
	e.refreshViews()
}

func (e *editor) export() {
	f, err := export.ParseFormat(e.format.Selected)
	if err != nil {
		dialog.ShowError(err, e.win)
		return
	}
	if !e.mgr.HasContent() {
		dialog.ShowInformation("Export", "Nothing to export yet.", e.win)
		return
	}
	out := export.ResolveOutPath(e.mgr.Path(), f, e.cfg.Export.OutDir)
	if err := e.mgr.Export(out, f, export.PDFOptions{PageNumbers: true}); err != nil {
		e.status.SetText("Export failed: " + err.Error())
		dialog.ShowError(err, e.win)
		return
	}
	e.status.SetText("Exported " + out)
}

const (
	recentPrefsKey = "recent.sets"
	recentMax      = 10
)

func loadRecentSets(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		_ = json.Unmarshal([]byte(raw), &items)
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func addRecentSet(p fyne.Preferences, path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	rec := loadRecentSets(p)
	out := make([]string, 0, 1+len(rec))
	out = append(out, abs)
	for _, s := range rec {
		if !strings.EqualFold(s, abs) {
			out = append(out, s)
		}
	}
	if len(out) > recentMax {
		out = out[:recentMax]
	}
	b, _ := json.Marshal(out)
	p.SetString(recentPrefsKey, string(b))
}
