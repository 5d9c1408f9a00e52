/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"docgen/internal/bundle"
	"docgen/internal/config"
	"docgen/internal/docset"
	"docgen/internal/domain"
	"docgen/internal/export"
	applog "docgen/internal/log"
	"docgen/internal/source"
	"docgen/internal/storage"
	"docgen/internal/ui"
	"docgen/internal/version"
	"docgen/internal/watch"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "docgen",
		Short:         "Assemble text sections into ordered documents",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		versionCmd(),
		newSetCmd(a),
		addCmd(a),
		showCmd(a),
		moveCmd(a),
		levelCmd(a),
		headlineCmd(a),
		removeCmd(a),
		exportCmd(a),
		outlineCmd(a),
		searchCmd(a),
		watchCmd(a),
		recoverCmd(a),
		packCmd(a),
		unpackCmd(),
		configCmd(a),
		uiCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "docgen", version.String())
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "new <set> [files...]",
		Short: "Create a set file from text files or glob patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setPath := args[0]
			if _, err := os.Stat(setPath); err == nil {
				return fmt.Errorf("%s already exists", setPath)
			}
			if title == "" && a.cfg.Document.DefaultTitle != domain.DefaultTitle {
				title = a.cfg.Document.DefaultTitle
			}
			a.mgr.SetTitle(title)
			if err := a.addFiles(args[1:]); err != nil {
				return err
			}
			if err := a.mgr.SaveToFile(setPath); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d sections\n", setPath, a.mgr.SectionCount())
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "document title")
	return cmd
}

func addCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <set> <files...>",
		Short: "Append text files or glob patterns as sections",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.mgr.LoadFromFile(args[0]); err != nil {
				return err
			}
			before := a.mgr.SectionCount()
			if err := a.addFiles(args[1:]); err != nil {
				return err
			}
			if err := a.mgr.SaveToFile(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d sections\n", a.mgr.SectionCount()-before)
			return nil
		},
	}
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <set>",
		Short: "Print the strip and the detailed section list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.mgr.LoadFromFile(args[0]); err != nil {
				return err
			}
			printShow(cmd.OutOrStdout(), a)
			return nil
		},
	}
}

func printShow(w io.Writer, a *app) {
	_, _ = fmt.Fprintf(w, "Title: %s\n", a.mgr.Title())
	strip := a.mgr.StripView()
	chips := make([]string, len(strip))
	for i, it := range strip {
		chips[i] = "[" + it.Chip() + "]"
	}
	_, _ = fmt.Fprintf(w, "Strip: %s\n", strings.Join(chips, " "))
	for _, b := range a.mgr.ListView() {
		lines := 0
		if b.Body != "" {
			lines = strings.Count(b.Body, "\n") + 1
		}
		_, _ = fmt.Fprintf(w, "%d. %s  level %s  %q  %d lines\n", b.Position+1, b.Header, b.HeadingLevel.Roman(), b.Section().Heading(), lines)
	}
}

// moveCmd replays a strip drag: press on <from>, hover the near half of the
// target chip so the block lands at <to>, release.
func moveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <set> <from> <to>",
		Short: "Move a section to another position (1-based)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.mgr.LoadFromFile(args[0]); err != nil {
				return err
			}
			from, err := parsePos(args[1], a.mgr.SectionCount())
			if err != nil {
				return err
			}
			to, err := parsePos(args[2], a.mgr.SectionCount())
			if err != nil {
				return err
			}
			if from == to {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Order unchanged")
				return nil
			}
			b, _ := a.mgr.SectionAt(from)
			a.mgr.BeginDrag(b.ID)
			target := a.mgr.StripBounds()[to]
			frac := 0.25
			if to > from {
				frac = 0.75
			}
			a.mgr.DragOverStrip(target.Start + target.Extent*frac)
			if !a.mgr.EndDrag() {
				return fmt.Errorf("move %s to %s: order unchanged", args[1], args[2])
			}
			if err := a.mgr.SaveToFile(args[0]); err != nil {
				return err
			}
			printShow(cmd.OutOrStdout(), a)
			return nil
		},
	}
}

func levelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "level <set> <pos> <1|2|3>",
		Short: "Set the heading level of a section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editSection(args[0], args[1], func(id domain.BlockID) error {
				n, err := strconv.Atoi(strings.TrimSpace(args[2]))
				if err != nil || !a.mgr.SetHeadingLevel(id, domain.Level(n)) {
					return fmt.Errorf("invalid level %q (want 1, 2 or 3)", args[2])
				}
				return nil
			})
		},
	}
}

func headlineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "headline <set> <pos> <text>",
		Short: "Set the heading text of a section; empty falls back to the header",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editSection(args[0], args[1], func(id domain.BlockID) error {
				a.mgr.SetHeadingText(id, args[2])
				return nil
			})
		},
	}
}

func removeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <set> <pos>",
		Short: "Remove a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editSection(args[0], args[1], func(id domain.BlockID) error {
				a.mgr.DeleteBlock(id)
				return nil
			})
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var format, out, title string
	cmd := &cobra.Command{
		Use:   "export <set>",
		Short: "Export a set as AsciiDoc, Markdown or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format(format)
			if err != nil {
				return err
			}
			if err := a.mgr.LoadFromFile(args[0]); err != nil {
				return err
			}
			if title != "" {
				a.mgr.SetTitle(title)
			}
			path, err := a.export(args[0], out, f)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Exported", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "adoc, md or pdf (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default derived from the set path)")
	cmd.Flags().StringVar(&title, "title", "", "override the document title")
	return cmd
}

func outlineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outline <set>",
		Short: "Print the heading outline of the Markdown export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.mgr.LoadFromFile(args[0]); err != nil {
				return err
			}
			md := a.mgr.GenerateMarkdown(a.mgr.Title())
			for _, h := range export.Outline([]byte(md)) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.Text)
			}
			return nil
		},
	}
}

func searchCmd(a *app) *cobra.Command {
	var setPath string
	var levels []int
	var limit int
	cmd := &cobra.Command{
		Use:   "search <dir> <query>",
		Short: "Full-text search over the sections indexed in a directory",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			ctx := cmd.Context()
			rebuilt, err := storage.DetectAndRebuildIndex(ctx, root, loadDocument)
			if err != nil {
				return err
			}
			if rebuilt {
				a.log.Info("search index rebuilt", slog.String("root", root))
			}
			res, err := storage.Search(ctx, root, storage.SearchQuery{
				Text:    strings.Join(args[1:], " "),
				SetPath: setPath,
				Levels:  levels,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range res {
				_, _ = fmt.Fprintf(w, "%s:%d [%s] %s\n", r.SetPath, r.Position+1, domain.Level(r.Level).Roman(), r.HeadingText)
				if r.Snippet != "" {
					_, _ = fmt.Fprintf(w, "    %s\n", r.Snippet)
				}
			}
			if len(res) == 0 {
				_, _ = fmt.Fprintln(w, "No matches")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&setPath, "set", "", "restrict to one set file")
	cmd.Flags().IntSliceVar(&levels, "level", nil, "restrict to heading levels")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default 100)")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "watch <set>",
		Short: "Re-export a set whenever the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setPath := args[0]
			f, err := a.format(format)
			if err != nil {
				return err
			}
			w, err := watch.New(a.cfg.Watch.Debounce())
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Add(setPath); err != nil {
				return err
			}
			rebuild := func() {
				if err := a.mgr.LoadFromFile(setPath); err != nil {
					return
				}
				path, err := a.export(setPath, out, f)
				if err != nil {
					a.log.Error("re-export failed", slog.Any("err", err))
					return
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Exported", path)
			}
			rebuild()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx = applog.ContextWithSet(ctx, setPath)
			a.log.InfoContext(ctx, "watching", slog.Duration("debounce", a.cfg.Watch.Debounce()))
			return w.Run(ctx, func(string) { rebuild() })
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "adoc, md or pdf (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default derived from the set path)")
	return cmd
}

func recoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recover <snapshot|dir> <set>",
		Short: "Restore a crash snapshot and save it as a set file",
		Long: "Restore a crash snapshot and save it as a set file. When the first argument is a\n" +
			"directory, the newest crash snapshot in it is used.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapPath := args[0]
			if fi, err := os.Stat(snapPath); err == nil && fi.IsDir() {
				p, err := storage.LatestCrashSnapshot(snapPath)
				if err != nil {
					return err
				}
				snapPath = p
			}
			snap, err := storage.ReadCrashSnapshot(snapPath)
			if err != nil {
				return err
			}
			a.mgr.Restore(snap)
			if err := a.mgr.SaveToFile(args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recovered %d sections from %s into %s\n", a.mgr.SectionCount(), snapPath, args[1])
			return nil
		},
	}
}

func packCmd(a *app) *cobra.Command {
	var formats []string
	cmd := &cobra.Command{
		Use:   "pack <set> <zip>",
		Short: "Bundle a set file and its exports into one zip archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := make([]export.Format, 0, len(formats))
			for _, s := range formats {
				f, err := export.ParseFormat(s)
				if err != nil {
					return err
				}
				fs = append(fs, f)
			}
			opt := export.PDFOptions{PageNumbers: true, Options: export.Options{RenderKinds: a.cfg.Export.RenderKinds}}
			n, err := bundle.Pack(args[0], args[1], fs, opt)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Packed %d files into %s\n", n, args[1])
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{"adoc", "md", "pdf"}, "export formats to include")
	return cmd
}

func unpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack <zip> <dir>",
		Short: "Extract a bundle without overwriting existing files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, skipped, err := bundle.Unpack(args[0], args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Unpacked %d files into %s\n", n, args[1])
			for _, s := range skipped {
				_, _ = fmt.Fprintf(w, "  skipped existing %s\n", s)
			}
			return nil
		},
	}
}

// configOverrideKeys lists the config keys that can be overridden from the environment.
var configOverrideKeys = []string{
	"document.default_title", "document.default_level",
	"export.default_format", "export.render_kinds", "export.out_dir",
	"storage.keep_backups", "storage.index",
	"watch.debounce_ms",
	"logging.level", "logging.format", "logging.source", "logging.file",
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if p, err := config.ConfigPath(); err == nil {
				_, _ = fmt.Fprintf(w, "# file: %s\n", p)
			}
			for _, k := range configOverrideKeys {
				if env, ok := config.EnvOverrideFor(k); ok {
					_, _ = fmt.Fprintf(w, "# %s overridden by %s\n", k, env)
				}
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.ConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists", p)
			}
			if err := config.SaveTo(p, config.Defaults()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", p)
			return nil
		},
	})
	return cmd
}

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui [set]",
		Short: "Launch the desktop editor (build with -tags fyne)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var setPath string
			if len(args) == 1 {
				setPath = args[0]
			}
			return ui.Run(setPath)
		},
	}
}

// addFiles expands patterns and appends every match as a section.
func (a *app) addFiles(patterns []string) error {
	if len(patterns) == 0 {
		return nil
	}
	paths, err := source.Expand(patterns)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := a.mgr.AddFile(p); err != nil {
			return err
		}
	}
	return nil
}

// editSection loads setPath, applies fn to the section at the 1-based pos and saves.
func (a *app) editSection(setPath, pos string, fn func(id domain.BlockID) error) error {
	if err := a.mgr.LoadFromFile(setPath); err != nil {
		return err
	}
	i, err := parsePos(pos, a.mgr.SectionCount())
	if err != nil {
		return err
	}
	b, _ := a.mgr.SectionAt(i)
	if err := fn(b.ID); err != nil {
		return err
	}
	return a.mgr.SaveToFile(setPath)
}

func (a *app) format(flag string) (export.Format, error) {
	if flag == "" {
		flag = a.cfg.Export.DefaultFormat
	}
	return export.ParseFormat(flag)
}

// export writes the loaded document. An empty out derives the path from the
// set file and the configured export directory.
func (a *app) export(setPath, out string, f export.Format) (string, error) {
	if out == "" {
		out = export.ResolveOutPath(setPath, f, a.cfg.Export.OutDir)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	if err := a.mgr.Export(out, f, export.PDFOptions{PageNumbers: true}); err != nil {
		return "", err
	}
	return out, nil
}

var errPosition = errors.New("invalid position")

// parsePos converts a 1-based position into a canonical index.
func parsePos(s string, n int) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 1 || p > n {
		return 0, fmt.Errorf("%w %q (set has %d sections)", errPosition, s, n)
	}
	return p - 1, nil
}

// loadDocument reads and decodes a set file for index rebuilds.
func loadDocument(path string) (domain.Document, error) {
	data, err := storage.ReadSet(path)
	if err != nil {
		return domain.Document{}, err
	}
	doc, _, err := docset.Decode(bytes.NewReader(data))
	return doc, err
}
