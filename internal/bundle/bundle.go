/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package bundle packs a set file together with its rendered exports into a
// single zip archive and unpacks such archives again.
package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docgen/internal/docset"
	"docgen/internal/export"
	applog "docgen/internal/log"
	"docgen/internal/storage"
)

// ManifestName is the human-readable summary at the archive root.
const ManifestName = "bundle.manifest.txt"

// ErrUnsafePath is returned for archive entries that would land outside the target directory.
var ErrUnsafePath = errors.New("unsafe path in bundle")

// Pack writes setPath and one rendering per format into destZip. The archive
// holds the set file under its base name and each export under the name
// export.DerivePath gives it. It returns the number of files added, manifest excluded.
func Pack(setPath, destZip string, formats []export.Format, opt export.PDFOptions) (int, error) {
	l := applog.WithOperation(applog.WithComponent("bundle"), "pack").With(slog.String("set", setPath))
	if strings.TrimSpace(setPath) == "" {
		return 0, errors.New("set path is required")
	}
	if strings.TrimSpace(destZip) == "" {
		return 0, errors.New("destination is required")
	}
	raw, err := storage.ReadSet(setPath)
	if err != nil {
		return 0, err
	}
	doc, warns, err := docset.Decode(bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	for _, w := range warns {
		l.Warn("set file", slog.Int("line", w.Line), slog.String("warning", w.Message))
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	base := filepath.Base(setPath)
	names := []string{base}
	entries := map[string][]byte{base: raw}
	for _, f := range formats {
		data, err := export.Render(f, doc, opt)
		if err != nil {
			return 0, fmt.Errorf("render %s: %w", f, err)
		}
		name := filepath.Base(export.DerivePath(base, f))
		if _, dup := entries[name]; !dup {
			names = append(names, name)
		}
		entries[name] = data
	}

	manifest := fmt.Sprintf("docgen bundle\nCreated: %s\nSet: %s\nTitle: %s\nSections: %d\nFiles: %s\n",
		time.Now().Format(time.RFC3339), base, doc.Title, len(doc.Sections), strings.Join(names, ", "))
	if err := addEntry(zw, ManifestName, []byte(manifest)); err != nil {
		return 0, fmt.Errorf("add manifest: %w", err)
	}
	for _, name := range names {
		if err := addEntry(zw, name, entries[name]); err != nil {
			return 0, fmt.Errorf("add %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finish zip: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(destZip), 0o755); err != nil {
		return 0, fmt.Errorf("ensure zip dir: %w", err)
	}
	if err := storage.WriteFileAtomic(destZip, buf.Bytes()); err != nil {
		l.Error("write bundle failed", slog.Any("err", err))
		return 0, err
	}
	l.Info("bundle written", slog.Int("files", len(names)), slog.String("zip", destZip))
	return len(names), nil
}

func addEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: time.Now()})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unpack extracts a bundle into destDir. Existing files are never
// overwritten; they are skipped and reported by name. The manifest is not
// extracted.
func Unpack(zipPath, destDir string) (installed int, skipped []string, err error) {
	l := applog.WithOperation(applog.WithComponent("bundle"), "unpack").With(slog.String("zip", zipPath))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, nil, fmt.Errorf("ensure target dir: %w", err)
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, nil, fmt.Errorf("open bundle: %w", err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.Name == ManifestName || f.FileInfo().IsDir() {
			continue
		}
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return installed, skipped, err
		}
		if _, err := os.Stat(target); err == nil {
			l.Warn("skip existing file", slog.String("path", target))
			skipped = append(skipped, f.Name)
			continue
		}
		if err := extract(f, target); err != nil {
			return installed, skipped, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		installed++
	}
	l.Info("bundle unpacked", slog.Int("files", installed), slog.Int("skipped", len(skipped)))
	return installed, skipped, nil
}

func safeJoin(dir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return filepath.Join(dir, clean), nil
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
