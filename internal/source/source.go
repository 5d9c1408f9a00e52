/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package source loads block content from files on disk.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	ErrNotFound = errors.New("source not found")
	ErrIO       = errors.New("source unreadable")
)

// LoadTextFile returns the whole file as text. Bytes are passed through
// unchanged; missing files wrap ErrNotFound, anything else ErrIO.
func LoadTextFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		return string(b), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return "", fmt.Errorf("%s: %w: %w", path, ErrIO, err)
}

// Import loads a file as block content: the header is the base name and the
// body the file text. HTML files are converted to Markdown.
func Import(path string) (header, body string, err error) {
	text, err := LoadTextFile(path)
	if err != nil {
		return "", "", err
	}
	header = filepath.Base(path)
	if !IsHTML(path) {
		return header, text, nil
	}
	body, err = HTMLToMarkdown(text)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w: %w", path, ErrIO, err)
	}
	return header, body, nil
}

// IsHTML reports whether path has an .html or .htm extension.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Expand resolves file arguments. Patterns with glob characters (including
// ** for recursion) expand to the matching regular files in sorted order;
// literal paths pass through unchanged. Duplicates keep their first position.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		key := filepath.Clean(p)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}
	for _, pat := range patterns {
		if !containsGlob(pat) {
			add(pat)
			continue
		}
		matches, err := doublestar.FilepathGlob(pat)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pat, err)
		}
		sort.Strings(matches)
		n := 0
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			add(m)
			n++
		}
		if n == 0 {
			return nil, fmt.Errorf("no files match %q: %w", pat, ErrNotFound)
		}
	}
	return out, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
