/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadTextFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	writeFile(t, p, "line 1\r\nline 2\n")

	got, err := LoadTextFile(p)
	require.NoError(t, err)
	assert.Equal(t, "line 1\r\nline 2\n", got)

	_, err = LoadTextFile(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LoadTextFile(dir)
	assert.ErrorIs(t, err, ErrIO)
}

func TestImportPlainText(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.md")
	writeFile(t, p, "hello")
	header, body, err := Import(p)
	require.NoError(t, err)
	assert.Equal(t, "notes.md", header)
	assert.Equal(t, "hello", body)
}

func TestImportHTML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, p, `<html><head><style>h1{}</style><script>alert(1)</script></head>
<body><h2>Usage</h2><p>Run <strong>docgen</strong>.</p></body></html>`)
	header, body, err := Import(p)
	require.NoError(t, err)
	assert.Equal(t, "page.html", header)
	assert.Contains(t, body, "## Usage")
	assert.Contains(t, body, "**docgen**")
	assert.NotContains(t, body, "alert")
}

func TestImportMissing(t *testing.T) {
	_, _, err := Import(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "sub", "c.txt"), "c")
	writeFile(t, filepath.Join(dir, "sub", "d.md"), "d")

	got, err := Expand([]string{filepath.Join(dir, "*.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, got)

	got, err = Expand([]string{filepath.Join(dir, "**", "*.txt"), filepath.Join(dir, "a.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "sub", "c.txt"),
	}, got)

	literal := filepath.Join(dir, "later.txt")
	got, err = Expand([]string{literal})
	require.NoError(t, err)
	assert.Equal(t, []string{literal}, got)

	_, err = Expand([]string{filepath.Join(dir, "*.pdf")})
	assert.ErrorIs(t, err, ErrNotFound)
}
