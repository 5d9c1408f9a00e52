/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"docgen/internal/domain"
)

// Format identifies an export target.
type Format string

const (
	FormatAsciiDoc Format = "adoc"
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string // with dot
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatAsciiDoc: {
		Name:        FormatAsciiDoc,
		MIMEType:    "text/asciidoc",
		Extension:   ".adoc",
		Description: "AsciiDoc document",
	},
	FormatMarkdown: {
		Name:        FormatMarkdown,
		MIMEType:    "text/markdown",
		Extension:   ".md",
		Description: "Markdown document",
	},
	FormatPDF: {
		Name:        FormatPDF,
		MIMEType:    "application/pdf",
		Extension:   ".pdf",
		Description: "PDF document (Helvetica, A4)",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(f Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[f]
	return info, ok
}

// ParseFormat accepts a format name or extension, e.g. "md", ".md", "markdown", "asciidoc".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch s {
	case "adoc", "asciidoc", "asc":
		return FormatAsciiDoc, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q (want one of %s)", s, strings.Join(formatNames(), ", "))
}

// Formats lists the registered formats sorted by name.
func Formats() []FormatInfo {
	out := make([]FormatInfo, 0, len(FormatRegistry))
	for _, info := range FormatRegistry {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func formatNames() []string {
	var names []string
	for _, info := range Formats() {
		names = append(names, string(info.Name))
	}
	return names
}

// DerivePath returns the export file name for a set file: a trailing
// .docgenset is replaced by the format extension, any other name gets the
// extension appended. An empty set path yields "document<ext>".
func DerivePath(setPath string, f Format) string {
	ext := ".txt"
	if info, ok := GetFormatInfo(f); ok {
		ext = info.Extension
	}
	if strings.TrimSpace(setPath) == "" {
		return "document" + ext
	}
	if strings.HasSuffix(setPath, domain.SetExtension) {
		return strings.TrimSuffix(setPath, domain.SetExtension) + ext
	}
	return setPath + ext
}

// ResolveOutPath places a derived export name into outDir when one is configured.
func ResolveOutPath(setPath string, f Format, outDir string) string {
	p := DerivePath(setPath, f)
	if strings.TrimSpace(outDir) == "" {
		return p
	}
	return filepath.Join(outDir, filepath.Base(p))
}
