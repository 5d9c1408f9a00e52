/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders an ordered list of sections to AsciiDoc, Markdown and PDF.
// Exporters never derive order themselves: they emit sections in the order given.
package export

import (
	"strings"

	"docgen/internal/domain"
)

// Options tunes the text exporters.
type Options struct {
	// RenderKinds turns quote blocks into blockquotes and box blocks into
	// fenced/listing blocks. Off by default: kind is a strip-only hint.
	RenderKinds bool
}

// AsciiDoc renders title and sections as AsciiDoc.
// Levels 1/2/3 map to ==/===/====; any other level falls back to ===.
func AsciiDoc(title string, sections []domain.Section, opt Options) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("= " + title + "\n\n")
	}
	for _, s := range sections {
		b.WriteString(asciiDocMarker(s.Level) + " " + s.Heading() + "\n\n")
		b.WriteString(asciiDocBody(s, opt))
		b.WriteString("\n\n")
	}
	return b.String()
}

func asciiDocMarker(l domain.Level) string {
	switch l {
	case 1:
		return "=="
	case 2:
		return "==="
	case 3:
		return "===="
	default:
		return "==="
	}
}

func asciiDocBody(s domain.Section, opt Options) string {
	if !opt.RenderKinds {
		return s.Body
	}
	switch s.Kind {
	case domain.KindQuote:
		return "[quote]\n____\n" + s.Body + "\n____"
	case domain.KindBox:
		return "----\n" + s.Body + "\n----"
	default:
		return s.Body
	}
}
