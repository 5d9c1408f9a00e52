/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"strings"

	"docgen/internal/domain"
)

// CodeFence delimits fenced blocks in Markdown output.
const CodeFence = "```"

// QuotePrefix starts every blockquote line in Markdown output.
const QuotePrefix = "> "

// Markdown renders title and sections as Markdown. "#" is reserved for the
// title; levels 1/2/3 map to ##/###/####, anything else to ###.
func Markdown(title string, sections []domain.Section, opt Options) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("# " + title + "\n\n")
	}
	for _, s := range sections {
		b.WriteString(markdownMarker(s.Level) + " " + s.Heading() + "\n\n")
		b.WriteString(markdownBody(s, opt))
		b.WriteString("\n\n")
	}
	return b.String()
}

func markdownMarker(l domain.Level) string {
	switch l {
	case 1:
		return "##"
	case 2:
		return "###"
	case 3:
		return "####"
	default:
		return "###"
	}
}

func markdownBody(s domain.Section, opt Options) string {
	if !opt.RenderKinds {
		return s.Body
	}
	switch s.Kind {
	case domain.KindQuote:
		lines := strings.Split(s.Body, "\n")
		for i, l := range lines {
			lines[i] = QuotePrefix + l
		}
		return strings.Join(lines, "\n")
	case domain.KindBox:
		return CodeFence + "\n" + s.Body + "\n" + CodeFence
	default:
		return s.Body
	}
}
