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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/domain"
)

func sampleSections() []domain.Section {
	return []domain.Section{
		{Header: "a.txt", HeadingText: "Intro", Level: 1, Body: "First body."},
		{Header: "b.txt", HeadingText: "Detail", Level: 3, Body: "Second body.", Kind: domain.KindQuote},
		{Header: "c.txt", HeadingText: "", Level: 2, Body: "x := 1", Kind: domain.KindBox},
	}
}

func TestAsciiDoc(t *testing.T) {
	got := AsciiDoc("Doc", sampleSections(), Options{})
	want := "= Doc\n\n" +
		"== Intro\n\nFirst body.\n\n" +
		"==== Detail\n\nSecond body.\n\n" +
		"=== section headline\n\nx := 1\n\n"
	assert.Equal(t, want, got)

	intro := strings.Index(got, "== Intro")
	detail := strings.Index(got, "==== Detail")
	require.True(t, intro >= 0 && detail >= 0)
	assert.Less(t, intro, detail)
}

func TestAsciiDocNoTitleAndUnknownLevel(t *testing.T) {
	got := AsciiDoc("", []domain.Section{{HeadingText: "H", Level: 9, Body: "b"}}, Options{})
	assert.Equal(t, "=== H\n\nb\n\n", got)
}

func TestAsciiDocDeterministic(t *testing.T) {
	s := sampleSections()
	assert.Equal(t, AsciiDoc("Doc", s, Options{}), AsciiDoc("Doc", s, Options{}))
}

func TestAsciiDocRenderKinds(t *testing.T) {
	got := AsciiDoc("", sampleSections(), Options{RenderKinds: true})
	assert.Contains(t, got, "[quote]\n____\nSecond body.\n____\n\n")
	assert.Contains(t, got, "----\nx := 1\n----\n\n")
}

func TestMarkdown(t *testing.T) {
	got := Markdown("Doc", sampleSections(), Options{})
	want := "# Doc\n\n" +
		"## Intro\n\nFirst body.\n\n" +
		"#### Detail\n\nSecond body.\n\n" +
		"### section headline\n\nx := 1\n\n"
	assert.Equal(t, want, got)
}

func TestMarkdownRenderKinds(t *testing.T) {
	s := []domain.Section{
		{HeadingText: "Q", Level: 2, Body: "one\ntwo", Kind: domain.KindQuote},
		{HeadingText: "B", Level: 2, Body: "code", Kind: domain.KindBox},
	}
	got := Markdown("", s, Options{RenderKinds: true})
	assert.Equal(t, "### Q\n\n> one\n> two\n\n### B\n\n```\ncode\n```\n\n", got)
}

func TestMarkdownOutlineMatchesSections(t *testing.T) {
	md := Markdown("Doc", sampleSections(), Options{RenderKinds: true})
	got := Outline([]byte(md))
	want := []Heading{
		{Level: 1, Text: "Doc"},
		{Level: 2, Text: "Intro"},
		{Level: 4, Text: "Detail"},
		{Level: 3, Text: "section headline"},
	}
	assert.Equal(t, want, got)
}

func TestOutlineNestedInline(t *testing.T) {
	got := Outline([]byte("## Use *the* `tool`\n\ntext\n"))
	require.Len(t, got, 1)
	assert.Equal(t, Heading{Level: 2, Text: "Use the tool"}, got[0])
}
