/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package docset

import (
	"reflect"
	"testing"

	"docgen/internal/domain"
)

func TestMarshalFormat(t *testing.T) {
	doc := domain.Document{
		Title: "Guide",
		Sections: []domain.Section{
			{Header: "a.txt", HeadingText: "Intro", Level: 1, Body: "Hello"},
		},
	}
	want := "[DOCUMENT_TITLE:Guide]\n[SECTION:a.txt]\n[HEADLINE:Intro]\n[LEVEL:1]\nHello\n[END_SECTION]\n\n"
	if got := string(Marshal(doc)); got != want {
		t.Fatalf("Marshal:\n got %q\nwant %q", got, want)
	}
}

func TestMarshalOmitsDefaultTitle(t *testing.T) {
	for _, title := range []string{"", domain.DefaultTitle} {
		got := string(Marshal(domain.Document{Title: title}))
		if got != "" {
			t.Fatalf("title %q: expected empty output, got %q", title, got)
		}
	}
}

func TestMarshalNormalizesInvalidLevel(t *testing.T) {
	got := string(Marshal(domain.Document{Sections: []domain.Section{{Header: "a", Level: 9}}}))
	if got != "[SECTION:a]\n[HEADLINE:]\n[LEVEL:2]\n\n[END_SECTION]\n\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	sections := []domain.Section{
		{Header: "intro.txt", HeadingText: "Introduction", Level: 1, Body: "Line 1\nLine 2"},
		{Header: "empty.txt", HeadingText: "", Level: 2, Body: ""},
		{Header: "trailing.txt", HeadingText: "T", Level: 3, Body: "ends with newline\n"},
		{Header: "blank-lines.txt", HeadingText: "B", Level: 2, Body: "\n\nmiddle\n\n"},
		{Header: "ünïcødé.md", HeadingText: "Grüße ✓", Level: 3, Body: "# not a heading here\n> quoted"},
		{Header: "", HeadingText: "no header", Level: 1, Body: "x"},
		{Header: "crlf.txt", HeadingText: "C", Level: 2, Body: "line one\r\nline two\r\n"},
		{Header: "cr.txt", HeadingText: "", Level: 2, Body: "a\r"},
		{Header: "directive.txt", HeadingText: "D", Level: 1, Body: "[LEVEL:3]\n[HEADLINE:x]\nreal body"},
	}
	doc := domain.Document{Title: "Round Trip", Sections: sections}
	got, warns := Parse(string(Marshal(doc)))
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if got.Title != doc.Title {
		t.Fatalf("title = %q", got.Title)
	}
	if !reflect.DeepEqual(got.Sections, sections) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got.Sections, sections)
	}
}

func TestRoundTripEmptyDocument(t *testing.T) {
	got, warns := Parse(string(Marshal(domain.Document{})))
	if len(warns) != 0 || len(got.Sections) != 0 {
		t.Fatalf("unexpected: %+v %v", got, warns)
	}
}
