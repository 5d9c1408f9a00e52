/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package docset

import (
	"errors"
	"strings"
	"testing"

	"docgen/internal/domain"
)

func TestParseBasic(t *testing.T) {
	in := strings.Join([]string{
		"[DOCUMENT_TITLE:User Guide]",
		"[SECTION:intro.txt]",
		"[HEADLINE:Introduction]",
		"[LEVEL:1]",
		"Hello",
		"World",
		"[END_SECTION]",
		"",
		"[SECTION:detail.txt]",
		"[HEADLINE:]",
		"[LEVEL:3]",
		"Body",
		"[END_SECTION]",
		"",
	}, "\n")
	doc, warns := Parse(in)
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if doc.Title != "User Guide" {
		t.Fatalf("title = %q", doc.Title)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	s0 := doc.Sections[0]
	if s0.Header != "intro.txt" || s0.HeadingText != "Introduction" || s0.Level != 1 || s0.Body != "Hello\nWorld" {
		t.Fatalf("section 0 = %+v", s0)
	}
	s1 := doc.Sections[1]
	if s1.Header != "detail.txt" || s1.HeadingText != "" || s1.Level != 3 || s1.Body != "Body" {
		t.Fatalf("section 1 = %+v", s1)
	}
}

func TestParseDropsUnterminatedTrailingSection(t *testing.T) {
	in := "[SECTION:a]\n[HEADLINE:A]\n[LEVEL:2]\nbody\n[END_SECTION]\n\n[SECTION:b]\n[LEVEL:2]\npartial\n"
	doc, warns := Parse(in)
	if len(doc.Sections) != 1 || doc.Sections[0].Header != "a" {
		t.Fatalf("expected only section a, got %+v", doc.Sections)
	}
	if len(warns) != 1 || !strings.Contains(warns[0].Message, "no [END_SECTION]") {
		t.Fatalf("expected one unterminated warning, got %v", warns)
	}
}

func TestParseInvalidLevelKeepsDefault(t *testing.T) {
	for _, lvl := range []string{"7", "0", "x", ""} {
		doc, warns := Parse("[SECTION:a]\n[LEVEL:" + lvl + "]\nb\n[END_SECTION]\n")
		if len(doc.Sections) != 1 || doc.Sections[0].Level != domain.DefaultLevel {
			t.Fatalf("level %q: got %+v", lvl, doc.Sections)
		}
		if len(warns) != 1 {
			t.Fatalf("level %q: expected a warning, got %v", lvl, warns)
		}
	}
}

func TestParseValueRules(t *testing.T) {
	cases := map[string]string{
		"[SECTION:a]":          "a",
		"[SECTION:a]b]":        "a",
		"[SECTION:x:y]":        "x:y",
		"[SECTION:no bracket":  "no bracket",
		"[SECTION:]":           "",
		"[SECTION:ünïcødé ✓]": "ünïcødé ✓",
	}
	for line, want := range cases {
		if got := value(line); got != want {
			t.Fatalf("value(%q) = %q, want %q", line, got, want)
		}
	}
}

func TestParseUnknownLinesBecomeBody(t *testing.T) {
	in := "[SECTION:a]\n[HEADLINE:h]\n[LEVEL:2]\n[NOTE:keep me]\nline [LEVEL:1] inline\n[LEVEL:3]\n[END_SECTION]\n"
	doc, _ := Parse(in)
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	s := doc.Sections[0]
	if s.Level != 2 {
		t.Fatalf("level directives inside the body must not apply, got %d", s.Level)
	}
	if s.Body != "[NOTE:keep me]\nline [LEVEL:1] inline\n[LEVEL:3]" {
		t.Fatalf("body = %q", s.Body)
	}
}

func TestParseIgnoresTopLevelNoise(t *testing.T) {
	doc, warns := Parse("garbage\n[UNKNOWN:1]\n\n[SECTION:a]\nx\n[END_SECTION]\n")
	if len(doc.Sections) != 1 || doc.Sections[0].Body != "x" {
		t.Fatalf("unexpected sections: %+v", doc.Sections)
	}
	if len(warns) != 2 {
		t.Fatalf("expected 2 warnings for ignored lines, got %v", warns)
	}
}

func TestParseRestartedSectionDropsOpenOne(t *testing.T) {
	doc, warns := Parse("[SECTION:a]\nx\n[SECTION:b]\ny\n[END_SECTION]\n")
	if len(doc.Sections) != 1 || doc.Sections[0].Header != "b" || doc.Sections[0].Body != "y" {
		t.Fatalf("unexpected sections: %+v", doc.Sections)
	}
	if len(warns) != 1 || warns[0].Line != 3 {
		t.Fatalf("expected warning at line 3, got %v", warns)
	}
}

func TestParseCRLF(t *testing.T) {
	in := "[DOCUMENT_TITLE:T]\r\n[SECTION:a]\r\n[HEADLINE:h]\r\n[LEVEL:1]\r\nbody\r\n[END_SECTION]\r\n"
	doc, warns := Parse(in)
	if len(warns) != 0 || len(doc.Sections) != 1 {
		t.Fatalf("unexpected result: %+v %v", doc, warns)
	}
	if doc.Title != "T" || doc.Sections[0].HeadingText != "h" || doc.Sections[0].Level != 1 {
		t.Fatalf("unexpected section: %+v", doc)
	}
	if doc.Sections[0].Body != "body\r" {
		t.Fatalf("body carriage return lost: %q", doc.Sections[0].Body)
	}
}

func TestParseBodyStartsAfterLevel(t *testing.T) {
	in := "[SECTION:a]\n[HEADLINE:h]\n[LEVEL:1]\n[LEVEL:3]\n[HEADLINE:not this]\nreal body\n[END_SECTION]\n"
	doc, warns := Parse(in)
	if len(warns) != 0 || len(doc.Sections) != 1 {
		t.Fatalf("unexpected result: %+v %v", doc, warns)
	}
	s := doc.Sections[0]
	if s.Level != 1 || s.HeadingText != "h" {
		t.Fatalf("directives after [LEVEL:] must stay body: %+v", s)
	}
	if s.Body != "[LEVEL:3]\n[HEADLINE:not this]\nreal body" {
		t.Fatalf("body = %q", s.Body)
	}
}

func TestScanLFKeepsCarriageReturn(t *testing.T) {
	adv, tok, err := scanLF([]byte("a\r\nb"), false)
	if err != nil || adv != 3 || string(tok) != "a\r" {
		t.Fatalf("got %d %q %v", adv, tok, err)
	}
	adv, tok, _ = scanLF([]byte("b"), false)
	if adv != 0 || tok != nil {
		t.Fatalf("partial line must wait for more data, got %d %q", adv, tok)
	}
	adv, tok, _ = scanLF([]byte("b\r"), true)
	if adv != 2 || string(tok) != "b\r" {
		t.Fatalf("final line = %d %q", adv, tok)
	}
}

func TestParseEmpty(t *testing.T) {
	doc, warns := Parse("")
	if len(doc.Sections) != 0 || len(warns) != 0 || doc.Title != "" {
		t.Fatalf("unexpected: %+v %v", doc, warns)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestDecodeReturnsReadErrors(t *testing.T) {
	if _, _, err := Decode(failingReader{}); err == nil {
		t.Fatalf("expected read error")
	}
}
