/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the data model shared by the order model, the set file
// codec, the exporters and the manager.

import (
	"fmt"
	"strings"
)

const (
	DefaultLevel        Level = 2
	DefaultTitle              = "Default title"
	HeadlinePlaceholder       = "section headline"
	MainHeader                = "Main Section"
	SetExtension              = ".docgenset"
)

// BlockID identifies a block within one manager session.
// IDs restart at 1 after the manager is cleared.
type BlockID int

// Level is the export heading level of a block. Only 1, 2 and 3 are valid.
type Level int

// Valid reports whether l is one of the supported heading levels.
func (l Level) Valid() bool { return l >= 1 && l <= 3 }

// Roman returns the strip indicator label (I, II, III); "?" for invalid levels.
func (l Level) Roman() string {
	switch l {
	case 1:
		return "I"
	case 2:
		return "II"
	case 3:
		return "III"
	default:
		return "?"
	}
}

// Kind is the presentation flavour of a block.
type Kind int

const (
	KindPlain Kind = iota
	KindQuote
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindQuote:
		return "quote"
	case KindBox:
		return "box"
	default:
		return "plain"
	}
}

// Symbol is the short strip indicator for the kind.
func (k Kind) Symbol() string {
	switch k {
	case KindQuote:
		return "”"
	case KindBox:
		return "□"
	default:
		return "¶"
	}
}

// ParseKind accepts plain|text|quote|box, case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "text":
		return KindPlain, nil
	case "quote":
		return KindQuote, nil
	case "box":
		return KindBox, nil
	}
	return KindPlain, fmt.Errorf("unknown block kind %q", s)
}

// Block is a single content unit of a document.
// Position is derived from the canonical order whenever a block is handed out.
type Block struct {
	ID           BlockID `json:"id"`
	Header       string  `json:"header"`
	Body         string  `json:"body"`
	HeadingText  string  `json:"headingText"`
	HeadingLevel Level   `json:"headingLevel"`
	Kind         Kind    `json:"kind"`
	Position     int     `json:"position"`
}

// NewBlock returns a block with default heading level and kind.
func NewBlock(id BlockID, header, body string) Block {
	return Block{ID: id, Header: header, Body: body, HeadingLevel: DefaultLevel, Kind: KindPlain, Position: -1}
}

// Section returns the persisted/exported view of the block.
func (b Block) Section() Section {
	return Section{Header: b.Header, HeadingText: b.HeadingText, Level: b.HeadingLevel, Body: b.Body, Kind: b.Kind}
}

// Section is the record a set file stores per block and the exporters consume.
// Kind is carried for exporters only; set files do not store it.
type Section struct {
	Header      string `json:"header"`
	HeadingText string `json:"headingText"`
	Level       Level  `json:"level"`
	Body        string `json:"body"`
	Kind        Kind   `json:"kind"`
}

// Heading returns the export heading, substituting the placeholder for empty text.
func (s Section) Heading() string {
	if s.HeadingText == "" {
		return HeadlinePlaceholder
	}
	return s.HeadingText
}

// Document is an ordered list of sections with an optional title.
type Document struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// PersistedTitle returns the title to write into a set file, or "" when the
// title is empty or still the default placeholder.
func (d Document) PersistedTitle() string {
	if d.Title == "" || d.Title == DefaultTitle {
		return ""
	}
	return d.Title
}
