/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package docset reads and writes the line-oriented set file format:
//
//	[DOCUMENT_TITLE:<title>]      optional
//	[SECTION:<header>]
//	[HEADLINE:<heading text>]
//	[LEVEL:<1..3>]
//	<body lines>
//	[END_SECTION]
//	<blank line>
//
// Values are the text between the first ':' and the first ']' of the line and
// are not escaped. Parsing is lenient: malformed input is reported as warnings,
// never as an error.
package docset

import "fmt"

const (
	tagTitle    = "[DOCUMENT_TITLE:"
	tagSection  = "[SECTION:"
	tagHeadline = "[HEADLINE:"
	tagLevel    = "[LEVEL:"
	tagEnd      = "[END_SECTION]"
)

// Warning describes input that was skipped or defaulted while parsing.
type Warning struct {
	Line    int // 1-based
	Message string
}

func (w Warning) String() string { return fmt.Sprintf("line %d: %s", w.Line, w.Message) }
