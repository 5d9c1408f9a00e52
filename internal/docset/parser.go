/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package docset

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"docgen/internal/domain"
)

type parseState int

const (
	stateIdle parseState = iota
	stateHeader
	stateBody
)

// maxLine bounds a single body line; set files are hand-sized documents.
const maxLine = 16 << 20

// Parse parses set file text. See Decode.
func Parse(input string) (domain.Document, []Warning) {
	doc, warns, _ := Decode(strings.NewReader(input))
	return doc, warns
}

// Decode scans r line by line. Sections are appended when their [END_SECTION]
// is seen; a section still open at end of input is dropped. Inside a section,
// [HEADLINE:] and [LEVEL:] are honoured up to and including the [LEVEL:] line,
// and any other line becomes body text verbatim, carriage returns included.
// Only read errors are returned.
func Decode(r io.Reader) (domain.Document, []Warning, error) {
	doc := domain.Document{Sections: []domain.Section{}}
	var warns []Warning

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	sc.Split(scanLF)

	state := stateIdle
	lineNo := 0
	sectionLine := 0
	var cur domain.Section
	var body strings.Builder

	warn := func(msg string) { warns = append(warns, Warning{Line: lineNo, Message: msg}) }

	openSection := func(header string) {
		cur = domain.Section{Header: header, Level: domain.DefaultLevel}
		body.Reset()
		sectionLine = lineNo
		state = stateHeader
	}
	closeSection := func() {
		cur.Body = strings.TrimSuffix(body.String(), "\n")
		doc.Sections = append(doc.Sections, cur)
		state = stateIdle
	}

	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		line := strings.TrimRight(raw, "\r")

		switch state {
		case stateIdle:
			switch {
			case strings.HasPrefix(line, tagTitle):
				doc.Title = value(line)
			case strings.HasPrefix(line, tagSection):
				openSection(value(line))
			case strings.TrimSpace(line) == "":
			default:
				warn("ignored line outside section")
			}
			continue
		case stateHeader:
			switch {
			case strings.HasPrefix(line, tagHeadline):
				cur.HeadingText = value(line)
				continue
			case strings.HasPrefix(line, tagLevel):
				v := strings.TrimSpace(value(line))
				n, err := strconv.Atoi(v)
				if err != nil || !domain.Level(n).Valid() {
					warn("invalid level " + strconv.Quote(v) + ", keeping default")
				} else {
					cur.Level = domain.Level(n)
				}
				// Encode writes [LEVEL:] last, so whatever follows is body.
				state = stateBody
				continue
			}
		}

		// header or body state from here on
		switch {
		case line == tagEnd:
			closeSection()
		case strings.HasPrefix(line, tagSection):
			warn("section opened at line " + strconv.Itoa(sectionLine) + " has no [END_SECTION]; dropped")
			openSection(value(line))
		default:
			state = stateBody
			body.WriteString(raw)
			body.WriteByte('\n')
		}
	}
	if state != stateIdle {
		warn("section opened at line " + strconv.Itoa(sectionLine) + " has no [END_SECTION]; dropped")
	}
	if err := sc.Err(); err != nil {
		return doc, warns, err
	}
	return doc, warns, nil
}

// scanLF is bufio.ScanLines without the carriage return stripping: lines
// break on '\n' only and keep a trailing '\r'.
func scanLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// value returns the text between the first ':' and the first ']' after it.
// Without a closing bracket the rest of the line is used.
func value(line string) string {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return ""
	}
	rest := line[i+1:]
	if j := strings.IndexByte(rest, ']'); j >= 0 {
		return rest[:j]
	}
	return rest
}
