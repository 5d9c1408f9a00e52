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

	"docgen/internal/domain"
)

// Encode writes doc in set file format. The title line is only written when
// the title differs from the default placeholder. Kind is not stored.
func Encode(w io.Writer, doc domain.Document) error {
	bw := bufio.NewWriter(w)
	if t := doc.PersistedTitle(); t != "" {
		bw.WriteString(tagTitle + t + "]\n")
	}
	for _, s := range doc.Sections {
		lvl := s.Level
		if !lvl.Valid() {
			lvl = domain.DefaultLevel
		}
		bw.WriteString(tagSection + s.Header + "]\n")
		bw.WriteString(tagHeadline + s.HeadingText + "]\n")
		bw.WriteString(tagLevel + strconv.Itoa(int(lvl)) + "]\n")
		bw.WriteString(s.Body)
		bw.WriteString("\n" + tagEnd + "\n\n")
	}
	return bw.Flush()
}

// Marshal returns the set file bytes for doc.
func Marshal(doc domain.Document) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, doc)
	return buf.Bytes()
}
