/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"log/slog"

	"docgen/internal/domain"
	applog "docgen/internal/log"
	"docgen/internal/storage"
)

// Render produces the bytes of doc in format f.
func Render(f Format, doc domain.Document, opt PDFOptions) ([]byte, error) {
	switch f {
	case FormatAsciiDoc:
		return []byte(AsciiDoc(doc.Title, doc.Sections, opt.Options)), nil
	case FormatMarkdown:
		return []byte(Markdown(doc.Title, doc.Sections, opt.Options)), nil
	case FormatPDF:
		var buf bytes.Buffer
		if err := PDF(&buf, doc.Title, doc.Sections, opt); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", f)
	}
}

// WriteFile renders doc and replaces outPath atomically.
func WriteFile(outPath string, f Format, doc domain.Document, opt PDFOptions) error {
	l := applog.WithOperation(applog.WithComponent("export"), "write").With(
		slog.String("format", string(f)), slog.String("out", outPath))
	data, err := Render(f, doc, opt)
	if err != nil {
		l.Error("render failed", slog.Any("err", err))
		return err
	}
	if err := storage.WriteFileAtomic(outPath, data); err != nil {
		l.Error("write failed", slog.Any("err", err))
		return fmt.Errorf("export %s: %w", f, err)
	}
	l.Info("exported", slog.Int("sections", len(doc.Sections)), slog.Int("bytes", len(data)))
	return nil
}
