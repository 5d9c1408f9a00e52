/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"docgen/internal/domain"
	"docgen/internal/version"
)

// PDFOptions controls PDF export. Units are points; zero values fall back to
// A4 with 56pt margins. Built-in Helvetica keeps text vector without embedding.
type PDFOptions struct {
	PageWidth   float64
	PageHeight  float64
	Margin      float64
	Author      string
	PageNumbers bool
	Options
}

var pdfHeadingSize = map[domain.Level]float64{1: 16, 2: 14, 3: 12}

const (
	pdfTitleSize = 20
	pdfBodySize  = 11
	pdfLeading   = 1.35
)

// PDF writes title and sections as a flowing A4 document to w.
func PDF(w io.Writer, title string, sections []domain.Section, opt PDFOptions) error {
	pw, ph, margin := opt.PageWidth, opt.PageHeight, opt.Margin
	if pw <= 0 || ph <= 0 {
		pw, ph = 595, 842
	}
	if margin <= 0 {
		margin = 56
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	if opt.Author != "" {
		pdf.SetAuthor(opt.Author, true)
	}
	pdf.SetCreator("docgen "+version.String(), true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	if opt.PageNumbers {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-margin / 2)
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
		})
	}
	pdf.AddPage()
	width := pw - 2*margin

	if title != "" {
		pdf.SetFont("Helvetica", "B", pdfTitleSize)
		pdf.MultiCell(width, pdfTitleSize*pdfLeading, tr(title), "", "L", false)
		pdf.Ln(pdfTitleSize / 2)
	}
	for _, s := range sections {
		size, ok := pdfHeadingSize[s.Level]
		if !ok {
			size = pdfHeadingSize[domain.DefaultLevel]
		}
		pdf.SetFont("Helvetica", "B", size)
		pdf.MultiCell(width, size*pdfLeading, tr(s.Heading()), "", "L", false)
		pdf.Ln(size / 3)

		writePDFBody(pdf, tr, s, width, opt.RenderKinds)
		pdf.Ln(pdfBodySize)
	}
	if pdf.Err() {
		return fmt.Errorf("render pdf: %w", pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writePDFBody(pdf *gofpdf.Fpdf, tr func(string) string, s domain.Section, width float64, kinds bool) {
	if s.Body == "" {
		return
	}
	lh := pdfBodySize * pdfLeading
	switch {
	case kinds && s.Kind == domain.KindQuote:
		left, _, right, _ := pdf.GetMargins()
		pdf.SetLeftMargin(left + 18)
		pdf.SetX(left + 18)
		pdf.SetFont("Helvetica", "I", pdfBodySize)
		pdf.MultiCell(width-18, lh, tr(s.Body), "", "L", false)
		pdf.SetLeftMargin(left)
		pdf.SetRightMargin(right)
	case kinds && s.Kind == domain.KindBox:
		pdf.SetFont("Courier", "", pdfBodySize-1)
		pdf.MultiCell(width, lh, tr(s.Body), "1", "L", false)
	default:
		pdf.SetFont("Helvetica", "", pdfBodySize)
		pdf.MultiCell(width, lh, tr(s.Body), "", "L", false)
	}
}
