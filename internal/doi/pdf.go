// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doi

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pdfSearchPages is how many leading pages are scanned for a DOI.
const pdfSearchPages = 3

// FromPDF returns the first DOI printed on the opening pages of a PDF.
// It returns ErrNoDOIFound when the text layer has none.
func FromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > pdfSearchPages {
		pages = pdfSearchPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if d, err := Extract(text); err == nil {
			return d, nil
		}
	}
	return "", ErrNoDOIFound
}
