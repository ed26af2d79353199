// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"strings"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so tests
// can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works/"

// cshlPublisher is the publisher CrossRef reports for both bioRxiv and
// medRxiv deposits.
const cshlPublisher = "Cold Spring Harbor Laboratory"

// CrossRef is the primary provider; it covers most DOI-minted content.
type CrossRef struct {
	Client *Client
}

// Name returns the provider identifier.
func (p *CrossRef) Name() string { return "CrossRef" }

// Applies is always true: every DOI is first tried against CrossRef.
func (p *CrossRef) Applies(Request) bool { return true }

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Title           []string              `json:"title"`
	Author          []crossrefAuthor      `json:"author"`
	ContainerTitle  []string              `json:"container-title"`
	Institution     []crossrefInstitution `json:"institution"`
	Publisher       string                `json:"publisher"`
	PublishedPrint  crossrefDate          `json:"published-print"`
	PublishedOnline crossrefDate          `json:"published-online"`
	Created         crossrefDate          `json:"created"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefInstitution struct {
	Name string `json:"name"`
}

// crossrefDate holds date-parts such as [[2021, 3, 4]]. CrossRef emits
// [[null]] for unknown dates, hence flexString.
type crossrefDate struct {
	DateParts [][]flexString `json:"date-parts"`
}

func (d crossrefDate) year() string {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return ""
	}
	return string(d.DateParts[0][0])
}

// TryResolve fetches the CrossRef work record for req.DOI.
func (p *CrossRef) TryResolve(ctx context.Context, req Request) Result {
	var cr crossrefResponse
	if err := p.Client.getJSON(ctx, p.Name(), crossrefAPIBase+req.DOI, &cr); err != nil {
		return fromError(err)
	}
	w := cr.Message

	title := ""
	if len(w.Title) > 0 {
		title = collapse(w.Title[0])
	}
	if title == "" {
		return NotFound("record found but title is missing")
	}

	var authors []string
	for _, a := range w.Author {
		name := strings.TrimSpace(a.Family + " " + a.Given)
		if name != "" {
			authors = append(authors, name)
		}
	}

	journal := crossrefJournal(w)

	// CSHL hosts both preprint servers; without a server name the record
	// cannot say which one, so defer to the preprint APIs.
	if strings.HasPrefix(req.DOI, doi.CSHLPrefix) && (journal == "" || journal == cshlPublisher) {
		return NotFound("CSHL record does not name bioRxiv or medRxiv")
	}

	year := w.PublishedPrint.year()
	if year == "" {
		year = w.PublishedOnline.year()
	}
	if year == "" {
		year = w.Created.year()
	}

	return Found(types.Metadata{
		Title:   title,
		Authors: authors,
		Journal: journal,
		Year:    year,
		DOI:     req.DOI,
	})
}

// crossrefJournal picks the container title, then a preprint server named in
// the institution list, then the publisher.
func crossrefJournal(w crossrefWork) string {
	if len(w.ContainerTitle) > 0 && strings.TrimSpace(w.ContainerTitle[0]) != "" {
		return strings.TrimSpace(w.ContainerTitle[0])
	}
	for _, inst := range w.Institution {
		name := strings.ToLower(inst.Name)
		switch {
		case strings.Contains(name, "biorxiv"):
			return "BioRxiv (Preprint)"
		case strings.Contains(name, "medrxiv"):
			return "MedRxiv (Preprint)"
		}
	}
	return strings.TrimSpace(w.Publisher)
}
