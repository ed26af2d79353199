// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// zenodoRecordsBase is the Zenodo records endpoint. Declared as a var so
// tests can substitute an httptest server.
var zenodoRecordsBase = "https://zenodo.org/api/records"

// Zenodo resolves Zenodo-minted DOIs (datasets, software).
type Zenodo struct {
	Client *Client
}

// Name returns the provider identifier.
func (p *Zenodo) Name() string { return "Zenodo" }

// Applies reports whether req.DOI is a Zenodo record DOI.
func (p *Zenodo) Applies(req Request) bool { return req.Hint == doi.HintZenodo }

type zenodoRecord struct {
	Metadata zenodoMetadata `json:"metadata"`
}

type zenodoMetadata struct {
	Title           string          `json:"title"`
	Creators        []zenodoCreator `json:"creators"`
	PublicationDate string          `json:"publication_date"`
}

type zenodoCreator struct {
	Name string `json:"name"`
}

type zenodoSearch struct {
	Hits struct {
		Hits []zenodoRecord `json:"hits"`
	} `json:"hits"`
}

// TryResolve looks the record up directly by ID, then falls back to a loose
// and a strict DOI search. The result is Transient only when no stage gave
// a clean answer.
func (p *Zenodo) TryResolve(ctx context.Context, req Request) Result {
	var lastErr error
	answered := false

	if id := doi.ZenodoRecordID(req.DOI); id != "" {
		var rec zenodoRecord
		err := p.Client.getJSON(ctx, p.Name(), zenodoRecordsBase+"/"+id, &rec)
		if err == nil {
			return p.parse(rec, req.DOI)
		}
		if fromError(err).Outcome == OutcomeTransient {
			lastErr = err
		} else {
			answered = true
		}
	}

	for _, q := range []string{req.DOI, fmt.Sprintf("doi:%q", req.DOI)} {
		var s zenodoSearch
		err := p.Client.getJSON(ctx, p.Name(), zenodoRecordsBase+"?"+url.Values{"q": {q}}.Encode(), &s)
		if err != nil {
			if fromError(err).Outcome == OutcomeTransient {
				lastErr = err
			} else {
				answered = true
			}
			continue
		}
		if len(s.Hits.Hits) > 0 {
			return p.parse(s.Hits.Hits[0], req.DOI)
		}
		answered = true
	}

	if lastErr != nil && !answered {
		return Transient(lastErr)
	}
	return NotFound("no Zenodo record for " + req.DOI)
}

func (p *Zenodo) parse(rec zenodoRecord, sourceDOI string) Result {
	m := rec.Metadata
	title := collapse(m.Title)
	if title == "" {
		return NotFound("Zenodo record has no title")
	}
	var authors []string
	for _, c := range m.Creators {
		if name := strings.TrimSpace(c.Name); name != "" {
			authors = append(authors, name)
		}
	}
	return Found(types.Metadata{
		Title:   title,
		Authors: authors,
		Journal: "Zenodo",
		Year:    yearOf(m.PublicationDate),
		DOI:     sourceDOI,
	})
}
