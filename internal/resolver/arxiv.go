// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv resolves arXiv-minted DOIs (10.48550/arXiv.<id>).
type Arxiv struct {
	Client *Client
}

// Name returns the provider identifier.
func (p *Arxiv) Name() string { return "arXiv" }

// Applies reports whether req.DOI carries an arXiv identifier.
func (p *Arxiv) Applies(req Request) bool {
	return req.Hint == doi.HintArxiv && doi.ArxivID(req.DOI) != ""
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// TryResolve queries the arXiv API by ID.
func (p *Arxiv) TryResolve(ctx context.Context, req Request) Result {
	id := doi.ArxivID(req.DOI)
	params := url.Values{
		"id_list":     {id},
		"start":       {"0"},
		"max_results": {"1"},
	}

	body, err := p.Client.get(ctx, p.Name(), arxivAPIBase+"?"+params.Encode(), "application/atom+xml")
	if err != nil {
		return fromError(err)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&feed); err != nil {
		return Transient(fmt.Errorf("parsing arXiv response: %w", err))
	}
	if len(feed.Entries) == 0 {
		return NotFound("no entry for arXiv ID " + id)
	}

	entry := feed.Entries[0]
	// The API reports a bad ID as an entry whose id points at its error page.
	if strings.Contains(entry.ID, "Error") || strings.Contains(entry.ID, "/api/errors") {
		return NotFound("arXiv API error: " + collapse(entry.Summary))
	}

	title := collapse(entry.Title)
	if title == "" {
		return NotFound("arXiv entry has no title")
	}

	var authors []string
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	year := ""
	if published := strings.TrimSpace(entry.Published); len(published) >= 4 {
		year = published[:4]
	}

	return Found(types.Metadata{
		Title:   title,
		Authors: authors,
		Journal: "arXiv (Preprint)",
		Year:    year,
		DOI:     req.DOI,
	})
}
