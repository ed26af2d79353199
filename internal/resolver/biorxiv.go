// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// biorxivAPIBase is the bioRxiv/medRxiv API root. Declared as a var so tests
// can substitute an httptest server.
var biorxivAPIBase = "https://api.biorxiv.org"

// Preprint servers reachable through the bioRxiv API.
const (
	ServerBiorxiv = "biorxiv"
	ServerMedrxiv = "medrxiv"
)

// Preprint resolves CSHL DOIs against one preprint server.
type Preprint struct {
	Client *Client
	// Server is ServerBiorxiv or ServerMedrxiv.
	Server string
}

// Name returns the provider identifier.
func (p *Preprint) Name() string {
	if p.Server == ServerMedrxiv {
		return "MedRxiv"
	}
	return "BioRxiv"
}

// Applies reports whether req.DOI was minted by Cold Spring Harbor.
func (p *Preprint) Applies(req Request) bool { return req.Hint == doi.HintCSHL }

type preprintResponse struct {
	Messages   []preprintMessage `json:"messages"`
	Collection []preprintItem    `json:"collection"`
}

type preprintMessage struct {
	Status string `json:"status"`
}

type preprintItem struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Date    string `json:"date"`
	Version string `json:"version"`
	Server  string `json:"server"`
}

// TryResolve fetches the version history for req.DOI and uses the latest.
func (p *Preprint) TryResolve(ctx context.Context, req Request) Result {
	apiURL := fmt.Sprintf("%s/details/%s/%s", biorxivAPIBase, p.Server, req.DOI)

	var resp preprintResponse
	if err := p.Client.getJSON(ctx, p.Name(), apiURL, &resp); err != nil {
		return fromError(err)
	}

	status := ""
	if len(resp.Messages) > 0 {
		status = resp.Messages[0].Status
	}
	if status != "ok" {
		return NotFound(fmt.Sprintf("not on %s (status %q)", p.Server, status))
	}
	if len(resp.Collection) == 0 {
		return NotFound("status ok but empty collection")
	}

	item := resp.Collection[len(resp.Collection)-1]
	// The API can answer for a sibling server; only accept our own.
	if item.Server != "" && !strings.EqualFold(item.Server, p.Server) {
		return NotFound(fmt.Sprintf("record belongs to %s", item.Server))
	}

	title := collapse(item.Title)
	if title == "" {
		return NotFound("preprint record has no title")
	}

	return Found(types.Metadata{
		Title:   title,
		Authors: splitAuthors(item.Authors, ";"),
		Journal: p.Name() + " (Preprint)",
		Year:    yearOf(item.Date),
		DOI:     req.DOI,
	})
}

// splitAuthors splits a delimited author string, dropping empty names.
func splitAuthors(s, sep string) []string {
	var authors []string
	for _, a := range strings.Split(s, sep) {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}
