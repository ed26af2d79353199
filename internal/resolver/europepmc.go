// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"net/url"
	"strings"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// europePMCSearchBase is the Europe PMC REST search endpoint. Declared as a
// var so tests can substitute an httptest server.
var europePMCSearchBase = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

// EuropePMC is the last-resort provider, queried by PMID.
type EuropePMC struct {
	Client *Client
}

// Name returns the provider identifier.
func (p *EuropePMC) Name() string { return "EuropePMC" }

// Applies reports whether a PMID was resolved for req.DOI.
func (p *EuropePMC) Applies(req Request) bool { return req.IDs.PMID != "" }

type europePMCResponse struct {
	ResultList struct {
		Result []europePMCResult `json:"result"`
	} `json:"resultList"`
}

type europePMCResult struct {
	Title        string `json:"title"`
	AuthorString string `json:"authorString"`
	AuthorList   struct {
		Author []europePMCAuthor `json:"author"`
	} `json:"authorList"`
	JournalInfo struct {
		Journal struct {
			Title string `json:"title"`
		} `json:"journal"`
	} `json:"journalInfo"`
	PubYear flexString `json:"pubYear"`
	PMID    flexString `json:"pmid"`
	PMCID   string     `json:"pmcid"`
}

type europePMCAuthor struct {
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TryResolve runs a MEDLINE search for req.IDs.PMID.
func (p *EuropePMC) TryResolve(ctx context.Context, req Request) Result {
	params := url.Values{
		"query":      {"ext_id:" + req.IDs.PMID + " src:med"},
		"format":     {"json"},
		"resultType": {"core"},
	}

	var resp europePMCResponse
	if err := p.Client.getJSON(ctx, p.Name(), europePMCSearchBase+"?"+params.Encode(), &resp); err != nil {
		return fromError(err)
	}
	if len(resp.ResultList.Result) == 0 {
		return NotFound("no results for PMID " + req.IDs.PMID)
	}

	item := resp.ResultList.Result[0]
	title := collapse(item.Title)
	if title == "" {
		return NotFound("Europe PMC result has no title")
	}

	var authors []string
	for _, a := range item.AuthorList.Author {
		name := strings.TrimSpace(a.LastName + " " + a.FirstName)
		if name == "" {
			name = strings.TrimSpace(a.FullName)
		}
		if name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		authors = splitAuthors(item.AuthorString, ",")
	}

	return Found(types.Metadata{
		Title:   title,
		Authors: authors,
		Journal: strings.TrimSpace(item.JournalInfo.Journal.Title),
		Year:    string(item.PubYear),
		PMID:    string(item.PMID),
		PMCID:   item.PMCID,
		DOI:     req.DOI,
	})
}
