// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"net/url"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// idConverterBase is the NCBI PMC ID Converter endpoint. Declared as a var
// so tests can substitute an httptest server.
var idConverterBase = "https://www.ncbi.nlm.nih.gov/pmc/utils/idconv/v1.0/"

// IDConverter translates a DOI to PMID and PMCID through NCBI.
type IDConverter struct {
	Client *Client
}

type idConvResponse struct {
	Status  string         `json:"status"`
	Records []idConvRecord `json:"records"`
}

type idConvRecord struct {
	PMID  flexString `json:"pmid"`
	PMCID flexString `json:"pmcid"`
	DOI   string     `json:"doi"`
}

// LookupIDs returns the PubMed identifiers registered for doi. A DOI that
// NCBI does not know yields empty IDs and no error.
func (p *IDConverter) LookupIDs(ctx context.Context, doi string) (types.IDs, error) {
	params := url.Values{
		"tool":   {p.Client.tool},
		"ids":    {doi},
		"format": {"json"},
	}
	if p.Client.email != "" {
		params.Set("email", p.Client.email)
	}

	var resp idConvResponse
	if err := p.Client.getJSON(ctx, "PMC ID Converter", idConverterBase+"?"+params.Encode(), &resp); err != nil {
		return types.IDs{}, err
	}
	if len(resp.Records) == 0 {
		return types.IDs{}, nil
	}

	// One ID was sent, so only the first record matters.
	rec := resp.Records[0]
	return types.IDs{PMID: string(rec.PMID), PMCID: string(rec.PMCID)}, nil
}
