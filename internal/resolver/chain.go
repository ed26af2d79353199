// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolver turns a raw identifier into a standardized publication
// record by trying a fixed, ordered list of metadata providers.
//
// Order: CrossRef, Zenodo, arXiv, bioRxiv, medRxiv, Europe PMC. Providers
// that do not apply to a DOI are skipped; the first structurally valid
// record wins. A PMID/PMCID cross-reference lookup precedes the providers
// and backfills the winning record.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"

	gocache "github.com/patrickmn/go-cache"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// ErrAllProvidersExhausted is returned when no provider produced a record.
var ErrAllProvidersExhausted = errors.New("no provider returned metadata")

// Chain resolves DOIs against an ordered provider list.
type Chain struct {
	// IDs resolves PubMed identifiers before the providers run. Optional.
	IDs IDLookup

	// Providers are tried in order.
	Providers []Provider

	// Log receives progress lines. Nil discards them.
	Log io.Writer
}

// Resolution is a resolved record together with the provider that supplied it.
type Resolution struct {
	Metadata types.Metadata
	Provider string
}

// NewChain returns the standard chain over client, logging to w.
func NewChain(client *Client, w io.Writer) *Chain {
	return &Chain{
		IDs: &IDConverter{Client: client},
		Providers: []Provider{
			&CrossRef{Client: client},
			&Zenodo{Client: client},
			&Arxiv{Client: client},
			&Preprint{Client: client, Server: ServerBiorxiv},
			&Preprint{Client: client, Server: ServerMedrxiv},
			&EuropePMC{Client: client},
		},
		Log: w,
	}
}

func (c *Chain) logf(format string, args ...any) {
	if c.Log == nil {
		return
	}
	fmt.Fprintf(c.Log, format, args...)
}

// Resolve extracts a DOI from raw and returns its metadata. It fails with
// doi.ErrNoDOIFound before any network call when raw has no DOI, and with
// ErrAllProvidersExhausted when every provider comes back empty.
func (c *Chain) Resolve(ctx context.Context, raw string) (types.Metadata, error) {
	res, err := c.Lookup(ctx, raw)
	if err != nil {
		return types.Metadata{}, err
	}
	return res.Metadata, nil
}

// Lookup is Resolve that also reports which provider answered.
func (c *Chain) Lookup(ctx context.Context, raw string) (Resolution, error) {
	d, err := doi.Extract(raw)
	if err != nil {
		return Resolution{}, fmt.Errorf("extracting DOI from %q: %w", raw, err)
	}
	return c.ResolveDOI(ctx, d)
}

// ResolveDOI runs the provider chain for an already-normalized DOI.
func (c *Chain) ResolveDOI(ctx context.Context, d string) (Resolution, error) {
	req := Request{DOI: d, Hint: doi.Classify(d)}
	c.logf("Cleaned DOI: %s (%s)\n", d, req.Hint)

	if c.IDs != nil {
		ids, err := c.IDs.LookupIDs(ctx, d)
		if err != nil {
			c.logf("warning: PMC ID conversion failed for %s: %v\n", d, err)
		} else if ids.Empty() {
			c.logf("  No PubMed IDs for %s\n", d)
		} else {
			req.IDs = ids
			if ids.PMID != "" {
				c.logf("  Found PMID: %s\n", ids.PMID)
			}
			if ids.PMCID != "" {
				c.logf("  Found PMCID: %s\n", ids.PMCID)
			}
		}
	}

	for _, p := range c.Providers {
		if !p.Applies(req) {
			continue
		}
		c.logf("Checking %s...\n", p.Name())

		res := p.TryResolve(ctx, req)
		switch res.Outcome {
		case OutcomeFound:
			m := res.Metadata
			m.DOI = d
			if !m.Valid() {
				c.logf("  [%s] record is missing a title, continuing\n", p.Name())
				continue
			}
			if m.PMID == "" {
				m.PMID = req.IDs.PMID
			}
			if m.PMCID == "" {
				m.PMCID = req.IDs.PMCID
			}
			return Resolution{Metadata: m, Provider: p.Name()}, nil
		case OutcomeTransient:
			c.logf("  [%s] warning: %v\n", p.Name(), res.Err)
		default:
			if res.Err != nil {
				c.logf("  [%s] not found: %v\n", p.Name(), res.Err)
			} else {
				c.logf("  [%s] not found\n", p.Name())
			}
		}
	}

	return Resolution{}, fmt.Errorf("resolving %s: %w", d, ErrAllProvidersExhausted)
}

// BatchItem is the outcome for one input of a batch.
type BatchItem struct {
	Input      string
	Resolution Resolution
	Err        error
	// Cached is true when the DOI already appeared earlier in the batch.
	Cached bool
}

// BatchResult holds the outcome of a batch resolution run.
type BatchResult struct {
	Resolved int
	Failed   int
	Items    []BatchItem
}

// Total returns the number of inputs processed.
func (r BatchResult) Total() int {
	return r.Resolved + r.Failed
}

// HasFailures reports whether any input failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

type cachedResolution struct {
	res Resolution
	err error
}

// ResolveBatch resolves each input in turn, continuing after failures. A DOI
// that appears more than once is only queried the first time.
func (c *Chain) ResolveBatch(ctx context.Context, inputs []string) BatchResult {
	seen := gocache.New(gocache.NoExpiration, 0)

	var result BatchResult
	for _, raw := range inputs {
		item := BatchItem{Input: raw}

		d, err := doi.Extract(raw)
		if err != nil {
			item.Err = fmt.Errorf("extracting DOI from %q: %w", raw, err)
		} else if v, ok := seen.Get(d); ok {
			cr := v.(cachedResolution)
			item.Resolution, item.Err, item.Cached = cr.res, cr.err, true
			c.logf("Cleaned DOI: %s (already resolved in this batch)\n", d)
		} else {
			item.Resolution, item.Err = c.ResolveDOI(ctx, d)
			seen.Set(d, cachedResolution{res: item.Resolution, err: item.Err}, gocache.NoExpiration)
		}

		if item.Err != nil {
			c.logf("failed:  %s (%v)\n", raw, item.Err)
			result.Failed++
		} else {
			result.Resolved++
		}
		result.Items = append(result.Items, item)
	}

	c.logf("\nBatch summary: %d resolved, %d failed (total: %d)\n",
		result.Resolved, result.Failed, result.Total())
	return result
}
