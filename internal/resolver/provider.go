// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// Outcome is the kind of answer a provider gave.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeFound
	OutcomeTransient
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeTransient:
		return "transient error"
	default:
		return "not found"
	}
}

// Result is the outcome of querying one provider. Metadata is set only for
// OutcomeFound; Err explains a NotFound or Transient outcome.
type Result struct {
	Outcome  Outcome
	Metadata types.Metadata
	Err      error
}

// Found wraps a successful lookup.
func Found(m types.Metadata) Result {
	return Result{Outcome: OutcomeFound, Metadata: m}
}

// NotFound reports that the provider has no usable record.
func NotFound(reason string) Result {
	return Result{Outcome: OutcomeNotFound, Err: errors.New(reason)}
}

// Transient reports a network or parse failure.
func Transient(err error) Result {
	return Result{Outcome: OutcomeTransient, Err: err}
}

// fromError classifies a request error. A 4xx other than 429 means the
// provider does not know the DOI; everything else is transient.
func fromError(err error) Result {
	var se *StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests {
		return Result{Outcome: OutcomeNotFound, Err: err}
	}
	return Transient(err)
}

// Request is what a provider receives: the normalized DOI, its
// classification, and any PubMed IDs resolved beforehand.
type Request struct {
	DOI  string
	Hint doi.Hint
	IDs  types.IDs
}

// Provider looks up metadata in one registry. Implementations are stateless
// apart from the shared Client.
type Provider interface {
	// Name identifies the provider in progress output.
	Name() string

	// Applies reports whether the provider should be queried for req.
	Applies(req Request) bool

	// TryResolve queries the registry. It never panics on bad input and
	// maps every failure to NotFound or Transient.
	TryResolve(ctx context.Context, req Request) Result
}

// IDLookup resolves a DOI to PubMed identifiers.
type IDLookup interface {
	LookupIDs(ctx context.Context, doi string) (types.IDs, error)
}

// yearOf returns the leading year of an ISO-style date ("2021-03-04" -> "2021").
func yearOf(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	return strings.SplitN(date, "-", 2)[0]
}

// collapse joins whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
